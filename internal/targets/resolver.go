// Package targets resolves the polymorphic target of timeline events to
// display labels.
package targets

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"eaccore/internal/observability"
	"eaccore/pkg/domain"
)

// CertificateLister loads every certificate.
type CertificateLister interface {
	ListCertificates(ctx context.Context) ([]domain.Certificate, error)
}

// ProductionSourceLister loads every production source.
type ProductionSourceLister interface {
	ListProductionSources(ctx context.Context) ([]domain.ProductionSource, error)
}

// Labels maps "{target}:{target_id}" to a display label.
type Labels map[string]string

// For returns the label of ref, falling back to "{target} • {target_id}".
func (l Labels) For(ref domain.TargetRef) string {
	if label, ok := l[ref.Key()]; ok {
		return label
	}
	return FallbackLabel(ref)
}

// FallbackLabel is the raw-id label used when a target cannot be resolved.
func FallbackLabel(ref domain.TargetRef) string {
	return fmt.Sprintf("%s • %s", ref.Kind(), ref.TargetID())
}

// CertificateLabel renders the display label of a certificate.
func CertificateLabel(c domain.Certificate) string {
	return fmt.Sprintf("Certificate • %s", c.Type)
}

// ProductionSourceLabel renders the display label of a production source.
func ProductionSourceLabel(p domain.ProductionSource) string {
	return fmt.Sprintf("Production Source • %s", p.DisplayName())
}

// Resolver labels event targets using injected lookups.
type Resolver struct {
	certificates CertificateLister
	sources      ProductionSourceLister
	hooks        observability.Hooks
}

// NewResolver returns a Resolver. Zero hooks fall back to no-ops.
func NewResolver(certs CertificateLister, sources ProductionSourceLister, hooks observability.Hooks) *Resolver {
	return &Resolver{certificates: certs, sources: sources, hooks: hooks.WithDefaults()}
}

// Resolve loads all certificates and all production sources once, concurrently,
// and labels every event target. A failed load is not an error: the label
// map comes back empty and the failure is reported as a warning, so callers
// render fallback labels.
func (r *Resolver) Resolve(ctx context.Context, events []domain.Event) (Labels, domain.Result) {
	var res domain.Result
	labels := make(Labels, len(events))
	ctx, done := r.hooks.Track(ctx, "resolve_targets")
	var (
		certs   []domain.Certificate
		sources []domain.ProductionSource
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		certs, err = r.certificates.ListCertificates(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sources, err = r.sources.ListProductionSources(gctx)
		return err
	})
	err := g.Wait()
	done(err)
	if err != nil {
		res.Add(domain.Warning{
			Code:     domain.WarnLabelsUnavailable,
			Severity: domain.SeverityWarn,
			Message:  "target labels unavailable: " + domain.MessageOf(err),
			Entity:   domain.EntityEvent,
		})
		r.hooks.Logger.Warn("target labels unavailable", "error", err)
		return Labels{}, res
	}

	certLabels := make(map[string]string, len(certs))
	for _, c := range certs {
		certLabels[c.ID] = CertificateLabel(c)
	}
	sourceLabels := make(map[string]string, len(sources))
	for _, p := range sources {
		sourceLabels[p.ID] = ProductionSourceLabel(p)
	}

	for _, e := range events {
		ref := e.Ref()
		var (
			label string
			ok    bool
		)
		switch t := ref.(type) {
		case domain.CertificateTarget:
			label, ok = certLabels[t.ID]
		case domain.ProductionSourceTarget:
			label, ok = sourceLabels[t.ID]
		case domain.UnknownTarget:
			res.Add(domain.Warning{
				Code:     domain.WarnUnknownTarget,
				Severity: domain.SeverityLog,
				Message:  fmt.Sprintf("event %s has unknown target kind %q", e.ID, t.Target),
				Entity:   domain.EntityEvent,
				EntityID: e.ID,
			})
		}
		if !ok {
			label = FallbackLabel(ref)
		}
		labels[ref.Key()] = label
	}
	return labels, res
}
