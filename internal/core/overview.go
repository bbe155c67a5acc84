package core

import (
	"context"

	"eaccore/internal/summary"
	"eaccore/internal/targets"
	"eaccore/pkg/domain"
)

// Overview is a list view: the records plus their dashboard statistics.
type Overview[T any] struct {
	Items   []T             `json:"items"`
	Summary summary.Summary `json:"summary"`
}

// EventListing is the event list view. Labels maps "{target}:{target_id}" to
// a display label for every known target.
type EventListing struct {
	Overview[domain.Event]
	Labels targets.Labels `json:"labels"`
}

// Label returns the display label for the target of e.
func (l EventListing) Label(e domain.Event) string {
	return l.Labels.For(e.Ref())
}

func overview[T any](ctx context.Context, s *Service, op string, list func(context.Context) ([]T, error), spec summary.Spec[T]) (Overview[T], error) {
	return read(ctx, s, op, func(ctx context.Context) (Overview[T], error) {
		items, err := list(ctx)
		if err != nil {
			return Overview[T]{}, err
		}
		return Overview[T]{Items: items, Summary: summary.Summarize(items, spec)}, nil
	})
}

func (s *Service) CertificateOverview(ctx context.Context) (Overview[domain.Certificate], error) {
	return overview(ctx, s, "certificate_overview", s.store.ListCertificates, summary.Certificates)
}

func (s *Service) ProductionSourceOverview(ctx context.Context) (Overview[domain.ProductionSource], error) {
	return overview(ctx, s, "production_source_overview", s.store.ListProductionSources, summary.ProductionSources)
}

func (s *Service) OrganizationOverview(ctx context.Context) (Overview[domain.Organization], error) {
	return overview(ctx, s, "organization_overview", s.store.ListOrganizations, summary.Organizations)
}

// EventOverview lists events with their statistics and target labels. A
// failed label load degrades to fallback labels and a warning.
func (s *Service) EventOverview(ctx context.Context) (EventListing, domain.Result, error) {
	base, err := overview(ctx, s, "event_overview", s.store.ListEvents, summary.Events)
	if err != nil {
		return EventListing{}, domain.Result{}, err
	}
	labels, res := s.targets.Resolve(ctx, base.Items)
	return EventListing{Overview: base, Labels: labels}, res, nil
}

// TargetLabels resolves display labels for events loaded elsewhere.
func (s *Service) TargetLabels(ctx context.Context, events []domain.Event) (targets.Labels, domain.Result) {
	return s.targets.Resolve(ctx, events)
}
