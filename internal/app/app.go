// Package app assembles the stores, identity provider, observability sinks and
// core service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"eaccore/internal/attachments"
	"eaccore/internal/blob"
	"eaccore/internal/config"
	"eaccore/internal/core"
	"eaccore/internal/identity"
	"eaccore/internal/observability"
	"eaccore/internal/persistence"
	"eaccore/pkg/domain"
)

// App owns every long-lived resource built from a Config.
type App struct {
	Config   config.Config
	Logger   observability.Logger
	Registry *prometheus.Registry
	Store    domain.PersistentStore
	Blobs    blob.Store
	Identity identity.Provider
	Service  *core.Service

	closers []func() error
}

type options struct {
	logWriter io.Writer
	blobs     blob.Store
	store     domain.PersistentStore
	identity  identity.Provider
}

// Option overrides a resource New would otherwise build from config.
type Option func(*options)

// WithLogWriter sends structured logs to w instead of stderr.
func WithLogWriter(w io.Writer) Option { return func(o *options) { o.logWriter = w } }

// WithBlobStore uses b instead of opening the configured blob driver.
func WithBlobStore(b blob.Store) Option { return func(o *options) { o.blobs = b } }

// WithStore uses s instead of opening the configured database.
func WithStore(s domain.PersistentStore) Option { return func(o *options) { o.store = s } }

// WithIdentity uses p instead of the configured identity mode.
func WithIdentity(p identity.Provider) Option { return func(o *options) { o.identity = p } }

// New opens the configured resources. On failure everything opened so far is closed.
func New(ctx context.Context, cfg config.Config, opts ...Option) (_ *App, err error) {
	o := options{logWriter: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()
	a.Logger = observability.NewZerologLogger(o.logWriter, cfg.Log.Level)
	metrics, err := observability.NewPrometheusRecorder(a.Registry, cfg.Metrics.Namespace)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	hooks := observability.Hooks{
		Logger:  a.Logger,
		Metrics: metrics,
		Tracer:  observability.LogTracer{Logger: a.Logger},
	}

	a.Store = o.store
	if a.Store == nil {
		if a.Store, err = persistence.Open(ctx, cfg.PersistenceConfig()); err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, a.Store.Close)
	}

	a.Blobs = o.blobs
	if a.Blobs == nil {
		if a.Blobs, err = blob.Open(ctx, cfg.BlobConfig()); err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		if c, ok := a.Blobs.(io.Closer); ok {
			a.closers = append(a.closers, c.Close)
		}
	}

	a.Identity = o.identity
	if a.Identity == nil {
		provider, closer, err := NewIdentityProvider(ctx, cfg.Identity)
		if err != nil {
			return nil, err
		}
		a.Identity = provider
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
	}

	docs := attachments.NewManager(a.Blobs, a.Store, a.Identity, attachments.WithHooks(hooks))
	a.Service = core.NewService(a.Store, a.Identity, docs,
		core.WithLogger(hooks.Logger),
		core.WithMetricsRecorder(hooks.Metrics),
		core.WithTracer(hooks.Tracer),
		core.WithAuditRecorder(core.LogAuditRecorder{Logger: a.Logger}),
	)
	return a, nil
}

// NewIdentityProvider builds the provider named by cfg.Mode. The returned
// closer is nil when the provider holds no resources.
func NewIdentityProvider(ctx context.Context, cfg config.Identity) (identity.Provider, func() error, error) {
	switch cfg.Mode {
	case "", config.IdentityStatic:
		return identity.Static{Principal: identity.Principal{Subject: cfg.Subject, Name: cfg.Name, Role: cfg.Role}}, nil, nil
	case config.IdentityJWT:
		p, err := identity.NewJWTProvider([]byte(cfg.JWTSecret), nil)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case config.IdentitySession:
		p, err := identity.NewSessionProvider(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect session store: %w", err)
		}
		return p, p.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown identity mode %q", cfg.Mode)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
