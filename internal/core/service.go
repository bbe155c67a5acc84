// Package core exposes the owning-entity services: certificates, production
// sources, organizations and events, their form submission flow and the list
// views built from the summary and target packages.
package core

import (
	"context"
	"time"

	"github.com/google/uuid"

	"eaccore/internal/attachments"
	"eaccore/internal/blob"
	"eaccore/internal/identity"
	"eaccore/internal/observability"
	"eaccore/internal/targets"
	"eaccore/pkg/domain"
)

// Clock supplies timestamps for created_at, updated_at and audit entries.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock. A nil ClockFunc reads the wall clock in UTC.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f().UTC()
}

// Service coordinates the relational store, the attachment manager and the
// identity provider. Mutations check the principal first, then validate, then
// touch the store.
type Service struct {
	store    domain.PersistentStore
	identity identity.Provider
	docs     *attachments.Manager
	targets  *targets.Resolver
	hooks    observability.Hooks
	audit    AuditRecorder
	clock    Clock
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger installs a structured logger.
func WithLogger(l observability.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.hooks.Logger = l
		}
	}
}

// WithMetricsRecorder installs a metrics sink.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.hooks.Metrics = m
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(t observability.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.hooks.Tracer = t
		}
	}
}

// WithAuditRecorder installs the sink receiving one entry per mutation.
func WithAuditRecorder(r AuditRecorder) Option {
	return func(s *Service) {
		if r != nil {
			s.audit = r
		}
	}
}

// WithClock overrides the clock.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator overrides id generation for new records.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService wires a Service. A nil provider means nobody is signed in; a nil
// manager stores attachments in process memory.
func NewService(store domain.PersistentStore, provider identity.Provider, docs *attachments.Manager, opts ...Option) *Service {
	if provider == nil {
		provider = identity.Anonymous()
	}
	s := &Service{
		store:    store,
		identity: provider,
		hooks:    observability.Hooks{}.WithDefaults(),
		audit:    noopAuditRecorder{},
		clock:    ClockFunc(nil),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if docs == nil {
		docs = attachments.NewManager(blob.NewMemory(), store, provider,
			attachments.WithHooks(s.hooks),
			attachments.WithClock(s.clock.Now),
		)
	}
	s.docs = docs
	s.targets = targets.NewResolver(store, store, s.hooks)
	return s
}

// Documents returns the attachment manager shared by the form flows.
func (s *Service) Documents() *attachments.Manager { return s.docs }

// Store returns the underlying persistent store.
func (s *Service) Store() domain.PersistentStore { return s.store }

func (s *Service) newBase() domain.Base {
	now := s.clock.Now()
	return domain.Base{ID: s.newID(), CreatedAt: now, UpdatedAt: now}
}

// mutate runs fn after the principal check and records the outcome. fn
// returns the id of the record it touched.
func (s *Service) mutate(ctx context.Context, op string, fn func(ctx context.Context, actor identity.Principal) (string, error)) (err error) {
	start := s.clock.Now()
	ctx, done := s.hooks.Track(ctx, op)
	var (
		actor    identity.Principal
		entityID string
	)
	defer func() {
		done(err)
		elapsed := s.clock.Now().Sub(start)
		if err != nil {
			s.hooks.Logger.Warn("operation failed", "operation", op, "entity_id", entityID, "error", err)
			s.recordAuditFailure(ctx, op, actor.Subject, entityID, elapsed, err)
			return
		}
		s.hooks.Logger.Debug("operation completed", "operation", op, "entity_id", entityID, "actor", actor.Subject)
		s.recordAuditSuccess(ctx, op, actor.Subject, entityID, elapsed)
	}()

	actor, err = s.identity.Current(ctx)
	if err != nil {
		return domain.NewAuthError(op, err)
	}
	entityID, err = fn(ctx, actor)
	return err
}

// read traces a query without the principal check.
func read[T any](ctx context.Context, s *Service, op string, fn func(ctx context.Context) (T, error)) (out T, err error) {
	ctx, done := s.hooks.Track(ctx, op)
	defer func() { done(err) }()
	return fn(ctx)
}

func persistenceError(op string, entity domain.EntityType, err error) error {
	if err == nil || domain.KindOf(err) != "" {
		return err
	}
	return domain.NewPersistenceError(op, entity, err)
}
