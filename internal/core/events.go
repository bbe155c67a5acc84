package core

import (
	"context"

	"eaccore/internal/identity"
	"eaccore/pkg/domain"
)

// CreateEvent validates and inserts an event. The target is checked for shape
// only; the referenced certificate or source need not exist.
func (s *Service) CreateEvent(ctx context.Context, e domain.Event) (created domain.Event, err error) {
	const op = "create_event"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		if err := domain.ValidateEvent(op, e); err != nil {
			return "", err
		}
		e.Base = s.newBase()
		compactEvent(&e)
		created, err = s.store.InsertEvent(ctx, e)
		return e.ID, persistenceError(op, domain.EntityEvent, err)
	})
	return created, err
}

// UpdateEvent applies a partial update. The target reference cannot change.
func (s *Service) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (updated domain.Event, err error) {
	const op = "update_event"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		if err := validateEventPatch(op, patch); err != nil {
			return id, err
		}
		compactEventPatch(&patch)
		updated, err = s.store.UpdateEvent(ctx, id, patch)
		return id, persistenceError(op, domain.EntityEvent, err)
	})
	return updated, err
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	const op = "delete_event"
	return s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		return id, persistenceError(op, domain.EntityEvent, s.store.DeleteEvent(ctx, id))
	})
}

func (s *Service) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	return read(ctx, s, "get_event", func(ctx context.Context) (domain.Event, error) {
		return s.store.GetEvent(ctx, id)
	})
}

func (s *Service) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return read(ctx, s, "list_events", s.store.ListEvents)
}

// ListEventsForTarget returns the timeline of one certificate or production
// source, newest first.
func (s *Service) ListEventsForTarget(ctx context.Context, ref domain.TargetRef) ([]domain.Event, error) {
	const op = "list_events_for_target"
	if ref == nil || ref.TargetID() == "" {
		return nil, domain.NewValidationError(op, domain.EntityEvent, "target is required")
	}
	return read(ctx, s, op, func(ctx context.Context) ([]domain.Event, error) {
		return s.store.ListEventsByTarget(ctx, ref.Kind(), ref.TargetID())
	})
}
