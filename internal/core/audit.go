package core

import (
	"context"
	"time"

	"eaccore/internal/observability"
	"eaccore/pkg/domain"
)

// Action is the kind of mutation an audit entry describes.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// AuditStatus is the outcome of an audited operation.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one mutation attempt.
type AuditEntry struct {
	Operation string
	Entity    domain.EntityType
	Action    Action
	EntityID  string
	Actor     string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives audit entries. Implementations must not block.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

// LogAuditRecorder writes audit entries to a logger at info level.
type LogAuditRecorder struct {
	Logger observability.Logger
}

func (r LogAuditRecorder) Record(_ context.Context, e AuditEntry) {
	if r.Logger == nil {
		return
	}
	r.Logger.Info("audit",
		"operation", e.Operation,
		"entity", string(e.Entity),
		"action", string(e.Action),
		"entity_id", e.EntityID,
		"actor", e.Actor,
		"status", string(e.Status),
		"error", e.Error,
		"duration_ms", e.Duration.Milliseconds(),
	)
}

type operationMeta struct {
	entity domain.EntityType
	action Action
}

var auditedOperations = map[string]operationMeta{
	"create_certificate":            {domain.EntityCertificate, ActionCreate},
	"update_certificate":            {domain.EntityCertificate, ActionUpdate},
	"delete_certificate":            {domain.EntityCertificate, ActionDelete},
	"submit_certificate_form":       {domain.EntityCertificate, ActionCreate},
	"create_production_source":      {domain.EntityProductionSource, ActionCreate},
	"update_production_source":      {domain.EntityProductionSource, ActionUpdate},
	"delete_production_source":      {domain.EntityProductionSource, ActionDelete},
	"submit_production_source_form": {domain.EntityProductionSource, ActionCreate},
	"create_organization":           {domain.EntityOrganization, ActionCreate},
	"update_organization":           {domain.EntityOrganization, ActionUpdate},
	"delete_organization":           {domain.EntityOrganization, ActionDelete},
	"submit_organization_form":      {domain.EntityOrganization, ActionCreate},
	"create_event":                  {domain.EntityEvent, ActionCreate},
	"update_event":                  {domain.EntityEvent, ActionUpdate},
	"delete_event":                  {domain.EntityEvent, ActionDelete},
	"submit_event_form":             {domain.EntityEvent, ActionCreate},
	"attach_documents":              {domain.EntityDocument, ActionUpdate},
}

func (s *Service) recordAuditSuccess(ctx context.Context, op, actor, entityID string, duration time.Duration) {
	s.recordAudit(ctx, op, actor, entityID, duration, nil)
}

func (s *Service) recordAuditFailure(ctx context.Context, op, actor, entityID string, duration time.Duration, err error) {
	s.recordAudit(ctx, op, actor, entityID, duration, err)
}

// recordAudit ignores operations missing from the audited set.
func (s *Service) recordAudit(ctx context.Context, op, actor, entityID string, duration time.Duration, err error) {
	meta, ok := auditedOperations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		Actor:     actor,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = domain.MessageOf(err)
	}
	s.audit.Record(ctx, entry)
}
