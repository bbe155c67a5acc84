// Package memory provides an in-memory implementation of the persistent store
// used for tests and ephemeral environments.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"eaccore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type memoryState struct {
	documents         map[string]domain.Document
	certificates      map[string]domain.Certificate
	productionSources map[string]domain.ProductionSource
	organizations     map[string]domain.Organization
	events            map[string]domain.Event
}

func newMemoryState() memoryState {
	return memoryState{
		documents:         make(map[string]domain.Document),
		certificates:      make(map[string]domain.Certificate),
		productionSources: make(map[string]domain.ProductionSource),
		organizations:     make(map[string]domain.Organization),
		events:            make(map[string]domain.Event),
	}
}

// Store keeps every record in process memory behind a single RWMutex.
type Store struct {
	mu    sync.RWMutex
	state memoryState
	now   func() time.Time
}

// NewStore returns an empty store. A nil clock defaults to time.Now in UTC.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Store{state: newMemoryState(), now: now}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// clone deep-copies a record so callers never alias stored slices or pointers.
// Empty top-level slices come back nil, the way the SQL adapters read NULL.
func clone[T any](v T) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("memory store clone: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("memory store clone: %w", err)
	}
	nilEmptySlices(reflect.ValueOf(&out).Elem())
	return out, nil
}

func nilEmptySlices(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}
	for i := range v.NumField() {
		f := v.Field(i)
		switch {
		case !f.CanSet():
		case f.Kind() == reflect.Slice && !f.IsNil() && f.Len() == 0:
			f.SetZero()
		}
	}
}

func insert[T any](s *Store, rows map[string]T, entity domain.EntityType, id string, v T) (T, error) {
	op := "insert " + string(entity)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := rows[id]; exists {
		return v, domain.NewPersistenceError(op, entity, fmt.Errorf("%s %s already exists", entity, id))
	}
	stored, err := clone(v)
	if err != nil {
		return v, domain.NewPersistenceError(op, entity, err)
	}
	rows[id] = stored
	out, err := clone(stored)
	if err != nil {
		return v, domain.NewPersistenceError(op, entity, err)
	}
	return out, nil
}

func get[T any](s *Store, rows map[string]T, entity domain.EntityType, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := rows[id]
	if !ok {
		var zero T
		return zero, domain.NewNotFoundError(entity, id)
	}
	out, err := clone(v)
	if err != nil {
		return out, domain.NewPersistenceError("get "+string(entity), entity, err)
	}
	return out, nil
}

// newestFirst orders by created_at descending with id as the tiebreaker,
// matching the SQL adapters.
func newestFirst[T any](out []T, base func(*T) *domain.Base) {
	sort.SliceStable(out, func(i, j int) bool {
		a, b := base(&out[i]), base(&out[j])
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func list[T any](s *Store, rows map[string]T, entity domain.EntityType, base func(*T) *domain.Base, keep func(T) bool) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(rows))
	for _, v := range rows {
		if keep != nil && !keep(v) {
			continue
		}
		c, err := clone(v)
		if err != nil {
			return nil, domain.NewPersistenceError("list "+string(entity), entity, err)
		}
		out = append(out, c)
	}
	newestFirst(out, base)
	return out, nil
}

func update[T any](s *Store, rows map[string]T, entity domain.EntityType, id string, base func(*T) *domain.Base, apply func(*T)) (T, error) {
	op := "update " + string(entity)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := rows[id]
	if !ok {
		var zero T
		return zero, domain.NewNotFoundError(entity, id)
	}
	v, err := clone(v)
	if err != nil {
		return v, domain.NewPersistenceError(op, entity, err)
	}
	apply(&v)
	base(&v).UpdatedAt = s.now()
	stored, err := clone(v)
	if err != nil {
		return v, domain.NewPersistenceError(op, entity, err)
	}
	rows[id] = stored
	out, err := clone(stored)
	if err != nil {
		return v, domain.NewPersistenceError(op, entity, err)
	}
	return out, nil
}

func remove[T any](s *Store, rows map[string]T, entity domain.EntityType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := rows[id]; !ok {
		return domain.NewNotFoundError(entity, id)
	}
	delete(rows, id)
	return nil
}

func documentBase(d *domain.Document) *domain.Base                 { return &d.Base }
func certificateBase(c *domain.Certificate) *domain.Base           { return &c.Base }
func productionSourceBase(p *domain.ProductionSource) *domain.Base { return &p.Base }
func organizationBase(o *domain.Organization) *domain.Base         { return &o.Base }
func eventBase(e *domain.Event) *domain.Base                       { return &e.Base }

func (s *Store) InsertDocument(_ context.Context, d domain.Document) (domain.Document, error) {
	return insert(s, s.state.documents, domain.EntityDocument, d.ID, d)
}

func (s *Store) GetDocument(_ context.Context, id string) (domain.Document, error) {
	return get(s, s.state.documents, domain.EntityDocument, id)
}

// GetDocumentsByIDs answers a set-membership query; unknown ids are skipped.
func (s *Store) GetDocumentsByIDs(_ context.Context, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return list(s, s.state.documents, domain.EntityDocument, documentBase, func(d domain.Document) bool {
		_, ok := wanted[d.ID]
		return ok
	})
}

func (s *Store) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return list(s, s.state.documents, domain.EntityDocument, documentBase, nil)
}

func (s *Store) UpdateDocument(_ context.Context, id string, patch domain.DocumentPatch) (domain.Document, error) {
	return update(s, s.state.documents, domain.EntityDocument, id, documentBase, patch.Apply)
}

func (s *Store) DeleteDocument(_ context.Context, id string) error {
	return remove(s, s.state.documents, domain.EntityDocument, id)
}

func (s *Store) InsertCertificate(_ context.Context, c domain.Certificate) (domain.Certificate, error) {
	return insert(s, s.state.certificates, domain.EntityCertificate, c.ID, c)
}

func (s *Store) GetCertificate(_ context.Context, id string) (domain.Certificate, error) {
	return get(s, s.state.certificates, domain.EntityCertificate, id)
}

func (s *Store) ListCertificates(_ context.Context) ([]domain.Certificate, error) {
	return list(s, s.state.certificates, domain.EntityCertificate, certificateBase, nil)
}

func (s *Store) UpdateCertificate(_ context.Context, id string, patch domain.CertificatePatch) (domain.Certificate, error) {
	return update(s, s.state.certificates, domain.EntityCertificate, id, certificateBase, patch.Apply)
}

func (s *Store) DeleteCertificate(_ context.Context, id string) error {
	return remove(s, s.state.certificates, domain.EntityCertificate, id)
}

func (s *Store) InsertProductionSource(_ context.Context, p domain.ProductionSource) (domain.ProductionSource, error) {
	return insert(s, s.state.productionSources, domain.EntityProductionSource, p.ID, p)
}

func (s *Store) GetProductionSource(_ context.Context, id string) (domain.ProductionSource, error) {
	return get(s, s.state.productionSources, domain.EntityProductionSource, id)
}

func (s *Store) ListProductionSources(_ context.Context) ([]domain.ProductionSource, error) {
	return list(s, s.state.productionSources, domain.EntityProductionSource, productionSourceBase, nil)
}

func (s *Store) UpdateProductionSource(_ context.Context, id string, patch domain.ProductionSourcePatch) (domain.ProductionSource, error) {
	return update(s, s.state.productionSources, domain.EntityProductionSource, id, productionSourceBase, patch.Apply)
}

func (s *Store) DeleteProductionSource(_ context.Context, id string) error {
	return remove(s, s.state.productionSources, domain.EntityProductionSource, id)
}

func (s *Store) InsertOrganization(_ context.Context, o domain.Organization) (domain.Organization, error) {
	return insert(s, s.state.organizations, domain.EntityOrganization, o.ID, o)
}

func (s *Store) GetOrganization(_ context.Context, id string) (domain.Organization, error) {
	return get(s, s.state.organizations, domain.EntityOrganization, id)
}

func (s *Store) ListOrganizations(_ context.Context) ([]domain.Organization, error) {
	return list(s, s.state.organizations, domain.EntityOrganization, organizationBase, nil)
}

func (s *Store) UpdateOrganization(_ context.Context, id string, patch domain.OrganizationPatch) (domain.Organization, error) {
	return update(s, s.state.organizations, domain.EntityOrganization, id, organizationBase, patch.Apply)
}

func (s *Store) DeleteOrganization(_ context.Context, id string) error {
	return remove(s, s.state.organizations, domain.EntityOrganization, id)
}

func (s *Store) InsertEvent(_ context.Context, e domain.Event) (domain.Event, error) {
	return insert(s, s.state.events, domain.EntityEvent, e.ID, e)
}

func (s *Store) GetEvent(_ context.Context, id string) (domain.Event, error) {
	return get(s, s.state.events, domain.EntityEvent, id)
}

func (s *Store) ListEvents(_ context.Context) ([]domain.Event, error) {
	return list(s, s.state.events, domain.EntityEvent, eventBase, nil)
}

func (s *Store) ListEventsByTarget(_ context.Context, target domain.EventTarget, targetID string) ([]domain.Event, error) {
	return list(s, s.state.events, domain.EntityEvent, eventBase, func(e domain.Event) bool {
		return e.Target == target && e.TargetID == targetID
	})
}

func (s *Store) UpdateEvent(_ context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	return update(s, s.state.events, domain.EntityEvent, id, eventBase, patch.Apply)
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	return remove(s, s.state.events, domain.EntityEvent, id)
}
