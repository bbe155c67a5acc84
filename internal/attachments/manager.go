// Package attachments persists uploaded files as documents across the object
// store and the relational store. The two stores share no transaction:
// creation is a two-step saga whose compensating action deletes the uploaded
// object when the metadata row cannot be written.
package attachments

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"eaccore/internal/blob"
	"eaccore/internal/identity"
	"eaccore/internal/observability"
	"eaccore/pkg/domain"
)

// Upload is one pending file plus the metadata recorded alongside it.
type Upload struct {
	File          io.Reader
	FileName      string
	ContentType   string
	FileType      domain.FileType
	Title         *string
	Description   *string
	Metadata      []domain.MetadataItem
	Organizations []domain.OrganizationRole
}

// Manager owns the document lifecycle.
type Manager struct {
	blobs    blob.Store
	docs     domain.DocumentStore
	identity identity.Provider
	hooks    observability.Hooks
	newID    func() string
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithHooks installs logging, metrics and tracing sinks.
func WithHooks(h observability.Hooks) Option {
	return func(m *Manager) { m.hooks = h.WithDefaults() }
}

// WithIDGenerator overrides document id generation.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithClock overrides the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager wires a Manager to explicit store handles.
func NewManager(blobs blob.Store, docs domain.DocumentStore, provider identity.Provider, opts ...Option) *Manager {
	if provider == nil {
		provider = identity.Anonymous()
	}
	m := &Manager{
		blobs:    blobs,
		docs:     docs,
		identity: provider,
		hooks:    observability.Hooks{}.WithDefaults(),
		newID:    uuid.NewString,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) authorize(ctx context.Context, op string) (identity.Principal, error) {
	p, err := m.identity.Current(ctx)
	if err != nil {
		return identity.Principal{}, domain.NewAuthError(op, err)
	}
	return p, nil
}

// CreateDocument uploads the file and inserts its metadata row. When the URL
// lookup or the insert fails after a successful upload, the object is deleted
// once; a failed delete is reported in the Result and never replaces the
// original error.
func (m *Manager) CreateDocument(ctx context.Context, up Upload) (doc domain.Document, res domain.Result, err error) {
	const op = "create_document"
	ctx, done := m.hooks.Track(ctx, op)
	defer func() { done(err) }()

	principal, err := m.authorize(ctx, op)
	if err != nil {
		return domain.Document{}, res, err
	}
	if up.File == nil {
		return domain.Document{}, res, domain.NewValidationError(op, domain.EntityDocument, "file is required")
	}
	fileType := up.FileType
	if fileType == "" {
		fileType = domain.FileTypeOrganizationDocument
	}
	if !fileType.Valid() {
		return domain.Document{}, res, domain.NewValidationError(op, domain.EntityDocument, "unknown file type %q", up.FileType)
	}

	id := m.newID()
	key := ObjectKey(id, SanitizeFileName(up.FileName))
	if _, err := m.blobs.Put(ctx, key, up.File, blob.PutOptions{
		ContentType: up.ContentType,
		Metadata:    map[string]string{"document-id": id, "uploaded-by": principal.Subject},
	}); err != nil {
		return domain.Document{}, res, domain.NewStorageError(op, key, err)
	}

	url, err := m.blobs.PublicURL(ctx, key)
	if err != nil {
		res.Merge(m.compensate(ctx, id, key))
		return domain.Document{}, res, domain.NewStorageError(op, key, err)
	}

	now := m.now()
	inserted, err := m.docs.InsertDocument(ctx, domain.Document{
		Base:          domain.Base{ID: id, CreatedAt: now, UpdatedAt: now},
		URL:           url,
		FileType:      fileType,
		Title:         up.Title,
		Description:   up.Description,
		Metadata:      up.Metadata,
		Organizations: up.Organizations,
	})
	if err != nil {
		res.Merge(m.compensate(ctx, id, key))
		return domain.Document{}, res, persistenceError(op, err)
	}
	m.hooks.Logger.Info("document created", "document_id", id, "key", key, "actor", principal.Subject)
	return inserted, res, nil
}

// compensate deletes the uploaded object exactly once. It ignores caller
// cancellation so an abandoned request still cleans up.
func (m *Manager) compensate(ctx context.Context, id, key string) domain.Result {
	const op = "compensate_document"
	ctx, done := m.hooks.Track(context.WithoutCancel(ctx), op)
	var res domain.Result
	deleted, err := m.blobs.Delete(ctx, key)
	done(err)
	switch {
	case err != nil:
		res.Add(domain.Warning{
			Code:     domain.WarnCompensationFailed,
			Severity: domain.SeverityWarn,
			Message:  "delete uploaded object " + key + ": " + domain.MessageOf(err),
			Entity:   domain.EntityDocument,
			EntityID: id,
		})
		m.hooks.Logger.Warn("compensation failed", "document_id", id, "key", key, "error", err)
	case !deleted:
		m.hooks.Logger.Warn("compensation found no object", "document_id", id, "key", key)
	default:
		m.hooks.Logger.Info("compensation removed object", "document_id", id, "key", key)
	}
	return res
}

// GetDocument returns one document or a NotFound error.
func (m *Manager) GetDocument(ctx context.Context, id string) (domain.Document, error) {
	return m.docs.GetDocument(ctx, id)
}

// GetDocumentsByIDs loads the named documents with one set-membership query.
// An empty id list returns an empty slice without touching the store.
func (m *Manager) GetDocumentsByIDs(ctx context.Context, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}
	return m.docs.GetDocumentsByIDs(ctx, ids)
}

// ListDocuments returns every document, newest first.
func (m *Manager) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	return m.docs.ListDocuments(ctx)
}

// UpdateDocument applies metadata edits. The stored object is never touched.
func (m *Manager) UpdateDocument(ctx context.Context, id string, patch domain.DocumentPatch) (doc domain.Document, err error) {
	const op = "update_document"
	ctx, done := m.hooks.Track(ctx, op)
	defer func() { done(err) }()

	if _, err := m.authorize(ctx, op); err != nil {
		return domain.Document{}, err
	}
	if patch.FileType.IsSet() && !patch.FileType.Value().Valid() {
		return domain.Document{}, domain.NewValidationError(op, domain.EntityDocument, "unknown file type %q", patch.FileType.Value())
	}
	return m.docs.UpdateDocument(ctx, id, patch)
}

// DeleteDocument removes the metadata row only. The stored object stays in
// place and reference arrays naming id are left as they are.
func (m *Manager) DeleteDocument(ctx context.Context, id string) (err error) {
	const op = "delete_document"
	ctx, done := m.hooks.Track(ctx, op)
	defer func() { done(err) }()

	if _, err := m.authorize(ctx, op); err != nil {
		return err
	}
	return m.docs.DeleteDocument(ctx, id)
}

// FindOrphans lists stored objects whose id segment names no document row,
// for example after a crash between upload and insert. Nothing is deleted.
func (m *Manager) FindOrphans(ctx context.Context) ([]blob.Info, error) {
	const op = "find_orphans"
	objects, err := m.blobs.List(ctx, "")
	if err != nil {
		return nil, domain.NewStorageError(op, "", err)
	}
	byID := make(map[string][]blob.Info)
	ids := make([]string, 0)
	for _, obj := range objects {
		id, _, _ := strings.Cut(obj.Key, "/")
		if _, seen := byID[id]; !seen {
			ids = append(ids, id)
		}
		byID[id] = append(byID[id], obj)
	}
	docs, err := m.GetDocumentsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		delete(byID, d.ID)
	}
	orphans := make([]blob.Info, 0)
	for _, id := range ids {
		orphans = append(orphans, byID[id]...)
	}
	return orphans, nil
}

func persistenceError(op string, err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return domain.NewPersistenceError(op, domain.EntityDocument, err)
}
