package domain

import "context"

// DocumentStore persists document metadata rows.
type DocumentStore interface {
	// InsertDocument stores a new row. The caller assigns the id and timestamps.
	InsertDocument(ctx context.Context, d Document) (Document, error)
	// GetDocument returns one row or a NotFound error.
	GetDocument(ctx context.Context, id string) (Document, error)
	// GetDocumentsByIDs is a single set-membership query. Unknown ids are skipped.
	GetDocumentsByIDs(ctx context.Context, ids []string) ([]Document, error)
	// ListDocuments returns every row, newest first.
	ListDocuments(ctx context.Context) ([]Document, error)
	// UpdateDocument applies a metadata patch and returns the stored row.
	UpdateDocument(ctx context.Context, id string, patch DocumentPatch) (Document, error)
	// DeleteDocument removes the row. It never touches other records.
	DeleteDocument(ctx context.Context, id string) error
}

// CertificateStore persists certificates.
type CertificateStore interface {
	InsertCertificate(ctx context.Context, c Certificate) (Certificate, error)
	GetCertificate(ctx context.Context, id string) (Certificate, error)
	ListCertificates(ctx context.Context) ([]Certificate, error)
	UpdateCertificate(ctx context.Context, id string, patch CertificatePatch) (Certificate, error)
	DeleteCertificate(ctx context.Context, id string) error
}

// ProductionSourceStore persists production sources.
type ProductionSourceStore interface {
	InsertProductionSource(ctx context.Context, p ProductionSource) (ProductionSource, error)
	GetProductionSource(ctx context.Context, id string) (ProductionSource, error)
	ListProductionSources(ctx context.Context) ([]ProductionSource, error)
	UpdateProductionSource(ctx context.Context, id string, patch ProductionSourcePatch) (ProductionSource, error)
	DeleteProductionSource(ctx context.Context, id string) error
}

// OrganizationStore persists organizations.
type OrganizationStore interface {
	InsertOrganization(ctx context.Context, o Organization) (Organization, error)
	GetOrganization(ctx context.Context, id string) (Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
	UpdateOrganization(ctx context.Context, id string, patch OrganizationPatch) (Organization, error)
	DeleteOrganization(ctx context.Context, id string) error
}

// EventStore persists timeline events.
type EventStore interface {
	InsertEvent(ctx context.Context, e Event) (Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	// ListEventsByTarget is an equality filter on (target, target_id).
	ListEventsByTarget(ctx context.Context, target EventTarget, targetID string) ([]Event, error)
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// PersistentStore is the relational store port consumed by the core.
type PersistentStore interface {
	DocumentStore
	CertificateStore
	ProductionSourceStore
	OrganizationStore
	EventStore
	Close() error
}
