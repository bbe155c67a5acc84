package sqlstore

import (
	"context"
	"database/sql"

	"eaccore/pkg/domain"
)

var documentsTable = table[domain.Document]{
	name:    "documents",
	entity:  domain.EntityDocument,
	columns: []string{"id", "url", "file_type", "title", "description", "metadata", "organizations", "created_at", "updated_at"},
	values: func(e *encoder, d domain.Document) []any {
		return []any{d.ID, d.URL, string(d.FileType), optString(d.Title), optString(d.Description),
			e.json(d.Metadata), e.json(d.Organizations), e.time(d.CreatedAt), e.time(d.UpdatedAt)}
	},
	scan: func(dec *decoder, row scanner) (domain.Document, error) {
		var d domain.Document
		var fileType string
		var title, description, metadata, orgs sql.NullString
		var created, updated any
		if err := row.Scan(&d.ID, &d.URL, &fileType, &title, &description, &metadata, &orgs, &created, &updated); err != nil {
			return d, err
		}
		d.FileType = domain.FileType(fileType)
		d.Title, d.Description = stringPtr(title), stringPtr(description)
		dec.json(metadata, &d.Metadata)
		dec.json(orgs, &d.Organizations)
		d.CreatedAt, d.UpdatedAt = dec.time(created), dec.time(updated)
		return d, dec.err
	},
	base: func(d *domain.Document) *domain.Base { return &d.Base },
}

var certificatesTable = table[domain.Certificate]{
	name:    "certificates",
	entity:  domain.EntityCertificate,
	columns: []string{"id", "type", "amounts", "external_ids", "emissions", "links", "documents", "production_source_id", "created_at", "updated_at"},
	values: func(e *encoder, c domain.Certificate) []any {
		return []any{c.ID, string(c.Type), e.json(c.Amounts), e.json(c.ExternalIDs), e.json(c.Emissions),
			e.json(c.Links), e.json(c.Documents), optString(c.ProductionSourceID), e.time(c.CreatedAt), e.time(c.UpdatedAt)}
	},
	scan: func(dec *decoder, row scanner) (domain.Certificate, error) {
		var c domain.Certificate
		var typ string
		var amounts, externalIDs, emissions, links, documents, sourceID sql.NullString
		var created, updated any
		if err := row.Scan(&c.ID, &typ, &amounts, &externalIDs, &emissions, &links, &documents, &sourceID, &created, &updated); err != nil {
			return c, err
		}
		c.Type = domain.CertificateType(typ)
		dec.json(amounts, &c.Amounts)
		dec.json(externalIDs, &c.ExternalIDs)
		dec.json(emissions, &c.Emissions)
		dec.json(links, &c.Links)
		dec.json(documents, &c.Documents)
		c.ProductionSourceID = stringPtr(sourceID)
		c.CreatedAt, c.UpdatedAt = dec.time(created), dec.time(updated)
		return c, dec.err
	},
	base: func(c *domain.Certificate) *domain.Base { return &c.Base },
}

var productionSourcesTable = table[domain.ProductionSource]{
	name:   "production_sources",
	entity: domain.EntityProductionSource,
	columns: []string{"id", "name", "description", "technology", "eac_types", "labels", "operation_start_date", "location",
		"links", "documents", "external_ids", "related_production_sources", "organizations", "metadata", "events",
		"created_at", "updated_at"},
	values: func(e *encoder, p domain.ProductionSource) []any {
		return []any{p.ID, optString(p.Name), optString(p.Description), e.json(p.Technology), e.json(p.EACTypes),
			e.json(p.Labels), e.optTime(p.OperationStartDate), e.json(p.Location), e.json(p.Links), e.json(p.Documents),
			e.json(p.ExternalIDs), e.json(p.RelatedProductionSources), e.json(p.Organizations), e.json(p.Metadata),
			e.json(p.Events), e.time(p.CreatedAt), e.time(p.UpdatedAt)}
	},
	scan: func(dec *decoder, row scanner) (domain.ProductionSource, error) {
		var p domain.ProductionSource
		var name, description, technology, eacTypes, labels, location, links, documents sql.NullString
		var externalIDs, related, orgs, metadata, events sql.NullString
		var started, created, updated any
		if err := row.Scan(&p.ID, &name, &description, &technology, &eacTypes, &labels, &started, &location, &links,
			&documents, &externalIDs, &related, &orgs, &metadata, &events, &created, &updated); err != nil {
			return p, err
		}
		p.Name, p.Description = stringPtr(name), stringPtr(description)
		dec.json(technology, &p.Technology)
		dec.json(eacTypes, &p.EACTypes)
		dec.json(labels, &p.Labels)
		p.OperationStartDate = dec.optTime(started)
		dec.json(location, &p.Location)
		dec.json(links, &p.Links)
		dec.json(documents, &p.Documents)
		dec.json(externalIDs, &p.ExternalIDs)
		dec.json(related, &p.RelatedProductionSources)
		dec.json(orgs, &p.Organizations)
		dec.json(metadata, &p.Metadata)
		dec.json(events, &p.Events)
		p.CreatedAt, p.UpdatedAt = dec.time(created), dec.time(updated)
		return p, dec.err
	},
	base: func(p *domain.ProductionSource) *domain.Base { return &p.Base },
}

var organizationsTable = table[domain.Organization]{
	name:    "organizations",
	entity:  domain.EntityOrganization,
	columns: []string{"id", "name", "url", "description", "contacts", "location", "external_ids", "documents", "created_at", "updated_at"},
	values: func(e *encoder, o domain.Organization) []any {
		return []any{o.ID, o.Name, optString(o.URL), optString(o.Description), e.json(o.Contacts), e.json(o.Location),
			e.json(o.ExternalIDs), e.json(o.Documents), e.time(o.CreatedAt), e.time(o.UpdatedAt)}
	},
	scan: func(dec *decoder, row scanner) (domain.Organization, error) {
		var o domain.Organization
		var url, description, contacts, location, externalIDs, documents sql.NullString
		var created, updated any
		if err := row.Scan(&o.ID, &o.Name, &url, &description, &contacts, &location, &externalIDs, &documents, &created, &updated); err != nil {
			return o, err
		}
		o.URL, o.Description = stringPtr(url), stringPtr(description)
		dec.json(contacts, &o.Contacts)
		dec.json(location, &o.Location)
		dec.json(externalIDs, &o.ExternalIDs)
		dec.json(documents, &o.Documents)
		o.CreatedAt, o.UpdatedAt = dec.time(created), dec.time(updated)
		return o, dec.err
	},
	base: func(o *domain.Organization) *domain.Base { return &o.Base },
}

var eventsTable = table[domain.Event]{
	name:   "events",
	entity: domain.EntityEvent,
	columns: []string{"id", "target", "target_id", "type", "value", "dates", "location", "organizations", "notes",
		"documents", "links", "metadata", "created_at", "updated_at"},
	values: func(e *encoder, ev domain.Event) []any {
		return []any{ev.ID, string(ev.Target), ev.TargetID, ev.Type, optString(ev.Value), e.json(ev.Dates), e.json(ev.Location),
			e.json(ev.Organizations), optString(ev.Notes), e.json(ev.Documents), e.json(ev.Links), e.json(ev.Metadata),
			e.time(ev.CreatedAt), e.time(ev.UpdatedAt)}
	},
	scan: func(dec *decoder, row scanner) (domain.Event, error) {
		var ev domain.Event
		var target string
		var value, dates, location, orgs, notes, documents, links, metadata sql.NullString
		var created, updated any
		if err := row.Scan(&ev.ID, &target, &ev.TargetID, &ev.Type, &value, &dates, &location, &orgs, &notes,
			&documents, &links, &metadata, &created, &updated); err != nil {
			return ev, err
		}
		ev.Target = domain.EventTarget(target)
		ev.Value, ev.Notes = stringPtr(value), stringPtr(notes)
		dec.json(dates, &ev.Dates)
		dec.json(location, &ev.Location)
		dec.json(orgs, &ev.Organizations)
		dec.json(documents, &ev.Documents)
		dec.json(links, &ev.Links)
		dec.json(metadata, &ev.Metadata)
		ev.CreatedAt, ev.UpdatedAt = dec.time(created), dec.time(updated)
		return ev, dec.err
	},
	base: func(ev *domain.Event) *domain.Base { return &ev.Base },
}

func (s *Store) InsertDocument(ctx context.Context, d domain.Document) (domain.Document, error) {
	return insertRow(ctx, s, documentsTable, d)
}

func (s *Store) GetDocument(ctx context.Context, id string) (domain.Document, error) {
	return getRow(ctx, s.db, s, documentsTable, id)
}

func (s *Store) GetDocumentsByIDs(ctx context.Context, ids []string) ([]domain.Document, error) {
	return rowsByIDs(ctx, s, documentsTable, ids)
}

func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	return listRows(ctx, s, documentsTable, "")
}

func (s *Store) UpdateDocument(ctx context.Context, id string, patch domain.DocumentPatch) (domain.Document, error) {
	return updateRow(ctx, s, documentsTable, id, patch.Apply)
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	return deleteRow(ctx, s, documentsTable, id)
}

func (s *Store) InsertCertificate(ctx context.Context, c domain.Certificate) (domain.Certificate, error) {
	return insertRow(ctx, s, certificatesTable, c)
}

func (s *Store) GetCertificate(ctx context.Context, id string) (domain.Certificate, error) {
	return getRow(ctx, s.db, s, certificatesTable, id)
}

func (s *Store) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	return listRows(ctx, s, certificatesTable, "")
}

func (s *Store) UpdateCertificate(ctx context.Context, id string, patch domain.CertificatePatch) (domain.Certificate, error) {
	return updateRow(ctx, s, certificatesTable, id, patch.Apply)
}

func (s *Store) DeleteCertificate(ctx context.Context, id string) error {
	return deleteRow(ctx, s, certificatesTable, id)
}

func (s *Store) InsertProductionSource(ctx context.Context, p domain.ProductionSource) (domain.ProductionSource, error) {
	return insertRow(ctx, s, productionSourcesTable, p)
}

func (s *Store) GetProductionSource(ctx context.Context, id string) (domain.ProductionSource, error) {
	return getRow(ctx, s.db, s, productionSourcesTable, id)
}

func (s *Store) ListProductionSources(ctx context.Context) ([]domain.ProductionSource, error) {
	return listRows(ctx, s, productionSourcesTable, "")
}

func (s *Store) UpdateProductionSource(ctx context.Context, id string, patch domain.ProductionSourcePatch) (domain.ProductionSource, error) {
	return updateRow(ctx, s, productionSourcesTable, id, patch.Apply)
}

func (s *Store) DeleteProductionSource(ctx context.Context, id string) error {
	return deleteRow(ctx, s, productionSourcesTable, id)
}

func (s *Store) InsertOrganization(ctx context.Context, o domain.Organization) (domain.Organization, error) {
	return insertRow(ctx, s, organizationsTable, o)
}

func (s *Store) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	return getRow(ctx, s.db, s, organizationsTable, id)
}

func (s *Store) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	return listRows(ctx, s, organizationsTable, "")
}

func (s *Store) UpdateOrganization(ctx context.Context, id string, patch domain.OrganizationPatch) (domain.Organization, error) {
	return updateRow(ctx, s, organizationsTable, id, patch.Apply)
}

func (s *Store) DeleteOrganization(ctx context.Context, id string) error {
	return deleteRow(ctx, s, organizationsTable, id)
}

func (s *Store) InsertEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	return insertRow(ctx, s, eventsTable, e)
}

func (s *Store) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	return getRow(ctx, s.db, s, eventsTable, id)
}

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return listRows(ctx, s, eventsTable, "")
}

func (s *Store) ListEventsByTarget(ctx context.Context, target domain.EventTarget, targetID string) ([]domain.Event, error) {
	return listRows(ctx, s, eventsTable, "target = ? AND target_id = ?", string(target), targetID)
}

func (s *Store) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	return updateRow(ctx, s, eventsTable, id, patch.Apply)
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return deleteRow(ctx, s, eventsTable, id)
}
