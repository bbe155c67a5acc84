package core

import (
	"context"

	"eaccore/internal/identity"
	"eaccore/internal/refs"
	"eaccore/pkg/domain"
)

// documentIDs reads the documents array of an owning record.
func (s *Service) documentIDs(ctx context.Context, owner domain.EntityType, id string) ([]string, error) {
	switch owner {
	case domain.EntityCertificate:
		c, err := s.store.GetCertificate(ctx, id)
		return c.Documents, err
	case domain.EntityProductionSource:
		p, err := s.store.GetProductionSource(ctx, id)
		return p.Documents, err
	case domain.EntityOrganization:
		o, err := s.store.GetOrganization(ctx, id)
		return o.Documents, err
	case domain.EntityEvent:
		e, err := s.store.GetEvent(ctx, id)
		return e.Documents, err
	default:
		return nil, domain.NewValidationError("documents", owner, "%s records carry no documents", owner)
	}
}

// OwnerDocuments hydrates the documents array of one record into form items,
// preserving order. Missing documents come back as bare items with a
// dangling reference warning.
func (s *Service) OwnerDocuments(ctx context.Context, owner domain.EntityType, id string) (items []refs.DocumentItem, res domain.Result, err error) {
	ctx, done := s.hooks.Track(ctx, "owner_documents")
	defer func() { done(err) }()

	ids, err := s.documentIDs(ctx, owner, id)
	if err != nil {
		return nil, res, err
	}
	docs, err := s.docs.GetDocumentsByIDs(ctx, ids)
	if err != nil {
		return nil, res, persistenceError("owner_documents", domain.EntityDocument, err)
	}
	items, res = refs.HydrateDocuments(owner, id, ids, docs)
	for _, w := range res.Warnings {
		s.hooks.Logger.Warn("dangling document reference", "entity", string(owner), "entity_id", id, "message", w.Message)
	}
	return items, res, nil
}

// AttachDocuments uploads pending items and replaces the documents array of
// the owning record with the projected ids.
func (s *Service) AttachDocuments(ctx context.Context, owner domain.EntityType, id string, items []refs.DocumentItem) (ids []string, res domain.Result, err error) {
	const op = "attach_documents"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		switch owner {
		case domain.EntityCertificate, domain.EntityProductionSource, domain.EntityOrganization, domain.EntityEvent:
		default:
			return id, domain.NewValidationError(op, owner, "%s records carry no documents", owner)
		}
		stored, r, err := s.storeDocuments(ctx, items)
		res.Merge(r)
		if err != nil {
			return id, err
		}
		ids = stored
		patch := domain.Set(ids)
		switch owner {
		case domain.EntityCertificate:
			_, err = s.store.UpdateCertificate(ctx, id, domain.CertificatePatch{Documents: patch})
		case domain.EntityProductionSource:
			_, err = s.store.UpdateProductionSource(ctx, id, domain.ProductionSourcePatch{Documents: patch})
		case domain.EntityOrganization:
			_, err = s.store.UpdateOrganization(ctx, id, domain.OrganizationPatch{Documents: patch})
		case domain.EntityEvent:
			_, err = s.store.UpdateEvent(ctx, id, domain.EventPatch{Documents: patch})
		}
		return id, persistenceError(op, owner, err)
	})
	return ids, res, err
}
