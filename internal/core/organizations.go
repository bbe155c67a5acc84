package core

import (
	"context"

	"eaccore/internal/identity"
	"eaccore/pkg/domain"
)

func (s *Service) CreateOrganization(ctx context.Context, o domain.Organization) (created domain.Organization, err error) {
	const op = "create_organization"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		if err := domain.ValidateOrganization(op, o); err != nil {
			return "", err
		}
		o.Base = s.newBase()
		compactOrganization(&o)
		created, err = s.store.InsertOrganization(ctx, o)
		return o.ID, persistenceError(op, domain.EntityOrganization, err)
	})
	return created, err
}

func (s *Service) UpdateOrganization(ctx context.Context, id string, patch domain.OrganizationPatch) (updated domain.Organization, err error) {
	const op = "update_organization"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		if err := validateOrganizationPatch(op, patch); err != nil {
			return id, err
		}
		compactOrganizationPatch(&patch)
		updated, err = s.store.UpdateOrganization(ctx, id, patch)
		return id, persistenceError(op, domain.EntityOrganization, err)
	})
	return updated, err
}

func (s *Service) DeleteOrganization(ctx context.Context, id string) error {
	const op = "delete_organization"
	return s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		return id, persistenceError(op, domain.EntityOrganization, s.store.DeleteOrganization(ctx, id))
	})
}

func (s *Service) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	return read(ctx, s, "get_organization", func(ctx context.Context) (domain.Organization, error) {
		return s.store.GetOrganization(ctx, id)
	})
}

func (s *Service) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	return read(ctx, s, "list_organizations", s.store.ListOrganizations)
}
