package core

import (
	"context"

	"eaccore/internal/identity"
	"eaccore/pkg/domain"
)

// CreateProductionSource validates and inserts a production source.
func (s *Service) CreateProductionSource(ctx context.Context, p domain.ProductionSource) (created domain.ProductionSource, err error) {
	const op = "create_production_source"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		if err := domain.ValidateProductionSource(op, p); err != nil {
			return "", err
		}
		p.Base = s.newBase()
		compactProductionSource(&p)
		created, err = s.store.InsertProductionSource(ctx, p)
		return p.ID, persistenceError(op, domain.EntityProductionSource, err)
	})
	return created, err
}

func (s *Service) UpdateProductionSource(ctx context.Context, id string, patch domain.ProductionSourcePatch) (updated domain.ProductionSource, err error) {
	const op = "update_production_source"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		if err := validateProductionSourcePatch(op, patch); err != nil {
			return id, err
		}
		compactProductionSourcePatch(&patch)
		updated, err = s.store.UpdateProductionSource(ctx, id, patch)
		return id, persistenceError(op, domain.EntityProductionSource, err)
	})
	return updated, err
}

// DeleteProductionSource removes the row. Certificates, related sources and
// events pointing at it keep their dangling ids.
func (s *Service) DeleteProductionSource(ctx context.Context, id string) error {
	const op = "delete_production_source"
	return s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		return id, persistenceError(op, domain.EntityProductionSource, s.store.DeleteProductionSource(ctx, id))
	})
}

func (s *Service) GetProductionSource(ctx context.Context, id string) (domain.ProductionSource, error) {
	return read(ctx, s, "get_production_source", func(ctx context.Context) (domain.ProductionSource, error) {
		return s.store.GetProductionSource(ctx, id)
	})
}

func (s *Service) ListProductionSources(ctx context.Context) ([]domain.ProductionSource, error) {
	return read(ctx, s, "list_production_sources", s.store.ListProductionSources)
}
