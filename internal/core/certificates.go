package core

import (
	"context"

	"eaccore/internal/identity"
	"eaccore/pkg/domain"
)

// CreateCertificate validates and inserts a certificate. Any id or timestamps
// on c are replaced.
func (s *Service) CreateCertificate(ctx context.Context, c domain.Certificate) (created domain.Certificate, err error) {
	const op = "create_certificate"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		if err := domain.ValidateCertificate(op, c); err != nil {
			return "", err
		}
		c.Base = s.newBase()
		compactCertificate(&c)
		created, err = s.store.InsertCertificate(ctx, c)
		return c.ID, persistenceError(op, domain.EntityCertificate, err)
	})
	return created, err
}

// UpdateCertificate applies a partial update.
func (s *Service) UpdateCertificate(ctx context.Context, id string, patch domain.CertificatePatch) (updated domain.Certificate, err error) {
	const op = "update_certificate"
	err = s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		if err := validateCertificatePatch(op, patch); err != nil {
			return id, err
		}
		compactCertificatePatch(&patch)
		updated, err = s.store.UpdateCertificate(ctx, id, patch)
		return id, persistenceError(op, domain.EntityCertificate, err)
	})
	return updated, err
}

// DeleteCertificate removes the row. Documents and events naming it are kept.
func (s *Service) DeleteCertificate(ctx context.Context, id string) error {
	const op = "delete_certificate"
	return s.mutate(ctx, op, func(ctx context.Context, _ identity.Principal) (string, error) {
		return id, persistenceError(op, domain.EntityCertificate, s.store.DeleteCertificate(ctx, id))
	})
}

func (s *Service) GetCertificate(ctx context.Context, id string) (domain.Certificate, error) {
	return read(ctx, s, "get_certificate", func(ctx context.Context) (domain.Certificate, error) {
		return s.store.GetCertificate(ctx, id)
	})
}

// ListCertificates returns every certificate, newest first.
func (s *Service) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	return read(ctx, s, "list_certificates", s.store.ListCertificates)
}
