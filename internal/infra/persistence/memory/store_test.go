package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"eaccore/internal/infra/persistence/storetest"
	"eaccore/pkg/domain"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(_ *testing.T, now func() time.Time) domain.PersistentStore {
		return NewStore(now)
	}, storetest.Options{})
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	doc := domain.Document{
		Base:     domain.Base{ID: "doc-1", CreatedAt: time.Now().UTC()},
		URL:      "https://blob/doc-1/a.pdf",
		FileType: domain.FileTypeOther,
		Metadata: []domain.MetadataItem{{Key: "k", Label: "K"}},
	}
	if _, err := store.InsertDocument(ctx, doc); err != nil {
		t.Fatalf("insert: %v", err)
	}
	doc.Metadata[0].Key = "mutated"
	got, err := store.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Metadata[0].Key != "k" {
		t.Fatalf("store aliased caller slice: %+v", got.Metadata)
	}
	got.Metadata[0].Key = "mutated-again"
	again, _ := store.GetDocument(ctx, "doc-1")
	if again.Metadata[0].Key != "k" {
		t.Fatalf("store returned shared slice: %+v", again.Metadata)
	}
}

func TestStoreDefaultClockStampsUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := store.InsertOrganization(ctx, domain.Organization{Base: domain.Base{ID: "org-1", CreatedAt: created, UpdatedAt: created}, Name: "Acme"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	updated, err := store.UpdateOrganization(ctx, "org-1", domain.OrganizationPatch{Name: domain.Set("Acme Energy")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.After(created) || updated.Name != "Acme Energy" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestUnencodableRecordIsAnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	bad := domain.Certificate{
		Base:    domain.Base{ID: "cert-1"},
		Type:    domain.CertificateIREC,
		Amounts: []domain.Amount{{Amount: math.NaN(), Unit: "MWh"}},
	}
	if _, err := store.InsertCertificate(ctx, bad); !domain.IsKind(err, domain.KindPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if _, err := store.GetCertificate(ctx, "cert-1"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("failed insert must not leave a row: %v", err)
	}

	bad.Amounts = []domain.Amount{{Amount: 1, Unit: "MWh"}}
	if _, err := store.InsertCertificate(ctx, bad); err != nil {
		t.Fatalf("insert: %v", err)
	}
	nan := math.NaN()
	patch := domain.CertificatePatch{Amounts: domain.Set([]domain.Amount{{Amount: 1, Unit: "MWh", ConversionFactor: &nan}})}
	if _, err := store.UpdateCertificate(ctx, "cert-1", patch); !domain.IsKind(err, domain.KindPersistence) {
		t.Fatalf("expected persistence error on update, got %v", err)
	}
	got, err := store.GetCertificate(ctx, "cert-1")
	if err != nil || got.Amounts[0].ConversionFactor != nil {
		t.Fatalf("failed update must leave the row untouched: %+v %v", got, err)
	}
}

func TestEmptySlicesReadBackNil(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	created, err := store.InsertOrganization(ctx, domain.Organization{Base: domain.Base{ID: "org-1"}, Name: "Acme", Documents: []string{}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.Documents != nil {
		t.Fatalf("expected nil documents, got %#v", created.Documents)
	}
	updated, err := store.UpdateOrganization(ctx, "org-1", domain.OrganizationPatch{Documents: domain.Set([]string{})})
	if err != nil || updated.Documents != nil {
		t.Fatalf("expected nil documents after update: %#v %v", updated.Documents, err)
	}
}
