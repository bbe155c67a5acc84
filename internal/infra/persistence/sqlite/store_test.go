package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"eaccore/internal/infra/persistence/sqlstore"
	"eaccore/internal/infra/persistence/storetest"
	"eaccore/pkg/domain"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) domain.PersistentStore {
		path := filepath.Join(t.TempDir(), "contract.db")
		store, err := NewStore(context.Background(), path, sqlstore.WithClock(now))
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		return store
	}, storetest.Options{})
}

func TestStoreReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "eac.db")
	store, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.Path() != path || store.Dialect() != "sqlite" {
		t.Fatalf("unexpected store identity: %s %s", store.Path(), store.Dialect())
	}
	now := time.Now().UTC()
	if _, err := store.InsertOrganization(ctx, domain.Organization{Base: domain.Base{ID: "org-1", CreatedAt: now, UpdatedAt: now}, Name: "Registry"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	got, err := reopened.GetOrganization(ctx, "org-1")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Name != "Registry" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected organization after reopen: %+v", got)
	}
}
