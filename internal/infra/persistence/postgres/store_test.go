package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"eaccore/internal/infra/persistence/postgres/testutil"
	"eaccore/internal/infra/persistence/sqlstore"
	"eaccore/internal/infra/persistence/storetest"
	"eaccore/pkg/domain"
)

func stubStore(t *testing.T, opts ...sqlstore.Option) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "", opts...)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, conn
}

func TestStoreContractOnStubDriver(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) domain.PersistentStore {
		store, _ := stubStore(t, sqlstore.WithClock(now))
		return store
	}, storetest.Options{SkipOrdering: true})
}

func TestNewStoreAppliesDDL(t *testing.T) {
	store, conn := stubStore(t)
	if store.Dialect() != "postgres" {
		t.Fatalf("unexpected dialect %q", store.Dialect())
	}
	created := 0
	for _, stmt := range conn.Execs {
		if strings.HasPrefix(stmt, "CREATE TABLE") {
			created++
		}
	}
	if created != 5 {
		t.Fatalf("expected 5 CREATE TABLE statements, got %d in %v", created, conn.Execs)
	}
}

func TestNewStoreErrors(t *testing.T) {
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("no driver") })
	if _, err := NewStore(context.Background(), "postgres://x"); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open error, got %v", err)
	}
	restore()

	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore = OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping error, got %v", err)
	}

	db2, conn2 := testutil.NewStubDB()
	conn2.FailExec = true
	restore2 := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db2, nil })
	defer restore2()
	if _, err := NewStore(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "execute ddl") {
		t.Fatalf("expected ddl error, got %v", err)
	}
}

func TestStoreSurfacesPgMessage(t *testing.T) {
	wrapped := wrapError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	if got := domain.MessageOf(domain.NewPersistenceError("insert document", domain.EntityDocument, wrapped)); got != "duplicate key value violates unique constraint" {
		t.Fatalf("unexpected message %q", got)
	}
	var pgErr *pgconn.PgError
	if !errors.As(wrapped, &pgErr) || pgErr.Code != "23505" {
		t.Fatalf("expected PgError in chain, got %v", wrapped)
	}
	plain := errors.New("boom")
	if wrapError(plain) != plain {
		t.Fatalf("non-pg errors must pass through")
	}
}

func TestStoreFailuresBecomePersistenceErrors(t *testing.T) {
	ctx := context.Background()
	store, conn := stubStore(t)
	now := time.Now().UTC()
	if _, err := store.InsertCertificate(ctx, domain.Certificate{Base: domain.Base{ID: "c-1", CreatedAt: now, UpdatedAt: now}, Type: domain.CertificateREC, Amounts: []domain.Amount{{Amount: 1, Unit: "MWh"}}}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	conn.FailBegin = true
	if _, err := store.UpdateCertificate(ctx, "c-1", domain.CertificatePatch{}); !domain.IsKind(err, domain.KindPersistence) {
		t.Fatalf("expected persistence error on begin failure, got %v", err)
	}
	conn.FailBegin = false

	conn.FailCommit = true
	if _, err := store.UpdateCertificate(ctx, "c-1", domain.CertificatePatch{}); !domain.IsKind(err, domain.KindPersistence) {
		t.Fatalf("expected persistence error on commit failure, got %v", err)
	}
	conn.FailCommit = false

	conn.FailTables = map[string]bool{"certificates": true}
	if _, err := store.ListCertificates(ctx); !domain.IsKind(err, domain.KindPersistence) {
		t.Fatalf("expected persistence error on query failure, got %v", err)
	}
}

// TestPostgresIntegration runs the contract against a live server when
// EAC_TEST_DATABASE_URL points at a scratch database.
func TestPostgresIntegration(t *testing.T) {
	dsn := os.Getenv("EAC_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("EAC_TEST_DATABASE_URL not set")
	}
	storetest.Run(t, func(t *testing.T, now func() time.Time) domain.PersistentStore {
		store, err := NewStore(context.Background(), dsn, sqlstore.WithClock(now))
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		for _, table := range []string{"events", "documents", "certificates", "production_sources", "organizations"} {
			if _, err := store.DB().Exec("DELETE FROM " + table); err != nil {
				t.Fatalf("truncate %s: %v", table, err)
			}
		}
		t.Cleanup(func() { _ = store.Close() })
		return store
	}, storetest.Options{})
}
