package app

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"eaccore/internal/attachments"
	"eaccore/internal/blob"
	"eaccore/internal/config"
	"eaccore/internal/identity"
	"eaccore/internal/infra/persistence/memory"
	"eaccore/pkg/domain"
)

func memoryConfig() config.Config {
	c := config.Default()
	c.Blob.Driver = "memory"
	c.Database.Driver = "memory"
	c.Identity.Subject = "operator"
	return c
}

func TestNewWiresServiceEndToEnd(t *testing.T) {
	var logs bytes.Buffer
	cfg := memoryConfig()
	cfg.Log.Level = "debug"
	a, err := New(context.Background(), cfg, WithLogWriter(&logs))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = a.Close() }()

	doc, _, err := a.Service.Documents().CreateDocument(context.Background(), attachments.Upload{
		File:     strings.NewReader("pdf"),
		FileName: "Audit Report.pdf",
	})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	if !strings.HasPrefix(doc.URL, "memory://blob/"+doc.ID+"/") {
		t.Fatalf("unexpected url %q", doc.URL)
	}
	if _, err := a.Service.CreateOrganization(context.Background(), domain.Organization{Name: "Issuer"}); err != nil {
		t.Fatalf("create organization: %v", err)
	}
	if n, err := testutil.GatherAndCount(a.Registry); err != nil || n == 0 {
		t.Fatalf("expected gathered metrics, got %d %v", n, err)
	}
	out := logs.String()
	if !strings.Contains(out, `"message":"audit"`) || !strings.Contains(out, `"operation":"create_organization"`) {
		t.Fatalf("expected audit log, got %s", out)
	}
}

func TestNewWithSQLiteAndOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "eac.db")
	blobs := blob.NewMemory()
	a, err := New(context.Background(), cfg,
		WithLogWriter(&bytes.Buffer{}),
		WithBlobStore(blobs),
		WithIdentity(identity.Static{Principal: identity.Principal{Subject: "ci"}}),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.Blobs != blobs {
		t.Fatalf("blob override ignored")
	}
	if _, err := a.Service.CreateEvent(context.Background(), domain.Event{Target: domain.TargetCertificate, TargetID: "c1", Type: "issued"}); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Blob.Driver = "ftp"
	if _, err := New(context.Background(), cfg); err == nil || !strings.Contains(err.Error(), "unknown blob driver") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewFailsOnUnreachableSessionStore(t *testing.T) {
	cfg := memoryConfig()
	cfg.Identity.Mode = config.IdentitySession
	cfg.Identity.RedisURL = "redis://127.0.0.1:1/0"
	store := memory.NewStore(nil)
	if _, err := New(context.Background(), cfg, WithLogWriter(&bytes.Buffer{}), WithStore(store)); err == nil || !strings.Contains(err.Error(), "session store") {
		t.Fatalf("expected session error, got %v", err)
	}
}

func TestNewIdentityProvider(t *testing.T) {
	ctx := context.Background()

	static, closer, err := NewIdentityProvider(ctx, config.Identity{Mode: config.IdentityStatic})
	if err != nil || closer != nil {
		t.Fatalf("static: %v", err)
	}
	if _, err := static.Current(ctx); err == nil {
		t.Fatalf("expected empty static subject to be unauthenticated")
	}

	jwtProvider, _, err := NewIdentityProvider(ctx, config.Identity{Mode: config.IdentityJWT, JWTSecret: "s3cret"})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	token, err := jwtProvider.(*identity.JWTProvider).Issue(identity.Principal{Subject: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if p, err := jwtProvider.Current(identity.WithToken(ctx, token)); err != nil || p.Subject != "u1" {
		t.Fatalf("jwt current: %+v %v", p, err)
	}
	if _, _, err := NewIdentityProvider(ctx, config.Identity{Mode: config.IdentityJWT}); err == nil {
		t.Fatalf("expected missing secret error")
	}

	mr := miniredis.RunT(t)
	session, closer, err := NewIdentityProvider(ctx, config.Identity{Mode: config.IdentitySession, RedisURL: "redis://" + mr.Addr()})
	if err != nil || closer == nil {
		t.Fatalf("session: %v", err)
	}
	defer func() { _ = closer() }()
	sp := session.(*identity.SessionProvider)
	if err := sp.Save(ctx, "tok", identity.Principal{Subject: "u2"}, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if p, err := session.Current(identity.WithToken(ctx, "tok")); err != nil || p.Subject != "u2" {
		t.Fatalf("session current: %+v %v", p, err)
	}

	if _, _, err := NewIdentityProvider(ctx, config.Identity{Mode: "ldap"}); err == nil {
		t.Fatalf("expected unknown mode error")
	}
}
