package blob

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	fsStore, err := Open(ctx, Config{FSRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if fsStore.Driver() != DriverFilesystem {
		t.Fatalf("expected fs default, got %s", fsStore.Driver())
	}
	mem, err := Open(ctx, Config{Driver: DriverMemory})
	if err != nil || mem.Driver() != DriverMemory {
		t.Fatalf("open memory: %v", err)
	}
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	s3Store, err := Open(ctx, Config{Driver: DriverS3, S3: S3Config{Bucket: "b"}})
	if err != nil || s3Store.Driver() != DriverS3 {
		t.Fatalf("open s3: %v", err)
	}
	minioStore, err := Open(ctx, Config{Driver: DriverMinIO, MinIO: MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}})
	if err != nil || minioStore.Driver() != DriverMinIO {
		t.Fatalf("open minio: %v", err)
	}
	if _, err := Open(ctx, Config{Driver: "tape"}); err == nil || !strings.Contains(err.Error(), "unknown blob driver") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
	if _, err := Open(ctx, Config{Driver: DriverS3}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}

// Every driver must honour the same create-only contract.
func TestStoreContract(t *testing.T) {
	fsStore, err := NewFilesystem(t.TempDir(), "https://files.example.org/")
	if err != nil {
		t.Fatalf("fs: %v", err)
	}
	stores := map[string]Store{
		"memory": NewMemory(),
		"fs":     fsStore,
		"s3":     NewFakeS3(),
		"minio":  NewFakeMinIO(),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Put(ctx, "id-1/a.pdf", bytes.NewReader([]byte("one")), PutOptions{ContentType: "application/pdf"}); err != nil {
				t.Fatalf("put: %v", err)
			}
			if _, err := store.Put(ctx, "id-1/a.pdf", bytes.NewReader([]byte("two")), PutOptions{}); !errors.Is(err, ErrExists) {
				t.Fatalf("expected ErrExists, got %v", err)
			}
			if _, err := store.Put(ctx, "id-2/b.pdf", bytes.NewReader([]byte("three")), PutOptions{}); err != nil {
				t.Fatalf("put second: %v", err)
			}
			list, err := store.List(ctx, "id-1/")
			if err != nil || len(list) != 1 || list[0].Key != "id-1/a.pdf" {
				t.Fatalf("list: %v %+v", err, list)
			}
			u, err := store.PublicURL(ctx, "id-1/a.pdf")
			if err != nil || !strings.HasSuffix(u, "/id-1/a.pdf") {
				t.Fatalf("public url: %v %q", err, u)
			}
			if ok, err := store.Delete(ctx, "id-1/a.pdf"); err != nil || !ok {
				t.Fatalf("delete: %v %v", ok, err)
			}
			if ok, err := store.Delete(ctx, "id-1/a.pdf"); err != nil || ok {
				t.Fatalf("delete absent: %v %v", ok, err)
			}
			all, err := store.List(ctx, "")
			if err != nil || len(all) != 1 || all[0].Key != "id-2/b.pdf" {
				t.Fatalf("list all: %v %+v", err, all)
			}
		})
	}
}
