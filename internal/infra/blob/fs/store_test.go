package fs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eaccore/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutIsCreateOnly(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	info, err := store.Put(ctx, "doc-1/report.pdf", strings.NewReader("hello"), core.PutOptions{ContentType: "application/pdf", Metadata: map[string]string{"k": "v"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "doc-1/report.pdf" || info.Size != 5 || len(info.ETag) != 64 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "doc-1/report.pdf", strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	data, err := os.ReadFile(filepath.Join(store.dir, "doc-1", "report.pdf"))
	if err != nil || string(data) != "hello" {
		t.Fatalf("duplicate put must not overwrite: %q %v", data, err)
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"b/two.pdf", "a/one.pdf", "top.pdf"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte(key)), core.PutOptions{Metadata: map[string]string{"k": key}}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	all, err := store.List(ctx, "")
	if err != nil || len(all) != 3 || all[0].Key != "a/one.pdf" || all[2].Key != "top.pdf" {
		t.Fatalf("list all: %v %+v", err, all)
	}
	if all[0].Metadata["k"] != "a/one.pdf" {
		t.Fatalf("metadata not round-tripped: %+v", all[0])
	}
	if list, err := store.List(ctx, "b/"); err != nil || len(list) != 1 {
		t.Fatalf("list prefix: %v %+v", err, list)
	}
	if ok, err := store.Delete(ctx, "b/two.pdf"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "b/two.pdf"); err != nil || ok {
		t.Fatalf("second delete should report absent: %v %v", ok, err)
	}
	if _, err := os.Stat(filepath.Join(store.dir, filepath.FromSlash(sidecarPath("b/two.pdf")))); !os.IsNotExist(err) {
		t.Fatalf("expected sidecar removed, stat err %v", err)
	}
}

func TestSidecarNamesAreUsableKeys(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"doc-1/export.meta.json", "doc-1/export.json", "doc-1/a.meta/b.pdf"} {
		if _, err := store.Put(ctx, key, strings.NewReader(key), core.PutOptions{ContentType: "application/json"}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	list, err := store.List(ctx, "doc-1/")
	if err != nil || len(list) != 3 {
		t.Fatalf("list: %v %+v", err, list)
	}
	if list[0].Key != "doc-1/a.meta/b.pdf" || list[1].Key != "doc-1/export.json" || list[2].Key != "doc-1/export.meta.json" {
		t.Fatalf("unexpected keys %+v", list)
	}
	if list[2].Size != int64(len("doc-1/export.meta.json")) || list[2].ContentType != "application/json" {
		t.Fatalf("sidecar mixed up with data file: %+v", list[2])
	}
	if ok, err := store.Delete(ctx, "doc-1/export.meta.json"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if list, _ := store.List(ctx, "doc-1/"); len(list) != 2 {
		t.Fatalf("expected two files after delete, got %+v", list)
	}
}

func TestEmptyStoreLists(t *testing.T) {
	if list, err := newTempStore(t).List(context.Background(), ""); err != nil || len(list) != 0 {
		t.Fatalf("expected empty list: %v %+v", err, list)
	}
}

func TestFileWithoutSidecarIsNotListed(t *testing.T) {
	store := newTempStore(t)
	if err := os.WriteFile(filepath.Join(store.dir, "stray.bin"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if list, err := store.List(context.Background(), ""); err != nil || len(list) != 0 {
		t.Fatalf("expected stray file hidden: %v %+v", err, list)
	}
}

func TestListCorruptSidecar(t *testing.T) {
	store := newTempStore(t)
	if err := os.MkdirAll(filepath.Join(store.dir, sidecarDir), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.dir, filepath.FromSlash(sidecarPath("bad.txt"))), []byte("{"), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	if _, err := store.List(context.Background(), ""); err == nil {
		t.Fatalf("expected list error on corrupt sidecar")
	}
}

func TestSidecarFailureRemovesFile(t *testing.T) {
	store := newTempStore(t)
	store.encodeSidecar = func(any) ([]byte, error) { return nil, errors.New("encode") }
	if _, err := store.Put(context.Background(), "k/v.bin", strings.NewReader("x"), core.PutOptions{}); err == nil {
		t.Fatalf("expected sidecar error")
	}
	if _, err := os.Stat(filepath.Join(store.dir, "k", "v.bin")); !os.IsNotExist(err) {
		t.Fatalf("expected data file removed, stat err %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestFailedCopyLeavesNoFile(t *testing.T) {
	store := newTempStore(t)
	if _, err := store.Put(context.Background(), "half.bin", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected copy error")
	}
	if _, err := os.Stat(filepath.Join(store.dir, "half.bin")); !os.IsNotExist(err) {
		t.Fatalf("expected partial file removed, stat err %v", err)
	}
}

func TestKeysCannotLeaveTheStore(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"", "../escape", "/abs", "a/../b", sidecarDir, sidecarDir + "/x.pdf.json", "./" + sidecarDir + "/x"} {
		if _, err := cleanKey(key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
	if _, err := store.Put(ctx, "../escape.txt", strings.NewReader("x"), core.PutOptions{}); err == nil {
		t.Fatalf("expected traversal error")
	}
	if _, err := store.Delete(ctx, "/abs"); err == nil {
		t.Fatalf("expected absolute key error")
	}
	if _, err := store.PublicURL(ctx, "a/../b"); err == nil {
		t.Fatalf("expected url key error")
	}
}

func TestPublicURL(t *testing.T) {
	ctx := context.Background()
	if u, err := newTempStore(t).PublicURL(ctx, "id/file.pdf"); err != nil || u != "http://local.blob/id/file.pdf" {
		t.Fatalf("unexpected default url %q %v", u, err)
	}
	custom, err := New(t.TempDir(), "https://files.example.org/docs/")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = custom.Close() }()
	if u, _ := custom.PublicURL(ctx, "id/file.pdf"); u != "https://files.example.org/docs/id/file.pdf" {
		t.Fatalf("unexpected custom url %q", u)
	}
	if _, err := New(t.TempDir(), "://bad"); err == nil {
		t.Fatalf("expected base url parse error")
	}
}

func TestNewRejectsFileRoot(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "afile")
	if err := os.WriteFile(filePath, []byte("x"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := New(filePath, ""); err == nil {
		t.Fatalf("expected error when root is a file")
	}
}

func TestDriver(t *testing.T) {
	if newTempStore(t).Driver() != core.DriverFilesystem {
		t.Fatalf("driver mismatch")
	}
}
