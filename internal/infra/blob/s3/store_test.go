package s3

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"eaccore/internal/blob/core"
)

func TestStore_MockedBasicFlow(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	info, err := store.Put(ctx, "folder/file.txt", bytes.NewReader([]byte("hello")), core.PutOptions{ContentType: "text/plain"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "folder/file.txt" || info.ContentType != "text/plain" || info.Size != 5 || info.ETag != "etag123" {
		t.Fatalf("unexpected info %#v", info)
	}
	if _, err := store.Put(ctx, "folder/file.txt", bytes.NewReader([]byte("ignored")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	list, err := store.List(ctx, "folder/")
	if err != nil || len(list) != 1 || list[0].Key != "folder/file.txt" {
		t.Fatalf("list: %v %+v", err, list)
	}
	if u, err := store.PublicURL(ctx, "folder/file.txt"); err != nil || u != "https://mock.s3.local/mock-bucket/folder/file.txt" {
		t.Fatalf("public url: %v %s", err, u)
	}
	if ok, err := store.Delete(ctx, "folder/file.txt"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "folder/file.txt"); err != nil || ok {
		t.Fatalf("second delete: %v %v", ok, err)
	}
}

func TestStore_PutRaceReportsExists(t *testing.T) {
	rt := &mockRoundTripper{state: make(map[string]mockObj)}
	store := newMockStore(rt, 1000)
	// simulate a concurrent writer landing between HEAD and PUT
	probe := &racingTransport{inner: rt, onPut: func() { rt.state["k"] = mockObj{body: []byte("other")} }}
	store.client = newMockClient(probe)
	_, err := store.Put(context.Background(), "k", bytes.NewReader([]byte("mine")), core.PutOptions{})
	if !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists from precondition failure, got %v", err)
	}
	if string(rt.state["k"].body) != "other" {
		t.Fatalf("existing object overwritten")
	}
}

func TestStore_ListPaginates(t *testing.T) {
	rt := &mockRoundTripper{state: make(map[string]mockObj)}
	store := newMockStore(rt, 2)
	ctx := context.Background()
	for _, k := range []string{"a/3", "a/1", "a/2", "b/1", "a/4"} {
		if _, err := store.Put(ctx, k, bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	list, err := store.List(ctx, "a/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 4 || list[0].Key != "a/1" || list[3].Key != "a/4" {
		t.Fatalf("unexpected listing %+v", list)
	}
	if list, err := store.List(ctx, "zzz/"); err != nil || len(list) != 0 {
		t.Fatalf("expected empty list: %v %+v", err, list)
	}
}

func TestStore_New(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	s, err := New(context.Background(), Config{Bucket: "bkt", Region: "eu-west-1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Driver() != core.DriverS3 {
		t.Fatalf("expected DriverS3")
	}
	if u, _ := s.PublicURL(context.Background(), "id/a.pdf"); u != "https://bkt.s3.eu-west-1.amazonaws.com/id/a.pdf" {
		t.Fatalf("unexpected aws url %s", u)
	}
	s, err = New(context.Background(), Config{Bucket: "bkt", Endpoint: "http://localhost:9000", PathStyle: true, AccessKeyID: "k", SecretAccessKey: "s"})
	if err != nil {
		t.Fatalf("New endpoint: %v", err)
	}
	if u, _ := s.PublicURL(context.Background(), "id/a.pdf"); u != "http://localhost:9000/bkt/id/a.pdf" {
		t.Fatalf("unexpected endpoint url %s", u)
	}
	s, err = New(context.Background(), Config{Bucket: "bkt", PublicBaseURL: "https://cdn.example.org/eac"})
	if err != nil {
		t.Fatalf("New public base: %v", err)
	}
	if u, _ := s.PublicURL(context.Background(), "id/a.pdf"); u != "https://cdn.example.org/eac/id/a.pdf" {
		t.Fatalf("unexpected cdn url %s", u)
	}
}

func TestStore_NewErrors(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
	if _, err := New(context.Background(), Config{Bucket: "b", PublicBaseURL: "://bad"}); err == nil {
		t.Fatalf("expected public base parse error")
	}
	if _, err := NewMockForTests().PublicURL(context.Background(), " "); err == nil {
		t.Fatalf("expected empty key error")
	}
}

func TestStore_HeadFailureSurfaces(t *testing.T) {
	rt := &mockRoundTripper{state: make(map[string]mockObj)}
	store := newMockStore(rt, 1000)
	store.client = newMockClient(statusTransport(http.StatusForbidden))
	if _, err := store.Put(context.Background(), "k", bytes.NewReader([]byte("x")), core.PutOptions{}); err == nil || errors.Is(err, core.ErrExists) {
		t.Fatalf("expected non-exists error, got %v", err)
	}
	if _, err := store.Delete(context.Background(), "k"); err == nil {
		t.Fatalf("expected delete error")
	}
}

func TestDecodeChunkedHelper(t *testing.T) {
	if _, ok := decodeChunked([]byte("not-chunked")); ok {
		t.Fatalf("expected fail 1")
	}
	if _, ok := decodeChunked([]byte("5\r\nabc\r\n0\r\n")); ok {
		t.Fatalf("size mismatch should fail")
	}
	if b, ok := decodeChunked([]byte("5\r\nhello\r\n0\r\n")); !ok || string(b) != "hello" {
		t.Fatalf("expected decode hello")
	}
}

func TestMockRoundTripperUnsupported(t *testing.T) {
	rt := &mockRoundTripper{state: make(map[string]mockObj)}
	req, _ := http.NewRequest(http.MethodPatch, "https://mock.s3.local/bucket/key", nil)
	resp, _ := rt.RoundTrip(req)
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", resp.StatusCode)
	}
}

type racingTransport struct {
	inner *mockRoundTripper
	onPut func()
}

func (r *racingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodPut && r.onPut != nil {
		r.onPut()
	}
	return r.inner.RoundTrip(req)
}

type statusTransport int

func (s statusTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return response(int(s), nil, http.Header{}), nil
}
