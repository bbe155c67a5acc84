package minio

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// NewMockForTests returns a Store whose client talks to an in-memory fake
// MinIO server through a custom http.RoundTripper.
func NewMockForTests() *Store {
	s, err := New(Config{
		Endpoint:        "minio.local:9000",
		Bucket:          "eac-docs",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Transport:       &fakeServer{objects: make(map[string][]byte)},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// fakeServer answers the path-style HEAD/PUT/DELETE/ListObjectsV2 requests minio-go issues.
type fakeServer struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeServer) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	if req.Body != nil {
		defer req.Body.Close()
	}
	if req.Method == http.MethodGet && key == "" && req.URL.Query().Get("list-type") == "2" {
		return f.list(req.URL.Query().Get("prefix")), nil
	}
	switch req.Method {
	case http.MethodHead:
		body, ok := f.objects[key]
		if !ok {
			return reply(http.StatusNotFound, nil, http.Header{}), nil
		}
		return reply(http.StatusOK, nil, http.Header{
			"Content-Length": {strconv.Itoa(len(body))},
			"Content-Type":   {"application/octet-stream"},
			"Etag":           {"\"etag-minio\""},
			"Last-Modified":  {time.Now().UTC().Format(http.TimeFormat)},
		}), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		return reply(http.StatusOK, nil, http.Header{"Etag": {"\"etag-minio\""}}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return reply(http.StatusNoContent, nil, http.Header{}), nil
	}
	return reply(http.StatusNotImplemented, nil, http.Header{}), nil
}

func (f *fakeServer) list(prefix string) *http.Response {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Name>eac-docs</Name>`)
	fmt.Fprintf(&b, "<Prefix>%s</Prefix><KeyCount>%d</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>", prefix, len(keys))
	for _, k := range keys {
		fmt.Fprintf(&b, `<Contents><Key>%s</Key><LastModified>2024-01-01T00:00:00.000Z</LastModified><ETag>"etag-minio"</ETag><Size>%d</Size><StorageClass>STANDARD</StorageClass></Contents>`, k, len(f.objects[k]))
	}
	b.WriteString("</ListBucketResult>")
	return reply(http.StatusOK, []byte(b.String()), http.Header{"Content-Type": {"application/xml"}})
}

func reply(status int, body []byte, h http.Header) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Header:        h,
	}
}
