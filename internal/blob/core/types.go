// Package core holds the object store contract shared by the blob facade and
// its drivers.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver names an object store backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMinIO      Driver = "minio"
	DriverMemory     Driver = "memory"
)

// PutOptions carries the optional attributes of an uploaded document file.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info is what a driver knows about one stored file.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// Store is a create-only object store keyed by "{document id}/{file name}".
// Objects are never overwritten, so a public URL handed out once stays valid.
type Store interface {
	// Put fails with ErrExists when key is already taken.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	// Delete reports false with a nil error when key was absent.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns the objects under prefix ordered by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	// PublicURL returns the durable URL stored on the document row.
	PublicURL(ctx context.Context, key string) (string, error)
	Driver() Driver
}

// ErrExists is returned by Put when the key is already occupied.
var ErrExists = errors.New("blob: object already exists")
