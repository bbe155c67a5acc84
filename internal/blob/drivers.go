package blob

import (
	"context"
	"fmt"

	"eaccore/internal/infra/blob/fs"
	memorystore "eaccore/internal/infra/blob/memory"
	infraMinIO "eaccore/internal/infra/blob/minio"
	infraS3 "eaccore/internal/infra/blob/s3"
)

type (
	// S3Config configures the S3 driver.
	S3Config = infraS3.Config
	// MinIOConfig configures the MinIO driver.
	MinIOConfig = infraMinIO.Config
)

// Config selects and parameterises the document object store.
type Config struct {
	Driver Driver
	// FSRoot is the directory root when Driver is fs (default ./blobdata).
	FSRoot string
	// FSPublicBase is the URL prefix under which FSRoot is served.
	FSPublicBase string
	S3           S3Config
	MinIO        MinIOConfig
}

// Open builds the Store named by cfg.Driver. An empty driver means fs.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFilesystem, "":
		return NewFilesystem(cfg.FSRoot, cfg.FSPublicBase)
	case DriverS3:
		return infraS3.New(ctx, cfg.S3)
	case DriverMinIO:
		return infraMinIO.New(cfg.MinIO)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}

// NewFilesystem stores documents under root and serves them below publicBase.
func NewFilesystem(root, publicBase string) (Store, error) {
	return fs.New(root, publicBase)
}

// NewMemory returns a process-local Store for tests and the memory driver.
func NewMemory() Store { return memorystore.New() }

// NewFakeS3 returns the S3 driver backed by an in-process bucket.
func NewFakeS3() Store { return infraS3.NewMockForTests() }

// NewFakeMinIO returns the MinIO driver backed by an in-process bucket.
func NewFakeMinIO() Store { return infraMinIO.NewMockForTests() }
