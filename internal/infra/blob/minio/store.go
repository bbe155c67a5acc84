// Package minio implements core.Store against a MinIO server via minio-go.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"eaccore/internal/blob/core"
)

// Store implements core.Store over a single MinIO bucket.
type Store struct {
	client  *minio.Client
	bucket  string
	baseURL *url.URL
}

// Config holds construction parameters.
type Config struct {
	Endpoint        string // host:port, no scheme
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Secure          bool
	PublicBaseURL   string            // optional; defaults to {scheme}://{endpoint}/{bucket}
	Transport       http.RoundTripper // optional; tests inject a fake
}

// New creates a MinIO-backed store. Region defaults to us-east-1 so the
// client never needs a bucket-location round trip.
func New(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		Secure:       cfg.Secure,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
		Transport:    cfg.Transport,
	})
	if err != nil {
		return nil, err
	}
	base, err := publicBase(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{client: client, bucket: cfg.Bucket, baseURL: base}, nil
}

func publicBase(cfg Config) (*url.URL, error) {
	if cfg.PublicBaseURL != "" {
		u, err := url.Parse(cfg.PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse public base url: %w", err)
		}
		return u, nil
	}
	scheme := "http"
	if cfg.Secure {
		scheme = "https"
	}
	return (&url.URL{Scheme: scheme, Host: cfg.Endpoint, Path: "/"}).JoinPath(cfg.Bucket), nil
}

func (s *Store) Driver() core.Driver { return core.DriverMinIO }

// Put stats key first and refuses to overwrite.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
		return core.Info{}, fmt.Errorf("blob %s: %w", key, core.ErrExists)
	} else if !isNotFound(err) {
		return core.Info{}, err
	}
	size := int64(-1)
	if l, ok := r.(interface{ Len() int }); ok {
		size = int64(l.Len())
	}
	out, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return core.Info{}, err
	}
	return core.Info{
		Key:          key,
		Size:         out.Size,
		ContentType:  opts.ContentType,
		ETag:         strings.Trim(out.ETag, "\""),
		Metadata:     opts.Metadata,
		LastModified: out.LastModified,
	}, nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var infos []core.Info
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		infos = append(infos, core.Info{
			Key:          obj.Key,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			ETag:         strings.Trim(obj.ETag, "\""),
			LastModified: obj.LastModified,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (s *Store) PublicURL(_ context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	return s.baseURL.JoinPath(key).String(), nil
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
