// Package fs stores document files in a local directory. Every file gets a
// JSON sidecar holding its size, digest and content type, kept in a separate
// .meta tree so no file name can collide with one. List reads the sidecars,
// so a file becomes visible once its sidecar is written.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"net/url"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"eaccore/internal/blob/core"
)

// sidecarDir mirrors the key tree: key a/b.pdf has its sidecar at
// .meta/a/b.pdf.json.
const sidecarDir = ".meta"

const defaultPublicBase = "http://local.blob/"

// Store is a create-only directory of document files. All file access goes
// through an os.Root, so keys cannot reach outside dir.
type Store struct {
	dir  string
	root *os.Root
	base *url.URL
	now  func() time.Time

	encodeSidecar func(any) ([]byte, error)
}

type sidecar struct {
	Size        int64             `json:"size"`
	SHA256      string            `json:"sha256"`
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	StoredAt    time.Time         `json:"stored_at"`
}

// New opens dir (default ./blobdata), creating it if needed. publicBase is
// the URL prefix under which dir is served.
func New(dir, publicBase string) (*Store, error) {
	if dir == "" {
		dir = "./blobdata"
	}
	if publicBase == "" {
		publicBase = defaultPublicBase
	}
	base, err := url.Parse(publicBase)
	if err != nil {
		return nil, fmt.Errorf("parse public base url: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open blob dir: %w", err)
	}
	return &Store{
		dir:           dir,
		root:          root,
		base:          base,
		now:           func() time.Time { return time.Now().UTC() },
		encodeSidecar: func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
	}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// Close releases the directory handle.
func (s *Store) Close() error { return s.root.Close() }

// cleanKey rejects keys that are empty, absolute, contain "..", or point into
// the sidecar tree.
func cleanKey(key string) (string, error) {
	switch {
	case strings.TrimSpace(key) == "":
		return "", errors.New("empty key")
	case strings.HasPrefix(key, "/"):
		return "", fmt.Errorf("key %q is absolute", key)
	case slices.Contains(strings.Split(key, "/"), ".."):
		return "", fmt.Errorf("key %q leaves the store", key)
	}
	name := path.Clean(key)
	if name == sidecarDir || strings.HasPrefix(name, sidecarDir+"/") {
		return "", fmt.Errorf("key %q is inside the reserved %s directory", key, sidecarDir)
	}
	return name, nil
}

func sidecarPath(name string) string { return path.Join(sidecarDir, name+".json") }

func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	name, err := cleanKey(key)
	if err != nil {
		return core.Info{}, err
	}
	if dir := path.Dir(name); dir != "." {
		if err := s.root.MkdirAll(dir, 0o755); err != nil {
			return core.Info{}, err
		}
	}
	f, err := s.root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return core.Info{}, fmt.Errorf("blob %s: %w", key, core.ErrExists)
		}
		return core.Info{}, err
	}
	digest := sha256.New()
	size, err := io.Copy(io.MultiWriter(f, digest), r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.root.Remove(name)
		return core.Info{}, err
	}

	meta := sidecar{
		Size:        size,
		SHA256:      hex.EncodeToString(digest.Sum(nil)),
		ContentType: opts.ContentType,
		Metadata:    maps.Clone(opts.Metadata),
		StoredAt:    s.now(),
	}
	b, err := s.encodeSidecar(meta)
	if err == nil {
		err = s.root.MkdirAll(path.Dir(sidecarPath(name)), 0o755)
	}
	if err == nil {
		err = s.root.WriteFile(sidecarPath(name), b, 0o644)
	}
	if err != nil {
		_ = s.root.Remove(name)
		return core.Info{}, fmt.Errorf("write sidecar for %s: %w", key, err)
	}
	return meta.info(name), nil
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	name, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	if err := s.root.Remove(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	_ = s.root.Remove(sidecarPath(name))
	return true, nil
}

func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	var out []core.Info
	err := fs.WalkDir(s.root.FS(), sidecarDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}
		key := strings.TrimSuffix(strings.TrimPrefix(p, sidecarDir+"/"), ".json")
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		b, err := s.root.ReadFile(p)
		if err != nil {
			return err
		}
		var meta sidecar
		if err := json.Unmarshal(b, &meta); err != nil {
			return fmt.Errorf("read sidecar %s: %w", p, err)
		}
		out = append(out, meta.info(key))
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	slices.SortFunc(out, func(a, b core.Info) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

// PublicURL joins key onto the public base.
func (s *Store) PublicURL(_ context.Context, key string) (string, error) {
	name, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return s.base.JoinPath(name).String(), nil
}

func (m sidecar) info(key string) core.Info {
	return core.Info{
		Key:          key,
		Size:         m.Size,
		ContentType:  m.ContentType,
		ETag:         m.SHA256,
		Metadata:     maps.Clone(m.Metadata),
		LastModified: m.StoredAt,
	}
}
