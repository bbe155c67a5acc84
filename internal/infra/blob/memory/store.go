// Package memory keeps document files in process memory. It backs the memory
// driver and the test suites of the packages above the blob facade.
package memory

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"eaccore/internal/blob/core"
)

type object struct {
	info core.Info
	data []byte
}

// Store is a create-only map of key to file contents.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	now     func() time.Time
}

func New() *Store {
	return &Store{objects: make(map[string]object), now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Put reads r fully before taking the lock, so a failing reader leaves no
// trace and concurrent writers of the same key race only on the map insert.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, fmt.Errorf("read %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.objects[key]; taken {
		return core.Info{}, fmt.Errorf("blob %s: %w", key, core.ErrExists)
	}
	info := core.Info{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  opts.ContentType,
		Metadata:     maps.Clone(opts.Metadata),
		LastModified: s.now(),
	}
	s.objects[key] = object{info: info, data: data}
	return info, nil
}

// Bytes returns a copy of the stored file.
func (s *Store) Bytes(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(obj.data), true
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return false, nil
	}
	delete(s.objects, key)
	return true, nil
}

func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	out := make([]core.Info, len(keys))
	for i, key := range keys {
		out[i] = s.objects[key].info
		out[i].Metadata = maps.Clone(out[i].Metadata)
	}
	s.mu.RUnlock()
	return out, nil
}

// PublicURL returns memory://blob/{key}.
func (s *Store) PublicURL(_ context.Context, key string) (string, error) {
	return "memory://blob/" + strings.TrimPrefix(key, "/"), nil
}
