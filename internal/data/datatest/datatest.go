// Package datatest builds a *data.Data backed by a throwaway SQLite file and
// an in-process Redis, for tests of the layers above the data package.
package datatest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"Inkwell/internal/data"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// New returns a migrated Data and the miniredis server behind it.
func New(t testing.TB) (*data.Data, *miniredis.Miniredis) {
	t.Helper()

	db, err := data.OpenDB("sqlite", filepath.Join(t.TempDir(), "inkwell.db"), 0)
	require.NoError(t, err)
	require.NoError(t, data.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		rdb.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &data.Data{DB: db, Redis: rdb, Bucket: "test"}, mr
}

type object struct {
	body        []byte
	contentType string
}

// ObjectStore is an in-memory object store.
type ObjectStore struct {
	mu      sync.Mutex
	objects map[string]object
}

func NewObjectStore() *ObjectStore {
	return &ObjectStore{objects: map[string]object{}}
}

func (s *ObjectStore) PutObject(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = object{body: body, contentType: contentType}
	return nil
}

func (s *ObjectStore) GetObject(ctx context.Context, name string) (io.ReadCloser, int64, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[name]
	if !ok {
		return nil, 0, "", errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(obj.body)), int64(len(obj.body)), obj.contentType, nil
}

// Names lists stored object keys.
func (s *ObjectStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	return names
}
