// Package storage spools uploaded files on an afero filesystem: the OS disk
// in production, memory in tests.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrTooLarge is returned by Save when the content exceeds the store's limit.
var ErrTooLarge = errors.New("file exceeds the size limit")

// Store holds files by path.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// AferoStore implements Store on an afero filesystem.
type AferoStore struct {
	fs    afero.Fs
	limit int64
}

// NewAferoStore creates a store on fs. A positive limit caps every file.
func NewAferoStore(fs afero.Fs, limit int64) *AferoStore {
	return &AferoStore{fs: fs, limit: limit}
}

// NewMemStore returns a store kept in memory.
func NewMemStore(limit int64) *AferoStore {
	return NewAferoStore(afero.NewMemMapFs(), limit)
}

// NewDirStore returns a store rooted at dir on the OS filesystem. An empty
// dir falls back to memory.
func NewDirStore(dir string, limit int64) *AferoStore {
	if dir == "" {
		return NewMemStore(limit)
	}
	return NewAferoStore(afero.NewBasePathFs(afero.NewOsFs(), dir), limit)
}

// Save writes reader to path. A file over the limit is removed and
// ErrTooLarge returned.
func (s *AferoStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	f, err := s.fs.Create(path)
	if err != nil {
		return 0, err
	}

	src := reader
	if s.limit > 0 {
		src = io.LimitReader(reader, s.limit+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.limit > 0 && n > s.limit {
		err = fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.limit)
	}
	if err != nil {
		_ = s.fs.Remove(path)
		return 0, err
	}
	return n, nil
}

// Open returns a reader over the file at path.
func (s *AferoStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.fs.OpenFile(path, os.O_RDONLY, 0)
}

// Delete removes the file at path.
func (s *AferoStore) Delete(ctx context.Context, path string) error {
	return s.fs.Remove(path)
}
