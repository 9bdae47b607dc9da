package objectstore

import (
	"context"
	"io"
	"os"
	"path/filepath"

	aetherrors "github.com/iakinsey/aetherscope/internal/errors"
)

// FSStore is a filesystem-backed Store. Keys are used directly as file
// names under Root, which is created on startup (mirrors the teacher
// crawler tools' ensureDir helper).
type FSStore struct {
	root string
}

// NewFSStore creates Root (and any missing parents) and returns a Store
// rooted there.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, aetherrors.NewIOError("mkdir root", err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.root, key)
}

func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, aetherrors.NewNotFoundError(key)
		}
		return nil, aetherrors.NewIOError("get", err)
	}
	return b, nil
}

func (s *FSStore) Put(ctx context.Context, key string, data []byte) error {
	return s.writeAtomic(key, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// PutStream writes to a temp file in the same directory as the destination
// and renames into place on success, so a reader never observes a partial
// object — the same atomic-rename idiom the teacher uses for its
// file-backed robots cache.
func (s *FSStore) PutStream(ctx context.Context, key string, r io.Reader) error {
	return s.writeAtomic(key, func(f *os.File) error {
		_, err := io.Copy(f, r)
		return err
	})
}

func (s *FSStore) writeAtomic(key string, write func(*os.File) error) error {
	dst := s.path(key)
	tmp := dst + ".tmp-" + randSuffix()
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return aetherrors.NewIOError("create temp", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return aetherrors.NewIOError("write", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return aetherrors.NewIOError("close", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return aetherrors.NewIOError("rename", err)
	}
	return nil
}

func (s *FSStore) GetStream(ctx context.Context, key string) (SeekableReader, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, aetherrors.NewNotFoundError(key)
		}
		return nil, aetherrors.NewIOError("open", err)
	}
	return f, nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return aetherrors.NewIOError("delete", err)
	}
	return nil
}

func (s *FSStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, aetherrors.NewIOError("stat", err)
}
