package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"signage/internal/config"
	"signage/internal/model"
)

// staleTempAge is how old a staged upload must be before startup removes it.
// Younger files may belong to another process writing into the same directory.
const staleTempAge = time.Hour

// localStorage implements the Storage interface on a single directory.
// Uploads are staged in a temp file inside the directory and renamed into place.
// It is safe for concurrent use by multiple goroutines.
type localStorage struct {
	dir  string
	mode os.FileMode
}

// NewLocal creates the media directory if needed and removes stale staged uploads
// left behind by a crashed process.
func NewLocal(cfg config.StorageConfig) (Storage, error) {
	if cfg.MediaDir == "" {
		return nil, fmt.Errorf("media directory is required")
	}
	dir, err := filepath.Abs(cfg.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("resolve media directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	mode := cfg.FileMode
	if mode == 0 {
		mode = 0o664
	}
	ls := &localStorage{dir: dir, mode: mode}
	if err := ls.sweep(time.Now().Add(-staleTempAge)); err != nil {
		return nil, fmt.Errorf("sweep staged uploads: %w", err)
	}
	return ls, nil
}

func (s *localStorage) sweep(olderThan time.Time) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), TempPrefix) || !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(olderThan) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// path joins key onto the directory, refusing anything that is not a plain child name.
func (s *localStorage) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || !filepath.IsLocal(key) {
		return "", model.InvalidInput("filename %q escapes the media directory", key)
	}
	return filepath.Join(s.dir, key), nil
}

// List reads the directory fresh. Entries removed between the read and their
// stat are skipped.
func (s *localStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, model.NewStorageError("list", s.dir, err)
	}
	out := make([]ObjectInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, model.NewStorageError("stat", filepath.Join(s.dir, e.Name()), err)
		}
		out = append(out, ObjectInfo{
			Key:          e.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}
	return out, nil
}

// Put writes r to a temp file in the directory and renames it over key.
func (s *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (_ ObjectInfo, err error) {
	final, err := s.path(key)
	if err != nil {
		return ObjectInfo{}, err
	}

	tmp, err := os.CreateTemp(s.dir, TempPrefix+"*")
	if err != nil {
		return ObjectInfo{}, model.NewStorageError("create", s.dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = io.Copy(tmp, readerWithContext(ctx, r)); err != nil {
		return ObjectInfo{}, model.NewStorageError("write", final, err)
	}
	if err = tmp.Chmod(s.mode); err != nil {
		return ObjectInfo{}, model.NewStorageError("chmod", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return ObjectInfo{}, model.NewStorageError("sync", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return ObjectInfo{}, model.NewStorageError("close", tmpName, err)
	}
	if err = os.Rename(tmpName, final); err != nil {
		return ObjectInfo{}, model.NewStorageError("rename", final, err)
	}

	st, statErr := os.Stat(final)
	if statErr != nil {
		// The object is in place; a concurrent delete may have removed it already.
		return ObjectInfo{Key: key, ContentType: opt.ContentType, LastModified: time.Now()}, nil
	}
	return ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  opt.ContentType,
		LastModified: st.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

func (s *localStorage) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	// Symlinks are not media objects and may point outside the directory.
	if lst, err := os.Lstat(p); err == nil && !lst.Mode().IsRegular() {
		return nil, ObjectInfo{}, notFound(key)
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ObjectInfo{}, notFound(key)
	}
	if err != nil {
		return nil, ObjectInfo{}, model.NewStorageError("open", p, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ObjectInfo{}, model.NewStorageError("stat", p, err)
	}
	if !st.Mode().IsRegular() {
		_ = f.Close()
		return nil, ObjectInfo{}, notFound(key)
	}
	return f, ObjectInfo{Key: key, Size: st.Size(), LastModified: st.ModTime()}, nil
}

func (s *localStorage) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	st, err := os.Lstat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(key)
	}
	if err != nil {
		return model.NewStorageError("stat", p, err)
	}
	if !st.Mode().IsRegular() {
		return notFound(key)
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound(key)
		}
		return model.NewStorageError("remove", p, err)
	}
	return nil
}

// readerWithContext stops a copy once ctx is done.
func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return readerFunc(func(p []byte) (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return r.Read(p)
	})
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
