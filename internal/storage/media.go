package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"signage/internal/model"
)

// sniffLen matches the default read limit of mimetype.
const sniffLen = 3072

// Media is the set of uploaded media objects as seen by the playlist service.
type Media interface {
	// List returns all objects sorted by name.
	List(ctx context.Context) ([]model.MediaObject, error)
	// ListByModTime returns all objects sorted by modification time, oldest first.
	ListByModTime(ctx context.Context) ([]model.MediaObject, error)
	// Put stores r under name, replacing any object with the same name.
	Put(ctx context.Context, name string, r io.Reader, size int64) (*model.MediaObject, error)
	// Open returns the content of the named object.
	Open(ctx context.Context, name string) (io.ReadCloser, *model.MediaObject, error)
	// Delete removes the named object.
	Delete(ctx context.Context, name string) error
}

// MediaStore validates names and sizes before handing objects to a Storage backend.
// It keeps no state of its own: every listing is read fresh from the backend.
type MediaStore struct {
	backend  Storage
	maxBytes int64
}

// NewMediaStore creates a MediaStore over backend with a per-upload ceiling of maxBytes.
func NewMediaStore(backend Storage, maxBytes int64) *MediaStore {
	return &MediaStore{backend: backend, maxBytes: maxBytes}
}

var _ Media = (*MediaStore)(nil)

// MaxBytes returns the per-upload ceiling.
func (s *MediaStore) MaxBytes() int64 { return s.maxBytes }

// ValidateName rejects names that are empty, reserved, or would resolve outside
// the media directory.
func ValidateName(name string) error {
	if name == "" {
		return model.InvalidInput("no filename provided")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") || !filepath.IsLocal(name) {
		return model.InvalidInput("filename %q escapes the media directory", name)
	}
	if strings.HasPrefix(name, TempPrefix) {
		return model.InvalidInput("filename %q uses a reserved prefix", name)
	}
	return nil
}

func (s *MediaStore) List(ctx context.Context) ([]model.MediaObject, error) {
	objs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].Name < objs[j].Name })
	return objs, nil
}

func (s *MediaStore) ListByModTime(ctx context.Context) ([]model.MediaObject, error) {
	objs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(objs, func(i, j int) bool {
		if objs[i].ModifiedAt.Equal(objs[j].ModifiedAt) {
			return objs[i].Name < objs[j].Name
		}
		return objs[i].ModifiedAt.Before(objs[j].ModifiedAt)
	})
	return objs, nil
}

func (s *MediaStore) snapshot(ctx context.Context) ([]model.MediaObject, error) {
	infos, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	objs := make([]model.MediaObject, 0, len(infos))
	for _, info := range infos {
		if strings.HasPrefix(info.Key, TempPrefix) {
			continue
		}
		objs = append(objs, toMediaObject(info))
	}
	return objs, nil
}

// Put streams r into the backend. A declared size above the ceiling is rejected
// before any I/O; streams that turn out longer than the ceiling are aborted and
// leave the previous object, if any, untouched.
func (s *MediaStore) Put(ctx context.Context, name string, r io.Reader, size int64) (*model.MediaObject, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, model.InvalidInput("no file content")
	}
	if size > s.maxBytes {
		return nil, tooLarge(size, s.maxBytes)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, model.NewStorageError("read upload", name, err)
	}
	head = head[:n]
	contentType := mimetype.Detect(head).String()

	body := &capReader{r: io.MultiReader(bytes.NewReader(head), r), remaining: s.maxBytes}
	info, err := s.backend.Put(ctx, name, body, PutObjectOptions{
		Size:        size,
		ContentType: contentType,
	})
	if body.exceeded {
		return nil, tooLarge(s.maxBytes+1, s.maxBytes)
	}
	if err != nil {
		return nil, err
	}
	if info.ContentType == "" {
		info.ContentType = contentType
	}
	obj := toMediaObject(info)
	return &obj, nil
}

func (s *MediaStore) Open(ctx context.Context, name string) (io.ReadCloser, *model.MediaObject, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, err
	}
	rc, info, err := s.backend.Open(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	obj := toMediaObject(info)
	return rc, &obj, nil
}

func (s *MediaStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return s.backend.Delete(ctx, name)
}

func toMediaObject(info ObjectInfo) model.MediaObject {
	return model.MediaObject{
		Name:        info.Key,
		Size:        info.Size,
		ContentType: info.ContentType,
		ModifiedAt:  info.LastModified,
	}
}

func tooLarge(size, limit int64) error {
	return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", model.ErrPayloadTooLarge, size, limit)
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", model.ErrNotFound, key)
}

// capReader fails once more than remaining bytes have been read.
type capReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.exceeded {
		return 0, model.ErrPayloadTooLarge
	}
	// Read one byte past the cap so an exact-size stream still reaches EOF cleanly.
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	if int64(n) > c.remaining {
		c.exceeded = true
		return 0, model.ErrPayloadTooLarge
	}
	c.remaining -= int64(n)
	return n, err
}
