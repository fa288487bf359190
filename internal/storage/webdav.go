package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/studio-b12/gowebdav"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"signage/internal/config"
	"signage/internal/model"
)

// webdavStorage implements the Storage interface on a directory of a WebDAV share.
// Uploads are written under a temp name and moved over the final name.
type webdavStorage struct {
	client *gowebdav.Client
	root   string
}

// NewWebDAV connects to the share and creates the media directory if missing.
func NewWebDAV(cfg config.WebDAVConfig) (Storage, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webdav url is required")
	}
	root := cfg.Path
	if root == "" {
		root = "/"
	}

	cli := gowebdav.NewClient(cfg.URL, cfg.User, cfg.Password)
	cli.SetTimeout(30 * time.Second)
	cli.SetTransport(otelhttp.NewTransport(http.DefaultTransport))
	if err := cli.Connect(); err != nil {
		return nil, fmt.Errorf("connect webdav: %w", err)
	}
	if err := cli.MkdirAll(root, 0o775); err != nil {
		return nil, fmt.Errorf("create webdav media directory: %w", err)
	}
	return &webdavStorage{client: cli, root: root}, nil
}

func (w *webdavStorage) path(key string) string {
	return gowebdav.Join(w.root, key)
}

func (w *webdavStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	files, err := w.client.ReadDir(w.root)
	if err != nil {
		return nil, model.NewStorageError("list", w.root, err)
	}
	out := make([]ObjectInfo, 0, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		out = append(out, ObjectInfo{
			Key:          f.Name(),
			Size:         f.Size(),
			LastModified: f.ModTime(),
		})
	}
	return out, nil
}

func (w *webdavStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	final := w.path(key)
	tmp := w.path(TempPrefix + uuid.NewString())

	if err := w.client.WriteStream(tmp, readerWithContext(ctx, r), 0o664); err != nil {
		_ = w.client.Remove(tmp)
		return ObjectInfo{}, model.NewStorageError("write", final, err)
	}
	if err := w.client.Rename(tmp, final, true); err != nil {
		_ = w.client.Remove(tmp)
		return ObjectInfo{}, model.NewStorageError("rename", final, err)
	}

	info := ObjectInfo{Key: key, ContentType: opt.ContentType, Metadata: opt.Metadata, LastModified: time.Now()}
	if st, err := w.client.Stat(final); err == nil {
		info.Size = st.Size()
		info.LastModified = st.ModTime()
	}
	return info, nil
}

func (w *webdavStorage) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	p := w.path(key)
	st, err := w.stat(p, key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	rc, err := w.client.ReadStream(p)
	if err != nil {
		return nil, ObjectInfo{}, w.wrap("read", p, key, err)
	}
	return rc, ObjectInfo{Key: key, Size: st.Size(), LastModified: st.ModTime()}, nil
}

func (w *webdavStorage) Delete(ctx context.Context, key string) error {
	p := w.path(key)
	if _, err := w.stat(p, key); err != nil {
		return err
	}
	if err := w.client.Remove(p); err != nil {
		return w.wrap("remove", p, key, err)
	}
	return nil
}

func (w *webdavStorage) stat(p, key string) (os.FileInfo, error) {
	st, err := w.client.Stat(p)
	if err != nil {
		return nil, w.wrap("stat", p, key, err)
	}
	if st.IsDir() {
		return nil, notFound(key)
	}
	return st, nil
}

func (w *webdavStorage) wrap(op, p, key string, err error) error {
	if gowebdav.IsErrNotFound(err) {
		return notFound(key)
	}
	return model.NewStorageError(op, p, err)
}
