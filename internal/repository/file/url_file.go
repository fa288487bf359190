package file

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"signage/internal/config"
	"signage/internal/model"
	"signage/internal/repository"
)

const lockPollInterval = 5 * time.Millisecond

// URLFile is a newline-delimited text file implementation of repository.URLRepository.
//
// Every mutation is a read-modify-write cycle run under an exclusive flock on a
// sibling ".lock" file, and the new content replaces the data file through a
// temp file and rename. Readers never lock: they always see either the old or
// the new file, never a partial one.
type URLFile struct {
	path     string
	lockPath string
	mode     os.FileMode
	timeout  time.Duration

	// sem serializes writers inside this process so waiting is bounded by timeout
	// before the flock is even attempted.
	sem chan struct{}
}

// NewURLFile creates a URLFile repository for cfg.URLFile.
// The file itself is created lazily on the first Add.
func NewURLFile(cfg config.StorageConfig) *URLFile {
	mode := cfg.FileMode
	if mode == 0 {
		mode = 0o664
	}
	timeout := cfg.LockTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &URLFile{
		path:     cfg.URLFile,
		lockPath: cfg.URLFile + ".lock",
		mode:     mode,
		timeout:  timeout,
		sem:      make(chan struct{}, 1),
	}
}

var _ repository.URLRepository = (*URLFile)(nil)

// List reads the file and returns its non-empty trimmed lines in file order.
func (r *URLFile) List(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, model.NewStorageError("read", r.path, err)
	}
	return parseLines(data), nil
}

// Add appends the trimmed url as a new line.
func (r *URLFile) Add(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.InvalidInput("url cannot be empty")
	}
	if strings.ContainsAny(url, "\r\n") {
		return model.InvalidInput("url must be a single line")
	}
	return r.mutate(ctx, func(current []byte, _ bool) ([]byte, bool) {
		var buf bytes.Buffer
		buf.Grow(len(current) + len(url) + 2)
		buf.Write(current)
		// A companion writer may have left the last line unterminated.
		if len(current) > 0 && current[len(current)-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteString(url)
		buf.WriteByte('\n')
		return buf.Bytes(), true
	})
}

// Remove rewrites the file without any entry equal to url.
// The remaining entries are joined with newlines and always end with one newline,
// so removing the last entry leaves a file holding a single "\n".
func (r *URLFile) Remove(ctx context.Context, url string) error {
	if url == "" {
		return model.InvalidInput("no url provided")
	}
	return r.mutate(ctx, func(current []byte, exists bool) ([]byte, bool) {
		if !exists {
			return nil, false
		}
		kept := slices.DeleteFunc(parseLines(current), func(u string) bool { return u == url })
		return []byte(strings.Join(kept, "\n") + "\n"), true
	})
}

// mutate runs fn over the current file content while holding the write lock.
// fn reports whether its result should replace the file.
func (r *URLFile) mutate(ctx context.Context, fn func(current []byte, exists bool) ([]byte, bool)) error {
	unlock, err := r.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	exists := true
	current, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		exists, err = false, nil
	}
	if err != nil {
		return model.NewStorageError("read", r.path, err)
	}

	next, write := fn(current, exists)
	if !write {
		return nil
	}
	return r.replace(next)
}

// lock acquires the in-process semaphore and then an exclusive flock on the
// lock file, giving up with ErrLockContention once the timeout elapses.
func (r *URLFile) lock(ctx context.Context) (func(), error) {
	deadline := time.Now().Add(r.timeout)

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()
	select {
	case r.sem <- struct{}{}:
	case <-timer.C:
		return nil, model.NewStorageError("lock", r.lockPath, model.ErrLockContention)
	case <-ctx.Done():
		return nil, model.NewStorageError("lock", r.lockPath, ctx.Err())
	}

	f, err := r.openLockFile()
	if err != nil {
		<-r.sem
		return nil, model.NewStorageError("lock", r.lockPath, err)
	}
	release := func() {
		_ = f.Close()
		<-r.sem
	}

	fd := int(f.Fd())
	for {
		err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			release()
			return nil, model.NewStorageError("lock", r.lockPath, err)
		}
		if time.Now().After(deadline) {
			release()
			return nil, model.NewStorageError("lock", r.lockPath, model.ErrLockContention)
		}
		select {
		case <-ctx.Done():
			release()
			return nil, model.NewStorageError("lock", r.lockPath, ctx.Err())
		case <-time.After(lockPollInterval):
		}
	}

	return func() {
		_ = unix.Flock(fd, unix.LOCK_UN)
		release()
	}, nil
}

// openLockFile opens the shared lock file, setting its mode when this process created it.
func (r *URLFile) openLockFile() (*os.File, error) {
	f, err := os.OpenFile(r.lockPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, r.mode)
	if err == nil {
		if err := f.Chmod(r.mode); err != nil {
			_ = f.Close()
			return nil, err
		}
		return f, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return nil, err
	}
	return os.OpenFile(r.lockPath, os.O_RDWR, 0)
}

// replace writes data to a temp file next to the target and renames it into place.
func (r *URLFile) replace(data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return model.NewStorageError("write", r.path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return model.NewStorageError("write", tmpName, err)
	}
	if err = tmp.Chmod(r.mode); err != nil {
		return model.NewStorageError("chmod", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return model.NewStorageError("sync", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return model.NewStorageError("close", tmpName, err)
	}
	if err = os.Rename(tmpName, r.path); err != nil {
		return model.NewStorageError("rename", r.path, err)
	}
	return nil
}

func parseLines(data []byte) []string {
	urls := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		if u := strings.TrimSpace(line); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
