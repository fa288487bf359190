package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"signage/internal/config"
	"signage/internal/model"
)

func TestNewLocal_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewLocal(config.StorageConfig{MediaDir: dir})

	require.NoError(t, err)
	st, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, st.IsDir())
}

func TestNewLocal_RequiresDirectory(t *testing.T) {
	_, err := NewLocal(config.StorageConfig{})
	assert.Error(t, err)
}

func TestNewLocal_SweepsStaleStagedUploads(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, TempPrefix+"stale")
	fresh := filepath.Join(dir, TempPrefix+"fresh")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o664))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o664))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	_, err := NewLocal(config.StorageConfig{MediaDir: dir})

	require.NoError(t, err)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestLocal_PutSetsFileMode(t *testing.T) {
	old := unix.Umask(0o077)
	defer unix.Umask(old)

	dir := t.TempDir()
	backend, err := NewLocal(config.StorageConfig{MediaDir: dir, FileMode: 0o664})
	require.NoError(t, err)

	_, err = backend.Put(context.Background(), "a.png", strings.NewReader("a"), PutObjectOptions{Size: 1})
	require.NoError(t, err)

	st, err := os.Stat(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o664), st.Mode().Perm())
}

func TestLocal_SymlinkIsNotAnObject(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(t.TempDir(), "secret.png")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o600))
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "link.png")))

	backend, err := NewLocal(config.StorageConfig{MediaDir: dir})
	require.NoError(t, err)
	ctx := context.Background()

	list, err := backend.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, _, err = backend.Open(ctx, "link.png")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = backend.Delete(ctx, "link.png")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.FileExists(t, outside)
}

func TestLocal_ConcurrentPutsNeverExposePartialObjects(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewLocal(config.StorageConfig{MediaDir: dir})
	require.NoError(t, err)
	store := NewMediaStore(backend, config.DefaultMaxUploadBytes)
	ctx := context.Background()

	const size = 256 * 1024
	payloads := []string{strings.Repeat("a", size), strings.Repeat("b", size)}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			list, err := store.List(ctx)
			if !assert.NoError(t, err) {
				return
			}
			for _, obj := range list {
				assert.Equal(t, "loop.mp4", obj.Name)
				assert.Equal(t, int64(size), obj.Size)
			}
		}
	}()

	for i := 0; i < 20; i++ {
		_, err := store.Put(ctx, "loop.mp4", strings.NewReader(payloads[i%2]), size)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
}

func TestNew_SelectsBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "media")

	s, err := New(config.StorageConfig{Backend: config.BackendFS, MediaDir: dir}, config.MinIOConfig{}, config.WebDAVConfig{})
	require.NoError(t, err)
	assert.IsType(t, &localStorage{}, s)

	_, err = New(config.StorageConfig{Backend: config.BackendMinIO}, config.MinIOConfig{}, config.WebDAVConfig{})
	assert.ErrorContains(t, err, "minio endpoint is required")

	_, err = New(config.StorageConfig{Backend: "ftp"}, config.MinIOConfig{}, config.WebDAVConfig{})
	assert.ErrorContains(t, err, `unknown storage backend "ftp"`)
}
