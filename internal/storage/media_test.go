package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishwatch/internal/logger"
)

func newTestStore(t *testing.T) *MediaStore {
	t.Helper()
	root := t.TempDir()
	store, err := NewMediaStore(filepath.Join(root, "images"), filepath.Join(root, "videos"), logger.New(filepath.Join(root, "logs")))
	require.NoError(t, err)
	return store
}

func TestNewMediaStore_CreatesDirectories(t *testing.T) {
	root := t.TempDir()
	imagesDir := filepath.Join(root, "history", "images")
	videosDir := filepath.Join(root, "history", "videos")

	_, err := NewMediaStore(imagesDir, videosDir, logger.New(filepath.Join(root, "logs")))
	require.NoError(t, err)

	for _, dir := range []string{imagesDir, videosDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSaveImage_WritesFileAndReturnsSlashPath(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveImage([]byte{0xFF, 0xD8, 0xFF})
	require.NoError(t, err)

	assert.NotContains(t, path, "\\", "stored path must be slash-normalized")
	assert.True(t, strings.HasSuffix(path, ".jpg"))

	data, err := os.ReadFile(filepath.FromSlash(path))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data)
}

func TestSaveImage_UniqueNames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.SaveImage([]byte("a"))
	require.NoError(t, err)
	second, err := store.SaveImage([]byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewVideoPath(t *testing.T) {
	store := newTestStore(t)

	full, rel := store.NewVideoPath()

	assert.True(t, strings.HasSuffix(full, ".mp4"))
	assert.NotContains(t, rel, "\\")
	assert.Equal(t, filepath.ToSlash(full), rel)
}
