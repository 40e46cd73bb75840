package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fishwatch/internal/logger"
)

// MediaStore writes annotated media under the history directories. Files are
// written synchronously so the stored path always names an existing file by
// the time a log entry references it. Returned paths are relative and
// slash-normalized for URL derivation.
type MediaStore struct {
	imagesDir string
	videosDir string
	logger    *logger.Logger
}

// NewMediaStore ensures both media directories exist.
func NewMediaStore(imagesDir, videosDir string, log *logger.Logger) (*MediaStore, error) {
	for _, dir := range []string{imagesDir, videosDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create media directory %s: %w", dir, err)
		}
	}

	return &MediaStore{
		imagesDir: imagesDir,
		videosDir: videosDir,
		logger:    log,
	}, nil
}

// SaveImage writes an annotated JPEG and returns its normalized path.
func (s *MediaStore) SaveImage(data []byte) (string, error) {
	full := filepath.Join(s.imagesDir, mediaName("jpg"))
	if err := os.WriteFile(full, data, 0644); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return filepath.ToSlash(full), nil
}

// NewVideoPath reserves a destination for an annotated video and returns the
// filesystem path to write to plus the normalized path to persist.
func (s *MediaStore) NewVideoPath() (string, string) {
	full := filepath.Join(s.videosDir, mediaName("mp4"))
	return full, filepath.ToSlash(full)
}

// mediaName builds a timestamped unique file name.
func mediaName(ext string) string {
	return fmt.Sprintf("%s_%s.%s", time.Now().Format("20060102150405"), uuid.NewString()[:8], ext)
}
