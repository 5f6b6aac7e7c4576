package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jwebster45206/awakening/pkg/story"
)

// FileStorage reads content JSON files from <dataDir>/content.
type FileStorage struct {
	dataDir string
	logger  *slog.Logger
}

// Ensure FileStorage implements Storage interface
var _ Storage = (*FileStorage)(nil)

func NewFileStorage(dataDir string, logger *slog.Logger) *FileStorage {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FileStorage{dataDir: dataDir, logger: logger}
}

func (s *FileStorage) contentDir() string {
	return filepath.Join(s.dataDir, "content")
}

func (s *FileStorage) ListContent(ctx context.Context) (map[string]string, error) {
	files := make(map[string]string)

	err := filepath.WalkDir(s.contentDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		c, err := readContent(path)
		if err != nil {
			s.logger.Warn("Skipping unreadable content file", "path", path, "error", err)
			return nil
		}

		files[c.Name] = filepath.Base(path)
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to walk content directory", "dir", s.contentDir(), "error", err)
		return nil, fmt.Errorf("failed to list content: %w", err)
	}

	return files, nil
}

func (s *FileStorage) GetContent(ctx context.Context, filename string) (*story.Content, error) {
	if filename != filepath.Base(filename) {
		return nil, fmt.Errorf("invalid content file name %q", filename)
	}

	path := filepath.Join(s.contentDir(), filename)
	s.logger.Debug("Loading content", "filename", filename, "full_path", path)

	c, err := readContent(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrContentNotFound, filename)
		}
		return nil, err
	}
	c.FileName = filename

	return c, nil
}

func readContent(path string) (*story.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c story.Content
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content %s: %w", filepath.Base(path), err)
	}
	return &c, nil
}
