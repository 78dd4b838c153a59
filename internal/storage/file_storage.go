package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quimicadatos/cuadro-search/internal/fetcher"
)

// ErrNotFound is returned when a page reference has no file behind it.
var ErrNotFound = errors.New("page not found")

// FileStorage serves group pages from a local directory, as an offline
// alternative to fetching them over HTTP.
type FileStorage struct {
	baseDir string
}

// NewFileStorage creates a file-based page source rooted at baseDir
func NewFileStorage(baseDir string) (*FileStorage, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path %s is not a directory", baseDir)
	}
	return &FileStorage{baseDir: baseDir}, nil
}

// Path maps a page reference to a file inside the base directory. References
// that would escape the directory are rejected.
func (fs *FileStorage) Path(ref string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(strings.TrimSpace(ref)))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("empty page reference")
	}
	return filepath.Join(fs.baseDir, clean), nil
}

// Fetch reads and parses the page at ref
func (fs *FileStorage) Fetch(ctx context.Context, ref string) (*fetcher.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := fs.Path(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	page, err := fetcher.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	page.URL = path
	return page, nil
}
