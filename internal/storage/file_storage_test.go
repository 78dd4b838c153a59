package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quimicadatos/cuadro-search/internal/storage"
)

func TestFileStorage_Fetch(t *testing.T) {
	dir := t.TempDir()
	page := `<h1 class="title">Analgesia</h1><p>Paracetamol tableta</p>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grupo-01.html"), []byte(page), 0644))

	fs, err := storage.NewFileStorage(dir)
	require.NoError(t, err)

	loaded, err := fs.Fetch(context.Background(), "grupo-01.html")
	require.NoError(t, err)
	assert.Equal(t, "Analgesia", loaded.Title)
	assert.Equal(t, []string{"Paracetamol tableta"}, loaded.Blocks)
	assert.Equal(t, filepath.Join(dir, "grupo-01.html"), loaded.URL)
}

func TestFileStorage_NotFound(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Fetch(context.Background(), "grupo-99.html")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestFileStorage_PathStaysInside(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFileStorage(dir)
	require.NoError(t, err)

	path, err := fs.Path("../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "etc", "passwd"), path)

	_, err = fs.Path("")
	assert.Error(t, err)
}

func TestFileStorage_Canceled(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = fs.Fetch(ctx, "grupo-01.html")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFileStorage_Invalid(t *testing.T) {
	_, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.html")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = storage.NewFileStorage(file)
	assert.Error(t, err)
}
