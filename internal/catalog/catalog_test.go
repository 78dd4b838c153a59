package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quimicadatos/cuadro-search/internal/catalog"
)

func TestDefault(t *testing.T) {
	groups := catalog.Default()
	require.Len(t, groups, 23)

	assert.Equal(t, catalog.Group{Number: 1, Name: "Analgesia", Href: "grupo-01.html"}, groups[0])
	assert.Equal(t, "Cardiología", groups[2].Name)
	assert.Equal(t, "grupo-23.html", groups[22].Href)
	assert.Equal(t, "23", groups[22].ID())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `groups:
  - number: 3
    name: Cardiología
  - number: 4
    name: Dermatología
    href: derma.html
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	groups, err := catalog.Load(path)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "grupo-03.html", groups[0].Href)
	assert.Equal(t, "derma.html", groups[1].Href)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := catalog.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	tests := map[string]string{
		"empty.yaml":   "groups: []\n",
		"badnum.yaml":  "groups:\n  - number: 0\n    name: X\n",
		"noname.yaml":  "groups:\n  - number: 1\n",
		"invalid.yaml": "groups: [",
	}
	for name, content := range tests {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, err := catalog.Load(path)
		assert.Error(t, err, name)
	}
}
