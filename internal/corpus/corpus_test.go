package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoad_MissingSubdirIsEmpty(t *testing.T) {
	c, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Items())
}

func TestLoad_ReadsNestedTextFiles(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, DefaultSubdir)
	writeFile(t, filepath.Join(data, "Curios", "Crate.txt"), []byte("Crates can explode."))
	writeFile(t, filepath.Join(data, "Overview.txt"), []byte("Welcome to the Hamlet."))
	writeFile(t, filepath.Join(data, "notes.md"), []byte("ignored"))

	c, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	docs := c.Documents()
	byTitle := map[string]int{}
	for i, d := range docs {
		byTitle[d.Metadata.Title] = i
	}

	crate := docs[byTitle["Crate"]]
	assert.Equal(t, "Curios", crate.Metadata.Category)
	assert.Equal(t, "Curios/Crate.txt", crate.Metadata.RelativePath)
	assert.Equal(t, "wiki_menu_data/Curios/Crate.txt", crate.Name)
	assert.Equal(t, "Crates can explode.", crate.Content)
	assert.True(t, filepath.IsAbs(crate.ID))

	overview := docs[byTitle["Overview"]]
	assert.Equal(t, "", overview.Metadata.Category)
	assert.Equal(t, "Overview.txt", overview.Metadata.RelativePath)
}

func TestLoad_ItemsOmitMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, DefaultSubdir, "Heroes", "Vestal.txt"), []byte("Heals."))

	c, err := Load(root)
	require.NoError(t, err)
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Heals.", items[0].Content)
	assert.Empty(t, items[0].Metadata.Title)
}

func TestLoad_LossyDecode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, DefaultSubdir, "bad.txt"), []byte("Holy\xff Water"))

	c, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "Holy Water", c.Documents()[0].Content)
}

func TestLoad_CustomSubdirAndLookup(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "kb", "Trinkets", "Sun Ring.txt")
	writeFile(t, p, []byte("+ACC"))

	c, err := Load(root, WithSubdir("kb"))
	require.NoError(t, err)
	doc, ok := c.Lookup(p)
	require.True(t, ok)
	assert.Equal(t, "Sun Ring", doc.Metadata.Title)

	_, ok = c.Lookup(filepath.Join(root, "kb", "missing.txt"))
	assert.False(t, ok)
}

func TestLoad_InvalidPattern(t *testing.T) {
	_, err := Load(t.TempDir(), WithPattern("[unterminated"))
	assert.Error(t, err)
}
