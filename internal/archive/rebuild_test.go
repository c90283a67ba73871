package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ai-session-export/internal/markdown"
)

func TestRebuildIndexFromDocuments(t *testing.T) {
	mgr, root := testManager(t)

	metaA := exportMeta("abc123")
	metaB := exportMeta("def456")
	metaB.Title = "Write docs for the exporter"
	metaB.Tags = []string{"documentation"}
	metaB.Date = time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC)

	_, err := mgr.Export(metaA, markdown.Render(metaA, nil), PolicyRefresh)
	require.NoError(t, err)
	_, err = mgr.Export(metaB, markdown.Render(metaB, nil), PolicyRefresh)
	require.NoError(t, err)

	// lose the index, then recover it from disk
	ixPath := filepath.Join(root, "index.md")
	require.NoError(t, os.Remove(ixPath))

	n, err := RebuildIndex(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ix, err := LoadIndex(ixPath)
	require.NoError(t, err)
	require.Equal(t, 2, ix.Len())

	data, err := os.ReadFile(ixPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Write docs for the exporter")
	assert.Contains(t, string(data), "2025/03-16/def456.md")
	assert.Contains(t, string(data), "documentation")
}

func TestRebuildSkipsDocumentsWithoutFrontmatter(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "2025", "03-14")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.md"), []byte("just text\n"), 0o644))

	n, err := RebuildIndex(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReadFrontmatterRoundTrip(t *testing.T) {
	meta := exportMeta("abc123")
	doc := markdown.Render(meta, nil)
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	fm, err := readFrontmatter(path)
	require.NoError(t, err)
	assert.Equal(t, meta.Title, fm.Title)
	assert.Equal(t, "2025-03-14", fm.Date)
	assert.Equal(t, meta.Tags, fm.Tags)
	assert.Equal(t, "abc123", fm.SessionID)
}
