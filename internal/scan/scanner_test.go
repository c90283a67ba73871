package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanArchive(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "2025", "03-14")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	write := func(path string) {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	write(filepath.Join(dir, "abc123.md"))
	write(filepath.Join(dir, "def456.md"))
	write(filepath.Join(root, "index.md"))
	write(filepath.Join(root, ".exported_state"))
	write(filepath.Join(dir, ".abc123.md.tmp-1"))

	files, err := ScanArchive(root)
	require.NoError(t, err)
	require.Len(t, files, 2)

	rels := []string{files[0].RelPath, files[1].RelPath}
	assert.Contains(t, rels, filepath.Join("2025", "03-14", "abc123.md"))
	assert.Contains(t, rels, filepath.Join("2025", "03-14", "def456.md"))
}

func TestScanArchiveMissingRoot(t *testing.T) {
	files, err := ScanArchive(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
