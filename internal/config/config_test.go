package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ai-session-export/internal/archive"
	"github.com/Zuo-Peng/ai-session-export/internal/transcript"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.ArchiveRoot)
	assert.Equal(t, transcript.DefaultToolResultBudget, cfg.ToolResultBudget)
	assert.Equal(t, archive.PolicyRefresh, cfg.ExportPolicy)
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "aise")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(
		"archive_root = \"~/claude-history\"\ntool_result_budget = 1000\nexport_policy = \"once\"\n",
	), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "claude-history"), cfg.ArchiveRoot)
	assert.Equal(t, 1000, cfg.ToolResultBudget)
	assert.Equal(t, archive.PolicyOnce, cfg.ExportPolicy)
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "aise")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("export_policy = \"sometimes\"\n"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export_policy")
}
