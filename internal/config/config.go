package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Zuo-Peng/ai-session-export/internal/archive"
	"github.com/Zuo-Peng/ai-session-export/internal/transcript"
)

type Config struct {
	// ArchiveRoot is the destination tree. Empty means per-project:
	// hook mode resolves it to <cwd>/.claude/history.
	ArchiveRoot      string `toml:"archive_root"`
	ToolResultBudget int    `toml:"tool_result_budget"`
	ExportPolicy     string `toml:"export_policy"` // "refresh" or "once"
	LogFile          string `toml:"log_file"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ToolResultBudget: transcript.DefaultToolResultBudget,
		ExportPolicy:     archive.PolicyRefresh,
	}

	cfgPath := filepath.Join(home, ".config", "aise", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	if cfg.ExportPolicy != archive.PolicyRefresh && cfg.ExportPolicy != archive.PolicyOnce {
		return nil, fmt.Errorf("invalid export_policy %q (want %q or %q)",
			cfg.ExportPolicy, archive.PolicyRefresh, archive.PolicyOnce)
	}

	// expand ~ in paths
	cfg.ArchiveRoot = expandHome(cfg.ArchiveRoot, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
