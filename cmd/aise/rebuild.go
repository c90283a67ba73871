package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ai-session-export/internal/archive"
	"github.com/Zuo-Peng/ai-session-export/internal/config"
)

func rebuildCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate index.md from the documents on disk",
		Long: `Scans the archive tree, re-reads each document's frontmatter, and
rewrites index.md from scratch. Use after hand-editing or losing the
index.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			r, err := resolveRoot(root, cfg)
			if err != nil {
				return err
			}

			n, err := archive.RebuildIndex(r, logger)
			if err != nil {
				return fmt.Errorf("rebuild: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Rebuilt index.md with %d entries.\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Archive root (default: archive_root from config, else ./.claude/history)")

	return cmd
}

func resolveRoot(flag string, cfg *config.Config) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if cfg.ArchiveRoot != "" {
		return cfg.ArchiveRoot, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, ".claude", "history"), nil
}
