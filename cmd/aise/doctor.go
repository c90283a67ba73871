package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ai-session-export/internal/archive"
	"github.com/Zuo-Peng/ai-session-export/internal/config"
	"github.com/Zuo-Peng/ai-session-export/internal/scan"
)

func doctorCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify archive root, index, and exported state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			r, err := resolveRoot(root, cfg)
			if err != nil {
				return err
			}

			fmt.Println("=== Archive Root ===")
			checkDir(r)

			fmt.Println("\n=== Documents ===")
			files, err := scan.ScanArchive(r)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				fmt.Printf("  Session documents: %d\n", len(files))
			}

			fmt.Println("\n=== Index ===")
			ixPath := filepath.Join(r, "index.md")
			if _, err := os.Stat(ixPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'aise rebuild' or export a session)")
			} else {
				ix, err := archive.LoadIndex(ixPath)
				if err != nil {
					fmt.Printf("  load error: %v\n", err)
				} else {
					fmt.Printf("  Entries: %d\n", ix.Len())
					if files != nil && ix.Len() != len(files) {
						fmt.Printf("  Status: MISMATCH (documents=%d, entries=%d; run 'aise rebuild')\n", len(files), ix.Len())
					} else {
						fmt.Println("  Status: OK (synced)")
					}
				}
			}

			fmt.Println("\n=== Exported State ===")
			statePath := filepath.Join(r, ".exported_state")
			if _, err := os.Stat(statePath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (created on first export)")
				return nil
			}
			mgr, err := archive.NewManager(r, logger)
			if err != nil {
				return fmt.Errorf("open state: %w", err)
			}
			defer mgr.Close()

			n, err := mgr.StateCount()
			if err != nil {
				return fmt.Errorf("count exports: %w", err)
			}
			fmt.Printf("  Sessions recorded: %d\n", n)
			fmt.Printf("  Policy: %s\n", cfg.ExportPolicy)

			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Archive root (default: archive_root from config, else ./.claude/history)")

	return cmd
}

func checkDir(path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s (NOT FOUND)\n", path)
	} else if !info.IsDir() {
		fmt.Printf("  %s (NOT A DIRECTORY)\n", path)
	} else {
		fmt.Printf("  %s (OK)\n", path)
	}
}
