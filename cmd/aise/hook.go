package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/ai-session-export/internal/config"
	"github.com/Zuo-Peng/ai-session-export/internal/hook"
)

func hookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Run as a SessionEnd hook (JSON payload on stdin)",
		Long: `Reads {"session_id", "transcript_path", "cwd"} from stdin and exports
the transcript to <cwd>/.claude/history (or archive_root from config).

Claude Code settings entry:
  "hooks": {
    "SessionEnd": [{"hooks": [{"type": "command", "command": "aise hook"}]}]
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd.InOrStdin())
		},
	}
}

func runHook(in io.Reader) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	p, err := hook.ReadPayload(in)
	if err != nil {
		return err
	}
	logger.Debug("hook payload",
		zap.String("session", p.SessionID),
		zap.String("transcript", p.TranscriptPath),
		zap.String("cwd", p.Cwd),
		zap.String("reason", p.Reason))

	// no transcript means a session that produced nothing; not an error
	if p.TranscriptPath == "" {
		logger.Info("no transcript in payload, nothing to export", zap.String("session", p.SessionID))
		return nil
	}
	if _, err := os.Stat(p.TranscriptPath); err != nil {
		return fmt.Errorf("transcript %s: %w", p.TranscriptPath, err)
	}

	root := cfg.ArchiveRoot
	if root == "" {
		root = filepath.Join(p.Cwd, ".claude", "history")
	}

	return runExport(cfg, exportJob{
		SessionID:      p.SessionID,
		TranscriptPath: p.TranscriptPath,
		ProjectPath:    p.Cwd,
		ArchiveRoot:    root,
	})
}
