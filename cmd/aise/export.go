package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/ai-session-export/internal/archive"
	"github.com/Zuo-Peng/ai-session-export/internal/config"
	"github.com/Zuo-Peng/ai-session-export/internal/derive"
	"github.com/Zuo-Peng/ai-session-export/internal/markdown"
	"github.com/Zuo-Peng/ai-session-export/internal/transcript"
)

func exportCmd() *cobra.Command {
	var transcriptPath, sessionID, output, project string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one transcript to the Markdown archive",
		Long: `Converts a JSONL transcript into a Markdown document at
<output>/<YYYY>/<MM-DD>/<session-id>.md and upserts the index entry.

When --session-id is omitted the id is taken from the transcript
filename (Claude Code names transcripts <uuid>.jsonl).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if sessionID == "" {
				sessionID = sessionIDFromPath(transcriptPath)
			}

			out := output
			if out == "" {
				out = cfg.ArchiveRoot
			}
			if out == "" {
				return errors.New("no output directory: pass --output or set archive_root in config")
			}

			return runExport(cfg, exportJob{
				SessionID:      sessionID,
				TranscriptPath: transcriptPath,
				ProjectPath:    project,
				ArchiveRoot:    out,
			})
		},
	}

	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "Path to the JSONL transcript (required)")
	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session identifier (default: from transcript filename)")
	cmd.Flags().StringVar(&output, "output", "", "Archive root directory (default: archive_root from config)")
	cmd.Flags().StringVar(&project, "project", "", "Project path recorded in frontmatter (default: cwd from transcript)")
	cmd.MarkFlagRequired("transcript")

	return cmd
}

func sessionIDFromPath(transcriptPath string) string {
	base := strings.TrimSuffix(filepath.Base(transcriptPath), ".jsonl")
	if id, err := uuid.Parse(base); err == nil {
		return id.String()
	}
	return base
}

type exportJob struct {
	SessionID      string
	TranscriptPath string
	ProjectPath    string
	ArchiveRoot    string
}

// runExport is the full pipeline: parse, derive, render, archive.
func runExport(cfg *config.Config, job exportJob) error {
	tr, err := transcript.Parse(job.TranscriptPath, transcript.Options{
		ToolResultBudget: cfg.ToolResultBudget,
	})
	if err != nil {
		return fmt.Errorf("parse transcript: %w", err)
	}
	if tr.SkippedLines > 0 {
		logger.Warn("skipped malformed transcript lines",
			zap.String("session", job.SessionID),
			zap.Int("lines", tr.SkippedLines))
	}
	if len(tr.Units) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to export.")
		return nil
	}

	date := tr.FirstTS
	if date.IsZero() {
		date = tr.Mtime
	}
	project := job.ProjectPath
	if project == "" {
		project = tr.ProjectPath
	}

	meta := markdown.Meta{
		Title:        derive.Title(tr.Units, job.SessionID),
		Date:         date,
		Tags:         derive.Tags(tr.Units),
		SessionID:    job.SessionID,
		ProjectPath:  project,
		MessageCount: tr.Turns,
	}
	doc := markdown.Render(meta, tr.Units)

	mgr, err := archive.NewManager(job.ArchiveRoot, logger)
	if err != nil {
		return err
	}
	defer mgr.Close()

	res, err := mgr.Export(meta, doc, cfg.ExportPolicy)
	if err != nil {
		return err
	}
	if res.Skipped {
		logger.Debug("export skipped",
			zap.String("session", job.SessionID),
			zap.String("reason", res.Reason))
		fmt.Fprintf(os.Stderr, "Skipped %s (%s)\n", job.SessionID, res.Reason)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Exported: %s\n", filepath.Join(job.ArchiveRoot, res.RelPath))
	return nil
}
