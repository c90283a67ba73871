package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Zuo-Peng/ai-session-export/internal/markdown"
	"github.com/Zuo-Peng/ai-session-export/internal/scan"
)

// RebuildIndex regenerates index.md from the documents actually on
// disk, recovering from a lost or hand-mangled index. Documents whose
// frontmatter cannot be read are skipped with a diagnostic.
func RebuildIndex(root string, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}

	files, err := scan.ScanArchive(root)
	if err != nil {
		return 0, fmt.Errorf("scan archive: %w", err)
	}

	ix := &Index{}
	for _, fi := range files {
		fm, err := readFrontmatter(fi.Path)
		if err != nil {
			log.Warn("skip document", zap.String("path", fi.RelPath), zap.Error(err))
			continue
		}
		date, err := time.Parse("2006-01-02", fm.Date)
		if err != nil {
			log.Warn("skip document with bad date", zap.String("path", fi.RelPath), zap.String("date", fm.Date))
			continue
		}
		sessionID := fm.SessionID
		if sessionID == "" {
			sessionID = strings.TrimSuffix(filepath.Base(fi.RelPath), ".md")
		}
		ix.Upsert(IndexEntry{
			SessionID: sessionID,
			Title:     fm.Title,
			Date:      date,
			Tags:      fm.Tags,
			RelPath:   fi.RelPath,
		})
	}

	if err := ix.Write(filepath.Join(root, "index.md")); err != nil {
		return 0, err
	}
	return ix.Len(), nil
}

func readFrontmatter(path string) (*markdown.Frontmatter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := string(data)
	if !strings.HasPrefix(s, "---\n") {
		return nil, fmt.Errorf("no frontmatter")
	}
	rest := s[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return nil, fmt.Errorf("unterminated frontmatter")
	}
	var fm markdown.Frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &fm); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return &fm, nil
}
