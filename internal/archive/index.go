package archive

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const indexHeader = `# Conversation Index

This index contains all exported Claude Code conversations.

## Conversations
`

type IndexEntry struct {
	SessionID string
	Title     string
	Date      time.Time
	Tags      []string
	RelPath   string
}

// Index is the global index.md modeled in memory: loaded fully, keyed
// by session id, and atomically rewritten. In-place line editing is
// deliberately avoided.
type Index struct {
	entries []IndexEntry
}

// entry lines look like:
//   - [2025-03-14] [Fix the auth bug](2025/03-14/abc123.md) - bug-fix, testing
var indexLineRe = regexp.MustCompile(`^- \[(\d{4}-\d{2}-\d{2})\] \[(.*)\]\(([^)]+)\)(?: - (.*))?$`)

// LoadIndex reads an existing index.md. A missing file yields an empty
// index; lines that do not look like entries are dropped (the header
// is regenerated on write).
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{}, nil
		}
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer f.Close()

	ix := &Index{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := indexLineRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		date, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			continue
		}
		relPath := m[3]
		e := IndexEntry{
			SessionID: strings.TrimSuffix(filepath.Base(relPath), ".md"),
			Title:     m[2],
			Date:      date,
			RelPath:   relPath,
		}
		if m[4] != "" {
			for _, t := range strings.Split(m[4], ",") {
				if t = strings.TrimSpace(t); t != "" {
					e.Tags = append(e.Tags, t)
				}
			}
		}
		ix.entries = append(ix.entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return ix, nil
}

func (ix *Index) Len() int {
	return len(ix.entries)
}

// Upsert replaces the entry with the same session id, or appends.
func (ix *Index) Upsert(e IndexEntry) {
	for i := range ix.entries {
		if ix.entries[i].SessionID == e.SessionID {
			ix.entries[i] = e
			return
		}
	}
	ix.entries = append(ix.entries, e)
}

// Write persists the index atomically, newest first. Ordering is fully
// determined by the entries, so rewriting the same set is byte-stable.
func (ix *Index) Write(path string) error {
	sorted := make([]IndexEntry, len(ix.entries))
	copy(sorted, ix.entries)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].SessionID < sorted[j].SessionID
	})

	var b strings.Builder
	b.WriteString(indexHeader)
	b.WriteString("\n")
	for _, e := range sorted {
		b.WriteString(fmt.Sprintf("- [%s] [%s](%s)", e.Date.Format("2006-01-02"), e.Title, e.RelPath))
		if len(e.Tags) > 0 {
			b.WriteString(" - " + strings.Join(e.Tags, ", "))
		}
		b.WriteString("\n")
	}

	return writeFileAtomic(path, []byte(b.String()))
}
