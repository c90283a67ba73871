package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Zuo-Peng/ai-session-export/internal/markdown"
	"github.com/Zuo-Peng/ai-session-export/internal/state"
)

// Re-export policies. Refresh always overwrites, skipping only when
// the rendered document is byte-identical to the last export. Once
// skips any session that was exported before.
const (
	PolicyRefresh = "refresh"
	PolicyOnce    = "once"
)

// Manager owns the archive tree: per-session documents under
// <root>/<YYYY>/<MM-DD>/, the global index.md, and the exported-state
// database.
type Manager struct {
	root  string
	state *state.DB
	log   *zap.Logger
}

func NewManager(root string, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create archive root: %w", err)
	}
	st, err := state.Open(filepath.Join(root, ".exported_state"))
	if err != nil {
		return nil, err
	}
	return &Manager{root: root, state: st, log: log}, nil
}

func (m *Manager) Close() error {
	return m.state.Close()
}

func (m *Manager) Root() string {
	return m.root
}

type Result struct {
	RelPath string
	Skipped bool
	Reason  string
}

// Export writes the rendered document and updates the index, both
// atomically. The document write happens first, so an index failure
// never loses an already-written conversation file.
func (m *Manager) Export(meta markdown.Meta, doc string, policy string) (Result, error) {
	sum := sha256.Sum256([]byte(doc))
	hash := hex.EncodeToString(sum[:])

	prev, err := m.state.Get(meta.SessionID)
	if err != nil {
		// state is advisory; a broken state db must not block exports
		m.log.Warn("read exported state", zap.String("session", meta.SessionID), zap.Error(err))
		prev = nil
	}
	if prev != nil {
		switch {
		case policy == PolicyOnce:
			return Result{RelPath: prev.RelPath, Skipped: true, Reason: "already exported"}, nil
		case prev.ContentHash == hash:
			return Result{RelPath: prev.RelPath, Skipped: true, Reason: "unchanged"}, nil
		}
	}

	relPath := filepath.Join(meta.Date.Format("2006"), meta.Date.Format("01-02"), meta.SessionID+".md")
	absPath := filepath.Join(m.root, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return Result{}, fmt.Errorf("create date dir: %w", err)
	}
	if err := writeFileAtomic(absPath, []byte(doc)); err != nil {
		return Result{}, fmt.Errorf("write document: %w", err)
	}

	// a re-export with a different derived date leaves a stale file
	// behind at the old path; remove it now that the new one is live
	if prev != nil && prev.RelPath != "" && prev.RelPath != relPath {
		if err := os.Remove(filepath.Join(m.root, prev.RelPath)); err != nil && !os.IsNotExist(err) {
			m.log.Warn("remove stale document", zap.String("path", prev.RelPath), zap.Error(err))
		}
	}

	if err := m.upsertIndex(meta, relPath); err != nil {
		return Result{RelPath: relPath}, err
	}

	rec := state.Record{
		SessionID:   meta.SessionID,
		ContentHash: hash,
		RelPath:     relPath,
		Title:       meta.Title,
		ExportedAt:  time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}
	if err := m.state.Upsert(rec); err != nil {
		m.log.Warn("record exported state", zap.String("session", meta.SessionID), zap.Error(err))
	}

	return Result{RelPath: relPath}, nil
}

func (m *Manager) upsertIndex(meta markdown.Meta, relPath string) error {
	ixPath := filepath.Join(m.root, "index.md")
	ix, err := LoadIndex(ixPath)
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	ix.Upsert(IndexEntry{
		SessionID: meta.SessionID,
		Title:     meta.Title,
		Date:      meta.Date,
		Tags:      meta.Tags,
		RelPath:   relPath,
	})
	if err := ix.Write(ixPath); err != nil {
		return fmt.Errorf("update index: %w", err)
	}
	return nil
}

// StateCount reports how many sessions the state db has recorded.
func (m *Manager) StateCount() (int, error) {
	return m.state.Count()
}
