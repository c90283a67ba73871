package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS exports (
    session_id   TEXT PRIMARY KEY,
    content_hash TEXT NOT NULL DEFAULT '',
    rel_path     TEXT NOT NULL DEFAULT '',
    title        TEXT NOT NULL DEFAULT '',
    exported_at  TEXT NOT NULL DEFAULT '',
    export_count INTEGER NOT NULL DEFAULT 0
);
`

// DB is the persisted dedup bookkeeping: one row per exported session.
type DB struct {
	db *sql.DB
}

func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state schema: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

type Record struct {
	SessionID   string
	ContentHash string
	RelPath     string
	Title       string
	ExportedAt  string
	ExportCount int
}

// Get returns nil (no error) when the session has never been exported.
func (d *DB) Get(sessionID string) (*Record, error) {
	var r Record
	err := d.db.QueryRow(
		"SELECT session_id, content_hash, rel_path, title, exported_at, export_count FROM exports WHERE session_id = ?",
		sessionID,
	).Scan(&r.SessionID, &r.ContentHash, &r.RelPath, &r.Title, &r.ExportedAt, &r.ExportCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (d *DB) Upsert(r Record) error {
	_, err := d.db.Exec(`
		INSERT INTO exports (session_id, content_hash, rel_path, title, exported_at, export_count)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT(session_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			rel_path     = excluded.rel_path,
			title        = excluded.title,
			exported_at  = excluded.exported_at,
			export_count = export_count + 1`,
		r.SessionID, r.ContentHash, r.RelPath, r.Title, r.ExportedAt,
	)
	return err
}

func (d *DB) Count() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM exports").Scan(&n)
	return n, err
}
