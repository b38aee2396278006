package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Export is one downloaded QR code.
type Export struct {
	ID        string `json:"id"`
	Session   string `json:"session"`
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	PixelSize int    `json:"pixel_size"`
	HasLogo   bool   `json:"has_logo"`
	Bytes     int    `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
}

// ExportStore keeps the download history in SQLite.
type ExportStore struct {
	db *sql.DB
}

const createExportsTable = `
CREATE TABLE IF NOT EXISTS exports (
    id TEXT PRIMARY KEY,
    session TEXT NOT NULL,
    filename TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    pixel_size INTEGER NOT NULL,
    has_logo INTEGER NOT NULL DEFAULT 0,
    bytes INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);
`

const createFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS exports_fts USING fts5(
    content,
    content='exports',
    content_rowid='rowid'
);
`

const createFTSInsertTrigger = `
CREATE TRIGGER IF NOT EXISTS exports_ai AFTER INSERT ON exports BEGIN
    INSERT INTO exports_fts(rowid, content) VALUES (new.rowid, new.content);
END;
`

const createFTSDeleteTrigger = `
CREATE TRIGGER IF NOT EXISTS exports_ad AFTER DELETE ON exports BEGIN
    INSERT INTO exports_fts(exports_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
END;
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at);
`

const createSessionIndex = `
CREATE INDEX IF NOT EXISTS idx_exports_session ON exports(session, created_at);
`

// NewExportStore opens (or creates) the SQLite database at dbPath and
// initialises the schema. Pass ":memory:" for a throwaway store.
func NewExportStore(dbPath string) (*ExportStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range []string{
		createExportsTable,
		createFTSTable,
		createFTSInsertTrigger,
		createFTSDeleteTrigger,
		createIndexes,
		createSessionIndex,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &ExportStore{db: db}, nil
}

// Save records an export. A duplicate ID is ignored.
func (s *ExportStore) Save(e *Export) error {
	const query = `
		INSERT OR IGNORE INTO exports
			(id, session, filename, content, pixel_size, has_logo, bytes, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		e.ID,
		e.Session,
		e.Filename,
		e.Content,
		e.PixelSize,
		boolToInt(e.HasLogo),
		e.Bytes,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save export: %w", err)
	}
	return nil
}

// Recent returns the newest exports of a session first.
func (s *ExportStore) Recent(session string, limit, offset int) ([]Export, error) {
	const query = `
		SELECT id, session, filename, content, pixel_size, has_logo, bytes, created_at
		FROM exports
		WHERE session = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.Query(query, session, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("recent exports: %w", err)
	}
	defer rows.Close()

	return scanExports(rows)
}

// Search finds a session's exports whose content matches query, best match
// first.
func (s *ExportStore) Search(session, query string, limit int) ([]Export, error) {
	escaped := strings.ReplaceAll(query, `"`, `""`)
	ftsQuery := fmt.Sprintf(`"%s"`, escaped)

	const q = `
		SELECT e.id, e.session, e.filename, e.content, e.pixel_size, e.has_logo, e.bytes, e.created_at
		FROM exports e
		JOIN exports_fts fts ON e.rowid = fts.rowid
		WHERE exports_fts MATCH ? AND e.session = ?
		ORDER BY rank
		LIMIT ?
	`

	rows, err := s.db.Query(q, ftsQuery, session, limit)
	if err != nil {
		return nil, fmt.Errorf("search exports: %w", err)
	}
	defer rows.Close()

	return scanExports(rows)
}

// Count returns the number of stored exports. An empty session counts every
// row.
func (s *ExportStore) Count(session string) (int, error) {
	var (
		n   int
		row *sql.Row
	)
	if session == "" {
		row = s.db.QueryRow(`SELECT COUNT(*) FROM exports`)
	} else {
		row = s.db.QueryRow(`SELECT COUNT(*) FROM exports WHERE session = ?`, session)
	}
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count exports: %w", err)
	}
	return n, nil
}

// Prune deletes all but the newest keep exports and returns how many rows
// were removed. keep <= 0 disables pruning.
func (s *ExportStore) Prune(keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	const query = `
		DELETE FROM exports
		WHERE rowid NOT IN (
			SELECT rowid FROM exports ORDER BY created_at DESC, rowid DESC LIMIT ?
		)
	`
	res, err := s.db.Exec(query, keep)
	if err != nil {
		return 0, fmt.Errorf("prune exports: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database connection.
func (s *ExportStore) Close() error {
	return s.db.Close()
}

// --- helpers ----------------------------------------------------------------

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanExports(rows *sql.Rows) ([]Export, error) {
	var out []Export
	for rows.Next() {
		var e Export
		var hasLogo int
		if err := rows.Scan(
			&e.ID, &e.Session, &e.Filename, &e.Content,
			&e.PixelSize, &hasLogo, &e.Bytes, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		e.HasLogo = hasLogo != 0
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export rows: %w", err)
	}
	return out, nil
}
