package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // pure Go driver, no cgo

	"github.com/amn-labs/holofs/internal/engram"
)

// ManifestStore is an indexed alternative to the flat JSON manifest file:
// a file-entry side table backed by SQLite, useful once an engram grows
// large enough that loading and re-marshalling the whole manifest on
// every extract becomes the bottleneck. A single file's entry (and its
// chunk id list) can be fetched without touching any other file's.
type ManifestStore struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

const manifestSchema = `
CREATE TABLE IF NOT EXISTS files (
	path        TEXT PRIMARY KEY,
	is_text     INTEGER NOT NULL,
	size        INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS chunks (
	path        TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	chunk_id    INTEGER NOT NULL,
	PRIMARY KEY (path, seq)
);
CREATE INDEX IF NOT EXISTS idx_chunks_path ON chunks(path);
`

// OpenManifestStore opens (creating if necessary) a SQLite-backed
// manifest store at path. WAL mode is set the same way the pack's
// FTS5 index sets it: a DSN journal_mode param is unreliable on
// modernc.org/sqlite, so it's set via an explicit PRAGMA after open.
func OpenManifestStore(path string) (*ManifestStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store: manifest store path must not be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: creating manifest store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening manifest store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: setting pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(manifestSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: creating manifest schema: %w", err)
	}

	return &ManifestStore{db: db, path: path}, nil
}

// PutFile upserts a file entry and replaces its chunk id list wholesale.
func (s *ManifestStore) PutFile(entry engram.FileEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO files (path, is_text, size) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET is_text = excluded.is_text, size = excluded.size
	`, entry.Path, boolToInt(entry.IsText), entry.Size)
	if err != nil {
		return fmt.Errorf("store: upserting file %s: %w", entry.Path, err)
	}

	if _, err := tx.Exec(`DELETE FROM chunks WHERE path = ?`, entry.Path); err != nil {
		return fmt.Errorf("store: clearing chunks for %s: %w", entry.Path, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO chunks (path, seq, chunk_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for seq, id := range entry.Chunks {
		if _, err := stmt.Exec(entry.Path, seq, id); err != nil {
			return fmt.Errorf("store: inserting chunk %d for %s: %w", seq, entry.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: committing file %s: %w", entry.Path, err)
	}
	return nil
}

// PutManifest upserts every file entry in m. Each file is its own
// transaction, mirroring PutFile, so a failure partway through leaves
// already-written files intact.
func (s *ManifestStore) PutManifest(m *engram.Manifest) error {
	for _, entry := range m.Files {
		if err := s.PutFile(entry); err != nil {
			return err
		}
	}
	return nil
}

// GetFile fetches a single file's entry by path, with its chunk ids in
// original order.
func (s *ManifestStore) GetFile(path string) (engram.FileEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry engram.FileEntry
	var isText int
	err := s.db.QueryRow(`SELECT path, is_text, size FROM files WHERE path = ?`, path).
		Scan(&entry.Path, &isText, &entry.Size)
	if err == sql.ErrNoRows {
		return engram.FileEntry{}, &FileNotFoundError{Path: path}
	}
	if err != nil {
		return engram.FileEntry{}, fmt.Errorf("store: querying file %s: %w", path, err)
	}
	entry.IsText = isText != 0

	rows, err := s.db.Query(`SELECT chunk_id FROM chunks WHERE path = ? ORDER BY seq ASC`, path)
	if err != nil {
		return engram.FileEntry{}, fmt.Errorf("store: querying chunks for %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id engram.ChunkID
		if err := rows.Scan(&id); err != nil {
			return engram.FileEntry{}, fmt.Errorf("store: scanning chunk for %s: %w", path, err)
		}
		entry.Chunks = append(entry.Chunks, id)
	}
	return entry, rows.Err()
}

// ListFiles returns every stored path under prefix (all files if prefix
// is empty), sorted lexically by SQLite's default TEXT ordering.
func (s *ManifestStore) ListFiles(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT path FROM files WHERE path LIKE ? ESCAPE '\' ORDER BY path ASC`, escapeLikePrefix(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("store: listing files: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("store: scanning path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Close releases the underlying database handle.
func (s *ManifestStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// escapeLikePrefix escapes SQLite LIKE metacharacters in a user-supplied
// prefix so ListFiles treats it as a literal path prefix.
func escapeLikePrefix(prefix string) string {
	r := strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_")
	return r.Replace(prefix)
}

// FileNotFoundError is returned by GetFile when no entry exists for path.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("store: no manifest entry for path %q", e.Path)
}
