// Package sqlite provides the SQLite-backed local draft cache.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/propdesk/propdesk/internal/codec"
	"github.com/propdesk/propdesk/internal/domain"
	_ "modernc.org/sqlite"
)

var (
	// ErrInvalidDraftID indicates an empty draft ID.
	ErrInvalidDraftID = errors.New("invalid draft ID")
	// ErrDraftNotFound indicates that a draft is not cached.
	ErrDraftNotFound = errors.New("draft not found")
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS drafts (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	payload    BLOB NOT NULL,
	hash       TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	cached_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_drafts_updated_at ON drafts(updated_at);
`

// CachedDraft is a cache row with its metadata.
type CachedDraft struct {
	Draft    domain.Draft
	Hash     string
	CachedAt time.Time
}

// DraftStore caches drafts locally. Payloads are stored as zstd-compressed
// CBOR with a blake3 content hash.
type DraftStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewDraftStore opens (and creates if needed) the cache at dbPath.
func NewDraftStore(dbPath string) (*DraftStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	store := &DraftStore{db: db, now: time.Now}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying SQLite connection.
func (s *DraftStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *DraftStore) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}

	return nil
}

// Put stores or replaces a draft. It reports whether the stored content
// changed.
func (s *DraftStore) Put(ctx context.Context, d domain.Draft) (bool, error) {
	if strings.TrimSpace(d.ID) == "" {
		return false, ErrInvalidDraftID
	}
	data := d.Data
	if data == nil {
		data = map[string]any{}
	}
	raw, err := codec.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("sqlite storage: encode draft %s: %w", d.ID, err)
	}
	hash := codec.Hash(raw)

	var existing string
	err = s.db.QueryRowContext(ctx, `SELECT hash FROM drafts WHERE id = ?`, d.ID).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("sqlite storage: put draft %s: %w", d.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO drafts (id, title, payload, hash, updated_at, cached_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	payload = excluded.payload,
	hash = excluded.hash,
	updated_at = excluded.updated_at,
	cached_at = excluded.cached_at`,
		d.ID, d.Title(), codec.Compress(raw), hash, d.UpdatedAt, utcFormat(s.now()))
	if err != nil {
		return false, fmt.Errorf("sqlite storage: put draft %s: %w", d.ID, err)
	}
	return existing != hash, nil
}

// Get returns a cached draft.
func (s *DraftStore) Get(ctx context.Context, id string) (CachedDraft, error) {
	if strings.TrimSpace(id) == "" {
		return CachedDraft{}, ErrInvalidDraftID
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, payload, hash, updated_at, cached_at FROM drafts WHERE id = ?`, id)
	cd, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CachedDraft{}, fmt.Errorf("sqlite storage: get draft: %w: id %s", ErrDraftNotFound, id)
	}
	if err != nil {
		return CachedDraft{}, fmt.Errorf("sqlite storage: get draft %s: %w", id, err)
	}
	return cd, nil
}

// List returns every cached draft, most recently updated first.
func (s *DraftStore) List(ctx context.Context) ([]CachedDraft, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload, hash, updated_at, cached_at FROM drafts ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list drafts: %w", err)
	}
	defer rows.Close()

	var out []CachedDraft
	for rows.Next() {
		cd, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite storage: list drafts: %w", err)
		}
		out = append(out, cd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list drafts: %w", err)
	}
	return out, nil
}

// Delete removes a cached draft. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidDraftID
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite storage: delete draft %s: %w", id, err)
	}
	return nil
}

// Prune removes drafts cached before cutoff and returns how many went.
func (s *DraftStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE cached_at < ?`, utcFormat(cutoff))
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: prune drafts: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (CachedDraft, error) {
	var (
		id, hash, updatedAt, cachedAt string
		blob                          []byte
	)
	if err := row.Scan(&id, &blob, &hash, &updatedAt, &cachedAt); err != nil {
		return CachedDraft{}, err
	}
	raw, err := codec.Decompress(blob)
	if err != nil {
		return CachedDraft{}, err
	}
	if codec.Hash(raw) != hash {
		return CachedDraft{}, fmt.Errorf("draft %s: payload hash mismatch", id)
	}
	var data map[string]any
	if err := codec.Unmarshal(raw, &data); err != nil {
		return CachedDraft{}, err
	}
	at, _ := time.Parse(timestampLayout, cachedAt)
	return CachedDraft{
		Draft:    domain.Draft{ID: id, Data: data, UpdatedAt: updatedAt},
		Hash:     hash,
		CachedAt: at,
	}, nil
}

// timestampLayout is fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func utcFormat(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
