// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite ledger of completed renders. The ledger
// lets a repeated render with unchanged input, page, DPI, backend, and
// output be skipped, and can be listed or exported.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pagesnap/pkg/types"
)

// DefaultPath is the ledger location used when none is configured.
const DefaultPath = ".pagesnap/history.db"

const defaultListLimit = 20

// Store manages the render ledger database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger at cfg.Path, creating parent
// directories and the schema as needed.
func Open(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS renders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input_sha256 TEXT NOT NULL,
			page INTEGER NOT NULL,
			dpi REAL NOT NULL,
			backend TEXT NOT NULL,
			output_path TEXT NOT NULL,
			output_sha256 TEXT,
			input_path TEXT NOT NULL,
			page_width_pt REAL,
			page_height_pt REAL,
			width_px INTEGER,
			height_px INTEGER,
			rendered_at TEXT NOT NULL,
			UNIQUE (input_sha256, page, dpi, backend, output_path)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_renders_rendered_at ON renders(rendered_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return s.addColumn("renders", "output_sha256", "TEXT")
}

// addColumn adds a column to ledgers created before it existed.
func (s *Store) addColumn(table, column, decl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("reading %s columns: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("reading %s columns: %w", table, err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading %s columns: %w", table, err)
	}
	rows.Close()

	if _, err := s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl)); err != nil {
		return fmt.Errorf("adding %s.%s: %w", table, column, err)
	}
	return nil
}

// Record upserts a completed render. A repeated key replaces the earlier
// row's measurements and timestamp.
func (s *Store) Record(ctx context.Context, r types.RenderResult) error {
	renderedAt := r.RenderedAt
	if renderedAt.IsZero() {
		renderedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders (input_sha256, page, dpi, backend, output_path, output_sha256, input_path,
			page_width_pt, page_height_pt, width_px, height_px, rendered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(input_sha256, page, dpi, backend, output_path) DO UPDATE SET
			output_sha256=excluded.output_sha256, input_path=excluded.input_path,
			page_width_pt=excluded.page_width_pt, page_height_pt=excluded.page_height_pt,
			width_px=excluded.width_px, height_px=excluded.height_px,
			rendered_at=excluded.rendered_at`,
		r.InputSHA256, r.Page, r.DPI, string(r.Backend), r.OutputPath, r.OutputSHA256, r.InputPath,
		r.PageSize.Width, r.PageSize.Height, r.Pixels.Width, r.Pixels.Height,
		renderedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording render of %s: %w", r.InputPath, err)
	}
	return nil
}

// Lookup returns the recorded render for key, if any.
func (s *Store) Lookup(ctx context.Context, key types.RenderKey) (types.RenderResult, bool, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE input_sha256 = ? AND page = ? AND dpi = ? AND backend = ? AND output_path = ?`,
		key.InputSHA256, key.Page, key.DPI, string(key.Backend), key.OutputPath,
	)
	r, err := scanRender(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RenderResult{}, false, nil
	}
	if err != nil {
		return types.RenderResult{}, false, fmt.Errorf("looking up render: %w", err)
	}
	return r, true, nil
}

// List returns up to limit renders, most recent first. A limit of zero or
// less uses the default of 20.
func (s *Store) List(ctx context.Context, limit int) ([]types.RenderResult, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	results, err := s.query(ctx, selectColumns+` ORDER BY rendered_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing renders: %w", err)
	}
	return results, nil
}

// all returns every render, most recent first.
func (s *Store) all(ctx context.Context) ([]types.RenderResult, error) {
	return s.query(ctx, selectColumns+` ORDER BY rendered_at DESC, id DESC`)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]types.RenderResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []types.RenderResult
	for rows.Next() {
		r, err := scanRender(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning render: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

const selectColumns = `SELECT input_sha256, page, dpi, backend, output_path,
	COALESCE(output_sha256, ''), input_path,
	page_width_pt, page_height_pt, width_px, height_px, rendered_at FROM renders`

type scanner interface {
	Scan(dest ...any) error
}

func scanRender(sc scanner) (types.RenderResult, error) {
	var (
		r          types.RenderResult
		backend    string
		renderedAt string
	)
	err := sc.Scan(&r.InputSHA256, &r.Page, &r.DPI, &backend, &r.OutputPath, &r.OutputSHA256, &r.InputPath,
		&r.PageSize.Width, &r.PageSize.Height, &r.Pixels.Width, &r.Pixels.Height, &renderedAt)
	if err != nil {
		return types.RenderResult{}, err
	}
	r.Backend = types.Backend(backend)
	r.Status = types.StatusRendered
	if t, err := time.Parse(time.RFC3339Nano, renderedAt); err == nil {
		r.RenderedAt = t
	}
	return r, nil
}
