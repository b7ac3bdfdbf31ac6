// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/walkthrough/pkg/types"
)

// ErrEmptyQuery is returned by Search when no query or filter is given.
var ErrEmptyQuery = errors.New("empty query: provide search terms or a section")

const defaultMaxResults = 20

// Store is the SQLite catalog index, catalog.db.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the index at path and creates its schema.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, maxResults: defaultMaxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS artworks (
			ord INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			filename TEXT NOT NULL,
			title TEXT NOT NULL,
			technique TEXT,
			size TEXT,
			date TEXT,
			description TEXT,
			matched INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			intro TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS section_artworks (
			section_id TEXT NOT NULL REFERENCES sections(id),
			artwork_ord INTEGER NOT NULL REFERENCES artworks(ord),
			position INTEGER NOT NULL,
			PRIMARY KEY (section_id, artwork_ord)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_section_artworks_ord ON section_artworks(artwork_ord)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS artworks_fts USING fts4(title, technique, description)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IndexSummary holds the row counts of an Index run.
type IndexSummary struct {
	Artworks   int
	Sections   int
	Placements int
}

// Index replaces the contents of the store with cat in one transaction.
// Section orders without an artwork are not recorded as placements.
func (s *Store) Index(ctx context.Context, cat types.Catalog) (IndexSummary, error) {
	var sum IndexSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM section_artworks`,
		`DELETE FROM sections`,
		`DELETE FROM artworks`,
		`DELETE FROM artworks_fts`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return sum, fmt.Errorf("clearing index: %w", err)
		}
	}

	present := make(map[int]bool, len(cat.Artworks))
	for _, a := range cat.Artworks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO artworks (ord, id, filename, title, technique, size, date, description, matched)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.Order, a.ID, a.Filename, a.Title, a.Technique, a.Size, a.Date, a.Description, a.Matched,
		); err != nil {
			return sum, fmt.Errorf("inserting artwork %d: %w", a.Order, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO artworks_fts (docid, title, technique, description) VALUES (?, ?, ?, ?)`,
			a.Order, a.Title, a.Technique, a.Description,
		); err != nil {
			return sum, fmt.Errorf("indexing artwork %d: %w", a.Order, err)
		}
		present[a.Order] = true
		sum.Artworks++
	}

	for i, sec := range cat.Sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (id, position, title, intro) VALUES (?, ?, ?, ?)`,
			sec.ID, i+1, sec.Title, sec.Intro,
		); err != nil {
			return sum, fmt.Errorf("inserting section %s: %w", sec.ID, err)
		}
		sum.Sections++

		for j, o := range sec.Orders {
			if !present[o] {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO section_artworks (section_id, artwork_ord, position) VALUES (?, ?, ?)`,
				sec.ID, o, j+1,
			); err != nil {
				return sum, fmt.Errorf("placing artwork %d in %s: %w", o, sec.ID, err)
			}
			sum.Placements++
		}
	}

	if err := tx.Commit(); err != nil {
		return sum, fmt.Errorf("committing index: %w", err)
	}
	return sum, nil
}

// QueryOptions holds parameters for catalog searches.
type QueryOptions struct {
	// Query is the full-text search string over title, technique and
	// description.
	Query string

	// SectionID restricts results to artworks placed in that section.
	SectionID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return strings.TrimSpace(q.Query) == "" && q.SectionID == ""
}

// SearchResult is an artwork with the first section it is placed in.
type SearchResult struct {
	types.Artwork
	SectionID    string `json:"section_id" yaml:"section_id"`
	SectionTitle string `json:"section_title" yaml:"section_title"`
}

// Search returns artworks matching opts, in exhibition order.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]SearchResult, error) {
	if opts.IsEmpty() {
		return nil, ErrEmptyQuery
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT a.ord, a.id, a.filename, a.title, a.technique, a.size, a.date,
			a.description, a.matched,
			(SELECT s.id FROM section_artworks sa JOIN sections s ON s.id = sa.section_id
				WHERE sa.artwork_ord = a.ord ORDER BY s.position LIMIT 1),
			(SELECT s.title FROM section_artworks sa JOIN sections s ON s.id = sa.section_id
				WHERE sa.artwork_ord = a.ord ORDER BY s.position LIMIT 1)
		FROM artworks a
		WHERE 1=1`)

	if q := strings.TrimSpace(opts.Query); q != "" {
		qb.WriteString(` AND a.ord IN (SELECT docid FROM artworks_fts WHERE artworks_fts MATCH ?)`)
		args = append(args, q)
	}
	if opts.SectionID != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM section_artworks f WHERE f.artwork_ord = a.ord AND f.section_id = ?)`)
		args = append(args, opts.SectionID)
	}

	qb.WriteString(` ORDER BY a.ord LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			r                   SearchResult
			technique, size     sql.NullString
			date, description   sql.NullString
			sectionID, secTitle sql.NullString
		)
		if err := rows.Scan(
			&r.Order, &r.ID, &r.Filename, &r.Title, &technique, &size, &date,
			&description, &r.Matched, &sectionID, &secTitle,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Technique = technique.String
		r.Size = size.String
		r.Date = date.String
		r.Description = description.String
		r.SectionID = sectionID.String
		r.SectionTitle = secTitle.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of indexed artworks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM artworks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting artworks: %w", err)
	}
	return n, nil
}
