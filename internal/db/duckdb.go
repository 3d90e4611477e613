// Package db persists decoded link mappings in a DuckDB database so a
// previously added crate resolves without re-fetching its index.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/jcdickinson/rsdoclink/internal/docsurl"
)

type DB struct {
	conn *sql.DB
}

func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_crate_id START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_link_id START 1;`,

		`CREATE TABLE IF NOT EXISTS crates (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			doc TEXT,
			fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(name, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crates_name ON crates (name)`,

		`CREATE TABLE IF NOT EXISTS links (
			id INTEGER PRIMARY KEY,
			crate_id INTEGER REFERENCES crates(id),
			path TEXT NOT NULL,
			url TEXT NOT NULL,
			kind TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_links_crate ON links (crate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_links_path ON links (path)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// UpsertCrate registers a crate version, replacing any links stored by an
// earlier add of the same version.
func (db *DB) UpsertCrate(name, version, doc string) (int, error) {
	var id int
	err := db.conn.QueryRow(
		`SELECT id FROM crates WHERE name = ? AND version = ?`, name, version,
	).Scan(&id)
	switch {
	case err == nil:
		if _, err := db.conn.Exec(`DELETE FROM links WHERE crate_id = ?`, id); err != nil {
			return 0, fmt.Errorf("clearing previous links: %w", err)
		}
		if _, err := db.conn.Exec(
			`UPDATE crates SET doc = ?, fetched_at = CURRENT_TIMESTAMP WHERE id = ?`, doc, id,
		); err != nil {
			return 0, fmt.Errorf("updating crate: %w", err)
		}
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		err := db.conn.QueryRow(
			`INSERT INTO crates (id, name, version, doc)
			 VALUES (nextval('seq_crate_id'), ?, ?, ?) RETURNING id`,
			name, version, doc,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("inserting crate: %w", err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("looking up crate: %w", err)
	}
}

// InsertLinks stores a crate's full path → URL mapping in one transaction.
func (db *DB) InsertLinks(crateID int, links []docsurl.Link) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO links (id, crate_id, path, url, kind)
		 VALUES (nextval('seq_link_id'), ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range links {
		if _, err := stmt.Exec(crateID, l.Path, l.URL, l.Kind.String()); err != nil {
			return fmt.Errorf("inserting link %q: %w", l.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing links: %w", err)
	}
	return nil
}

// LookupURL finds the stored URL for a path in a crate version. The version
// "latest" matches the most recently fetched entry for the crate.
func (db *DB) LookupURL(name, version, path string) (string, bool, error) {
	var (
		url string
		err error
	)
	if version == "" || version == "latest" {
		err = db.conn.QueryRow(
			`SELECT l.url FROM links l
			 JOIN crates c ON c.id = l.crate_id
			 WHERE c.name = ? AND l.path = ?
			 ORDER BY c.fetched_at DESC LIMIT 1`,
			name, path,
		).Scan(&url)
	} else {
		err = db.conn.QueryRow(
			`SELECT l.url FROM links l
			 JOIN crates c ON c.id = l.crate_id
			 WHERE c.name = ? AND c.version = ? AND l.path = ?
			 LIMIT 1`,
			name, version, path,
		).Scan(&url)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up link: %w", err)
	}
	return url, true, nil
}

// CrateInfo describes one stored crate version.
type CrateInfo struct {
	Name      string
	Version   string
	Links     int
	FetchedAt time.Time
}

// ListCrates returns all stored crate versions, most recently fetched first.
func (db *DB) ListCrates() ([]CrateInfo, error) {
	rows, err := db.conn.Query(
		`SELECT c.name, c.version, c.fetched_at, COUNT(l.id)
		 FROM crates c LEFT JOIN links l ON l.crate_id = c.id
		 GROUP BY c.name, c.version, c.fetched_at
		 ORDER BY c.fetched_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing crates: %w", err)
	}
	defer rows.Close()

	var infos []CrateInfo
	for rows.Next() {
		var info CrateInfo
		if err := rows.Scan(&info.Name, &info.Version, &info.FetchedAt, &info.Links); err != nil {
			return nil, fmt.Errorf("scanning crate row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
