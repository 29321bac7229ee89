package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Siedlerchr/jabref/internal/entry"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection holding the lookup caches.
type DB struct {
	db *sql.DB
}

// Location is a cached open-access lookup. An empty URL records that no
// open-access copy was known at CheckedAt.
type Location struct {
	DOI       string    `json:"doi"`
	URL       string    `json:"url,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Open-access lookups keyed by lowercased DOI
		CREATE TABLE IF NOT EXISTS oa_locations (
			doi TEXT PRIMARY KEY,
			url TEXT,
			checked_at INTEGER NOT NULL
		);

		-- Metadata fetched from doi.org, stored as canonical entry JSON
		CREATE TABLE IF NOT EXISTS doi_entries (
			doi TEXT PRIMARY KEY,
			entry_json TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

func cacheKey(doi string) string {
	return strings.ToLower(strings.TrimSpace(doi))
}

// PutLocation records the outcome of an open-access lookup, replacing any
// earlier one for the same DOI.
func (d *DB) PutLocation(doi, url string, checkedAt time.Time) error {
	key := cacheKey(doi)
	if key == "" {
		return errors.New("empty DOI")
	}
	_, err := d.db.Exec(`
		INSERT INTO oa_locations (doi, url, checked_at) VALUES (?, ?, ?)
		ON CONFLICT(doi) DO UPDATE SET url = excluded.url, checked_at = excluded.checked_at
	`, key, nullableStringValue(url), checkedAt.Unix())
	if err != nil {
		return fmt.Errorf("saving location for %s: %w", key, err)
	}
	return nil
}

// GetLocation returns the cached lookup for doi, if any.
func (d *DB) GetLocation(doi string) (Location, bool, error) {
	var (
		loc     Location
		url     sql.NullString
		checked int64
	)
	err := d.db.QueryRow(
		"SELECT doi, url, checked_at FROM oa_locations WHERE doi = ?", cacheKey(doi),
	).Scan(&loc.DOI, &url, &checked)
	if err == sql.ErrNoRows {
		return Location{}, false, nil
	}
	if err != nil {
		return Location{}, false, fmt.Errorf("reading location: %w", err)
	}
	loc.URL = url.String
	loc.CheckedAt = time.Unix(checked, 0).UTC()
	return loc, true, nil
}

// DeleteLocation removes the cached lookup for doi. It reports whether a
// row was removed.
func (d *DB) DeleteLocation(doi string) (bool, error) {
	res, err := d.db.Exec("DELETE FROM oa_locations WHERE doi = ?", cacheKey(doi))
	if err != nil {
		return false, fmt.Errorf("deleting location: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting location: %w", err)
	}
	return n > 0, nil
}

// CountLocations returns the number of cached lookups.
func (d *DB) CountLocations() (int, error) {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM oa_locations").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting locations: %w", err)
	}
	return count, nil
}

// PutEntry caches metadata fetched for doi.
func (d *DB) PutEntry(doi string, e *entry.Entry, fetchedAt time.Time) error {
	key := cacheKey(doi)
	if key == "" {
		return errors.New("empty DOI")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding entry: %w", err)
	}
	_, err = d.db.Exec(`
		INSERT INTO doi_entries (doi, entry_json, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(doi) DO UPDATE SET entry_json = excluded.entry_json, fetched_at = excluded.fetched_at
	`, key, string(data), fetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("saving entry for %s: %w", key, err)
	}
	return nil
}

// GetEntry returns cached metadata for doi and when it was fetched.
func (d *DB) GetEntry(doi string) (*entry.Entry, time.Time, bool, error) {
	var (
		data    string
		fetched int64
	)
	err := d.db.QueryRow(
		"SELECT entry_json, fetched_at FROM doi_entries WHERE doi = ?", cacheKey(doi),
	).Scan(&data, &fetched)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("reading entry: %w", err)
	}
	var e entry.Entry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("decoding cached entry: %w", err)
	}
	return &e, time.Unix(fetched, 0).UTC(), true, nil
}

// Clear empties both caches.
func (d *DB) Clear() error {
	for _, table := range []string{"oa_locations", "doi_entries"} {
		if _, err := d.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// nullableStringValue converts a string to sql.NullString (empty = NULL).
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
