package artifacts

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// uriEscaper escapes the characters SQLite treats specially in a file: URI path
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// bundleDSN returns a read-only SQLite URI for path
func bundleDSN(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?mode=ro"
}

// BundleSource reads artifacts from a single SQLite file with the table
//
//	artifacts(name TEXT PRIMARY KEY, data BLOB)
type BundleSource struct {
	path string
	db   *sql.DB
}

// OpenBundle opens a bundle read-only and checks that it has an artifacts table
func OpenBundle(path string) (*BundleSource, error) {
	db, err := sql.Open("sqlite3", bundleDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle %s: %w", path, err)
	}

	var count int
	err = db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name='artifacts'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s is not a valid artifact bundle: %w", path, err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("%s is not a valid artifact bundle: no artifacts table", path)
	}

	return &BundleSource{path: path, db: db}, nil
}

// Read implements Source
func (s *BundleSource) Read(name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM artifacts WHERE name = ?", name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, name, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", name, s.path, err)
	}
	return data, nil
}

// Location implements Source
func (s *BundleSource) Location() string {
	return s.path
}

// Close implements Source
func (s *BundleSource) Close() error {
	return s.db.Close()
}
