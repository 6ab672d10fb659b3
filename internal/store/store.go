// Package store is the flat key-value primitive backing each named database:
// one SQLite file per database, a single kv table, NULL-able values. Keys are
// opaque strings to this package; the datastore layer gives them structure.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

const bootstrap = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT
) WITHOUT ROWID;
`

// Pair is one stored record. Value is nil for marker records (containers,
// list instances, leaf-list containers) and non-nil for leaf bodies.
type Pair struct {
	Key   string
	Value *string
}

// Store is an open database file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens an existing database file. The file must have been created with
// Init first; opening a missing file is an error rather than an implicit
// create, so a typo'd path cannot silently spawn an empty database.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(bootstrap); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap store %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Set upserts a record. A nil value stores a marker (SQL NULL).
func (s *Store) Set(key string, value *string) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes the record at key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Exists reports whether a record is stored at key.
func (s *Store) Exists(key string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM kv WHERE key = ?`, key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", key, err)
	}
	return true, nil
}

// Scan returns every record, ordered by key.
func (s *Store) Scan() ([]Pair, error) {
	return s.query(`SELECT key, value FROM kv ORDER BY key`)
}

// ScanPrefix returns the record at key itself, every record under key + "/",
// and every instance record under key + "=". This is path-prefix matching:
// a scan of "/x/y=1,3" never returns "/x/y=1,30".
func (s *Store) ScanPrefix(key string) ([]Pair, error) {
	return s.query(`SELECT key, value FROM kv
		WHERE key = ? OR key LIKE ? ESCAPE '\' OR key LIKE ? ESCAPE '\'
		ORDER BY key`,
		key, likePattern(key)+"/%", likePattern(key)+"=%")
}

// DeletePrefix removes the record at key, every record under key + "/", and
// every instance record under key + "=".
func (s *Store) DeletePrefix(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv
		WHERE key = ? OR key LIKE ? ESCAPE '\' OR key LIKE ? ESCAPE '\'`,
		key, likePattern(key)+"/%", likePattern(key)+"=%")
	if err != nil {
		return fmt.Errorf("delete prefix %q: %w", key, err)
	}
	return nil
}

func (s *Store) query(q string, args ...any) ([]Pair, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	var pairs []Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.Key, &p.Value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.path, err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.path, err)
	}
	return pairs, nil
}

// likePattern escapes LIKE metacharacters in a literal key. Percent-encoded
// key values contain '%', which LIKE would otherwise treat as a wildcard.
func likePattern(key string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(key)
}

// Init creates or truncates the database file, leaving an empty kv table.
func Init(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("init store %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("init store %s: %w", path, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Printf("store: close %s after init: %v", path, cerr)
		}
	}()
	if _, err := db.Exec(bootstrap); err != nil {
		return fmt.Errorf("init store %s: %w", path, err)
	}
	return nil
}
