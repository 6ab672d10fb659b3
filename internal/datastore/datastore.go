// Package datastore is the public face of the engine: schema-typed
// configuration trees stored as flat key-value records, one SQLite-backed
// file per named database. Reads scan the flat store and rebuild a tree;
// writes flatten a tree into point and prefix operations.
package datastore

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/netopsio/treekv/internal/schema"
	"github.com/netopsio/treekv/internal/store"
)

// Databases is the fixed set of named stores. Lifecycle is explicit: Create
// initializes a backing file, Delete removes it, Copy clones one onto
// another.
var Databases = []string{"running", "candidate", "startup", "tmp"}

// RootName is the name of the synthetic root container of every tree the
// datastore returns or accepts.
const RootName = "config"

// Datastore is a handle to one database directory plus the schema its
// contents conform to. Multiple handles to the same directory may coexist;
// the lock table is advisory and local to the handle's process.
type Datastore struct {
	dir    string
	schema *schema.Tree
	locks  *LockTable
	fs     billy.Filesystem
}

// Open returns a handle for the database files under dir, which must exist.
// The schema governs every key<->tree translation made through the handle.
func Open(dir string, st *schema.Tree) (*Datastore, error) {
	fs := osfs.New(dir)
	if _, err := fs.Stat("."); err != nil {
		return nil, fmt.Errorf("open datastore dir %s: %w", dir, err)
	}
	return &Datastore{dir: dir, schema: st, locks: NewLockTable(), fs: fs}, nil
}

// Schema returns the schema tree the handle resolves against.
func (d *Datastore) Schema() *schema.Tree { return d.schema }

// dbFile validates a database name and returns its backing file name,
// relative to the datastore directory.
func dbFile(db string) (string, error) {
	for _, known := range Databases {
		if db == known {
			return db + "_db", nil
		}
	}
	return "", fmt.Errorf("%q: %w", db, ErrUnknownDatabase)
}

func (d *Datastore) dbPath(db string) (string, error) {
	name, err := dbFile(db)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.dir, name), nil
}

// Create initializes the backing file of db, truncating any prior contents.
func (d *Datastore) Create(db string) error {
	path, err := d.dbPath(db)
	if err != nil {
		return err
	}
	return store.Init(path)
}

// Delete removes the backing file of db. A missing file is not an error.
func (d *Datastore) Delete(db string) error {
	name, err := dbFile(db)
	if err != nil {
		return err
	}
	if _, err := d.fs.Stat(name); err != nil {
		return nil
	}
	if err := d.fs.Remove(name); err != nil {
		return fmt.Errorf("delete %s: %w", db, err)
	}
	return nil
}

// Exists reports whether the backing file of db exists.
func (d *Datastore) Exists(db string) (bool, error) {
	name, err := dbFile(db)
	if err != nil {
		return false, err
	}
	if _, err := d.fs.Stat(name); err != nil {
		return false, nil
	}
	return true, nil
}

// Copy byte-copies the backing file of one database onto another. No lock is
// taken; callers coordinate through the advisory lock table if they need to.
func (d *Datastore) Copy(from, to string) error {
	src, err := dbFile(from)
	if err != nil {
		return err
	}
	dst, err := dbFile(to)
	if err != nil {
		return err
	}
	data, err := util.ReadFile(d.fs, src)
	if err != nil {
		return fmt.Errorf("copy %s -> %s: %w", from, to, err)
	}
	if err := util.WriteFile(d.fs, dst, data, 0o644); err != nil {
		return fmt.Errorf("copy %s -> %s: %w", from, to, err)
	}
	return nil
}

// Dump returns the raw stored records of db, key-ordered, with no tree
// interpretation. Diagnostic surface for the CLI.
func (d *Datastore) Dump(db string) ([]store.Pair, error) {
	path, err := d.dbPath(db)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()
	return s.Scan()
}

// Lock marks db as held by session id; the previous holder, if any, loses it.
func (d *Datastore) Lock(db string, id uint32) error { return d.locks.Lock(db, id) }

// Unlock releases db unconditionally.
func (d *Datastore) Unlock(db string) error { return d.locks.Unlock(db) }

// UnlockAll releases every database held by session id.
func (d *Datastore) UnlockAll(id uint32) { d.locks.UnlockAll(id) }

// IsLocked returns the session holding db, or 0.
func (d *Datastore) IsLocked(db string) (uint32, error) { return d.locks.IsLocked(db) }
