package datastore

import (
	"fmt"
	"sync"
)

// LockTable tracks the advisory lock of each named database: the session id
// holding it, or 0 for unlocked. Locks are process-local and never enforced —
// Lock overwrites any holder and Unlock performs no ownership check, matching
// the advisory contract callers rely on. The table is a value owned by a
// Datastore, not package state.
type LockTable struct {
	mu     sync.Mutex
	holder map[string]uint32
}

// NewLockTable returns a table with every database unlocked.
func NewLockTable() *LockTable {
	h := make(map[string]uint32, len(Databases))
	for _, db := range Databases {
		h[db] = 0
	}
	return &LockTable{holder: h}
}

// Lock marks db as held by session id. Any previous holder is overwritten.
func (t *LockTable) Lock(db string, id uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.holder[db]; !ok {
		return fmt.Errorf("lock %q: %w", db, ErrUnknownDatabase)
	}
	t.holder[db] = id
	return nil
}

// Unlock marks db as unlocked regardless of who holds it.
func (t *LockTable) Unlock(db string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.holder[db]; !ok {
		return fmt.Errorf("unlock %q: %w", db, ErrUnknownDatabase)
	}
	t.holder[db] = 0
	return nil
}

// UnlockAll releases every database held by session id, for use when the
// session disconnects or dies.
func (t *LockTable) UnlockAll(id uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for db, h := range t.holder {
		if h == id {
			t.holder[db] = 0
		}
	}
}

// IsLocked returns the session id holding db, or 0 if unlocked.
func (t *LockTable) IsLocked(db string) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.holder[db]
	if !ok {
		return 0, fmt.Errorf("is-locked %q: %w", db, ErrUnknownDatabase)
	}
	return h, nil
}
