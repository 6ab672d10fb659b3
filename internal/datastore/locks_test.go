package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	lt := NewLockTable()

	holder, err := lt.IsLocked("running")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), holder)

	require.NoError(t, lt.Lock("running", 42))
	holder, err = lt.IsLocked("running")
	require.NoError(t, err)
	assert.Equal(t, uint32(42), holder)

	require.NoError(t, lt.Unlock("running"))
	holder, err = lt.IsLocked("running")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), holder)
}

func TestLockIsIdempotent(t *testing.T) {
	lt := NewLockTable()
	require.NoError(t, lt.Lock("candidate", 1))
	require.NoError(t, lt.Lock("candidate", 1))
	holder, err := lt.IsLocked("candidate")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), holder)
}

func TestLockLastWriterWins(t *testing.T) {
	// Advisory semantics: no ownership check, a later Lock displaces the
	// holder and Unlock needs no credentials.
	lt := NewLockTable()
	require.NoError(t, lt.Lock("candidate", 1))
	require.NoError(t, lt.Lock("candidate", 2))
	holder, err := lt.IsLocked("candidate")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), holder)

	require.NoError(t, lt.Unlock("candidate"))
	holder, err = lt.IsLocked("candidate")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), holder)
}

func TestUnlockAll(t *testing.T) {
	lt := NewLockTable()
	require.NoError(t, lt.Lock("running", 1))
	require.NoError(t, lt.Lock("candidate", 1))
	require.NoError(t, lt.Lock("startup", 2))

	lt.UnlockAll(1)

	for db, want := range map[string]uint32{"running": 0, "candidate": 0, "startup": 2, "tmp": 0} {
		holder, err := lt.IsLocked(db)
		require.NoError(t, err)
		assert.Equal(t, want, holder, db)
	}
}

func TestLockUnknownDatabase(t *testing.T) {
	lt := NewLockTable()
	assert.ErrorIs(t, lt.Lock("bogus", 1), ErrUnknownDatabase)
	assert.ErrorIs(t, lt.Unlock("bogus"), ErrUnknownDatabase)
	_, err := lt.IsLocked("bogus")
	assert.ErrorIs(t, err, ErrUnknownDatabase)
}
