package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "running_db")
	require.NoError(t, Init(path))
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strp(s string) *string { return &s }

func TestOpenMissingFileFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent_db"))
	require.Error(t, err)
}

func TestSetExistsDelete(t *testing.T) {
	s := newStore(t)

	ok, err := s.Exists("/x")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("/x", nil))
	ok, err = s.Exists("/x")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete("/x"))
	ok, err = s.Exists("/x")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	require.NoError(t, s.Delete("/x"))
}

func TestSetUpsertsAndKeepsNullMarkers(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Set("/x/mtu", strp("1500")))
	require.NoError(t, s.Set("/x/mtu", strp("9000")))
	require.NoError(t, s.Set("/x", nil))

	pairs, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "/x", pairs[0].Key)
	assert.Nil(t, pairs[0].Value)
	assert.Equal(t, "/x/mtu", pairs[1].Key)
	require.NotNil(t, pairs[1].Value)
	assert.Equal(t, "9000", *pairs[1].Value)
}

func TestScanPrefixPathSemantics(t *testing.T) {
	s := newStore(t)
	for _, k := range []string{"/x", "/x/y=1,3", "/x/y=1,3/c", "/x/y=1,30", "/xenon"} {
		require.NoError(t, s.Set(k, nil))
	}

	pairs, err := s.ScanPrefix("/x/y=1,3")
	require.NoError(t, err)
	keys := []string{}
	for _, p := range pairs {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"/x/y=1,3", "/x/y=1,3/c"}, keys)
}

func TestScanPrefixCoversInstanceSelectors(t *testing.T) {
	s := newStore(t)
	for _, k := range []string{"/x/z=v1", "/x/z=v2", "/x/zz"} {
		require.NoError(t, s.Set(k, strp("v")))
	}

	pairs, err := s.ScanPrefix("/x/z")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "/x/z=v1", pairs[0].Key)
	assert.Equal(t, "/x/z=v2", pairs[1].Key)
}

func TestDeletePrefixLeavesSiblings(t *testing.T) {
	s := newStore(t)
	for _, k := range []string{"/x", "/x/y=1,2", "/x/y=1,2/c", "/x/y=1,3", "/x/y=1,3/c"} {
		require.NoError(t, s.Set(k, nil))
	}

	require.NoError(t, s.DeletePrefix("/x/y=1,3"))

	pairs, err := s.Scan()
	require.NoError(t, err)
	keys := []string{}
	for _, p := range pairs {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"/x", "/x/y=1,2", "/x/y=1,2/c"}, keys)
}

func TestLikeMetacharactersInKeys(t *testing.T) {
	s := newStore(t)
	// Percent-encoded list keys routinely contain '%'.
	require.NoError(t, s.Set("/x/y=a%2Cb", nil))
	require.NoError(t, s.Set("/x/y=aXb", nil))
	require.NoError(t, s.Set("/x/y=a%2Cb/c", strp("v")))

	pairs, err := s.ScanPrefix("/x/y=a%2Cb")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "/x/y=a%2Cb", pairs[0].Key)
	assert.Equal(t, "/x/y=a%2Cb/c", pairs[1].Key)

	require.NoError(t, s.DeletePrefix("/x/y=a%2Cb"))
	pairs, err = s.Scan()
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "/x/y=aXb", pairs[0].Key)
}

func TestInitTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidate_db")
	require.NoError(t, Init(path))
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("/x", nil))
	require.NoError(t, s.Close())

	require.NoError(t, Init(path))
	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	pairs, err := s.Scan()
	require.NoError(t, err)
	assert.Empty(t, pairs)
}
