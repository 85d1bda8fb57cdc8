package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestBoltDB_ResetAndView(t *testing.T) {
	db := makeDB(t)

	err := db.Reset([]byte("bucket"), func(b Bucket) error {
		return b.Set([]byte("ping"), []byte("pong"))
	})
	require.NoError(t, err)

	err = db.View([]byte("bucket"), func(b Bucket) error {
		value := b.Get([]byte("ping"))
		require.Equal(t, []byte("pong"), value)

		return nil
	})
	require.NoError(t, err)

	err = db.View([]byte{0xaa}, nil)
	require.EqualError(t, err, "bucket 'aa' not found")

	err = db.View([]byte("bucket"), func(b Bucket) error {
		return xerrors.New("oops")
	})
	require.EqualError(t, err, "oops")
}

func TestBoltDB_HasBucket(t *testing.T) {
	db := makeDB(t)

	found, err := db.HasBucket([]byte("bucket"))
	require.NoError(t, err)
	require.False(t, found)

	err = db.Reset([]byte("bucket"), func(Bucket) error { return nil })
	require.NoError(t, err)

	found, err = db.HasBucket([]byte("bucket"))
	require.NoError(t, err)
	require.True(t, found)
}

func TestBoltDB_Reset(t *testing.T) {
	db := makeDB(t)

	err := db.Reset([]byte("bucket"), func(b Bucket) error {
		require.NoError(t, b.Set([]byte("a"), []byte("1")))
		return b.Set([]byte("b"), []byte("2"))
	})
	require.NoError(t, err)

	err = db.Reset([]byte("bucket"), func(b Bucket) error {
		require.Nil(t, b.Get([]byte("a")))

		return b.Set([]byte("c"), []byte("3"))
	})
	require.NoError(t, err)

	keys := []string{}
	err = db.View([]byte("bucket"), func(b Bucket) error {
		return b.ForEach(func(k, v []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, keys)

	// A failing callback rolls back the whole transaction.
	err = db.Reset([]byte("bucket"), func(b Bucket) error {
		return xerrors.New("oops")
	})
	require.EqualError(t, err, "oops")

	err = db.View([]byte("bucket"), func(b Bucket) error {
		require.Equal(t, []byte("3"), b.Get([]byte("c")))
		return nil
	})
	require.NoError(t, err)

	err = db.Reset(nil, nil)
	require.EqualError(t, err, "failed to create bucket: bucket name required")
}

func TestBoltBucket_Get_Set(t *testing.T) {
	db := makeDB(t)

	err := db.Reset([]byte("bucket"), func(b Bucket) error {
		require.NoError(t, b.Set([]byte("ping"), []byte("pong")))

		value := b.Get([]byte("ping"))
		require.Equal(t, []byte("pong"), value)

		value = b.Get([]byte("pong"))
		require.Nil(t, value)

		require.NoError(t, b.Set([]byte("ping"), []byte("pang")))
		require.Equal(t, []byte("pang"), b.Get([]byte("ping")))

		return nil
	})

	require.NoError(t, err)
}

func TestBoltBucket_ForEach(t *testing.T) {
	db := makeDB(t)

	err := db.Reset([]byte("bucket"), func(b Bucket) error {
		require.NoError(t, b.Set([]byte{2}, []byte{2}))
		require.NoError(t, b.Set([]byte{1}, []byte{1}))
		require.NoError(t, b.Set([]byte{0}, []byte{0}))

		var i byte = 0
		return b.ForEach(func(k, v []byte) error {
			require.Equal(t, []byte{i}, k)
			require.Equal(t, []byte{i}, v)
			i++
			return nil
		})
	})
	require.NoError(t, err)
}

// -----------------------------------------------------------------------------
// Utility functions

func makeDB(t *testing.T) DB {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}
