package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

var testBucket = []byte("bucket")

func TestBoltDB_New(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Opening a directory is not a valid database file.
	_, err = New(t.TempDir())
	require.Error(t, err)
}

func TestBoltDB_UpdateAndView(t *testing.T) {
	db := makeDB(t)

	committed := false

	err := db.Update(func(tx WritableTx) error {
		tx.OnCommit(func() { committed = true })

		bucket, err := tx.GetBucketOrCreate(testBucket)
		require.NoError(t, err)

		return bucket.Set([]byte("key"), []byte("value"))
	})
	require.NoError(t, err)
	require.True(t, committed)

	err = db.View(func(tx ReadableTx) error {
		bucket := tx.GetBucket(testBucket)
		require.NotNil(t, bucket)

		require.Equal(t, []byte("value"), bucket.Get([]byte("key")))
		require.Nil(t, bucket.Get([]byte("unknown")))

		require.Nil(t, tx.GetBucket([]byte("unknown")))

		return nil
	})
	require.NoError(t, err)
}

func TestBoltDB_Update_Abort(t *testing.T) {
	db := makeDB(t)

	err := db.Update(func(tx WritableTx) error {
		bucket, err := tx.GetBucketOrCreate(testBucket)
		require.NoError(t, err)

		require.NoError(t, bucket.Set([]byte("key"), []byte("value")))

		return xerrors.New("abort")
	})
	require.EqualError(t, err, "abort")

	err = db.View(func(tx ReadableTx) error {
		require.Nil(t, tx.GetBucket(testBucket))

		return nil
	})
	require.NoError(t, err)
}

func TestBoltBucket_Delete(t *testing.T) {
	db := makeDB(t)

	err := db.Update(func(tx WritableTx) error {
		bucket, err := tx.GetBucketOrCreate(testBucket)
		require.NoError(t, err)

		require.NoError(t, bucket.Set([]byte("key"), []byte("value")))
		require.NoError(t, bucket.Delete([]byte("key")))

		require.Nil(t, bucket.Get([]byte("key")))

		return nil
	})
	require.NoError(t, err)
}

func TestBoltBucket_ForEach(t *testing.T) {
	db := makeDB(t)

	err := db.Update(func(tx WritableTx) error {
		bucket, err := tx.GetBucketOrCreate(testBucket)
		require.NoError(t, err)

		require.NoError(t, bucket.Set([]byte{2}, []byte{2}))
		require.NoError(t, bucket.Set([]byte{1}, []byte{1}))
		require.NoError(t, bucket.Set([]byte{0}, []byte{0}))

		var i byte

		return bucket.ForEach(func(k, v []byte) error {
			require.Equal(t, []byte{i}, k)
			require.Equal(t, []byte{i}, v)
			i++

			return nil
		})
	})
	require.NoError(t, err)
}

func TestBoltBucket_Scan(t *testing.T) {
	db := makeDB(t)

	err := db.Update(func(tx WritableTx) error {
		bucket, err := tx.GetBucketOrCreate(testBucket)
		require.NoError(t, err)

		require.NoError(t, bucket.Set([]byte{7}, []byte{7}))
		require.NoError(t, bucket.Set([]byte{0, 7}, []byte{0, 7}))
		require.NoError(t, bucket.Set([]byte{0, 1}, []byte{0, 1}))

		calls := [][]byte{}

		err = bucket.Scan([]byte{0}, func(k, v []byte) error {
			calls = append(calls, append([]byte{}, k...))

			return nil
		})
		require.NoError(t, err)
		require.Equal(t, [][]byte{{0, 1}, {0, 7}}, calls)

		err = bucket.Scan(nil, func(k, v []byte) error {
			return xerrors.New("oops")
		})
		require.EqualError(t, err, "callback failed: oops")

		return nil
	})
	require.NoError(t, err)
}

// -----------------------------------------------------------------------------
// Utility functions

func makeDB(t *testing.T) DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}
