package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartesi/pos-dlib/core"
)

func openTestDB(t *testing.T) *LevelDB {
	t.Helper()
	db, err := NewLevelDB(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLevelDBGetPutDelete(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Get([]byte("svc:Lottery"))
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, db.Put([]byte("svc:Lottery"), []byte("a")))
	val, err := db.Get([]byte("svc:Lottery"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(val))

	require.NoError(t, db.Delete([]byte("svc:Lottery")))
	_, err = db.Get([]byte("svc:Lottery"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLevelDBRangePrefixOrder(t *testing.T) {
	db := openTestDB(t)
	for k, v := range map[string]string{"svc:PoS": "b", "other": "c", "svc:Lottery": "a", "svc:PoSClaim": "d"} {
		require.NoError(t, db.Put([]byte(k), []byte(v)))
	}

	var keys []string
	err := db.Range([]byte("svc:"), func(k, _ []byte) bool {
		keys = append(keys, string(k))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"svc:Lottery", "svc:PoS", "svc:PoSClaim"}, keys)

	var first []string
	require.NoError(t, db.Range([]byte("svc:"), func(k, _ []byte) bool {
		first = append(first, string(k))
		return false
	}))
	assert.Equal(t, []string{"svc:Lottery"}, first, "fn returning false stops the scan")
}
