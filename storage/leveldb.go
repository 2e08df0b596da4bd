package storage

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/cartesi/pos-dlib/core"
)

// LevelDB is a DB on disk. Writes are synced: the archive is small and
// rewritten rarely, so a status is durable once Put returns.
type LevelDB struct {
	db *leveldb.DB
	wo *opt.WriteOptions
}

// NewLevelDB opens (or creates) a LevelDB database at path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %q: %w", path, err)
	}
	return &LevelDB{db: db, wo: &opt.WriteOptions{Sync: true}}, nil
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, core.ErrNotFound
	}
	return val, err
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, l.wo)
}

func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, l.wo)
}

func (l *LevelDB) Range(prefix []byte, fn func(key, value []byte) bool) error {
	it := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	for it.Next() {
		if !fn(it.Key(), it.Value()) {
			break
		}
	}
	return it.Error()
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
