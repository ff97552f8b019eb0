package lamportmt

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// Prefix of the keys of the trees in the key-value store.
var levelDBTreePrefix = []byte("merkle/")

// TreeStore backed by the node's LevelDB database.
type levelDBStore struct {
	db    *leveldb.DB
	owned bool // whether Close() closes db
}

// Opens (or creates) the LevelDB database at path and returns a TreeStore
// backed by it.
func OpenLevelDBTreeStore(path string) (TreeStore, Error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, wrapErrorf(err, "Failed to open LevelDB database %s", path)
	}
	return &levelDBStore{db: db, owned: true}, nil
}

// Returns a TreeStore backed by an already opened LevelDB database.
// Closing the store does not close the database.
func NewLevelDBTreeStore(db *leveldb.DB) TreeStore {
	return &levelDBStore{db: db}
}

func levelDBTreeKey(address string) []byte {
	key := treeKey(address)
	ret := make([]byte, len(levelDBTreePrefix)+len(key))
	copy(ret, levelDBTreePrefix)
	copy(ret[len(levelDBTreePrefix):], key)
	return ret
}

func (store *levelDBStore) GetTree(address string) ([]byte, bool, Error) {
	blob, err := store.db.Get(levelDBTreeKey(address), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapErrorf(err, "Failed to get tree of %s", address)
	}
	return blob, true, nil
}

func (store *levelDBStore) PutTree(address string, blob []byte) Error {
	if err := store.db.Put(levelDBTreeKey(address), blob, nil); err != nil {
		return wrapErrorf(err, "Failed to put tree of %s", address)
	}
	return nil
}

func (store *levelDBStore) Close() Error {
	if !store.owned {
		return nil
	}
	if err := store.db.Close(); err != nil {
		return wrapErrorf(err, "Failed to close LevelDB database")
	}
	return nil
}
