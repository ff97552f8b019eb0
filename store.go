package lamportmt

import (
	"strings"
	"sync"
)

// A TreeStore persists the serialized Merkle trees of addresses, so that
// they do not have to be regenerated from the private key every time a
// signature is made.
//
// Trees are stored under the uppercased address.  A lost tree is not
// fatal: it can be regenerated from the private key.
type TreeStore interface {
	// Returns the serialized tree stored for the address.  The exists
	// return value indicates whether there is one.  The returned buffer
	// is owned by the caller.
	GetTree(address string) (blob []byte, exists bool, err Error)

	// Stores the serialized tree for the address, replacing any previous
	// one.
	PutTree(address string, blob []byte) Error

	// Releases the resources held by the store.
	Close() Error
}

// Returns the key under which the tree of the address is stored.
func treeKey(address string) string {
	return strings.ToUpper(address)
}

// TreeStore that keeps the trees in memory.
type memStore struct {
	mux   sync.RWMutex
	trees map[string][]byte
}

// Returns a TreeStore that keeps the trees in memory.
func NewMemTreeStore() TreeStore {
	return &memStore{trees: make(map[string][]byte)}
}

func (store *memStore) GetTree(address string) ([]byte, bool, Error) {
	store.mux.RLock()
	defer store.mux.RUnlock()
	blob, ok := store.trees[treeKey(address)]
	if !ok {
		return nil, false, nil
	}
	ret := make([]byte, len(blob))
	copy(ret, blob)
	return ret, true, nil
}

func (store *memStore) PutTree(address string, blob []byte) Error {
	buf := make([]byte, len(blob))
	copy(buf, blob)
	store.mux.Lock()
	defer store.mux.Unlock()
	store.trees[treeKey(address)] = buf
	return nil
}

func (store *memStore) Close() Error {
	return nil
}
