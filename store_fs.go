package lamportmt

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
	"github.com/hashicorp/go-multierror"
	"github.com/nightlyone/lockfile"
)

// TreeStore backed by a directory:
//
//   path/to/dir/.lock                  a lockfile
//   path/to/dir/<ADDRESS>.tree         the serialized tree of ADDRESS
//   path/to/dir/<ADDRESS>.tree.tmp*    a tree that is being written
type fsStore struct {
	flock lockfile.Lockfile // directory lock
	path  string            // absolute path to the directory
}

// Returns a TreeStore backed by the given directory, which is created if
// it does not exist.  Only one fsStore can have a directory open at
// a time.
func OpenFSTreeStore(path string) (TreeStore, Error) {
	var store fsStore
	var err error

	store.path, err = filepath.Abs(path)
	if err != nil {
		return nil, wrapErrorf(err, "Could not turn %s into an absolute path", path)
	}

	if err = os.MkdirAll(store.path, 0700); err != nil {
		return nil, wrapErrorf(err, "Failed to create %s", store.path)
	}

	lockFilePath := filepath.Join(store.path, ".lock")
	store.flock, err = lockfile.New(lockFilePath)
	if err != nil {
		return nil, wrapErrorf(err, "Failed to create lockfile %s", lockFilePath)
	}

	err = store.flock.TryLock()
	if err != nil {
		if _, ok := err.(interface {
			Temporary() bool
		}); ok {
			err2 := errorf("%s is locked", path)
			err2.locked = true
			return nil, err2
		}
		return nil, wrapErrorf(err, "Failed to lock %s", path)
	}

	return &store, nil
}

func (store *fsStore) treePath(address string) string {
	return filepath.Join(store.path, treeKey(address)+".tree")
}

func (store *fsStore) GetTree(address string) (blob []byte, exists bool, err Error) {
	path := store.treePath(address)
	file, err2 := os.Open(path)
	if os.IsNotExist(err2) {
		return nil, false, nil
	}
	if err2 != nil {
		return nil, false, wrapErrorf(err2, "Failed to open %s", path)
	}

	var result *multierror.Error
	defer func() {
		result = multierror.Append(result, file.Close())
		if result.ErrorOrNil() != nil && err == nil {
			blob, exists = nil, false
			err = wrapErrorf(result, "Failed to read %s", path)
		}
	}()

	info, err2 := file.Stat()
	if err2 != nil {
		result = multierror.Append(result, err2)
		return
	}
	if info.Size() == 0 {
		// Mapping an empty file fails.  An empty tree is no tree.
		return nil, false, nil
	}

	buf, err2 := mmap.Map(file, mmap.RDONLY, 0)
	if err2 != nil {
		result = multierror.Append(result, err2)
		return
	}
	blob = make([]byte, len(buf))
	copy(blob, buf)
	result = multierror.Append(result, buf.Unmap())
	return blob, true, nil
}

func (store *fsStore) PutTree(address string, blob []byte) Error {
	path := store.treePath(address)
	tmp, err := ioutil.TempFile(store.path, filepath.Base(path)+".tmp")
	if err != nil {
		return wrapErrorf(err, "Failed to create temporary file for %s", path)
	}

	var result *multierror.Error
	if _, err = tmp.Write(blob); err != nil {
		result = multierror.Append(result, err)
	} else if err = tmp.Sync(); err != nil {
		result = multierror.Append(result, err)
	}
	result = multierror.Append(result, tmp.Close())

	if result.ErrorOrNil() == nil {
		result = multierror.Append(result, os.Rename(tmp.Name(), path))
	}
	if result.ErrorOrNil() != nil {
		os.Remove(tmp.Name())
		return wrapErrorf(result, "Failed to write %s", path)
	}
	return nil
}

// Removes left-over temporary files and releases the lock.
func (store *fsStore) Close() Error {
	var result *multierror.Error
	tmps, err := filepath.Glob(filepath.Join(store.path, "*.tree.tmp*"))
	result = multierror.Append(result, err)
	for _, tmp := range tmps {
		result = multierror.Append(result, os.Remove(tmp))
	}
	result = multierror.Append(result, store.flock.Unlock())
	if result.ErrorOrNil() != nil {
		return wrapErrorf(result, "Failed to close %s", store.path)
	}
	return nil
}
