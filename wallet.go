package lamportmt

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// A wallet file lists the addresses of a node along with their master keys,
// one "address:privateKey" per line.  The first address is the default one.
type Wallet struct {
	mux     sync.RWMutex
	path    string
	entries []walletEntry
}

type walletEntry struct {
	address    string
	privateKey string
}

// Loads the wallet at path.  A missing file yields an empty wallet, which
// is created by Save().
func LoadWallet(path string) (*Wallet, Error) {
	w := &Wallet{path: path}
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return w, nil
	}
	if err != nil {
		return nil, wrapErrorf(err, "Failed to open wallet %s", path)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		colon := strings.Index(line, ":")
		if colon <= 0 || colon == len(line)-1 {
			return nil, errorf("%s:%d: expected address:privateKey", path, lineNo)
		}
		w.entries = append(w.entries, walletEntry{
			address:    line[:colon],
			privateKey: line[colon+1:],
		})
	}
	if err = scanner.Err(); err != nil {
		return nil, wrapErrorf(err, "Failed to read wallet %s", path)
	}
	return w, nil
}

// Writes the wallet back to its file.
func (w *Wallet) Save() Error {
	w.mux.RLock()
	defer w.mux.RUnlock()

	dir := filepath.Dir(w.path)
	tmp, err := ioutil.TempFile(dir, filepath.Base(w.path)+".tmp")
	if err != nil {
		return wrapErrorf(err, "Failed to create temporary file in %s", dir)
	}
	bw := bufio.NewWriter(tmp)
	for _, e := range w.entries {
		fmt.Fprintf(bw, "%s:%s\n", e.address, e.privateKey)
	}
	err = bw.Flush()
	if err == nil {
		err = tmp.Chmod(0600)
	}
	if err2 := tmp.Close(); err == nil {
		err = err2
	}
	if err == nil {
		err = os.Rename(tmp.Name(), w.path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return wrapErrorf(err, "Failed to write wallet %s", w.path)
	}
	return nil
}

// Adds the address with its master key, unless it is already present.
func (w *Wallet) Add(address, privateKey string) {
	w.mux.Lock()
	defer w.mux.Unlock()
	for _, e := range w.entries {
		if e.address == address {
			return
		}
	}
	w.entries = append(w.entries, walletEntry{address, privateKey})
}

// Returns the master key of the address, and false if it is not in the
// wallet.
func (w *Wallet) PrivateKey(address string) (string, bool) {
	w.mux.RLock()
	defer w.mux.RUnlock()
	for _, e := range w.entries {
		if equalAddress(e.address, address) {
			return e.privateKey, true
		}
	}
	return "", false
}

// Returns the default address, and false if the wallet is empty.
func (w *Wallet) Default() (string, bool) {
	w.mux.RLock()
	defer w.mux.RUnlock()
	if len(w.entries) == 0 {
		return "", false
	}
	return w.entries[0].address, true
}

// Returns the addresses in the wallet.
func (w *Wallet) Addresses() []string {
	w.mux.RLock()
	defer w.mux.RUnlock()
	ret := make([]string, len(w.entries))
	for i, e := range w.entries {
		ret[i] = e.address
	}
	return ret
}

// Generates a new address, stores its tree and adds it to the wallet.
func (w *Wallet) NewAddress(ctx *Context, store TreeStore) (string, Error) {
	masterKey, _, pk, err := ctx.GenerateKeyPair(store)
	if err != nil {
		return "", err
	}
	w.Add(pk.Address(), masterKey)
	return pk.Address(), nil
}

// Derives the address of the given master key, stores its tree and adds
// it to the wallet.
func (w *Wallet) ImportPrivateKey(ctx *Context, store TreeStore,
	privateKey string) (string, Error) {
	if privateKey == "" || strings.ContainsAny(privateKey, "\r\n") {
		return "", errorf("Private key must be a single non-empty line")
	}
	_, pk, err := ctx.Derive(store, []byte(privateKey))
	if err != nil {
		return "", err
	}
	w.Add(pk.Address(), privateKey)
	return pk.Address(), nil
}
