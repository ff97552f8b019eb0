package lamportmt

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Size of the seed of a single Lamport keypair.
const SeedSize = 100

var (
	seedSalt = []byte("lamportmt/v1 seed salt")
	seedInfo = []byte("lamportmt seed")
)

// Derives the seed of the index-th Lamport keypair from the master key.
//
// This is the only place the master key is used directly.  The index is
// fed into HKDF-SHA256 as a counter, so seeds for different indices are
// independent and computing one does not require computing its
// predecessors.
func deriveSeed(masterKey []byte, index uint64) []byte {
	info := make([]byte, len(seedInfo)+8)
	copy(info, seedInfo)
	encodeUint64Into(index, info[len(seedInfo):])

	ret := make([]byte, SeedSize)
	r := hkdf.New(sha256.New, masterKey, seedSalt, info)
	if _, err := io.ReadFull(r, ret); err != nil {
		// HKDF-SHA256 can produce up to 255*32 bytes.
		panic(err)
	}
	return ret
}
