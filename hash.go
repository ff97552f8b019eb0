package lamportmt

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"math/big"

	"golang.org/x/crypto/sha3"
)

const (
	// Number of message bits signed by one Lamport key.
	SignedBits = 100

	// Number of Lamport private key parts: one pair per signed bit.
	KeyParts = 2 * SignedBits

	// Length of the base64 rendering of a full SHA-256 hash.
	hash256Len = 44

	// Length of the truncated SHA-256 hash used for most key parts.
	hashShortLen = 16

	// Length of the base64 rendering of a SHA-512 hash.
	hash512Len = 88
)

// SHA-256 of s, base64 encoded.  Used for leafs and internal nodes.
func hash256(s string) string {
	h := sha256.Sum256([]byte(s))
	return base64.StdEncoding.EncodeToString(h[:])
}

// SHA-256 of s, base64 encoded and cut to 16 characters.
func hashShort(s string) string {
	return hash256(s)[:hashShortLen]
}

// SHA-512 of s, base64 encoded.  Used for the last pair of key parts.
func hash512(s string) string {
	h := sha512.Sum512([]byte(s))
	return base64.StdEncoding.EncodeToString(h[:])
}

// Returns the hash used for the key parts at the given bit position.
func partHash(pos int) func(string) string {
	if pos == SignedBits-1 {
		return hash512
	}
	return hashShort
}

// Keccak-256 as used by Ethereum (ie. not the standardized SHA3-256.)
func keccak256(in []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(in)
	return h.Sum(nil)
}

// Computes the bits of msg that are signed: the SHA-256 of the message
// written as a binary number without leading zeros, cut to SignedBits
// characters.
//
// NOTE A digest with leading zero bits yields a shorter binary string, which
//      shifts the signed bits.  Signers and verifiers agree on this and
//      changing it would invalidate every issued signature.
func digestBits(msg []byte) (string, Error) {
	h := sha256.Sum256(msg)
	bits := new(big.Int).SetBytes(h[:]).Text(2)
	if len(bits) < SignedBits {
		return "", invalidf("message digest has only %d significant bits",
			len(bits))
	}
	return bits[:SignedBits], nil
}

// Known answers for the primitives.  Without them there is no safe way to
// continue.
func selfTest() {
	vectors := []struct {
		got  string
		want string
	}{
		{hash256("abc"), "ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0="},
		{hex.EncodeToString(keccak256(nil)),
			"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
	}
	for _, v := range vectors {
		if v.got != v.want {
			panic("lamportmt: hash primitive self-test failed")
		}
	}
	h512 := sha512.Sum512([]byte("abc"))
	if !bytes.HasPrefix(h512[:], []byte{0xdd, 0xaf, 0x35, 0xa1}) {
		panic("lamportmt: SHA-512 self-test failed")
	}
	var shake [4]byte
	sha3.ShakeSum256(shake[:], nil)
	if !bytes.Equal(shake[:], []byte{0x46, 0xb9, 0xdd, 0x2b}) {
		panic("lamportmt: SHAKE256 self-test failed")
	}
}

func init() {
	selfTest()
}
