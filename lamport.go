package lamportmt

import (
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// Length of a Lamport private key part.
	partLen = 20

	// Characters used in Lamport private key parts.
	partAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Bytes at or above this value are rejected when sampling characters,
	// which keeps the characters uniform.
	partSampleLimit = 256 - 256%len(partAlphabet)
)

// Expands a seed into the 200 Lamport private key parts.
//
// The seed is absorbed by SHAKE256 and the parts are sampled from its
// output, so the expansion only depends on the seed.
func expandSeed(seed []byte) []string {
	xof := sha3.NewShake256()
	xof.Write(seed)

	ret := make([]string, KeyParts)
	var buf [64]byte
	var bufPos = len(buf)
	var part [partLen]byte
	for i := 0; i < KeyParts; i++ {
		for j := 0; j < partLen; {
			if bufPos == len(buf) {
				xof.Read(buf[:])
				bufPos = 0
			}
			b := buf[bufPos]
			bufPos++
			if int(b) >= partSampleLimit {
				continue
			}
			part[j] = partAlphabet[int(b)%len(partAlphabet)]
			j++
		}
		ret[i] = string(part[:])
	}
	return ret
}

// Returns the Lamport private key parts of the index-th keypair.
func lamportParts(masterKey []byte, index uint64) []string {
	return expandSeed(deriveSeed(masterKey, index))
}

// Computes the leaf of the Merkle tree from the Lamport private key parts.
// The public key itself is never stored: only its hash, the leaf.
func leafFromParts(parts []string) string {
	var pk strings.Builder
	pk.Grow((KeyParts-2)*hashShortLen + 2*hash512Len)
	for i := 0; i < SignedBits; i++ {
		h := partHash(i)
		pk.WriteString(h(parts[2*i]))
		pk.WriteString(h(parts[2*i+1]))
	}
	return hash256(pk.String())
}

// Computes the index-th leaf of the tree of the given master key.
func genLeaf(masterKey []byte, index uint64) string {
	return leafFromParts(lamportParts(masterKey, index))
}

// Which part of a pair is revealed as-is when signing a single bit.  The
// other part is sent hashed and the verifier completes the pair by hashing
// the revealed one.
type revealState uint8

const (
	// Bit 0: the first part is revealed, the second is sent hashed.
	RevealFirst revealState = iota

	// Bit 1: the second part is revealed, the first is sent hashed.
	RevealSecond
)

// Returns the state for the given character of the signed bit string.
func stateForBit(bit byte) (revealState, Error) {
	switch bit {
	case '0':
		return RevealFirst, nil
	case '1':
		return RevealSecond, nil
	}
	return 0, invalidf("%q is not a bit", bit)
}

// Returns the pair that goes into the signature for the private key parts
// (a, b) at position pos.
func (s revealState) sign(pos int, a, b string) (string, string) {
	h := partHash(pos)
	if s == RevealFirst {
		return a, h(b)
	}
	return h(a), b
}

// Returns the hashed public key parts for the pair (x, y) of a signature
// at position pos.
func (s revealState) complete(pos int, x, y string) (string, string) {
	h := partHash(pos)
	if s == RevealFirst {
		return h(x), y
	}
	return x, h(y)
}

// Creates the Lamport part of a signature.
func lamportSign(parts []string, bits string) ([][2]string, Error) {
	ret := make([][2]string, SignedBits)
	for i := 0; i < SignedBits; i++ {
		s, err := stateForBit(bits[i])
		if err != nil {
			return nil, err
		}
		ret[i][0], ret[i][1] = s.sign(i, parts[2*i], parts[2*i+1])
	}
	return ret, nil
}

// Computes the leaf from the Lamport part of a signature.  If the signature
// is valid, this leaf is in the Merkle tree of the signer.
func leafFromSig(pairs [][2]string, bits string) (string, Error) {
	if len(pairs) != SignedBits {
		return "", invalidf("signature has %d pairs instead of %d",
			len(pairs), SignedBits)
	}
	var pk strings.Builder
	pk.Grow((KeyParts-2)*hashShortLen + 2*hash512Len)
	for i := 0; i < SignedBits; i++ {
		s, err := stateForBit(bits[i])
		if err != nil {
			return "", err
		}
		a, b := s.complete(i, pairs[i][0], pairs[i][1])
		pk.WriteString(a)
		pk.WriteString(b)
	}
	return hash256(pk.String()), nil
}
