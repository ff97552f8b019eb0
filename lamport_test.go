package lamportmt

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

var testMasterKey = []byte("supersecretkey")

func TestDeriveSeed(t *testing.T) {
	seed := deriveSeed(testMasterKey, 0)
	if hex.EncodeToString(seed) != "165ae781e60390984f1c4db92cb3ffe27d32"+
		"66290657f0928be514f2d1f624229b2386cc28ae84106320512966747703e0"+
		"ca1ffb2418856a3f9df9c8a1146cae495704fe45eaef44bcc2fb7b9ca4d0a3"+
		"16665ebb42a2e5ccab3f44e39d89fc20e0c6d611" {
		t.Fatalf("deriveSeed() returned %x", seed)
	}
	if !bytes.Equal(seed, deriveSeed(testMasterKey, 0)) {
		t.Fatalf("deriveSeed() is not deterministic")
	}
	if bytes.Equal(seed, deriveSeed(testMasterKey, 1)) {
		t.Fatalf("deriveSeed() ignores the index")
	}
	if bytes.Equal(seed, deriveSeed([]byte("supersecretkez"), 0)) {
		t.Fatalf("deriveSeed() ignores the master key")
	}
	if len(deriveSeed(nil, 1<<40)) != SeedSize {
		t.Fatalf("deriveSeed() returned a seed of the wrong size")
	}
}

func TestLamportParts(t *testing.T) {
	parts := lamportParts(testMasterKey, 0)
	if len(parts) != KeyParts {
		t.Fatalf("lamportParts() returned %d parts", len(parts))
	}
	if parts[0] != "EmwXX7PXX86QoAY1RyUg" {
		t.Fatalf("lamportParts()[0] = %s", parts[0])
	}
	if parts[KeyParts-1] != "hYtQgguZut3lxgAm4JBI" {
		t.Fatalf("lamportParts()[%d] = %s", KeyParts-1, parts[KeyParts-1])
	}
	seen := make(map[string]bool)
	for i, part := range parts {
		if len(part) != partLen {
			t.Fatalf("part %d has length %d", i, len(part))
		}
		if strings.Trim(part, partAlphabet) != "" {
			t.Fatalf("part %d has characters outside the alphabet: %s", i, part)
		}
		if seen[part] {
			t.Fatalf("part %d occurs twice", i)
		}
		seen[part] = true
	}
}

func TestGenLeaf(t *testing.T) {
	if leaf := genLeaf(testMasterKey, 0); leaf != "xKJ/NW1l1Jt76Hv90OIN+dnOE2WAYwFgYzx5u5G+3TY=" {
		t.Fatalf("genLeaf(0) = %s", leaf)
	}
	if leaf := genLeaf(testMasterKey, 8191); leaf != "y6Rl7a0WRIFBzGPjRmKSP3aY9g3XJA2D6Sk929ezs8c=" {
		t.Fatalf("genLeaf(8191) = %s", leaf)
	}
}

// The last pair is hashed with SHA-512.  A leaf computed with the short
// hash everywhere must differ.
func TestLeafUsesSHA512ForLastPair(t *testing.T) {
	parts := lamportParts(testMasterKey, 3)
	var pk strings.Builder
	for _, part := range parts {
		pk.WriteString(hashShort(part))
	}
	if hash256(pk.String()) == leafFromParts(parts) {
		t.Fatalf("leafFromParts() does not use SHA-512 for the last pair")
	}
}

func TestRevealStates(t *testing.T) {
	s, err := stateForBit('0')
	if err != nil || s != RevealFirst {
		t.Fatalf("stateForBit('0') = %v, %v", s, err)
	}
	s, err = stateForBit('1')
	if err != nil || s != RevealSecond {
		t.Fatalf("stateForBit('1') = %v, %v", s, err)
	}
	if _, err = stateForBit('2'); err == nil || !err.Invalid() {
		t.Fatalf("stateForBit('2') should fail")
	}

	for _, pos := range []int{0, SignedBits - 1} {
		h := partHash(pos)
		x, y := RevealFirst.sign(pos, "a", "b")
		if x != "a" || y != h("b") {
			t.Fatalf("RevealFirst.sign(%d) = %s, %s", pos, x, y)
		}
		if x, y = RevealFirst.complete(pos, x, y); x != h("a") || y != h("b") {
			t.Fatalf("RevealFirst.complete(%d) = %s, %s", pos, x, y)
		}
		x, y = RevealSecond.sign(pos, "a", "b")
		if x != h("a") || y != "b" {
			t.Fatalf("RevealSecond.sign(%d) = %s, %s", pos, x, y)
		}
		if x, y = RevealSecond.complete(pos, x, y); x != h("a") || y != h("b") {
			t.Fatalf("RevealSecond.complete(%d) = %s, %s", pos, x, y)
		}
	}
}

func TestLamportSignRoundTrip(t *testing.T) {
	parts := lamportParts(testMasterKey, 7)
	bits, _ := digestBits([]byte("hello"))
	pairs, err := lamportSign(parts, bits)
	if err != nil {
		t.Fatalf("lamportSign(): %v", err)
	}
	leaf, err := leafFromSig(pairs, bits)
	if err != nil {
		t.Fatalf("leafFromSig(): %v", err)
	}
	if leaf != leafFromParts(parts) {
		t.Fatalf("leafFromSig() does not recover the leaf")
	}

	otherBits, _ := digestBits([]byte("hellp"))
	leaf, _ = leafFromSig(pairs, otherBits)
	if leaf == leafFromParts(parts) {
		t.Fatalf("leafFromSig() recovers the leaf for another message")
	}

	if _, err = leafFromSig(pairs[1:], bits); err == nil {
		t.Fatalf("leafFromSig() accepted too few pairs")
	}
}
