package lamportmt

import (
	"github.com/cespare/xxhash"
)

// Serialized merkle tree:
//
//   magic          4 bytes  "LMT1"
//   layers         1 byte   L, including the root
//   address        40 bytes
//   nodes          44 bytes each, layer 0 first, up to layer L-2
//   checksum       8 bytes  xxhash64 of everything above, big endian
var treeMagic = []byte("LMT1")

const treeHeaderLen = 4 + 1 + AddressLen

// Size of the serialized tree of the given address type.
func treeBlobSize(t AddressType) int {
	nodes := 2*int(t.Leafs()) - 2
	return treeHeaderLen + nodes*hash256Len + 8
}

// Serializes the merkle tree.
func (mt *merkleTree) MarshalBinary() ([]byte, error) {
	ret := make([]byte, treeBlobSize(mt.t))
	copy(ret, treeMagic)
	ret[4] = byte(mt.Layers())
	copy(ret[5:], mt.address)
	off := treeHeaderLen
	for _, layer := range mt.layers {
		for _, node := range layer {
			copy(ret[off:off+hash256Len], node)
			off += hash256Len
		}
	}
	encodeUint64Into(xxhash.Sum64(ret[:off]), ret[off:])
	return ret, nil
}

// Parses a serialized merkle tree.  The buffer is not retained.
func (mt *merkleTree) UnmarshalBinary(buf []byte) error {
	if len(buf) < treeHeaderLen+8 || string(buf[:4]) != string(treeMagic) {
		return errorf("Not a serialized merkle tree")
	}
	t := AddressTypeFromLayers(uint32(buf[4]))
	if t == Unsupported {
		return errorf("Unsupported number of layers: %d", buf[4])
	}
	if len(buf) != treeBlobSize(t) {
		return errorf("Serialized merkle tree has wrong length %d (expected %d)",
			len(buf), treeBlobSize(t))
	}
	off := len(buf) - 8
	if xxhash.Sum64(buf[:off]) != decodeUint64(buf[off:]) {
		return errorf("Serialized merkle tree is corrupt: checksum mismatch")
	}

	*mt = *newMerkleTree(t)
	mt.address = string(buf[5:treeHeaderLen])
	off = treeHeaderLen
	for _, layer := range mt.layers {
		for i := range layer {
			layer[i] = string(buf[off : off+hash256Len])
			off += hash256Len
		}
	}
	return nil
}
