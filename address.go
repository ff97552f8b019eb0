package lamportmt

import (
	"encoding/hex"
)

// Length of an address: prefix character and 39 hex digits.
const AddressLen = 40

// Formats the root of a Merkle tree as an address of the given type.
func formatAddress(t AddressType, root []byte) string {
	buf := make([]byte, 1+hex.EncodedLen(len(root)))
	buf[0] = t.Prefix()
	hex.Encode(buf[1:], root)
	return string(applyChecksumCase(buf))
}

// Cuts (or pads) the lowercase address in buf to AddressLen characters and
// uppercases the characters selected by the Keccak-256 of the result.
//
// Byte i of the hash drives two characters: bit 0x80 the character at 2i
// and bit 0x08 the one at 2i+1.  The prefix is character 0.
func applyChecksumCase(buf []byte) []byte {
	ret := make([]byte, AddressLen)
	n := copy(ret, buf)
	for ; n < AddressLen; n++ {
		ret[n] = '0'
	}
	for i := range ret {
		if 'A' <= ret[i] && ret[i] <= 'Z' {
			ret[i] += 'a' - 'A'
		}
	}
	h := keccak256(ret)
	for i := 0; i < AddressLen/2; i++ {
		if h[i]&0x08 != 0 {
			ret[2*i+1] = upper(ret[2*i+1])
		}
		if h[i]&0x80 != 0 {
			ret[2*i] = upper(ret[2*i])
		}
	}
	return ret
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// Returns the address with its checksum casing restored.
func AddressWithCase(address string) string {
	return string(applyChecksumCase([]byte(address)))
}

// Checks whether the address is well-formed: it has a known prefix,
// hex digits and the right checksum casing.
func CheckAddress(address string) bool {
	if len(address) != AddressLen {
		return false
	}
	if AddressTypeFromAddress(address) == Unsupported {
		return false
	}
	if _, err := hex.DecodeString(address[1:] + "0"); err != nil {
		return false
	}
	return address == AddressWithCase(address)
}
