package lamportmt

import (
	"encoding/hex"
	"strings"
	"testing"
)

// Addresses with a known prefix and checksum casing.
var testAddresses = []struct {
	address string
	t       AddressType
}{
	{"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", S5},
	{"fB6916095ca1df60bB79Ce92cE3Ea74c37c5d359", PublicContract},
	{"52908400098527886E0F7030069857D2E4169EE7", S5},
	{"27b1fdb04752bbc536007a920d24acb045561c26", S2},
	{"17213e097a0B7EA870e48272FdB4bc33FF80876a", S1},
}

func TestAddressWithCase(t *testing.T) {
	for _, v := range testAddresses {
		if got := AddressWithCase(strings.ToLower(v.address)); got != v.address {
			t.Fatalf("AddressWithCase(%s) = %s", strings.ToLower(v.address), got)
		}
		if got := AddressWithCase(strings.ToUpper(v.address)); got != v.address {
			t.Fatalf("AddressWithCase(%s) = %s", strings.ToUpper(v.address), got)
		}
		if got := AddressWithCase(v.address); got != v.address {
			t.Fatalf("AddressWithCase() is not idempotent on %s", v.address)
		}
		if got := AddressTypeFromAddress(v.address); got != v.t {
			t.Fatalf("AddressTypeFromAddress(%s) = %s", v.address, got)
		}
	}
}

func TestCheckAddress(t *testing.T) {
	for _, v := range testAddresses {
		if !CheckAddress(v.address) {
			t.Fatalf("CheckAddress(%s) failed", v.address)
		}
		if strings.ToLower(v.address) != v.address &&
			CheckAddress(strings.ToLower(v.address)) {
			t.Fatalf("CheckAddress(%s) ignores the checksum",
				strings.ToLower(v.address))
		}
	}
	for _, address := range []string{
		"",
		"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe",   // too short
		"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAedd", // too long
		"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD",  // wrong casing
		"xaaeb6053f3e94c9b9a09f33669435e7ef1beaed",  // unknown prefix
		"5zzzb6053f3e94c9b9a09f33669435e7ef1beaed",  // not hex
		AddressWithCase("daaeb6053f3e94c9b9a09f33669435e7ef1beaed"),
	} {
		if CheckAddress(address) {
			t.Fatalf("CheckAddress(%q) should fail", address)
		}
	}
}

func TestFormatAddress(t *testing.T) {
	root, _ := hex.DecodeString(
		"aaeb6053f3e94c9b9a09f33669435e7ef1beaed0000000000000000000000000")
	for _, typ := range []AddressType{S1, S2, S3, S4, S5} {
		address := formatAddress(typ, root)
		if len(address) != AddressLen {
			t.Fatalf("formatAddress() returned %d characters", len(address))
		}
		if !CheckAddress(address) {
			t.Fatalf("formatAddress() returned invalid address %s", address)
		}
		if AddressTypeFromAddress(address) != typ {
			t.Fatalf("formatAddress() lost the type of %s", address)
		}
	}
	if formatAddress(S5, root) != "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" {
		t.Fatalf("formatAddress() = %s", formatAddress(S5, root))
	}
}
