package lamportmt

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGeneratePrivateKey(t *testing.T) {
	key1, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey(): %v", err)
	}
	key2, _ := GeneratePrivateKey()
	if len(key1) != 32 || strings.Trim(key1, partAlphabet) != "" {
		t.Fatalf("GeneratePrivateKey() returned %q", key1)
	}
	if key1 == key2 {
		t.Fatalf("GeneratePrivateKey() is not random")
	}
}

func TestDeriveAndLoad(t *testing.T) {
	SetLogger(t)
	defer SetLogger(nil)

	store := NewMemTreeStore()
	blob, _ := testTree().MarshalBinary()
	store.PutTree(testAddress, blob)

	// Loading from the store does not generate a tree
	builds := testutil.ToFloat64(metrics.treeBuilds.WithLabelValues("S1"))
	sk, err := LoadPrivateKey(nil, store, testMasterKey, strings.ToLower(testAddress))
	if err != nil {
		t.Fatalf("LoadPrivateKey(): %v", err)
	}
	if testutil.ToFloat64(metrics.treeBuilds.WithLabelValues("S1")) != builds {
		t.Fatalf("LoadPrivateKey() regenerated a stored tree")
	}
	if sk.Address() != testAddress || sk.Context().AddressType() != S1 {
		t.Fatalf("LoadPrivateKey() returned the wrong key")
	}
	if sk.PublicKey().Address() != testAddress || sk.PublicKey().AddressType() != S1 {
		t.Fatalf("PublicKey() returned the wrong key")
	}

	ctx, _ := NewContext(S2)
	if _, err = LoadPrivateKey(ctx, store, testMasterKey, testAddress); err == nil {
		t.Fatalf("LoadPrivateKey() accepted an address of another type")
	}
}

func TestGenerateKeyPair(t *testing.T) {
	store := NewMemTreeStore()
	ctx := NewContextFromName("S1")
	masterKey, sk, pk, err := ctx.GenerateKeyPair(store)
	if err != nil {
		t.Fatalf("GenerateKeyPair(): %v", err)
	}
	if !CheckAddress(pk.Address()) || AddressTypeFromAddress(pk.Address()) != S1 {
		t.Fatalf("GenerateKeyPair() returned invalid address %s", pk.Address())
	}
	if _, exists, _ := store.GetTree(pk.Address()); !exists {
		t.Fatalf("GenerateKeyPair() did not store the tree")
	}

	sig, err := sk.Sign([]byte("hello"), 8191)
	if err != nil {
		t.Fatalf("Sign(): %v", err)
	}
	if ok, err := pk.Verify(sig, []byte("hello"), 8191); !ok {
		t.Fatalf("Verify(): %v", err)
	}

	sk2, err := LoadPrivateKey(ctx, store, []byte(masterKey), pk.Address())
	if err != nil {
		t.Fatalf("LoadPrivateKey(): %v", err)
	}
	sig2, _ := sk2.Sign([]byte("hello"), 8191)
	if sig2.String() != sig.String() {
		t.Fatalf("Signatures of the loaded key differ")
	}
}

func TestPublicKeyFromAddress(t *testing.T) {
	if _, err := PublicKeyFromAddress(testAddress); err != nil {
		t.Fatalf("PublicKeyFromAddress(): %v", err)
	}
	for _, address := range []string{
		strings.ToLower(testAddress),
		AddressWithCase("f" + testAddress[1:]),
		"",
	} {
		if _, err := PublicKeyFromAddress(address); err == nil {
			t.Fatalf("PublicKeyFromAddress(%q) should fail", address)
		}
	}
}
