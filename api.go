package lamportmt

// Contains majority of the API

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Separators of the textual signature format:
//
//   a0:b0::a1:b1:: ... ::a99:b99,p0:p1: ... :p(L-2)
//
// where (ai, bi) is the pair for the i-th signed bit and pj the node of the
// authentication path on layer j.
const (
	sigPartSep  = ","
	sigPairSep  = "::"
	sigValueSep = ":"
)

// A signature: a Lamport signature along with the authentication path of
// its keypair in the Merkle tree.  A signature is meaningless without the
// index of the keypair and the address.
type Signature struct {
	pairs    [][2]string
	authPath []string
}

// Returns the authentication path of the signature.
func (sig *Signature) AuthPath() []string {
	return sig.authPath
}

// Returns the address type of the signer, as determined by the length of
// the authentication path.
func (sig *Signature) AddressType() AddressType {
	return AddressTypeFromLayers(uint32(len(sig.authPath)) + 1)
}

// Returns the textual representation of the signature.
func (sig *Signature) String() string {
	var b strings.Builder
	for i, pair := range sig.pairs {
		if i > 0 {
			b.WriteString(sigPairSep)
		}
		b.WriteString(pair[0])
		b.WriteString(sigValueSep)
		b.WriteString(pair[1])
	}
	b.WriteString(sigPartSep)
	b.WriteString(strings.Join(sig.authPath, sigValueSep))
	return b.String()
}

// Returns the textual representation of the signature.
// Will never return an error.
func (sig *Signature) MarshalText() ([]byte, error) {
	return []byte(sig.String()), nil
}

// Parses a signature in textual representation.
func (sig *Signature) UnmarshalText(text []byte) error {
	parsed, err := ParseSignature(string(text))
	if err != nil {
		return err
	}
	*sig = *parsed
	return nil
}

// Parses a signature in textual representation.  Only checks the structure
// of the signature; use Verify to check whether it is valid.
func ParseSignature(s string) (*Signature, Error) {
	comma := strings.Index(s, sigPartSep)
	if comma < 0 {
		return nil, invalidf("Signature lacks an authentication path")
	}
	lamport, path := s[:comma], s[comma+1:]

	pairs := strings.Split(lamport, sigPairSep)
	if len(pairs) != SignedBits {
		return nil, invalidf("Signature has %d pairs instead of %d",
			len(pairs), SignedBits)
	}
	sig := Signature{pairs: make([][2]string, SignedBits)}
	for i, pair := range pairs {
		values := strings.Split(pair, sigValueSep)
		if len(values) != 2 || values[0] == "" || values[1] == "" {
			return nil, invalidf("Pair %d of signature is malformed", i)
		}
		sig.pairs[i] = [2]string{values[0], values[1]}
	}

	sig.authPath = strings.Split(path, sigValueSep)
	if sig.AddressType() == Unsupported {
		return nil, invalidf("Authentication path of %d nodes does not "+
			"match any address type", len(sig.authPath))
	}
	for i, node := range sig.authPath {
		if node == "" {
			return nil, invalidf("Node %d of authentication path is empty", i)
		}
	}
	return &sig, nil
}

// Signs the given message with the index-th Lamport keypair.
//
// NOTE Each index may be used only once: two signatures with the same
//      index reveal enough of the keypair to forge others.  Keeping track
//      of the used indices is up to the caller.
func (sk *PrivateKey) Sign(msg []byte, index uint64) (*Signature, Error) {
	if index > sk.ctx.MaxIndex() {
		return nil, errorf("Index %d out of range: %s addresses have %d keypairs",
			index, sk.ctx.t, sk.ctx.t.Leafs())
	}
	bits, err := digestBits(msg)
	if err != nil {
		return nil, wrapErrorf(err, "Cannot sign message")
	}
	pairs, err := lamportSign(lamportParts(sk.masterKey, index), bits)
	if err != nil {
		return nil, err
	}
	metrics.signatures.WithLabelValues(sk.ctx.t.String()).Inc()
	return &Signature{
		pairs:    pairs,
		authPath: sk.tree.AuthPath(index),
	}, nil
}

// Check whether the sig is a valid signature of this public key
// for the given message made with the index-th keypair.
func (pk *PublicKey) Verify(sig *Signature, msg []byte, index uint64) (bool, Error) {
	err := verify(sig, msg, pk.address, index)
	observeVerification(err == nil)
	if err != nil {
		return false, err
	}
	return true, nil
}

func verify(sig *Signature, msg []byte, address string, index uint64) Error {
	if sig == nil {
		return invalidf("No signature")
	}
	t := sig.AddressType()
	if t == Unsupported || len(sig.pairs) != SignedBits {
		return invalidf("Malformed signature")
	}
	if AddressTypeFromAddress(address) != t {
		return invalidf("Signature is not made by a %s address",
			AddressTypeFromAddress(address))
	}
	if index >= t.Leafs() {
		return invalidf("Index %d out of range", index)
	}

	bits, err := digestBits(msg)
	if err != nil {
		return err
	}
	curHash, err := leafFromSig(sig.pairs, bits)
	if err != nil {
		return err
	}

	// use the authentication path to hash up the merkle tree
	path := sig.authPath
	offset := index
	for _, sibling := range path[:len(path)-1] {
		if offset&1 == 0 {
			// we're on the left, so the sibling hash from the
			// auth path is on the right
			curHash = hashNodes(curHash, sibling)
		} else {
			curHash = hashNodes(sibling, curHash)
		}
		offset >>= 1
	}

	// the last step yields the address
	var rxAddress string
	sibling := path[len(path)-1]
	if offset&1 == 0 {
		rxAddress = hashRoot(t, curHash, sibling)
	} else {
		rxAddress = hashRoot(t, sibling, curHash)
	}

	if !equalAddress(rxAddress, address) {
		return invalidf("Invalid signature")
	}
	return nil
}

// Compares addresses, ignoring their checksum casing.
func equalAddress(a, b string) bool {
	return subtle.ConstantTimeCompare(
		[]byte(strings.ToUpper(a)), []byte(strings.ToUpper(b))) == 1
}

// Checks whether signature is a valid signature of message by the index-th
// keypair of address.  Returns nil if it is and otherwise an Error
// with Invalid() set that describes why it is not.
func VerifyDetailed(message, signature, address string, index uint64) Error {
	sig, err := ParseSignature(signature)
	if err == nil {
		err = verify(sig, []byte(message), address, index)
	}
	observeVerification(err == nil)
	return err
}

// Checks whether signature is a valid signature of message by the index-th
// keypair of address.
func Verify(message, signature, address string, index uint64) bool {
	return VerifyDetailed(message, signature, address, index) == nil
}

// Signs messages on behalf of addresses whose trees are kept in a
// TreeStore.  Safe for concurrent use.
type Signer struct {
	// Number of worker goroutines used when a tree has to be regenerated.
	// Will guess an appropriate number if set to 0.
	Threads int

	store TreeStore
	group singleflight.Group
}

// Returns a Signer that keeps the trees in the given store.
func NewSigner(store TreeStore) *Signer {
	return &Signer{store: store}
}

// Loads the private key of address, regenerating its tree if needed.
// Concurrent calls for the same address share a single load.
func (s *Signer) PrivateKey(privateKey string, address string) (*PrivateKey, Error) {
	t := AddressTypeFromAddress(address)
	ctx, err := NewContext(t)
	if err != nil {
		return nil, err
	}
	ctx.Threads = s.Threads

	// The master key is part of the flight key: a wrong key for an address
	// must not be served the tree loaded with the right one.
	ret, err2, _ := s.group.Do(treeKey(address)+"\x00"+privateKey,
		func() (interface{}, error) {
			sk, err := LoadPrivateKey(ctx, s.store, []byte(privateKey), address)
			if err != nil {
				return nil, err
			}
			return sk, nil
		})
	if err2 != nil {
		return nil, err2.(Error)
	}
	return ret.(*PrivateKey), nil
}

// Signs message with the index-th keypair of address, whose master key
// is privateKey.  Returns the signature in textual representation.
//
// If the tree of the address is not in the store, it is regenerated
// from privateKey.  If privateKey does not belong to address, the error
// has Mismatch() set.
func (s *Signer) Sign(message, privateKey string, index uint64,
	address string) (string, Error) {
	sk, err := s.PrivateKey(privateKey, address)
	if err != nil {
		return "", err
	}
	sig, err := sk.Sign([]byte(message), index)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}
