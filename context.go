// Go implementation of the Merkle-authenticated Lamport one-time signature
// scheme used to sign blocks and transactions of Smilo-style permissioned
// chains.
//
// A master private key expands into 2^(L-1) Lamport keypairs, whose hashes
// are the leafs of a Merkle tree of L layers.  The root of the tree, with
// a prefix and checksum casing, is the address.  A signature consists of
// a Lamport signature and the authentication path of its leaf.
package lamportmt

import (
	"crypto/rand"
)

// Signature scheme instance for one address type.
// Create one using NewContext, NewContextFromName or NewContextFromLayers.
type Context struct {
	// Number of worker goroutines ("threads") to use for generating trees.
	// Will guess an appropriate number if set to 0.
	Threads int

	t AddressType
}

// Private key of an address: the master key together with the Merkle tree
// derived from it.
type PrivateKey struct {
	ctx       *Context
	masterKey []byte
	tree      *merkleTree
}

// Public key: the address.  There is nothing more to it.
type PublicKey struct {
	t       AddressType
	address string
}

// Creates a new context for the given address type.  Only the address
// types S1 to S5 can sign.
func NewContext(t AddressType) (*Context, Error) {
	if t.Layers() == 0 {
		return nil, errorf("Addresses of type %s cannot sign", t)
	}
	return &Context{t: t}, nil
}

// Return new context for the given address type name (and nil if there is
// no such type or it cannot sign.)
func NewContextFromName(name string) *Context {
	t, ok := AddressTypeFromName(name)
	if !ok {
		return nil
	}
	ctx, _ := NewContext(t)
	return ctx
}

// Return new context for trees of the given number of layers (and nil if
// there is no such address type.)
func NewContextFromLayers(layers uint32) *Context {
	ctx, _ := NewContext(AddressTypeFromLayers(layers))
	return ctx
}

// Returns the address type of this context.
func (ctx *Context) AddressType() AddressType {
	return ctx.t
}

// Returns the name of the address type, eg. "S1".
func (ctx *Context) Name() string {
	return ctx.t.String()
}

// Returns the number of layers of the Merkle trees.
func (ctx *Context) Layers() uint32 {
	return ctx.t.Layers()
}

// Returns the number of Lamport keypairs per address.  Indices range
// from 0 to MaxIndex().
func (ctx *Context) MaxIndex() uint64 {
	return ctx.t.Leafs() - 1
}

// Generates a new random master private key.
func GeneratePrivateKey() (string, Error) {
	const keyLen = 32
	ret := make([]byte, keyLen)
	var buf [keyLen]byte
	for i := 0; i < keyLen; {
		if _, err := rand.Read(buf[:]); err != nil {
			return "", wrapErrorf(err, "crypto.rand.Read()")
		}
		for _, b := range buf {
			if int(b) >= partSampleLimit {
				continue
			}
			ret[i] = partAlphabet[int(b)%len(partAlphabet)]
			i++
			if i == keyLen {
				break
			}
		}
	}
	return string(ret), nil
}

// Generates a new master private key, derives its address and stores its
// Merkle tree.  Returns the master key along with the key pair.
func (ctx *Context) GenerateKeyPair(store TreeStore) (
	string, *PrivateKey, *PublicKey, Error) {
	masterKey, err := GeneratePrivateKey()
	if err != nil {
		return "", nil, nil, err
	}
	sk, pk, err := ctx.Derive(store, []byte(masterKey))
	if err != nil {
		return "", nil, nil, err
	}
	return masterKey, sk, pk, nil
}

// Derives the address of the master key by generating its Merkle tree,
// which is put in the store.
func (ctx *Context) Derive(store TreeStore, masterKey []byte) (
	*PrivateKey, *PublicKey, Error) {
	sk := &PrivateKey{
		ctx:       ctx,
		masterKey: masterKey,
		tree:      ctx.genTree(masterKey),
	}
	if err := sk.storeTree(store); err != nil {
		return nil, nil, err
	}
	return sk, sk.PublicKey(), nil
}

// Loads the private key of the given address.  The Merkle tree is taken
// from the store if it is there and regenerated (and stored) otherwise.
//
// If the master key does not belong to the address, the returned error
// has Mismatch() set.
func LoadPrivateKey(ctx *Context, store TreeStore, masterKey []byte,
	address string) (*PrivateKey, Error) {
	if ctx == nil {
		t := AddressTypeFromAddress(address)
		var err Error
		if ctx, err = NewContext(t); err != nil {
			return nil, err
		}
	}
	if AddressTypeFromAddress(address) != ctx.t {
		return nil, errorf("%s is not an address of type %s", address, ctx.t)
	}

	sk := &PrivateKey{ctx: ctx, masterKey: masterKey}

	blob, exists, err := store.GetTree(address)
	if err != nil {
		return nil, err
	}
	if exists {
		var mt merkleTree
		if err2 := mt.UnmarshalBinary(blob); err2 != nil {
			log.Logf("Discarding stored tree of %s: %v", address, err2)
		} else if mt.t != ctx.t || !equalAddress(mt.address, address) {
			log.Logf("Discarding stored tree of %s: it belongs to %s",
				address, mt.address)
		} else {
			sk.tree = &mt
			return sk, nil
		}
	}

	log.Logf("Regenerating tree of %s", address)
	sk.tree = ctx.genTree(masterKey)
	if !equalAddress(sk.tree.address, address) {
		log.Logf("Private key does not belong to %s", address)
		err := errorf("Private key belongs to %s instead of %s",
			sk.tree.address, address)
		err.mismatch = true
		return nil, err
	}
	if err = sk.storeTree(store); err != nil {
		return nil, err
	}
	return sk, nil
}

func (sk *PrivateKey) storeTree(store TreeStore) Error {
	blob, _ := sk.tree.MarshalBinary()
	return store.PutTree(sk.tree.address, blob)
}

// Returns the context of this private key.
func (sk *PrivateKey) Context() *Context {
	return sk.ctx
}

// Returns the address of this private key.
func (sk *PrivateKey) Address() string {
	return sk.tree.address
}

// Returns the public key corresponding to this private key.
func (sk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{t: sk.ctx.t, address: sk.tree.address}
}

// Returns the public key of an address.
func PublicKeyFromAddress(address string) (*PublicKey, Error) {
	t := AddressTypeFromAddress(address)
	if t.Layers() == 0 {
		return nil, errorf("%s is not an address that can sign", address)
	}
	if !CheckAddress(address) {
		return nil, errorf("%s has an invalid checksum", address)
	}
	return &PublicKey{t: t, address: address}, nil
}

// Returns the address.
func (pk *PublicKey) Address() string {
	return pk.address
}

// Returns the address type.
func (pk *PublicKey) AddressType() AddressType {
	return pk.t
}
