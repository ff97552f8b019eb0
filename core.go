package lamportmt

import (
	"crypto/sha256"
	"runtime"
	"sync"
	"time"
)

// Represents the Merkle tree of an address with L layers as
//
//                      address (root, layer L-1)
//                    /            \
//           T[L-2,0]               T[L-2,1]
//            /    \                 /    \
//          (...)  (...)          (...)  (...)
//         /     \                       \
//     T[0,0]  T[0,1]    ...    T[0,2^(L-1)-1]
//
// where each T[i,j] is a base64 encoded SHA-256 hash.  The root is not
// kept as a node: it is the address.
type merkleTree struct {
	t       AddressType
	layers  [][]string // layers 0 to L-2
	address string
}

// Allocates an empty merkle tree for the given address type.
func newMerkleTree(t AddressType) *merkleTree {
	L := t.Layers()
	mt := &merkleTree{
		t:      t,
		layers: make([][]string, L-1),
	}
	for i := uint32(0); i < L-1; i++ {
		mt.layers[i] = make([]string, 1<<(L-1-i))
	}
	return mt
}

// Returns the given node.
func (mt *merkleTree) Node(layer uint32, index uint64) string {
	return mt.layers[layer][index]
}

// Returns the number of layers, including the root.
func (mt *merkleTree) Layers() uint32 {
	return uint32(len(mt.layers)) + 1
}

// Returns the authentication path of the given leaf: the sibling of the
// node on the path to the root on every layer below the root.
func (mt *merkleTree) AuthPath(index uint64) []string {
	ret := make([]string, len(mt.layers))
	for i := range mt.layers {
		ret[i] = mt.layers[i][index^1]
		index >>= 1
	}
	return ret
}

// Hashes two sibling nodes into their parent.
func hashNodes(left, right string) string {
	return hash256(left + right)
}

// Hashes the two children of the root into the address.
func hashRoot(t AddressType, left, right string) string {
	root := sha256.Sum256([]byte(left + right))
	return formatAddress(t, root[:])
}

// Compute the merkle tree of the given master key by first computing
// all the leafs and then hashing up.
func (ctx *Context) genTree(masterKey []byte) *merkleTree {
	start := time.Now()
	mt := newMerkleTree(ctx.t)
	nLeafs := ctx.t.Leafs()

	log.Logf("Generating %d leafs for a %s address", nLeafs, ctx.t)

	// First, compute the leafs
	if ctx.Threads == 1 {
		for idx := uint64(0); idx < nLeafs; idx++ {
			mt.layers[0][idx] = genLeaf(masterKey, idx)
		}
	} else {
		// The code in this branch does exactly the same as in
		// the branch above, but then in parallel.
		wg := &sync.WaitGroup{}
		mux := &sync.Mutex{}
		var idx uint64
		var perBatch uint64 = 32
		threads := ctx.Threads
		if threads == 0 {
			threads = runtime.NumCPU()
		}
		wg.Add(threads)
		for i := 0; i < threads; i++ {
			go func() {
				var ourIdx uint64
				for {
					mux.Lock()
					ourIdx = idx
					idx += perBatch
					mux.Unlock()
					if ourIdx >= nLeafs {
						break
					}
					ourEnd := ourIdx + perBatch
					if ourEnd > nLeafs {
						ourEnd = nLeafs
					}
					for ; ourIdx < ourEnd; ourIdx++ {
						mt.layers[0][ourIdx] = genLeaf(masterKey, ourIdx)
					}
				}
				wg.Done()
			}()
		}

		wg.Wait() // wait for all workers to finish
	}

	// Next, compute the internal nodes
	for layer := 1; layer < len(mt.layers); layer++ {
		below := mt.layers[layer-1]
		for idx := range mt.layers[layer] {
			mt.layers[layer][idx] = hashNodes(below[2*idx], below[2*idx+1])
		}
	}

	// And finally the root
	top := mt.layers[len(mt.layers)-1]
	mt.address = hashRoot(ctx.t, top[0], top[1])

	took := time.Since(start)
	metrics.treeBuilds.WithLabelValues(ctx.t.String()).Inc()
	metrics.treeBuildSeconds.Observe(took.Seconds())
	log.Logf("Generated %s in %v", mt.address, took)
	return mt
}
