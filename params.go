package lamportmt

// Kind of address.  The kind determines the first character of an address
// and, for the signing addresses S1 to S5, the number of layers of the
// Merkle tree behind it.
type AddressType uint8

const (
	S1 AddressType = iota
	S2
	S3
	S4
	S5
	PrivateContract
	PublicContract
	Reserved
	Unsupported
)

// Entry in the registry of address types
type regEntry struct {
	name   string      // name, eg. S1
	typ    AddressType // the address type
	prefix byte        // first character of the address
	layers uint32      // layers of the Merkle tree; 0 if it has none
}

// Registry of address types
var registry = []regEntry{
	{"S1", S1, '1', 14},
	{"S2", S2, '2', 15},
	{"S3", S3, '3', 16},
	{"S4", S4, '4', 17},
	{"S5", S5, '5', 18},
	{"PrivateContract", PrivateContract, 'e', 0},
	{"PublicContract", PublicContract, 'f', 0},
	{"Reserved", Reserved, '0', 0},
	{"Unsupported", Unsupported, 'd', 0},
}

var registryNameLut map[string]regEntry
var registryPrefixLut map[byte]regEntry
var registryLayersLut map[uint32]regEntry

// Initializes the lookup tables.
func init() {
	registryNameLut = make(map[string]regEntry)
	registryPrefixLut = make(map[byte]regEntry)
	registryLayersLut = make(map[uint32]regEntry)
	for _, entry := range registry {
		registryNameLut[entry.name] = entry
		registryPrefixLut[entry.prefix] = entry
		if entry.layers != 0 {
			registryLayersLut[entry.layers] = entry
		}
	}
}

// Returns the name of the address type, eg. "S1".
func (t AddressType) String() string {
	if int(t) < len(registry) {
		return registry[t].name
	}
	return "Unsupported"
}

// Returns the first character of addresses of this type.
func (t AddressType) Prefix() byte {
	if int(t) < len(registry) {
		return registry[t].prefix
	}
	return registry[Unsupported].prefix
}

// Returns the number of layers of the Merkle tree of this type, including
// the leafs and the root.  Returns 0 for types that cannot sign.
func (t AddressType) Layers() uint32 {
	if int(t) < len(registry) {
		return registry[t].layers
	}
	return 0
}

// Returns the number of Lamport keypairs (leafs) of an address of this type.
func (t AddressType) Leafs() uint64 {
	if t.Layers() == 0 {
		return 0
	}
	return 1 << (t.Layers() - 1)
}

// Returns the address type with a Merkle tree of the given number of layers,
// and Unsupported if there is none.
func AddressTypeFromLayers(layers uint32) AddressType {
	entry, ok := registryLayersLut[layers]
	if !ok {
		return Unsupported
	}
	return entry.typ
}

// Returns the address type of the given address, and Unsupported if the
// prefix is unknown.
func AddressTypeFromAddress(address string) AddressType {
	if len(address) == 0 {
		return Unsupported
	}
	prefix := address[0]
	if 'A' <= prefix && prefix <= 'Z' {
		prefix += 'a' - 'A' // checksum casing
	}
	entry, ok := registryPrefixLut[prefix]
	if !ok {
		return Unsupported
	}
	return entry.typ
}

// Returns the address type with the given name (and false if there is none.)
func AddressTypeFromName(name string) (AddressType, bool) {
	entry, ok := registryNameLut[name]
	if !ok {
		return Unsupported, false
	}
	return entry.typ, true
}

// List all address types that can sign.
func ListNames() (names []string) {
	for _, entry := range registry {
		if entry.layers != 0 {
			names = append(names, entry.name)
		}
	}
	return
}
