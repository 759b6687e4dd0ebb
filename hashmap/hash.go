package hashmap

import "bytes"

// Hash maps a key's stride bytes to a probe hash. The table never relies on
// hash order, only on slot placement.
type Hash func(key []byte) uint64

// Equal reports whether two keys of the same stride are the same key.
type Equal func(a, b []byte) bool

// HashBytes is the default key hash: a xor/shift mix of every key byte
// seeded with the golden-ratio constant. It is cheap, stateless and good
// enough for byte-blob keys; callers with stronger requirements inject
// their own Hash.
func HashBytes(key []byte) uint64 {
	var seed uint64
	for _, b := range key {
		seed ^= uint64(b) + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}
	return seed
}

// EqualBytes is the default key equality: exact byte comparison over the
// full stride.
func EqualBytes(a, b []byte) bool {
	return bytes.Equal(a, b)
}
