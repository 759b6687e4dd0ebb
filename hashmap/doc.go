// Package hashmap implements a generic, allocator-agnostic open-addressing
// hash table with a variable-width probe index decoupled from dense backing
// storage.
//
// # Overview
//
// Every table owns one contiguous block obtained from a mem.Allocator. The
// block holds three regions:
//
//	indices [indexCapacity * indexStride]   probe slots
//	keys    [capacity * keyStride]          dense, insertion-compacted
//	values  [capacity * valueStride]        row-parallel to keys
//
// Probe slots carry row indices into the key/value regions. The index
// capacity is a power of two sized from the entry capacity and the load
// factor, so probing wraps with a mask instead of a modulo. The slot width
// (1, 2, 4 or 8 bytes) is the smallest able to represent every row index
// plus two sentinels: all-ones for an empty slot and all-ones minus one for
// a tombstone.
//
// # Collisions and deletion
//
// Collision resolution is linear probing. Deletion moves the last row into
// the vacated row so the key/value regions stay dense, retargets the probe
// slot that referenced it, and leaves a tombstone in the vacated probe slot.
// Tombstones are permanent until an insert claims the slot; both Get and Del
// stop probing when they reach one, so a key whose probe path crosses a
// later tombstone can become unreachable while its row stays live (see Get
// for the full reachability caveat).
//
// # Growth
//
// A table grows when an insert finds it at capacity or past its load
// factor. Growth allocates a fresh block at the grown capacity and re-inserts
// every live row through the normal insertion path; probe placement depends
// on the index capacity, so slots cannot be copied. A failed growth leaves
// the table untouched.
//
// # Key semantics
//
// Keys and values are fixed-stride byte blobs; the table byte-copies them
// and never interprets them. Key identity comes entirely from the injected
// Hash and Equal pair. HashBytes/EqualBytes are the stock pair for opaque
// blobs; Typed wraps the whole table for plain fixed-size Go types.
//
// # Thread Safety
//
// Tables are not thread-safe. Callers must synchronize access externally.
package hashmap
