// Package buf contains bounds-checked layout helpers for code that carves
// typed regions out of raw byte blocks.
package buf

import "encoding/binary"

// LoadLE reads a little-endian unsigned integer of the given stride
// (1, 2, 4 or 8 bytes) at off. Returns 0 when the read would be out of
// bounds or the stride is unsupported.
func LoadLE(b []byte, off, stride int) uint64 {
	s, ok := Slice(b, off, stride)
	if !ok {
		return 0
	}
	switch stride {
	case 1:
		return uint64(s[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(s))
	case 4:
		return uint64(binary.LittleEndian.Uint32(s))
	case 8:
		return binary.LittleEndian.Uint64(s)
	}
	return 0
}

// StoreLE writes the low stride bytes of v little-endian at off.
// Writes nothing when the store would be out of bounds or the stride is
// unsupported.
func StoreLE(b []byte, off, stride int, v uint64) {
	s, ok := Slice(b, off, stride)
	if !ok {
		return
	}
	switch stride {
	case 1:
		s[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(s, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(s, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(s, v)
	}
}
