package hashmap

import (
	"unsafe"

	"github.com/joshuapare/mapkit/mem"
)

// Typed is a generic facade over Map for plain fixed-size key and value
// types. K and V are treated as opaque byte blobs of unsafe.Sizeof width:
// integers, arrays and pointer-free structs work; strings, slices, maps and
// anything else carrying pointers do not, because only the in-line bytes are
// copied and compared.
type Typed[K comparable, V any] struct {
	m *Map
}

// NewTyped creates a typed table with the default load factor.
func NewTyped[K comparable, V any](a mem.Allocator, capacity int) (*Typed[K, V], error) {
	return NewTypedWithLoadFactor[K, V](a, capacity, DefaultLoadFactor)
}

// NewTypedWithLoadFactor creates a typed table with an explicit load factor.
func NewTypedWithLoadFactor[K comparable, V any](a mem.Allocator, capacity int, loadFactor float64) (*Typed[K, V], error) {
	var k K
	var v V
	m, err := New(a, capacity, loadFactor,
		int(unsafe.Sizeof(k)), int(unsafe.Sizeof(v)),
		HashBytes, EqualBytes)
	if err != nil {
		return nil, err
	}
	return &Typed[K, V]{m: m}, nil
}

// keyBytes views k's in-line bytes. The local is addressable and aligned, so
// the view is safe for the duration of the call.
func keyBytes[K comparable](k *K) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(k)), unsafe.Sizeof(*k))
}

func valueBytes[V any](v *V) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// Get returns the value stored for key.
func (t *Typed[K, V]) Get(key K) (V, bool) {
	var out V
	raw, ok := t.m.Get(keyBytes(&key))
	if !ok {
		return out, false
	}
	copy(valueBytes(&out), raw)
	return out, true
}

// Set inserts or overwrites key with value. May grow the table.
func (t *Typed[K, V]) Set(key K, value V) (Outcome, error) {
	return t.m.Set(keyBytes(&key), valueBytes(&value))
}

// Del removes key and returns the removed value.
func (t *Typed[K, V]) Del(key K) (V, bool) {
	var out V
	raw, ok := t.m.Del(keyBytes(&key))
	if !ok {
		return out, false
	}
	copy(valueBytes(&out), raw)
	return out, true
}

// Keys returns a copy of the live keys in row order.
func (t *Typed[K, V]) Keys() []K {
	raw := t.m.Keys()
	out := make([]K, t.m.Count())
	for i := range out {
		copy(keyBytes(&out[i]), raw[i*t.m.keyStride:])
	}
	return out
}

// Values returns a copy of the live values in row order, parallel to Keys.
func (t *Typed[K, V]) Values() []V {
	raw := t.m.Values()
	out := make([]V, t.m.Count())
	for i := range out {
		copy(valueBytes(&out[i]), raw[i*t.m.valueStride:])
	}
	return out
}

// Count returns the number of live entries.
func (t *Typed[K, V]) Count() int { return t.m.Count() }

// Capacity returns the entry capacity before the next growth.
func (t *Typed[K, V]) Capacity() int { return t.m.Capacity() }

// SetLoadFactor adjusts the growth trigger; see Map.SetLoadFactor.
func (t *Typed[K, V]) SetLoadFactor(f float64) error { return t.m.SetLoadFactor(f) }

// SetGrowFactor adjusts the growth multiplier; see Map.SetGrowFactor.
func (t *Typed[K, V]) SetGrowFactor(f float64) error { return t.m.SetGrowFactor(f) }

// Free releases the backing block. The table must not be used afterwards.
func (t *Typed[K, V]) Free() { t.m.Free() }
