package hashmap

import (
	"fmt"

	"github.com/joshuapare/mapkit/internal/buf"
	"github.com/joshuapare/mapkit/internal/trace"
	"github.com/joshuapare/mapkit/mem"
)

// Default factors applied when a constructor does not override them.
const (
	DefaultLoadFactor = 0.75
	DefaultGrowFactor = 1.5
)

// Outcome reports what Set did with the key.
type Outcome int

const (
	// Updated means the key existed and its value was overwritten in place.
	Updated Outcome = iota

	// Inserted means a new entry was appended.
	Inserted
)

// String returns "inserted" or "updated".
func (o Outcome) String() string {
	if o == Inserted {
		return "inserted"
	}
	return "updated"
}

// Map is a generic open-addressing hash table over fixed-stride, byte-copied
// keys and values. It owns exactly one block obtained from its Allocator,
// laid out as a probe/index region followed by a dense key region and a
// dense value region:
//
//	indices [indexCapacity * indexStride]
//	keys    [capacity * keyStride]
//	values  [capacity * valueStride]
//
// Probe slots hold row indices into the key/value regions, or one of two
// sentinels: the all-ones empty marker, or all-ones minus one for a slot
// whose entry was deleted. Rows are insertion-compacted: only [0, count) are
// meaningful, and deletion moves the last row into the vacated one so the
// regions never hold gaps.
//
// A Map is not safe for concurrent use.
type Map struct {
	alloc mem.Allocator
	block []byte
	geo   geometry

	count int

	loadFactor uint8 // percent, 1..100
	growFactor uint8 // percent, 10..250

	keyStride   int
	valueStride int

	hash Hash
	eq   Equal
}

// New creates a table over the given allocator. capacity is the number of
// entries the table holds before its first growth; loadFactor in (0, 1]
// controls how full the probe region may get before growth triggers.
// keyStride and valueStride are the fixed byte widths of one key and one
// value. hash and eq define key semantics and are fixed for the lifetime of
// the table.
//
// The grow factor defaults to DefaultGrowFactor; use SetGrowFactor to
// change it.
func New(a mem.Allocator, capacity int, loadFactor float64, keyStride, valueStride int, hash Hash, eq Equal) (*Map, error) {
	if loadFactor < 0.01 || loadFactor > 1.0 {
		return nil, ErrBadFactor
	}
	if capacity <= 0 {
		return nil, ErrBadCapacity
	}
	if keyStride <= 0 || valueStride <= 0 {
		return nil, ErrBadStride
	}
	if hash == nil || eq == nil {
		return nil, ErrNoFuncs
	}

	load := uint8(loadFactor * 100.0)
	geo, err := layoutFor(capacity, load, keyStride, valueStride)
	if err != nil {
		return nil, err
	}

	block, err := a.Allocate(geo.total)
	if err != nil {
		return nil, err
	}
	if err := checkBlock(block, geo, keyStride, valueStride); err != nil {
		a.Deallocate(block, geo.total)
		return nil, err
	}

	m := &Map{
		alloc:       a,
		block:       block,
		geo:         geo,
		loadFactor:  load,
		growFactor:  uint8(DefaultGrowFactor * 100.0),
		keyStride:   keyStride,
		valueStride: valueStride,
		hash:        hash,
		eq:          eq,
	}
	m.clearIndex()
	return m, nil
}

// checkBlock verifies that a provider-returned block covers all three
// regions of the geometry. A provider handing back a short block is caught
// here rather than as a slice panic mid-probe.
func checkBlock(block []byte, g geometry, keyStride, valueStride int) error {
	if _, err := buf.CheckRegion(len(block), 0, g.indexCapacity, g.indexStride); err != nil {
		return fmt.Errorf("hashmap: index region: %w", err)
	}
	if _, err := buf.CheckRegion(len(block), g.keysOff, g.capacity, keyStride); err != nil {
		return fmt.Errorf("hashmap: key region: %w", err)
	}
	if _, err := buf.CheckRegion(len(block), g.valuesOff, g.capacity, valueStride); err != nil {
		return fmt.Errorf("hashmap: value region: %w", err)
	}
	return nil
}

// clearIndex marks every probe slot empty. With every byte 0xFF, each slot
// reads back as the mask value regardless of stride.
func (m *Map) clearIndex() {
	idx := m.block[:m.geo.keysOff]
	for i := range idx {
		idx[i] = 0xFF
	}
}

// live fails fast when the table has been freed.
func (m *Map) live(op string) {
	trace.Assertf(m.block != nil, "hashmap: %s on freed table", op)
}

// checkKey fails fast on a key of the wrong width.
func (m *Map) checkKey(key []byte) {
	trace.Assertf(len(key) == m.keyStride,
		"hashmap: key is %d bytes, table stride is %d", len(key), m.keyStride)
}

// slotAt reads probe slot i masked down to the slot width.
func (m *Map) slotAt(i int) uint64 {
	return buf.LoadLE(m.block, i*m.geo.indexStride, m.geo.indexStride) & m.geo.indexMask
}

// setSlot writes probe slot i.
func (m *Map) setSlot(i int, v uint64) {
	buf.StoreLE(m.block, i*m.geo.indexStride, m.geo.indexStride, v)
}

// keyAt returns the key bytes of row r.
func (m *Map) keyAt(r int) []byte {
	off := m.geo.keysOff + r*m.keyStride
	return m.block[off : off+m.keyStride]
}

// valueAt returns the value bytes of row r.
func (m *Map) valueAt(r int) []byte {
	off := m.geo.valuesOff + r*m.valueStride
	return m.block[off : off+m.valueStride]
}

// Count returns the number of live entries.
func (m *Map) Count() int { return m.count }

// Capacity returns the number of entries the table holds before growing.
func (m *Map) Capacity() int { return m.geo.capacity }

// Keys returns the dense key region of the live rows: count keys of
// keyStride bytes each, in insertion-compacted row order. The slice aliases
// the table and is invalidated by Set, Del, Grow and Free.
func (m *Map) Keys() []byte {
	m.live("keys")
	return m.block[m.geo.keysOff : m.geo.keysOff+m.count*m.keyStride]
}

// Values returns the dense value region of the live rows, row-parallel to
// Keys. The slice aliases the table and is invalidated by Set, Del, Grow
// and Free.
func (m *Map) Values() []byte {
	m.live("values")
	return m.block[m.geo.valuesOff : m.geo.valuesOff+m.count*m.valueStride]
}

// SetLoadFactor changes the occupancy ratio that triggers growth. Valid
// range is [0.01, 1.0]; out-of-range values are rejected without touching
// the table.
func (m *Map) SetLoadFactor(f float64) error {
	m.live("set load factor")
	if f < 0.01 || f > 1.0 {
		return ErrBadFactor
	}
	m.loadFactor = uint8(f * 100.0)
	return nil
}

// SetGrowFactor changes the capacity multiplier applied on growth. Valid
// range is [0.1, 2.5]; out-of-range values are rejected without touching
// the table.
func (m *Map) SetGrowFactor(f float64) error {
	m.live("set grow factor")
	if f < 0.1 || f > 2.5 {
		return ErrBadFactor
	}
	m.growFactor = uint8(f * 100.0)
	return nil
}

// Get returns the value bytes stored for key, or ok = false when the key is
// absent. The returned slice aliases the table and is invalidated by Set,
// Del, Grow and Free.
//
// A tombstone ends the probe the same way an empty slot does. Deletion never
// relocates other keys whose probe sequence passed through the vacated slot,
// so a key that collided past a slot which later became a tombstone can be
// unreachable here while its row is still live (it remains visible through
// Keys and Values).
func (m *Map) Get(key []byte) ([]byte, bool) {
	m.live("get")
	m.checkKey(key)

	deleted := m.geo.indexMask - 1
	hashMask := uint64(m.geo.indexCapacity - 1)

	h := m.hash(key)
	for probes := 0; probes <= m.count; probes++ {
		slot := m.slotAt(int(h & hashMask))
		if slot >= deleted {
			return nil, false
		}
		row := int(slot)
		if m.eq(key, m.keyAt(row)) {
			return m.valueAt(row), true
		}
		h = (h + 1) & hashMask
	}
	return nil, false
}

// Set inserts key with value, or overwrites the value of an existing key in
// place. Inserting may grow the table, which reallocates the backing block
// and invalidates all previously returned slices. value must be valueStride
// bytes, key keyStride bytes.
func (m *Map) Set(key, value []byte) (Outcome, error) {
	m.live("set")
	m.checkKey(key)
	trace.Assertf(len(value) == m.valueStride,
		"hashmap: value is %d bytes, table stride is %d", len(value), m.valueStride)

	deleted := m.geo.indexMask - 1
	hashMask := uint64(m.geo.indexCapacity - 1)

	h := m.hash(key)
	for probes := 0; probes <= m.count; probes++ {
		index := int(h & hashMask)
		slot := m.slotAt(index)

		if slot >= deleted {
			// Empty or tombstoned slot: claim it, growing first when the
			// table is at capacity or past its load factor.
			if m.count == m.geo.capacity || m.geo.capacity*int(m.loadFactor) <= m.count*100 {
				if err := m.Grow(); err != nil {
					return 0, err
				}
				return m.Set(key, value)
			}
			row := m.count
			m.count++
			m.setSlot(index, uint64(row))
			copy(m.keyAt(row), key)
			copy(m.valueAt(row), value)
			return Inserted, nil
		}

		row := int(slot)
		if m.eq(key, m.keyAt(row)) {
			copy(m.valueAt(row), value)
			return Updated, nil
		}

		h = (h + 1) & hashMask
	}

	// The probe budget ran out without finding a claimable slot. This is the
	// load-factor-1 full-table case: grow and retry.
	if err := m.Grow(); err != nil {
		return 0, err
	}
	return m.Set(key, value)
}

// Del removes key and returns a copy of its value, or ok = false when the
// key is absent. The last row is moved into the vacated row so the key and
// value regions stay dense; the probe slot that referenced the removed entry
// keeps a tombstone until a future insert claims it.
//
// The probe terminates on tombstones exactly as Get does.
func (m *Map) Del(key []byte) ([]byte, bool) {
	m.live("del")
	m.checkKey(key)

	deleted := m.geo.indexMask - 1
	hashMask := uint64(m.geo.indexCapacity - 1)

	h := m.hash(key)
	for probes := 0; probes <= m.count; probes++ {
		index := int(h & hashMask)
		slot := m.slotAt(index)

		if slot >= deleted {
			return nil, false
		}

		row := int(slot)
		if !m.eq(key, m.keyAt(row)) {
			h = (h + 1) & hashMask
			continue
		}

		removed := make([]byte, m.valueStride)
		copy(removed, m.valueAt(row))

		last := m.count - 1
		if row != last {
			// Retarget the probe slot that references the last row at the
			// vacated row, then move the last row's bytes into it.
			found := false
			for i := 0; i < m.geo.indexCapacity; i++ {
				if m.slotAt(i) == uint64(last) {
					m.setSlot(i, uint64(row))
					m.setSlot(index, deleted)
					found = true
					break
				}
			}
			trace.Assertf(found, "hashmap: no probe slot references row %d", last)

			copy(m.keyAt(row), m.keyAt(last))
			copy(m.valueAt(row), m.valueAt(last))
		} else {
			m.setSlot(index, deleted)
		}

		m.count--
		return removed, true
	}
	return nil, false
}

// Grow reallocates the table at the grown capacity and re-inserts every live
// row through the normal insertion path; probe positions depend on the index
// capacity, so they cannot be carried over. On allocation failure the table
// is left untouched and the error is returned.
func (m *Map) Grow() error {
	m.live("grow")

	geo, err := layoutFor(grownCapacity(m.geo.capacity, m.growFactor),
		m.loadFactor, m.keyStride, m.valueStride)
	if err != nil {
		return err
	}
	block, err := m.alloc.Allocate(geo.total)
	if err != nil {
		return err
	}
	if err := checkBlock(block, geo, m.keyStride, m.valueStride); err != nil {
		m.alloc.Deallocate(block, geo.total)
		return err
	}

	old := *m
	m.block = block
	m.geo = geo
	m.count = 0
	m.clearIndex()

	for i := 0; i < old.count; i++ {
		if _, err := m.Set(old.keyAt(i), old.valueAt(i)); err != nil {
			// Undo the swap so the caller still holds the old, intact table.
			// Re-insertion runs the load-factor check too, so a nested
			// growth may have replaced the block since the top of this
			// call; the live geometry sizes the deallocate, not geo.
			m.alloc.Deallocate(m.block, m.geo.total)
			*m = old
			return err
		}
	}

	m.alloc.Deallocate(old.block, old.geo.total)
	return nil
}

// Free returns the backing block to the allocator and clears the table.
// The table must not be used afterwards; any operation on a freed table
// fails fast.
func (m *Map) Free() {
	m.live("free")
	m.alloc.Deallocate(m.block, m.geo.total)
	*m = Map{}
}
