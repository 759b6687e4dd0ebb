package hashmap

import (
	"fmt"

	"github.com/joshuapare/mapkit/internal/buf"
)

// ceilPlus reproduces the truncate-then-add-one rounding of capacity
// arithmetic: for a whole number it still rounds up by one. Growth and index
// sizing both depend on this bias, so it must not be replaced with math.Ceil.
func ceilPlus(x float64) int {
	return int(x) + 1
}

// nextPow2 rounds v up to the nearest power of two.
func nextPow2(v uint64) uint64 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}

// indexStrideFor returns the smallest slot width (1, 2, 4 or 8 bytes) able to
// represent every row index in [0, indexCapacity) plus the two sentinels.
// The thresholds stop short of the full range of each width so that a load
// factor of 1 never collides live rows with the sentinel values.
func indexStrideFor(indexCapacity int) int {
	switch {
	case indexCapacity < 128:
		return 1
	case indexCapacity < 32768:
		return 2
	case indexCapacity < 2147483648:
		return 4
	default:
		return 8
	}
}

// indexMaskFor returns the all-ones pattern of the slot width chosen for
// indexCapacity. The mask doubles as the empty sentinel; mask-1 is the
// deleted sentinel.
func indexMaskFor(indexCapacity int) uint64 {
	switch {
	case indexCapacity < 128:
		return 0xFF
	case indexCapacity < 32768:
		return 0xFFFF
	case indexCapacity < 2147483648:
		return 0xFFFFFFFF
	default:
		return 0xFFFFFFFFFFFFFFFF
	}
}

// indexCapacityFor computes the probe-slot count for a given entry capacity
// and load factor percentage: capacity scaled up by the inverse load factor,
// rounded up to a power of two.
func indexCapacityFor(capacity int, loadFactor uint8) int {
	factor := 100.0 / float64(loadFactor)
	return int(nextPow2(uint64(ceilPlus(factor * float64(capacity)))))
}

// grownCapacity applies the grow factor percentage to capacity.
func grownCapacity(capacity int, growFactor uint8) int {
	factor := float64(growFactor)/100.0 + 1.0
	return ceilPlus(factor * float64(capacity))
}

// geometry is the derived layout of one table block: probe slots first, then
// the dense key region, then the dense value region.
type geometry struct {
	capacity      int
	indexCapacity int
	indexStride   int
	indexMask     uint64

	keysOff   int
	valuesOff int
	total     int
}

// layoutFor derives the block geometry, guarding every product and sum
// against overflow.
func layoutFor(capacity int, loadFactor uint8, keyStride, valueStride int) (geometry, error) {
	g := geometry{
		capacity:      capacity,
		indexCapacity: indexCapacityFor(capacity, loadFactor),
	}
	g.indexStride = indexStrideFor(g.indexCapacity)
	g.indexMask = indexMaskFor(g.indexCapacity)

	indexBytes, ok := buf.MulSize(g.indexCapacity, g.indexStride)
	if !ok {
		return geometry{}, fmt.Errorf("hashmap: index region overflows (%d slots)", g.indexCapacity)
	}
	keyBytes, ok := buf.MulSize(capacity, keyStride)
	if !ok {
		return geometry{}, fmt.Errorf("hashmap: key region overflows (%d entries)", capacity)
	}
	valueBytes, ok := buf.MulSize(capacity, valueStride)
	if !ok {
		return geometry{}, fmt.Errorf("hashmap: value region overflows (%d entries)", capacity)
	}

	g.keysOff = indexBytes
	g.valuesOff, ok = buf.AddSize(g.keysOff, keyBytes)
	if !ok {
		return geometry{}, fmt.Errorf("hashmap: block size overflows")
	}
	g.total, ok = buf.AddSize(g.valuesOff, valueBytes)
	if !ok {
		return geometry{}, fmt.Errorf("hashmap: block size overflows")
	}
	return g, nil
}
