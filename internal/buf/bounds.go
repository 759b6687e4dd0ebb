package buf

import (
	"fmt"
	"math/bits"
)

// AddSize adds two non-negative byte sizes, returning ok = false when either
// input is negative or the sum does not fit in an int.
func AddSize(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 || int64(sum) < 0 {
		return 0, false
	}
	return int(sum), true
}

// MulSize multiplies a non-negative element count by a non-negative stride,
// returning ok = false when either input is negative or the product does not
// fit in an int. Region sizing is count * stride everywhere, so all layout
// arithmetic funnels through here.
func MulSize(count, stride int) (int, bool) {
	if count < 0 || stride < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(count), uint64(stride))
	if hi != 0 || int64(lo) < 0 {
		return 0, false
	}
	return int(lo), true
}

// CheckRegion validates that count elements of stride bytes fit in a buffer
// of bufLen bytes starting at offset. Returns the end offset when valid, or
// an error naming the specific failure.
//
// Callers carving a typed region out of a raw block should validate through
// here once, then index freely:
//
//	end, err := buf.CheckRegion(len(block), off, count, stride)
//	if err != nil {
//	    return fmt.Errorf("keys region: %w", err)
//	}
func CheckRegion(bufLen, offset, count, stride int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("negative offset: %d", offset)
	}
	total, ok := MulSize(count, stride)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * stride=%d", count, stride)
	}
	end, ok := AddSize(offset, total)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, total)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	end, ok := AddSize(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}
