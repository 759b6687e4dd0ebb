package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSystem_AllocateDeallocate checks the basic heap path and its
// accounting: allocates and deallocates must balance out.
func TestSystem_AllocateDeallocate(t *testing.T) {
	var stats Stats
	sys := NewSystem(&stats)

	block, err := sys.Allocate(128)
	require.NoError(t, err)
	require.Len(t, block, 128)
	assert.Equal(t, int64(128), stats.InUse())

	// The block is writable in full.
	for i := range block {
		block[i] = byte(i)
	}

	echoed := sys.Deallocate(block, 128)
	assert.Equal(t, 128, echoed, "deallocate echoes the old size")
	assert.Equal(t, int64(0), stats.InUse())

	stats.AssertNoLeak()
}

// TestSystem_Reallocate checks that reallocation preserves the common prefix
// and accounts the size delta.
func TestSystem_Reallocate(t *testing.T) {
	var stats Stats
	sys := NewSystem(&stats)

	block, err := sys.Allocate(16)
	require.NoError(t, err)
	copy(block, []byte("0123456789abcdef"))

	grown, err := sys.Reallocate(64, block, 16)
	require.NoError(t, err)
	require.Len(t, grown, 64)
	assert.Equal(t, []byte("0123456789abcdef"), grown[:16])
	assert.Equal(t, int64(64), stats.InUse(), "16 allocated + 48 reallocated")

	shrunk, err := sys.Reallocate(8, grown, 64)
	require.NoError(t, err)
	require.Len(t, shrunk, 8)
	assert.Equal(t, []byte("01234567"), shrunk)

	sys.Deallocate(shrunk, 8)
	stats.AssertNoLeak()
}

// TestSystem_ReallocateZeroLengthBlock covers the preserved quirk: a
// reallocation with oldSize 0 and a non-nil block routes to reallocate, not
// rejection.
func TestSystem_ReallocateZeroLengthBlock(t *testing.T) {
	var stats Stats
	sys := NewSystem(&stats)

	block, err := sys.Reallocate(32, []byte{}, 0)
	require.NoError(t, err)
	require.Len(t, block, 32)

	sys.Deallocate(block, 32)
	stats.AssertNoLeak()
}

// TestSystem_UnsupportedOpsFailLoudly verifies reserve-all, reset-all and
// release on the process heap are contract violations, not silent no-ops.
func TestSystem_UnsupportedOpsFailLoudly(t *testing.T) {
	sys := NewSystem(nil)

	assert.Panics(t, func() { sys.ReserveAll() })
	assert.Panics(t, func() { sys.ResetAll() })
	assert.Panics(t, func() { sys.Release() })
}

// TestStats_LeakDetection confirms AssertNoLeak fires on an unbalanced scope
// and Reset starts a fresh one.
func TestStats_LeakDetection(t *testing.T) {
	var stats Stats
	sys := NewSystem(&stats)

	block, err := sys.Allocate(64)
	require.NoError(t, err)

	assert.Panics(t, func() { stats.AssertNoLeak() }, "64 live bytes must be reported")

	stats.Reset()
	stats.AssertNoLeak()

	// The block is still live but belongs to the torn-down scope now.
	_ = block
}
