package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestArena_BumpWithinChunk checks that allocations filling the first chunk
// exactly never touch the parent again.
func TestArena_BumpWithinChunk(t *testing.T) {
	var stats Stats
	sys := NewSystem(&stats)

	arena, err := NewArena(sys, 64)
	require.NoError(t, err)
	require.Equal(t, int64(64), stats.InUse(), "arena fronts one chunk at construction")

	a, err := arena.Allocate(32)
	require.NoError(t, err)
	b, err := arena.Allocate(32)
	require.NoError(t, err)
	require.Len(t, a, 32)
	require.Len(t, b, 32)

	assert.Equal(t, int64(64), stats.InUse(), "bump allocation must not hit the parent")

	arena.Release()
	stats.AssertNoLeak()
}

// TestArena_ChunkOverflowAndLIFOUnwind is the chunk-chaining property:
// allocations summing to exactly the chunk capacity stay in one chunk, one
// more byte forces exactly one new chunk, and deallocating back to zero
// frees that chunk to the parent.
func TestArena_ChunkOverflowAndLIFOUnwind(t *testing.T) {
	const chunkSize = 64

	var stats Stats
	sys := NewSystem(&stats)

	arena, err := NewArena(sys, chunkSize)
	require.NoError(t, err)

	a40, err := arena.Allocate(40)
	require.NoError(t, err)
	a24, err := arena.Allocate(24)
	require.NoError(t, err)
	require.Equal(t, int64(chunkSize), stats.InUse(), "exactly full chunk, no overflow yet")

	// One more byte does not fit: exactly one new chunk is chained.
	b1, err := arena.Allocate(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2*chunkSize), stats.InUse())

	// LIFO unwind: draining the new chunk pops it back to the parent.
	arena.Deallocate(b1, 1)
	assert.Equal(t, int64(chunkSize), stats.InUse(), "drained chunk is returned")

	// Draining the first chunk keeps it; the oldest chunk is never popped.
	arena.Deallocate(a24, 24)
	arena.Deallocate(a40, 40)
	assert.Equal(t, int64(chunkSize), stats.InUse())

	arena.Release()
	stats.AssertNoLeak()
}

// TestArena_OversizeAllocation checks that a request larger than the chunk
// capacity fails with ErrTooLarge instead of chaining.
func TestArena_OversizeAllocation(t *testing.T) {
	var stats Stats
	sys := NewSystem(&stats)

	arena, err := NewArena(sys, 64)
	require.NoError(t, err)

	_, err = arena.Allocate(65)
	assert.ErrorIs(t, err, ErrTooLarge)

	arena.Release()
	stats.AssertNoLeak()
}

// TestArena_ResetAll rewinds every chunk in place without returning memory
// to the parent.
func TestArena_ResetAll(t *testing.T) {
	var stats Stats
	sys := NewSystem(&stats)

	arena, err := NewArena(sys, 64)
	require.NoError(t, err)

	_, err = arena.Allocate(48)
	require.NoError(t, err)
	_, err = arena.Allocate(48) // chains a second chunk
	require.NoError(t, err)
	require.Equal(t, int64(128), stats.InUse())

	reclaimed := arena.ResetAll()
	assert.Equal(t, 96, reclaimed, "both bump offsets are rewound")
	assert.Equal(t, int64(128), stats.InUse(), "chunks stay with the arena")

	// The rewound chunks are reusable.
	_, err = arena.Allocate(64)
	require.NoError(t, err)
	assert.Equal(t, int64(128), stats.InUse())

	arena.Release()
	stats.AssertNoLeak()
}

// TestArena_Release frees the whole chain and invalidates the capability.
func TestArena_Release(t *testing.T) {
	var stats Stats
	sys := NewSystem(&stats)

	arena, err := NewArena(sys, 64)
	require.NoError(t, err)

	_, err = arena.Allocate(48)
	require.NoError(t, err)
	_, err = arena.Allocate(48)
	require.NoError(t, err)

	released := arena.Release()
	assert.Equal(t, 128, released, "both chunks returned to the parent")
	assert.False(t, arena.Valid())
	stats.AssertNoLeak()
}

// TestArena_NonLIFODeallocateFailsFast checks that deallocating more than
// the top chunk holds is treated as a programming error.
func TestArena_NonLIFODeallocateFailsFast(t *testing.T) {
	var stats Stats
	sys := NewSystem(&stats)

	arena, err := NewArena(sys, 64)
	require.NoError(t, err)

	block, err := arena.Allocate(8)
	require.NoError(t, err)

	assert.Panics(t, func() { arena.Deallocate(block, 16) })

	arena.Deallocate(block, 8)
	arena.Release()
	stats.AssertNoLeak()
}

// TestArena_BadConfig rejects non-positive chunk capacities.
func TestArena_BadConfig(t *testing.T) {
	sys := NewSystem(nil)

	_, err := NewArena(sys, 0)
	assert.ErrorIs(t, err, ErrBadSize)

	_, err = NewArena(sys, -1)
	assert.ErrorIs(t, err, ErrBadSize)
}
