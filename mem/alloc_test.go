package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRequest_Valid_Classification exercises every combination of
// {size != 0, memory != nil, oldSize != 0} against every mode. The
// classification must be total and closed: each combination is either the
// unique pattern of its mode or invalid for it.
func TestRequest_Valid_Classification(t *testing.T) {
	block := []byte{0}

	cases := []struct {
		name  string
		req   Request
		valid bool
	}{
		{"allocate", Request{Mode: ModeAllocate, Size: 16}, true},
		{"allocate with memory", Request{Mode: ModeAllocate, Size: 16, Memory: block}, false},
		{"allocate with old size", Request{Mode: ModeAllocate, Size: 16, OldSize: 8}, false},
		{"allocate zero size", Request{Mode: ModeAllocate}, false},

		{"reallocate", Request{Mode: ModeReallocate, Size: 32, Memory: block, OldSize: 16}, true},
		{"reallocate nil memory", Request{Mode: ModeReallocate, Size: 32, OldSize: 16}, true},
		{"reallocate zero-length block", Request{Mode: ModeReallocate, Size: 32, Memory: block}, true},
		{"reallocate nothing", Request{Mode: ModeReallocate, Size: 32}, false},
		{"reallocate zero size", Request{Mode: ModeReallocate, Memory: block, OldSize: 16}, false},

		{"deallocate", Request{Mode: ModeDeallocate, Memory: block, OldSize: 16}, true},
		{"deallocate nil memory", Request{Mode: ModeDeallocate, OldSize: 16}, false},
		{"deallocate zero old size", Request{Mode: ModeDeallocate, Memory: block}, false},
		{"deallocate with size", Request{Mode: ModeDeallocate, Size: 8, Memory: block, OldSize: 16}, false},

		{"reserve-all", Request{Mode: ModeReserveAll}, true},
		{"reserve-all with size", Request{Mode: ModeReserveAll, Size: 8}, false},
		{"reserve-all with memory", Request{Mode: ModeReserveAll, Memory: block}, false},

		{"reset-all", Request{Mode: ModeResetAll, OldSize: 1}, true},
		{"reset-all zero old size", Request{Mode: ModeResetAll}, false},
		{"reset-all with memory", Request{Mode: ModeResetAll, Memory: block, OldSize: 1}, false},

		{"release", Request{Mode: ModeRelease, Memory: block}, true},
		{"release nil memory", Request{Mode: ModeRelease}, false},
		{"release with old size", Request{Mode: ModeRelease, Memory: block, OldSize: 1}, false},

		{"unknown mode", Request{Mode: Mode(99), Size: 16}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.req.Valid())
		})
	}
}

// TestAllocator_UseAfterRelease verifies that a released (zeroed) allocator
// fails fast instead of dispatching.
func TestAllocator_UseAfterRelease(t *testing.T) {
	var stats Stats
	sys := NewSystem(&stats)

	arena, err := NewArena(sys, 256)
	require.NoError(t, err)

	arena.Release()
	assert.False(t, arena.Valid())

	assert.Panics(t, func() { arena.Allocate(16) }, "allocate on released allocator must fail fast")
	assert.Panics(t, func() { arena.ResetAll() }, "reset-all on released allocator must fail fast")

	stats.AssertNoLeak()
}

// TestAllocator_Identity checks the provider name/id surface: system is
// always id 0, other providers get unique non-zero ids.
func TestAllocator_Identity(t *testing.T) {
	sys := NewSystem(nil)
	assert.Equal(t, "system", sys.Name())
	assert.Equal(t, 0, sys.ID())

	a1, err := NewArena(sys, 64)
	require.NoError(t, err)
	a2, err := NewArena(sys, 64)
	require.NoError(t, err)

	assert.Equal(t, "arena", a1.Name())
	assert.NotZero(t, a1.ID())
	assert.NotEqual(t, a1.ID(), a2.ID())

	a1.Release()
	a2.Release()
}

// TestAllocator_MalformedRequestFailsFast drives a malformed request through
// a raw dispatch via a custom provider wrapper to confirm validation happens
// before the provider runs.
func TestAllocator_MalformedRequestFailsFast(t *testing.T) {
	called := false
	a := NewAllocator("test", nil, func(state any, req Request) (Result, error) {
		called = true
		return Result{}, nil
	})

	assert.Panics(t, func() { a.Allocate(0) }, "zero-size allocate is a malformed request")
	assert.False(t, called, "provider must not see malformed requests")
}
