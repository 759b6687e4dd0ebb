package mem

import (
	"sync/atomic"

	"github.com/joshuapare/mapkit/internal/trace"
)

// Mode selects one of the six allocator operations. A Request carries its
// Mode explicitly; providers never infer the operation from which arguments
// happen to be set.
type Mode uint8

const (
	// ModeAllocate requests a new block of Size bytes.
	ModeAllocate Mode = iota

	// ModeReallocate resizes an existing block to Size bytes. The block may
	// move. A zero OldSize with a non-nil Memory is still a reallocation,
	// not a violation.
	ModeReallocate

	// ModeDeallocate returns a block of OldSize bytes to the provider.
	ModeDeallocate

	// ModeReserveAll asks the provider to pre-commit its backing region.
	ModeReserveAll

	// ModeResetAll discards every outstanding allocation at once.
	ModeResetAll

	// ModeRelease returns all held memory to the parent and invalidates
	// the allocator.
	ModeRelease
)

// String returns the operation name for trace output.
func (m Mode) String() string {
	switch m {
	case ModeAllocate:
		return "allocate"
	case ModeReallocate:
		return "reallocate"
	case ModeDeallocate:
		return "deallocate"
	case ModeReserveAll:
		return "reserve-all"
	case ModeResetAll:
		return "reset-all"
	case ModeRelease:
		return "release"
	}
	return "invalid"
}

// Request is one allocator call. The field pattern must match the Mode; see
// valid for the closed classification. Malformed requests are programming
// errors and fail fast rather than reach a provider.
type Request struct {
	Mode    Mode
	Size    int
	Memory  []byte
	OldSize int
}

// Result carries the outcome of a Request. Memory is set for allocate,
// reallocate and reserve-all; Bytes is set for deallocate (echoes the old
// size), reset-all and release (bytes reclaimed or released).
type Result struct {
	Memory []byte
	Bytes  int
}

// Proc is the single dispatch function every provider implements. state is
// the provider's opaque state as given to the Allocator at construction.
type Proc func(state any, req Request) (Result, error)

// Allocator is a capability value: opaque provider state plus one dispatch
// function. It is created by a provider constructor, consumed by every table
// and arena operation, and invalidated by Release. Using a released (zeroed)
// Allocator is a contract violation and fails fast.
type Allocator struct {
	state any
	proc  Proc

	name string
	id   int32
}

// nextID hands each provider instance a unique identity for trace output.
// 0 is reserved for the system allocator.
var nextID atomic.Int32

// NewAllocator wraps provider state and a dispatch function into a
// capability value. Providers in this package use it internally; it is
// exported so external providers can participate in the same contract.
func NewAllocator(name string, state any, proc Proc) Allocator {
	return Allocator{
		state: state,
		proc:  proc,
		name:  name,
		id:    nextID.Add(1),
	}
}

// Name returns the provider name, e.g. "system" or "arena".
func (a Allocator) Name() string { return a.name }

// ID returns the instance identity used in trace output.
func (a Allocator) ID() int { return int(a.id) }

// Valid reports whether the allocator is usable, i.e. has not been released
// or zeroed.
func (a Allocator) Valid() bool { return a.proc != nil }

// Valid is the total, closed classification over request field patterns.
// Every Mode accepts exactly one pattern, except Reallocate which also
// accepts a non-nil Memory with OldSize == 0 (resizing a zero-length block).
// Dispatch rejects invalid requests before they reach a provider.
func (r Request) Valid() bool {
	switch r.Mode {
	case ModeAllocate:
		return r.Size > 0 && r.Memory == nil && r.OldSize == 0
	case ModeReallocate:
		return r.Size > 0 && (r.OldSize > 0 || r.Memory != nil)
	case ModeDeallocate:
		return r.Size == 0 && r.Memory != nil && r.OldSize > 0
	case ModeReserveAll:
		return r.Size == 0 && r.Memory == nil && r.OldSize == 0
	case ModeResetAll:
		return r.Size == 0 && r.Memory == nil && r.OldSize != 0
	case ModeRelease:
		return r.Size == 0 && r.Memory != nil && r.OldSize == 0
	}
	return false
}

// dispatch validates the request and hands it to the provider. Validation
// failures and use of a released allocator are fatal through the trace sink.
func (a Allocator) dispatch(req Request) (Result, error) {
	trace.Assertf(a.proc != nil, "mem: %s on released allocator", req.Mode)
	trace.Assertf(req.Valid(), "mem: malformed %s request (size=%d, memory=%v, old_size=%d)",
		req.Mode, req.Size, req.Memory != nil, req.OldSize)
	return a.proc(a.state, req)
}

// releaseSentinel is the non-nil Memory marker a Release request carries.
var releaseSentinel = make([]byte, 1)

// Allocate returns a new block of size bytes, or an error when the provider
// cannot satisfy it.
func (a Allocator) Allocate(size int) ([]byte, error) {
	res, err := a.dispatch(Request{Mode: ModeAllocate, Size: size})
	if err != nil {
		return nil, err
	}
	trace.Infof(1, "%s-%d allocated %d bytes", a.name, a.id, size)
	return res.Memory, nil
}

// Reallocate resizes memory (a block of oldSize bytes) to size bytes. The
// returned block may be a different one; the old block must not be used
// afterwards.
func (a Allocator) Reallocate(size int, memory []byte, oldSize int) ([]byte, error) {
	res, err := a.dispatch(Request{Mode: ModeReallocate, Size: size, Memory: memory, OldSize: oldSize})
	if err != nil {
		return nil, err
	}
	trace.Infof(1, "%s-%d reallocated %d to %d bytes", a.name, a.id, oldSize, size)
	return res.Memory, nil
}

// Deallocate returns memory (a block of oldSize bytes) to the provider and
// echoes oldSize.
func (a Allocator) Deallocate(memory []byte, oldSize int) int {
	res, err := a.dispatch(Request{Mode: ModeDeallocate, Memory: memory, OldSize: oldSize})
	if err != nil {
		trace.Errorf(1, "mem: %s-%d deallocate failed: %v", a.name, a.id, err)
		return 0
	}
	trace.Infof(1, "%s-%d deallocated %d bytes", a.name, a.id, oldSize)
	return res.Bytes
}

// ReserveAll asks the provider to pre-commit its backing region.
func (a Allocator) ReserveAll() ([]byte, error) {
	res, err := a.dispatch(Request{Mode: ModeReserveAll})
	if err != nil {
		return nil, err
	}
	trace.Infof(1, "%s-%d reserved all", a.name, a.id)
	return res.Memory, nil
}

// ResetAll discards every outstanding allocation at once and returns the
// number of bytes reclaimed.
func (a Allocator) ResetAll() int {
	res, err := a.dispatch(Request{Mode: ModeResetAll, OldSize: 1})
	if err != nil {
		trace.Errorf(1, "mem: %s-%d reset-all failed: %v", a.name, a.id, err)
		return 0
	}
	trace.Infof(1, "%s-%d reset all (%d bytes)", a.name, a.id, res.Bytes)
	return res.Bytes
}

// Release returns all held memory to the parent provider and zeroes the
// allocator value. The allocator is unusable afterwards; reuse fails fast.
// Returns the number of bytes released.
func (a *Allocator) Release() int {
	res, err := a.dispatch(Request{Mode: ModeRelease, Memory: releaseSentinel})
	if err != nil {
		trace.Errorf(1, "mem: %s-%d release failed: %v", a.name, a.id, err)
		return 0
	}
	trace.Infof(1, "%s-%d released all (%d bytes)", a.name, a.id, res.Bytes)
	*a = Allocator{}
	return res.Bytes
}
