// Package mem provides the pluggable allocation subsystem mapkit is built
// on: a small capability type multiplexing six operations through one
// dispatch function, plus three providers with different memory provenance.
//
// # Overview
//
// An Allocator is a capability value: opaque provider state plus one Proc.
// Every operation is a Request with an explicit Mode; the classification of
// request shapes is total and closed, and a request whose fields do not
// match its mode is a programming error that fails fast through the trace
// sink rather than reaching a provider.
//
// The six operations:
//
//   - Allocate(size): new block
//   - Reallocate(size, memory, oldSize): resized block, may move
//   - Deallocate(memory, oldSize): return a block, echoes oldSize
//   - ReserveAll(): pre-commit the provider's backing region
//   - ResetAll(): discard every outstanding allocation at once
//   - Release(): return everything to the parent and invalidate the value
//
// # Providers
//
// NewSystem: Go-heap-backed. Tracks traffic in an injected Stats scope so a
// shutdown point can assert that allocates and deallocates balance. The
// reserve/reset/release trio has no meaning for the process heap and fails
// loudly.
//
// NewArena: chunked bump allocator over a parent Allocator. Allocation bumps
// the top chunk and chains a new one on overflow; deallocation is strictly
// LIFO and pops drained chunks back to the parent. ResetAll rewinds all
// chunks in place, Release frees the whole chain.
//
// NewMmap (unix only): anonymous private mappings, one per block. Useful
// when blocks must live outside the garbage-collected heap.
//
// # Accounting
//
// Stats is scoped instrumentation, not a process-wide global: construct one
// per test or per run, hand it to the providers whose traffic belongs to the
// scope, and call AssertNoLeak at a checked shutdown point.
//
//	var stats mem.Stats
//	sys := mem.NewSystem(&stats)
//	...
//	stats.AssertNoLeak()
//
// # Thread Safety
//
// Allocators are not thread-safe. Callers must synchronize access
// externally. Stats counters are atomic only so that one scope can span
// providers used from different goroutines at different times.
package mem
