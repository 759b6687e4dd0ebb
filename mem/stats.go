package mem

import (
	"sync/atomic"

	"github.com/joshuapare/mapkit/internal/trace"
)

// Stats accumulates byte counters for one accounting scope. A scope is
// whatever the caller decides: one test, one run, one subsystem. Pass the
// same *Stats to every provider whose traffic should land in the scope, and
// check it at a shutdown point of your choosing.
//
// InUse is Allocated - Deallocated + Reallocated; it is zero exactly when
// every block handed out has been returned.
type Stats struct {
	Allocated   atomic.Int64
	Reallocated atomic.Int64
	Deallocated atomic.Int64
}

// InUse returns the number of bytes currently accounted as live.
func (s *Stats) InUse() int64 {
	return s.Allocated.Load() - s.Deallocated.Load() + s.Reallocated.Load()
}

// Reset zeroes all counters, starting a fresh accounting scope.
func (s *Stats) Reset() {
	s.Allocated.Store(0)
	s.Reallocated.Store(0)
	s.Deallocated.Store(0)
}

// AssertNoLeak fails fast when the scope still accounts live bytes. Call it
// at a checked shutdown point after every table and arena has been freed.
func (s *Stats) AssertNoLeak() {
	trace.Assertf(s.InUse() == 0,
		"memory leak detected: +%d allocated, -%d deallocated, %d reallocated = %d bytes",
		s.Allocated.Load(), s.Deallocated.Load(), s.Reallocated.Load(), s.InUse())
}

// ReportUsage logs the current usage of the scope at info severity.
func (s *Stats) ReportUsage() {
	trace.Infof(1, "current usage is %d bytes", s.InUse())
}

// account applies one request's byte deltas to the scope. nil receiver means
// the provider was built without accounting.
func (s *Stats) account(req Request) {
	if s == nil {
		return
	}
	switch req.Mode {
	case ModeAllocate:
		s.Allocated.Add(int64(req.Size))
	case ModeReallocate:
		s.Reallocated.Add(int64(req.Size - req.OldSize))
	case ModeDeallocate:
		s.Deallocated.Add(int64(req.OldSize))
	}
}
