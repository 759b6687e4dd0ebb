package mem

import (
	"github.com/joshuapare/mapkit/internal/trace"
)

// systemState is the opaque state of the system provider: just the accounting
// scope its traffic lands in.
type systemState struct {
	stats *Stats
}

// NewSystem returns the heap-backed provider. Allocate, Reallocate and
// Deallocate map onto the Go heap; reserve-all, reset-all and release have
// no meaning for the process heap and fail loudly.
//
// stats may be nil to skip accounting. The system allocator always carries
// identity 0.
func NewSystem(stats *Stats) Allocator {
	return Allocator{
		state: &systemState{stats: stats},
		proc:  systemProc,
		name:  "system",
		id:    0,
	}
}

func systemProc(state any, req Request) (Result, error) {
	s := state.(*systemState)

	switch req.Mode {
	case ModeAllocate:
		s.stats.account(req)
		return Result{Memory: make([]byte, req.Size)}, nil

	case ModeReallocate:
		s.stats.account(req)
		block := make([]byte, req.Size)
		n := req.OldSize
		if n > req.Size {
			n = req.Size
		}
		if n > len(req.Memory) {
			n = len(req.Memory)
		}
		copy(block, req.Memory[:n])
		return Result{Memory: block}, nil

	case ModeDeallocate:
		// The garbage collector reclaims the block once the caller drops it;
		// accounting is the observable effect.
		s.stats.account(req)
		return Result{Bytes: req.OldSize}, nil

	case ModeReserveAll, ModeResetAll, ModeRelease:
		trace.Errorf(1, "mem: system allocator does not implement %s", req.Mode)
		return Result{}, ErrUnsupported
	}

	trace.Errorf(1, "mem: system allocator: unreachable mode %d", req.Mode)
	return Result{}, ErrUnsupported
}
