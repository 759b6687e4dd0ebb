//go:build unix

package mem

import (
	"golang.org/x/sys/unix"

	"github.com/joshuapare/mapkit/internal/trace"
)

// mmapState is the opaque state of the mmap provider.
type mmapState struct {
	stats *Stats
}

// NewMmap returns a provider backed by anonymous private mappings instead of
// the Go heap. Each allocation is its own mapping, so blocks live outside the
// garbage-collected heap and are returned to the kernel on deallocate. Like
// the system provider it implements allocate, reallocate and deallocate only.
//
// stats may be nil to skip accounting.
func NewMmap(stats *Stats) (Allocator, error) {
	return NewAllocator("mmap", &mmapState{stats: stats}, mmapProc), nil
}

func mmapProc(state any, req Request) (Result, error) {
	s := state.(*mmapState)

	switch req.Mode {
	case ModeAllocate:
		block, err := anonMap(req.Size)
		if err != nil {
			return Result{}, err
		}
		s.stats.account(req)
		return Result{Memory: block}, nil

	case ModeReallocate:
		block, err := anonMap(req.Size)
		if err != nil {
			return Result{}, err
		}
		n := req.OldSize
		if n > req.Size {
			n = req.Size
		}
		if n > len(req.Memory) {
			n = len(req.Memory)
		}
		copy(block, req.Memory[:n])
		if req.OldSize > 0 && req.Memory != nil {
			if err := unix.Munmap(req.Memory[:req.OldSize:req.OldSize]); err != nil {
				// Drop the replacement mapping before failing; it was never
				// handed out and must not outlive the request.
				unix.Munmap(block)
				trace.Errorf(1, "mem: mmap reallocate: munmap failed: %v", err)
				return Result{}, err
			}
		}
		s.stats.account(req)
		return Result{Memory: block}, nil

	case ModeDeallocate:
		if err := unix.Munmap(req.Memory[:req.OldSize:req.OldSize]); err != nil {
			trace.Errorf(1, "mem: mmap deallocate: munmap failed: %v", err)
			return Result{}, err
		}
		s.stats.account(req)
		return Result{Bytes: req.OldSize}, nil

	case ModeReserveAll, ModeResetAll, ModeRelease:
		trace.Errorf(1, "mem: mmap allocator does not implement %s", req.Mode)
		return Result{}, ErrUnsupported
	}

	trace.Errorf(1, "mem: mmap allocator: unreachable mode %d", req.Mode)
	return Result{}, ErrUnsupported
}

// anonMap maps size bytes of zeroed, private anonymous memory.
func anonMap(size int) ([]byte, error) {
	block, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return block[:size:size], nil
}
