package mem

import (
	"github.com/joshuapare/mapkit/internal/trace"
)

// chunk is one node of an arena's LIFO chain. data is a single parent
// allocation of the arena's chunk capacity; used is the bump offset of the
// next allocation within it.
type chunk struct {
	data []byte
	used int
	prev *chunk
}

// arena is the opaque state of the arena provider: a chain of bump chunks
// rooted at top, each obtained from the parent allocator.
type arena struct {
	parent  Allocator
	top     *chunk
	maxSize int
}

// NewArena returns a chunked bump allocator drawing maxSize-byte chunks from
// parent. Allocation bumps the top chunk and chains a fresh chunk on
// overflow; deallocation is strictly LIFO. Reset-all rewinds every chunk
// without returning memory; Release returns every chunk to the parent and
// invalidates the allocator.
//
// An arena cannot satisfy a single allocation larger than maxSize.
func NewArena(parent Allocator, maxSize int) (Allocator, error) {
	if maxSize <= 0 {
		return Allocator{}, ErrBadSize
	}
	data, err := parent.Allocate(maxSize)
	if err != nil {
		return Allocator{}, err
	}
	a := &arena{
		parent:  parent,
		top:     &chunk{data: data},
		maxSize: maxSize,
	}
	return NewAllocator("arena", a, arenaProc), nil
}

func arenaProc(state any, req Request) (Result, error) {
	a := state.(*arena)

	switch req.Mode {
	case ModeAllocate:
		if req.Size > a.maxSize {
			trace.Warnf(1, "mem: arena can't allocate more than %d bytes (%d requested)",
				a.maxSize, req.Size)
			return Result{}, ErrTooLarge
		}
		if a.top.used+req.Size > a.maxSize {
			data, err := a.parent.Allocate(a.maxSize)
			if err != nil {
				return Result{}, err
			}
			a.top = &chunk{data: data, prev: a.top}
		}
		block := a.top.data[a.top.used : a.top.used+req.Size : a.top.used+req.Size]
		a.top.used += req.Size
		return Result{Memory: block}, nil

	case ModeDeallocate:
		trace.Assertf(req.OldSize <= a.top.used,
			"mem: arena can't deallocate more than %d bytes (%d requested)",
			a.top.used, req.OldSize)
		a.top.used -= req.OldSize
		if a.top.used == 0 && a.top.prev != nil {
			prev := a.top.prev
			a.parent.Deallocate(a.top.data, a.maxSize)
			a.top = prev
		}
		return Result{Bytes: req.OldSize}, nil

	case ModeResetAll:
		reclaimed := 0
		for c := a.top; c != nil; c = c.prev {
			reclaimed += c.used
			c.used = 0
		}
		return Result{Bytes: reclaimed}, nil

	case ModeRelease:
		released := 0
		for a.top != nil {
			prev := a.top.prev
			released += a.parent.Deallocate(a.top.data, a.maxSize)
			a.top = prev
		}
		return Result{Bytes: released}, nil

	case ModeReallocate, ModeReserveAll:
		trace.Errorf(1, "mem: arena allocator does not implement %s", req.Mode)
		return Result{}, ErrUnsupported
	}

	trace.Errorf(1, "mem: arena allocator: unreachable mode %d", req.Mode)
	return Result{}, ErrUnsupported
}
