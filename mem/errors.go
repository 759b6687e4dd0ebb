package mem

import "errors"

var (
	// ErrUnsupported indicates an operation the provider has no meaningful
	// implementation for, e.g. reserve-all on the system allocator.
	ErrUnsupported = errors.New("mem: operation not supported by provider")

	// ErrTooLarge indicates an arena allocation bigger than the per-chunk
	// capacity.
	ErrTooLarge = errors.New("mem: allocation exceeds arena chunk capacity")

	// ErrBadSize indicates a non-positive size where a positive one is
	// required.
	ErrBadSize = errors.New("mem: size must be positive")
)
