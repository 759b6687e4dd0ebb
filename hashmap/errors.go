package hashmap

import "errors"

var (
	// ErrBadFactor indicates a load or grow factor outside its valid range.
	ErrBadFactor = errors.New("hashmap: factor out of range")

	// ErrBadCapacity indicates a zero or negative initial capacity.
	ErrBadCapacity = errors.New("hashmap: capacity must be positive")

	// ErrBadStride indicates a zero or negative key or value stride.
	ErrBadStride = errors.New("hashmap: stride must be positive")

	// ErrNoFuncs indicates a nil hash or equality function.
	ErrNoFuncs = errors.New("hashmap: hash and equal functions are required")
)
