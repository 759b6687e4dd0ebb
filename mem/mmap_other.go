//go:build !unix

package mem

// NewMmap is unavailable without mmap support; use NewSystem instead.
func NewMmap(stats *Stats) (Allocator, error) {
	return Allocator{}, ErrUnsupported
}
