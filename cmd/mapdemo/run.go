package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/mapkit/hashmap"
	"github.com/joshuapare/mapkit/internal/trace"
	"github.com/joshuapare/mapkit/mem"
)

const (
	keyStride = 16
	// A random earlier key is deleted after every deleteEvery inserts.
	deleteEvery = 971
)

func run() error {
	if verbose {
		trace.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	var stats mem.Stats
	alloc, cleanup, err := buildAllocator(&stats)
	if err != nil {
		return err
	}

	// Start at full occupancy before the first growth, growing by 200%.
	// Arena runs preallocate the whole table instead: growth frees the old
	// block mid-stream, and an arena only takes LIFO deallocations. Doubling
	// keeps the occupancy below every factor the run switches to.
	capacity := 8
	if provider == "arena" {
		capacity = 2*count + 1
	}
	m, err := hashmap.New(alloc, capacity, 1.0, keyStride, 4, hashmap.HashBytes, hashmap.EqualBytes)
	if err != nil {
		return err
	}
	if err := m.SetGrowFactor(2.0); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	p := message.NewPrinter(language.English)

	allKeys := make([][]byte, 0, count)
	deleted := 0

	for i := 0; i < count; i++ {
		key := randomKey(rng)
		allKeys = append(allKeys, key)

		var value [4]byte
		value[0] = byte(i)
		value[1] = byte(i >> 8)
		value[2] = byte(i >> 16)
		value[3] = byte(i >> 24)
		if _, err := m.Set(key, value[:]); err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}

		if i > 0 && i%deleteEvery == 0 {
			j := rng.Intn(i)
			for allKeys[j] == nil {
				j = rng.Intn(i)
			}
			if _, ok := m.Del(allKeys[j]); ok {
				deleted++
			}
			allKeys[j] = nil
		}

		switch i {
		case 1024:
			// Grow at 75% occupancy, by 100%.
			m.SetLoadFactor(0.75)
			m.SetGrowFactor(1.0)
		case 2048:
			// Grow at 50% occupancy, by 50%.
			m.SetLoadFactor(0.5)
			m.SetGrowFactor(0.5)
		}
	}

	// Sweep the dense regions the way a serializer would.
	keys := m.Keys()
	values := m.Values()
	var checksum uint64
	for i := 0; i < m.Count(); i++ {
		for _, b := range keys[i*keyStride : (i+1)*keyStride] {
			checksum += uint64(b)
		}
		for _, b := range values[i*4 : (i+1)*4] {
			checksum += uint64(b)
		}
	}

	p.Printf("inserted %d keys, deleted %d\n", count, deleted)
	p.Printf("live entries: %d (capacity %d)\n", m.Count(), m.Capacity())
	p.Printf("sweep checksum: %d\n", checksum)
	p.Printf("bytes in use before free: %d\n", stats.InUse())

	m.Free()
	if cleanup != nil {
		cleanup()
	}
	stats.AssertNoLeak()
	p.Printf("allocator scope balanced: +%d allocated, -%d deallocated, %d reallocated\n",
		stats.Allocated.Load(), stats.Deallocated.Load(), stats.Reallocated.Load())
	return nil
}

// buildAllocator constructs the backing provider selected on the command
// line. cleanup, when non-nil, must run after the table is freed.
func buildAllocator(stats *mem.Stats) (mem.Allocator, func(), error) {
	switch provider {
	case "system":
		return mem.NewSystem(stats), nil, nil
	case "mmap":
		a, err := mem.NewMmap(stats)
		return a, nil, err
	case "arena":
		parent := mem.NewSystem(stats)
		arena, err := mem.NewArena(parent, chunkSize)
		if err != nil {
			return mem.Allocator{}, nil, err
		}
		return arena, func() { arena.Release() }, nil
	default:
		return mem.Allocator{}, nil, fmt.Errorf("unknown allocator %q", provider)
	}
}

// randomKey fills a fixed-stride key with a random run of upper-case
// letters, NUL padded to the stride.
func randomKey(rng *rand.Rand) []byte {
	key := make([]byte, keyStride)
	n := 2 + rng.Intn(keyStride-2)
	for i := 0; i < n; i++ {
		key[i] = 'A' + byte(rng.Intn(26))
	}
	return key
}
