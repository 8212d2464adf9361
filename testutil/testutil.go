package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// ShuffleSlice permutes any slice in place.
func ShuffleSlice[T any](r *RNG, ids []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

// Shuffle permutes ids in place.
func (r *RNG) Shuffle(ids []int64) {
	ShuffleSlice(r, ids)
}

// Perm returns a random permutation of [0, n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Iota returns n consecutive ids starting at start.
func Iota(n int, start int64) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = start + int64(i)
	}
	return ids
}

// Iota32 returns n consecutive 32-bit ids starting at start.
func Iota32(n int, start int32) []int32 {
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = start + int32(i)
	}
	return ids
}

// Scale multiplies every id by factor.
func Scale(ids []int64, factor int64) []int64 {
	for i := range ids {
		ids[i] *= factor
	}
	return ids
}

// Segment is a contiguous run of local positions delivered by one insertion.
type Segment struct {
	Offset int
	Count  int
}

// Split cuts [0, n) into parts segments of (almost) equal size.
func Split(n, parts int) []Segment {
	if parts <= 0 {
		return nil
	}
	segs := make([]Segment, 0, parts)
	size, rest := n/parts, n%parts
	offset := 0
	for i := range parts {
		count := size
		if i < rest {
			count++
		}
		segs = append(segs, Segment{Offset: offset, Count: count})
		offset += count
	}
	return segs
}

// SplitRandom cuts [0, n) into segments of random, uneven sizes.
func (r *RNG) SplitRandom(n, maxCount int) []Segment {
	var segs []Segment
	for offset := 0; offset < n; {
		count := min(1+r.Intn(maxCount), n-offset)
		segs = append(segs, Segment{Offset: offset, Count: count})
		offset += count
	}
	return segs
}

// Reverse returns the segments in reverse order.
func Reverse(segs []Segment) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[len(segs)-1-i] = s
	}
	return out
}
