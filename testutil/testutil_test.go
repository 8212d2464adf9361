package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIota(t *testing.T) {
	assert.Equal(t, []int64{5, 6, 7}, Iota(3, 5))
	assert.Equal(t, []int32{1, 2}, Iota32(2, 1))
}

func TestShuffle(t *testing.T) {
	rng := NewRNG(4711)
	ids := Iota(64, 1)

	rng.Shuffle(ids)

	assert.ElementsMatch(t, Iota(64, 1), ids)
	assert.NotEqual(t, Iota(64, 1), ids)
}

func TestSplit(t *testing.T) {
	segs := Split(10, 3)

	assert.Equal(t, []Segment{{0, 4}, {4, 3}, {7, 3}}, segs)
	assert.Equal(t, []Segment{{7, 3}, {4, 3}, {0, 4}}, Reverse(segs))
	assert.Nil(t, Split(10, 0))
}

func TestSplitRandom(t *testing.T) {
	rng := NewRNG(1)
	segs := rng.SplitRandom(100, 17)

	total := 0
	for i, s := range segs {
		assert.Equal(t, total, s.Offset, "segment %d", i)
		assert.Positive(t, s.Count)
		total += s.Count
	}
	assert.Equal(t, 100, total)
}
