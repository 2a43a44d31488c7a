package generator

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestSampler_DistinctSortedInRange(t *testing.T) {
	s := NewSampler(testRNG(1))

	for i := 0; i < 1000; i++ {
		nums, err := s.Sample(1, 50, 5)
		require.NoError(t, err)
		require.Len(t, nums, 5)
		for j, n := range nums {
			assert.GreaterOrEqual(t, n, 1)
			assert.LessOrEqual(t, n, 50)
			if j > 0 {
				assert.Greater(t, n, nums[j-1], "sorted and distinct")
			}
		}
	}
}

func TestSampler_RangeExactlyFits(t *testing.T) {
	s := NewSampler(testRNG(2))

	nums, err := s.Sample(3, 8, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8}, nums)
}

func TestSampler_InvalidRange(t *testing.T) {
	s := NewSampler(testRNG(3))

	_, err := s.Sample(1, 5, 6)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = s.Sample(1, 5, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSampler_SeededReproducible(t *testing.T) {
	a := NewSampler(testRNG(42))
	b := NewSampler(testRNG(42))

	for i := 0; i < 20; i++ {
		x, err := a.Sample(1, 50, 5)
		require.NoError(t, err)
		y, err := b.Sample(1, 50, 5)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

func TestSampler_CoversWholeRange(t *testing.T) {
	s := NewSampler(testRNG(4))

	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		nums, err := s.Sample(1, 10, 3)
		require.NoError(t, err)
		for _, n := range nums {
			seen[n] = true
		}
	}
	for n := 1; n <= 10; n++ {
		assert.True(t, seen[n], "number %d never sampled", n)
	}
}
