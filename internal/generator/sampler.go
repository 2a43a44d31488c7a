package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// ErrInvalidRange means the requested count cannot be drawn without
// replacement from the range.
var ErrInvalidRange = errors.New("sample count exceeds range size")

// Sampler draws uniform fixed-size sets of distinct numbers. All heuristic
// shaping happens downstream in the filter chain; the sampler itself is
// strictly uniform.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler wraps the given source. A nil rng gets a fresh
// randomly-seeded one.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sampler{rng: rng}
}

// Sample returns count distinct integers drawn uniformly without
// replacement from [min, max], sorted ascending.
//
// Selection uses Floyd's algorithm: for i over the last count slots of the
// range, pick j uniformly in [0, i]; take j unless already taken, else take
// i. Each count-subset comes out equally likely without retry loops.
func (s *Sampler) Sample(min, max, count int) ([]int, error) {
	size := max - min + 1
	if count <= 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidRange, count)
	}
	if count > size {
		return nil, fmt.Errorf("%w: count %d, range [%d,%d]", ErrInvalidRange, count, min, max)
	}

	// Range exactly fits: the one possible combination, no randomness needed.
	if count == size {
		out := make([]int, count)
		for i := range out {
			out[i] = min + i
		}
		return out, nil
	}

	chosen := make(map[int]struct{}, count)
	for i := size - count; i < size; i++ {
		j := s.rng.IntN(i + 1)
		if _, taken := chosen[j]; taken {
			chosen[i] = struct{}{}
		} else {
			chosen[j] = struct{}{}
		}
	}

	out := make([]int, 0, count)
	for offset := range chosen {
		out = append(out, min+offset)
	}
	slices.Sort(out)
	return out, nil
}
