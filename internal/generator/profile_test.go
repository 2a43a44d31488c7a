package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawlab/lottogen/internal/lottery"
)

func euroRules() lottery.Rules {
	return lottery.Rules{
		MainCount: 5, MainMin: 1, MainMax: 50,
		SpecialCount: 2, SpecialMin: 1, SpecialMax: 12,
	}
}

func lottoRules() lottery.Rules {
	return lottery.Rules{MainCount: 6, MainMin: 1, MainMax: 49}
}

func historyOf(draws ...lottery.Draw) *lottery.History {
	return lottery.NewHistory(draws)
}

func TestBuildProfile_Deterministic(t *testing.T) {
	h := historyOf(
		lottery.NewDraw([]int{3, 17, 22, 41, 50}, []int{2, 9}),
		lottery.NewDraw([]int{5, 11, 23, 29, 44}, []int{1, 12}),
		lottery.NewDraw([]int{2, 8, 19, 33, 47}, []int{4, 9}),
	)
	cfg := Config{Rules: euroRules(), MinHistory: 1}

	p1, err := BuildProfile(h, cfg)
	require.NoError(t, err)
	p2, err := BuildProfile(h, cfg)
	require.NoError(t, err)

	assert.Equal(t, p1, p2, "same history and config must produce identical profiles")
}

func TestBuildProfile_ObservedOddCounts(t *testing.T) {
	// Odd counts: 3, 4, 2.
	h := historyOf(
		lottery.NewDraw([]int{3, 17, 22, 41, 50}, nil),
		lottery.NewDraw([]int{5, 11, 23, 29, 44}, nil),
		lottery.NewDraw([]int{2, 8, 19, 33, 48}, nil),
	)
	cfg := Config{Rules: lottery.Rules{MainCount: 5, MainMin: 1, MainMax: 50}, MinHistory: 1}

	p, err := BuildProfile(h, cfg)
	require.NoError(t, err)
	assert.True(t, p.Derived)

	for odd := 0; odd <= 5; odd++ {
		want := odd == 2 || odd == 3 || odd == 4
		assert.Equal(t, want, p.OddCountsAllowed[odd], "odd count %d", odd)
	}
	assert.Equal(t, map[int]int{2: 1, 3: 1, 4: 1}, p.OddCountDist)
}

func TestBuildProfile_SumBoundsFullPercentiles(t *testing.T) {
	// Sums: 133, 112, 110. With [0,1] percentiles the bounds are min/max.
	h := historyOf(
		lottery.NewDraw([]int{3, 17, 22, 41, 50}, nil),
		lottery.NewDraw([]int{5, 11, 23, 29, 44}, nil),
		lottery.NewDraw([]int{2, 8, 19, 33, 48}, nil),
	)
	cfg := Config{
		Rules:         lottery.Rules{MainCount: 5, MainMin: 1, MainMax: 50},
		MinHistory:    1,
		PercentileLow: 0.0, PercentileHigh: 1.0,
	}

	p, err := BuildProfile(h, cfg)
	require.NoError(t, err)
	assert.Equal(t, 110, p.SumLow)
	assert.Equal(t, 133, p.SumHigh)
}

func TestBuildProfile_GapAndMultiples(t *testing.T) {
	// Single draw: gaps 14, 5, 19, 9.
	h := historyOf(lottery.NewDraw([]int{3, 17, 22, 41, 50}, nil))
	cfg := Config{
		Rules:          lottery.Rules{MainCount: 5, MainMin: 1, MainMax: 50},
		MinHistory:     1,
		GapPercentile:  1.0,
		MultiplesBases: []int{5},
	}

	p, err := BuildProfile(h, cfg)
	require.NoError(t, err)
	assert.Equal(t, 19, p.MaxGap)
	assert.Equal(t, map[int]int{5: 1}, p.MaxMultiples) // 50 is the only multiple of 5
}

func TestBuildProfile_ClusterBounds(t *testing.T) {
	h := historyOf(
		lottery.NewDraw([]int{1, 2, 3, 14, 25}, nil), // decade counts: 3,1,1,0,0
		lottery.NewDraw([]int{11, 12, 23, 34, 45}, nil), // 0,2,1,1,1
	)
	cfg := Config{Rules: lottery.Rules{MainCount: 5, MainMin: 1, MainMax: 50}, MinHistory: 1}

	p, err := BuildProfile(h, cfg)
	require.NoError(t, err)
	require.Len(t, p.ClusterBounds, 5)
	assert.Equal(t, CountRange{Min: 0, Max: 3}, p.ClusterBounds[0])
	assert.Equal(t, CountRange{Min: 1, Max: 2}, p.ClusterBounds[1])
	assert.Equal(t, CountRange{Min: 1, Max: 1}, p.ClusterBounds[2])
	assert.Equal(t, CountRange{Min: 0, Max: 1}, p.ClusterBounds[3])
	assert.Equal(t, CountRange{Min: 0, Max: 1}, p.ClusterBounds[4])
}

func TestBuildProfile_FallbackBelowMinHistory(t *testing.T) {
	h := historyOf(lottery.NewDraw([]int{1, 2, 3, 4, 5}, nil))
	cfg := Config{Rules: lottery.Rules{MainCount: 5, MainMin: 1, MainMax: 50}, MinHistory: 10}

	p, err := BuildProfile(h, cfg)
	require.NoError(t, err)
	assert.False(t, p.Derived)

	// Permissive across the board.
	for odd := 0; odd <= 5; odd++ {
		assert.True(t, p.OddCountsAllowed[odd])
	}
	assert.Equal(t, 1+2+3+4+5, p.SumLow)
	assert.Equal(t, 50+49+48+47+46, p.SumHigh)
	assert.Equal(t, 49, p.MaxGap)
	for base := 2; base <= 10; base++ {
		assert.Equal(t, 5, p.MaxMultiples[base])
	}
	for _, b := range p.ClusterBounds {
		assert.Equal(t, CountRange{Min: 0, Max: 5}, b)
	}
}

func TestBuildProfile_EmptyHistory(t *testing.T) {
	p, err := BuildProfile(historyOf(), Config{Rules: lottoRules()})
	require.NoError(t, err)
	assert.False(t, p.Derived)
	assert.Equal(t, 0, p.TotalDraws)
}

func TestBuildProfile_InvalidConfig(t *testing.T) {
	cases := map[string]Config{
		"percentiles inverted": {
			Rules: lottoRules(), PercentileLow: 0.9, PercentileHigh: 0.1,
		},
		"cluster gap": {
			Rules: lottoRules(),
			ClusterIntervals: []Interval{
				{Start: 1, End: 10}, {Start: 12, End: 49},
			},
		},
		"cluster short": {
			Rules: lottoRules(),
			ClusterIntervals: []Interval{
				{Start: 1, End: 40},
			},
		},
		"count exceeds range": {
			Rules: lottery.Rules{MainCount: 10, MainMin: 1, MainMax: 5},
		},
		"bad base": {
			Rules: lottoRules(), MultiplesBases: []int{11},
		},
		"unknown check": {
			Rules: lottoRules(), Checks: []string{"NoSuchCheck"},
		},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := BuildProfile(historyOf(), cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestPercentile(t *testing.T) {
	values := []int{10, 20, 30, 40}
	assert.Equal(t, 10.0, percentile(values, 0))
	assert.Equal(t, 40.0, percentile(values, 1))
	assert.Equal(t, 25.0, percentile(values, 0.5))
	assert.Equal(t, 38.5, percentile(values, 0.95))
	assert.Equal(t, 0.0, percentile(nil, 0.5))
}

func TestPatternScore(t *testing.T) {
	// Two draws; position 0 saw 3 twice, positions beyond differ.
	h := historyOf(
		lottery.NewDraw([]int{3, 17, 22, 41, 50}, nil),
		lottery.NewDraw([]int{3, 11, 23, 29, 44}, nil),
	)
	cfg := Config{Rules: lottery.Rules{MainCount: 5, MainMin: 1, MainMax: 50}, MinHistory: 1}
	p, err := BuildProfile(h, cfg)
	require.NoError(t, err)

	// First draw: position 0 freq 100%, others 50% -> mean 60%.
	score := p.PatternScore([]int{3, 17, 22, 41, 50})
	assert.Equal(t, "60", score.String())

	// Unseen numbers score zero.
	assert.True(t, p.PatternScore([]int{4, 18, 24, 42, 49}).IsZero())

	// Average over history is symmetric: both draws score 60.
	assert.Equal(t, "60", p.AvgPatternScore.String())
	assert.Equal(t, "60", p.BestPatternScore.String())
}
