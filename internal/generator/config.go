package generator

import (
	"errors"
	"fmt"

	"github.com/drawlab/lottogen/internal/lottery"
)

// ErrInvalidConfig wraps every configuration error detected before sampling
// starts. Nothing is discovered mid-loop.
var ErrInvalidConfig = errors.New("invalid generator configuration")

// Check names, in evaluation order. Cheap, high-rejection checks run first;
// the positional-frequency score runs last.
const (
	CheckOddEven            = "OddEvenCheck"
	CheckSumRange           = "SumRangeCheck"
	CheckGap                = "GapCheck"
	CheckMaxRun             = "MaxRunCheck"
	CheckMultiples          = "MultiplesCheck"
	CheckCluster            = "ClusterCheck"
	CheckSpecialGap         = "SpecialGapCheck"
	CheckPatternProbability = "PatternProbabilityCheck"
)

var allChecks = []string{
	CheckOddEven,
	CheckSumRange,
	CheckGap,
	CheckMaxRun,
	CheckMultiples,
	CheckCluster,
	CheckSpecialGap,
	CheckPatternProbability,
}

const (
	DefaultPercentileLow       = 0.15
	DefaultPercentileHigh      = 0.85
	DefaultGapPercentile       = 0.95
	DefaultMultiplesPercentile = 0.95
	DefaultClusterWidth        = 10
	DefaultMinHistory          = 30
	DefaultMaxAttempts         = 50000
	DefaultPatternMinRatio     = 0.5
	DefaultMaxRun              = 2
)

// Interval is an inclusive sub-range of the main number range.
type Interval struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Config holds every generation knob. The zero value for a knob means "use
// the default"; withDefaults fills those in before validation.
type Config struct {
	Rules lottery.Rules

	// Sum acceptance bounds are the [PercentileLow, PercentileHigh]
	// empirical percentiles of historical main-number sums.
	PercentileLow  float64
	PercentileHigh float64

	// Percentile of historical consecutive-number gaps used as the gap
	// ceiling, and of per-draw multiples counts used as the multiples
	// ceiling.
	GapPercentile       float64
	MultiplesPercentile float64

	// ClusterIntervals must cover [MainMin, MainMax] without gaps.
	// Empty means fixed-width intervals of DefaultClusterWidth.
	ClusterIntervals []Interval

	// MultiplesBases is the set of bases checked, each in 2..10.
	// Empty means all of 2..10.
	MultiplesBases []int

	// Below MinHistory draws the derived statistics are replaced by
	// permissive fallbacks so the chain stays satisfiable.
	MinHistory int

	MaxAttempts int

	// Checks lists enabled check names; empty enables everything.
	Checks []string

	// PatternProbabilityCheck passes when the candidate's mean positional
	// frequency reaches PatternMinRatio of the historical average score.
	PatternMinRatio float64

	// MaxRun caps the longest run of consecutive numbers.
	MaxRun int

	// Debug keeps a per-attempt trace in the outcome. Sampling behavior
	// is unaffected.
	Debug bool
}

func DefaultConfig(rules lottery.Rules) Config {
	return Config{Rules: rules}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.PercentileLow == 0 && c.PercentileHigh == 0 {
		c.PercentileLow = DefaultPercentileLow
		c.PercentileHigh = DefaultPercentileHigh
	}
	if c.GapPercentile == 0 {
		c.GapPercentile = DefaultGapPercentile
	}
	if c.MultiplesPercentile == 0 {
		c.MultiplesPercentile = DefaultMultiplesPercentile
	}
	if len(c.ClusterIntervals) == 0 {
		c.ClusterIntervals = fixedWidthIntervals(c.Rules.MainMin, c.Rules.MainMax, DefaultClusterWidth)
	}
	if len(c.MultiplesBases) == 0 {
		for base := 2; base <= 10; base++ {
			c.MultiplesBases = append(c.MultiplesBases, base)
		}
	}
	if c.MinHistory == 0 {
		c.MinHistory = DefaultMinHistory
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.PatternMinRatio == 0 {
		c.PatternMinRatio = DefaultPatternMinRatio
	}
	if c.MaxRun == 0 {
		c.MaxRun = DefaultMaxRun
	}
	return c
}

func fixedWidthIntervals(min, max, width int) []Interval {
	var out []Interval
	for start := min; start <= max; start += width {
		end := start + width - 1
		if end > max {
			end = max
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out
}

func (c Config) Validate() error {
	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.PercentileLow < 0 || c.PercentileLow >= 1 {
		return fmt.Errorf("%w: percentile_low %v outside [0,1)", ErrInvalidConfig, c.PercentileLow)
	}
	if c.PercentileHigh <= c.PercentileLow || c.PercentileHigh > 1 {
		return fmt.Errorf("%w: percentile_high %v outside (%v,1]", ErrInvalidConfig, c.PercentileHigh, c.PercentileLow)
	}
	if c.GapPercentile < 0 || c.GapPercentile > 1 {
		return fmt.Errorf("%w: gap_percentile %v outside [0,1]", ErrInvalidConfig, c.GapPercentile)
	}
	if c.MultiplesPercentile < 0 || c.MultiplesPercentile > 1 {
		return fmt.Errorf("%w: multiples_percentile %v outside [0,1]", ErrInvalidConfig, c.MultiplesPercentile)
	}
	if err := validateIntervals(c.ClusterIntervals, c.Rules.MainMin, c.Rules.MainMax); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for _, base := range c.MultiplesBases {
		if base < 2 || base > 10 {
			return fmt.Errorf("%w: multiples base %d outside 2..10", ErrInvalidConfig, base)
		}
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max_attempts must be > 0", ErrInvalidConfig)
	}
	if c.PatternMinRatio < 0 {
		return fmt.Errorf("%w: pattern_min_ratio must be >= 0", ErrInvalidConfig)
	}
	if c.MaxRun < 1 {
		return fmt.Errorf("%w: max_run must be >= 1", ErrInvalidConfig)
	}
	for _, name := range c.Checks {
		if !knownCheck(name) {
			return fmt.Errorf("%w: unknown check %q", ErrInvalidConfig, name)
		}
	}
	return nil
}

func validateIntervals(intervals []Interval, min, max int) error {
	if len(intervals) == 0 {
		return fmt.Errorf("cluster_intervals is empty")
	}
	if intervals[0].Start != min {
		return fmt.Errorf("cluster_intervals start at %d, want %d", intervals[0].Start, min)
	}
	for i, iv := range intervals {
		if iv.End < iv.Start {
			return fmt.Errorf("cluster interval %d: end %d < start %d", i, iv.End, iv.Start)
		}
		if i > 0 && iv.Start != intervals[i-1].End+1 {
			return fmt.Errorf("cluster intervals leave a gap between %d and %d", intervals[i-1].End, iv.Start)
		}
	}
	if last := intervals[len(intervals)-1]; last.End != max {
		return fmt.Errorf("cluster_intervals end at %d, want %d", last.End, max)
	}
	return nil
}

func knownCheck(name string) bool {
	for _, n := range allChecks {
		if n == name {
			return true
		}
	}
	return false
}

func (c Config) checkEnabled(name string) bool {
	if len(c.Checks) == 0 {
		return true
	}
	for _, n := range c.Checks {
		if n == name {
			return true
		}
	}
	return false
}
