package generator

import (
	"github.com/shopspring/decimal"

	"github.com/drawlab/lottogen/internal/lottery"
)

// Candidate is a sampled combination that has not yet cleared the chain.
// It only lives for one attempt; an accepted candidate is handed back to
// the caller as a lottery.Draw.
type Candidate struct {
	Main    []int // sorted ascending
	Special []int // sorted ascending, empty for single-pool games
}

func (c Candidate) Draw() lottery.Draw {
	return lottery.NewDraw(c.Main, c.Special)
}

func (c Candidate) positions() []int {
	out := make([]int, 0, len(c.Main)+len(c.Special))
	out = append(out, c.Main...)
	out = append(out, c.Special...)
	return out
}

// Result reports whether a candidate passed the chain; Reason names the
// first check that failed.
type Result struct {
	Pass   bool
	Reason string
}

var pass = Result{Pass: true}

type check struct {
	name string
	fn   func(Candidate) bool
}

// Chain is the ordered sequence of enabled checks bound to one profile.
// Every check is pure and deterministic given (candidate, profile), so the
// chain is safe to share across goroutines.
type Chain struct {
	checks []check
}

// NewChain builds the enabled checks in evaluation order. Order is a
// performance choice only: the cheap high-rejection checks come first and
// the positional-frequency score last.
func NewChain(p *Profile, cfg Config) *Chain {
	cfg = cfg.withDefaults()
	ch := &Chain{}

	add := func(name string, fn func(Candidate) bool) {
		if cfg.checkEnabled(name) {
			ch.checks = append(ch.checks, check{name: name, fn: fn})
		}
	}

	add(CheckOddEven, func(c Candidate) bool {
		return p.OddCountsAllowed[oddCount(c.Main)]
	})
	add(CheckSumRange, func(c Candidate) bool {
		sum := 0
		for _, n := range c.Main {
			sum += n
		}
		return sum >= p.SumLow && sum <= p.SumHigh
	})
	add(CheckGap, func(c Candidate) bool {
		return maxConsecutiveGap(c.Main) <= p.MaxGap
	})
	add(CheckMaxRun, func(c Candidate) bool {
		return maxRun(c.Main) <= cfg.MaxRun
	})
	add(CheckMultiples, func(c Candidate) bool {
		for base, ceiling := range p.MaxMultiples {
			if countMultiples(c.Main, base) > ceiling {
				return false
			}
		}
		return true
	})
	add(CheckCluster, func(c Candidate) bool {
		for i, count := range clusterCounts(c.Main, p.ClusterIntervals) {
			if count < p.ClusterBounds[i].Min || count > p.ClusterBounds[i].Max {
				return false
			}
		}
		return true
	})
	if p.Rules.SpecialCount > 1 {
		add(CheckSpecialGap, func(c Candidate) bool {
			return maxConsecutiveGap(c.Special) <= p.MaxSpecialGap
		})
	}
	if p.Derived {
		minScore := p.AvgPatternScore.Mul(decimal.NewFromFloat(cfg.PatternMinRatio))
		add(CheckPatternProbability, func(c Candidate) bool {
			return p.PatternScore(c.positions()).Cmp(minScore) >= 0
		})
	}

	return ch
}

// Evaluate runs the checks in order and short-circuits on the first failure.
func (ch *Chain) Evaluate(c Candidate) Result {
	for _, chk := range ch.checks {
		if !chk.fn(c) {
			return Result{Reason: chk.name}
		}
	}
	return pass
}

// Names lists the enabled checks in evaluation order.
func (ch *Chain) Names() []string {
	names := make([]string, len(ch.checks))
	for i, chk := range ch.checks {
		names[i] = chk.name
	}
	return names
}

// ---- per-check arithmetic, shared with the profile builder ----

func oddCount(nums []int) int {
	count := 0
	for _, n := range nums {
		if n%2 == 1 {
			count++
		}
	}
	return count
}

// maxConsecutiveGap returns the largest difference between adjacent values
// of a sorted slice. Zero for fewer than two values.
func maxConsecutiveGap(sorted []int) int {
	max := 0
	for i := 1; i < len(sorted); i++ {
		if gap := sorted[i] - sorted[i-1]; gap > max {
			max = gap
		}
	}
	return max
}

// consecutiveGaps returns every adjacent difference of a sorted slice.
func consecutiveGaps(sorted []int) []int {
	if len(sorted) < 2 {
		return nil
	}
	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i]-sorted[i-1])
	}
	return gaps
}

// maxRun returns the length of the longest run of consecutive values in a
// sorted slice.
func maxRun(sorted []int) int {
	if len(sorted) == 0 {
		return 0
	}
	longest, current := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1]+1 {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

func countMultiples(nums []int, base int) int {
	count := 0
	for _, n := range nums {
		if n%base == 0 {
			count++
		}
	}
	return count
}

func clusterCounts(nums []int, intervals []Interval) []int {
	counts := make([]int, len(intervals))
	for _, n := range nums {
		for i, iv := range intervals {
			if n >= iv.Start && n <= iv.End {
				counts[i]++
				break
			}
		}
	}
	return counts
}
