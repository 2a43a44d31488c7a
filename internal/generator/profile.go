package generator

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/drawlab/lottogen/internal/lottery"
)

var hundred = decimal.NewFromInt(100)

// CountRange is an inclusive acceptable count window.
type CountRange struct {
	Min int
	Max int
}

// Profile holds the acceptance thresholds derived from a history snapshot.
// It is built once per generation session and is read-only afterwards;
// refreshing it means rebuilding from the history, never patching in place.
type Profile struct {
	Rules      lottery.Rules
	TotalDraws int

	// Derived is false when the history was too small and permissive
	// fallbacks are in effect.
	Derived bool

	// OddCountDist maps count-of-odd-main-numbers to draws observed.
	// OddCountsAllowed is the observed set itself: history as ground
	// truth, not a smoothed range.
	OddCountDist     map[int]int
	OddCountsAllowed map[int]bool

	SumLow  int
	SumHigh int

	MaxGap        int
	MaxSpecialGap int

	// MaxMultiples maps base to the highest tolerated count of multiples
	// of that base within one draw.
	MaxMultiples map[int]int

	ClusterIntervals []Interval
	ClusterBounds    []CountRange

	// Positional[i] maps a number to how often it appeared at sorted
	// position i (main positions first, then specials).
	Positional []map[int]int

	// AvgPatternScore is the mean per-draw positional-frequency score over
	// the whole history; BestPatternScore the highest achievable one.
	AvgPatternScore  decimal.Decimal
	BestPatternScore decimal.Decimal
}

// BuildProfile computes the profile for the given history. Pure: same
// history and config always produce identical values.
func BuildProfile(h *lottery.History, cfg Config) (*Profile, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Profile{
		Rules:            cfg.Rules,
		TotalDraws:       h.Len(),
		ClusterIntervals: cfg.ClusterIntervals,
		MaxMultiples:     make(map[int]int, len(cfg.MultiplesBases)),
		OddCountDist:     make(map[int]int),
		OddCountsAllowed: make(map[int]bool),
	}

	if h.Len() == 0 || h.Len() < cfg.MinHistory {
		p.fallback(cfg)
		return p, nil
	}
	p.Derived = true

	rules := cfg.Rules
	sums := make([]int, 0, h.Len())
	var mainGaps, specialGaps []int
	multiplesCounts := make(map[int][]int, len(cfg.MultiplesBases))
	clusterBounds := make([]CountRange, len(cfg.ClusterIntervals))
	for i := range clusterBounds {
		clusterBounds[i] = CountRange{Min: math.MaxInt, Max: 0}
	}
	positional := make([]map[int]int, rules.Positions())
	for i := range positional {
		positional[i] = make(map[int]int)
	}

	for _, d := range h.Draws() {
		p.OddCountDist[oddCount(d.Main)]++
		sums = append(sums, d.Sum())
		mainGaps = append(mainGaps, consecutiveGaps(d.Main)...)
		specialGaps = append(specialGaps, consecutiveGaps(d.Special)...)

		for _, base := range cfg.MultiplesBases {
			multiplesCounts[base] = append(multiplesCounts[base], countMultiples(d.Main, base))
		}

		for i, count := range clusterCounts(d.Main, cfg.ClusterIntervals) {
			if count < clusterBounds[i].Min {
				clusterBounds[i].Min = count
			}
			if count > clusterBounds[i].Max {
				clusterBounds[i].Max = count
			}
		}

		for i, n := range d.Positions() {
			if i < len(positional) {
				positional[i][n]++
			}
		}
	}

	for odd := range p.OddCountDist {
		p.OddCountsAllowed[odd] = true
	}

	p.SumLow = int(percentile(sums, cfg.PercentileLow))
	p.SumHigh = int(percentile(sums, cfg.PercentileHigh))

	if len(mainGaps) > 0 {
		p.MaxGap = int(percentile(mainGaps, cfg.GapPercentile))
	} else {
		p.MaxGap = rules.MainMax - rules.MainMin
	}
	if len(specialGaps) > 0 {
		p.MaxSpecialGap = int(percentile(specialGaps, cfg.GapPercentile))
	} else if rules.SpecialCount > 0 {
		p.MaxSpecialGap = rules.SpecialMax - rules.SpecialMin
	}

	for _, base := range cfg.MultiplesBases {
		p.MaxMultiples[base] = int(percentile(multiplesCounts[base], cfg.MultiplesPercentile))
	}

	p.ClusterBounds = clusterBounds
	p.Positional = positional
	p.AvgPatternScore, p.BestPatternScore = p.patternBaselines(h)
	return p, nil
}

// fallback makes every threshold permissive so the chain stays satisfiable
// with little or no history.
func (p *Profile) fallback(cfg Config) {
	rules := cfg.Rules
	for odd := 0; odd <= rules.MainCount; odd++ {
		p.OddCountsAllowed[odd] = true
	}
	p.SumLow = sumOfRange(rules.MainMin, rules.MainCount)
	p.SumHigh = sumOfRangeDesc(rules.MainMax, rules.MainCount)
	p.MaxGap = rules.MainMax - rules.MainMin
	if rules.SpecialCount > 0 {
		p.MaxSpecialGap = rules.SpecialMax - rules.SpecialMin
	}
	for _, base := range cfg.MultiplesBases {
		p.MaxMultiples[base] = rules.MainCount
	}
	p.ClusterBounds = make([]CountRange, len(cfg.ClusterIntervals))
	for i := range p.ClusterBounds {
		p.ClusterBounds[i] = CountRange{Min: 0, Max: rules.MainCount}
	}
}

// PatternScore is the candidate's mean positional frequency as a percentage.
// Zero when the profile carries no positional table.
func (p *Profile) PatternScore(positions []int) decimal.Decimal {
	if len(p.Positional) == 0 || p.TotalDraws == 0 || len(positions) == 0 {
		return decimal.Zero
	}
	total := decimal.NewFromInt(int64(p.TotalDraws))
	sum := decimal.Zero
	for i, n := range positions {
		if i >= len(p.Positional) {
			break
		}
		count := int64(p.Positional[i][n])
		sum = sum.Add(decimal.NewFromInt(count).Mul(hundred).Div(total))
	}
	return sum.Div(decimal.NewFromInt(int64(len(positions))))
}

func (p *Profile) patternBaselines(h *lottery.History) (avg, best decimal.Decimal) {
	perDraw := decimal.Zero
	for _, d := range h.Draws() {
		perDraw = perDraw.Add(p.PatternScore(d.Positions()))
	}
	avg = perDraw.Div(decimal.NewFromInt(int64(h.Len())))

	// Best achievable: the modal number at every position.
	top := make([]int, len(p.Positional))
	for i, counts := range p.Positional {
		mode := 0
		modeCount := -1
		for n, count := range counts {
			if count > modeCount || (count == modeCount && n < mode) {
				mode, modeCount = n, count
			}
		}
		top[i] = mode
	}
	best = p.PatternScore(top)
	return avg, best
}

// percentile computes the q-quantile (q in [0,1]) with linear interpolation
// between closest ranks.
func percentile(values []int, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return float64(sorted[lower])
	}
	frac := pos - float64(lower)
	return float64(sorted[lower]) + frac*float64(sorted[upper]-sorted[lower])
}

// sumOfRange is min + (min+1) + ... for count terms.
func sumOfRange(min, count int) int {
	total := 0
	for i := 0; i < count; i++ {
		total += min + i
	}
	return total
}

// sumOfRangeDesc is max + (max-1) + ... for count terms.
func sumOfRangeDesc(max, count int) int {
	total := 0
	for i := 0; i < count; i++ {
		total += max - i
	}
	return total
}
