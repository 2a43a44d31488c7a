package generator

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/drawlab/lottogen/internal/lottery"
)

// ReasonHistoricalDuplicate tags candidates skipped because the exact
// combination has already been drawn. The lookup is a cheap key check and
// runs before any statistical filter.
const ReasonHistoricalDuplicate = "HistoricalDuplicate"

// AttemptRecord is one debug-trace entry. Reason is empty for the accepted
// attempt.
type AttemptRecord struct {
	Attempt int
	Numbers lottery.Draw
	Reason  string
}

// Outcome is the terminal state of one generation run: Accepted with a
// pick, or exhausted with the diagnostic tally. There are no partial
// results.
type Outcome struct {
	Accepted   bool
	Pick       lottery.Pick
	Attempts   int
	Rejections map[string]int

	// Trace holds every attempt when Debug was set; nil otherwise.
	Trace []AttemptRecord
}

// Engine drives repeated sampling against the filter chain. Each run owns
// its attempt counter and rng, so independent runs may proceed in parallel
// over the same profile and history.
type Engine struct {
	history *lottery.History
	profile *Profile
	cfg     Config
	sampler *Sampler
	chain   *Chain
}

// NewEngine validates the configuration eagerly; nothing fails mid-loop.
func NewEngine(h *lottery.History, p *Profile, cfg Config, rng *rand.Rand) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		history: h,
		profile: p,
		cfg:     cfg,
		sampler: NewSampler(rng),
		chain:   NewChain(p, cfg),
	}, nil
}

// Generate loops sample → duplicate check → filter chain until a candidate
// clears everything or the attempt budget runs out. Context cancellation
// bounds worst-case latency; a cancelled run reports as exhausted with the
// attempts made so far.
func (e *Engine) Generate(ctx context.Context) Outcome {
	rules := e.cfg.Rules
	out := Outcome{Rejections: make(map[string]int)}

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			break
		}
		out.Attempts = attempt

		candidate, err := e.sampleCandidate(rules)
		if err != nil {
			// Unreachable after Validate; bail out rather than spin.
			out.Rejections[err.Error()]++
			break
		}

		if e.history.Contains(candidate.Draw()) {
			e.record(&out, attempt, candidate, ReasonHistoricalDuplicate)
			continue
		}

		res := e.chain.Evaluate(candidate)
		if !res.Pass {
			e.record(&out, attempt, candidate, res.Reason)
			continue
		}

		draw := candidate.Draw()
		out.Accepted = true
		out.Pick = lottery.Pick{
			Draw:      draw,
			Score:     e.profile.PatternScore(draw.Positions()),
			Attempts:  attempt,
			Timestamp: time.Now().Unix(),
		}
		e.record(&out, attempt, candidate, "")
		return out
	}
	return out
}

func (e *Engine) sampleCandidate(rules lottery.Rules) (Candidate, error) {
	main, err := e.sampler.Sample(rules.MainMin, rules.MainMax, rules.MainCount)
	if err != nil {
		return Candidate{}, err
	}
	var special []int
	if rules.SpecialCount > 0 {
		special, err = e.sampler.Sample(rules.SpecialMin, rules.SpecialMax, rules.SpecialCount)
		if err != nil {
			return Candidate{}, err
		}
	}
	return Candidate{Main: main, Special: special}, nil
}

func (e *Engine) record(out *Outcome, attempt int, c Candidate, reason string) {
	if reason != "" {
		out.Rejections[reason]++
	}
	if e.cfg.Debug {
		out.Trace = append(out.Trace, AttemptRecord{
			Attempt: attempt,
			Numbers: c.Draw(),
			Reason:  reason,
		})
	}
}
