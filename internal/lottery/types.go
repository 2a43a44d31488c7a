package lottery

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Rules describes a lottery game: how many numbers are drawn from which
// range. Games with a secondary pool (EuroMillions lucky stars) set the
// Special fields; SpecialCount == 0 means a single-pool game.
type Rules struct {
	MainCount int `yaml:"main_count" json:"mainCount"`
	MainMin   int `yaml:"main_min"   json:"mainMin"`
	MainMax   int `yaml:"main_max"   json:"mainMax"`

	SpecialCount int `yaml:"special_count" json:"specialCount"`
	SpecialMin   int `yaml:"special_min"   json:"specialMin"`
	SpecialMax   int `yaml:"special_max"   json:"specialMax"`
}

func (r Rules) MainRangeSize() int {
	return r.MainMax - r.MainMin + 1
}

func (r Rules) SpecialRangeSize() int {
	return r.SpecialMax - r.SpecialMin + 1
}

// Positions is the number of sorted positions a full draw occupies:
// main numbers first, then specials.
func (r Rules) Positions() int {
	return r.MainCount + r.SpecialCount
}

func (r Rules) Validate() error {
	if r.MainCount <= 0 {
		return fmt.Errorf("rules: main_count must be > 0")
	}
	if r.MainMin > r.MainMax {
		return fmt.Errorf("rules: main_min %d > main_max %d", r.MainMin, r.MainMax)
	}
	if r.MainCount > r.MainRangeSize() {
		return fmt.Errorf("rules: main_count %d exceeds range size %d", r.MainCount, r.MainRangeSize())
	}
	if r.SpecialCount < 0 {
		return fmt.Errorf("rules: special_count must be >= 0")
	}
	if r.SpecialCount > 0 {
		if r.SpecialMin > r.SpecialMax {
			return fmt.Errorf("rules: special_min %d > special_max %d", r.SpecialMin, r.SpecialMax)
		}
		if r.SpecialCount > r.SpecialRangeSize() {
			return fmt.Errorf("rules: special_count %d exceeds range size %d", r.SpecialCount, r.SpecialRangeSize())
		}
	}
	return nil
}

// Draw is one combination: distinct main numbers plus optional distinct
// special numbers, both kept sorted ascending. Historical draws are never
// mutated after ingestion.
type Draw struct {
	Main    []int `json:"main"`
	Special []int `json:"special,omitempty"`
}

// NewDraw copies and sorts its inputs so the caller's slices stay untouched.
func NewDraw(main, special []int) Draw {
	d := Draw{Main: slices.Clone(main)}
	slices.Sort(d.Main)
	if len(special) > 0 {
		d.Special = slices.Clone(special)
		slices.Sort(d.Special)
	}
	return d
}

// Key is a canonical representation used for set-equality lookups,
// e.g. "03-17-22-41-50|02-09".
func (d Draw) Key() string {
	var b strings.Builder
	for i, n := range d.Main {
		if i > 0 {
			b.WriteByte('-')
		}
		fmt.Fprintf(&b, "%02d", n)
	}
	if len(d.Special) > 0 {
		b.WriteByte('|')
		for i, n := range d.Special {
			if i > 0 {
				b.WriteByte('-')
			}
			fmt.Fprintf(&b, "%02d", n)
		}
	}
	return b.String()
}

// Positions returns the draw's numbers in sorted-position order,
// main numbers first, then specials.
func (d Draw) Positions() []int {
	out := make([]int, 0, len(d.Main)+len(d.Special))
	out = append(out, d.Main...)
	out = append(out, d.Special...)
	return out
}

func (d Draw) Sum() int {
	total := 0
	for _, n := range d.Main {
		total += n
	}
	return total
}

func (d Draw) String() string {
	return d.Key()
}

// Pick is an accepted combination as returned to the caller: the draw, the
// positional-frequency score it achieved and how many attempts it took.
type Pick struct {
	Draw
	Score     decimal.Decimal `json:"score"`
	Attempts  int             `json:"attempts"`
	Timestamp int64           `json:"timestamp"`
}

func (p Pick) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}

func (p *Pick) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, p)
}

func (p Pick) String() string {
	return fmt.Sprintf("{Numbers: %s, Score: %s%%, Attempts: %d}", p.Draw, p.Score.StringFixed(2), p.Attempts)
}
