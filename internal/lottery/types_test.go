package lottery

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDrawSortsAndCopies(t *testing.T) {
	main := []int{41, 3, 50, 17, 22}
	special := []int{9, 2}

	d := NewDraw(main, special)
	assert.Equal(t, []int{3, 17, 22, 41, 50}, d.Main)
	assert.Equal(t, []int{2, 9}, d.Special)

	// Caller's slices stay untouched.
	assert.Equal(t, []int{41, 3, 50, 17, 22}, main)
	assert.Equal(t, []int{9, 2}, special)
}

func TestDrawKey(t *testing.T) {
	d := NewDraw([]int{3, 17, 22, 41, 50}, []int{2, 9})
	assert.Equal(t, "03-17-22-41-50|02-09", d.Key())

	single := NewDraw([]int{1, 2, 3}, nil)
	assert.Equal(t, "01-02-03", single.Key())

	// Key is order-insensitive because NewDraw sorts.
	assert.Equal(t, d.Key(), NewDraw([]int{50, 41, 22, 17, 3}, []int{9, 2}).Key())
}

func TestDrawPositionsAndSum(t *testing.T) {
	d := NewDraw([]int{5, 11, 23, 29, 44}, []int{1, 12})
	assert.Equal(t, []int{5, 11, 23, 29, 44, 1, 12}, d.Positions())
	assert.Equal(t, 112, d.Sum())
}

func TestRulesValidate(t *testing.T) {
	valid := Rules{MainCount: 5, MainMin: 1, MainMax: 50, SpecialCount: 2, SpecialMin: 1, SpecialMax: 12}
	assert.NoError(t, valid.Validate())

	cases := map[string]Rules{
		"zero count":           {MainCount: 0, MainMin: 1, MainMax: 50},
		"inverted range":       {MainCount: 5, MainMin: 50, MainMax: 1},
		"count exceeds range":  {MainCount: 10, MainMin: 1, MainMax: 5},
		"negative specials":    {MainCount: 5, MainMin: 1, MainMax: 50, SpecialCount: -1},
		"special over range":   {MainCount: 5, MainMin: 1, MainMax: 50, SpecialCount: 3, SpecialMin: 1, SpecialMax: 2},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, r.Validate())
		})
	}
}

func TestHistoryContains(t *testing.T) {
	h := NewHistory([]Draw{
		NewDraw([]int{3, 17, 22, 41, 50}, []int{2, 9}),
		NewDraw([]int{5, 11, 23, 29, 44}, []int{1, 12}),
	})

	assert.Equal(t, 2, h.Len())
	assert.True(t, h.Contains(NewDraw([]int{50, 41, 22, 17, 3}, []int{9, 2})))
	assert.False(t, h.Contains(NewDraw([]int{3, 17, 22, 41, 50}, []int{2, 10})))
	assert.False(t, h.Contains(NewDraw([]int{1, 2, 3, 4, 5}, []int{1, 2})))
}

func TestPickRoundTrip(t *testing.T) {
	p := Pick{
		Draw:      NewDraw([]int{3, 17, 22, 41, 50}, []int{2, 9}),
		Score:     decimal.RequireFromString("12.34"),
		Attempts:  127,
		Timestamp: 1718928000,
	}

	data, err := p.MarshalBinary()
	require.NoError(t, err)

	var got Pick
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, p.Draw, got.Draw)
	assert.True(t, p.Score.Equal(got.Score))
	assert.Equal(t, p.Attempts, got.Attempts)
}
