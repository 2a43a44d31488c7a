package lottery

// History is an insertion-ordered, read-only sequence of past draws with an
// index for exact-duplicate lookups. It does not deduplicate on ingestion;
// whatever the source reports is what the statistics see.
type History struct {
	draws []Draw
	keys  map[string]struct{}
}

func NewHistory(draws []Draw) *History {
	h := &History{
		draws: draws,
		keys:  make(map[string]struct{}, len(draws)),
	}
	for _, d := range draws {
		h.keys[d.Key()] = struct{}{}
	}
	return h
}

func (h *History) Len() int {
	return len(h.draws)
}

func (h *History) At(i int) Draw {
	return h.draws[i]
}

// Draws returns the underlying sequence. Callers must treat it as read-only.
func (h *History) Draws() []Draw {
	return h.draws
}

// Contains reports whether the exact combination has already been drawn.
func (h *History) Contains(d Draw) bool {
	_, ok := h.keys[d.Key()]
	return ok
}
