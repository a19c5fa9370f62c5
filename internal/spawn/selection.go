package spawn

// Selector picks the prototype index for the next spawn.
type Selector struct {
	inOrder bool
	cursor  int
	rng     Rand
}

// NewSelector creates selector. inOrder selects round-robin, otherwise uniform random.
func NewSelector(inOrder bool, rng Rand) *Selector {
	return &Selector{inOrder: inOrder, rng: rng}
}

// Next returns index in [0, n). n must be positive.
// Round-robin returns the cursor and then advances it, wrapping at n.
func (s *Selector) Next(n int) int {
	if !s.inOrder {
		return s.rng.IntN(n)
	}

	if s.cursor >= n {
		s.cursor = 0
	}
	idx := s.cursor
	s.cursor++
	if s.cursor >= n {
		s.cursor = 0
	}
	return idx
}

// Cursor returns the next round-robin index
func (s *Selector) Cursor() int {
	return s.cursor
}
