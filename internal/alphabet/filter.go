package alphabet

// FilterFunc returns true when a symbol should be kept.
type FilterFunc func(rune) bool

var ambiguous = map[rune]struct{}{
	'0': {}, 'O': {}, 'o': {},
	'1': {}, 'l': {}, 'I': {},
}

// Filter keeps the symbols accepted by keep.
func Filter(symbols []rune, keep FilterFunc) []rune {
	out := make([]rune, 0, len(symbols))
	for _, r := range symbols {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// WithoutAmbiguous drops glyphs that are easily mistaken for one another.
func WithoutAmbiguous(symbols []rune) []rune {
	return Filter(symbols, func(r rune) bool {
		_, ok := ambiguous[r]
		return !ok
	})
}
