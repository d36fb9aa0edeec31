package brackets

// Format is the per-tournament match format. It is fixed once the bracket is
// built. Only odd best-of values are accepted: an even best-of makes the win
// threshold reachable by both sides at once.
type Format struct {
	bestOf int
}

func NewFormat(bestOf int) (Format, error) {
	if bestOf < 1 || bestOf%2 == 0 {
		return Format{}, ErrInvalidFormat
	}
	return Format{bestOf: bestOf}, nil
}

func (f Format) BestOf() int {
	return f.bestOf
}

// WinsNeeded is the number of game wins that decides a match.
func (f Format) WinsNeeded() int {
	return f.bestOf/2 + 1
}
