package elo

// Option configures a Ladder.
type Option func(*Ladder)

// WithBaseRating sets the rating every team starts from.
func WithBaseRating(r float64) Option {
	return func(l *Ladder) {
		l.base = r
	}
}

// WithKFactor sets the maximum rating change of a single pairing.
func WithKFactor(k float64) Option {
	return func(l *Ladder) {
		if k > 0 {
			l.k = k
		}
	}
}

// WithDivisor sets the logistic spread: a rating lead of this many points
// means ten-to-one expected odds.
func WithDivisor(d float64) Option {
	return func(l *Ladder) {
		if d > 0 {
			l.divisor = d
		}
	}
}
