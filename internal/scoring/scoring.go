// Package scoring maps guess distances to points.
//
// A round's score has two parts: a continuous base that decays
// exponentially with distance, and a flat bonus for guesses inside a fixed
// radius of the true location. The decay shape is tunable through Policy;
// the defaults reproduce the live game's behavior.
package scoring

import "math"

// Policy holds the scoring knobs. All fields are plain configuration so
// deployments can retune the curve without code changes.
type Policy struct {
	// MaxScore is the base score for a perfect guess.
	MaxScore int
	// ScaleMeters is the e-folding distance: the base score drops to ~37%
	// of MaxScore at this distance.
	ScaleMeters float64
	// MaxDistanceMeters caps the curve: at or beyond it the base is 0.
	// Defaults to half the Earth's circumference, the largest possible
	// great-circle distance.
	MaxDistanceMeters float64
	// BonusPoints is awarded in full when the guess lands within
	// BonusRadiusMeters of the true location, otherwise not at all.
	BonusPoints       int
	BonusRadiusMeters float64
}

// DefaultPolicy matches the production tuning: max 5000 points, scale
// 4,000 km (0 km → 5000, 1,000 km → ~3894, 5,000 km → ~1433,
// 10,000 km → ~410), flat 500-point bonus inside 25 km.
func DefaultPolicy() Policy {
	return Policy{
		MaxScore:          5000,
		ScaleMeters:       4_000_000,
		MaxDistanceMeters: 20_015_000,
		BonusPoints:       500,
		BonusRadiusMeters: 25_000,
	}
}

// Score returns the base score and bonus for a guess distanceMeters away
// from the true location. Pure function; both results are in
// [0, MaxScore] and {0, BonusPoints} respectively.
func (p Policy) Score(distanceMeters float64) (base, bonus int) {
	if distanceMeters < 0 {
		distanceMeters = 0
	}

	if distanceMeters < p.MaxDistanceMeters {
		base = int(math.Round(float64(p.MaxScore) * math.Exp(-distanceMeters/p.ScaleMeters)))
		if base > p.MaxScore {
			base = p.MaxScore
		}
		if base < 0 {
			base = 0
		}
	}

	if distanceMeters <= p.BonusRadiusMeters {
		bonus = p.BonusPoints
	}
	return base, bonus
}
