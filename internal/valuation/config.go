// Package valuation turns extracted race data into comparable value scores,
// an ability ranking, and S/A/B/C grades for every entrant.
package valuation

// ScoringConfig carries every table and threshold the scoring formula uses,
// so the weighting policy is swappable without touching algorithm code.
type ScoringConfig struct {
	// PositionPoints maps a finish position to points; positions beyond the
	// table fall back to max(5, 110 - 10*position).
	PositionPoints map[int]float64
	// RecencyWeights maps the run index (1 = most recent) to a weight;
	// DefaultRecencyWeight covers runs outside the table.
	RecencyWeights       map[int]float64
	DefaultRecencyWeight float64

	// Blend weights of the four sub-scores; they sum to 1.
	FormWeight   float64
	Last3FWeight float64
	UpsetWeight  float64
	VenueWeight  float64

	// Last-3F scale endpoints in seconds: Best maps to 100, Worst to 0.
	Last3FBest  float64
	Last3FWorst float64

	// UpsetFullMarkDiff is the average popularity-minus-position surplus
	// that earns the full 100.
	UpsetFullMarkDiff float64

	// VenueExperiencePoints is the per-start fallback when the horse has no
	// starts at the current venue; VenueRepeatBonus is the per-matching-start
	// bonus when it does.
	VenueExperiencePoints float64
	VenueRepeatBonus      float64

	// Grade thresholds: gap >= GapS with total >= average earns S, gap >=
	// GapA with total >= AverageRatioA*average earns A, gap >= GapB earns B.
	GapS          int
	GapA          int
	GapB          int
	AverageRatioA float64
}

// DefaultScoringConfig returns the production scoring policy.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		PositionPoints: map[int]float64{
			1: 100, 2: 90, 3: 80, 4: 65, 5: 55,
			6: 45, 7: 35, 8: 25, 9: 15, 10: 10,
		},
		RecencyWeights: map[int]float64{
			1: 1.0, 2: 0.8, 3: 0.6, 4: 0.4, 5: 0.2,
		},
		DefaultRecencyWeight: 0.2,

		FormWeight:   0.30,
		Last3FWeight: 0.30,
		UpsetWeight:  0.20,
		VenueWeight:  0.20,

		Last3FBest:  33.0,
		Last3FWorst: 42.0,

		UpsetFullMarkDiff: 3.0,

		VenueExperiencePoints: 12.0,
		VenueRepeatBonus:      5.0,

		GapS:          4,
		GapA:          2,
		GapB:          0,
		AverageRatioA: 0.8,
	}
}
