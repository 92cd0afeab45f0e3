package valuation

import (
	"math"

	"github.com/yourusername/value-hunter/internal/models"
)

// Calculator computes the four per-horse sub-scores. All methods are pure
// and return values in [0,100].
type Calculator struct {
	cfg ScoringConfig
}

// NewCalculator creates a calculator with the given scoring policy.
func NewCalculator(cfg ScoringConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// positionPoints converts a finish position to points. Unknown or
// non-positive positions contribute 0.
func (c *Calculator) positionPoints(position *int) float64 {
	if position == nil || *position <= 0 {
		return 0
	}
	if pts, ok := c.cfg.PositionPoints[*position]; ok {
		return pts
	}
	return math.Max(5, 110-float64(*position)*10)
}

func (c *Calculator) recencyWeight(run int) float64 {
	if w, ok := c.cfg.RecencyWeights[run]; ok {
		return w
	}
	return c.cfg.DefaultRecencyWeight
}

// FormScore is the recency-weighted average of position points over the
// past starts. 0 with no past starts.
func (c *Calculator) FormScore(pastRaces []models.PastRace) float64 {
	if len(pastRaces) == 0 {
		return 0
	}
	weightedSum := 0.0
	weightTotal := 0.0
	for _, pr := range pastRaces {
		w := c.recencyWeight(pr.Run)
		weightedSum += c.positionPoints(pr.Position) * w
		weightTotal += w
	}
	if weightTotal == 0 {
		return 0
	}
	return weightedSum / weightTotal
}

// Last3FScore maps the recency-weighted average final-furlong split onto a
// linear scale where Last3FBest seconds is 100 and Last3FWorst is 0. Starts
// without a positive split are excluded from both sides of the average; 0
// when no start has one.
func (c *Calculator) Last3FScore(pastRaces []models.PastRace) float64 {
	weightedSum := 0.0
	weightTotal := 0.0
	for _, pr := range pastRaces {
		seconds, ok := pr.Last3FSeconds()
		if !ok {
			continue
		}
		w := c.recencyWeight(pr.Run)
		weightedSum += seconds * w
		weightTotal += w
	}
	if weightTotal == 0 {
		return 0
	}
	avg := weightedSum / weightTotal
	score := (c.cfg.Last3FWorst - avg) / (c.cfg.Last3FWorst - c.cfg.Last3FBest) * 100
	return clampScore(score)
}

// UpsetScore measures overperformance against market expectation. Every
// start with both a popularity rank and a finish position counts toward the
// average; underperforming starts contribute 0 but still dampen it. An
// average surplus of UpsetFullMarkDiff earns the full 100.
func (c *Calculator) UpsetScore(pastRaces []models.PastRace) float64 {
	totalBonus := 0.0
	count := 0
	for _, pr := range pastRaces {
		if !pr.HasMarketResult() {
			continue
		}
		diff := float64(*pr.Popularity - *pr.Position)
		totalBonus += math.Max(0, diff)
		count++
	}
	if count == 0 {
		return 0
	}
	avgBonus := totalBonus / float64(count)
	return math.Min(100, avgBonus/c.cfg.UpsetFullMarkDiff*100)
}

// VenueScore rewards a record at the race's venue: the average position
// points over matching starts plus a repeat bonus per matching start. With
// no matching starts the horse earns experience points per past start
// instead. 0 when the venue is unknown or there are no past starts.
func (c *Calculator) VenueScore(pastRaces []models.PastRace, currentVenue string) float64 {
	if len(pastRaces) == 0 || currentVenue == "" {
		return 0
	}
	ptsSum := 0.0
	matches := 0
	for _, pr := range pastRaces {
		if pr.Venue == nil || *pr.Venue != currentVenue {
			continue
		}
		ptsSum += c.positionPoints(pr.Position)
		matches++
	}
	if matches == 0 {
		return math.Min(100, float64(len(pastRaces))*c.cfg.VenueExperiencePoints)
	}
	avgPts := ptsSum / float64(matches)
	return math.Min(100, avgPts+float64(matches)*c.cfg.VenueRepeatBonus)
}

// TotalScore blends the four sub-scores with the configured weights.
func (c *Calculator) TotalScore(form, last3f, upset, venue float64) float64 {
	return form*c.cfg.FormWeight +
		last3f*c.cfg.Last3FWeight +
		upset*c.cfg.UpsetWeight +
		venue*c.cfg.VenueWeight
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// round1 rounds to one decimal place. Scores are reported and ranked at
// this precision so the ranking always matches the printed table.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
