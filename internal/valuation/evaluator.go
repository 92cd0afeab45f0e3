package valuation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-hunter/internal/metrics"
	"github.com/yourusername/value-hunter/internal/models"
)

// Evaluator computes scores, ability ranks, gaps, and grades for a whole
// field. One invocation is independent of any other; the evaluator holds
// only its scoring policy.
type Evaluator struct {
	cfg    ScoringConfig
	calc   *Calculator
	logger *logrus.Logger
}

// NewEvaluator creates an evaluator with the given scoring policy.
func NewEvaluator(cfg ScoringConfig, logger *logrus.Logger) *Evaluator {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Evaluator{
		cfg:    cfg,
		calc:   NewCalculator(cfg),
		logger: logger,
	}
}

// LoadInput reads and decodes an extraction document. Malformed JSON and
// the fatal preconditions (missing required keys, empty field) surface as
// errors; everything else degrades to absent fields downstream.
func LoadInput(path string) (*models.EvaluationInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	input := &models.EvaluationInput{}
	if err := json.Unmarshal(data, input); err != nil {
		return nil, fmt.Errorf("failed to decode input file %s: %w", path, err)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return input, nil
}

// Evaluate scores every horse, ranks the field, and grades each entrant.
// The input is read-only; the result is built fresh.
func (e *Evaluator) Evaluate(input *models.EvaluationInput) (*models.EvaluationResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	horses := *input.Horses
	race := input.Race
	currentVenue := race.VenueName()

	evals := make([]models.HorseEvaluation, len(horses))
	for i, horse := range horses {
		form := e.calc.FormScore(horse.PastRaces)
		last3f := e.calc.Last3FScore(horse.PastRaces)
		upset := e.calc.UpsetScore(horse.PastRaces)
		venue := e.calc.VenueScore(horse.PastRaces, currentVenue)
		total := e.calc.TotalScore(form, last3f, upset, venue)

		evals[i] = models.HorseEvaluation{
			Number:        horse.Number,
			HorseName:     horse.HorseName,
			Jockey:        horse.JockeyName(),
			Odds:          horse.Odds,
			Popularity:    horse.Popularity,
			FormScore:     round1(form),
			Last3FScore:   round1(last3f),
			UpsetScore:    round1(upset),
			VenueScore:    round1(venue),
			TotalScore:    round1(total),
			PastRaceCount: len(horse.PastRaces),
		}
	}

	ranks := assignRanks(evals)
	average := fieldAverage(evals)

	for i := range evals {
		evals[i].AbilityRank = ranks[i]
		gap := 0
		if pop := evals[i].Popularity; pop != nil && *pop > 0 {
			gap = *pop - evals[i].AbilityRank
		}
		evals[i].Gap = gap
		evals[i].Evaluation = e.grade(gap, evals[i].TotalScore, average)
	}

	sortEvaluations(evals)

	result := &models.EvaluationResult{
		RaceID:            *input.RaceID,
		RaceName:          race.RaceName,
		Venue:             currentVenue,
		CourseType:        stringOrEmpty(race.CourseType),
		RaceDate:          stringOrEmpty(race.RaceDate),
		Distance:          race.Distance,
		FieldAverageScore: round1(average),
		Evaluations:       evals,
	}

	metrics.EvaluationsTotal.Inc()
	e.logger.WithFields(logrus.Fields{
		"race_id":    result.RaceID,
		"field_size": len(evals),
		"average":    result.FieldAverageScore,
	}).Debug("field evaluated")

	return result, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
