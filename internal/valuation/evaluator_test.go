package valuation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-hunter/internal/models"
)

func TestAssignRanks(t *testing.T) {
	evals := []models.HorseEvaluation{
		{Number: 1, TotalScore: 80},
		{Number: 2, TotalScore: 60},
		{Number: 3, TotalScore: 60},
	}
	ranks := assignRanks(evals)

	// ties keep input order and every rank is assigned exactly once
	assert.Equal(t, []int{1, 2, 3}, ranks)
}

func TestAssignRanksPermutation(t *testing.T) {
	evals := []models.HorseEvaluation{
		{Number: 1, TotalScore: 12.5},
		{Number: 2, TotalScore: 90.1},
		{Number: 3, TotalScore: 45.0},
		{Number: 4, TotalScore: 45.0},
		{Number: 5, TotalScore: 0},
	}
	ranks := assignRanks(evals)

	assert.Equal(t, []int{4, 1, 2, 3, 5}, ranks)

	seen := map[int]bool{}
	for _, r := range ranks {
		assert.False(t, seen[r])
		seen[r] = true
		assert.GreaterOrEqual(t, r, 1)
		assert.LessOrEqual(t, r, len(evals))
	}
}

func TestGrade(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig(), nil)

	tests := []struct {
		name    string
		gap     int
		total   float64
		average float64
		want    string
	}{
		{"big gap above average", 4, 60, 50, models.GradeS},
		{"big gap below average", 4, 45, 50, models.GradeA},
		{"moderate gap above threshold", 2, 41, 50, models.GradeA},
		{"moderate gap below threshold", 2, 39, 50, models.GradeB},
		{"zero gap", 0, 10, 50, models.GradeB},
		{"negative gap", -1, 90, 50, models.GradeC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.grade(tt.gap, tt.total, tt.average))
		})
	}
}

func evaluationFixture() *models.EvaluationInput {
	raceID := "202605050812"
	tokyo := "東京"
	race := &models.RaceBasicInfo{
		RaceName: "ジャパンカップ (G1)",
		Venue:    &tokyo,
	}
	horses := []models.Horse{
		{Number: 1, HorseName: "ゼロセキ"},
		{
			Number:     2,
			HorseName:  "パーフェクト",
			Popularity: intPtr(5),
			PastRaces: []models.PastRace{
				{
					Run:        1,
					Position:   intPtr(1),
					Venue:      &tokyo,
					Last3F:     strPtr("33.0"),
					Popularity: intPtr(5),
				},
			},
		},
		{
			Number:     3,
			HorseName:  "シンガリ",
			Popularity: intPtr(3),
			PastRaces: []models.PastRace{
				{
					Run:        1,
					Position:   intPtr(10),
					Venue:      strPtr("京都"),
					Last3F:     strPtr("42.0"),
					Popularity: intPtr(1),
				},
			},
		},
	}
	return &models.EvaluationInput{
		RaceID: &raceID,
		Race:   race,
		Horses: &horses,
	}
}

func TestEvaluateRerunIsByteIdentical(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig(), nil)
	input := evaluationFixture()

	first, err := e.Evaluate(input)
	require.NoError(t, err)
	second, err := e.Evaluate(input)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestEvaluate(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig(), nil)

	result, err := e.Evaluate(evaluationFixture())
	require.NoError(t, err)

	assert.Equal(t, "202605050812", result.RaceID)
	assert.Equal(t, "ジャパンカップ (G1)", result.RaceName)
	assert.Equal(t, "東京", result.Venue)
	require.Len(t, result.Evaluations, 3)

	byNumber := map[int]models.HorseEvaluation{}
	for _, ev := range result.Evaluations {
		byNumber[ev.Number] = ev
	}

	// horse 2: every sub-score maxes out
	perfect := byNumber[2]
	assert.Equal(t, 100.0, perfect.FormScore)
	assert.Equal(t, 100.0, perfect.Last3FScore)
	assert.Equal(t, 100.0, perfect.UpsetScore)
	assert.Equal(t, 100.0, perfect.VenueScore)
	assert.Equal(t, 100.0, perfect.TotalScore)
	assert.Equal(t, 1, perfect.AbilityRank)
	assert.Equal(t, 4, perfect.Gap)
	assert.Equal(t, models.GradeS, perfect.Evaluation)

	// horse 3: form 10, last3f 0, upset 0, venue experience 12
	tail := byNumber[3]
	assert.Equal(t, 10.0, tail.FormScore)
	assert.Equal(t, 0.0, tail.Last3FScore)
	assert.Equal(t, 0.0, tail.UpsetScore)
	assert.Equal(t, 12.0, tail.VenueScore)
	assert.Equal(t, 5.4, tail.TotalScore)
	assert.Equal(t, 2, tail.AbilityRank)
	assert.Equal(t, 1, tail.Gap)
	assert.Equal(t, models.GradeB, tail.Evaluation)

	// horse 1: no past races, unknown popularity
	blank := byNumber[1]
	assert.Equal(t, 0.0, blank.TotalScore)
	assert.Equal(t, 3, blank.AbilityRank)
	assert.Equal(t, 0, blank.Gap)
	assert.Equal(t, models.GradeB, blank.Evaluation)
	assert.Equal(t, 0, blank.PastRaceCount)

	assert.InDelta(t, 35.1, result.FieldAverageScore, 0.0001)

	// output ordered by grade, then gap descending
	assert.Equal(t, 2, result.Evaluations[0].Number)
	assert.Equal(t, 3, result.Evaluations[1].Number)
	assert.Equal(t, 1, result.Evaluations[2].Number)
}

func TestEvaluateScoreBounds(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig(), nil)

	result, err := e.Evaluate(evaluationFixture())
	require.NoError(t, err)

	for _, ev := range result.Evaluations {
		for _, score := range []float64{ev.FormScore, ev.Last3FScore, ev.UpsetScore, ev.VenueScore, ev.TotalScore} {
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		}
	}
}

func TestEvaluateInputDoesNotMutate(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig(), nil)
	input := evaluationFixture()

	_, err := e.Evaluate(input)
	require.NoError(t, err)

	horses := *input.Horses
	assert.Equal(t, 1, horses[0].Number)
	assert.Equal(t, 2, horses[1].Number)
	assert.Equal(t, 3, horses[2].Number)
}

func TestEvaluateFatalPreconditions(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig(), nil)

	t.Run("missing race_id", func(t *testing.T) {
		input := evaluationFixture()
		input.RaceID = nil
		_, err := e.Evaluate(input)
		assert.ErrorIs(t, err, models.ErrMissingRequiredKey)
	})

	t.Run("missing race", func(t *testing.T) {
		input := evaluationFixture()
		input.Race = nil
		_, err := e.Evaluate(input)
		assert.ErrorIs(t, err, models.ErrMissingRequiredKey)
	})

	t.Run("missing horses", func(t *testing.T) {
		input := evaluationFixture()
		input.Horses = nil
		_, err := e.Evaluate(input)
		assert.ErrorIs(t, err, models.ErrMissingRequiredKey)
	})

	t.Run("empty horses", func(t *testing.T) {
		input := evaluationFixture()
		empty := []models.Horse{}
		input.Horses = &empty
		_, err := e.Evaluate(input)
		assert.ErrorIs(t, err, models.ErrNoHorses)
	})
}

func TestLoadInput(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid document", func(t *testing.T) {
		path := filepath.Join(dir, "race.json")
		doc := `{
		  "race_id": "202605050812",
		  "race": {"race_name": "テスト", "race_info_text": "", "venue": "東京"},
		  "horses": [{"number": 1, "horse_id": "", "horse_name": "テストウマ", "past_races": []}]
		}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		input, err := LoadInput(path)
		require.NoError(t, err)
		assert.Equal(t, "202605050812", *input.RaceID)
		assert.Len(t, *input.Horses, 1)
	})

	t.Run("missing horses key", func(t *testing.T) {
		path := filepath.Join(dir, "no_horses.json")
		doc := `{"race_id": "202605050812", "race": {"race_name": "", "race_info_text": ""}}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		_, err := LoadInput(path)
		assert.ErrorIs(t, err, models.ErrMissingRequiredKey)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := LoadInput(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadInput(filepath.Join(dir, "absent.json"))
		assert.Error(t, err)
	})
}

func TestSortEvaluations(t *testing.T) {
	evals := []models.HorseEvaluation{
		{Number: 1, Evaluation: models.GradeC, Gap: -2, TotalScore: 90},
		{Number: 2, Evaluation: models.GradeB, Gap: 0, TotalScore: 10},
		{Number: 3, Evaluation: models.GradeS, Gap: 4, TotalScore: 70},
		{Number: 4, Evaluation: models.GradeB, Gap: 1, TotalScore: 20},
		{Number: 5, Evaluation: models.GradeB, Gap: 1, TotalScore: 50},
	}
	sortEvaluations(evals)

	order := make([]int, len(evals))
	for i, ev := range evals {
		order[i] = ev.Number
	}
	assert.Equal(t, []int{3, 5, 4, 2, 1}, order)
}
