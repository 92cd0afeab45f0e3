package models

// Evaluation grades, best first.
const (
	GradeS = "S"
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
)

// GradeOrder returns the sort position of a grade (S before A before B
// before C); unknown grades sort last.
func GradeOrder(grade string) int {
	switch grade {
	case GradeS:
		return 0
	case GradeA:
		return 1
	case GradeB:
		return 2
	case GradeC:
		return 3
	default:
		return 9
	}
}

// HorseEvaluation is the per-horse valuation output. Scores are reported to
// one decimal place; AbilityRank values across a field are a permutation of
// 1..N; Gap is 0 whenever the current popularity is unknown.
type HorseEvaluation struct {
	Number        int      `json:"number"`
	HorseName     string   `json:"horse_name"`
	Jockey        string   `json:"jockey"`
	Odds          *float64 `json:"odds"`
	Popularity    *int     `json:"popularity"`
	FormScore     float64  `json:"form_score"`
	Last3FScore   float64  `json:"last3f_score"`
	UpsetScore    float64  `json:"upset_score"`
	VenueScore    float64  `json:"venue_score"`
	TotalScore    float64  `json:"total_score"`
	AbilityRank   int      `json:"ability_rank"`
	Gap           int      `json:"gap"`
	Evaluation    string   `json:"evaluation"`
	PastRaceCount int      `json:"past_race_count"`
}

// EvaluationResult is the root object of the valuation output document.
// Evaluations are sorted by grade, then gap descending, then total score
// descending.
type EvaluationResult struct {
	RaceID            string            `json:"race_id"`
	RaceName          string            `json:"race_name"`
	Venue             string            `json:"venue"`
	RaceDate          string            `json:"race_date"`
	CourseType        string            `json:"course_type"`
	Distance          *int              `json:"distance"`
	FieldAverageScore float64           `json:"field_average_score"`
	Evaluations       []HorseEvaluation `json:"evaluations"`
}

// EvaluationInput is the extraction document as consumed by the evaluator.
// The three required keys are pointers so that their absence in the JSON is
// distinguishable from zero values and can be rejected as fatal.
type EvaluationInput struct {
	RaceID *string        `json:"race_id"`
	Race   *RaceBasicInfo `json:"race"`
	Horses *[]Horse       `json:"horses"`
}

// Validate enforces the evaluator's fatal preconditions: the required
// top-level keys must be present and the field must not be empty. Optional
// sub-fields inside horses and race degrade silently downstream.
func (in *EvaluationInput) Validate() error {
	switch {
	case in.RaceID == nil:
		return NewMissingKeyError("race_id")
	case in.Race == nil:
		return NewMissingKeyError("race")
	case in.Horses == nil:
		return NewMissingKeyError("horses")
	case len(*in.Horses) == 0:
		return ErrNoHorses
	}
	return nil
}
