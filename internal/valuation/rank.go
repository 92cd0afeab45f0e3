package valuation

import (
	"sort"

	"github.com/yourusername/value-hunter/internal/models"
)

// assignRanks returns the ability rank for each evaluation, in input order.
// Candidates are ranked by total score descending; the sort is stable, so
// ties keep their extraction order (betting number ascending) and every rank
// 1..N is assigned exactly once. The input is not mutated.
func assignRanks(evals []models.HorseEvaluation) []int {
	order := make([]int, len(evals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return evals[order[a]].TotalScore > evals[order[b]].TotalScore
	})

	ranks := make([]int, len(evals))
	for rank, idx := range order {
		ranks[idx] = rank + 1
	}
	return ranks
}

// fieldAverage is the arithmetic mean of the total scores; 0 for an empty
// field.
func fieldAverage(evals []models.HorseEvaluation) float64 {
	if len(evals) == 0 {
		return 0
	}
	sum := 0.0
	for _, ev := range evals {
		sum += ev.TotalScore
	}
	return sum / float64(len(evals))
}

// grade applies the first matching grade rule. A positive gap means the
// market ranks the horse worse than its computed ability.
func (e *Evaluator) grade(gap int, total, average float64) string {
	cfg := e.cfg
	switch {
	case gap >= cfg.GapS && total >= average:
		return models.GradeS
	case gap >= cfg.GapA && total >= average*cfg.AverageRatioA:
		return models.GradeA
	case gap >= cfg.GapB:
		return models.GradeB
	default:
		return models.GradeC
	}
}

// sortEvaluations orders the output list by grade (S first), then gap
// descending, then total score descending.
func sortEvaluations(evals []models.HorseEvaluation) {
	sort.SliceStable(evals, func(a, b int) bool {
		ga, gb := models.GradeOrder(evals[a].Evaluation), models.GradeOrder(evals[b].Evaluation)
		if ga != gb {
			return ga < gb
		}
		if evals[a].Gap != evals[b].Gap {
			return evals[a].Gap > evals[b].Gap
		}
		return evals[a].TotalScore > evals[b].TotalScore
	})
}
