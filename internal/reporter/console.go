// Package reporter renders evaluation results to the console and to JSON
// files. Table columns are padded by display width so multibyte names line
// up with ASCII headings.
package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/width"

	"github.com/yourusername/value-hunter/internal/models"
)

// Per-grade table marks.
var gradeMarks = map[string]string{
	models.GradeS: "★",
	models.GradeA: "◎",
	models.GradeB: "○",
	models.GradeC: "△",
}

// Console renders evaluation reports to a writer.
type Console struct {
	w io.Writer
}

// NewConsole creates a console reporter.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// PrintResults renders the full report: header, evaluation table, score
// breakdown, and the value-pick summary.
func (c *Console) PrintResults(race *models.RaceBasicInfo, result *models.EvaluationResult) {
	c.printHeader(race)
	c.printTable(result.Evaluations)
	c.printBreakdown(result.Evaluations)
	c.printSummary(result.Evaluations)
}

func (c *Console) printHeader(race *models.RaceBasicInfo) {
	distance := ""
	if race.Distance != nil {
		distance = fmt.Sprintf("%d", *race.Distance)
	}
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, strings.Repeat("=", 78))
	fmt.Fprintln(c.w, "  Value Hunter — バリュー分析結果")
	fmt.Fprintf(c.w, "  レース: %s  %s %s\n",
		race.RaceName, orEmpty(race.Venue), orEmpty(race.RaceDate))
	fmt.Fprintf(c.w, "  %s%sm  馬場:%s  天候:%s\n",
		orEmpty(race.CourseType), distance, orEmpty(race.TrackCondition), orEmpty(race.Weather))
	fmt.Fprintln(c.w, strings.Repeat("=", 78))
	fmt.Fprintln(c.w)
}

// printTable renders the evaluation table in output order (grade, then gap,
// then total score).
func (c *Console) printTable(evals []models.HorseEvaluation) {
	fmt.Fprintf(c.w, "%3s  %s  %s  %6s  %4s  %5s  %4s  %4s  %4s\n",
		"番", pad("馬名", 18), pad("騎手", 8), "ｵｯｽﾞ", "人気", "ｽｺｱ", "能力", "Gap", "評価")
	fmt.Fprintln(c.w, strings.Repeat("-", 78))

	for _, ev := range evals {
		oddsText := "---.-"
		if ev.Odds != nil {
			oddsText = fmt.Sprintf("%.1f", *ev.Odds)
		}
		popText := "-"
		if ev.Popularity != nil {
			popText = fmt.Sprintf("%d", *ev.Popularity)
		}
		gapText := fmt.Sprintf("%d", ev.Gap)
		if ev.Gap > 0 {
			gapText = fmt.Sprintf("+%d", ev.Gap)
		}
		fmt.Fprintf(c.w, "%3d  %s  %s  %6s  %4s  %5.1f  %4d  %4s  %s%s\n",
			ev.Number, pad(ev.HorseName, 18), pad(ev.Jockey, 8),
			oddsText, popText, ev.TotalScore, ev.AbilityRank, gapText,
			gradeMarks[ev.Evaluation], ev.Evaluation)
	}
	fmt.Fprintln(c.w)
}

// printBreakdown renders the per-score detail, ordered by ability rank.
func (c *Console) printBreakdown(evals []models.HorseEvaluation) {
	fmt.Fprintln(c.w, "--- スコア内訳 ---")
	fmt.Fprintf(c.w, "%3s  %s  %5s  %5s  %5s  %5s  %5s  %4s\n",
		"番", pad("馬名", 18), "Form", "3F", "穴力", "適性", "合計", "走数")
	fmt.Fprintln(c.w, strings.Repeat("-", 72))

	byRank := make([]models.HorseEvaluation, len(evals))
	copy(byRank, evals)
	sort.SliceStable(byRank, func(a, b int) bool {
		return byRank[a].AbilityRank < byRank[b].AbilityRank
	})

	for _, ev := range byRank {
		fmt.Fprintf(c.w, "%3d  %s  %5.1f  %5.1f  %5.1f  %5.1f  %5.1f  %4d\n",
			ev.Number, pad(ev.HorseName, 18),
			ev.FormScore, ev.Last3FScore, ev.UpsetScore, ev.VenueScore,
			ev.TotalScore, ev.PastRaceCount)
	}
	fmt.Fprintln(c.w)
}

// printSummary lists the S- and A-graded value picks.
func (c *Console) printSummary(evals []models.HorseEvaluation) {
	fmt.Fprintln(c.w, strings.Repeat("=", 78))
	fmt.Fprintln(c.w, "  バリュー注目馬")
	fmt.Fprintln(c.w, strings.Repeat("=", 78))

	found := false
	for _, ev := range evals {
		if ev.Evaluation != models.GradeS && ev.Evaluation != models.GradeA {
			continue
		}
		found = true
		oddsText := "---"
		if ev.Odds != nil {
			oddsText = fmt.Sprintf("%.1f", *ev.Odds)
		}
		popText := "-"
		if ev.Popularity != nil {
			popText = fmt.Sprintf("%d", *ev.Popularity)
		}
		fmt.Fprintf(c.w, "  %s %s評価  %d番 %s  (オッズ %s / 人気 %s番人気 → 能力 %d位, Gap +%d)\n",
			gradeMarks[ev.Evaluation], ev.Evaluation, ev.Number, ev.HorseName,
			oddsText, popText, ev.AbilityRank, ev.Gap)
	}
	if !found {
		fmt.Fprintln(c.w, "  明確なバリュー馬は検出されませんでした。")
	}
	fmt.Fprintln(c.w)
}

// displayWidth counts full-width runes as two columns.
func displayWidth(text string) int {
	w := 0
	for _, r := range text {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianFullwidth, width.EastAsianWide, width.EastAsianAmbiguous:
			w += 2
		default:
			w++
		}
	}
	return w
}

// pad right-pads text to the given display width.
func pad(text string, target int) string {
	diff := target - displayWidth(text)
	if diff <= 0 {
		return text
	}
	return text + strings.Repeat(" ", diff)
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
