package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yourusername/value-hunter/internal/models"
	"github.com/yourusername/value-hunter/internal/textnorm"
)

// Patterns over the past-start cell sub-blocks.
var (
	// Data05: elapsed time, e.g. "1:46.0"
	elapsedTimePattern = regexp.MustCompile(`(\d:\d{2}\.\d)`)
	// Data03: market rank at that start, e.g. "5人"
	pastPopularityPattern = regexp.MustCompile(`(\d+)人`)
	// Data06: last-3F split in parentheses, e.g. "(32.7)"
	last3FPattern = regexp.MustCompile(`\((\d{2}\.\d)\)`)
)

// ParseHorses extracts every entrant with up to five past starts from the
// race-card roster table, sorted ascending by betting number. A page without
// the roster yields an empty list. Duplicate betting numbers are kept as-is;
// resolving them is not this layer's call.
func ParseHorses(doc *goquery.Document) []models.Horse {
	table := doc.Find("table#sort_table.Shutuba_Past5_Table").First()
	if table.Length() == 0 {
		// id-less variant of the same table
		table = doc.Find("table.Shutuba_Past5_Table").First()
	}
	if table.Length() == 0 {
		return []models.Horse{}
	}

	horses := []models.Horse{}
	table.Find("tr.HorseList").Each(func(_ int, row *goquery.Selection) {
		if horse, ok := parseHorseRow(row); ok {
			horses = append(horses, horse)
		}
	})

	sort.SliceStable(horses, func(i, j int) bool {
		return horses[i].Number < horses[j].Number
	})
	return horses
}

// parseHorseRow converts one roster row into a Horse. The row is dropped
// when the betting-number cell is missing or unparseable, or when the horse
// name is empty; every other field is optional.
func parseHorseRow(row *goquery.Selection) (models.Horse, bool) {
	// The betting-number cell carries exactly the class "Waku"; the
	// similar-looking post-position cells (Waku1..Waku8) must not match.
	numberCell := row.Find("td.Waku").First()
	if numberCell.Length() == 0 {
		return models.Horse{}, false
	}
	number, err := strconv.Atoi(textnorm.Normalize(numberCell.Text()))
	if err != nil || number < 0 {
		return models.Horse{}, false
	}

	name, horseID := parseNameLink(row)
	if name == "" {
		return models.Horse{}, false
	}

	horse := models.Horse{
		Number:    number,
		HorseID:   horseID,
		HorseName: name,
		PastRaces: []models.PastRace{},
	}

	parseJockeyCell(row, &horse)

	row.Find("td.Past").Each(func(_ int, cell *goquery.Selection) {
		if past, ok := parsePastCell(cell, len(horse.PastRaces)+1); ok {
			horse.PastRaces = append(horse.PastRaces, past)
		}
	})

	return horse, true
}

// parseNameLink pulls the horse name and 10-digit identifier out of the
// name container. A missing identifier leaves the id empty without dropping
// the row.
func parseNameLink(row *goquery.Selection) (name, horseID string) {
	link := row.Find("td.Horse_Info div.Horse02 a").First()
	if link.Length() == 0 {
		return "", ""
	}
	name = textnorm.Normalize(link.Text())
	horseID = textnorm.HorseID(link.AttrOr("href", ""))
	return name, horseID
}

// parseJockeyCell fills the jockey name and carried weight. The weight is
// the first jockey-cell span that is not an age/sex label (Barei) and whose
// whole text parses as a float.
func parseJockeyCell(row *goquery.Selection, horse *models.Horse) {
	cell := row.Find("td.Jockey").First()
	if cell.Length() == 0 {
		return
	}

	if link := cell.Find("a").First(); link.Length() > 0 {
		jockey := textnorm.Normalize(link.Text())
		horse.Jockey = &jockey
	}

	cell.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if span.HasClass("Barei") {
			return true
		}
		weight, err := strconv.ParseFloat(textnorm.Normalize(span.Text()), 64)
		if err != nil {
			return true
		}
		horse.Weight = &weight
		return false
	})
}

// parsePastCell converts one past-start cell into a PastRace. Cells without
// the inner data container are skipped entirely; run indexes are assigned
// contiguously over the cells that survive, so runs are always 1..k with no
// gaps.
func parsePastCell(cell *goquery.Selection, run int) (models.PastRace, bool) {
	item := cell.Find("div.Data_Item").First()
	if item.Length() == 0 {
		return models.PastRace{}, false
	}

	past := models.PastRace{Run: run}

	if data01 := item.Find("div.Data01").First(); data01.Length() > 0 {
		parseDateVenue(data01, &past)
		if numText := textnorm.Normalize(data01.Find("span.Num").First().Text()); numText != "" {
			if position, err := strconv.Atoi(numText); err == nil {
				past.Position = &position
			}
		}
	}

	if text := textnorm.Normalize(item.Find("div.Data05").First().Text()); text != "" {
		if m := elapsedTimePattern.FindStringSubmatch(text); m != nil {
			past.Time = &m[1]
		}
	}

	if text := textnorm.Normalize(item.Find("div.Data03").First().Text()); text != "" {
		if m := pastPopularityPattern.FindStringSubmatch(text); m != nil {
			if popularity, err := strconv.Atoi(m[1]); err == nil {
				past.Popularity = &popularity
			}
		}
	}

	if text := textnorm.Normalize(item.Find("div.Data06").First().Text()); text != "" {
		if m := last3FPattern.FindStringSubmatch(text); m != nil {
			past.Last3F = &m[1]
		}
	}

	return past, true
}

// parseDateVenue splits the first non-numeric span of the Data01 block
// ("2025.11.24 東京") into date and venue tokens.
func parseDateVenue(data01 *goquery.Selection, past *models.PastRace) {
	var raw string
	data01.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if cls, _ := span.Attr("class"); strings.Contains(cls, "Num") {
			return true
		}
		raw = textnorm.Normalize(span.Text())
		return false
	})

	parts := strings.Fields(raw)
	if len(parts) >= 1 {
		past.Date = &parts[0]
	}
	if len(parts) >= 2 {
		past.Venue = &parts[1]
	}
}
