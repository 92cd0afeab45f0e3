// Package parser extracts race and entrant data out of a parsed netkeiba
// race-card document. Extraction degrades, never fails: any selector or
// pattern that does not match yields an absent field.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/yourusername/value-hunter/internal/models"
	"github.com/yourusername/value-hunter/internal/textnorm"
)

// fieldRule is one named extraction rule over a normalized text block.
// Rules are independent of each other and order-independent; a rule that
// does not match yields nil.
type fieldRule struct {
	name    string
	pattern *regexp.Regexp
	group   int
}

func (r fieldRule) apply(text string) *string {
	m := r.pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := m[r.group]
	return &v
}

// Rules over the RaceData01 block ("15:40発走 / 芝2400m (左) / 天候:晴 / 馬場:良").
var (
	postTimeRule       = fieldRule{name: "post_time", pattern: regexp.MustCompile(`(\d{1,2}:\d{2})`), group: 1}
	distanceRule       = fieldRule{name: "distance", pattern: regexp.MustCompile(`(\d{3,4})m`), group: 1}
	trackConditionRule = fieldRule{name: "track_condition", pattern: regexp.MustCompile(`馬場:(\S+)`), group: 1}
	weatherRule        = fieldRule{name: "weather", pattern: regexp.MustCompile(`天候:(\S+)`), group: 1}
)

var raceDatePattern = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)

// Grade icon classes inside the race-name heading, checked in tier order.
// The first labelled span in document order decides the grade.
var gradeIconClasses = []struct {
	class string
	grade string
}{
	{"Icon_GradeType1", "G1"},
	{"Icon_GradeType2", "G2"},
	{"Icon_GradeType3", "G3"},
}

// ParseRaceInfo extracts the race header out of a race-card document.
// A page without the name box yields an all-default RaceBasicInfo; this is
// not an error condition.
func ParseRaceInfo(doc *goquery.Document) models.RaceBasicInfo {
	nameBox := doc.Find("div.RaceList_NameBox").First()
	if nameBox.Length() == 0 {
		return models.RaceBasicInfo{}
	}

	data01Text := textnorm.Normalize(nameBox.Find("div.RaceData01").First().Text())
	data02Spans := raceData02Spans(nameBox)
	data02Text := strings.Join(data02Spans, " ")

	infoText := data01Text
	if data02Text != "" {
		infoText = data01Text + " / " + data02Text
	}

	info := models.RaceBasicInfo{
		RaceName:       extractRaceName(nameBox),
		RaceInfoText:   infoText,
		PostTime:       postTimeRule.apply(data01Text),
		CourseType:     courseTypeKeyword(data01Text),
		TrackCondition: trackConditionRule.apply(data01Text),
		Weather:        weatherRule.apply(data01Text),
		RaceDate:       extractRaceDate(doc),
		Venue:          extractVenue(data02Spans),
	}
	if d := distanceRule.apply(data01Text); d != nil {
		if meters, err := strconv.Atoi(*d); err == nil {
			info.Distance = &meters
		}
	}
	return info
}

// extractRaceName takes the heading's direct text content only, excluding
// nested icon spans, and appends the grade suffix when an icon is present.
func extractRaceName(nameBox *goquery.Selection) string {
	heading := nameBox.Find("h1.RaceName").First()
	if heading.Length() == 0 {
		return ""
	}
	name := textnorm.Normalize(directText(heading))
	if grade := detectGrade(heading); grade != "" {
		name = fmt.Sprintf("%s (%s)", name, grade)
	}
	return name
}

// directText returns the first direct text node of the selection's element,
// skipping child elements entirely.
func directText(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			return c.Data
		}
	}
	return ""
}

// detectGrade scans labelled spans inside the heading for a grade icon
// class. Document order wins when several spans carry labels.
func detectGrade(heading *goquery.Selection) string {
	grade := ""
	heading.Find("span[class]").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		for _, icon := range gradeIconClasses {
			if span.HasClass(icon.class) {
				grade = icon.grade
				return false
			}
		}
		return true
	})
	return grade
}

// courseTypeKeyword picks the racing surface out of the data block.
// Turf (芝) takes precedence over dirt (ダ) when both appear.
func courseTypeKeyword(text string) *string {
	for _, surface := range []string{"芝", "ダ"} {
		if strings.Contains(text, surface) {
			s := surface
			return &s
		}
	}
	return nil
}

// raceData02Spans returns the normalized text of each span in the second
// data block. Token 0 is the round/day label and token 1 the venue; this
// positional contract is fixed by the page layout.
func raceData02Spans(nameBox *goquery.Selection) []string {
	var spans []string
	nameBox.Find("div.RaceData02 span").Each(func(_ int, span *goquery.Selection) {
		spans = append(spans, textnorm.Normalize(span.Text()))
	})
	return spans
}

func extractVenue(data02Spans []string) *string {
	if len(data02Spans) < 2 {
		return nil
	}
	venue := data02Spans[1]
	return &venue
}

// extractRaceDate derives the race date from the document title
// ("...2026年8月30日...") normalized to YYYY/MM/DD.
func extractRaceDate(doc *goquery.Document) *string {
	title := doc.Find("title").First().Text()
	m := raceDatePattern.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	date := fmt.Sprintf("%s/%02d/%02d", m[1], month, day)
	return &date
}
