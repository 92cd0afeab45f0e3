package models

import "strconv"

// PastRace is one historical start for a horse, indexed by recency.
// run=1 is the most recent start; a horse carries at most five of these.
// All fields other than Run are optional and stay nil when the race card
// does not supply them.
type PastRace struct {
	Run        int     `json:"run"`
	Date       *string `json:"date"`
	Venue      *string `json:"venue"`
	Position   *int    `json:"position"`
	Time       *string `json:"time"`
	Last3F     *string `json:"last_3f"`
	Popularity *int    `json:"popularity"`
}

// Last3FSeconds parses the last-3-furlong split into seconds.
// Returns 0, false when the value is absent or not a positive number.
func (p *PastRace) Last3FSeconds() (float64, bool) {
	if p.Last3F == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(*p.Last3F, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// HasMarketResult reports whether both the historical popularity and the
// finish position are known positive values, i.e. the start can be used
// for market-expectation comparisons.
func (p *PastRace) HasMarketResult() bool {
	return p.Popularity != nil && *p.Popularity > 0 && p.Position != nil && *p.Position > 0
}
