package models

import "fmt"

// Horse is one entrant on a race card. Number is the betting number and is
// unique within one race card; HorseID is the 10-digit netkeiba identifier
// (empty when the link carried none). Odds and Popularity are the current
// win-market values merged in from the odds API and stay nil until then.
type Horse struct {
	Number     int        `json:"number"`
	HorseID    string     `json:"horse_id"`
	HorseName  string     `json:"horse_name"`
	Jockey     *string    `json:"jockey"`
	Weight     *float64   `json:"weight"`
	Odds       *float64   `json:"odds"`
	Popularity *int       `json:"popularity"`
	PastRaces  []PastRace `json:"past_races"`
}

// OddsKey returns the zero-padded number string the odds API keys entries by.
func (h *Horse) OddsKey() string {
	return fmt.Sprintf("%02d", h.Number)
}

// JockeyName returns the jockey name or "" when unknown.
func (h *Horse) JockeyName() string {
	if h.Jockey == nil {
		return ""
	}
	return *h.Jockey
}
