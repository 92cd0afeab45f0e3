package models

// OddsEntry is the per-horse payload of the win-odds API, keyed by the
// zero-padded betting number. Either field may be absent independently when
// the upstream text failed to parse.
type OddsEntry struct {
	Odds       *float64 `json:"odds"`
	Popularity *int     `json:"popularity"`
}

// WinOdds maps zero-padded betting-number strings ("01"...) to odds entries.
// A nil map means odds were not yet published for the race.
type WinOdds map[string]OddsEntry
