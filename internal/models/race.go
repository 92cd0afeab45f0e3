package models

// RaceBasicInfo holds the header fields of a race card. RaceName and
// RaceInfoText default to "" when the name box is missing from the page;
// every other field is optional and stays nil when its pattern did not match.
type RaceBasicInfo struct {
	RaceName       string  `json:"race_name"`
	RaceInfoText   string  `json:"race_info_text"`
	PostTime       *string `json:"post_time"`
	CourseType     *string `json:"course_type"`
	Distance       *int    `json:"distance"`
	TrackCondition *string `json:"track_condition"`
	Weather        *string `json:"weather"`
	RaceDate       *string `json:"race_date"`
	Venue          *string `json:"venue"`
}

// VenueName returns the venue or "" when unknown.
func (r *RaceBasicInfo) VenueName() string {
	if r.Venue == nil {
		return ""
	}
	return *r.Venue
}

// RaceInfo is the reserved prediction block of the output document.
// Both maps are emitted as empty objects until those feeds exist.
type RaceInfo struct {
	LapPrediction map[string]any `json:"lap_prediction"`
	Development   map[string]any `json:"development"`
}

// NewRaceInfo returns a RaceInfo with empty (non-nil) maps so the JSON
// output carries {} rather than null.
func NewRaceInfo() RaceInfo {
	return RaceInfo{
		LapPrediction: map[string]any{},
		Development:   map[string]any{},
	}
}
