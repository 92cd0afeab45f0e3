package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RaceResult is the root object of the extraction output document.
type RaceResult struct {
	SourceURL string        `json:"source_url"`
	RaceID    string        `json:"race_id"`
	Race      RaceBasicInfo `json:"race"`
	RaceInfo  RaceInfo      `json:"race_info"`
	Horses    []Horse       `json:"horses"`
	Poplar    []any         `json:"poplar"`
}

// NewRaceResult returns an empty result with non-nil slices and maps so the
// JSON shape is stable regardless of how much extraction recovered.
func NewRaceResult(sourceURL, raceID string) *RaceResult {
	return &RaceResult{
		SourceURL: sourceURL,
		RaceID:    raceID,
		RaceInfo:  NewRaceInfo(),
		Horses:    []Horse{},
		Poplar:    []any{},
	}
}

// ToJSON renders the result as indented JSON without escaping multibyte
// characters, matching the document the evaluator consumes.
func (r *RaceResult) ToJSON(indent int) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return buf.String(), nil
}
