package review

import "time"

// AnalysisID identifier type, assigned by the store on insert
type AnalysisID int64

// Analysis is one persisted code review. Immutable once saved.
type Analysis struct {
	ID          AnalysisID `json:"id"`
	Code        string     `json:"code"`
	Language    string     `json:"language"`
	Explanation string     `json:"explanation"`
	Suggestions []string   `json:"suggestions"`
	Bugs        []string   `json:"bugs"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Normalize makes sure list fields are empty slices, not nil,
// so they always encode as [] on the wire.
func (a *Analysis) Normalize() {
	if a.Suggestions == nil {
		a.Suggestions = []string{}
	}
	if a.Bugs == nil {
		a.Bugs = []string{}
	}
}
