package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Verdict is the service's classification of a take
type Verdict string

const (
	VerdictTrash Verdict = "trash"
	VerdictValid Verdict = "valid"
	VerdictMid   Verdict = "mid"
)

// Verdicts lists every verdict the service may return
var Verdicts = []Verdict{VerdictTrash, VerdictValid, VerdictMid}

// IsValid reports whether v is one of the three known verdicts
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictTrash, VerdictValid, VerdictMid:
		return true
	}
	return false
}

// ParseVerdict converts a raw value into a Verdict, rejecting anything outside the closed set
func ParseVerdict(raw string) (Verdict, error) {
	v := Verdict(raw)
	if !v.IsValid() {
		return "", &ContractError{Field: "verdict", Reason: fmt.Sprintf("unknown value %q", raw)}
	}
	return v, nil
}

// UnmarshalJSON rejects unknown verdicts instead of coercing them
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ContractError{Field: "verdict", Reason: "not a string"}
	}
	parsed, err := ParseVerdict(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// VerdictRecord is the analysis result for one take
type VerdictRecord struct {
	Verdict    Verdict  `json:"verdict"`
	Confidence float64  `json:"confidence"` // 0..1
	Roast      string   `json:"roast"`      // short rebuttal, usually <= 280 chars
	Reasoning  string   `json:"reasoning"`
	StatsUsed  []string `json:"stats_used"` // display order
	TakeID     int64    `json:"take_id"`
	ChartURL   string   `json:"chart_url,omitempty"` // absolute, or relative to the API origin
}

// HasChart reports whether the service attached a chart
func (r VerdictRecord) HasChart() bool {
	return r.ChartURL != ""
}

// TakeDetail is a single persisted take as returned by the permalink endpoint
type TakeDetail struct {
	ID         int64     `json:"id"`
	TakeText   string    `json:"take_text"`
	Verdict    Verdict   `json:"verdict"`
	Confidence float64   `json:"confidence"`
	Roast      string    `json:"roast"`
	Reasoning  string    `json:"reasoning"`
	StatsUsed  []string  `json:"stats_used"`
	ChartURL   string    `json:"chart_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Record converts the detail into the record shape the presenters consume
func (d TakeDetail) Record() VerdictRecord {
	return VerdictRecord{
		Verdict:    d.Verdict,
		Confidence: d.Confidence,
		Roast:      d.Roast,
		Reasoning:  d.Reasoning,
		StatsUsed:  d.StatsUsed,
		TakeID:     d.ID,
		ChartURL:   d.ChartURL,
	}
}

// Entry pairs the stored take text with its record
func (d TakeDetail) Entry() HistoryEntry {
	return HistoryEntry{Take: d.TakeText, Record: d.Record()}
}

// TakeSummary is one row of the recent-takes listing
type TakeSummary struct {
	ID         int64     `json:"id"`
	TakeText   string    `json:"take_text"`
	Verdict    Verdict   `json:"verdict"`
	Confidence float64   `json:"confidence"`
	Roast      string    `json:"roast"`
	Reasoning  string    `json:"reasoning"`
	StatsUsed  []string  `json:"stats_used"`
	CreatedAt  time.Time `json:"created_at"`
}

// Health is the liveness probe response
type Health struct {
	Status string `json:"status"`
}

// HistoryEntry pairs a submitted take with the verdict it received.
// Entries are never modified after they are appended to a session.
type HistoryEntry struct {
	Take   string        `json:"take"`
	Record VerdictRecord `json:"record"`
}

// Key returns the list-rendering key for the entry at position i.
// take_id is expected to be unique, the position guards against a duplicate id.
func (e HistoryEntry) Key(position int) string {
	return fmt.Sprintf("%d-%d", e.Record.TakeID, position)
}

// TrimTake normalizes user input; an empty result means nothing to submit
func TrimTake(text string) string {
	return strings.TrimSpace(text)
}
