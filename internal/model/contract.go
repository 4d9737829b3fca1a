package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrContractViolation marks a response that parsed but does not match the expected shape
var ErrContractViolation = errors.New("contract violation")

// ContractError describes which field of a service response broke the contract
type ContractError struct {
	Field  string
	Reason string
}

func (e *ContractError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("contract violation: %s", e.Reason)
	}
	return fmt.Sprintf("contract violation: %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is match any ContractError against ErrContractViolation
func (e *ContractError) Is(target error) bool {
	return target == ErrContractViolation
}

// wire shapes use pointers so missing required fields can be told apart from zero values
type verdictWire struct {
	Verdict    *Verdict `json:"verdict"`
	Confidence *float64 `json:"confidence"`
	Roast      *string  `json:"roast"`
	Reasoning  string   `json:"reasoning"`
	StatsUsed  []string `json:"stats_used"`
	TakeID     *int64   `json:"take_id"`
	ID         *int64   `json:"id"`
	TakeText   *string  `json:"take_text"`
	ChartURL   *string  `json:"chart_url"`
	CreatedAt  *string  `json:"created_at"`
}

func decodeWire(data []byte, w *verdictWire) error {
	if err := json.Unmarshal(data, w); err != nil {
		var cerr *ContractError
		if errors.As(err, &cerr) {
			return cerr
		}
		return &ContractError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return nil
}

func (w *verdictWire) checkCommon() error {
	if w.Verdict == nil {
		return &ContractError{Field: "verdict", Reason: "missing"}
	}
	if w.Confidence == nil {
		return &ContractError{Field: "confidence", Reason: "missing"}
	}
	if *w.Confidence < 0 || *w.Confidence > 1 {
		return &ContractError{Field: "confidence", Reason: fmt.Sprintf("%v outside [0,1]", *w.Confidence)}
	}
	if w.Roast == nil {
		return &ContractError{Field: "roast", Reason: "missing"}
	}
	return nil
}

func (w *verdictWire) stats() []string {
	if w.StatsUsed == nil {
		return []string{}
	}
	return w.StatsUsed
}

func (w *verdictWire) chart() string {
	if w.ChartURL == nil {
		return ""
	}
	return *w.ChartURL
}

func (w *verdictWire) createdAt() (time.Time, error) {
	if w.CreatedAt == nil {
		return time.Time{}, &ContractError{Field: "created_at", Reason: "missing"}
	}
	ts, err := parseTimestamp(*w.CreatedAt)
	if err != nil {
		return time.Time{}, &ContractError{Field: "created_at", Reason: err.Error()}
	}
	return ts, nil
}

// the service emits ISO 8601 timestamps, with or without a zone offset
func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// DecodeVerdictRecord converts an analyze response into a VerdictRecord
func DecodeVerdictRecord(data []byte) (*VerdictRecord, error) {
	var w verdictWire
	if err := decodeWire(data, &w); err != nil {
		return nil, err
	}
	if err := w.checkCommon(); err != nil {
		return nil, err
	}
	if w.TakeID == nil {
		return nil, &ContractError{Field: "take_id", Reason: "missing"}
	}

	return &VerdictRecord{
		Verdict:    *w.Verdict,
		Confidence: *w.Confidence,
		Roast:      *w.Roast,
		Reasoning:  w.Reasoning,
		StatsUsed:  w.stats(),
		TakeID:     *w.TakeID,
		ChartURL:   w.chart(),
	}, nil
}

// DecodeTakeDetail converts a permalink response into a TakeDetail
func DecodeTakeDetail(data []byte) (*TakeDetail, error) {
	var w verdictWire
	if err := decodeWire(data, &w); err != nil {
		return nil, err
	}
	summary, err := w.summary()
	if err != nil {
		return nil, err
	}

	return &TakeDetail{
		ID:         summary.ID,
		TakeText:   summary.TakeText,
		Verdict:    summary.Verdict,
		Confidence: summary.Confidence,
		Roast:      summary.Roast,
		Reasoning:  summary.Reasoning,
		StatsUsed:  summary.StatsUsed,
		ChartURL:   w.chart(),
		CreatedAt:  summary.CreatedAt,
	}, nil
}

// DecodeTakeSummaries converts a listing response, preserving the service's order
func DecodeTakeSummaries(data []byte) ([]TakeSummary, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &ContractError{Reason: fmt.Sprintf("expected a JSON array: %v", err)}
	}

	summaries := make([]TakeSummary, 0, len(rows))
	for i, row := range rows {
		var w verdictWire
		if err := decodeWire(row, &w); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		summary, err := w.summary()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (w *verdictWire) summary() (TakeSummary, error) {
	if err := w.checkCommon(); err != nil {
		return TakeSummary{}, err
	}
	if w.ID == nil {
		return TakeSummary{}, &ContractError{Field: "id", Reason: "missing"}
	}
	if w.TakeText == nil {
		return TakeSummary{}, &ContractError{Field: "take_text", Reason: "missing"}
	}
	createdAt, err := w.createdAt()
	if err != nil {
		return TakeSummary{}, err
	}

	return TakeSummary{
		ID:         *w.ID,
		TakeText:   *w.TakeText,
		Verdict:    *w.Verdict,
		Confidence: *w.Confidence,
		Roast:      *w.Roast,
		Reasoning:  w.Reasoning,
		StatsUsed:  w.stats(),
		CreatedAt:  createdAt,
	}, nil
}

// DecodeHealth converts a liveness probe response
func DecodeHealth(data []byte) (*Health, error) {
	var raw struct {
		Status *string `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ContractError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if raw.Status == nil {
		return nil, &ContractError{Field: "status", Reason: "missing"}
	}
	return &Health{Status: *raw.Status}, nil
}
