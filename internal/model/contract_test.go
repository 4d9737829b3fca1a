package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeVerdictRecord(t *testing.T) {
	raw := `{"verdict":"valid","confidence":0.82,"roast":"Numbers don't lie.","reasoning":"Three MVPs.","stats_used":["PER","WS/48","PER"],"take_id":42,"chart_url":"/charts/take_42.png"}`

	got, err := DecodeVerdictRecord([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeVerdictRecord failed: %v", err)
	}

	want := &VerdictRecord{
		Verdict:    VerdictValid,
		Confidence: 0.82,
		Roast:      "Numbers don't lie.",
		Reasoning:  "Three MVPs.",
		StatsUsed:  []string{"PER", "WS/48", "PER"},
		TakeID:     42,
		ChartURL:   "/charts/take_42.png",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if !got.HasChart() {
		t.Error("Expected HasChart")
	}
}

func TestDecodeVerdictRecord_OptionalFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"null chart", `{"verdict":"mid","confidence":0.5,"roast":"eh","take_id":1,"chart_url":null}`},
		{"absent chart and stats", `{"verdict":"mid","confidence":0.5,"roast":"eh","take_id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeVerdictRecord([]byte(tt.raw))
			if err != nil {
				t.Fatalf("DecodeVerdictRecord failed: %v", err)
			}
			if got.HasChart() {
				t.Errorf("Expected no chart, got %q", got.ChartURL)
			}
			if got.StatsUsed == nil || len(got.StatsUsed) != 0 {
				t.Errorf("Expected empty non-nil stats, got %#v", got.StatsUsed)
			}
		})
	}
}

func TestDecodeVerdictRecord_ContractViolations(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"unknown verdict", `{"verdict":"goat","confidence":0.5,"roast":"x","take_id":1}`, "verdict"},
		{"verdict not a string", `{"verdict":3,"confidence":0.5,"roast":"x","take_id":1}`, "verdict"},
		{"missing verdict", `{"confidence":0.5,"roast":"x","take_id":1}`, "verdict"},
		{"missing confidence", `{"verdict":"mid","roast":"x","take_id":1}`, "confidence"},
		{"confidence above 1", `{"verdict":"mid","confidence":1.5,"roast":"x","take_id":1}`, "confidence"},
		{"negative confidence", `{"verdict":"mid","confidence":-0.1,"roast":"x","take_id":1}`, "confidence"},
		{"missing roast", `{"verdict":"mid","confidence":0.5,"take_id":1}`, "roast"},
		{"missing take id", `{"verdict":"mid","confidence":0.5,"roast":"x"}`, "take_id"},
		{"malformed", `{"verdict":`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeVerdictRecord([]byte(tt.raw))
			if !errors.Is(err, ErrContractViolation) {
				t.Fatalf("Expected contract violation, got %v", err)
			}
			var cerr *ContractError
			if !errors.As(err, &cerr) {
				t.Fatalf("Expected *ContractError, got %T", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Expected field %q, got %q (%v)", tt.field, cerr.Field, err)
			}
		})
	}
}

func TestDecodeTakeDetail_Timestamps(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-01-02T03:04:05Z", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2025-01-02T03:04:05.5+02:00", time.Date(2025, 1, 2, 1, 4, 5, 500000000, time.UTC)},
		{"2025-01-02T03:04:05.123456", time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.UTC)},
		{"2025-01-02 03:04:05", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
	}

	for _, tt := range tests {
		raw := `{"id":7,"take_text":"t","verdict":"trash","confidence":0.9,"roast":"no","created_at":"` + tt.raw + `"}`
		got, err := DecodeTakeDetail([]byte(raw))
		if err != nil {
			t.Fatalf("DecodeTakeDetail(%s) failed: %v", tt.raw, err)
		}
		if !got.CreatedAt.Equal(tt.want) {
			t.Errorf("created_at %s decoded to %v, want %v", tt.raw, got.CreatedAt, tt.want)
		}
	}
}

func TestDecodeTakeDetail_Entry(t *testing.T) {
	raw := `{"id":7,"take_text":"Embiid is a fraud","verdict":"trash","confidence":0.9,"roast":"no","reasoning":"r","stats_used":["PPG"],"chart_url":"https://cdn.x/7.png","created_at":"2025-01-02T03:04:05Z"}`
	detail, err := DecodeTakeDetail([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeTakeDetail failed: %v", err)
	}

	want := HistoryEntry{
		Take: "Embiid is a fraud",
		Record: VerdictRecord{
			Verdict:    VerdictTrash,
			Confidence: 0.9,
			Roast:      "no",
			Reasoning:  "r",
			StatsUsed:  []string{"PPG"},
			TakeID:     7,
			ChartURL:   "https://cdn.x/7.png",
		},
	}
	if diff := cmp.Diff(want, detail.Entry()); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTakeDetail_Missing(t *testing.T) {
	tests := []struct {
		name, raw, field string
	}{
		{"id", `{"take_text":"t","verdict":"mid","confidence":0.5,"roast":"x","created_at":"2025-01-02T03:04:05Z"}`, "id"},
		{"take_text", `{"id":1,"verdict":"mid","confidence":0.5,"roast":"x","created_at":"2025-01-02T03:04:05Z"}`, "take_text"},
		{"created_at", `{"id":1,"take_text":"t","verdict":"mid","confidence":0.5,"roast":"x"}`, "created_at"},
		{"bad created_at", `{"id":1,"take_text":"t","verdict":"mid","confidence":0.5,"roast":"x","created_at":"yesterday"}`, "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTakeDetail([]byte(tt.raw))
			var cerr *ContractError
			if !errors.As(err, &cerr) || cerr.Field != tt.field {
				t.Errorf("Expected contract violation on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestDecodeTakeSummaries(t *testing.T) {
	raw := `[
		{"id":2,"take_text":"b","verdict":"mid","confidence":0.5,"roast":"x","created_at":"2025-01-02T00:00:00Z"},
		{"id":1,"take_text":"a","verdict":"valid","confidence":0.7,"roast":"y","created_at":"2025-01-01T00:00:00Z"}
	]`
	got, err := DecodeTakeSummaries([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeTakeSummaries failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("Expected service order [2 1], got %+v", got)
	}

	if _, err := DecodeTakeSummaries([]byte(`{"id":1}`)); !errors.Is(err, ErrContractViolation) {
		t.Errorf("Expected contract violation for non-array, got %v", err)
	}

	bad := `[{"id":1,"take_text":"a","verdict":"goat","confidence":0.5,"roast":"x","created_at":"2025-01-01T00:00:00Z"}]`
	_, err = DecodeTakeSummaries([]byte(bad))
	if !errors.Is(err, ErrContractViolation) {
		t.Fatalf("Expected contract violation, got %v", err)
	}
	if got := err.Error(); got[:5] != "row 0" {
		t.Errorf("Expected row prefix, got %s", got)
	}
}

func TestDecodeHealth(t *testing.T) {
	h, err := DecodeHealth([]byte(`{"status":"ok"}`))
	if err != nil || h.Status != "ok" {
		t.Fatalf("DecodeHealth = %+v, %v", h, err)
	}
	if _, err := DecodeHealth([]byte(`{}`)); !errors.Is(err, ErrContractViolation) {
		t.Errorf("Expected contract violation, got %v", err)
	}
}
