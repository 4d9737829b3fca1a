package present

import (
	"errors"
	"testing"

	"github.com/ppiankov/legm/internal/model"
)

func TestPresent_Labels(t *testing.T) {
	tests := []struct {
		verdict model.Verdict
		label   string
		key     string
	}{
		{model.VerdictTrash, "TRASH", StyleTrash},
		{model.VerdictValid, "VALID", StyleValid},
		{model.VerdictMid, "MID", StyleMid},
	}

	for _, tt := range tests {
		t.Run(string(tt.verdict), func(t *testing.T) {
			badge, err := Present(tt.verdict, 0.5)
			if err != nil {
				t.Fatalf("Present failed: %v", err)
			}
			if badge.Label != tt.label {
				t.Errorf("Expected label %s, got %s", tt.label, badge.Label)
			}
			if badge.StylingKey != tt.key {
				t.Errorf("Expected key %s, got %s", tt.key, badge.StylingKey)
			}
			if _, err := ProfileFor(badge.StylingKey); err != nil {
				t.Errorf("No profile for %s: %v", badge.StylingKey, err)
			}
		})
	}
}

func TestPresent_PercentRounding(t *testing.T) {
	tests := []struct {
		confidence float64
		want       int
	}{
		{0.956, 96},
		{0.004, 0},
		{0.5, 50},
		{0.82, 82},
		{0.61, 61},
		{0, 0},
		{1, 100},
	}

	for _, tt := range tests {
		badge, err := Present(model.VerdictMid, tt.confidence)
		if err != nil {
			t.Fatalf("Present failed: %v", err)
		}
		if badge.Percent != tt.want {
			t.Errorf("Present(_, %v).Percent = %d, want %d", tt.confidence, badge.Percent, tt.want)
		}
	}
}

func TestPresent_DoesNotClamp(t *testing.T) {
	if got := Percent(1.2); got != 120 {
		t.Errorf("Percent(1.2) = %d, want 120", got)
	}
}

func TestPresent_UnknownVerdictFails(t *testing.T) {
	_, err := Present(model.Verdict("goat"), 0.9)
	if !errors.Is(err, ErrUnknownVerdict) {
		t.Fatalf("Expected ErrUnknownVerdict, got %v", err)
	}

	if _, err := ProfileFor("verdict-goat"); !errors.Is(err, ErrUnknownVerdict) {
		t.Errorf("Expected ErrUnknownVerdict for unknown profile, got %v", err)
	}
}

func TestProfiles_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, v := range model.Verdicts {
		key, err := StylingKey(v)
		if err != nil {
			t.Fatalf("StylingKey(%s): %v", v, err)
		}
		p, _ := ProfileFor(key)
		if seen[p.Background] {
			t.Errorf("Profile background %s reused", p.Background)
		}
		seen[p.Background] = true
	}
	if len(seen) != 3 {
		t.Errorf("Expected 3 profiles, got %d", len(seen))
	}
}
