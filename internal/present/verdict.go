// Package present maps verdicts to display primitives.
package present

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/legm/internal/model"
)

// ErrUnknownVerdict is returned for verdicts outside the closed set
var ErrUnknownVerdict = errors.New("unknown verdict")

// Styling keys, one per verdict
const (
	StyleTrash = "verdict-trash"
	StyleValid = "verdict-valid"
	StyleMid   = "verdict-mid"
)

// Badge is what a rendering surface needs to draw a verdict
type Badge struct {
	Label      string `json:"label"`
	StylingKey string `json:"styling_key"`
	Percent    int    `json:"percent"`
}

// Profile is a fixed presentation profile selected by styling key
type Profile struct {
	Key        string
	Foreground string // hex
	Background string // hex
	Glyph      string
}

var profiles = map[string]Profile{
	StyleTrash: {Key: StyleTrash, Foreground: "#FFFFFF", Background: "#DC2626", Glyph: "🗑"},
	StyleValid: {Key: StyleValid, Foreground: "#052E16", Background: "#22C55E", Glyph: "✓"},
	StyleMid:   {Key: StyleMid, Foreground: "#422006", Background: "#EAB308", Glyph: "~"},
}

// Present builds the badge for a verdict.
// Confidence is expected in [0,1] and is not clamped.
func Present(verdict model.Verdict, confidence float64) (Badge, error) {
	key, err := StylingKey(verdict)
	if err != nil {
		return Badge{}, err
	}

	return Badge{
		Label:      strings.ToUpper(string(verdict)),
		StylingKey: key,
		Percent:    Percent(confidence),
	}, nil
}

// StylingKey selects the profile for a verdict
func StylingKey(verdict model.Verdict) (string, error) {
	switch verdict {
	case model.VerdictTrash:
		return StyleTrash, nil
	case model.VerdictValid:
		return StyleValid, nil
	case model.VerdictMid:
		return StyleMid, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVerdict, string(verdict))
	}
}

// Percent rounds a confidence to a whole percentage, halves rounding up
func Percent(confidence float64) int {
	return int(math.Floor(confidence*100 + 0.5))
}

// ProfileFor returns the presentation profile for a styling key
func ProfileFor(key string) (Profile, error) {
	p, ok := profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("%w: no profile for styling key %q", ErrUnknownVerdict, key)
	}
	return p, nil
}
