// Package render draws session state and takes on a terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/legm/internal/model"
	"github.com/ppiankov/legm/internal/present"
	"github.com/ppiankov/legm/internal/session"
	"github.com/ppiankov/legm/internal/share"
)

// Renderer writes human-readable take cards
type Renderer struct {
	apiBase  string
	siteBase string
	color    bool
}

// NewRenderer creates a renderer; apiBase resolves relative chart URLs, siteBase builds permalinks
func NewRenderer(apiBase, siteBase string, color bool) *Renderer {
	return &Renderer{apiBase: apiBase, siteBase: siteBase, color: color}
}

var (
	takeStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B949E"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F85149")).Bold(true)
)

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Badge renders the verdict pill, e.g. "[VALID 82%]"
func (r *Renderer) Badge(verdict model.Verdict, confidence float64) (string, error) {
	badge, err := present.Present(verdict, confidence)
	if err != nil {
		return "", err
	}
	profile, err := present.ProfileFor(badge.StylingKey)
	if err != nil {
		return "", err
	}

	text := fmt.Sprintf(" %s %s %d%% ", profile.Glyph, badge.Label, badge.Percent)
	if !r.color {
		return "[" + strings.TrimSpace(text) + "]", nil
	}
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(profile.Foreground)).
		Background(lipgloss.Color(profile.Background))
	return style.Render(text), nil
}

// Entry renders one history entry as a card
func (r *Renderer) Entry(w io.Writer, position int, entry model.HistoryEntry) error {
	badge, err := r.Badge(entry.Record.Verdict, entry.Record.Confidence)
	if err != nil {
		return fmt.Errorf("render entry %s: %w", entry.Key(position), err)
	}
	permalink := share.PermalinkURL(r.siteBase, entry.Record.TakeID)
	shareURL, err := share.BuildShareURL(entry, permalink)
	if err != nil {
		return fmt.Errorf("render entry %s: %w", entry.Key(position), err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", badge, r.style(takeStyle, fmt.Sprintf("%q", entry.Take)))
	fmt.Fprintf(&b, "  %s\n", entry.Record.Roast)
	if entry.Record.Reasoning != "" {
		fmt.Fprintf(&b, "  %s\n", r.style(mutedStyle, entry.Record.Reasoning))
	}
	if len(entry.Record.StatsUsed) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", r.style(mutedStyle, "stats:"), strings.Join(entry.Record.StatsUsed, " · "))
	}
	if chart := share.ResolveChartURL(r.apiBase, entry.Record.ChartURL); chart != "" {
		fmt.Fprintf(&b, "  %s %s\n", r.style(mutedStyle, "chart:"), chart)
	}
	fmt.Fprintf(&b, "  %s %s\n", r.style(mutedStyle, "link: "), permalink)
	fmt.Fprintf(&b, "  %s %s\n", r.style(mutedStyle, "share:"), shareURL)

	_, err = io.WriteString(w, b.String())
	return err
}

// State renders the whole session: history oldest first, then pending and error lines
func (r *Renderer) State(w io.Writer, state session.State) error {
	for i, entry := range state.History {
		if err := r.Entry(w, i, entry); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return r.Status(w, state)
}

// Status renders only the pending and error lines
func (r *Renderer) Status(w io.Writer, state session.State) error {
	if state.Submitting() {
		if _, err := fmt.Fprintf(w, "%s %q\n", r.style(mutedStyle, "analyzing…"), state.Pending); err != nil {
			return err
		}
	}
	if state.LastError != "" {
		if _, err := fmt.Fprintf(w, "%s %s\n", r.style(errorStyle, "error:"), state.LastError); err != nil {
			return err
		}
	}
	return nil
}

// Summary renders a one-line row for a listed take
func (r *Renderer) Summary(w io.Writer, t model.TakeSummary) error {
	badge, err := r.Badge(t.Verdict, t.Confidence)
	if err != nil {
		return fmt.Errorf("render take %d: %w", t.ID, err)
	}
	_, err = fmt.Fprintf(w, "%6d  %s  %s  %s\n",
		t.ID, r.style(mutedStyle, t.CreatedAt.Format("2006-01-02 15:04")), badge, t.TakeText)
	return err
}

// JSONEntry is the machine-readable form of a rendered entry
type JSONEntry struct {
	Key       string              `json:"key"`
	Take      string              `json:"take"`
	Badge     present.Badge       `json:"badge"`
	Record    model.VerdictRecord `json:"record"`
	ChartURL  string              `json:"chart_url,omitempty"`
	Permalink string              `json:"permalink"`
	ShareURL  string              `json:"share_url"`
}

// JSON writes the history with derived presentation data as indented JSON
func (r *Renderer) JSON(w io.Writer, history []model.HistoryEntry) error {
	out := make([]JSONEntry, 0, len(history))
	for i, entry := range history {
		badge, err := present.Present(entry.Record.Verdict, entry.Record.Confidence)
		if err != nil {
			return fmt.Errorf("render entry %s: %w", entry.Key(i), err)
		}
		permalink := share.PermalinkURL(r.siteBase, entry.Record.TakeID)
		shareURL, err := share.BuildShareURL(entry, permalink)
		if err != nil {
			return fmt.Errorf("render entry %s: %w", entry.Key(i), err)
		}
		out = append(out, JSONEntry{
			Key:       entry.Key(i),
			Take:      entry.Take,
			Badge:     badge,
			Record:    entry.Record,
			ChartURL:  share.ResolveChartURL(r.apiBase, entry.Record.ChartURL),
			Permalink: permalink,
			ShareURL:  shareURL,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
