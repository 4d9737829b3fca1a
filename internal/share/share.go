// Package share builds social share links, permalinks and chart URLs for analyzed takes.
package share

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/legm/internal/model"
	"github.com/ppiankov/legm/internal/present"
)

// IntentBase is the social post composer endpoint
const IntentBase = "https://x.com/intent/post"

// AttributionTag closes every shared post
const AttributionTag = "#LeGM"

// ComposeText builds the five-line post body for an entry
func ComposeText(entry model.HistoryEntry) (string, error) {
	badge, err := present.Present(entry.Record.Verdict, entry.Record.Confidence)
	if err != nil {
		return "", fmt.Errorf("compose share text: %w", err)
	}

	header := fmt.Sprintf("\"%s\" - %s (%d%%)", entry.Take, badge.Label, badge.Percent)
	return strings.Join([]string{header, "", entry.Record.Roast, "", AttributionTag}, "\n"), nil
}

// BuildShareURL returns the share-intent URL for an entry and its permalink
func BuildShareURL(entry model.HistoryEntry, permalinkURL string) (string, error) {
	text, err := ComposeText(entry)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("text", text)
	q.Set("url", permalinkURL)
	return IntentBase + "?" + q.Encode(), nil
}

// PermalinkURL is the public page for a take
func PermalinkURL(siteBase string, takeID int64) string {
	return strings.TrimRight(siteBase, "/") + "/take/" + strconv.FormatInt(takeID, 10)
}

// ResolveChartURL makes a chart reference absolute.
// Anything starting with "http" is used as-is, everything else hangs off the API origin.
func ResolveChartURL(apiBase, chartURL string) string {
	if chartURL == "" {
		return ""
	}
	if strings.HasPrefix(chartURL, "http") {
		return chartURL
	}
	if !strings.HasPrefix(chartURL, "/") {
		chartURL = "/" + chartURL
	}
	return strings.TrimRight(apiBase, "/") + chartURL
}
