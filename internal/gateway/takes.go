package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ppiankov/legm/internal/model"
)

// Endpoint paths under the base origin
const (
	AnalyzePath = "/api/v1/takes/analyze"
	TakesPath   = "/api/v1/takes"
	HealthPath  = "/health"
)

// DefaultListLimit matches the service's page size when none is given
const DefaultListLimit = 50

type analyzeRequest struct {
	Take string `json:"take"`
}

// Analyze submits a take and returns the validated verdict
func (c *Client) Analyze(ctx context.Context, take string) (*model.VerdictRecord, error) {
	raw, err := c.Call(ctx, http.MethodPost, AnalyzePath, analyzeRequest{Take: take})
	if err != nil {
		return nil, err
	}
	record, err := model.DecodeVerdictRecord(raw)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	return record, nil
}

// GetTake fetches one previously analyzed take by id
func (c *Client) GetTake(ctx context.Context, id int64) (*model.TakeDetail, error) {
	raw, err := c.Call(ctx, http.MethodGet, TakePath(id), nil)
	if err != nil {
		return nil, err
	}
	detail, err := model.DecodeTakeDetail(raw)
	if err != nil {
		return nil, fmt.Errorf("get take %d: %w", id, err)
	}
	return detail, nil
}

// ListTakes returns recent takes, most recent first
func (c *Client) ListTakes(ctx context.Context, limit, offset int) ([]model.TakeSummary, error) {
	raw, err := c.Call(ctx, http.MethodGet, ListPath(limit, offset), nil)
	if err != nil {
		return nil, err
	}
	takes, err := model.DecodeTakeSummaries(raw)
	if err != nil {
		return nil, fmt.Errorf("list takes: %w", err)
	}
	return takes, nil
}

// Health calls the liveness probe
func (c *Client) Health(ctx context.Context) (*model.Health, error) {
	raw, err := c.Call(ctx, http.MethodGet, HealthPath, nil)
	if err != nil {
		return nil, err
	}
	health, err := model.DecodeHealth(raw)
	if err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	return health, nil
}

// TakePath is the permalink endpoint for one take
func TakePath(id int64) string {
	return TakesPath + "/" + strconv.FormatInt(id, 10)
}

// ListPath builds the listing endpoint with paging parameters
func ListPath(limit, offset int) string {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return TakesPath + "?" + q.Encode()
}
