// Package gateway is the JSON-over-HTTP client for the take analysis service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/legm/internal/model"
	"go.uber.org/zap"
)

// Client talks to the analysis service under a fixed base origin
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// Options configures a Client
type Options struct {
	Timeout    time.Duration // 0 means no client-side bound
	UserAgent  string
	HTTPProxy  string
	HTTPSProxy string
	Logger     *zap.Logger
}

// NewClient creates a Client for the given base origin
func NewClient(baseURL string, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: newTransport(opts.HTTPProxy, opts.HTTPSProxy),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
		logger:    logger.Named("gateway"),
	}
}

// BaseURL returns the origin every request is built from
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins the base origin with an endpoint path
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// Call sends one request and returns the raw JSON body of a successful response.
// The body, when non-nil, is serialized as JSON. Failures are always *Error.
func (c *Client) Call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &Error{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("response received",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := unreadableBody
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			text = string(data)
		}
		return nil, &Error{Method: method, Path: path, StatusCode: resp.StatusCode, Body: text}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}
	if !json.Valid(data) {
		return nil, &model.ContractError{Reason: fmt.Sprintf("%s %s: response body is not JSON", method, path)}
	}

	return json.RawMessage(data), nil
}

// CloseIdleConnections releases pooled keep-alive connections
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
