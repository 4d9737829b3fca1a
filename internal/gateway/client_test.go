package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/legm/internal/model"
)

func newTestClient(url string) *Client {
	return NewClient(url, Options{Timeout: 5 * time.Second, UserAgent: "test-agent"})
}

func TestNewClient_TrimsBaseURL(t *testing.T) {
	c := newTestClient("https://api.example.com/")
	if got := c.BaseURL(); got != "https://api.example.com" {
		t.Errorf("BaseURL() = %q", got)
	}
	if got := c.URL(HealthPath); got != "https://api.example.com/health" {
		t.Errorf("URL() = %q", got)
	}
}

func TestCall_SendsJSONBodyAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/echo" {
			t.Errorf("Expected path /echo, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Expected JSON accept header, got %q", accept)
		}
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("Expected test-agent, got %q", ua)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"take":"hello"}` {
			t.Errorf("Unexpected body: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	raw, err := newTestClient(server.URL).Call(context.Background(), http.MethodPost, "/echo", analyzeRequest{Take: "hello"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Errorf("Unexpected response: %s", raw)
	}
}

func TestCall_NoBodyOmitsContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			t.Errorf("Expected no content type on GET, got %q", ct)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Call(context.Background(), http.MethodGet, "/x", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestCall_ServiceErrorCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"take too short"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Call(context.Background(), http.MethodPost, AnalyzePath, analyzeRequest{Take: "x"})
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("Expected *Error, got %T (%v)", err, err)
	}
	if gerr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", gerr.StatusCode)
	}
	if gerr.Body != `{"detail":"take too short"}` {
		t.Errorf("Unexpected body: %s", gerr.Body)
	}
	if gerr.IsTransport() {
		t.Error("Service error reported as transport error")
	}
	if got := gerr.Message(); got != `API error 422: {"detail":"take too short"}` {
		t.Errorf("Unexpected message: %s", got)
	}
}

func TestCall_UnreadableErrorBodyUsesPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// promise more bytes than are sent so the body read fails
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("partial"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Call(context.Background(), http.MethodGet, "/boom", nil)
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if gerr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", gerr.StatusCode)
	}
	if gerr.Body != unreadableBody {
		t.Errorf("Expected placeholder body, got %q", gerr.Body)
	}
}

func TestCall_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Call(context.Background(), http.MethodGet, HealthPath, nil)
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if !gerr.IsTransport() {
		t.Errorf("Expected transport error, got status %d", gerr.StatusCode)
	}
	if gerr.Message() != "request failed" {
		t.Errorf("Unexpected message: %s", gerr.Message())
	}
	if UserMessage(err) != "request failed" {
		t.Errorf("Unexpected user message: %s", UserMessage(err))
	}
}

func TestCall_CanceledContextIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).Call(ctx, http.MethodGet, HealthPath, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
	var gerr *Error
	if !errors.As(err, &gerr) || !gerr.IsTransport() {
		t.Errorf("Expected transport *Error, got %v", err)
	}
}

func TestCall_NonJSONSuccessIsContractViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Call(context.Background(), http.MethodGet, HealthPath, nil)
	if !errors.Is(err, model.ErrContractViolation) {
		t.Errorf("Expected contract violation, got %v", err)
	}
}

func TestCall_DoesNotRetry(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Call(context.Background(), http.MethodGet, HealthPath, nil)
	if err == nil {
		t.Fatal("Expected error for 503")
	}
	if hits.Load() != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", hits.Load())
	}
}

func TestUserMessage_NonGatewayError(t *testing.T) {
	if got := UserMessage(errors.New("boom")); got != "request failed" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestProxyFunc(t *testing.T) {
	fn := proxyFunc("http://proxy:8080", "http://secure-proxy:8443")

	req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/health", nil)
	u, err := fn(req)
	if err != nil || u.Host != "secure-proxy:8443" {
		t.Errorf("Expected https proxy, got %v (%v)", u, err)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://api.example.com/health", nil)
	u, err = fn(req)
	if err != nil || u.Host != "proxy:8080" {
		t.Errorf("Expected http proxy, got %v (%v)", u, err)
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{Method: "GET", Path: "/health", StatusCode: 404, Body: "nope"}
	if got := err.Error(); got != "GET /health: unexpected status 404: nope" {
		t.Errorf("Unexpected error string: %s", got)
	}
}
