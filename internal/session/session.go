// Package session owns the take submission lifecycle and the ordered history
// of analyzed takes for one client session.
//
// A Controller allows at most one submission in flight. Submit blocks its
// caller until the analysis resolves; concurrent Submit calls made while a
// take is pending return immediately without touching state or the network.
// History is append-only for the controller's lifetime and is never persisted.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/ppiankov/legm/internal/gateway"
	"github.com/ppiankov/legm/internal/model"
	"go.uber.org/zap"
)

// Analyzer submits a take to the analysis service
type Analyzer interface {
	Analyze(ctx context.Context, take string) (*model.VerdictRecord, error)
}

// State is a point-in-time copy of the session
type State struct {
	History   []model.HistoryEntry
	Pending   string // take awaiting a response, "" when idle
	LastError string // "" when the last outcome was not a failure
}

// Submitting reports whether a take is in flight
func (s State) Submitting() bool {
	return s.Pending != ""
}

// Controller is the take submission session
type Controller struct {
	id       string
	analyzer Analyzer
	logger   *zap.Logger

	mu        sync.Mutex
	history   []model.HistoryEntry
	pending   string
	lastError string
	closed    bool
	observers []func(State)
}

// New creates an empty session backed by the given analyzer
func New(analyzer Analyzer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()

	return &Controller{
		id:       id,
		analyzer: analyzer,
		logger:   logger.Named("session").With(zap.String("session_id", id)),
	}
}

// ID identifies the session in logs
func (c *Controller) ID() string {
	return c.id
}

// OnChange registers an observer called with a fresh snapshot after every state change.
// Observers run on the goroutine that caused the change, outside the session lock.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.observers = append(c.observers, fn)
}

// Submit analyzes text and records the outcome.
//
// It returns false when the call was a no-op: blank input, a submission already
// in flight, or a closed session. Service and transport failures are recorded as
// LastError and are not returned. A response that violates the verdict contract
// is returned as an error and leaves history untouched.
func (c *Controller) Submit(ctx context.Context, text string) (bool, error) {
	take := model.TrimTake(text)
	if take == "" {
		return false, nil
	}

	c.mu.Lock()
	if c.closed || c.pending != "" {
		closed := c.closed
		c.mu.Unlock()
		c.logger.Debug("submission ignored", zap.Bool("closed", closed))
		return false, nil
	}
	c.lastError = ""
	c.pending = take
	snap, observers := c.snapshotLocked()
	c.mu.Unlock()
	notify(observers, snap)

	c.logger.Info("submitting take", zap.Int("length", len(take)))
	record, err := c.analyzer.Analyze(ctx, take)
	if err == nil && record == nil {
		err = &model.ContractError{Reason: "empty analysis response"}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug("discarding response for closed session")
		return true, nil
	}
	c.pending = ""

	var contractErr *model.ContractError
	switch {
	case err == nil:
		c.history = append(c.history, model.HistoryEntry{Take: take, Record: *record})
	case errors.As(err, &contractErr):
		// not a user-facing failure: lastError stays clear
	default:
		c.lastError = gateway.UserMessage(err)
	}
	snap, observers = c.snapshotLocked()
	c.mu.Unlock()
	notify(observers, snap)

	switch {
	case err == nil:
		c.logger.Info("take analyzed",
			zap.Int64("take_id", record.TakeID),
			zap.String("verdict", string(record.Verdict)),
			zap.Int("history", len(snap.History)))
		return true, nil
	case contractErr != nil:
		c.logger.Error("analysis response violates contract", zap.Error(err))
		return true, err
	default:
		c.logger.Warn("take analysis failed", zap.Error(err))
		return true, nil
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, _ := c.snapshotLocked()
	return snap
}

// History returns the analyzed takes in submission order
func (c *Controller) History() []model.HistoryEntry {
	return c.Snapshot().History
}

// Pending returns the take in flight, or ""
func (c *Controller) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Submitting reports whether a take is in flight
func (c *Controller) Submitting() bool {
	return c.Pending() != ""
}

// LastError returns the most recent failure message, or ""
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Close discards the session. A response that resolves afterwards is dropped,
// observers are released and further submissions are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.observers = nil
}

func (c *Controller) snapshotLocked() (State, []func(State)) {
	history := make([]model.HistoryEntry, len(c.history))
	for i, e := range c.history {
		e.Record.StatsUsed = slices.Clone(e.Record.StatsUsed)
		history[i] = e
	}
	observers := slices.Clone(c.observers)

	return State{
		History:   history,
		Pending:   c.pending,
		LastError: c.lastError,
	}, observers
}

func notify(observers []func(State), snap State) {
	for _, fn := range observers {
		fn(snap)
	}
}
