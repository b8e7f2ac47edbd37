// Package observer delivers lifecycle events to an external callback URL.
//
// Delivery is strictly best-effort: a failed or rejected post is logged and
// forgotten. Observability must never destabilize or abort the loop.
package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Event types emitted over a run's lifetime.
const (
	EventStart              = "start"
	EventIteration          = "iteration"
	EventComplete           = "complete"
	EventError              = "error"
	EventTimeout            = "timeout"
	EventWaitingForDecision = "waiting_for_decision"
)

// Emitter posts events to a callback URL. A zero URL disables emission.
type Emitter struct {
	URL    string
	Secret string
	Client *http.Client
	Logger *slog.Logger

	now func() time.Time // test seam
}

// New returns an emitter for the given callback URL. secret, when
// non-empty, signs each payload (see Sign).
func New(url, secret string, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{
		URL:    url,
		Secret: secret,
		Client: &http.Client{Timeout: 10 * time.Second},
		Logger: logger,
		now:    time.Now,
	}
}

type payload struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Emit posts one event. Failures of any kind are logged at Warn and
// swallowed; Emit never returns an error and never retries.
func (e *Emitter) Emit(ctx context.Context, eventType string, data any) {
	if e == nil || e.URL == "" {
		return
	}

	body, err := json.Marshal(payload{
		Type:      eventType,
		Data:      data,
		Timestamp: e.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		e.Logger.Warn("observer: encode event", "type", eventType, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		e.Logger.Warn("observer: build request", "type", eventType, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if e.Secret != "" {
		req.Header.Set("X-Signature", Sign(body, e.Secret))
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		e.Logger.Warn("observer: post failed", "type", eventType, "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.Logger.Warn("observer: post rejected", "type", eventType, "status", resp.StatusCode)
	}
}
