package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/questor-ai/questor/internal/telemetry"
)

// Call is one tool invocation requested by the planner.
type Call struct {
	Tool  string `json:"tool"`
	Input string `json:"input"`
}

// Record is a completed call. Output is always populated: failures are
// encoded as descriptive text for the next planning round, never dropped.
type Record struct {
	Call
	Output string `json:"output"`
}

// StatusError is a non-200 response from a tool backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// Dispatcher executes tool calls concurrently with per-call retry and
// exponential backoff. It never returns an error: a call that exhausts its
// retries produces a failure-text record.
type Dispatcher struct {
	defs          map[string]ToolDefinition
	maxConcurrent int
	attempts      int
	backoffBase   time.Duration
	logger        *slog.Logger
}

// NewDispatcher wires the given definitions. maxConcurrent bounds the
// per-round fan-out; attempts is the per-call retry bound.
func NewDispatcher(defs []ToolDefinition, maxConcurrent, attempts int, backoffBase time.Duration, logger *slog.Logger) *Dispatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	if attempts <= 0 {
		attempts = 3
	}
	if backoffBase <= 0 {
		backoffBase = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	byName := make(map[string]ToolDefinition, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
	}
	return &Dispatcher{
		defs:          byName,
		maxConcurrent: maxConcurrent,
		attempts:      attempts,
		backoffBase:   backoffBase,
		logger:        logger,
	}
}

// ExecuteAll runs every call concurrently (bounded) and blocks until all
// complete, success or terminal failure. Records come back in call order.
func (d *Dispatcher) ExecuteAll(ctx context.Context, calls []Call, taskContext string) []Record {
	records := make([]Record, len(calls))
	sem := make(chan struct{}, d.maxConcurrent)
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call Call) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			records[i] = Record{Call: call, Output: d.execute(ctx, call, taskContext)}
		}(i, call)
	}
	wg.Wait()
	return records
}

// execute runs one call through the retry loop and encodes any terminal
// failure as output text.
func (d *Dispatcher) execute(ctx context.Context, call Call, taskContext string) string {
	def, ok := d.defs[call.Tool]
	if !ok {
		return fmt.Sprintf("Tool execution failed: unknown tool %q", call.Tool)
	}

	runID, _ := telemetry.RunIDFromContext(ctx)
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		out, err := def.Function(ctx, call.Input, taskContext)
		if err == nil {
			telemetry.Emit("tool_exec", map[string]any{
				"run_id":      runID,
				"tool":        call.Tool,
				"attempts":    attempt,
				"duration_ms": time.Since(start).Milliseconds(),
				"output_size": len(out),
				"error":       nil,
			})
			return out
		}
		lastErr = err
		if attempt == d.attempts || ctx.Err() != nil || !retryable(err) {
			break
		}
		d.logger.Warn("tool call retrying", "tool", call.Tool, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
		case <-time.After(d.backoffBase << (attempt - 1)):
			continue
		}
		break
	}

	telemetry.Emit("tool_exec", map[string]any{
		"run_id":      runID,
		"tool":        call.Tool,
		"duration_ms": time.Since(start).Milliseconds(),
		"error":       lastErr.Error(),
	})
	d.logger.Warn("tool call failed", "tool", call.Tool, "input", call.Input, "error", lastErr)
	return fmt.Sprintf("Tool execution failed: %v", lastErr)
}

// retryable classifies transport errors, rate limiting, and upstream
// failures as worth another attempt.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// url.Error wraps transport failures; unwrap handled by errors.As above,
	// anything else (bad input, decode failure) is terminal.
	var ue interface{ Unwrap() error }
	if errors.As(err, &ue) {
		return retryable(ue.Unwrap())
	}
	return false
}
