// Package provider hosts the planner backends: one-shot text completion
// clients behind a single Planner interface.
package provider

import (
	"context"
	"fmt"
)

// Planner is a one-shot completion given a rendered prompt. The returned
// text may embed a delimited reasoning segment; callers strip it.
type Planner interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Error is a transport or auth failure calling the model. Planner failures
// are fatal to a run, unlike tool failures.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("planner: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("planner: %s", e.Message)
}

func (e *Error) Unwrap() error { return e.Err }
