package telemetry_test

import (
	"context"
	"testing"

	"github.com/questor-ai/questor/internal/telemetry"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := telemetry.WithRunID(context.Background(), "run-123")
	id, ok := telemetry.RunIDFromContext(ctx)
	if !ok || id != "run-123" {
		t.Fatalf("got (%q, %v), want (run-123, true)", id, ok)
	}
}

func TestRunIDMissing(t *testing.T) {
	if id, ok := telemetry.RunIDFromContext(context.Background()); ok {
		t.Fatalf("expected no run ID, got %q", id)
	}
}

func TestRunIDEmptyStringIsAbsent(t *testing.T) {
	ctx := telemetry.WithRunID(context.Background(), "")
	if _, ok := telemetry.RunIDFromContext(ctx); ok {
		t.Fatal("empty run ID should report absent")
	}
}

func TestObserveEnabledHonoursEnvOverride(t *testing.T) {
	t.Setenv("QUESTOR_OBSERVE_JSON", "1")
	if !telemetry.ObserveEnabled() {
		t.Fatal("expected observe enabled with QUESTOR_OBSERVE_JSON=1")
	}
}
