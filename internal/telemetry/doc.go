// Package telemetry provides an env-gated local JSONL event log plus
// run-ID context plumbing.
//
// This is the in-process observability channel; it is independent of the
// webhook update emitter and, like it, must never destabilize a run.
package telemetry
