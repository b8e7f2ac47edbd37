// Package runner drives the investigation loop: render the workspace into
// a prompt, ask the planner for a plan, extract and parse it, gate
// premature completions, commit the plan, then execute its tool calls.
// One stepping function serves both batch and interactive runs; the mode
// only decides what happens when the round bound is hit.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/questor-ai/questor/internal/extract"
	"github.com/questor-ai/questor/internal/observer"
	"github.com/questor-ai/questor/internal/plan"
	"github.com/questor-ai/questor/internal/prompt"
	"github.com/questor-ai/questor/internal/provider"
	"github.com/questor-ai/questor/internal/telemetry"
	"github.com/questor-ai/questor/internal/workspace"
	"github.com/questor-ai/questor/tools"
)

// Mode selects the termination policy at the round bound.
type Mode int

const (
	// ModeBatch stops at the round bound and returns an incomplete result.
	ModeBatch Mode = iota
	// ModeInteractive pauses at the round bound and polls an operator
	// decision: continue for more rounds, or force a finalize pass.
	ModeInteractive
)

// Config tunes a Runner. Zero values are replaced with defaults in New.
type Config struct {
	Mode                 Mode
	MaxRounds            int
	ContinueRounds       int
	MaxToolCallsPerRound int
	RoundDelay           time.Duration
	RepairJSON           bool
	Reflection           Reflection
	DecisionPollInterval time.Duration
	DecisionTimeout      time.Duration
}

// Runner owns one configuration of the loop. Instances are safe to reuse
// across sequential runs; each run gets its own workspace.
type Runner struct {
	planner    provider.Planner
	dispatcher *tools.Dispatcher
	renderer   *prompt.Renderer
	emitter    *observer.Emitter
	decisions  DecisionSource
	logger     *slog.Logger
	cfg        Config

	sleep func(ctx context.Context, d time.Duration) error // test seam
}

// New wires a runner from its collaborators. emitter and decisions may be
// nil; a nil decision source makes the round bound finalize immediately in
// interactive mode.
func New(planner provider.Planner, dispatcher *tools.Dispatcher, renderer *prompt.Renderer, emitter *observer.Emitter, decisions DecisionSource, logger *slog.Logger, cfg Config) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 10
	}
	if cfg.ContinueRounds <= 0 {
		cfg.ContinueRounds = 3
	}
	if cfg.MaxToolCallsPerRound <= 0 {
		cfg.MaxToolCallsPerRound = 3
	}
	if cfg.DecisionPollInterval <= 0 {
		cfg.DecisionPollInterval = 5 * time.Second
	}
	if cfg.DecisionTimeout <= 0 {
		cfg.DecisionTimeout = 2 * time.Minute
	}
	return &Runner{
		planner:    planner,
		dispatcher: dispatcher,
		renderer:   renderer,
		emitter:    emitter,
		decisions:  decisions,
		logger:     logger,
		cfg:        cfg,
		sleep:      sleepCtx,
	}
}

// Run executes a fresh investigation of task.
func (r *Runner) Run(ctx context.Context, task string) (Result, error) {
	return r.run(ctx, task, workspace.New(), 0)
}

// Resume continues an interrupted run from a persisted workspace snapshot.
// A snapshot already marked DONE is reopened so the loop can keep going.
func (r *Runner) Resume(ctx context.Context, task string, snap workspace.Snapshot, startRound int) (Result, error) {
	ws, err := workspace.FromSnapshot(snap)
	if err != nil {
		return Result{}, fmt.Errorf("runner: resume: %w", err)
	}
	if ws.IsDone() {
		ws.Apply(workspace.StatusInProgress, nil, nil)
	}
	if startRound < 0 {
		startRound = 0
	}
	return r.run(ctx, task, ws, startRound)
}

// run is the stepping loop shared by every entry point.
func (r *Runner) run(ctx context.Context, task string, ws *workspace.Workspace, startRound int) (Result, error) {
	runID := uuid.NewString()
	ctx = telemetry.WithRunID(ctx, runID)
	log := r.logger.With("run_id", runID)

	log.Info("run starting", "task", task, "start_round", startRound)
	r.emitter.Emit(ctx, observer.EventStart, map[string]any{"run_id": runID, "task": task})
	telemetry.Emit("run_start", map[string]any{"run_id": runID, "start_round": startRound})

	var (
		iterations     []IterationRecord
		records        []tools.Record
		totalToolCalls int
		prevProposed   = true
		round          = startRound
		roundBound     = startRound + r.cfg.MaxRounds
	)

	result := func(complete bool) Result {
		answer, _ := ws.Answer()
		if !complete {
			answer = ""
		}
		return Result{
			RunID:          runID,
			FinalSnapshot:  ws.Render(),
			Workspace:      ws.Snapshot(),
			IsComplete:     complete,
			Answer:         answer,
			TotalRounds:    len(iterations),
			TotalToolCalls: totalToolCalls,
			Iterations:     iterations,
		}
	}
	fail := func(err error) (Result, error) {
		log.Error("run failed", "round", round, "error", err)
		r.emitter.Emit(ctx, observer.EventError, map[string]any{"run_id": runID, "round": round, "error": err.Error()})
		return result(false), err
	}

	for {
		if r.cfg.RoundDelay > 0 && round > startRound {
			if err := r.sleep(ctx, r.cfg.RoundDelay); err != nil {
				return fail(err)
			}
		}

		promptText, err := r.renderer.Render(prompt.Data{
			Task:        task,
			Workspace:   ws.Render(),
			ToolRecords: records,
		})
		if err != nil {
			return fail(err)
		}

		raw, err := r.planner.Generate(ctx, promptText)
		if err != nil {
			return fail(fmt.Errorf("runner: round %d: %w", round, err))
		}
		cleaned := prompt.StripReasoning(raw)

		var opts []extract.Option
		if r.cfg.RepairJSON {
			opts = append(opts, extract.WithRepair())
		}
		rawPlan, err := extract.Largest(cleaned, opts...)
		if err != nil {
			return fail(fmt.Errorf("runner: round %d: %w", round, err))
		}
		p, err := plan.Parse(rawPlan, r.cfg.MaxToolCallsPerRound)
		if err != nil {
			return fail(fmt.Errorf("runner: round %d: %w", round, err))
		}

		if p.Status == workspace.StatusDone {
			if reasons := r.cfg.Reflection.evaluate(p, round, totalToolCalls); len(reasons) > 0 {
				log.Info("completion rejected", "round", round, "reasons", reasons)
				telemetry.Emit("reflection_reject", map[string]any{"run_id": runID, "round": round, "reasons": reasons})
				p.Status = workspace.StatusInProgress
				p.Answer = nil
				p.MemoryUpdates = append(p.MemoryUpdates, workspace.Update{
					Operation: workspace.OpAdd,
					Content:   correctiveNote(reasons),
				})
				if len(p.ToolCalls) == 0 {
					p.ToolCalls = []tools.Call{{Tool: tools.NameSearch, Input: fallbackQuery(task)}}
				}
			}
		}

		ws.Apply(p.Status, p.MemoryUpdates, p.Answer)

		iteration := IterationRecord{
			Round:             round,
			WorkspaceSnapshot: ws.Render(),
			RawResponse:       raw,
			ParsedResponse:    rawPlan,
		}

		if ws.IsDone() {
			iterations = append(iterations, iteration)
			answer, _ := ws.Answer()
			log.Info("run complete", "rounds", len(iterations), "tool_calls", totalToolCalls)
			r.emitter.Emit(ctx, observer.EventComplete, map[string]any{
				"run_id": runID, "answer": answer, "total_rounds": len(iterations),
			})
			telemetry.Emit("run_complete", map[string]any{"run_id": runID, "rounds": len(iterations)})
			return result(true), nil
		}

		calls := p.ToolCalls
		proposed := len(calls) > 0
		if !proposed {
			if !prevProposed {
				iterations = append(iterations, iteration)
				log.Warn("run stalled: two rounds without tool calls", "round", round)
				r.emitter.Emit(ctx, observer.EventError, map[string]any{
					"run_id": runID, "round": round, "error": "no forward progress: two consecutive rounds without tool calls",
				})
				return result(false), nil
			}
			calls = []tools.Call{{Tool: tools.NameSearch, Input: fallbackQuery(task)}}
			log.Info("no tool calls proposed, falling back to search", "round", round)
		}
		prevProposed = proposed

		records = r.dispatcher.ExecuteAll(ctx, calls, task)
		totalToolCalls += len(records)
		iteration.ToolCalls = records
		iterations = append(iterations, iteration)

		r.emitter.Emit(ctx, observer.EventIteration, map[string]any{
			"run_id": runID, "round": round, "workspace": ws.Render(), "tool_calls": len(records),
		})
		telemetry.Emit("round_complete", map[string]any{
			"run_id": runID, "round": round, "tool_calls": len(records), "blocks": ws.Len(),
		})

		round++
		if round < roundBound {
			continue
		}

		if r.cfg.Mode == ModeBatch {
			log.Warn("round bound reached", "rounds", len(iterations))
			r.emitter.Emit(ctx, observer.EventTimeout, map[string]any{"run_id": runID, "total_rounds": len(iterations)})
			return result(false), nil
		}

		r.emitter.Emit(ctx, observer.EventWaitingForDecision, map[string]any{"run_id": runID, "round": round})
		log.Info("awaiting operator decision", "round", round)
		switch r.awaitDecision(ctx, runID) {
		case DecisionContinue:
			roundBound += r.cfg.ContinueRounds
			log.Info("operator continued run", "new_bound", roundBound)
		default:
			answer, err := r.forceFinalize(ctx, task, ws, iterations)
			if err != nil {
				return fail(err)
			}
			ws.Apply(workspace.StatusDone, nil, &answer)
			log.Info("run finalized", "rounds", len(iterations))
			r.emitter.Emit(ctx, observer.EventComplete, map[string]any{
				"run_id": runID, "answer": answer, "total_rounds": len(iterations), "forced": true,
			})
			return result(true), nil
		}
	}
}

// Finalize runs only the forced finalize pass over previously accumulated
// state, committing whatever answer the planner produces.
func (r *Runner) Finalize(ctx context.Context, task string, snap workspace.Snapshot, iterations []IterationRecord) (Result, error) {
	ws, err := workspace.FromSnapshot(snap)
	if err != nil {
		return Result{}, fmt.Errorf("runner: finalize: %w", err)
	}
	runID := uuid.NewString()
	ctx = telemetry.WithRunID(ctx, runID)

	answer, err := r.forceFinalize(ctx, task, ws, iterations)
	if err != nil {
		r.emitter.Emit(ctx, observer.EventError, map[string]any{"run_id": runID, "error": err.Error()})
		return Result{RunID: runID, FinalSnapshot: ws.Render(), Workspace: ws.Snapshot(), Iterations: iterations, TotalRounds: len(iterations)}, err
	}
	ws.Apply(workspace.StatusDone, nil, &answer)
	r.emitter.Emit(ctx, observer.EventComplete, map[string]any{
		"run_id": runID, "answer": answer, "total_rounds": len(iterations), "forced": true,
	})
	return Result{
		RunID:         runID,
		FinalSnapshot: ws.Render(),
		Workspace:     ws.Snapshot(),
		IsComplete:    true,
		Answer:        answer,
		TotalRounds:   len(iterations),
		Iterations:    iterations,
	}, nil
}

// forceFinalize asks the planner for a best-effort answer from the recent
// iteration history. The result bypasses the reflection gate entirely.
func (r *Runner) forceFinalize(ctx context.Context, task string, ws *workspace.Workspace, iterations []IterationRecord) (string, error) {
	excerpts := make([]prompt.IterationExcerpt, 0, len(iterations))
	for _, it := range iterations {
		excerpts = append(excerpts, prompt.IterationExcerpt{
			Round:     it.Round,
			Workspace: it.WorkspaceSnapshot,
			Records:   it.ToolCalls,
		})
	}
	p := prompt.BuildFinalize(task, excerpts, ws.Render())
	raw, err := r.planner.Generate(ctx, p)
	if err != nil {
		return "", fmt.Errorf("runner: finalize: %w", err)
	}
	return prompt.StripReasoning(raw), nil
}

// awaitDecision polls the decision source until a verdict arrives or the
// decision window closes. Timeout, cancellation and a missing source all
// resolve to finalize.
func (r *Runner) awaitDecision(ctx context.Context, runID string) Decision {
	if r.decisions == nil {
		return DecisionFinalize
	}
	deadline := time.Now().Add(r.cfg.DecisionTimeout)
	for {
		d, err := r.decisions.Poll(ctx, runID)
		if err != nil {
			r.logger.Debug("decision poll failed", "run_id", runID, "error", err)
		} else if d != DecisionNone {
			return d
		}
		if time.Now().After(deadline) {
			r.logger.Info("decision window expired, finalizing", "run_id", runID)
			return DecisionFinalize
		}
		if err := r.sleep(ctx, r.cfg.DecisionPollInterval); err != nil {
			return DecisionFinalize
		}
	}
}

// sleepCtx sleeps for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
