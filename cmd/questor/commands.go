package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/questor-ai/questor/internal/config"
	"github.com/questor-ai/questor/internal/runner"
	"github.com/questor-ai/questor/memory"
)

var interactive bool

var runCmd = &cobra.Command{
	Use:   "run <task...>",
	Short: "Start a new investigation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger := newLogger()
		mode := runner.ModeBatch
		if interactive {
			mode = runner.ModeInteractive
		}
		r, err := buildRunner(cfg, mode, logger)
		if err != nil {
			return err
		}

		task := strings.Join(args, " ")
		res, runErr := r.Run(cmd.Context(), task)
		persistState(logger, task, res.TotalRounds, res)
		printResult(res)
		return runErr
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Continue a persisted run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadState()
		if err != nil {
			return err
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger := newLogger()
		mode := runner.ModeBatch
		if interactive {
			mode = runner.ModeInteractive
		}
		r, err := buildRunner(cfg, mode, logger)
		if err != nil {
			return err
		}

		res, runErr := r.Resume(cmd.Context(), state.Task, state.Workspace, state.Round)
		persistState(logger, state.Task, state.Round+res.TotalRounds, res)
		printResult(res)
		return runErr
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Force a final answer from persisted state without further tool use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadState()
		if err != nil {
			return err
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger := newLogger()
		r, err := buildRunner(cfg, runner.ModeBatch, logger)
		if err != nil {
			return err
		}

		res, runErr := r.Finalize(cmd.Context(), state.Task, state.Workspace, nil)
		persistState(logger, state.Task, state.Round, res)
		printResult(res)
		return runErr
	},
}

func init() {
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pause at the round bound and wait for an operator decision")
	resumeCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pause at the round bound and wait for an operator decision")
}

func loadState() (*memory.RunState, error) {
	if statePath == "" {
		return nil, fmt.Errorf("--state is required")
	}
	state, err := memory.Load(statePath)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("no run state at %s", statePath)
	}
	return state, nil
}

// persistState saves the workspace so an interrupted or incomplete run can
// be resumed or finalized later. round is the absolute next round index,
// including rounds from earlier sessions of the same run.
func persistState(logger *slog.Logger, task string, round int, res runner.Result) {
	if statePath == "" || res.RunID == "" {
		return
	}
	state := memory.RunState{
		RunID:     res.RunID,
		Task:      task,
		Round:     round,
		Workspace: res.Workspace,
	}
	if err := memory.Save(statePath, state); err != nil {
		logger.Warn("failed to persist run state", "path", statePath, "error", err)
	}
}

func printResult(res runner.Result) {
	if res.RunID == "" {
		return
	}
	if res.IsComplete {
		fmt.Println(res.Answer)
		fmt.Fprintf(os.Stderr, "\ncompleted in %d rounds, %d tool calls\n", res.TotalRounds, res.TotalToolCalls)
		return
	}
	fmt.Fprintf(os.Stderr, "run incomplete after %d rounds, %d tool calls\n\n%s\n", res.TotalRounds, res.TotalToolCalls, res.FinalSnapshot)
	if statePath != "" {
		fmt.Fprintf(os.Stderr, "state saved to %s; resume with 'questor resume --state %s' or force an answer with 'questor finalize --state %s'\n", statePath, statePath, statePath)
	}
}
