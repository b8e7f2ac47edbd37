// Package main provides the questor CLI.
//
// Usage:
//
//	questor run [flags] <task...>     start a new investigation
//	questor resume [flags]            continue a persisted run
//	questor finalize [flags]          force an answer from persisted state
//
// Configuration is read from an optional YAML file (--config) with
// environment overrides for secrets: OPENROUTER_API_KEY, JINA_API_KEY,
// QUESTOR_CALLBACK_URL, QUESTOR_WEBHOOK_SECRET, QUESTOR_DECISION_URL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "questor",
	Short: "Autonomous web research agent",
	Long: `questor investigates a task through iterative search and scraping.

Each round the planner reads its memory workspace and previous tool
results, updates the workspace, and requests up to three tool calls.
The loop ends when the planner commits an answer that survives
self-review, or when the round bound is hit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	statePath  string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML settings file")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "path for persisted run state")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(runCmd, resumeCmd, finalizeCmd)
}
