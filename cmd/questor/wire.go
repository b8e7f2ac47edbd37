package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/questor-ai/questor/internal/config"
	"github.com/questor-ai/questor/internal/observer"
	"github.com/questor-ai/questor/internal/prompt"
	"github.com/questor-ai/questor/internal/provider"
	"github.com/questor-ai/questor/internal/runner"
	"github.com/questor-ai/questor/tools"
)

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildRunner assembles the loop from settings: planner backend, tool
// registry, prompt renderer, dispatcher, observer and decision source.
func buildRunner(cfg config.Settings, mode runner.Mode, logger *slog.Logger) (*runner.Runner, error) {
	planner, err := buildPlanner(cfg.API)
	if err != nil {
		return nil, err
	}

	var reranker *tools.Reranker
	if cfg.Search.EnableRerank {
		reranker = tools.NewReranker(cfg.API.JinaAPIKey)
		if cfg.API.JinaRerankURL != "" {
			reranker.URL = cfg.API.JinaRerankURL
		}
		if cfg.Search.RerankTopDocs > 0 {
			reranker.TopDocs = cfg.Search.RerankTopDocs
		}
		if cfg.Search.ChunkSize > 0 {
			reranker.ChunkSize = cfg.Search.ChunkSize
			reranker.ChunkOverlap = cfg.Search.ChunkOverlap
		}
	}
	searcher := tools.NewSearcher(cfg.API.JinaAPIKey)
	if cfg.API.JinaSearchBaseURL != "" {
		searcher.BaseURL = cfg.API.JinaSearchBaseURL
	}
	scraper := tools.NewScraper(cfg.API.JinaAPIKey, reranker)
	if cfg.API.JinaReaderBaseURL != "" {
		scraper.BaseURL = cfg.API.JinaReaderBaseURL
	}

	defs := tools.Registry(searcher, scraper)
	renderer, err := prompt.NewRenderer(defs)
	if err != nil {
		return nil, err
	}
	dispatcher := tools.NewDispatcher(
		defs,
		cfg.Search.MaxToolCallsPerRound,
		cfg.Search.ToolAttempts,
		time.Duration(cfg.Search.BackoffBaseMillis)*time.Millisecond,
		logger,
	)
	emitter := observer.New(cfg.Observer.CallbackURL, cfg.Observer.Secret, logger)

	var decisions runner.DecisionSource
	if cfg.Observer.DecisionURL != "" {
		decisions = runner.NewHTTPDecisionSource(cfg.Observer.DecisionURL)
	}

	rcfg := runner.Config{
		Mode:                 mode,
		MaxRounds:            cfg.Runner.MaxRounds,
		ContinueRounds:       cfg.Runner.ContinueRounds,
		MaxToolCallsPerRound: cfg.Search.MaxToolCallsPerRound,
		RoundDelay:           time.Duration(cfg.Runner.RoundDelaySeconds) * time.Second,
		RepairJSON:           cfg.Runner.RepairJSON,
		Reflection: runner.Reflection{
			Disabled:          cfg.Runner.Reflection.Disabled,
			MinAnswerLength:   cfg.Runner.Reflection.MinAnswerLength,
			MinToolCalls:      cfg.Runner.Reflection.MinToolCalls,
			LowRoundThreshold: cfg.Runner.Reflection.LowRoundThreshold,
			FailureKeywords:   cfg.Runner.Reflection.FailureKeywords,
		},
		DecisionPollInterval: time.Duration(cfg.Runner.DecisionPollIntervalSecond) * time.Second,
		DecisionTimeout:      time.Duration(cfg.Runner.DecisionTimeoutSeconds) * time.Second,
	}
	return runner.New(planner, dispatcher, renderer, emitter, decisions, logger, rcfg), nil
}

func buildPlanner(api config.APIConfig) (provider.Planner, error) {
	switch api.Provider {
	case "anthropic":
		return provider.NewAnthropic(anthropic.Model(api.AnthropicModel), 0), nil
	case "openrouter":
		if api.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("missing OpenRouter API key; set OPENROUTER_API_KEY")
		}
		or := provider.NewOpenRouter(api.OpenRouterAPIKey)
		if api.OpenRouterBaseURL != "" {
			or.BaseURL = api.OpenRouterBaseURL
		}
		if api.OpenRouterModel != "" {
			or.Model = api.OpenRouterModel
		}
		if api.ReasoningEffort != "" {
			or.ReasoningEffort = api.ReasoningEffort
		}
		return or, nil
	}
	return nil, fmt.Errorf("unknown provider %q", api.Provider)
}
