// Package config loads and validates settings: a YAML file with
// environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Settings is the full application configuration.
type Settings struct {
	API      APIConfig      `yaml:"api"`
	Search   SearchConfig   `yaml:"search"`
	Runner   RunnerConfig   `yaml:"runner"`
	Observer ObserverConfig `yaml:"observer"`
}

// APIConfig selects and configures the planner backend and the Jina
// endpoints used by the tools.
type APIConfig struct {
	Provider string `yaml:"provider"` // "openrouter" or "anthropic"

	OpenRouterAPIKey  string `yaml:"openrouter_api_key"`
	OpenRouterBaseURL string `yaml:"openrouter_base_url"`
	OpenRouterModel   string `yaml:"openrouter_model"`
	ReasoningEffort   string `yaml:"reasoning_effort"`

	AnthropicModel string `yaml:"anthropic_model"`

	JinaAPIKey        string `yaml:"jina_api_key"`
	JinaSearchBaseURL string `yaml:"jina_search_base_url"`
	JinaReaderBaseURL string `yaml:"jina_reader_base_url"`
	JinaRerankURL     string `yaml:"jina_rerank_url"`
}

// SearchConfig bounds tool execution.
type SearchConfig struct {
	MaxToolCallsPerRound int  `yaml:"max_tool_calls_per_round"`
	ToolAttempts         int  `yaml:"tool_attempts"`
	BackoffBaseMillis    int  `yaml:"backoff_base_millis"`
	EnableRerank         bool `yaml:"enable_rerank"`
	RerankTopDocs        int  `yaml:"rerank_top_docs"`
	ChunkSize            int  `yaml:"chunk_size"`
	ChunkOverlap         int  `yaml:"chunk_overlap"`
}

// RunnerConfig bounds the investigation loop.
type RunnerConfig struct {
	MaxRounds                  int        `yaml:"max_rounds"`
	ContinueRounds             int        `yaml:"continue_rounds"`
	RoundDelaySeconds          int        `yaml:"round_delay_seconds"`
	DecisionPollIntervalSecond int        `yaml:"decision_poll_interval_seconds"`
	DecisionTimeoutSeconds     int        `yaml:"decision_timeout_seconds"`
	RepairJSON                 bool       `yaml:"repair_json"`
	Reflection                 Reflection `yaml:"reflection"`
}

// Reflection holds the self-reflection gate thresholds. They are
// heuristics; all of them are tunable because they can misfire on
// legitimately short or negatively phrased correct answers.
type Reflection struct {
	Disabled          bool     `yaml:"disabled"`
	MinAnswerLength   int      `yaml:"min_answer_length"`
	MinToolCalls      int      `yaml:"min_tool_calls"`
	LowRoundThreshold int      `yaml:"low_round_threshold"`
	FailureKeywords   []string `yaml:"failure_keywords"`
}

// ObserverConfig points lifecycle updates at an external endpoint.
type ObserverConfig struct {
	CallbackURL string `yaml:"callback_url"`
	Secret      string `yaml:"secret"`
	DecisionURL string `yaml:"decision_url"`
}

// Default returns the settings used when no file overrides them.
func Default() Settings {
	return Settings{
		API: APIConfig{
			Provider:        "openrouter",
			OpenRouterModel: "deepseek/deepseek-r1:free",
			ReasoningEffort: "low",
		},
		Search: SearchConfig{
			MaxToolCallsPerRound: 3,
			ToolAttempts:         3,
			BackoffBaseMillis:    500,
			EnableRerank:         true,
			RerankTopDocs:        5,
			ChunkSize:            1000,
			ChunkOverlap:         500,
		},
		Runner: RunnerConfig{
			MaxRounds:                  10,
			ContinueRounds:             3,
			RoundDelaySeconds:          20,
			DecisionPollIntervalSecond: 5,
			DecisionTimeoutSeconds:     120,
			Reflection: Reflection{
				MinAnswerLength:   100,
				MinToolCalls:      3,
				LowRoundThreshold: 2,
				FailureKeywords: []string{
					"i could not",
					"unable to find",
					"no information",
					"insufficient information",
					"cannot determine",
				},
			},
		},
	}
}

// Load reads settings from path (optional; empty path keeps defaults),
// then applies environment overrides and validates.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &s); err != nil {
			return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	s.applyEnv()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		s.API.OpenRouterAPIKey = v
	}
	if v := os.Getenv("JINA_API_KEY"); v != "" {
		s.API.JinaAPIKey = v
	}
	if v := os.Getenv("QUESTOR_CALLBACK_URL"); v != "" {
		s.Observer.CallbackURL = v
	}
	if v := os.Getenv("QUESTOR_WEBHOOK_SECRET"); v != "" {
		s.Observer.Secret = v
	}
	if v := os.Getenv("QUESTOR_DECISION_URL"); v != "" {
		s.Observer.DecisionURL = v
	}
}

// Validate rejects settings the runner cannot operate with.
func (s *Settings) Validate() error {
	switch s.API.Provider {
	case "openrouter", "anthropic":
	default:
		return fmt.Errorf("config: unknown provider %q", s.API.Provider)
	}
	if s.Runner.MaxRounds <= 0 {
		return fmt.Errorf("config: max_rounds must be positive, got %d", s.Runner.MaxRounds)
	}
	if s.Search.MaxToolCallsPerRound <= 0 {
		return fmt.Errorf("config: max_tool_calls_per_round must be positive, got %d", s.Search.MaxToolCallsPerRound)
	}
	if s.Search.ChunkOverlap >= s.Search.ChunkSize {
		return fmt.Errorf("config: chunk_overlap %d must be smaller than chunk_size %d", s.Search.ChunkOverlap, s.Search.ChunkSize)
	}
	return nil
}
