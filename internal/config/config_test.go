package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/questor-ai/questor/internal/config"
)

func TestDefaultsValidate(t *testing.T) {
	s := config.Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if s.Runner.Reflection.MinAnswerLength == 0 || len(s.Runner.Reflection.FailureKeywords) == 0 {
		t.Fatal("reflection defaults missing")
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questor.yaml")
	content := `
api:
  provider: anthropic
  anthropic_model: claude-3-7-sonnet-latest
runner:
  max_rounds: 4
  reflection:
    min_answer_length: 50
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JINA_API_KEY", "jk-env")

	s, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.API.Provider != "anthropic" || s.Runner.MaxRounds != 4 {
		t.Fatalf("file values not applied: %+v", s)
	}
	if s.Runner.Reflection.MinAnswerLength != 50 {
		t.Fatalf("nested override not applied: %+v", s.Runner.Reflection)
	}
	if s.API.JinaAPIKey != "jk-env" {
		t.Fatal("env override not applied")
	}
	// Untouched defaults survive partial files.
	if s.Search.MaxToolCallsPerRound != 3 {
		t.Fatalf("defaults lost on partial file: %+v", s.Search)
	}
}

func TestValidateRejectsBadProvider(t *testing.T) {
	s := config.Default()
	s.API.Provider = "cohere"
	if err := s.Validate(); err == nil {
		t.Fatal("expected provider rejection")
	}
}

func TestValidateRejectsOverlapGEChunk(t *testing.T) {
	s := config.Default()
	s.Search.ChunkOverlap = s.Search.ChunkSize
	if err := s.Validate(); err == nil {
		t.Fatal("expected overlap rejection")
	}
}
