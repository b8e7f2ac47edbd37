package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questor-ai/questor/internal/provider"
)

func TestOpenRouterConcatenatesReasoning(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"status_update\":\"IN_PROGRESS\"}","reasoning":"let me think"}}]}`))
	}))
	defer srv.Close()

	p := provider.NewOpenRouter("key")
	p.BaseURL = srv.URL
	p.Client = srv.Client()

	out, err := p.Generate(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(out, "<think>\nlet me think\n</think>\n") {
		t.Fatalf("reasoning not delimited: %q", out)
	}
	if !strings.Contains(out, `"status_update"`) {
		t.Fatalf("content missing: %q", out)
	}
	if _, ok := gotBody["reasoning"]; !ok {
		t.Fatal("reasoning effort not requested for an r1 model")
	}
}

func TestOpenRouterNon200IsPlannerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := provider.NewOpenRouter("wrong")
	p.BaseURL = srv.URL
	p.Client = srv.Client()

	_, err := p.Generate(context.Background(), "x")
	var pe *provider.Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *provider.Error, got %T: %v", err, err)
	}
	if pe.Status != http.StatusUnauthorized {
		t.Fatalf("status not captured: %+v", pe)
	}
}

func TestOpenRouterPlainModelSkipsReasoningField(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi","reasoning":""}}]}`))
	}))
	defer srv.Close()

	p := provider.NewOpenRouter("key")
	p.Model = "qwen/qwen-2.5"
	p.BaseURL = srv.URL
	p.Client = srv.Client()

	out, err := p.Generate(context.Background(), "x")
	if err != nil || out != "hi" {
		t.Fatalf("got %q, %v", out, err)
	}
	if _, ok := gotBody["reasoning"]; ok {
		t.Fatal("reasoning field sent for a non-reasoning model")
	}
}
