package tools_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questor-ai/questor/tools"
)

func TestSearchDecodesAndFormats(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"url":"https://a.example","title":"A","description":"first"},
			{"url":"https://b.example","title":"B","description":"second"}
		]}`))
	}))
	defer srv.Close()

	s := tools.NewSearcher("key-1")
	s.BaseURL = srv.URL
	s.Client = srv.Client()

	results, err := s.Search(context.Background(), "solar output 2023")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !strings.Contains(gotPath, "solar") {
		t.Fatalf("query not in request path: %s", gotPath)
	}
	if gotAuth != "Bearer key-1" {
		t.Fatalf("missing auth header, got %q", gotAuth)
	}

	formatted := tools.FormatResults(results)
	for _, want := range []string{"Title: A", "URL Source: https://b.example", "Description: second"} {
		if !strings.Contains(formatted, want) {
			t.Fatalf("formatted output missing %q:\n%s", want, formatted)
		}
	}
}

func TestSearchNon200IsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := tools.NewSearcher("")
	s.BaseURL = srv.URL
	s.Client = srv.Client()

	_, err := s.Search(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestScrapeSetsReaderHeaders(t *testing.T) {
	var gotRetain, gotLinks string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRetain = r.Header.Get("X-Retain-Images")
		gotLinks = r.Header.Get("X-With-Links-Summary")
		_, _ = w.Write([]byte("page text"))
	}))
	defer srv.Close()

	sc := tools.NewScraper("", nil)
	sc.BaseURL = srv.URL
	sc.Client = srv.Client()

	out, err := sc.Scrape(context.Background(), "https://example.com/report", "")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if out != "page text" {
		t.Fatalf("unexpected body %q", out)
	}
	if gotRetain != "none" || gotLinks != "true" {
		t.Fatalf("reader headers not set: retain=%q links=%q", gotRetain, gotLinks)
	}
}

func TestScrapeReranksAgainstTask(t *testing.T) {
	reader := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("filler ", 400)))
	}))
	defer reader.Close()
	ranker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"document":{"text":"relevant chunk"}}]}`))
	}))
	defer ranker.Close()

	rr := tools.NewReranker("")
	rr.URL = ranker.URL
	rr.Client = ranker.Client()
	sc := tools.NewScraper("", rr)
	sc.BaseURL = reader.URL
	sc.Client = reader.Client()

	out, err := sc.Scrape(context.Background(), "https://example.com", "the task")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if out != "relevant chunk" {
		t.Fatalf("expected reranked text, got %q", out)
	}
}
