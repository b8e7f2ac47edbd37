package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultSearchBaseURL = "https://s.jina.ai"

// SearchResult is a single item returned by the search backend.
type SearchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Searcher queries the Jina search endpoint and formats results as text
// records for the planner.
type Searcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewSearcher returns a searcher against the default endpoint with a
// modest timeout.
func NewSearcher(apiKey string) *Searcher {
	return &Searcher{
		BaseURL: defaultSearchBaseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Search runs the query and returns structured results.
func (s *Searcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := strings.TrimRight(s.BaseURL, "/") + "/" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Retain-Images", "none")
	req.Header.Set("X-No-Cache", "true")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		Data []SearchResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return payload.Data, nil
}

// FormatResults renders results in the record form the prompt expects.
func FormatResults(results []SearchResult) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "Title: %s\n", r.Title)
		fmt.Fprintf(&b, "URL Source: %s\n", r.URL)
		fmt.Fprintf(&b, "Description: %s\n\n", r.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// SearchTool wraps a Searcher as a ToolDefinition handler.
func (s *Searcher) definition() ToolDefinition {
	return ToolDefinition{
		Name:        NameSearch,
		Description: "Broad web search for new topics, knowledge gaps, or new directions. Input is a search query.",
		InputSchema: SearchInputSchema,
		Function: func(ctx context.Context, input, _ string) (string, error) {
			results, err := s.Search(ctx, input)
			if err != nil {
				return "", err
			}
			return FormatResults(results), nil
		},
	}
}
