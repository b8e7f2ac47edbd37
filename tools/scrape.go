package tools

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultReaderBaseURL = "https://r.jina.ai"

// Scraper fetches a URL as readable text through the Jina reader endpoint.
// When a Reranker is configured, the fetched text is ranked against the
// task context so only the most relevant chunks reach the planner.
type Scraper struct {
	BaseURL  string
	APIKey   string
	Client   *http.Client
	Reranker *Reranker
}

// NewScraper returns a scraper against the default reader endpoint.
func NewScraper(apiKey string, reranker *Reranker) *Scraper {
	return &Scraper{
		BaseURL:  defaultReaderBaseURL,
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: 90 * time.Second},
		Reranker: reranker,
	}
}

// Scrape fetches the page text. A non-empty taskContext with a configured
// reranker reduces the text to the chunks most relevant to the task.
func (s *Scraper) Scrape(ctx context.Context, pageURL, taskContext string) (string, error) {
	endpoint := strings.TrimRight(s.BaseURL, "/") + "/" + pageURL
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-Retain-Images", "none")
	req.Header.Set("X-With-Links-Summary", "true")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	text := string(body)

	if s.Reranker != nil && strings.TrimSpace(taskContext) != "" {
		ranked, err := s.Reranker.Rerank(ctx, text, taskContext)
		if err != nil {
			return "", err
		}
		text = ranked
	}
	return text, nil
}

func (s *Scraper) definition() ToolDefinition {
	return ToolDefinition{
		Name:        NameScrape,
		Description: "Extract detailed readable text from a URL discovered through earlier results. Input is the URL.",
		InputSchema: ScrapeInputSchema,
		Function: func(ctx context.Context, input, taskContext string) (string, error) {
			return s.Scrape(ctx, input, taskContext)
		},
	}
}
