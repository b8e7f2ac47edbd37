package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultRerankURL = "https://api.jina.ai/v1/rerank"
const defaultRerankModel = "jina-reranker-v2-base-multilingual"

// Reranker scores chunks of a document against a query and keeps the top
// ones. Used to compress scraped pages down to what matters for the task.
type Reranker struct {
	URL          string
	APIKey       string
	Model        string
	TopDocs      int
	ChunkSize    int
	ChunkOverlap int
	Client       *http.Client
}

// NewReranker returns a reranker with the default chunking parameters:
// 1000-char chunks with 500-char overlap, top 5 documents kept.
func NewReranker(apiKey string) *Reranker {
	return &Reranker{
		URL:          defaultRerankURL,
		APIKey:       apiKey,
		Model:        defaultRerankModel,
		TopDocs:      5,
		ChunkSize:    1000,
		ChunkOverlap: 500,
		Client:       &http.Client{Timeout: 60 * time.Second},
	}
}

// Rerank splits text into overlapping chunks, ranks them against query,
// and returns the top chunks joined by newlines.
func (r *Reranker) Rerank(ctx context.Context, text, query string) (string, error) {
	chunks := segment(text, r.ChunkSize, r.ChunkOverlap)
	if len(chunks) == 0 {
		return "", nil
	}

	payload := map[string]any{
		"model":     r.Model,
		"query":     query,
		"top_n":     r.TopDocs,
		"documents": chunks,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.APIKey)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", &StatusError{Code: resp.StatusCode, Body: string(b)}
	}

	var decoded struct {
		Results []struct {
			Document struct {
				Text string `json:"text"`
			} `json:"document"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode rerank response: %w", err)
	}

	parts := make([]string, 0, len(decoded.Results))
	for _, res := range decoded.Results {
		parts = append(parts, res.Document.Text)
	}
	return strings.Join(parts, "\n"), nil
}

// segment splits text into chunks of at most size runes with the given
// overlap between consecutive chunks.
func segment(text string, size, overlap int) []string {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 2
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{text}
	}
	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
