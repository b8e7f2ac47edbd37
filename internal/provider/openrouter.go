package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"
const defaultOpenRouterModel = "deepseek/deepseek-r1:free"

// OpenRouter is a Planner over the OpenRouter chat-completions API.
// Reasoning-capable models return a separate reasoning field; it is
// re-embedded between think markers so the loop's stripping step sees one
// uniform text shape.
type OpenRouter struct {
	BaseURL         string
	Model           string
	APIKey          string
	ReasoningEffort string
	Client          *http.Client
}

// NewOpenRouter returns a planner with the default DeepSeek model.
func NewOpenRouter(apiKey string) *OpenRouter {
	return &OpenRouter{
		BaseURL:         defaultOpenRouterURL,
		Model:           defaultOpenRouterModel,
		APIKey:          apiKey,
		ReasoningEffort: "low",
		Client:          &http.Client{Timeout: 5 * time.Minute},
	}
}

func (o *OpenRouter) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":    o.Model,
		"messages": []map[string]string{{"role": "user", "content": prompt}},
	}
	if strings.Contains(strings.ToLower(o.Model), "r1") {
		payload["reasoning"] = map[string]string{"effort": o.ReasoningEffort}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", &Error{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", &Error{Status: resp.StatusCode, Message: string(b)}
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content   string `json:"content"`
				Reasoning string `json:"reasoning"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &Error{Message: "decode response", Err: err}
	}
	if len(decoded.Choices) == 0 {
		return "", &Error{Message: "no choices in response"}
	}

	msg := decoded.Choices[0].Message
	if strings.TrimSpace(msg.Reasoning) != "" {
		return "<think>\n" + msg.Reasoning + "\n</think>\n" + msg.Content, nil
	}
	return msg.Content, nil
}
