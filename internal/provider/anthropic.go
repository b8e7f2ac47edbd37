package provider

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

// Anthropic is a Planner over the Anthropic Messages API.
type Anthropic struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropic returns a planner using the SDK client (API key from the
// env, as the SDK reads it).
func NewAnthropic(model anthropic.Model, maxTokens int64) *Anthropic {
	c := anthropic.NewClient()
	if model == "" {
		model = DefaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Anthropic{client: &c, model: model, maxTokens: maxTokens}
}

// NewAnthropicWithClient is the injectable variant used by tests.
func NewAnthropicWithClient(client *anthropic.Client, model anthropic.Model, maxTokens int64) *Anthropic {
	if model == "" {
		model = DefaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Anthropic{client: client, model: model, maxTokens: maxTokens}
}

func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", &Error{Message: "messages.new", Err: err}
	}

	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
