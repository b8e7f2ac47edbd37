package tools

import (
	"context"

	"github.com/invopop/jsonschema"
)

// Tool names understood by the planner.
const (
	NameSearch = "search"
	NameScrape = "scrape"
)

// ToolDefinition describes one tool: its name, a model-facing description,
// the JSON schema of its input, and the handler. taskContext carries the
// task text for tools that rank their output against it; tools that don't
// need it ignore it.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    func(ctx context.Context, input, taskContext string) (string, error)
}

// GenerateSchema derives a JSON Schema for T, inlined and closed so it can
// be embedded directly into prompt text.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

type SearchInput struct {
	Query string `json:"input" jsonschema_description:"Search query to run against the web search index."`
}

type ScrapeInput struct {
	URL string `json:"input" jsonschema_description:"URL discovered through a previous tool result to fetch as readable text."`
}

var SearchInputSchema = GenerateSchema[SearchInput]()
var ScrapeInputSchema = GenerateSchema[ScrapeInput]()
