// Package prompt renders the model-visible text for each round: the
// investigation prompt (workspace + prior tool records) and the one-shot
// finalize prompt built from recent iteration excerpts.
//
// Rendering is deterministic: identical inputs always produce identical
// prompts, since the output becomes model context across rounds.
package prompt

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/questor-ai/questor/tools"
)

// Data feeds one investigation-round render.
type Data struct {
	CurrentDate string
	Task        string
	Workspace   string
	ToolRecords []tools.Record
}

// Renderer renders investigation prompts. Tool descriptions and input
// schemas are embedded once at construction.
type Renderer struct {
	tmpl     *template.Template
	toolDocs string
}

// NewRenderer builds a renderer advertising the given tool definitions.
func NewRenderer(defs []tools.ToolDefinition) (*Renderer, error) {
	tmpl, err := template.New("investigation").Parse(investigationTemplate)
	if err != nil {
		return nil, fmt.Errorf("prompt: parse template: %w", err)
	}
	return &Renderer{tmpl: tmpl, toolDocs: buildToolDocs(defs)}, nil
}

// Render produces the full prompt for one round.
func (r *Renderer) Render(d Data) (string, error) {
	if d.CurrentDate == "" {
		d.CurrentDate = time.Now().Format("2006-01-02")
	}
	var b strings.Builder
	err := r.tmpl.Execute(&b, struct {
		Data
		ToolDocs    string
		RecordsText string
	}{d, r.toolDocs, formatToolRecords(d.ToolRecords)})
	if err != nil {
		return "", fmt.Errorf("prompt: render: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}

// formatToolRecords renders the previous round's tool outputs as numbered
// sources, or a placeholder when there are none.
func formatToolRecords(records []tools.Record) string {
	if len(records) == 0 {
		return "... no previous tool results ..."
	}
	var b strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&b, "Source %d: %s: %s\nResult:\n```\n%s\n```\n", i+1, rec.Tool, rec.Input, rec.Output)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildToolDocs lists each tool with its description and input schema so
// the model sees the exact contract.
func buildToolDocs(defs []tools.ToolDefinition) string {
	var b strings.Builder
	for _, def := range defs {
		fmt.Fprintf(&b, "- **%s**: %s\n", def.Name, def.Description)
		if def.InputSchema != nil {
			if schema, err := json.Marshal(def.InputSchema); err == nil {
				fmt.Fprintf(&b, "  Input schema: %s\n", schema)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

var thinkRe = regexp.MustCompile(`(?s)(?:<think>)?.*?</think>`)

// StripReasoning removes the delimited internal-reasoning segment from a
// raw completion. A closing marker without an opener still strips
// everything up to it, matching reasoning models that omit the opener.
func StripReasoning(s string) string {
	return strings.TrimSpace(thinkRe.ReplaceAllString(s, ""))
}
