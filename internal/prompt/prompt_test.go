package prompt_test

import (
	"strings"
	"testing"

	"github.com/questor-ai/questor/internal/prompt"
	"github.com/questor-ai/questor/tools"
)

func testDefs() []tools.ToolDefinition {
	return []tools.ToolDefinition{
		{Name: "search", Description: "web search", InputSchema: tools.SearchInputSchema},
		{Name: "scrape", Description: "page fetch", InputSchema: tools.ScrapeInputSchema},
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r, err := prompt.NewRenderer(testDefs())
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	d := prompt.Data{
		CurrentDate: "2026-08-31",
		Task:        "What is X",
		Workspace:   "Status: IN_PROGRESS\nMemory: \n... no memory blocks ...\n",
		ToolRecords: []tools.Record{{Call: tools.Call{Tool: "search", Input: "X"}, Output: "Title: X\n"}},
	}
	p1, err := r.Render(d)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	p2, _ := r.Render(d)
	if p1 != p2 {
		t.Fatal("identical data rendered differently")
	}
	for _, want := range []string{"What is X", "Status: IN_PROGRESS", "Source 1: search: X", "status_update"} {
		if !strings.Contains(p1, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestRenderWithoutRecordsUsesPlaceholder(t *testing.T) {
	r, _ := prompt.NewRenderer(testDefs())
	p, err := r.Render(prompt.Data{CurrentDate: "2026-08-31", Task: "t", Workspace: "w"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(p, "... no previous tool results ...") {
		t.Fatal("placeholder missing for empty records")
	}
}

func TestToolSchemasEmbedded(t *testing.T) {
	r, _ := prompt.NewRenderer(testDefs())
	p, _ := r.Render(prompt.Data{Task: "t", Workspace: "w"})
	if !strings.Contains(p, "Input schema:") {
		t.Fatal("tool input schemas not embedded")
	}
}

func TestStripReasoning(t *testing.T) {
	cases := []struct{ in, want string }{
		{"<think>secret</think>{\"a\":1}", `{"a":1}`},
		{"prefix reasoning</think>{\"a\":1}", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, c := range cases {
		if got := prompt.StripReasoning(c.in); got != c.want {
			t.Fatalf("StripReasoning(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildFinalizeExcerpts(t *testing.T) {
	long := strings.Repeat("x", 2000)
	var excerpts []prompt.IterationExcerpt
	for i := 0; i < 8; i++ {
		excerpts = append(excerpts, prompt.IterationExcerpt{
			Round:     i,
			Workspace: long,
			Records:   []tools.Record{{Call: tools.Call{Tool: "search", Input: long}, Output: long}},
		})
	}
	p := prompt.BuildFinalize("the task", excerpts, "Status: IN_PROGRESS\n")

	if strings.Contains(p, "=== Round 1 ===") {
		t.Fatal("oldest rounds should be dropped, only the most recent few kept")
	}
	if !strings.Contains(p, "=== Round 8 ===") {
		t.Fatal("most recent round missing")
	}
	if strings.Contains(p, long) {
		t.Fatal("excerpts not bounded")
	}
	if !strings.Contains(p, "the task") || !strings.Contains(p, "Final answer:") {
		t.Fatal("prompt scaffolding missing")
	}
}
