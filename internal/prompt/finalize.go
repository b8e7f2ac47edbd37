package prompt

import (
	"fmt"
	"strings"

	"github.com/questor-ai/questor/tools"
)

// IterationExcerpt is the bounded view of one past round used by the
// finalize prompt.
type IterationExcerpt struct {
	Round     int
	Workspace string
	Records   []tools.Record
}

const (
	maxFinalizeIterations  = 5
	excerptWorkspaceRunes  = 500
	excerptInputRunes      = 100
	excerptOutputRunes     = 200
	maxExcerptedToolCalls  = 3
)

// BuildFinalize builds the summarization-oriented prompt for the forced
// finalize pass: the most recent few iterations, each excerpted to a
// bounded length, plus the current workspace render. It requests a
// best-effort answer without further tool use.
func BuildFinalize(task string, excerpts []IterationExcerpt, workspaceRender string) string {
	if len(excerpts) > maxFinalizeIterations {
		excerpts = excerpts[len(excerpts)-maxFinalizeIterations:]
	}

	var b strings.Builder
	b.WriteString("You are a professional information analyst. Based on the investigation record below, produce a complete, accurate final answer to the task.\n\n")
	fmt.Fprintf(&b, "Task:\n%s\n\n", task)

	if len(excerpts) > 0 {
		b.WriteString("Investigation record:\n")
		for _, ex := range excerpts {
			fmt.Fprintf(&b, "\n=== Round %d ===\n", ex.Round+1)
			fmt.Fprintf(&b, "Workspace: %s\n", clip(ex.Workspace, excerptWorkspaceRunes))
			records := ex.Records
			if len(records) > maxExcerptedToolCalls {
				records = records[:maxExcerptedToolCalls]
			}
			for _, rec := range records {
				fmt.Fprintf(&b, "- %s: %s\n", rec.Tool, clip(rec.Input, excerptInputRunes))
				if rec.Output != "" {
					fmt.Fprintf(&b, "  Result: %s\n", clip(rec.Output, excerptOutputRunes))
				}
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Current workspace:\n%s\n\n", workspaceRender)
	b.WriteString("Write the final answer now. Do not request further searches. The answer should:\n")
	b.WriteString("- fully address the task using the collected information\n")
	b.WriteString("- be clearly structured and easy to follow\n")
	b.WriteString("- state explicitly which aspects lack sufficient information, if any\n\n")
	b.WriteString("Final answer:")
	return b.String()
}

// clip bounds s to n runes, appending an ellipsis when truncated.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
