package runner

import (
	"encoding/json"

	"github.com/questor-ai/questor/internal/workspace"
	"github.com/questor-ai/questor/tools"
)

// IterationRecord is the immutable record of one completed round.
type IterationRecord struct {
	Round             int             `json:"round"`
	WorkspaceSnapshot string          `json:"workspace_snapshot"`
	ToolCalls         []tools.Record  `json:"tool_calls"`
	RawResponse       string          `json:"raw_response"`
	ParsedResponse    json.RawMessage `json:"parsed_response"`
}

// Result is returned by every run, whether it succeeded, failed, stalled
// or timed out. The final snapshot and iteration history are always
// populated; a bare error is never the only output.
type Result struct {
	RunID          string             `json:"run_id"`
	FinalSnapshot  string             `json:"final_snapshot"`
	Workspace      workspace.Snapshot `json:"workspace"`
	IsComplete     bool               `json:"is_complete"`
	Answer         string             `json:"answer,omitempty"`
	TotalRounds    int                `json:"total_rounds"`
	TotalToolCalls int                `json:"total_tool_calls"`
	Iterations     []IterationRecord  `json:"iterations"`
}
