// Package plan decodes the model-facing response schema out of an already
// extracted JSON value.
//
// Fixed keys: status_update, memory_updates, tool_calls, answer. Parsing is
// permissive about extras and malformed entries, since a planner that emits
// a half-usable plan should still move the run forward, but the structural
// caps (tool calls per round) are enforced here.
package plan

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/questor-ai/questor/internal/workspace"
	"github.com/questor-ai/questor/tools"
)

// Plan is one round's parsed planner decision.
type Plan struct {
	Status        workspace.Status
	MemoryUpdates []workspace.Update
	ToolCalls     []tools.Call
	Answer        *string
}

// Parse reads a plan from raw JSON. maxToolCalls truncates the proposed
// calls to the per-round cap.
func Parse(raw json.RawMessage, maxToolCalls int) (Plan, error) {
	if !gjson.ValidBytes(raw) {
		return Plan{}, fmt.Errorf("plan: invalid JSON")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Plan{}, fmt.Errorf("plan: top-level value is not an object")
	}

	p := Plan{Status: workspace.StatusInProgress}
	if s := root.Get("status_update"); s.Exists() && workspace.Status(s.String()) == workspace.StatusDone {
		p.Status = workspace.StatusDone
	}

	root.Get("memory_updates").ForEach(func(_, item gjson.Result) bool {
		op := item.Get("operation").Str
		switch op {
		case workspace.OpAdd:
			if content := item.Get("content"); content.Exists() {
				p.MemoryUpdates = append(p.MemoryUpdates, workspace.Update{
					Operation: workspace.OpAdd,
					Content:   content.String(),
				})
			}
		case workspace.OpDelete:
			if id := item.Get("id"); id.Exists() {
				p.MemoryUpdates = append(p.MemoryUpdates, workspace.Update{
					Operation: workspace.OpDelete,
					ID:        id.String(),
				})
			}
		}
		return true
	})

	root.Get("tool_calls").ForEach(func(_, item gjson.Result) bool {
		tool := item.Get("tool").String()
		input := item.Get("input").String()
		if tool == "" || input == "" {
			return true
		}
		p.ToolCalls = append(p.ToolCalls, tools.Call{Tool: tool, Input: input})
		return true
	})
	if maxToolCalls > 0 && len(p.ToolCalls) > maxToolCalls {
		p.ToolCalls = p.ToolCalls[:maxToolCalls]
	}

	if a := root.Get("answer"); a.Exists() && a.Type == gjson.String {
		answer := a.String()
		p.Answer = &answer
	}

	return p, nil
}
