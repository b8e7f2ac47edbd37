package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/questor-ai/questor/internal/workspace"
)

// RunState is the persisted view of a paused run: everything a resumed
// loop needs to reconstruct its workspace exactly: explicit block list
// with ids, never the rendered text dump.
type RunState struct {
	RunID     string             `json:"run_id"`
	Task      string             `json:"task"`
	Round     int                `json:"round"`
	Workspace workspace.Snapshot `json:"workspace"`
}

// Load reads a persisted run state. A missing file returns (nil, nil).
func Load(path string) (*RunState, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var state RunState
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, fmt.Errorf("memory: decode %s: %w", path, err)
	}
	return &state, nil
}

// Save writes the run state.
func Save(path string, state RunState) error {
	b, err := json.MarshalIndent(state, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
