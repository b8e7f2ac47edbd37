package workspace

import "fmt"

// Snapshot is the structured serialization of a workspace: an explicit
// block list with ids, so a resumed run reconstructs ids and order exactly.
// The rendered text form is for the model only and is never re-parsed.
type Snapshot struct {
	Status Status  `json:"status"`
	Blocks []Block `json:"blocks"`
	Answer *string `json:"answer,omitempty"`
}

// Snapshot captures the current state.
func (w *Workspace) Snapshot() Snapshot {
	s := Snapshot{Status: w.status, Blocks: w.Blocks()}
	if w.hasAns {
		answer := w.answer
		s.Answer = &answer
	}
	return s
}

// FromSnapshot reconstructs a workspace. Block ids and insertion order are
// restored exactly; duplicate ids make the snapshot unusable and are
// rejected rather than silently merged.
func FromSnapshot(s Snapshot) (*Workspace, error) {
	w := New()
	w.status = s.Status
	if w.status == "" {
		w.status = StatusInProgress
	}
	for _, b := range s.Blocks {
		if _, exists := w.blocks.Get(b.ID); exists {
			return nil, fmt.Errorf("workspace snapshot: duplicate block id %q", b.ID)
		}
		w.blocks.Set(b.ID, b.Content)
	}
	if s.Answer != nil {
		w.answer = *s.Answer
		w.hasAns = true
	}
	return w, nil
}
