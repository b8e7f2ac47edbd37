// Package workspace holds the working memory of a single run: a status, an
// ordered set of memory blocks addressed by short unique ids, and the
// answer once one exists.
//
// A workspace is owned by exactly one run and is not safe for concurrent
// use; runs never share instances.
package workspace

import (
	"fmt"
	"math/rand/v2"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Status is the lifecycle state of a workspace.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Block is one atomic memory note.
type Block struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Operation names for Update.
const (
	OpAdd    = "add"
	OpDelete = "delete"
)

// Update is a single memory mutation requested by the planner: either an
// add (Content set) or a delete (ID set).
type Update struct {
	Operation string `json:"operation"`
	Content   string `json:"content,omitempty"`
	ID        string `json:"id,omitempty"`
}

// Workspace is the mutable working memory for one run.
type Workspace struct {
	status Status
	blocks *orderedmap.OrderedMap[string, string]
	answer string
	hasAns bool
}

// New returns an empty workspace in IN_PROGRESS state.
func New() *Workspace {
	return &Workspace{
		status: StatusInProgress,
		blocks: orderedmap.New[string, string](),
	}
}

// AddBlock inserts content under a freshly minted id and returns the id.
// Id generation retries on collision against the current id set.
func (w *Workspace) AddBlock(content string) string {
	id := w.mintID()
	w.blocks.Set(id, content)
	return id
}

// DeleteBlock removes the block if present. Deleting an unknown id is a
// no-op, not an error.
func (w *Workspace) DeleteBlock(id string) {
	w.blocks.Delete(id)
}

// Apply processes ops in order, then sets the status, then sets the answer
// if one was provided. A nil answer preserves whatever was stored before.
// Adds always mint new ids, so an add can never collide with a delete
// target in the same call.
func (w *Workspace) Apply(status Status, ops []Update, answer *string) {
	w.status = status
	for _, op := range ops {
		switch op.Operation {
		case OpAdd:
			w.AddBlock(op.Content)
		case OpDelete:
			w.DeleteBlock(op.ID)
		}
	}
	if answer != nil {
		w.answer = *answer
		w.hasAns = true
	}
}

// Status returns the current lifecycle state.
func (w *Workspace) Status() Status { return w.status }

// IsDone reports whether the workspace has left IN_PROGRESS.
func (w *Workspace) IsDone() bool { return w.status != StatusInProgress }

// Answer returns the stored answer and whether one has been set.
func (w *Workspace) Answer() (string, bool) { return w.answer, w.hasAns }

// Len returns the number of memory blocks.
func (w *Workspace) Len() int { return w.blocks.Len() }

// Blocks returns the memory blocks in insertion order.
func (w *Workspace) Blocks() []Block {
	out := make([]Block, 0, w.blocks.Len())
	for pair := w.blocks.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Block{ID: pair.Key, Content: pair.Value})
	}
	return out
}

// Render projects the workspace into the model-visible text form:
// the status line followed by every block in insertion order. The same
// state always renders to the same string.
func (w *Workspace) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", w.status)
	b.WriteString("Memory: \n")
	if w.blocks.Len() == 0 {
		b.WriteString("... no memory blocks ...\n")
		return b.String()
	}
	for pair := w.blocks.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(&b, "<%s>%s</%s>\n", pair.Key, pair.Value, pair.Key)
	}
	return b.String()
}

const (
	idLetters = "abcdefghijklmnopqrstuvwxyz"
	idDigits  = "0123456789"
)

// mintID generates a fresh id in the fixed abc-123 format, retrying until
// it does not collide with an existing block id.
func (w *Workspace) mintID() string {
	for {
		buf := make([]byte, 0, 7)
		for i := 0; i < 3; i++ {
			buf = append(buf, idLetters[rand.IntN(len(idLetters))])
		}
		buf = append(buf, '-')
		for i := 0; i < 3; i++ {
			buf = append(buf, idDigits[rand.IntN(len(idDigits))])
		}
		id := string(buf)
		if _, exists := w.blocks.Get(id); !exists {
			return id
		}
	}
}
