package workspace_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/questor-ai/questor/internal/workspace"
)

var idFormat = regexp.MustCompile(`^[a-z]{3}-[0-9]{3}$`)

func TestAddBlockRenders(t *testing.T) {
	w := workspace.New()
	id := w.AddBlock("first finding")
	if !idFormat.MatchString(id) {
		t.Fatalf("id %q does not match abc-123 format", id)
	}
	r := w.Render()
	if !strings.Contains(r, "<"+id+">first finding</"+id+">") {
		t.Fatalf("render missing block: %s", r)
	}
	if !strings.HasPrefix(r, "Status: IN_PROGRESS\n") {
		t.Fatalf("render missing status line: %s", r)
	}
}

func TestDeleteBlockOmitsFromRender(t *testing.T) {
	w := workspace.New()
	id := w.AddBlock("to be removed")
	w.DeleteBlock(id)
	if strings.Contains(w.Render(), id) {
		t.Fatalf("deleted block still rendered: %s", w.Render())
	}
	if !strings.Contains(w.Render(), "... no memory blocks ...") {
		t.Fatalf("empty workspace placeholder missing: %s", w.Render())
	}
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	w := workspace.New()
	w.AddBlock("keep")
	w.DeleteBlock("zzz-999") // must not panic or alter anything
	if w.Len() != 1 {
		t.Fatalf("unexpected block count %d", w.Len())
	}
}

func TestFiftySequentialIDsAreDistinct(t *testing.T) {
	w := workspace.New()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := w.AddBlock("note")
		if seen[id] {
			t.Fatalf("duplicate id %q at insertion %d", id, i)
		}
		seen[id] = true
	}
	if w.Len() != 50 {
		t.Fatalf("expected 50 blocks, got %d", w.Len())
	}
}

func TestRenderDeterministicAndOrdered(t *testing.T) {
	w := workspace.New()
	a := w.AddBlock("alpha")
	b := w.AddBlock("beta")
	r1 := w.Render()
	r2 := w.Render()
	if r1 != r2 {
		t.Fatal("identical state rendered differently")
	}
	if strings.Index(r1, a) > strings.Index(r1, b) {
		t.Fatalf("blocks not in insertion order: %s", r1)
	}
}

func TestApplyOrderingAndAnswerPreservation(t *testing.T) {
	w := workspace.New()
	id := w.AddBlock("stale")
	answer := "final text"
	w.Apply(workspace.StatusDone, []workspace.Update{
		{Operation: workspace.OpAdd, Content: "fresh"},
		{Operation: workspace.OpDelete, ID: id},
	}, &answer)

	if !w.IsDone() {
		t.Fatal("status not committed")
	}
	if got, ok := w.Answer(); !ok || got != "final text" {
		t.Fatalf("answer not committed: %q %v", got, ok)
	}
	if strings.Contains(w.Render(), "stale") || !strings.Contains(w.Render(), "fresh") {
		t.Fatalf("ops not applied in order: %s", w.Render())
	}

	// A later apply without an answer must preserve the stored one.
	w.Apply(workspace.StatusDone, nil, nil)
	if got, _ := w.Answer(); got != "final text" {
		t.Fatalf("answer lost on nil apply: %q", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	w := workspace.New()
	w.AddBlock("one")
	w.AddBlock("two")
	answer := "a"
	w.Apply(workspace.StatusDone, nil, &answer)

	restored, err := workspace.FromSnapshot(w.Snapshot())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Render() != w.Render() {
		t.Fatalf("lossy restore:\n%s\nvs\n%s", restored.Render(), w.Render())
	}
	if got, ok := restored.Answer(); !ok || got != "a" {
		t.Fatalf("answer not restored: %q %v", got, ok)
	}
}

func TestFromSnapshotRejectsDuplicateIDs(t *testing.T) {
	_, err := workspace.FromSnapshot(workspace.Snapshot{
		Status: workspace.StatusInProgress,
		Blocks: []workspace.Block{{ID: "abc-123", Content: "x"}, {ID: "abc-123", Content: "y"}},
	})
	if err == nil {
		t.Fatal("expected duplicate id rejection")
	}
}
