package runner

import (
	"fmt"
	"strings"

	"github.com/questor-ai/questor/internal/plan"
)

// Reflection holds the self-reflection gate thresholds. Planners tend to
// declare completion prematurely; the gate trades extra rounds for
// completeness. All thresholds are tunable, since they can misfire on
// legitimately short or negatively phrased correct answers.
type Reflection struct {
	Disabled          bool
	MinAnswerLength   int
	MinToolCalls      int
	LowRoundThreshold int
	FailureKeywords   []string
}

// evaluate returns the reasons a proposed completion should be rejected,
// or nil to accept it. Applied only to plans proposing DONE.
func (g Reflection) evaluate(p plan.Plan, round, toolCallsSoFar int) []string {
	if g.Disabled {
		return nil
	}

	var reasons []string

	answer := ""
	if p.Answer != nil {
		answer = strings.TrimSpace(*p.Answer)
	}
	if len(answer) < g.MinAnswerLength {
		reasons = append(reasons, fmt.Sprintf("answer is too short (%d chars, need %d)", len(answer), g.MinAnswerLength))
	}
	lower := strings.ToLower(answer)
	for _, kw := range g.FailureKeywords {
		if strings.Contains(lower, kw) {
			reasons = append(reasons, fmt.Sprintf("answer contains failure phrasing %q", kw))
			break
		}
	}
	if round < g.LowRoundThreshold {
		if toolCallsSoFar < g.MinToolCalls {
			reasons = append(reasons, fmt.Sprintf("only %d tool calls made so far (need %d before finishing this early)", toolCallsSoFar, g.MinToolCalls))
		}
		if len(p.ToolCalls) == 0 {
			reasons = append(reasons, "no further tool calls proposed this early in the run")
		}
	}
	return reasons
}

// correctiveNote synthesizes the memory note recorded when a completion is
// rejected, so the planner sees why in the next round.
func correctiveNote(reasons []string) string {
	return "Completion rejected by self-review: " + strings.Join(reasons, "; ") +
		". Keep investigating: gather more evidence before setting status to DONE."
}

// fallbackQuery derives a search query from the task text: collapsed
// whitespace, bounded to a handful of words.
func fallbackQuery(task string) string {
	words := strings.Fields(task)
	if len(words) > 12 {
		words = words[:12]
	}
	return strings.Join(words, " ")
}
