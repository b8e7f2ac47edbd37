package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Decision is an operator's verdict on a run that hit its round bound.
type Decision string

const (
	DecisionContinue Decision = "continue"
	DecisionFinalize Decision = "finalize"
	// DecisionNone means no verdict has been recorded yet.
	DecisionNone Decision = ""
)

// DecisionSource answers "what should a paused run do next". Poll returns
// DecisionNone without error when no verdict exists yet.
type DecisionSource interface {
	Poll(ctx context.Context, runID string) (Decision, error)
}

// HTTPDecisionSource polls an endpoint for an operator decision. The
// endpoint is expected to return {"action": "continue"} or
// {"action": "finalize"}, anything else counts as no decision yet.
type HTTPDecisionSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPDecisionSource(baseURL string) *HTTPDecisionSource {
	return &HTTPDecisionSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPDecisionSource) Poll(ctx context.Context, runID string) (Decision, error) {
	endpoint := s.BaseURL + "/" + url.PathEscape(runID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return DecisionNone, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return DecisionNone, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return DecisionNone, fmt.Errorf("decision poll: status %d", resp.StatusCode)
	}
	var body struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return DecisionNone, fmt.Errorf("decision poll: decode: %w", err)
	}
	switch Decision(body.Action) {
	case DecisionContinue:
		return DecisionContinue, nil
	case DecisionFinalize:
		return DecisionFinalize, nil
	}
	return DecisionNone, nil
}
