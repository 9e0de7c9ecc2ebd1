package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zen-systems/routesim/pkg/adapter"
)

// Advisor refines low-confidence estimates by asking a real LLM to pick
// the agent. Any advisor failure leaves the original estimate in place.
type Advisor struct {
	adapters map[string]adapter.Adapter
}

// NewAdvisor creates an advisor over a set of provider adapters.
func NewAdvisor(adapters map[string]adapter.Adapter) *Advisor {
	return &Advisor{adapters: adapters}
}

// shouldConsult gates advisor usage: it only runs when enabled, configured,
// and the estimate sits below the confidence threshold.
func (a *Advisor) shouldConsult(enabled bool, adapterName, model string, est Estimate, threshold float64) bool {
	if a == nil || !enabled {
		return false
	}
	if strings.TrimSpace(adapterName) == "" || strings.TrimSpace(model) == "" {
		return false
	}
	return est.Confidence < threshold
}

// Consult asks the configured adapter to choose an agent for the query.
// On any failure the original estimate is returned unchanged alongside
// the error.
func (a *Advisor) Consult(ctx context.Context, adapterName, model, query string, est Estimate) (Estimate, *adapter.Usage, error) {
	impl, ok := a.adapters[adapterName]
	if !ok || impl == nil {
		return est, nil, fmt.Errorf("advisor adapter %q not available", adapterName)
	}

	resp, err := impl.Generate(ctx, model, buildAdvisorPrompt(query, est))
	if err != nil {
		return est, nil, err
	}
	if resp == nil || resp.Content == "" {
		return est, nil, fmt.Errorf("advisor returned empty response")
	}

	pick, err := parseAdvisorResponse(resp.Content)
	if err != nil {
		return est, resp.Usage, err
	}

	if !ValidAgent(pick.Agent) {
		return est, resp.Usage, fmt.Errorf("advisor agent %q not in the agent set", pick.Agent)
	}
	if pick.Confidence < 0 || pick.Confidence > 1 {
		return est, resp.Usage, fmt.Errorf("advisor confidence out of range")
	}

	return Estimate{
		Agent:      Agent(pick.Agent),
		Confidence: pick.Confidence,
		Reasoning:  pick.Reason,
	}, resp.Usage, nil
}

type advisorPick struct {
	Agent      string  `json:"agent"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

func parseAdvisorResponse(content string) (*advisorPick, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var pick advisorPick
	if err := json.Unmarshal([]byte(content), &pick); err != nil {
		return nil, err
	}
	if pick.Agent == "" {
		return nil, fmt.Errorf("missing agent")
	}
	return &pick, nil
}

func buildAdvisorPrompt(query string, est Estimate) string {
	var sb strings.Builder
	sb.WriteString("You are a routing advisor. Choose the best destination agent.\n")
	sb.WriteString("Return ONLY JSON: {\"agent\":\"...\",\"confidence\":0-1,\"reason\":\"...\"}.\n\n")
	sb.WriteString("User query:\n")
	sb.WriteString(query)
	sb.WriteString("\n\nAgents:\n")
	for _, agent := range Agents {
		sb.WriteString(fmt.Sprintf("- %s\n", agent))
	}
	sb.WriteString(fmt.Sprintf("\nHeuristic estimate: %s (confidence %.2f)\n", est.Agent, est.Confidence))
	return sb.String()
}
