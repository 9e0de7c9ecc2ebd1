package router

import (
	"context"
	"errors"
	"testing"

	"github.com/zen-systems/routesim/pkg/adapter"
)

// scriptedAdapter returns a fixed response or error and counts calls.
type scriptedAdapter struct {
	content string
	err     error
	calls   int
}

func (a *scriptedAdapter) Name() string     { return "scripted" }
func (a *scriptedAdapter) Models() []string { return []string{"scripted-1"} }

func (a *scriptedAdapter) Generate(_ context.Context, _ string, _ string) (*adapter.Response, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &adapter.Response{Content: a.content, Usage: &adapter.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}}, nil
}

func TestAdvisorShouldConsult(t *testing.T) {
	adv := NewAdvisor(nil)
	est := Estimate{Agent: AgentGeneral, Confidence: 0.4}

	tests := []struct {
		name      string
		enabled   bool
		adapter   string
		model     string
		threshold float64
		want      bool
	}{
		{"consults below threshold", true, "mock", "mock-1", 0.7, true},
		{"disabled", false, "mock", "mock-1", 0.7, false},
		{"no adapter configured", true, "", "mock-1", 0.7, false},
		{"no model configured", true, "mock", "", 0.7, false},
		{"confidence at threshold", true, "mock", "mock-1", 0.4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adv.shouldConsult(tt.enabled, tt.adapter, tt.model, est, tt.threshold)
			if got != tt.want {
				t.Errorf("shouldConsult = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdvisorNilReceiver(t *testing.T) {
	var adv *Advisor
	if adv.shouldConsult(true, "mock", "mock-1", Estimate{Confidence: 0.1}, 0.7) {
		t.Fatal("nil advisor must never consult")
	}
}

func TestAdvisorConsultAppliesAdvice(t *testing.T) {
	impl := &scriptedAdapter{content: "```json\n{\"agent\":\"sales\",\"confidence\":0.91,\"reason\":\"pricing intent\"}\n```"}
	adv := NewAdvisor(map[string]adapter.Adapter{"scripted": impl})
	est := Estimate{Agent: AgentGeneral, Confidence: 0.4}

	got, usage, err := adv.Consult(context.Background(), "scripted", "scripted-1", "how much does the pro plan cost", est)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Agent != AgentSales || got.Confidence != 0.91 {
		t.Fatalf("advice not applied: %+v", got)
	}
	if got.Reasoning != "pricing intent" {
		t.Fatalf("unexpected reasoning %q", got.Reasoning)
	}
	if usage == nil || usage.PromptTokens != 10 {
		t.Fatalf("usage not propagated: %+v", usage)
	}
	if impl.calls != 1 {
		t.Fatalf("expected 1 adapter call, got %d", impl.calls)
	}
}

func TestAdvisorConsultKeepsEstimateOnFailure(t *testing.T) {
	est := Estimate{Agent: AgentGeneral, Confidence: 0.4, Reasoning: "heuristic"}

	tests := []struct {
		name string
		impl *scriptedAdapter
	}{
		{"adapter error", &scriptedAdapter{err: errors.New("boom")}},
		{"invalid json", &scriptedAdapter{content: "not json at all"}},
		{"unknown agent", &scriptedAdapter{content: `{"agent":"wizard","confidence":0.9}`}},
		{"confidence out of range", &scriptedAdapter{content: `{"agent":"sales","confidence":1.5}`}},
		{"empty response", &scriptedAdapter{content: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adv := NewAdvisor(map[string]adapter.Adapter{"scripted": tt.impl})
			got, _, err := adv.Consult(context.Background(), "scripted", "scripted-1", "q", est)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got != est {
				t.Fatalf("estimate changed on failure: %+v", got)
			}
		})
	}
}

func TestAdvisorConsultUnknownAdapter(t *testing.T) {
	adv := NewAdvisor(map[string]adapter.Adapter{})
	est := Estimate{Agent: AgentGeneral, Confidence: 0.4}

	got, _, err := adv.Consult(context.Background(), "missing", "m", "q", est)
	if err == nil {
		t.Fatal("expected an error for a missing adapter")
	}
	if got != est {
		t.Fatalf("estimate changed: %+v", got)
	}
}

func TestParseAdvisorResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		agent   string
		wantErr bool
	}{
		{"plain json", `{"agent":"hr","confidence":0.8,"reason":"lease"}`, "hr", false},
		{"fenced json", "```json\n{\"agent\":\"support\",\"confidence\":0.7}\n```", "support", false},
		{"bare fence", "```\n{\"agent\":\"general\",\"confidence\":0.5}\n```", "general", false},
		{"missing agent", `{"confidence":0.8}`, "", true},
		{"garbage", "yes, route it to sales", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pick, err := parseAdvisorResponse(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pick.Agent != tt.agent {
				t.Fatalf("agent = %q, want %q", pick.Agent, tt.agent)
			}
		})
	}
}
