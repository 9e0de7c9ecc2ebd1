package router

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/zen-systems/routesim/pkg/config"
)

func testRuleSet(t *testing.T) *RuleSet {
	t.Helper()
	rs, err := NewRuleSet(config.DefaultAgentRules())
	if err != nil {
		t.Fatalf("compile default rules: %v", err)
	}
	return rs
}

func TestPatternEstimatorLeaseQuery(t *testing.T) {
	estimate := estimateByPattern(testRuleSet(t))

	est := estimate("I need help with my lease agreement", nil)
	if est.Agent != AgentHR {
		t.Fatalf("expected hr, got %s", est.Agent)
	}
	if est.Confidence <= 0.2 {
		t.Fatalf("expected confidence above pattern floor, got %.3f", est.Confidence)
	}
	if est.Confidence > patternCap {
		t.Fatalf("confidence above cap: %.3f", est.Confidence)
	}
}

func TestPatternEstimatorNoMatch(t *testing.T) {
	estimate := estimateByPattern(testRuleSet(t))

	for _, query := range []string{"zebra xylophone quartz", ""} {
		est := estimate(query, nil)
		if est.Agent != AgentGeneral {
			t.Fatalf("query %q: expected general, got %s", query, est.Agent)
		}
		if est.Confidence != patternConfidence {
			t.Fatalf("query %q: expected confidence %.1f, got %.3f", query, patternConfidence, est.Confidence)
		}
		if !strings.Contains(est.Reasoning, "no strong pattern match") {
			t.Fatalf("query %q: unexpected reasoning %q", query, est.Reasoning)
		}
	}
}

func TestSimulatedLLMEstimator(t *testing.T) {
	estimate := estimateBySimulatedLLM(testRuleSet(t))

	est := estimate("What is the price and pricing for an upgrade?", nil)
	if est.Agent != AgentSales {
		t.Fatalf("expected sales, got %s", est.Agent)
	}
	if est.Confidence > simulatedLLMCap {
		t.Fatalf("confidence above cap: %.3f", est.Confidence)
	}
}

func TestSimulatedLLMContinuityBoost(t *testing.T) {
	estimate := estimateBySimulatedLLM(testRuleSet(t))

	// "help" and "lease" tie; previous-agent continuity breaks the tie.
	query := "I need help with my lease agreement"

	neutral := estimate(query, nil)
	if neutral.Agent != AgentHR {
		t.Fatalf("expected hr without context, got %s", neutral.Agent)
	}

	continued := estimate(query, &RequestContext{PreviousAgent: AgentSupport})
	if continued.Agent != AgentSupport {
		t.Fatalf("expected support with continuity boost, got %s", continued.Agent)
	}
	if continued.Confidence <= neutral.Confidence {
		t.Fatalf("expected boosted confidence, got %.3f <= %.3f", continued.Confidence, neutral.Confidence)
	}
}

func TestSimulatedLLMDefaultsToGeneral(t *testing.T) {
	estimate := estimateBySimulatedLLM(testRuleSet(t))

	est := estimate("zebra xylophone quartz", nil)
	if est.Agent != AgentGeneral {
		t.Fatalf("expected general via base bonus, got %s", est.Agent)
	}
}

func TestFeatureEstimatorBounds(t *testing.T) {
	estimate := estimateByFeatures(rand.New(rand.NewSource(42)))

	queries := []string{
		"",
		"short",
		"How do I reset my password? It shows error 403",
		"I would like to purchase 12 units, what is the total price?",
	}
	for _, query := range queries {
		est := estimate(query, nil)
		if est.Confidence < 0 || est.Confidence > 1 {
			t.Fatalf("query %q: confidence %.3f outside [0,1]", query, est.Confidence)
		}
		if _, ok := mlWeights[est.Agent]; !ok {
			t.Fatalf("query %q: agent %s has no weight row", query, est.Agent)
		}
	}
}

func TestFeatureEstimatorDeterministicWithSeed(t *testing.T) {
	query := "How do I reset my password?"

	first := estimateByFeatures(rand.New(rand.NewSource(7)))(query, nil)
	second := estimateByFeatures(rand.New(rand.NewSource(7)))(query, nil)

	if first.Agent != second.Agent || first.Confidence != second.Confidence {
		t.Fatalf("expected identical estimates for same seed: %+v vs %+v", first, second)
	}
}

func TestFallbackEstimator(t *testing.T) {
	long := strings.Repeat("padding ", 15) // > 100 chars
	est := estimateFallback(long, nil)
	if est.Agent != AgentGeneral || est.Confidence != fallbackLongConf {
		t.Fatalf("long query: got %s/%.2f", est.Agent, est.Confidence)
	}

	est = estimateFallback("short query", nil)
	if est.Agent != AgentGeneral || est.Confidence != fallbackDefaultConf {
		t.Fatalf("short query: got %s/%.2f", est.Agent, est.Confidence)
	}
}

func TestSentimentScore(t *testing.T) {
	tests := []struct {
		query string
		want  float64
	}{
		{"thanks this is great", 0.7},
		{"error broken again", 0.3},
		{"neutral words only", 0.5},
	}

	for _, tt := range tests {
		got := sentimentScore(tt.query)
		if got < tt.want-0.001 || got > tt.want+0.001 {
			t.Errorf("sentimentScore(%q) = %.2f, want %.2f", tt.query, got, tt.want)
		}
	}
}

func TestExtractFeatures(t *testing.T) {
	f := extractFeatures("How many units? We have 12")
	if f[1] != 1 {
		t.Errorf("expected question-mark feature set")
	}
	if f[2] != 1 {
		t.Errorf("expected digit feature set")
	}

	f = extractFeatures("")
	for i, v := range f {
		if i == 4 {
			continue // sentiment is 0.5 neutral
		}
		if v != 0 {
			t.Errorf("feature %d of empty query = %.2f, want 0", i, v)
		}
	}
}
