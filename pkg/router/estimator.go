package router

import (
	"fmt"
	"math/rand"
	"strings"
)

// estimator turns a query into a candidate agent with a confidence and
// a human-readable rationale. Estimators are total: they always return
// an estimate, defaulting to the general agent.
type estimator func(query string, rctx *RequestContext) Estimate

const (
	patternScoreFloor   = 0.2
	patternConfidence   = 0.3
	patternCap          = 0.95
	simulatedLLMCap     = 0.98
	continuityBoost     = 0.1
	longQueryThreshold  = 100
	fallbackLongConf    = 0.4
	fallbackDefaultConf = 0.3
)

// estimateByPattern runs per-agent regex patterns against the full query
// and scores each agent by match count normalized by word count.
func estimateByPattern(rs *RuleSet) estimator {
	return func(query string, _ *RequestContext) Estimate {
		words := wordCount(query)
		if words == 0 {
			words = 1
		}

		best := Estimate{Agent: AgentGeneral}
		bestScore := 0.0
		for _, rule := range rs.rules {
			if len(rule.patterns) == 0 {
				continue
			}
			matches := rule.patternMatches(query)
			if matches == 0 {
				continue
			}
			score := float64(matches) / float64(words)
			if score > bestScore {
				bestScore = score
				best = Estimate{
					Agent:     rule.agent,
					Reasoning: fmt.Sprintf("matched %d pattern terms for %s", matches, rule.agent),
				}
			}
		}

		if bestScore <= patternScoreFloor {
			return Estimate{
				Agent:      AgentGeneral,
				Confidence: patternConfidence,
				Reasoning:  "no strong pattern match, routing to general agent",
			}
		}

		best.Confidence = minFloat(bestScore, patternCap)
		return best
	}
}

// estimateBySimulatedLLM imitates LLM intent inference with weighted
// keyword scoring per agent and a conversation-continuity boost.
func estimateBySimulatedLLM(rs *RuleSet) estimator {
	return func(query string, rctx *RequestContext) Estimate {
		lower := strings.ToLower(query)

		best := Estimate{Agent: AgentGeneral}
		bestScore := -1.0
		bestIntent := "general"
		for _, rule := range rs.rules {
			score := rule.base + keywordScore(lower, rule.keywords)
			if rctx != nil && rctx.PreviousAgent == rule.agent {
				score += continuityBoost
			}
			if score > bestScore {
				bestScore = score
				bestIntent = rule.intent
				best = Estimate{Agent: rule.agent}
			}
		}

		best.Confidence = minFloat(bestScore, simulatedLLMCap)
		best.Reasoning = fmt.Sprintf("simulated LLM inferred intent %q (score %.2f)", bestIntent, bestScore)
		return best
	}
}

// mlWeights is the fixed weight table of the heuristic classifier:
// query length, question mark, digit, average word length, sentiment.
var mlWeights = map[Agent][5]float64{
	AgentHR:      {0.25, 0.05, 0.05, 0.30, 0.10},
	AgentSales:   {0.15, 0.10, 0.30, 0.20, 0.10},
	AgentSupport: {0.10, 0.30, 0.10, 0.10, 0.05},
	AgentGeneral: {0.05, 0.15, 0.05, 0.10, 0.25},
}

// estimateByFeatures extracts crude numeric features from the query and
// computes a weighted score per agent plus a small random jitter.
func estimateByFeatures(rng *rand.Rand) estimator {
	return func(query string, _ *RequestContext) Estimate {
		f := extractFeatures(query)

		best := Estimate{Agent: AgentGeneral}
		bestScore := -1.0
		for _, agent := range Agents {
			weights, ok := mlWeights[agent]
			if !ok {
				continue
			}
			score := 0.0
			for i := range weights {
				score += weights[i] * f[i]
			}
			score += rng.Float64() * 0.1
			if score > bestScore {
				bestScore = score
				best = Estimate{Agent: agent}
			}
		}

		best.Confidence = clamp01(bestScore)
		best.Reasoning = fmt.Sprintf("heuristic classifier scored %s at %.2f", best.Agent, best.Confidence)
		return best
	}
}

// estimateFallback is the guaranteed default strategy.
func estimateFallback(query string, _ *RequestContext) Estimate {
	if len(query) > longQueryThreshold {
		return Estimate{
			Agent:      AgentGeneral,
			Confidence: fallbackLongConf,
			Reasoning:  "long query routed to general agent for manual triage",
		}
	}
	return Estimate{
		Agent:      AgentGeneral,
		Confidence: fallbackDefaultConf,
		Reasoning:  "fallback routing to general agent",
	}
}

// extractFeatures computes the feature vector of the heuristic classifier,
// each component normalized to [0,1].
func extractFeatures(query string) [5]float64 {
	fields := strings.Fields(query)
	words := len(fields)

	var f [5]float64
	f[0] = minFloat(float64(words), 20) / 20

	if strings.Contains(query, "?") {
		f[1] = 1
	}
	if strings.ContainsAny(query, "0123456789") {
		f[2] = 1
	}

	if words > 0 {
		total := 0
		for _, w := range fields {
			total += len(w)
		}
		avg := float64(total) / float64(words)
		f[3] = minFloat(avg, 12) / 12
	}

	f[4] = sentimentScore(strings.ToLower(query))
	return f
}

var (
	positiveWords = []string{"please", "thanks", "thank", "great", "good", "love", "happy"}
	negativeWords = []string{"problem", "issue", "error", "broken", "angry", "refund", "cancel", "bad", "wrong"}
)

// sentimentScore is a crude lexicon sentiment in [0,1]; 0.5 is neutral.
func sentimentScore(query string) float64 {
	score := 0.5
	for _, w := range positiveWords {
		if containsKeyword(query, w) {
			score += 0.1
		}
	}
	for _, w := range negativeWords {
		if containsKeyword(query, w) {
			score -= 0.1
		}
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
