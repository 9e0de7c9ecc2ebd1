package router

import "strings"

const (
	optimizerBoostFactor   = 1.1
	optimizerBoostCap      = 0.99
	optimizerSwitchFactor  = 0.9
	boostMinRequests       = 5
	boostMinAvgConfidence  = 0.8
	switchMinRequests      = 10
	switchMaxAvgConfidence = 0.5
)

// optimizeEstimate adjusts an estimate using accumulated per-agent
// performance. Well-performing agents get a confidence boost; chronically
// low-confidence agents may be swapped for an alternative chosen by a
// simple secondary keyword rule. Pure function over (estimate, stats).
func optimizeEstimate(est Estimate, query string, stats AgentStats) Estimate {
	if stats.Requests > boostMinRequests && stats.AvgConfidence > boostMinAvgConfidence {
		est.Confidence = minFloat(est.Confidence*optimizerBoostFactor, optimizerBoostCap)
		est.Reasoning += " (boosted by historical performance)"
		return est
	}

	if stats.Requests > switchMinRequests && stats.AvgConfidence < switchMaxAvgConfidence {
		alt := alternativeAgent(query)
		if alt != est.Agent {
			est.Agent = alt
			est.Confidence *= optimizerSwitchFactor
			est.Reasoning += " (rerouted due to weak historical performance)"
		}
		return est
	}

	return est
}

// alternativeAgent applies the secondary routing rule used when an
// agent's historical confidence is poor.
func alternativeAgent(query string) Agent {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "help"), strings.Contains(lower, "support"):
		return AgentSupport
	case strings.Contains(lower, "general"), strings.Contains(lower, "basic"):
		return AgentGeneral
	default:
		return AgentGeneral
	}
}
