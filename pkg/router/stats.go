package router

// updateStats folds one new sample into an agent's running statistics.
// Means are recomputed incrementally: (avg*(n-1) + new) / n.
func updateStats(prev AgentStats, confidence, latencyMs float64) AgentStats {
	n := prev.Requests + 1
	return AgentStats{
		Requests:      n,
		AvgConfidence: (prev.AvgConfidence*float64(n-1) + confidence) / float64(n),
		AvgLatency:    (prev.AvgLatency*float64(n-1) + latencyMs) / float64(n),
	}
}

// aggregate derives summary metrics from the decision history. Nothing
// is cached; empty history yields zeroed means.
func aggregate(history []Decision, stats map[Agent]AgentStats) *Metrics {
	m := &Metrics{
		TotalDecisions:     len(history),
		MethodDistribution: make(map[Method]int),
		AgentPerformance:   make(map[Agent]AgentStats, len(stats)),
	}

	for agent, s := range stats {
		m.AgentPerformance[agent] = s
	}

	if len(history) == 0 {
		return m
	}

	var latencySum, confidenceSum float64
	for _, d := range history {
		latencySum += d.LatencyMs
		confidenceSum += d.Confidence
		m.MethodDistribution[d.Method]++
	}
	m.AverageLatency = latencySum / float64(len(history))
	m.AverageConfidence = confidenceSum / float64(len(history))

	return m
}
