package router

import (
	"math/rand"
	"time"
)

// baseLatency is the per-method simulated processing time.
var baseLatency = map[Method]time.Duration{
	MethodRegex:    50 * time.Millisecond,
	MethodML:       150 * time.Millisecond,
	MethodLLM:      300 * time.Millisecond,
	MethodFallback: 25 * time.Millisecond,
}

const latencyVariance = 0.15

// simulatedLatency computes the artificial delay for a method with
// uniform ±15% variance.
func simulatedLatency(method Method, rng *rand.Rand) time.Duration {
	base, ok := baseLatency[method]
	if !ok {
		base = baseLatency[MethodFallback]
	}
	factor := 1 - latencyVariance + rng.Float64()*2*latencyVariance
	return time.Duration(float64(base) * factor)
}
