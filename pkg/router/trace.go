package router

import (
	"fmt"
	"math"
	"time"
)

// Trace is a step-structured rendering of a decision for audit display.
// The Query field is intentionally left blank; the caller fills it.
type Trace struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Query     string      `json:"query"`
	Steps     []TraceStep `json:"steps"`
	Success   bool        `json:"success"`
	Timestamp time.Time   `json:"timestamp"`
}

// TraceStep is one named stage of a decision trace.
type TraceStep struct {
	Name       string            `json:"name"`
	Agent      Agent             `json:"agent"`
	Intent     string            `json:"intent"`
	Method     Method            `json:"method"`
	Confidence float64           `json:"confidence"`
	LatencyMs  float64           `json:"latency_ms"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// BuildTrace converts a decision into an ordered two-step audit trace.
// The latency fragments split 30%/70% and sum to the rounded total.
// Pure function; only called on successful decisions, so Success is
// always true.
func BuildTrace(d *Decision, sessionID string) *Trace {
	total := math.Round(d.LatencyMs)
	analysis := math.Round(d.LatencyMs * 0.3)

	return &Trace{
		ID:        d.ID,
		SessionID: sessionID,
		Success:   true,
		Timestamp: d.Timestamp,
		Steps: []TraceStep{
			{
				Name:       "Query Analysis",
				Agent:      d.SelectedAgent,
				Intent:     d.Intent,
				Method:     d.Method,
				Confidence: d.Confidence,
				LatencyMs:  analysis,
				Metadata: map[string]string{
					"query_length": d.Metadata["query_length"],
					"intent":       d.Intent,
				},
			},
			{
				Name:       "Agent Selection",
				Agent:      d.SelectedAgent,
				Intent:     d.Intent,
				Method:     d.Method,
				Confidence: d.Confidence,
				LatencyMs:  total - analysis,
				Metadata: map[string]string{
					"method":     string(d.Method),
					"confidence": fmt.Sprintf("%.2f", d.Confidence),
					"reasoning":  d.Reasoning,
				},
			},
		},
	}
}
