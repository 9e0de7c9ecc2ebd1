package router

import "time"

// Agent is a fixed destination category a query can be routed to.
type Agent string

const (
	AgentHR        Agent = "hr"
	AgentSales     Agent = "sales"
	AgentSupport   Agent = "support"
	AgentGeneral   Agent = "general"
	AgentCustom    Agent = "custom"
	AgentMarketing Agent = "marketing"
	AgentAnalytics Agent = "analytics"
)

// Agents lists every valid agent category.
var Agents = []Agent{
	AgentHR, AgentSales, AgentSupport, AgentGeneral,
	AgentCustom, AgentMarketing, AgentAnalytics,
}

// ValidAgent reports whether name is one of the fixed agent categories.
func ValidAgent(name string) bool {
	for _, a := range Agents {
		if a == Agent(name) {
			return true
		}
	}
	return false
}

// Method identifies the strategy that produced a decision.
type Method string

const (
	// MethodRegex is the pattern-match strategy.
	MethodRegex Method = "regex"
	// MethodML is the heuristic feature-classifier strategy.
	MethodML Method = "ml"
	// MethodLLM is the simulated LLM intent-inference strategy.
	MethodLLM Method = "llm"
	// MethodFallback is the guaranteed default strategy. It is never
	// auto-selected; it is only reached when the dispatch table has no
	// entry for the requested method.
	MethodFallback Method = "fallback"

	// MethodAuto lets the selector pick a strategy per query.
	MethodAuto = "auto"
)

// Intent labels reported on decisions, derived from the raw query.
const (
	IntentInformation = "information_request"
	IntentInstruction = "instruction_request"
	IntentAssistance  = "assistance_request"
	IntentData        = "data_request"
	IntentGeneral     = "general_inquiry"
)

// Estimate is the raw output of one estimator strategy.
type Estimate struct {
	Agent      Agent
	Confidence float64
	Reasoning  string
}

// RequestContext carries optional caller-supplied context for a query.
type RequestContext struct {
	SessionID     string
	PreviousAgent Agent
	Attributes    map[string]string
}

// Decision is the immutable result of one routing simulation call.
type Decision struct {
	ID            string            `json:"id"`
	SelectedAgent Agent             `json:"selected_agent"`
	Confidence    float64           `json:"confidence"`
	Intent        string            `json:"intent"`
	Method        Method            `json:"method"`
	Reasoning     string            `json:"reasoning"`
	LatencyMs     float64           `json:"latency_ms"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// AgentStats accumulates per-agent performance across decisions.
type AgentStats struct {
	Requests      int     `json:"requests"`
	AvgConfidence float64 `json:"avg_confidence"`
	AvgLatency    float64 `json:"avg_latency"`
}

// Metrics summarizes the decision history on demand.
type Metrics struct {
	TotalDecisions     int                  `json:"total_decisions"`
	AverageLatency     float64              `json:"average_latency"`
	AverageConfidence  float64              `json:"average_confidence"`
	MethodDistribution map[Method]int       `json:"method_distribution"`
	AgentPerformance   map[Agent]AgentStats `json:"agent_performance"`
}
