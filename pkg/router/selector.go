package router

import "strings"

const llmQueryLength = 50

// selectMethod picks the estimator strategy for a query. An explicit
// preferred method wins; "auto" chooses by query shape. The fallback
// method is never auto-selected.
func selectMethod(preferred string, query string, rs *RuleSet) Method {
	if preferred != "" && preferred != MethodAuto {
		return Method(preferred)
	}

	if len(query) > llmQueryLength && strings.Contains(query, "?") {
		return MethodLLM
	}
	if rs.anyPatternMatch(query) {
		return MethodRegex
	}
	return MethodML
}

// classifyIntent derives the reported intent label from the raw query,
// independently of the estimator that produced the decision.
func classifyIntent(query string) string {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "what"):
		return IntentInformation
	case strings.Contains(lower, "how"):
		return IntentInstruction
	case strings.Contains(lower, "help"):
		return IntentAssistance
	case strings.Contains(lower, "show"), strings.Contains(lower, "list"):
		return IntentData
	default:
		return IntentGeneral
	}
}
