package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// AgentRules holds the per-agent classification tables.
type AgentRules struct {
	Agents map[string]AgentRule `yaml:"agents"`
}

// AgentRule defines how queries are matched to one agent category.
type AgentRule struct {
	// Intent is the label the simulated-LLM strategy reports for this agent.
	Intent string `yaml:"intent"`
	// Patterns are regular expressions used by the pattern-match strategy.
	// Agents without patterns are never pattern-matched.
	Patterns []string `yaml:"patterns,omitempty"`
	// Keywords are scored terms used by the simulated-LLM strategy.
	Keywords []string `yaml:"keywords,omitempty"`
	// Base is a flat score bonus applied before keyword scoring.
	Base float64 `yaml:"base,omitempty"`
}

// LoadAgentRules reads agent rule tables from a YAML file.
func LoadAgentRules(path string) (*AgentRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rules AgentRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent rules in %s: %w", path, err)
	}
	return &rules, nil
}

// Validate checks that every rule is well formed and every pattern compiles.
func (r *AgentRules) Validate() error {
	if len(r.Agents) == 0 {
		return fmt.Errorf("at least one agent rule is required")
	}
	for name, rule := range r.Agents {
		if rule.Intent == "" {
			return fmt.Errorf("agent %s: intent label is required", name)
		}
		for _, p := range rule.Patterns {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("agent %s: bad pattern %q: %w", name, p, err)
			}
		}
	}
	return nil
}

// DefaultAgentRules returns the built-in agent rule tables.
func DefaultAgentRules() *AgentRules {
	return &AgentRules{
		Agents: map[string]AgentRule{
			"hr": {
				Intent: "lease_inquiry",
				Patterns: []string{
					`\blease agreement\b`,
					`\b(lease|leasing|rent|rental|tenant|landlord|deposit)\b`,
					`\b(property|properties|apartment|unit|maintenance request)\b`,
					`\b(employee|payroll|benefits|hiring|onboarding|vacation)\b`,
				},
				Keywords: []string{
					"lease", "rent", "tenant", "landlord", "property", "apartment",
					"deposit", "employee", "payroll", "benefits", "vacation",
				},
			},
			"sales": {
				Intent: "sales_inquiry",
				Patterns: []string{
					`\b(price|pricing|quote|cost)\b`,
					`\b(purchase|buy|order|invoice|discount|upgrade|subscription|demo)\b`,
				},
				Keywords: []string{
					"price", "pricing", "quote", "purchase", "buy", "order",
					"invoice", "discount", "upgrade", "plan", "demo",
				},
			},
			"support": {
				Intent: "support_request",
				Patterns: []string{
					`\b(help|support|assist)\b`,
					`\b(issue|problem|error|bug|broken|crash|failing|cannot|can't)\b`,
				},
				Keywords: []string{
					"help", "support", "issue", "problem", "error", "bug",
					"broken", "fix", "crash", "troubleshoot",
				},
			},
			"general": {
				Intent: "general",
				Base:   0.1,
				Keywords: []string{
					"hello", "hi", "thanks", "info", "information", "question", "general",
				},
			},
		},
	}
}
