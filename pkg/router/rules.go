package router

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/zen-systems/routesim/pkg/config"
)

// RuleSet holds the compiled per-agent classification tables.
type RuleSet struct {
	rules []compiledRule
}

type compiledRule struct {
	agent    Agent
	intent   string
	patterns []*regexp.Regexp
	keywords []string
	base     float64
}

// NewRuleSet compiles agent rule tables into matchers. Rule agents must be
// valid agent categories and every pattern must compile.
func NewRuleSet(rules *config.AgentRules) (*RuleSet, error) {
	if rules == nil || len(rules.Agents) == 0 {
		return nil, fmt.Errorf("agent rules are required")
	}

	rs := &RuleSet{}
	for name, rule := range rules.Agents {
		if !ValidAgent(name) {
			return nil, fmt.Errorf("unknown agent category %q", name)
		}

		compiled := compiledRule{
			agent:    Agent(name),
			intent:   rule.Intent,
			keywords: rule.Keywords,
			base:     rule.Base,
		}
		for _, p := range rule.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("agent %s: bad pattern %q: %w", name, p, err)
			}
			compiled.patterns = append(compiled.patterns, re)
		}
		rs.rules = append(rs.rules, compiled)
	}

	// Deterministic iteration order for tie-breaking.
	sort.Slice(rs.rules, func(i, j int) bool {
		return rs.rules[i].agent < rs.rules[j].agent
	})

	return rs, nil
}

// patternMatches counts regex matches for one agent's patterns across
// the whole query.
func (r compiledRule) patternMatches(query string) int {
	total := 0
	for _, re := range r.patterns {
		total += len(re.FindAllString(query, -1))
	}
	return total
}

// anyPatternMatch reports whether any agent's pattern matches the query.
func (rs *RuleSet) anyPatternMatch(query string) bool {
	for _, rule := range rs.rules {
		for _, re := range rule.patterns {
			if re.MatchString(query) {
				return true
			}
		}
	}
	return false
}
