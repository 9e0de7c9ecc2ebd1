package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a replayable batch of routing queries.
type Scenario struct {
	Name  string  `yaml:"name"`
	Cases []*Case `yaml:"cases"`
}

// Case is one query to replay, with optional expectations.
type Case struct {
	Name          string       `yaml:"name"`
	Query         string       `yaml:"query"`
	PreviousAgent string       `yaml:"previous_agent,omitempty"`
	Expect        *Expectation `yaml:"expect,omitempty"`
}

// Expectation asserts on the decision a case should produce.
type Expectation struct {
	Agent         string  `yaml:"agent,omitempty"`
	MinConfidence float64 `yaml:"min_confidence,omitempty"`
	Method        string  `yaml:"method,omitempty"`
}

// LoadManifest reads a scenario definition from a YAML file.
func LoadManifest(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}

	return &sc, nil
}

// Validate checks the scenario configuration for errors.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("scenario must define at least one case")
	}

	seen := make(map[string]struct{})
	for _, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("case name is required")
		}
		if c.Query == "" {
			return fmt.Errorf("case %s must have a query", c.Name)
		}
		if _, ok := seen[c.Name]; ok {
			return fmt.Errorf("duplicate case name: %s", c.Name)
		}
		seen[c.Name] = struct{}{}

		if c.Expect != nil {
			if c.Expect.MinConfidence < 0 || c.Expect.MinConfidence > 1 {
				return fmt.Errorf("case %s: min_confidence outside [0, 1]", c.Name)
			}
		}
	}

	return nil
}
