package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SimulationConfig holds the runtime knobs of the routing simulator.
type SimulationConfig struct {
	EnableLearning      bool    `yaml:"enable_learning"`
	PreferredMethod     string  `yaml:"preferred_method"` // "auto" or a method name
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	SimulateLatency     bool    `yaml:"simulate_latency"`
	ErrorRate           int     `yaml:"error_rate"` // percent of calls that fail synthetically
	EnableLLMAdvisor    bool    `yaml:"enable_llm_advisor"`
	AdvisorAdapter      string  `yaml:"advisor_adapter"`
	AdvisorModel        string  `yaml:"advisor_model"`
}

// fileSimulationConfig mirrors SimulationConfig with optional fields so an
// absent key in YAML keeps its default instead of zeroing it.
type fileSimulationConfig struct {
	EnableLearning      *bool    `yaml:"enable_learning"`
	PreferredMethod     *string  `yaml:"preferred_method"`
	ConfidenceThreshold *float64 `yaml:"confidence_threshold"`
	SimulateLatency     *bool    `yaml:"simulate_latency"`
	ErrorRate           *int     `yaml:"error_rate"`
	EnableLLMAdvisor    *bool    `yaml:"enable_llm_advisor"`
	AdvisorAdapter      *string  `yaml:"advisor_adapter"`
	AdvisorModel        *string  `yaml:"advisor_model"`
}

// SimulationPatch is a partial update applied over a SimulationConfig.
// Nil fields are left unchanged. Values are applied verbatim; callers are
// responsible for staying inside the documented ranges.
type SimulationPatch struct {
	EnableLearning      *bool
	PreferredMethod     *string
	ConfidenceThreshold *float64
	SimulateLatency     *bool
	ErrorRate           *int
	EnableLLMAdvisor    *bool
	AdvisorAdapter      *string
	AdvisorModel        *string
}

// DefaultSimulationConfig returns the default simulator configuration.
func DefaultSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		EnableLearning:      true,
		PreferredMethod:     "auto",
		ConfidenceThreshold: 0.7,
		SimulateLatency:     true,
		ErrorRate:           5,
	}
}

// LoadSimulationConfig reads simulator configuration from a YAML file.
// Missing keys fall back to defaults.
func LoadSimulationConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file fileSimulationConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	cfg := DefaultSimulationConfig()
	cfg.Apply(SimulationPatch{
		EnableLearning:      file.EnableLearning,
		PreferredMethod:     file.PreferredMethod,
		ConfidenceThreshold: file.ConfidenceThreshold,
		SimulateLatency:     file.SimulateLatency,
		ErrorRate:           file.ErrorRate,
		EnableLLMAdvisor:    file.EnableLLMAdvisor,
		AdvisorAdapter:      file.AdvisorAdapter,
		AdvisorModel:        file.AdvisorModel,
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config in %s: %w", path, err)
	}
	return cfg, nil
}

// Apply merges a patch into the config. Nil fields are skipped, so the
// update is a whole-object merge from the caller's perspective.
func (c *SimulationConfig) Apply(p SimulationPatch) {
	if p.EnableLearning != nil {
		c.EnableLearning = *p.EnableLearning
	}
	if p.PreferredMethod != nil {
		c.PreferredMethod = *p.PreferredMethod
	}
	if p.ConfidenceThreshold != nil {
		c.ConfidenceThreshold = *p.ConfidenceThreshold
	}
	if p.SimulateLatency != nil {
		c.SimulateLatency = *p.SimulateLatency
	}
	if p.ErrorRate != nil {
		c.ErrorRate = *p.ErrorRate
	}
	if p.EnableLLMAdvisor != nil {
		c.EnableLLMAdvisor = *p.EnableLLMAdvisor
	}
	if p.AdvisorAdapter != nil {
		c.AdvisorAdapter = *p.AdvisorAdapter
	}
	if p.AdvisorModel != nil {
		c.AdvisorModel = *p.AdvisorModel
	}
}

// Validate checks the documented ranges. It is applied to file-loaded
// configs only; programmatic patches are accepted verbatim.
func (c *SimulationConfig) Validate() error {
	if c.ConfidenceThreshold < 0.1 || c.ConfidenceThreshold > 1.0 {
		return fmt.Errorf("confidence_threshold %.2f outside [0.1, 1.0]", c.ConfidenceThreshold)
	}
	if c.ErrorRate < 0 || c.ErrorRate > 20 {
		return fmt.Errorf("error_rate %d outside [0, 20]", c.ErrorRate)
	}
	if c.EnableLLMAdvisor && (c.AdvisorAdapter == "" || c.AdvisorModel == "") {
		return fmt.Errorf("advisor_adapter and advisor_model are required when the advisor is enabled")
	}
	return nil
}
