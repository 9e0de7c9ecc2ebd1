package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	DeepSeekAPIKey  string
	Simulation      *SimulationConfig
	Agents          *AgentRules
	ConfigDir       string
}

// FileConfig represents the structure of ~/.routesim/config.yaml
type FileConfig struct {
	APIKeys APIKeysConfig `yaml:"api_keys"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic string `yaml:"anthropic"`
	OpenAI    string `yaml:"openai"`
	Google    string `yaml:"google"`
	DeepSeek  string `yaml:"deepseek"`
}

// Load reads configuration from config files and environment variables.
// Environment variables take precedence over file configuration.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	cfg := baseConfig(configDir)

	simPath := filepath.Join(configDir, "simulation.yaml")
	if _, err := os.Stat(simPath); err == nil {
		sim, err := LoadSimulationConfig(simPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load simulation config: %w", err)
		}
		cfg.Simulation = sim
	} else {
		cfg.Simulation = DefaultSimulationConfig()
	}

	agentsPath := filepath.Join(configDir, "agents.yaml")
	if _, err := os.Stat(agentsPath); err == nil {
		rules, err := LoadAgentRules(agentsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load agent rules: %w", err)
		}
		cfg.Agents = rules
	} else {
		cfg.Agents = DefaultAgentRules()
	}

	return cfg, nil
}

// LoadWithSimFile loads config with a specific simulation config file.
func LoadWithSimFile(simPath string) (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	cfg := baseConfig(configDir)

	sim, err := LoadSimulationConfig(simPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load simulation config from %s: %w", simPath, err)
	}
	cfg.Simulation = sim

	agentsPath := filepath.Join(configDir, "agents.yaml")
	if _, err := os.Stat(agentsPath); err == nil {
		rules, err := LoadAgentRules(agentsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load agent rules: %w", err)
		}
		cfg.Agents = rules
	} else {
		cfg.Agents = DefaultAgentRules()
	}

	return cfg, nil
}

// HasAdapter returns true if the API key for the given adapter is configured.
func (c *Config) HasAdapter(name string) bool {
	switch name {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	case "deepseek":
		return c.DeepSeekAPIKey != ""
	default:
		return false
	}
}

// baseConfig builds the key/dir part of the config, env vars taking
// precedence over the file.
func baseConfig(configDir string) *Config {
	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	return &Config{
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		DeepSeekAPIKey:  getEnvOrDefault("DEEPSEEK_API_KEY", fileConfig.APIKeys.DeepSeek),
		ConfigDir:       configDir,
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".routesim")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
