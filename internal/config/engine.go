package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the YAML configuration for the HTTP engine adapter.
type EngineConfig struct {
	BaseURL    string            `yaml:"base_url"`
	SubmitPath string            `yaml:"submit_path,omitempty"`
	JobPath    string            `yaml:"job_path,omitempty"`
	APIKey     string            `yaml:"api_key,omitempty"`
	TimeoutSec int               `yaml:"timeout_sec,omitempty"`
	Language   string            `yaml:"language,omitempty"`
	Headers    map[string]string `yaml:"headers,omitempty"`
}

// Timeout converts the configured timeout to a duration.
func (c *EngineConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// LoadEngineConfig loads the engine YAML file. Environment variables in the
// path are expanded, as are ${VAR} references inside the file, so API keys
// can stay out of the config itself.
func LoadEngineConfig(configPath string) (*EngineConfig, error) {
	configPath = os.ExpandEnv(configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config %s: %w", configPath, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg EngineConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse engine config %s: %w", configPath, err)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("engine config %s: base_url is required", configPath)
	}
	return &cfg, nil
}
