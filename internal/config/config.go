// Package config loads the generator configuration from YAML, applies
// defaults, and validates the result before any generation starts.
package config

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oasis-observatory/oasis-generator/internal/narrative"
	"github.com/oasis-observatory/oasis-generator/internal/timeline"
)

// #endregion

// #region types

// Ollama selects how narratives are requested from the model runtime.
// Mode "process" shells out to the ollama binary; mode "http" talks to the
// REST endpoint.
type Ollama struct {
	Mode    string `yaml:"mode"`
	Binary  string `yaml:"binary"`
	BaseURL string `yaml:"base_url"`
}

// Config is the full generator configuration.
type Config struct {
	Models             []narrative.ModelConfig `yaml:"models"`
	Strategy           string                  `yaml:"strategy"`
	PreferredModel     string                  `yaml:"preferred_model"`
	MaxAttempts        int                     `yaml:"max_attempts"`
	MinNarrativeLength int                     `yaml:"min_narrative_length"`
	HorizonWeights     map[string]float64      `yaml:"horizon_weights"`
	Ollama             Ollama                  `yaml:"ollama"`
	DBPath             string                  `yaml:"db_path"`
}

// #endregion

// #region load

// Default returns the configuration used when no file is given. Environment
// overrides still apply.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// Load reads and validates a YAML configuration file. Environment overrides
// are applied after parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Models) == 0 {
		c.Models = []narrative.ModelConfig{
			{Name: "llama3", Timeout: narrative.DefaultTimeout, MaxRetries: 2},
			{Name: "mistral", Timeout: narrative.DefaultTimeout, MaxRetries: 2},
			{Name: "gemma", Timeout: narrative.DefaultTimeout, MaxRetries: 2},
		}
	}
	for i := range c.Models {
		if c.Models[i].Timeout <= 0 {
			c.Models[i].Timeout = narrative.DefaultTimeout
		}
		if c.Models[i].MaxRetries < 0 {
			c.Models[i].MaxRetries = 0
		}
	}
	if c.Strategy == "" {
		c.Strategy = string(narrative.StrategyPriority)
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.MinNarrativeLength <= 0 {
		c.MinNarrativeLength = narrative.DefaultMinLength
	}
	if len(c.HorizonWeights) == 0 {
		c.HorizonWeights = defaultWeights()
	}
	if c.Ollama.Mode == "" {
		c.Ollama.Mode = "process"
	}
	if c.Ollama.Binary == "" {
		c.Ollama.Binary = "ollama"
	}
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = "http://localhost:11434"
	}
	if c.DBPath == "" {
		c.DBPath = "scenarios.db"
	}
}

func defaultWeights() map[string]float64 {
	policy := timeline.DefaultPolicy()
	weights := make(map[string]float64, len(policy.HorizonWeights))
	for h, w := range policy.HorizonWeights {
		weights[string(h)] = w
	}
	return weights
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OASIS_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("OASIS_OLLAMA_BINARY"); v != "" {
		c.Ollama.Binary = v
	}
	if v := os.Getenv("OASIS_OLLAMA_BASE_URL"); v != "" {
		c.Ollama.BaseURL = v
	}
	if v := os.Getenv("OASIS_PREFERRED_MODEL"); v != "" {
		c.PreferredModel = v
	}
}

// #endregion

// #region validate

// Validate rejects configurations that would fail mid-batch.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("config: at least one model is required")
	}
	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if m.Name == "" {
			return fmt.Errorf("config: model with empty name")
		}
		if seen[m.Name] {
			return fmt.Errorf("config: duplicate model %q", m.Name)
		}
		seen[m.Name] = true
	}
	if _, err := narrative.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.PreferredModel != "" && !seen[c.PreferredModel] {
		return fmt.Errorf("config: preferred model %q is not in the model list", c.PreferredModel)
	}
	if c.Ollama.Mode != "process" && c.Ollama.Mode != "http" {
		return fmt.Errorf("config: unknown ollama mode %q", c.Ollama.Mode)
	}
	if err := c.validateWeights(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWeights() error {
	known := make(map[string]bool, len(timeline.Horizons))
	for _, h := range timeline.Horizons {
		known[string(h)] = true
	}
	total := 0.0
	for name, w := range c.HorizonWeights {
		if !known[name] {
			return fmt.Errorf("config: unknown time horizon %q", name)
		}
		if w < 0 {
			return fmt.Errorf("config: negative weight for horizon %q", name)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("config: horizon weights must have a positive sum")
	}
	return nil
}

// TimelinePolicy converts the configured weights into a timeline policy.
func (c *Config) TimelinePolicy() timeline.Policy {
	weights := make(map[timeline.Horizon]float64, len(c.HorizonWeights))
	for name, w := range c.HorizonWeights {
		weights[timeline.Horizon(name)] = w
	}
	return timeline.Policy{HorizonWeights: weights}
}

// Generator builds the text generator matching the configured ollama mode.
func (c *Config) Generator() narrative.TextGenerator {
	if c.Ollama.Mode == "http" {
		return &narrative.HTTPGenerator{BaseURL: c.Ollama.BaseURL}
	}
	return &narrative.ProcessGenerator{Binary: c.Ollama.Binary}
}

// #endregion
