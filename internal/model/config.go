package model

import "time"

// Config is the complete draftguard configuration
type Config struct {
	Language string        `yaml:"language" mapstructure:"language"`
	Session  SessionConfig `yaml:"session" mapstructure:"session"`
	LLM      LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Output   OutputConfig  `yaml:"output" mapstructure:"output"`
}

// SessionConfig controls the draft session store
type SessionConfig struct {
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LLMConfig holds LLM provider configuration for the edit round-trip.
// The guard pipeline itself never calls a model; this configures the
// collaborator side only.
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // openai, ollama, ""
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // text, json, yaml
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Language: "vi",
		Session: SessionConfig{
			Dir:       "", // resolved to ~/.draftguard/sessions at startup
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:          "", // disabled by default
			Model:             "",
			Timeout:           60,
			MaxTokens:         2000,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Output: OutputConfig{
			Verbose: false,
			Format:  "text",
		},
	}
}
