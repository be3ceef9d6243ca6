// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for wisteria.
//
// Configuration lives in ~/.wisteria/config.toml with sensible defaults,
// environment variable overrides for API keys, and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete wisteria configuration.
type Config struct {
	// DefaultModel is the shortname of the model server used when the
	// --model flag is absent
	DefaultModel string `toml:"default_model"`

	Tasks  TasksConfig   `toml:"tasks"`
	UI     UIConfig      `toml:"ui"`
	Papers PapersConfig  `toml:"papers"`
	Models []ModelServer `toml:"model_servers"`
}

// TasksConfig tunes the background task engine.
type TasksConfig struct {
	// Workers is the number of concurrent task executors
	Workers int `toml:"workers"`

	// CleanupAgeSecs is how long terminal task records are kept before a
	// cleanup sweep may remove them
	CleanupAgeSecs int `toml:"cleanup_age_secs"`
}

// UIConfig tunes the render loop and status line.
type UIConfig struct {
	// StatusTimeoutSecs is how long non-persistent status messages stay
	// visible before reverting to the idle string
	StatusTimeoutSecs float64 `toml:"status_timeout_secs"`

	// PublishIntervalMs is the status publisher tick period
	PublishIntervalMs int `toml:"publish_interval_ms"`

	// TickMs is the render loop poll period
	TickMs int `toml:"tick_ms"`
}

// PapersConfig configures the Semantic Scholar client.
type PapersConfig struct {
	// BaseURL of the Semantic Scholar graph API
	BaseURL string `toml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key;
	// the key itself never lives in the config file
	APIKeyEnv string `toml:"api_key_env"`

	// RequestsPerSecond caps the client-side request rate
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// MaxResults per reference query
	MaxResults int `toml:"max_results"`
}

// ModelServer describes one OpenAI-compatible generation endpoint.
type ModelServer struct {
	// Shortname is how the user refers to this server (--model flag)
	Shortname string `toml:"shortname"`

	// BaseURL of the chat-completions API
	BaseURL string `toml:"base_url"`

	// Model is the model identifier sent with each request
	Model string `toml:"model"`

	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv string `toml:"api_key_env"`
}

// APIKey resolves the server's API key from the environment.
func (m ModelServer) APIKey() string {
	if m.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(m.APIKeyEnv)
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultModel: "local",
		Tasks: TasksConfig{
			Workers:        3,
			CleanupAgeSecs: 3600,
		},
		UI: UIConfig{
			StatusTimeoutSecs: 3.0,
			PublishIntervalMs: 400,
			TickMs:            150,
		},
		Papers: PapersConfig{
			BaseURL:           "https://api.semanticscholar.org/graph/v1",
			APIKeyEnv:         "SEMANTIC_SCHOLAR_API_KEY",
			RequestsPerSecond: 1.0,
			MaxResults:        3,
		},
		Models: []ModelServer{
			{
				Shortname: "local",
				BaseURL:   "http://127.0.0.1:11434/v1",
				Model:     "llama3.1:8b",
			},
		},
	}
}

// StatusTimeout returns the UI status timeout as a duration.
func (c *Config) StatusTimeout() time.Duration {
	return time.Duration(c.UI.StatusTimeoutSecs * float64(time.Second))
}

// PublishInterval returns the publisher tick period as a duration.
func (c *Config) PublishInterval() time.Duration {
	return time.Duration(c.UI.PublishIntervalMs) * time.Millisecond
}

// TickInterval returns the render loop poll period as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.UI.TickMs) * time.Millisecond
}

// CleanupAge returns the task record retention threshold as a duration.
func (c *Config) CleanupAge() time.Duration {
	return time.Duration(c.Tasks.CleanupAgeSecs) * time.Second
}

// FindModel returns the server entry for a shortname.
func (c *Config) FindModel(shortname string) (ModelServer, error) {
	for _, m := range c.Models {
		if m.Shortname == shortname {
			return m, nil
		}
	}
	var known []string
	for _, m := range c.Models {
		known = append(known, m.Shortname)
	}
	return ModelServer{}, fmt.Errorf("model %q not found in config (known: %s)",
		shortname, strings.Join(known, ", "))
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the wisteria configuration directory (~/.wisteria).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".wisteria"), nil
}

// Path returns the config file path (~/.wisteria/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING AND SAVING
// =============================================================================

// Load reads ~/.wisteria/config.toml, falling back to defaults when the
// file does not exist. The loaded config is validated before return.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath reads a config file, filling unset fields from defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to ~/.wisteria/config.toml.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// fillDefaults replaces zero values left by a partial config file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.DefaultModel == "" {
		c.DefaultModel = def.DefaultModel
	}
	if c.Tasks.Workers == 0 {
		c.Tasks.Workers = def.Tasks.Workers
	}
	if c.Tasks.CleanupAgeSecs == 0 {
		c.Tasks.CleanupAgeSecs = def.Tasks.CleanupAgeSecs
	}
	if c.UI.StatusTimeoutSecs == 0 {
		c.UI.StatusTimeoutSecs = def.UI.StatusTimeoutSecs
	}
	if c.UI.PublishIntervalMs == 0 {
		c.UI.PublishIntervalMs = def.UI.PublishIntervalMs
	}
	if c.UI.TickMs == 0 {
		c.UI.TickMs = def.UI.TickMs
	}
	if c.Papers.BaseURL == "" {
		c.Papers.BaseURL = def.Papers.BaseURL
	}
	if c.Papers.APIKeyEnv == "" {
		c.Papers.APIKeyEnv = def.Papers.APIKeyEnv
	}
	if c.Papers.RequestsPerSecond == 0 {
		c.Papers.RequestsPerSecond = def.Papers.RequestsPerSecond
	}
	if c.Papers.MaxResults == 0 {
		c.Papers.MaxResults = def.Papers.MaxResults
	}
	if len(c.Models) == 0 {
		c.Models = def.Models
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError reports one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks internal consistency of the config.
func (c *Config) Validate() error {
	if c.Tasks.Workers < 1 {
		return ValidationError{Field: "tasks.workers", Message: "must be at least 1"}
	}
	if c.UI.StatusTimeoutSecs <= 0 {
		return ValidationError{Field: "ui.status_timeout_secs", Message: "must be positive"}
	}
	if c.UI.TickMs <= 0 {
		return ValidationError{Field: "ui.tick_ms", Message: "must be positive"}
	}
	if c.UI.PublishIntervalMs <= 0 {
		return ValidationError{Field: "ui.publish_interval_ms", Message: "must be positive"}
	}

	seen := make(map[string]bool)
	for i, m := range c.Models {
		field := fmt.Sprintf("model_servers[%d]", i)
		if m.Shortname == "" {
			return ValidationError{Field: field + ".shortname", Message: "must not be empty"}
		}
		if seen[m.Shortname] {
			return ValidationError{Field: field + ".shortname", Message: "duplicate shortname " + m.Shortname}
		}
		seen[m.Shortname] = true
		if !strings.HasPrefix(m.BaseURL, "http://") && !strings.HasPrefix(m.BaseURL, "https://") {
			return ValidationError{Field: field + ".base_url", Message: "must be an http(s) URL"}
		}
		if m.Model == "" {
			return ValidationError{Field: field + ".model", Message: "must not be empty"}
		}
	}

	if _, err := c.FindModel(c.DefaultModel); err != nil {
		return ValidationError{Field: "default_model", Message: err.Error()}
	}
	return nil
}
