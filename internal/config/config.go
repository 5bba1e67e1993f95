// Package config loads the application configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server struct {
		Port        int `yaml:"port"`
		MetricsPort int `yaml:"metrics_port"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // sqlite3 or postgres
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	OpenAI struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Assistant struct {
		HouseholdSize      int      `yaml:"household_size"`
		DietaryConstraints []string `yaml:"dietary_constraints"`
		RecipeTags         []string `yaml:"recipe_tags"`
		PendingQuestionTTL int      `yaml:"pending_question_ttl_seconds"`
	} `yaml:"assistant"`

	Auth struct {
		Secret string `yaml:"secret"`
	} `yaml:"auth"`
}

// Load reads and parses the configuration file, then applies defaults
// and environment overrides (OPENAI_API_KEY, LARDER_AUTH_SECRET).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite3"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "larder.db"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.Assistant.PendingQuestionTTL == 0 {
		cfg.Assistant.PendingQuestionTTL = 120
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if secret := os.Getenv("LARDER_AUTH_SECRET"); secret != "" {
		cfg.Auth.Secret = secret
	}

	return &cfg, nil
}

// PendingTTL returns the pending-question timeout as a duration.
func (c *Config) PendingTTL() time.Duration {
	return time.Duration(c.Assistant.PendingQuestionTTL) * time.Second
}
