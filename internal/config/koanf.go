// Misfitsync - Misfit Cloud API Integration and Sync Engine
// Copyright 2026 ORCAS (orcasgit)
// SPDX-License-Identifier: BSD-2-Clause
// https://github.com/orcasgit/misfitsync

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/misfitsync/config.yaml",
	"/etc/misfitsync/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Misfit: MisfitConfig{
			ClientID:        "",
			ClientSecret:    "",
			WebhookSecret:   "",
			APIBaseURL:      "https://api.misfitwearables.com/move/resource/v1",
			HistoricDays:    90,
			DaysPerChunk:    30,
			MaxRetryJitter:  5 * time.Second,
			RequestsPerHour: 150,
		},
		Database: DatabaseConfig{
			Path:      "/data/misfitsync.duckdb",
			MaxMemory: "512MB",
			Threads:   0,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8373,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Queue: QueueConfig{
			OutputBuffer: 256,
			PoisonTopic:  "misfit.poison",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file
// and environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// MISFIT_CLIENT_SECRET -> misfit.client_secret, SERVER_PORT ->
	// server.port, LOG_LEVEL -> logging.level
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envSections maps environment variable prefixes to config sections.
var envSections = map[string]string{
	"MISFIT":   "misfit",
	"DATABASE": "database",
	"SERVER":   "server",
	"QUEUE":    "queue",
	"LOG":      "logging",
}

// envTransformFunc converts an environment variable name to a koanf
// path. Variables without a known section prefix are ignored.
func envTransformFunc(key string) string {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return ""
	}
	section, ok := envSections[parts[0]]
	if !ok {
		return ""
	}
	return section + "." + strings.ToLower(parts[1])
}
