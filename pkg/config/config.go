// SPDX-License-Identifier: Apache-2.0

// Package config loads the service configuration with layered precedence:
// built-in defaults, then an optional YAML file, then TALLY_ environment
// variables (TALLY_LLM_PROVIDER -> llm.provider).
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log          LogConfig          `koanf:"log"`
	LLM          LLMConfig          `koanf:"llm"`
	DB           DBConfig           `koanf:"db"`
	Orchestrator OrchestratorConfig `koanf:"orchestrator"`
	Telemetry    TelemetryConfig    `koanf:"telemetry"`
	MCP          MCPConfig          `koanf:"mcp"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	Provider string `koanf:"provider"` // gemini, ollama, mock
	Model    string `koanf:"model"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type DBConfig struct {
	Path string `koanf:"path"`
}

type OrchestratorConfig struct {
	// MaxSteps bounds the generate/act loop of a single turn.
	MaxSteps int `koanf:"max_steps"`
	// Fallback overrides the answer returned on a failed turn. Empty keeps
	// the built-in message.
	Fallback string `koanf:"fallback"`
	// RolesFile optionally points to a YAML manifest overriding the
	// built-in role instructions.
	RolesFile string `koanf:"roles_file"`
}

type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	ServiceName  string `koanf:"service_name"`
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
}

type MCPConfig struct {
	Name    string `koanf:"name"`
	Version string `koanf:"version"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("llm.provider", "gemini")
	k.Set("llm.model", "gemini-2.0-flash")
	k.Set("llm.base_url", "http://localhost:11434")
	k.Set("db.path", "tally.db")
	k.Set("orchestrator.max_steps", 25)
	k.Set("telemetry.enabled", false)
	k.Set("telemetry.service_name", "tally")
	k.Set("telemetry.exporter", "stdout")
	k.Set("telemetry.otlp_endpoint", "localhost:4317")
	k.Set("mcp.name", "tally")
	k.Set("mcp.version", "0.1.0")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (TALLY_LLM_PROVIDER -> llm.provider)
	if err := k.Load(env.Provider("TALLY_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "TALLY_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
