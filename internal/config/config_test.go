// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, env var expansion, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
minecraft:
  host: "mc.example.com"
  port: 25570
  username: "Builder"

engine:
  url: "ws://127.0.0.1:4000/bot"
  keepalive: "30s"
  chat_history: 20

transport:
  mode: "http"
  http_addr: "127.0.0.1:9090"

chat:
  rate_per_minute: 10
  burst: 1

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mc.example.com", cfg.Minecraft.Host)
	assert.Equal(t, 25570, cfg.Minecraft.Port)
	assert.Equal(t, "Builder", cfg.Minecraft.Username)
	assert.Equal(t, "ws://127.0.0.1:4000/bot", cfg.Engine.URL)
	assert.Equal(t, 30*time.Second, cfg.Engine.Keepalive)
	assert.Equal(t, 20, cfg.Engine.ChatHistory)
	assert.Equal(t, TransportHTTP, cfg.Transport.Mode)
	assert.Equal(t, "127.0.0.1:9090", cfg.Transport.HTTPAddr)
	assert.Equal(t, 10, cfg.Chat.RatePerMinute)
	assert.Equal(t, 1, cfg.Chat.Burst)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
minecraft:
  username: "Scout"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Minecraft.Host)
	assert.Equal(t, 25565, cfg.Minecraft.Port)
	assert.Equal(t, "Scout", cfg.Minecraft.Username)
	assert.Equal(t, 15*time.Second, cfg.Engine.Keepalive)
	assert.Equal(t, TransportStdio, cfg.Transport.Mode)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[minecraft]
host = "10.0.0.5"
port = 25566
username = "TomlBot"

[engine]
url = "wss://engine.internal/bot"
keepalive = "5s"

[logging]
level = "warn"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Minecraft.Host)
	assert.Equal(t, 25566, cfg.Minecraft.Port)
	assert.Equal(t, "TomlBot", cfg.Minecraft.Username)
	assert.Equal(t, "wss://engine.internal/bot", cfg.Engine.URL)
	assert.Equal(t, 5*time.Second, cfg.Engine.Keepalive)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_MC_HOST", "play.example.org")
	t.Setenv("TEST_MC_USER", "EnvBot")
	t.Setenv("TEST_MCP_TOKEN", "s3cret")

	path := writeConfig(t, "config.yaml", `
minecraft:
  host: "${TEST_MC_HOST}"
  username: "${TEST_MC_USER}"
transport:
  auth_token: "${TEST_MCP_TOKEN}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "play.example.org", cfg.Minecraft.Host)
	assert.Equal(t, "EnvBot", cfg.Minecraft.Username)
	assert.Equal(t, "s3cret", cfg.Transport.AuthToken)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", "minecraft: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
engine:
  keepalive: "often"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keepalive")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "empty host",
			mutate:  func(c *Config) { c.Minecraft.Host = "" },
			wantErr: "minecraft.host is required",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Minecraft.Port = 70000 },
			wantErr: "minecraft.port",
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Minecraft.Port = 0 },
			wantErr: "minecraft.port",
		},
		{
			name:    "empty username",
			mutate:  func(c *Config) { c.Minecraft.Username = "" },
			wantErr: "minecraft.username is required",
		},
		{
			name:    "http engine url",
			mutate:  func(c *Config) { c.Engine.URL = "http://localhost:3001" },
			wantErr: "ws or wss",
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Transport.Mode = "grpc" },
			wantErr: "transport.mode",
		},
		{
			name:    "http mode without address",
			mutate:  func(c *Config) { c.Transport.Mode = TransportHTTP; c.Transport.HTTPAddr = "" },
			wantErr: "transport.http_addr",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "negative chat history",
			mutate:  func(c *Config) { c.Engine.ChatHistory = -1 },
			wantErr: "engine.chat_history",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FOO", "bar")
	t.Setenv("BAZ", "qux")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single env var", input: "${FOO}", expected: "bar"},
		{name: "env var with surrounding text", input: "prefix-${FOO}-suffix", expected: "prefix-bar-suffix"},
		{name: "multiple env vars", input: "${FOO}/${BAZ}", expected: "bar/qux"},
		{name: "no env vars", input: "no-vars-here", expected: "no-vars-here"},
		{name: "unset env var", input: "${UNSET_VAR_FOR_TEST}", expected: ""},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}
