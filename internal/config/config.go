// ABOUTME: Configuration loading and parsing for minecraft-mcp-server
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Transport modes
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config represents the complete minecraft-mcp-server configuration
type Config struct {
	Minecraft MinecraftConfig `yaml:"minecraft" toml:"minecraft"`
	Engine    EngineConfig    `yaml:"engine" toml:"engine"`
	Transport TransportConfig `yaml:"transport" toml:"transport"`
	Chat      ChatConfig      `yaml:"chat" toml:"chat"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// MinecraftConfig holds the game server the bot joins
type MinecraftConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	Username string `yaml:"username" toml:"username"`
}

// EngineConfig holds the bot engine connection settings
type EngineConfig struct {
	URL         string        `yaml:"url" toml:"url"`
	ChatHistory int           `yaml:"chat_history" toml:"chat_history"`
	Keepalive   time.Duration `yaml:"-" toml:"-"`

	// Raw string value for unmarshaling
	KeepaliveRaw string `yaml:"keepalive" toml:"keepalive"`
}

// TransportConfig selects how MCP clients reach the server
type TransportConfig struct {
	Mode     string `yaml:"mode" toml:"mode"`
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`

	// AuthToken, when set, must be sent as a bearer token in http mode
	AuthToken string `yaml:"auth_token" toml:"auth_token"`
}

// ChatConfig holds outgoing chat throttling
type ChatConfig struct {
	RatePerMinute int `yaml:"rate_per_minute" toml:"rate_per_minute"`
	Burst         int `yaml:"burst" toml:"burst"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Minecraft: MinecraftConfig{
			Host:     "localhost",
			Port:     25565,
			Username: "LLMBot",
		},
		Engine: EngineConfig{
			URL:          "ws://localhost:3001/bot",
			ChatHistory:  100,
			Keepalive:    15 * time.Second,
			KeepaliveRaw: "15s",
		},
		Transport: TransportConfig{
			Mode:     TransportStdio,
			HTTPAddr: ":8080",
		},
		Chat: ChatConfig{
			RatePerMinute: 30,
			Burst:         3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Values missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Minecraft.Host == "" {
		return fmt.Errorf("minecraft.host is required")
	}
	if c.Minecraft.Port < 1 || c.Minecraft.Port > 65535 {
		return fmt.Errorf("minecraft.port must be between 1 and 65535, got %d", c.Minecraft.Port)
	}
	if c.Minecraft.Username == "" {
		return fmt.Errorf("minecraft.username is required")
	}

	if c.Engine.URL == "" {
		return fmt.Errorf("engine.url is required")
	}
	u, err := url.Parse(c.Engine.URL)
	if err != nil {
		return fmt.Errorf("engine.url is not a valid URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("engine.url must use ws or wss scheme")
	}
	if c.Engine.ChatHistory < 0 {
		return fmt.Errorf("engine.chat_history must not be negative")
	}

	switch c.Transport.Mode {
	case TransportStdio:
	case TransportHTTP:
		if c.Transport.HTTPAddr == "" {
			return fmt.Errorf("transport.http_addr is required in http mode")
		}
	default:
		return fmt.Errorf("transport.mode must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport.Mode)
	}

	if c.Chat.RatePerMinute < 0 || c.Chat.Burst < 0 {
		return fmt.Errorf("chat.rate_per_minute and chat.burst must not be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Engine.KeepaliveRaw != "" {
		d, err := time.ParseDuration(cfg.Engine.KeepaliveRaw)
		if err != nil {
			return fmt.Errorf("parsing keepalive %q: %w", cfg.Engine.KeepaliveRaw, err)
		}
		cfg.Engine.Keepalive = d
	}
	return nil
}
