// Package config handles configuration loading for minecraft-mcp-server.
//
// # Overview
//
// Configuration is optional. Without a file the server runs with built-in
// defaults, and the --host, --port and --username flags override whatever
// the file sets. Files ending in .toml are parsed as TOML; anything else is
// parsed as YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	minecraft:
//	  username: "${MC_BOT_NAME}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Configuration Sections
//
// Game server the bot joins:
//
//	minecraft:
//	  host: "localhost"
//	  port: 25565
//	  username: "LLMBot"
//
// Bot engine (the process that speaks the game protocol):
//
//	engine:
//	  url: "ws://localhost:3001/bot"
//	  keepalive: "15s"
//	  chat_history: 100
//
// MCP transport:
//
//	transport:
//	  mode: "stdio"        # stdio, http
//	  http_addr: ":8080"
//
// Outgoing chat throttle:
//
//	chat:
//	  rate_per_minute: 30
//	  burst: 3
//
// Logging (always written to stderr):
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates the port range, requires a ws:// or wss:// engine URL,
// and rejects unknown transport modes and log levels.
package config
