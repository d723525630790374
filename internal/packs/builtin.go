// ABOUTME: Built-in tool support for tools that execute in-process.
// ABOUTME: Defines tool definitions, handlers, and the packs that group them.

package packs

import (
	"context"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ToolDefinition is the name, description and input schema advertised to MCP clients.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ToolHandler is a function that executes a built-in tool.
// It receives the schema-validated tool input as JSON. A returned Result is a
// valid answer, including "not found" answers; a returned error is an
// operation failure and is reported to the client with the error flag set.
type ToolHandler func(ctx context.Context, input json.RawMessage) (*Result, error)

// BuiltinTool represents a tool that executes in the server process.
type BuiltinTool struct {
	Definition *ToolDefinition
	Handler    ToolHandler
}

// BuiltinPack is a collection of built-in tools with a pack ID.
type BuiltinPack struct {
	ID    string
	Tools []*BuiltinTool
}

// builtinEntry stores a builtin tool with its pack ID and compiled schema.
type builtinEntry struct {
	Tool   *BuiltinTool
	PackID string
	schema *jsonschema.Schema
}
