// Package packs provides the tool pack system that exposes bot capabilities to MCP clients.
//
// # Overview
//
// Tool packs are collections of related tools. Every pack is built into the
// server process (see internal/builtins) and registered once at startup.
// There is no dynamic registration and no per-client authorization: every
// registered tool is callable by any connected client.
//
// # Architecture
//
// The pack system has three main components:
//
//   - Registry: Tracks registered packs, their tools, and compiled input schemas
//   - Router: Validates arguments and dispatches calls to handlers
//   - Response helpers: Build the uniform {content, isError} envelope
//
// # Tool Definitions
//
// Input schemas are reflected from Go structs:
//
//	type moveInput struct {
//	    X     float64  `json:"x" jsonschema_description:"X coordinate"`
//	    Range *float64 `json:"range,omitempty"`
//	}
//	def := packs.Define[moveInput]("move-to-position", "Move the bot")
//
// Fields tagged omitempty are optional. Registration rejects schemas that are
// not object schemas or that fail to compile.
//
// # Tool Routing
//
// When a client calls a tool, the router:
//
//  1. Looks up the tool by name in the registry
//  2. Validates the arguments against the compiled schema
//  3. Calls the handler
//  4. Renders the Result, or the handler's error, as a Response
//
// Handlers report answers through Result (Done, NotFound, Rejected) and
// operation failures through error. Only errors set the isError flag, so a
// "nothing found" answer never looks like a fault to the model.
package packs
