// Package mcp implements the Model Context Protocol server that exposes the
// bot's tools to a language model client.
//
// # Protocol
//
// Messages are JSON-RPC 2.0. The server answers:
//
//   - initialize: negotiates the protocol version and reports tool support
//   - ping: returns an empty object
//   - tools/list: every registered tool with its JSON Schema
//   - tools/call: runs one tool and returns its content envelope
//
// Notifications such as notifications/initialized are accepted silently.
//
// # Transports
//
// ServeStdio is the default. It reads one message per line and writes one
// reply per line. Calls run concurrently, so replies may be written in a
// different order than requests arrived; clients match them by id. Nothing
// but protocol messages is ever written to the output stream.
//
// ServeHTTP offers the same core on POST /mcp. initialize returns an
// Mcp-Session-Id header that later requests must carry, and DELETE /mcp ends
// the session. An optional bearer token guards the endpoint.
//
// # Errors
//
// Unknown tools and arguments that fail schema validation are JSON-RPC
// errors (-32602). A tool that ran and failed is a normal result with
// isError set, so the model can read what went wrong:
//
//	{"content":[{"type":"text","text":"Failed: failed to move to position: No path to the goal!"}],"isError":true}
package mcp
