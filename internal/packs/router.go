// ABOUTME: Routes tool calls from MCP clients to the registered built-in handlers.
// ABOUTME: Validates arguments, converts handler errors and panics into failure responses.

package packs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrToolNotFound indicates the requested tool is not registered.
var ErrToolNotFound = errors.New("tool not found")

// ErrInvalidArguments indicates the tool arguments do not match the tool's input schema.
var ErrInvalidArguments = errors.New("invalid arguments")

// Router routes tool calls to the appropriate builtin handler.
type Router struct {
	registry *Registry
	logger   *slog.Logger
}

// RouterConfig contains configuration options for the Router.
type RouterConfig struct {
	Registry *Registry
	Logger   *slog.Logger
}

// NewRouter creates a new Router with the given configuration.
func NewRouter(cfg RouterConfig) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		registry: cfg.Registry,
		logger:   logger,
	}
}

// RouteToolCall validates the arguments and runs the named tool.
// It returns ErrToolNotFound or ErrInvalidArguments when the call cannot be
// dispatched. Once dispatched, every outcome is reported as a Response:
// handler errors and panics become error-flagged responses.
func (r *Router) RouteToolCall(ctx context.Context, toolName string, args json.RawMessage, requestID string) (*Response, error) {
	entry := r.registry.lookup(toolName)
	if entry == nil {
		r.logger.Debug("tool not found in registry",
			"tool_name", toolName,
			"request_id", requestID,
		)
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, toolName)
	}

	input, err := r.validate(entry, args)
	if err != nil {
		r.logger.Warn("tool arguments rejected",
			"tool_name", toolName,
			"request_id", requestID,
			"error", err,
		)
		return nil, err
	}

	r.logger.Debug("→ dispatching to builtin",
		"tool_name", toolName,
		"pack_id", entry.PackID,
		"request_id", requestID,
	)

	start := time.Now()
	result, err := r.invoke(ctx, entry.Tool.Handler, input)
	if err != nil {
		return Failure(r.logger.With(
			"tool_name", toolName,
			"request_id", requestID,
			"duration", time.Since(start),
		), err), nil
	}
	if result == nil {
		result = Done("")
	}

	r.logger.Debug("← builtin responded",
		"tool_name", toolName,
		"request_id", requestID,
		"outcome", result.Outcome.String(),
		"duration", time.Since(start),
	)
	return result.Response(), nil
}

// validate normalizes absent arguments to an empty object and checks them
// against the tool's compiled schema.
func (r *Router) validate(entry *builtinEntry, args json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if err := entry.schema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return trimmed, nil
}

// invoke runs a handler, turning a panic into an error.
func (r *Router) invoke(ctx context.Context, handler ToolHandler, input json.RawMessage) (result *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("tool handler panicked: %v", p)
		}
	}()
	return handler(ctx, input)
}
