// ABOUTME: Thread-safe registry for built-in tool packs and their tools.
// ABOUTME: Manages pack registration, schema compilation, and tool lookup.

package packs

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrToolCollision indicates a tool name already exists from another pack.
var ErrToolCollision = errors.New("tool name collision")

// Registry maintains the registered built-in packs and their tools.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]*builtinEntry // builtin tool name -> builtin entry
	order    []string                 // tool names in registration order
	logger   *slog.Logger
}

// NewRegistry creates a new Registry instance.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		builtins: make(map[string]*builtinEntry),
		logger:   logger,
	}
}

// RegisterBuiltinPack registers a pack of built-in tools that execute in-process.
// Returns ErrToolCollision if any tool name is already registered and
// ErrInvalidSchema if any tool's input schema is unusable. Nothing from the
// pack is registered when an error is returned.
func (r *Registry) RegisterBuiltinPack(pack *BuiltinPack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]*builtinEntry, 0, len(pack.Tools))
	seen := make(map[string]struct{}, len(pack.Tools))

	for _, tool := range pack.Tools {
		schema, err := compileSchema(tool.Definition)
		if err != nil {
			return err
		}
		name := tool.Definition.Name
		if existing, exists := r.builtins[name]; exists {
			return fmt.Errorf("%w: tool '%s' already registered by pack '%s'", ErrToolCollision, name, existing.PackID)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: tool '%s' appears twice in pack '%s'", ErrToolCollision, name, pack.ID)
		}
		seen[name] = struct{}{}
		entries = append(entries, &builtinEntry{Tool: tool, PackID: pack.ID, schema: schema})
	}

	for _, entry := range entries {
		name := entry.Tool.Definition.Name
		r.builtins[name] = entry
		r.order = append(r.order, name)
	}

	r.logger.Info("=== BUILTIN PACK REGISTERED ===",
		"pack_id", pack.ID,
		"tool_count", len(pack.Tools),
		"total_tools", len(r.builtins),
	)

	return nil
}

// lookup returns the full registry entry for a tool.
func (r *Registry) lookup(name string) *builtinEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.builtins[name]
}

// BuiltinPackInfo contains information about a registered builtin pack for display.
type BuiltinPackInfo struct {
	ID    string
	Tools []*BuiltinTool
}

// ListBuiltinPacks returns the registered packs in registration order.
func (r *Registry) ListBuiltinPacks() []BuiltinPackInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []BuiltinPackInfo
	index := make(map[string]int)
	for _, name := range r.order {
		entry := r.builtins[name]
		i, ok := index[entry.PackID]
		if !ok {
			i = len(result)
			index[entry.PackID] = i
			result = append(result, BuiltinPackInfo{ID: entry.PackID})
		}
		result[i].Tools = append(result[i].Tools, entry.Tool)
	}
	return result
}

// ListTools returns every tool definition in registration order.
func (r *Registry) ListTools() []*ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.builtins[name].Tool.Definition)
	}
	return defs
}

// Close clears the registry.
// This should be called during graceful shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	builtinCount := len(r.builtins)
	r.builtins = make(map[string]*builtinEntry)
	r.order = nil

	r.logger.Info("registry closed", "builtins_cleared", builtinCount)
}
