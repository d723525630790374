// ABOUTME: Registers every built-in pack against a single bot session.

package builtins

import (
	"fmt"
	"log/slog"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
	"github.com/dkruyt/minecraft-mcp-server/internal/packs"
)

// Options tunes the built-in packs.
type Options struct {
	Chat   ChatLimit
	Logger *slog.Logger
}

// Packs builds the five built-in packs, each holding only the capabilities it needs.
func Packs(session bot.Session, opts Options) []*packs.BuiltinPack {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return []*packs.BuiltinPack{
		MovementPack(session, session.Done(), logger),
		InventoryPack(session),
		BlocksPack(session, logger),
		EntitiesPack(session),
		ChatPack(session, opts.Chat),
	}
}

// RegisterAll registers every built-in pack with the registry.
func RegisterAll(registry *packs.Registry, session bot.Session, opts Options) error {
	for _, pack := range Packs(session, opts) {
		if err := registry.RegisterBuiltinPack(pack); err != nil {
			return fmt.Errorf("registering %s: %w", pack.ID, err)
		}
	}
	return nil
}
