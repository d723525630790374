// ABOUTME: Resolves block names to engine type ids for the negotiated game version.
// ABOUTME: Falls back to an older version's table when the engine lacks one, and remembers that it did.

package builtins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
)

// blockTypeTable is a loaded name to id mapping and where it came from.
type blockTypeTable struct {
	ids      map[string]int
	version  string // version the table belongs to
	fallback bool   // true when version differs from the negotiated one
}

// compatNote is appended to responses built from fallback metadata.
func (t *blockTypeTable) compatNote(negotiated string) string {
	if !t.fallback {
		return ""
	}
	return fmt.Sprintf(" (using compatibility data from %s for %s)", t.version, negotiated)
}

// blockTypeResolver loads the block table once and caches it.
type blockTypeResolver struct {
	info   bot.VersionInfo
	logger *slog.Logger

	mu    sync.Mutex
	table *blockTypeTable
}

func newBlockTypeResolver(info bot.VersionInfo, logger *slog.Logger) *blockTypeResolver {
	return &blockTypeResolver{info: info, logger: logger}
}

// load returns the cached table, loading it on first use. A failed load is
// not cached.
func (r *blockTypeResolver) load(ctx context.Context) (*blockTypeTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.table != nil {
		return r.table, nil
	}

	version := r.info.Version()
	ids, err := r.info.BlockTypes(ctx, version)
	if err == nil {
		r.table = &blockTypeTable{ids: ids, version: version}
		return r.table, nil
	}
	if !errors.Is(err, bot.ErrNoVersionData) {
		return nil, fmt.Errorf("loading block types for %s: %w", version, err)
	}

	r.logger.Warn("no block metadata for game version, using fallback",
		"version", version,
		"fallback", bot.FallbackVersion,
	)
	ids, err = r.info.BlockTypes(ctx, bot.FallbackVersion)
	if err != nil {
		return nil, fmt.Errorf("loading fallback block types %s for %s: %w", bot.FallbackVersion, version, err)
	}
	r.table = &blockTypeTable{ids: ids, version: bot.FallbackVersion, fallback: true}
	return r.table, nil
}
