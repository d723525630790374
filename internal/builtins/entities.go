// ABOUTME: Entities pack provides the nearest-entity lookup tool.

package builtins

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
	"github.com/dkruyt/minecraft-mcp-server/internal/packs"
)

// EntitiesPack creates the entities pack.
func EntitiesPack(finder bot.EntityFinder) *packs.BuiltinPack {
	h := &entityHandlers{finder: finder}
	return &packs.BuiltinPack{
		ID: "builtin:entities",
		Tools: []*packs.BuiltinTool{
			{
				Definition: packs.Define[findEntityInput]("find-entity", "Find the nearest entity of a specific type"),
				Handler:    h.FindEntity,
			},
		},
	}
}

type entityHandlers struct {
	finder bot.EntityFinder
}

type findEntityInput struct {
	Type        *string  `json:"type,omitempty" jsonschema_description:"Type of entity to find (empty for any entity)"`
	MaxDistance *float64 `json:"maxDistance,omitempty" jsonschema_description:"Maximum search distance (default: 16)" jsonschema:"minimum=0"`
}

// entityMatcher builds the predicate for an entity query. "player" and "mob"
// match the entity category exactly; any other value matches names by
// case-insensitive substring; an empty query matches everything.
func entityMatcher(query string) func(bot.Entity) bool {
	switch query {
	case "":
		return func(bot.Entity) bool { return true }
	case "player", "mob":
		return func(e bot.Entity) bool { return e.Type == query }
	}
	q := strings.ToLower(query)
	return func(e bot.Entity) bool {
		return e.Name != "" && strings.Contains(strings.ToLower(e.Name), q)
	}
}

func entityLabel(e *bot.Entity) string {
	switch {
	case e.Username != "":
		return e.Username
	case e.Name != "":
		return e.Name
	}
	return "unknown entity"
}

func (h *entityHandlers) FindEntity(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in findEntityInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	query := ""
	if in.Type != nil {
		query = *in.Type
	}
	maxDistance := defaultSearchDistance
	if in.MaxDistance != nil {
		maxDistance = *in.MaxDistance
	}

	entity, err := h.finder.NearestEntity(ctx, entityMatcher(query), maxDistance)
	if err != nil {
		return nil, fmt.Errorf("failed to find entity: %w", err)
	}
	if entity == nil {
		what := query
		if what == "" {
			what = "entity"
		}
		return packs.NotFound(fmt.Sprintf("No %s found within %g blocks", what, maxDistance)), nil
	}
	return packs.Done(fmt.Sprintf("Found %s at %s", entityLabel(entity), entity.Position.Floor())), nil
}
