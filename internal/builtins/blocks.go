// ABOUTME: Blocks pack provides place, dig, inspect, and search tools for world blocks.
// ABOUTME: Placement tries each neighbouring face in turn, moving closer when the reference is out of sight.

package builtins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
	"github.com/dkruyt/minecraft-mcp-server/internal/packs"
)

// approachRadius is how close the bot walks to a block it cannot see or reach.
const approachRadius = 2.0

// ErrNoReferenceBlock is returned when no neighbouring block could be placed against.
var ErrNoReferenceBlock = errors.New("no suitable reference block found")

// BlocksBot is the part of a bot session the blocks pack uses.
type BlocksBot interface {
	bot.Navigator
	bot.BlockReader
	bot.Diggable
	bot.Placeable
	bot.VersionInfo
}

// BlocksPack creates the blocks pack.
func BlocksPack(b BlocksBot, logger *slog.Logger) *packs.BuiltinPack {
	h := &blockHandlers{
		bot:      b,
		resolver: newBlockTypeResolver(b, logger),
		logger:   logger,
	}
	return &packs.BuiltinPack{
		ID: "builtin:blocks",
		Tools: []*packs.BuiltinTool{
			{
				Definition: packs.Define[placeBlockInput]("place-block", "Place a block at the specified position"),
				Handler:    h.PlaceBlock,
			},
			{
				Definition: packs.Define[coordsInput]("dig-block", "Dig a block at the specified position"),
				Handler:    h.DigBlock,
			},
			{
				Definition: packs.Define[coordsInput]("get-block-info", "Get information about a block at the specified position"),
				Handler:    h.GetBlockInfo,
			},
			{
				Definition: packs.Define[findBlockInput]("find-block", "Find the nearest block of a specific type"),
				Handler:    h.FindBlock,
			},
		},
	}
}

type blockHandlers struct {
	bot      BlocksBot
	resolver *blockTypeResolver
	logger   *slog.Logger
}

type placeBlockInput struct {
	X             float64 `json:"x" jsonschema_description:"X coordinate"`
	Y             float64 `json:"y" jsonschema_description:"Y coordinate"`
	Z             float64 `json:"z" jsonschema_description:"Z coordinate"`
	FaceDirection *string `json:"faceDirection,omitempty" jsonschema_description:"Direction to place against (default: 'down')" jsonschema:"enum=up,enum=down,enum=north,enum=south,enum=east,enum=west"`
}

type findBlockInput struct {
	BlockType   string   `json:"blockType" jsonschema_description:"Type of block to find"`
	MaxDistance *float64 `json:"maxDistance,omitempty" jsonschema_description:"Maximum search distance (default: 16)" jsonschema:"minimum=0"`
}

// candidateFaces returns the faces to try, with preferred moved to the front
// unless it is already the default first face.
func candidateFaces(preferred string) []bot.Face {
	faces := bot.Faces()
	first, ok := bot.FaceByName(preferred)
	if !ok || preferred == bot.DefaultFace {
		return faces
	}
	ordered := make([]bot.Face, 0, len(faces))
	ordered = append(ordered, first)
	for _, f := range faces {
		if f.Name != preferred {
			ordered = append(ordered, f)
		}
	}
	return ordered
}

func (h *blockHandlers) PlaceBlock(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in placeBlockInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	preferred := bot.DefaultFace
	if in.FaceDirection != nil {
		preferred = *in.FaceDirection
	}
	target := bot.Vec3{X: in.X, Y: in.Y, Z: in.Z}

	existing, err := h.bot.BlockAt(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to read block at %s: %w", target, err)
	}
	if existing != nil && !existing.IsAir() {
		return packs.Rejected(fmt.Sprintf("There's already a block (%s) at %s", existing.Name, target)), nil
	}

	var lastErr error
	for _, face := range candidateFaces(preferred) {
		if err := h.tryPlace(ctx, target, face); err != nil {
			if errors.Is(err, errSkipFace) {
				continue
			}
			h.logger.Warn("placing against face failed",
				"face", face.Name,
				"target", target.String(),
				"error", err,
			)
			lastErr = err
			continue
		}
		return packs.Done(fmt.Sprintf("Placed block at %s using %s face", target, face.Name)), nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to place block at %s: %w (last attempt: %v)", target, ErrNoReferenceBlock, lastErr)
	}
	return nil, fmt.Errorf("failed to place block at %s: %w", target, ErrNoReferenceBlock)
}

// errSkipFace marks a face whose neighbour cannot serve as a reference block.
var errSkipFace = errors.New("no reference block on this face")

// tryPlace attempts one placement against the neighbour on the given face.
func (h *blockHandlers) tryPlace(ctx context.Context, target bot.Vec3, face bot.Face) error {
	refPos := target.Add(face.Offset)
	ref, err := h.bot.BlockAt(ctx, refPos)
	if err != nil {
		return fmt.Errorf("reading reference block at %s: %w", refPos, err)
	}
	if ref == nil || ref.IsAir() {
		return errSkipFace
	}

	visible, err := h.bot.CanSeeBlock(ctx, ref)
	if err != nil {
		return fmt.Errorf("checking visibility of %s: %w", refPos, err)
	}
	if !visible {
		if err := h.bot.MoveNear(ctx, refPos, approachRadius); err != nil {
			return fmt.Errorf("moving near %s: %w", refPos, err)
		}
	}

	if err := h.bot.LookAt(ctx, target); err != nil {
		return fmt.Errorf("looking at %s: %w", target, err)
	}
	if err := h.bot.PlaceBlock(ctx, ref, face.Offset.Negate()); err != nil {
		return fmt.Errorf("placing against %s: %w", ref.Name, err)
	}
	return nil
}

func (h *blockHandlers) DigBlock(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in coordsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	pos := in.vec()

	block, err := h.bot.BlockAt(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("failed to read block at %s: %w", pos, err)
	}
	if block == nil || block.IsAir() {
		return packs.NotFound(fmt.Sprintf("No block found at position %s", pos)), nil
	}

	canDig, err := h.bot.CanDigBlock(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("failed to dig block: %w", err)
	}
	canSee, err := h.bot.CanSeeBlock(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("failed to dig block: %w", err)
	}
	if !canDig || !canSee {
		if err := h.bot.MoveNear(ctx, pos, approachRadius); err != nil {
			return nil, fmt.Errorf("failed to move near block at %s: %w", pos, err)
		}
	}

	if err := h.bot.Dig(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to dig %s at %s: %w", block.Name, pos, err)
	}
	return packs.Done(fmt.Sprintf("Dug %s at %s", block.Name, pos)), nil
}

func (h *blockHandlers) GetBlockInfo(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in coordsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	pos := in.vec()

	block, err := h.bot.BlockAt(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("failed to get block information: %w", err)
	}
	if block == nil {
		return packs.NotFound(fmt.Sprintf("No block information found at position %s", pos)), nil
	}
	return packs.Done(fmt.Sprintf("Found %s (type: %d) at position %s", block.Name, block.Type, block.Position)), nil
}

func (h *blockHandlers) FindBlock(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in findBlockInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	maxDistance := defaultSearchDistance
	if in.MaxDistance != nil {
		maxDistance = *in.MaxDistance
	}

	table, err := h.resolver.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find block: %w", err)
	}
	note := table.compatNote(h.bot.Version())

	typeID, ok := table.ids[in.BlockType]
	if !ok {
		return packs.NotFound(fmt.Sprintf("Unknown block type: %s%s", in.BlockType, note)), nil
	}

	block, err := h.bot.FindBlock(ctx, typeID, maxDistance)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", in.BlockType, err)
	}
	if block == nil {
		return packs.NotFound(fmt.Sprintf("No %s found within %g blocks%s", in.BlockType, maxDistance, note)), nil
	}
	return packs.Done(fmt.Sprintf("Found %s at %s%s", in.BlockType, block.Position, note)), nil
}
