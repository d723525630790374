// ABOUTME: Movement pack provides position, pathfinding, look, jump, and walking tools.
// ABOUTME: Depends only on the Positionable and Navigator bot capabilities.

package builtins

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
	"github.com/dkruyt/minecraft-mcp-server/internal/packs"
)

const (
	defaultMoveRange    = 1.0
	defaultMoveDuration = 1000
	jumpRelease         = 250 * time.Millisecond
)

// MovementBot is the part of a bot session the movement pack uses.
type MovementBot interface {
	bot.Positionable
	bot.Navigator
}

// MovementPack creates the movement pack.
// done, when non-nil, ends a directional walk early if the session goes away.
func MovementPack(b MovementBot, done <-chan struct{}, logger *slog.Logger) *packs.BuiltinPack {
	m := &movementHandlers{bot: b, done: done, logger: logger}
	return &packs.BuiltinPack{
		ID: "builtin:movement",
		Tools: []*packs.BuiltinTool{
			{
				Definition: packs.Define[emptyInput]("get-position", "Get the current position of the bot"),
				Handler:    m.GetPosition,
			},
			{
				Definition: packs.Define[moveToPositionInput]("move-to-position", "Move the bot to a specific position"),
				Handler:    m.MoveToPosition,
			},
			{
				Definition: packs.Define[coordsInput]("look-at", "Make the bot look at a specific position"),
				Handler:    m.LookAt,
			},
			{
				Definition: packs.Define[emptyInput]("jump", "Make the bot jump"),
				Handler:    m.Jump,
			},
			{
				Definition: packs.Define[moveInDirectionInput]("move-in-direction", "Move the bot in a specific direction for a duration"),
				Handler:    m.MoveInDirection,
			},
		},
	}
}

type movementHandlers struct {
	bot    MovementBot
	done   <-chan struct{}
	logger *slog.Logger
}

type moveToPositionInput struct {
	X     float64  `json:"x" jsonschema_description:"X coordinate"`
	Y     float64  `json:"y" jsonschema_description:"Y coordinate"`
	Z     float64  `json:"z" jsonschema_description:"Z coordinate"`
	Range *float64 `json:"range,omitempty" jsonschema_description:"How close to get to the target (default: 1)" jsonschema:"minimum=0"`
}

type moveInDirectionInput struct {
	Direction string `json:"direction" jsonschema_description:"Direction to move" jsonschema:"enum=forward,enum=back,enum=left,enum=right"`
	Duration  *int   `json:"duration,omitempty" jsonschema_description:"Duration in milliseconds (default: 1000)" jsonschema:"minimum=0"`
}

func (m *movementHandlers) GetPosition(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	pos, err := m.bot.Position(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting position: %w", err)
	}
	return packs.Done(fmt.Sprintf("Current position: %s", pos.Floor())), nil
}

func (m *movementHandlers) MoveToPosition(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in moveToPositionInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	radius := defaultMoveRange
	if in.Range != nil {
		radius = *in.Range
	}

	target := bot.Vec3{X: in.X, Y: in.Y, Z: in.Z}
	if err := m.bot.MoveNear(ctx, target, radius); err != nil {
		return nil, fmt.Errorf("failed to move to position: %w", err)
	}
	return packs.Done(fmt.Sprintf("Successfully moved to position near %s", target)), nil
}

func (m *movementHandlers) LookAt(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in coordsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	target := in.vec()
	if err := m.bot.LookAt(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to look at position: %w", err)
	}
	return packs.Done(fmt.Sprintf("Looking at position %s", target)), nil
}

// Jump presses jump and schedules the release without waiting for it.
func (m *movementHandlers) Jump(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	if err := m.bot.SetControl(ctx, bot.ControlJump, true); err != nil {
		return nil, fmt.Errorf("failed to jump: %w", err)
	}
	time.AfterFunc(jumpRelease, func() {
		if err := m.bot.SetControl(context.Background(), bot.ControlJump, false); err != nil {
			m.logger.Warn("releasing jump failed", "error", err)
		}
	})
	return packs.Done("Successfully jumped"), nil
}

// MoveInDirection holds a movement key for the requested duration. The key is
// released on every exit path.
func (m *movementHandlers) MoveInDirection(ctx context.Context, input json.RawMessage) (result *packs.Result, err error) {
	var in moveInDirectionInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	control, err := bot.ParseControl(in.Direction)
	if err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	duration := defaultMoveDuration
	if in.Duration != nil {
		duration = *in.Duration
	}

	defer func() {
		if releaseErr := m.bot.SetControl(context.Background(), control, false); releaseErr != nil {
			m.logger.Warn("releasing movement key failed", "direction", in.Direction, "error", releaseErr)
			if err == nil {
				result, err = nil, fmt.Errorf("failed to stop moving %s: %w", in.Direction, releaseErr)
			}
		}
	}()

	if err := m.bot.SetControl(ctx, control, true); err != nil {
		return nil, fmt.Errorf("failed to move %s: %w", in.Direction, err)
	}

	timer := time.NewTimer(time.Duration(duration) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, fmt.Errorf("moving %s interrupted: %w", in.Direction, ctx.Err())
	case <-m.done:
		return nil, fmt.Errorf("moving %s interrupted: %w", in.Direction, bot.ErrDisconnected)
	}

	return packs.Done(fmt.Sprintf("Moved %s for %dms", in.Direction, duration)), nil
}
