// ABOUTME: Capability interfaces and world snapshot types for the Minecraft bot session.
// ABOUTME: Tool packs depend on these narrow contracts rather than a concrete engine client.

package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// FallbackVersion is the game version whose block metadata is used when the
// engine has none for the negotiated version.
const FallbackVersion = "1.21.1"

// Sentinel errors shared by session implementations.
var (
	// ErrNoVersionData is returned by BlockTypes when the engine has no
	// metadata for the requested game version.
	ErrNoVersionData = errors.New("no metadata for game version")

	// ErrDisconnected is returned for operations attempted after the
	// session's connection has ended.
	ErrDisconnected = errors.New("bot session disconnected")
)

// Vec3 is a position or offset in world coordinates.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v offset by o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Negate returns the opposite vector.
func (v Vec3) Negate() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Floor rounds every component down to a block coordinate.
func (v Vec3) Floor() Vec3 {
	return Vec3{X: math.Floor(v.X), Y: math.Floor(v.Y), Z: math.Floor(v.Z)}
}

// String formats the vector as (x, y, z).
func (v Vec3) String() string {
	return fmt.Sprintf("(%s, %s, %s)", formatCoord(v.X), formatCoord(v.Y), formatCoord(v.Z))
}

func formatCoord(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Block is a snapshot of a single world cell.
type Block struct {
	Name     string `json:"name"`
	Type     int    `json:"type"`
	Position Vec3   `json:"position"`
}

// IsAir reports whether the block is one of the empty block kinds.
func (b *Block) IsAir() bool {
	switch b.Name {
	case "air", "cave_air", "void_air":
		return true
	}
	return false
}

// Item is a snapshot of one inventory stack.
type Item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Slot  int    `json:"slot"`
}

// Entity is a snapshot of a nearby entity.
type Entity struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Type     string `json:"type"`
	Position Vec3   `json:"position"`
}

// ChatMessage is a chat line the bot received.
type ChatMessage struct {
	Username string    `json:"username"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}

// Control is a movement key the bot can hold down.
type Control string

const (
	ControlForward Control = "forward"
	ControlBack    Control = "back"
	ControlLeft    Control = "left"
	ControlRight   Control = "right"
	ControlJump    Control = "jump"
	ControlSprint  Control = "sprint"
	ControlSneak   Control = "sneak"
)

// ParseControl converts a control name to a Control.
func ParseControl(name string) (Control, error) {
	switch c := Control(name); c {
	case ControlForward, ControlBack, ControlLeft, ControlRight, ControlJump, ControlSprint, ControlSneak:
		return c, nil
	}
	return "", fmt.Errorf("unknown control %q", name)
}

// Positionable reports where the bot is.
type Positionable interface {
	Position(ctx context.Context) (Vec3, error)
}

// Navigator moves and orients the bot.
type Navigator interface {
	// MoveNear blocks until the pathfinder arrives within radius of target
	// or gives up.
	MoveNear(ctx context.Context, target Vec3, radius float64) error
	LookAt(ctx context.Context, point Vec3) error
	SetControl(ctx context.Context, control Control, state bool) error
}

// InventoryHolder exposes the bot's inventory.
type InventoryHolder interface {
	Items(ctx context.Context) ([]Item, error)
	Equip(ctx context.Context, item Item, destination string) error
}

// BlockReader queries the world model. BlockAt returns a nil block when the
// cell is not loaded; FindBlock returns nil when nothing matches.
type BlockReader interface {
	BlockAt(ctx context.Context, pos Vec3) (*Block, error)
	CanSeeBlock(ctx context.Context, block *Block) (bool, error)
	FindBlock(ctx context.Context, typeID int, maxDistance float64) (*Block, error)
}

// Diggable breaks blocks.
type Diggable interface {
	CanDigBlock(ctx context.Context, block *Block) (bool, error)
	// Dig blocks until the block is broken.
	Dig(ctx context.Context, block *Block) error
}

// Placeable places the held block against a reference block.
type Placeable interface {
	PlaceBlock(ctx context.Context, reference *Block, face Vec3) error
}

// EntityFinder locates entities. NearestEntity returns nil when nothing
// within maxDistance satisfies match.
type EntityFinder interface {
	NearestEntity(ctx context.Context, match func(Entity) bool, maxDistance float64) (*Entity, error)
}

// Chatter sends and recalls chat messages.
type Chatter interface {
	Chat(ctx context.Context, message string) error
	RecentMessages(limit int) []ChatMessage
}

// VersionInfo exposes the negotiated game version and its block metadata.
type VersionInfo interface {
	Version() string
	// BlockTypes maps block names to type ids for a game version. It
	// returns ErrNoVersionData when the engine has no table for it.
	BlockTypes(ctx context.Context, version string) (map[string]int, error)
}

// Lifecycle tracks the connection backing a session.
type Lifecycle interface {
	Done() <-chan struct{}
	Err() error
	Close() error
}

// Session is the full set of capabilities of a connected bot.
type Session interface {
	Positionable
	Navigator
	InventoryHolder
	BlockReader
	Diggable
	Placeable
	EntityFinder
	Chatter
	VersionInfo
	Lifecycle
}
