// ABOUTME: Test helpers for built-in packs: a call-recording fake bot session.
// ABOUTME: The fake keeps a tiny block world, an inventory, and control key state.

package builtins

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
	"github.com/dkruyt/minecraft-mcp-server/internal/packs"
)

// fakeBot implements bot.Session over in-memory state and records every call.
type fakeBot struct {
	mu    sync.Mutex
	calls []string

	pos        bot.Vec3
	blocks     map[bot.Vec3]*bot.Block
	hidden     map[bot.Vec3]bool
	undiggable map[bot.Vec3]bool
	placeErrs  map[bot.Vec3]error
	items      []bot.Item
	entities   []bot.Entity
	controls   map[bot.Control]bool
	chats      []string
	received   []bot.ChatMessage
	version    string
	blockTypes map[string]map[string]int

	// err, when set, is returned by every fallible engine call.
	err error
	// setControlErr is returned by SetControl when pressing a key.
	setControlErr error

	done chan struct{}
}

func newFakeBot() *fakeBot {
	return &fakeBot{
		blocks:     make(map[bot.Vec3]*bot.Block),
		hidden:     make(map[bot.Vec3]bool),
		undiggable: make(map[bot.Vec3]bool),
		placeErrs:  make(map[bot.Vec3]error),
		controls:   make(map[bot.Control]bool),
		version:    "1.21.1",
		blockTypes: map[string]map[string]int{
			"1.21.1": {"stone": 1, "dirt": 10, "oak_log": 46, "diamond_ore": 56},
		},
		done: make(chan struct{}),
	}
}

func (f *fakeBot) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the recorded calls.
func (f *fakeBot) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// callsWithPrefix filters recorded calls by method name.
func (f *fakeBot) callsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range f.Calls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeBot) setBlock(name string, pos bot.Vec3) {
	f.blocks[pos] = &bot.Block{Name: name, Type: f.blockTypes["1.21.1"][name], Position: pos}
}

func (f *fakeBot) control(c bot.Control) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.controls[c]
}

func (f *fakeBot) Position(ctx context.Context) (bot.Vec3, error) {
	f.record("Position")
	return f.pos, f.err
}

func (f *fakeBot) MoveNear(ctx context.Context, target bot.Vec3, radius float64) error {
	f.record("MoveNear %s r=%g", target, radius)
	return f.err
}

func (f *fakeBot) LookAt(ctx context.Context, point bot.Vec3) error {
	f.record("LookAt %s", point)
	return f.err
}

func (f *fakeBot) SetControl(ctx context.Context, control bot.Control, state bool) error {
	f.record("SetControl %s %t", control, state)
	if state && f.setControlErr != nil {
		return f.setControlErr
	}
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.controls[control] = state
	f.mu.Unlock()
	return nil
}

func (f *fakeBot) Items(ctx context.Context) ([]bot.Item, error) {
	f.record("Items")
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeBot) Equip(ctx context.Context, item bot.Item, destination string) error {
	f.record("Equip %s %s", item.Name, destination)
	return f.err
}

func (f *fakeBot) BlockAt(ctx context.Context, pos bot.Vec3) (*bot.Block, error) {
	f.record("BlockAt %s", pos)
	if f.err != nil {
		return nil, f.err
	}
	return f.blocks[pos], nil
}

func (f *fakeBot) CanSeeBlock(ctx context.Context, block *bot.Block) (bool, error) {
	f.record("CanSeeBlock %s", block.Position)
	if f.err != nil {
		return false, f.err
	}
	return !f.hidden[block.Position], nil
}

func (f *fakeBot) FindBlock(ctx context.Context, typeID int, maxDistance float64) (*bot.Block, error) {
	f.record("FindBlock %d d=%g", typeID, maxDistance)
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.blocks {
		if b.Type == typeID {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBot) CanDigBlock(ctx context.Context, block *bot.Block) (bool, error) {
	f.record("CanDigBlock %s", block.Position)
	if f.err != nil {
		return false, f.err
	}
	return !f.undiggable[block.Position], nil
}

func (f *fakeBot) Dig(ctx context.Context, block *bot.Block) error {
	f.record("Dig %s", block.Position)
	return f.err
}

func (f *fakeBot) PlaceBlock(ctx context.Context, reference *bot.Block, face bot.Vec3) error {
	f.record("PlaceBlock %s face=%s", reference.Position, face)
	if f.err != nil {
		return f.err
	}
	return f.placeErrs[reference.Position]
}

func (f *fakeBot) NearestEntity(ctx context.Context, match func(bot.Entity) bool, maxDistance float64) (*bot.Entity, error) {
	f.record("NearestEntity d=%g", maxDistance)
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.entities {
		if match(f.entities[i]) {
			return &f.entities[i], nil
		}
	}
	return nil, nil
}

func (f *fakeBot) Chat(ctx context.Context, message string) error {
	f.record("Chat %s", message)
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.chats = append(f.chats, message)
	f.mu.Unlock()
	return nil
}

func (f *fakeBot) RecentMessages(limit int) []bot.ChatMessage {
	if limit < len(f.received) {
		return f.received[len(f.received)-limit:]
	}
	return f.received
}

func (f *fakeBot) Version() string { return f.version }

func (f *fakeBot) BlockTypes(ctx context.Context, version string) (map[string]int, error) {
	f.record("BlockTypes %s", version)
	if f.err != nil {
		return nil, f.err
	}
	table, ok := f.blockTypes[version]
	if !ok {
		return nil, bot.ErrNoVersionData
	}
	return table, nil
}

func (f *fakeBot) Done() <-chan struct{} { return f.done }
func (f *fakeBot) Err() error            { return nil }
func (f *fakeBot) Close() error          { return nil }

var _ bot.Session = (*fakeBot)(nil)

func findHandler(pack *packs.BuiltinPack, name string) packs.ToolHandler {
	for _, tool := range pack.Tools {
		if tool.Definition.Name == name {
			return tool.Handler
		}
	}
	return nil
}

// call runs a pack handler directly and fails the test if it is missing.
func call(t *testing.T, pack *packs.BuiltinPack, name, input string) (*packs.Result, error) {
	t.Helper()
	handler := findHandler(pack, name)
	require.NotNil(t, handler, "%s handler not found", name)
	return handler(context.Background(), json.RawMessage(input))
}

// newTestRouter registers every pack against the fake and returns a router.
func newTestRouter(t *testing.T, f *fakeBot) *packs.Router {
	t.Helper()
	registry := packs.NewRegistry(slog.Default())
	require.NoError(t, RegisterAll(registry, f, Options{Logger: slog.Default()}))
	return packs.NewRouter(packs.RouterConfig{Registry: registry, Logger: slog.Default()})
}
