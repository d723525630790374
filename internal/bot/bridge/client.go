// ABOUTME: WebSocket client implementing bot.Session against an external bot engine.
// ABOUTME: Correlates command responses by id, tracks engine events, and keeps the link alive.

package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
)

// DefaultKeepalive is the ping interval when Config.Keepalive is zero.
const DefaultKeepalive = 15 * time.Second

// closeGrace bounds the close handshake written by Close.
const closeGrace = time.Second

// Config holds what is needed to bring a bot into the world.
type Config struct {
	URL         string // engine endpoint, ws:// or wss://
	Host        string // Minecraft server host
	Port        int
	Username    string
	ChatHistory int
	Keepalive   time.Duration
	Logger      *slog.Logger
	Dialer      *websocket.Dialer // nil uses websocket.DefaultDialer
}

// Client is a bot session backed by the engine connection.
type Client struct {
	conn     *websocket.Conn
	logger   *slog.Logger
	username string
	version  string

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan *envelope

	chat *chatLog

	spawnOnce sync.Once
	spawned   chan struct{}

	closeOnce sync.Once
	done      chan struct{}
	errMu     sync.Mutex
	err       error
}

var _ bot.Session = (*Client)(nil)

// Connect dials the engine, asks it to join the configured server, and waits
// until the bot has spawned. On failure the partial connection is closed.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	keepalive := cfg.Keepalive
	if keepalive <= 0 {
		keepalive = DefaultKeepalive
	}

	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bot engine at %s: %w", cfg.URL, err)
	}

	c := &Client{
		conn:     conn,
		logger:   logger,
		username: cfg.Username,
		pending:  make(map[string]chan *envelope),
		chat:     newChatLog(cfg.ChatHistory),
		spawned:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.listen()
	go c.keepAlive(keepalive)

	logger.Info("joining server",
		"host", cfg.Host,
		"port", cfg.Port,
		"username", cfg.Username,
		"engine", cfg.URL,
	)

	var joined connectData
	params := connectParams{Host: cfg.Host, Port: cfg.Port, Username: cfg.Username}
	if err := c.request(ctx, "connect", params, &joined); err != nil {
		if cause := c.Err(); cause != nil {
			err = cause
		}
		c.abort()
		return nil, fmt.Errorf("joining %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	c.version = joined.Version

	select {
	case <-c.spawned:
	case <-c.done:
		err := c.Err()
		if err == nil {
			err = bot.ErrDisconnected
		}
		return nil, fmt.Errorf("waiting for spawn: %w", err)
	case <-ctx.Done():
		c.abort()
		return nil, fmt.Errorf("waiting for spawn: %w", ctx.Err())
	}

	logger.Info("bot spawned", "username", cfg.Username, "version", c.version)
	return c, nil
}

// abort tears down a connection that never finished joining.
func (c *Client) abort() {
	if err := c.Close(); err != nil {
		c.logger.Debug("closing partial session", "error", err)
	}
}

func (c *Client) listen() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.shutdown(fmt.Errorf("reading from bot engine: %w", err))
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("failed to parse engine frame", "error", err)
			continue
		}

		switch env.Type {
		case typeResponse:
			c.deliver(&env)
		case typeEvent:
			c.handleEvent(&env)
		case typePong:
		default:
			c.logger.Debug("ignoring engine frame", "type", env.Type)
		}
	}
}

func (c *Client) deliver(env *envelope) {
	if env.ID == "" {
		return
	}

	c.pendingMu.Lock()
	ch, ok := c.pending[env.ID]
	if ok {
		delete(c.pending, env.ID)
	}
	c.pendingMu.Unlock()

	if !ok {
		c.logger.Debug("response for unknown request", "id", env.ID)
		return
	}
	ch <- env
}

func (c *Client) handleEvent(env *envelope) {
	switch env.Event {
	case eventSpawn:
		c.spawnOnce.Do(func() { close(c.spawned) })

	case eventChat:
		var d chatEventData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			c.logger.Warn("malformed chat event", "error", err)
			return
		}
		if d.Username == c.username {
			return
		}
		c.chat.add(bot.ChatMessage{Username: d.Username, Message: d.Message, Time: time.Now()})

	case eventKicked:
		c.shutdown(fmt.Errorf("kicked from server: %s", decodeReason(env.Data)))

	case eventEnd:
		c.shutdown(fmt.Errorf("disconnected from server: %s", decodeReason(env.Data)))

	case eventError:
		reason := decodeReason(env.Data)
		select {
		case <-c.spawned:
			c.logger.Warn("bot engine error", "error", reason)
		default:
			c.shutdown(fmt.Errorf("bot engine error: %s", reason))
		}

	default:
		c.logger.Debug("ignoring engine event", "event", env.Event)
	}
}

func decodeReason(data json.RawMessage) string {
	var d reasonEventData
	if len(data) > 0 {
		_ = json.Unmarshal(data, &d)
	}
	return d.text()
}

func (c *Client) keepAlive(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.write(command{ID: uuid.New().String(), Type: typePing}); err != nil {
				c.logger.Warn("keepalive ping failed", "error", err)
				return
			}
		}
	}
}

func (c *Client) write(msg command) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// request sends one command and waits for its response. out, when non-nil,
// receives the decoded data payload.
func (c *Client) request(ctx context.Context, action string, params, out any) error {
	select {
	case <-c.done:
		return fmt.Errorf("%s: %w", action, bot.ErrDisconnected)
	default:
	}

	id := uuid.New().String()
	ch := make(chan *envelope, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	c.logger.Debug("→ engine command", "action", action, "id", id)

	if err := c.write(command{ID: id, Type: typeCommand, Action: action, Params: params}); err != nil {
		c.forget(id)
		return fmt.Errorf("sending %s: %w", action, err)
	}

	var resp *envelope
	select {
	case resp = <-ch:
	case <-c.done:
		c.forget(id)
		return fmt.Errorf("%s: %w", action, bot.ErrDisconnected)
	case <-ctx.Done():
		c.forget(id)
		return ctx.Err()
	}

	c.logger.Debug("← engine response", "action", action, "id", id, "success", resp.Success)

	if !resp.Success {
		return &EngineError{Action: action, Code: resp.Code, Message: resp.Message}
	}
	if out != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", action, err)
		}
	}
	return nil
}

func (c *Client) forget(id string) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

// shutdown ends the session once. Waiters observe Done and fail with
// bot.ErrDisconnected.
func (c *Client) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.errMu.Lock()
		c.err = cause
		c.errMu.Unlock()

		close(c.done)
		_ = c.conn.Close()

		if cause != nil {
			c.logger.Warn("bot session ended", "error", cause)
		}
	})
}

// Done is closed when the session ends for any reason.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err reports why the session ended. It is nil while connected and after Close.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Close says goodbye to the engine and releases the connection. It is safe to
// call more than once.
func (c *Client) Close() error {
	select {
	case <-c.done:
		return nil
	default:
	}

	c.writeMu.Lock()
	err := c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeGrace))
	c.writeMu.Unlock()

	c.shutdown(nil)
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return fmt.Errorf("closing bot engine connection: %w", err)
	}
	return nil
}

// Version is the game version negotiated at connect.
func (c *Client) Version() string { return c.version }

func (c *Client) Position(ctx context.Context) (bot.Vec3, error) {
	var pos bot.Vec3
	err := c.request(ctx, "position", nil, &pos)
	return pos, err
}

func (c *Client) MoveNear(ctx context.Context, target bot.Vec3, radius float64) error {
	return c.request(ctx, "goto", gotoParams{Vec3: target, Range: radius}, nil)
}

func (c *Client) LookAt(ctx context.Context, point bot.Vec3) error {
	return c.request(ctx, "look_at", point, nil)
}

func (c *Client) SetControl(ctx context.Context, control bot.Control, state bool) error {
	return c.request(ctx, "control", controlParams{Control: control, State: state}, nil)
}

func (c *Client) Items(ctx context.Context) ([]bot.Item, error) {
	var d inventoryData
	if err := c.request(ctx, "inventory", nil, &d); err != nil {
		return nil, err
	}
	return d.Items, nil
}

func (c *Client) Equip(ctx context.Context, item bot.Item, destination string) error {
	return c.request(ctx, "equip", equipParams{Slot: item.Slot, Destination: destination}, nil)
}

func (c *Client) BlockAt(ctx context.Context, pos bot.Vec3) (*bot.Block, error) {
	var d blockData
	if err := c.request(ctx, "block_at", pos, &d); err != nil {
		return nil, err
	}
	return d.Block, nil
}

func (c *Client) CanSeeBlock(ctx context.Context, block *bot.Block) (bool, error) {
	var d visibleData
	err := c.request(ctx, "can_see_block", block.Position, &d)
	return d.Visible, err
}

func (c *Client) FindBlock(ctx context.Context, typeID int, maxDistance float64) (*bot.Block, error) {
	var d blockData
	if err := c.request(ctx, "find_block", findBlockParams{Type: typeID, MaxDistance: maxDistance}, &d); err != nil {
		return nil, err
	}
	return d.Block, nil
}

func (c *Client) CanDigBlock(ctx context.Context, block *bot.Block) (bool, error) {
	var d diggableData
	err := c.request(ctx, "can_dig_block", block.Position, &d)
	return d.Diggable, err
}

func (c *Client) Dig(ctx context.Context, block *bot.Block) error {
	return c.request(ctx, "dig", block.Position, nil)
}

func (c *Client) PlaceBlock(ctx context.Context, reference *bot.Block, face bot.Vec3) error {
	return c.request(ctx, "place_block", placeParams{Vec3: reference.Position, Face: face}, nil)
}

// NearestEntity asks the engine for entities in range, nearest first, and
// returns the first that satisfies match.
func (c *Client) NearestEntity(ctx context.Context, match func(bot.Entity) bool, maxDistance float64) (*bot.Entity, error) {
	var d entitiesData
	if err := c.request(ctx, "entities", entitiesParams{MaxDistance: maxDistance}, &d); err != nil {
		return nil, err
	}
	for i := range d.Entities {
		if match(d.Entities[i]) {
			return &d.Entities[i], nil
		}
	}
	return nil, nil
}

func (c *Client) Chat(ctx context.Context, message string) error {
	return c.request(ctx, "chat", chatParams{Message: message}, nil)
}

// RecentMessages returns up to limit received chat messages, oldest first.
// The bot's own messages are not recorded.
func (c *Client) RecentMessages(limit int) []bot.ChatMessage {
	return c.chat.recent(limit)
}

func (c *Client) BlockTypes(ctx context.Context, version string) (map[string]int, error) {
	var d blockTypesData
	if err := c.request(ctx, "block_types", blockTypesParams{Version: version}, &d); err != nil {
		return nil, err
	}
	return d.Blocks, nil
}
