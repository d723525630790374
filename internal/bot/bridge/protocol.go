// ABOUTME: Wire types for the JSON text frames exchanged with the bot engine.
// ABOUTME: Engine-side failures surface as EngineError, with version gaps matching bot.ErrNoVersionData.

package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
)

// Frame types.
const (
	typeCommand  = "command"
	typeResponse = "response"
	typeEvent    = "event"
	typePing     = "ping"
	typePong     = "pong"
)

// Engine events.
const (
	eventSpawn  = "spawn"
	eventChat   = "chat"
	eventKicked = "kicked"
	eventEnd    = "end"
	eventError  = "error"
)

// CodeUnsupportedVersion is the engine error code for a game version it has
// no metadata for.
const CodeUnsupportedVersion = "unsupported_version"

// command is an outgoing request frame.
type command struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Params any    `json:"params,omitempty"`
}

// envelope is any incoming frame: a response to a command, an event, or a pong.
type envelope struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Event   string          `json:"event,omitempty"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// EngineError is a command the engine answered with success=false.
type EngineError struct {
	Action  string
	Code    string
	Message string
}

func (e *EngineError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	return fmt.Sprintf("engine %s: %s", e.Action, msg)
}

// Is lets errors.Is(err, bot.ErrNoVersionData) match version gaps.
func (e *EngineError) Is(target error) bool {
	return target == bot.ErrNoVersionData && e.Code == CodeUnsupportedVersion
}

// Command params.

type connectParams struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
}

type gotoParams struct {
	bot.Vec3
	Range float64 `json:"range"`
}

type controlParams struct {
	Control bot.Control `json:"control"`
	State   bool        `json:"state"`
}

type equipParams struct {
	Slot        int    `json:"slot"`
	Destination string `json:"destination"`
}

type placeParams struct {
	bot.Vec3
	Face bot.Vec3 `json:"face"`
}

type findBlockParams struct {
	Type        int     `json:"type"`
	MaxDistance float64 `json:"max_distance"`
}

type entitiesParams struct {
	MaxDistance float64 `json:"max_distance"`
}

type chatParams struct {
	Message string `json:"message"`
}

type blockTypesParams struct {
	Version string `json:"version"`
}

// Response and event payloads.

type connectData struct {
	Version string `json:"version"`
}

type blockData struct {
	Block *bot.Block `json:"block"`
}

type visibleData struct {
	Visible bool `json:"visible"`
}

type diggableData struct {
	Diggable bool `json:"diggable"`
}

type inventoryData struct {
	Items []bot.Item `json:"items"`
}

type entitiesData struct {
	Entities []bot.Entity `json:"entities"`
}

type blockTypesData struct {
	Blocks map[string]int `json:"blocks"`
}

type chatEventData struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type reasonEventData struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (d reasonEventData) text() string {
	if d.Reason != "" {
		return d.Reason
	}
	if d.Message != "" {
		return d.Message
	}
	return "no reason given"
}
