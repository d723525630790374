// ABOUTME: Chat pack provides send and read tools for in-game chat.
// ABOUTME: Outgoing messages pass through a token bucket so the bot is not kicked for spam.

package builtins

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
	"github.com/dkruyt/minecraft-mcp-server/internal/packs"
)

const defaultChatReadLimit = 10

// ChatLimit configures the outgoing chat throttle. A zero PerMinute disables it.
type ChatLimit struct {
	PerMinute int
	Burst     int
}

// newChatLimiter converts a per-minute budget into a token bucket.
func newChatLimiter(limit ChatLimit) *rate.Limiter {
	if limit.PerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := limit.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(limit.PerMinute)), burst)
}

// ChatPack creates the chat pack.
func ChatPack(c bot.Chatter, limit ChatLimit) *packs.BuiltinPack {
	h := &chatHandlers{chat: c, limiter: newChatLimiter(limit)}
	return &packs.BuiltinPack{
		ID: "builtin:chat",
		Tools: []*packs.BuiltinTool{
			{
				Definition: packs.Define[sendChatInput]("send-chat", "Send a chat message in-game"),
				Handler:    h.SendChat,
			},
			{
				Definition: packs.Define[readChatInput]("read-chat", "Read recent chat messages the bot has received"),
				Handler:    h.ReadChat,
			},
		},
	}
}

type chatHandlers struct {
	chat    bot.Chatter
	limiter *rate.Limiter
}

type sendChatInput struct {
	Message string `json:"message" jsonschema_description:"Message to send in chat"`
}

type readChatInput struct {
	Limit *int `json:"limit,omitempty" jsonschema_description:"Maximum number of messages to return (default: 10)" jsonschema:"minimum=1"`
}

func (h *chatHandlers) SendChat(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in sendChatInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("chat throttled: %w", err)
	}
	if err := h.chat.Chat(ctx, in.Message); err != nil {
		return nil, fmt.Errorf("failed to send chat message: %w", err)
	}
	return packs.Done(fmt.Sprintf("Sent message: \"%s\"", in.Message)), nil
}

func (h *chatHandlers) ReadChat(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in readChatInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	limit := defaultChatReadLimit
	if in.Limit != nil {
		limit = *in.Limit
	}

	messages := h.chat.RecentMessages(limit)
	if len(messages) == 0 {
		return packs.NotFound("No chat messages received yet"), nil
	}

	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = fmt.Sprintf("%s: %s", m.Username, m.Message)
	}
	return packs.Done(strings.Join(lines, "\n")), nil
}
