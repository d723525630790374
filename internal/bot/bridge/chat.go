// ABOUTME: Bounded history of chat messages received from the server.

package bridge

import (
	"sync"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
)

// chatLog keeps the most recent capacity messages, oldest first.
type chatLog struct {
	mu       sync.Mutex
	capacity int
	msgs     []bot.ChatMessage
}

func newChatLog(capacity int) *chatLog {
	if capacity < 0 {
		capacity = 0
	}
	return &chatLog{capacity: capacity}
}

func (l *chatLog) add(msg bot.ChatMessage) {
	if l.capacity == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
	if over := len(l.msgs) - l.capacity; over > 0 {
		l.msgs = append(l.msgs[:0], l.msgs[over:]...)
	}
}

// recent returns up to limit of the newest messages, oldest first.
func (l *chatLog) recent(limit int) []bot.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 || len(l.msgs) == 0 {
		return nil
	}
	start := len(l.msgs) - limit
	if start < 0 {
		start = 0
	}
	out := make([]bot.ChatMessage, len(l.msgs)-start)
	copy(out, l.msgs[start:])
	return out
}
