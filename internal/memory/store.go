// Package memory provides bounded per-conversation history storage behind a
// swappable interface, with an in-memory implementation. A SQLite-backed
// implementation lives in the sqlite subpackage.
package memory

import (
	"strings"
	"time"

	"github.com/liemdt/zbot/pkg/message"
)

// MaxTurns is the number of user/bot exchanges retained per conversation.
// Older turns are evicted first-in-first-out.
const MaxTurns = 10

// DefaultContextTurns is how many recent turns are rendered into the prompt
// context block by default.
const DefaultContextTurns = 3

// Turn is one user-message/bot-reply exchange. Immutable once created.
type Turn struct {
	UserText  string
	BotText   string
	Timestamp time.Time
}

// ConversationStore manages bounded conversation history.
// Implementations must be safe for concurrent use.
type ConversationStore interface {
	// Append records a completed exchange, creating the conversation if
	// absent and evicting the oldest turn beyond MaxTurns.
	Append(key message.Key, userText, botText string) error

	// Recent returns up to n most recent turns in chronological order.
	// A conversation with no history returns a nil slice.
	Recent(key message.Key, n int) ([]Turn, error)

	// Clear removes the conversation entirely. No-op when absent.
	Clear(key message.Key) error

	// Len returns the number of turns stored for the conversation.
	Len(key message.Key) (int, error)
}

// RenderContext formats turns as alternating "User:"/"Bot:" lines for
// injection into the model prompt, oldest first. The second return is false
// when there is nothing to render.
func RenderContext(turns []Turn) (string, bool) {
	if len(turns) == 0 {
		return "", false
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("User: ")
		b.WriteString(t.UserText)
		b.WriteString("\nBot: ")
		b.WriteString(t.BotText)
	}
	return b.String(), true
}
