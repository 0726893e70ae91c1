// Package message defines the platform-agnostic data contract between the
// Zalo channel and the bot core.
package message

import "time"

// Sender identifies the author of an inbound message.
type Sender struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

// Chat identifies the conversation a message belongs to. For the legacy
// Official Account event model there is no chat identifier and ID is empty.
type Chat struct {
	ID string `json:"id,omitempty"`
}

// Inbound represents a text message received from the messaging platform.
type Inbound struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    Sender    `json:"sender"`
	Chat      Chat      `json:"chat"`
	Text      string    `json:"text"`
}

// Key returns the conversation key scoping history and session state.
// Sender and chat identifiers are joined so that the same user talking in
// two chats owns two independent conversations.
func (m Inbound) Key() Key {
	return NewKey(m.Sender.ID, m.Chat.ID)
}

// Key is the identity of a conversation.
type Key string

// NewKey builds a conversation key from a sender and an optional chat
// identifier. Stable for the lifetime of a conversation.
func NewKey(senderID, chatID string) Key {
	if chatID == "" {
		return Key(senderID)
	}
	return Key(senderID + ":" + chatID)
}

// Outbound represents a reply to be sent back through the channel.
// Recipient is the sender of the message being answered; Chat carries the
// bot-API chat identifier when one exists.
type Outbound struct {
	Chat      Chat   `json:"chat"`
	Recipient Sender `json:"recipient"`
	Text      string `json:"text"`
}
