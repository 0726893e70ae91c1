package zalo

import "context"

// SendMessage sends a text message to the chat, truncating to
// MaxMessageLength first. Delivery failures come back as errors for the
// caller to log; they are never surfaced to the end user.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	_, err := do[Message](ctx, c, "sendMessage", sendMessageRequest{
		ChatID: chatID,
		Text:   Truncate(text, MaxMessageLength),
	})
	return err
}

// Identity returns the bot's display name from getMe, validating the
// configured token.
func (c *Client) Identity(ctx context.Context) (string, error) {
	u, err := c.GetMe(ctx)
	if err != nil {
		return "", err
	}
	if u.DisplayName != "" {
		return u.DisplayName, nil
	}
	return u.AccountName, nil
}

// SendTyping shows the typing indicator in the chat. Best effort; callers
// ignore the error.
func (c *Client) SendTyping(ctx context.Context, chatID string) error {
	_, err := do[bool](ctx, c, "sendChatAction", sendChatActionRequest{
		ChatID: chatID,
		Action: "typing",
	})
	return err
}

// Truncate bounds s to max characters. The wire limit counts characters,
// not bytes, so Vietnamese text keeps its full budget.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
