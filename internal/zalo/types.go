package zalo

import "fmt"

// APIResponse is the envelope every Bot API method returns.
type APIResponse[T any] struct {
	OK          bool   `json:"ok"`
	Result      T      `json:"result"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// APIError is a structured Bot API error.
type APIError struct {
	Code        int
	Description string
	RetryAfter  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("zalo: api error %d: %s", e.Code, e.Description)
}

// User is the bot's own identity as returned by getMe.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AccountName string `json:"account_name,omitempty"`
}

// Chat identifies a bot-API chat.
type Chat struct {
	ID       string `json:"id"`
	ChatType string `json:"chat_type,omitempty"`
}

// From identifies the author of a bot-API message.
type From struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

// Message is an inbound bot-API message.
type Message struct {
	MessageID string `json:"message_id,omitempty"`
	Chat      Chat   `json:"chat"`
	From      From   `json:"from"`
	Date      int64  `json:"date,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Document references an uploaded file.
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// sendMessageRequest is the request body for the sendMessage method.
type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// sendChatActionRequest is the request body for the sendChatAction method.
type sendChatActionRequest struct {
	ChatID string `json:"chat_id"`
	Action string `json:"action"`
}

// sendDocumentRequest references an already-uploaded document by file_id.
type sendDocumentRequest struct {
	ChatID   string `json:"chat_id"`
	Document string `json:"document"`
	Caption  string `json:"caption,omitempty"`
}

// setWebhookRequest is the request body for the setWebhook method.
type setWebhookRequest struct {
	URL         string `json:"url"`
	SecretToken string `json:"secret_token,omitempty"`
}
