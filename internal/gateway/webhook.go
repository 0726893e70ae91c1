package gateway

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/liemdt/zbot/pkg/message"
)

// secretHeader carries the shared webhook secret on bot-API deliveries.
const secretHeader = "X-Zalo-Bot-Secret-Token"

// maxWebhookBody bounds the webhook request body.
const maxWebhookBody = 1 << 20

// webhookPayload accepts both delivery models: the legacy Official Account
// event array and the bot-API single message object.
type webhookPayload struct {
	Events  []webhookEvent  `json:"events,omitempty"`
	Message *webhookMessage `json:"message,omitempty"`
}

type webhookEvent struct {
	EventName string `json:"event_name"`
	Sender    struct {
		ID string `json:"id"`
	} `json:"sender"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

type webhookMessage struct {
	Chat struct {
		ID string `json:"id"`
	} `json:"chat"`
	From struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"from"`
	Text string `json:"text"`
	Date int64  `json:"date"`
}

// handleWebhook processes one webhook delivery. The HTTP status stays 200
// wherever possible so the platform does not retry-storm the endpoint;
// per-event failures degrade to apology replies inside the bot.
func (g *Gateway) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("zbot/gateway").Start(r.Context(), "webhook.handle")
	defer span.End()

	if !g.checkSecret(r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"status": "forbidden"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil || len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "no data"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		g.logger.Warn("malformed webhook payload", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "bad payload"})
		return
	}

	for _, ev := range payload.Events {
		g.dispatchEvent(ctx, ev)
	}
	if payload.Message != nil {
		g.dispatchMessage(ctx, *payload.Message)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// checkSecret enforces the shared-secret header policy. A present header
// must match exactly. A missing header passes unless strict_secret is on;
// the platform's older delivery behavior omits the header on some event
// types, so leniency is the compatible default.
func (g *Gateway) checkSecret(r *http.Request) bool {
	secret := g.config.Zalo.WebhookSecret
	if secret == "" {
		return true
	}

	got := r.Header.Get(secretHeader)
	if got == "" {
		return !g.config.Gateway.StrictSecret
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(secret)) == 1
}

func (g *Gateway) dispatchEvent(ctx context.Context, ev webhookEvent) {
	if ev.Sender.ID == "" {
		g.logger.Warn("event without sender id", "event", ev.EventName)
		return
	}

	msg := message.Inbound{
		Timestamp: time.Now(),
		Sender:    message.Sender{ID: ev.Sender.ID},
		Text:      ev.Message.Text,
	}

	if ev.EventName == "user_send_text" {
		g.bot.HandleInbound(ctx, msg)
		return
	}
	g.bot.HandleNonText(ctx, msg, ev.EventName)
}

func (g *Gateway) dispatchMessage(ctx context.Context, m webhookMessage) {
	if m.From.ID == "" && m.Chat.ID == "" {
		g.logger.Warn("message without chat or sender id")
		return
	}

	ts := time.Now()
	if m.Date > 0 {
		ts = time.Unix(m.Date, 0)
	}

	g.bot.HandleInbound(ctx, message.Inbound{
		Timestamp: ts,
		Sender:    message.Sender{ID: m.From.ID, DisplayName: m.From.DisplayName},
		Chat:      message.Chat{ID: m.Chat.ID},
		Text:      m.Text,
	})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
