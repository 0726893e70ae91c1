// Package bot orchestrates inbound message handling: command
// classification, the interactive exam flow, prompt-context assembly, and
// fail-soft reply dispatch. Every failure path ends in a bounded, friendly
// Vietnamese message; errors never reach the end user and the webhook
// response stays 200 wherever possible.
package bot

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/liemdt/zbot/internal/exam"
	"github.com/liemdt/zbot/internal/memory"
	"github.com/liemdt/zbot/internal/pdf"
	"github.com/liemdt/zbot/internal/router"
	"github.com/liemdt/zbot/internal/session"
	"github.com/liemdt/zbot/pkg/message"
)

// Channel is the outbound messaging surface the bot replies through.
// *zalo.Client satisfies it; tests install fakes.
type Channel interface {
	SendMessage(ctx context.Context, chatID, text string) error
	SendTyping(ctx context.Context, chatID string) error
	SendDocument(ctx context.Context, chatID, path, caption string) error
}

// Completer is the AI completion surface. *gemini.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, msg, contextBlock string, forceSearch bool) string
	GenerateExam(ctx context.Context, p exam.Params) (*exam.Spec, error)
	Model() string
}

// Bot wires the stores, the AI gateway, and the outbound channel together.
type Bot struct {
	conversations memory.ConversationStore
	sessions      session.Store
	ai            Completer // nil when no API key is configured
	channel       Channel
	renderer      *pdf.Renderer
	locks         *router.KeyedMutex
	logger        *slog.Logger
	metrics       *Metrics
	tracer        trace.Tracer
	tmpDir        string
}

// New creates a Bot. ai may be nil when the AI service is not configured;
// the bot then answers free text with a fixed notice. A nil logger falls
// back to slog.Default.
func New(conversations memory.ConversationStore, sessions session.Store, ai Completer, channel Channel, renderer *pdf.Renderer, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		conversations: conversations,
		sessions:      sessions,
		ai:            ai,
		channel:       channel,
		renderer:      renderer,
		locks:         router.NewKeyedMutex(),
		logger:        logger.With("component", "bot"),
		metrics:       newMetrics(),
		tracer:        otel.Tracer("zbot/bot"),
	}
}

// SetTempDir overrides where rendered PDFs are staged before delivery.
// Empty means the OS temp directory.
func (b *Bot) SetTempDir(dir string) { b.tmpDir = dir }

// HandleInbound processes one inbound message end to end. The entire cycle
// runs under the conversation key's lock so concurrent deliveries for the
// same conversation cannot interleave history or session state. Panics are
// recovered into an apology reply.
func (b *Bot) HandleInbound(ctx context.Context, msg message.Inbound) {
	if msg.Text == "" || msg.Sender.ID == "" {
		return
	}

	key := msg.Key()
	unlock := b.locks.Lock(key)
	defer unlock()

	ctx, span := b.tracer.Start(ctx, "bot.handle",
		trace.WithAttributes(attribute.String("conversation", string(key))))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while handling message", "conversation", key, "panic", r)
			b.metrics.errors.Inc()
			b.reply(ctx, msg, "❌ Xin lỗi, đã xảy ra lỗi khi xử lý tin nhắn. Vui lòng thử lại!")
		}
	}()

	b.metrics.messages.Inc()
	b.logger.Info("message received", "conversation", key, "length", len(msg.Text))

	cmd := router.Parse(msg.Text)

	switch cmd.Kind {
	case router.KindStart:
		b.reply(ctx, msg, startText)
	case router.KindHelp:
		b.reply(ctx, msg, helpText)
	case router.KindClear:
		b.handleClear(ctx, msg)
	case router.KindSearch:
		b.handleSearch(ctx, msg, cmd.Args)
	case router.KindToken:
		b.handleToken(ctx, msg)
	case router.KindCreate:
		b.handleCreate(ctx, msg, cmd.Args)
	case router.KindDemo:
		b.handleDemo(ctx, msg)
	case router.KindStatus:
		b.handleStatus(ctx, msg)
	case router.KindFreeText:
		if b.sessions.Get(msg.Key()) != nil {
			b.handleSessionAnswer(ctx, msg, cmd.Text)
			return
		}
		b.handleFreeText(ctx, msg, cmd.Text)
	}
}

// HandleNonText answers image and link events with fixed friendly texts.
func (b *Bot) HandleNonText(ctx context.Context, msg message.Inbound, eventName string) {
	switch eventName {
	case "user_send_image":
		b.reply(ctx, msg, imageText)
	case "user_send_link":
		b.reply(ctx, msg, linkText)
	default:
		b.logger.Info("unhandled event", "event", eventName)
	}
}

// reply sends text back through the channel, logging delivery failures.
// Delivery failure is never an error for the user path.
func (b *Bot) reply(ctx context.Context, msg message.Inbound, text string) {
	if err := b.channel.SendMessage(ctx, b.chatID(msg), text); err != nil {
		b.logger.Error("send failed", "conversation", msg.Key(), "error", err)
		b.metrics.sendFailures.Inc()
	}
}

// chatID returns the bot-API chat identifier, falling back to the sender
// identifier for the legacy Official Account event model.
func (b *Bot) chatID(msg message.Inbound) string {
	if msg.Chat.ID != "" {
		return msg.Chat.ID
	}
	return msg.Sender.ID
}

// typing shows a typing indicator before slow AI work. Best effort.
func (b *Bot) typing(ctx context.Context, msg message.Inbound) {
	if err := b.channel.SendTyping(ctx, b.chatID(msg)); err != nil {
		b.logger.Debug("typing action failed", "error", err)
	}
}

// contextBlock renders the recent conversation window for prompt injection.
func (b *Bot) contextBlock(key message.Key) string {
	turns, err := b.conversations.Recent(key, memory.DefaultContextTurns)
	if err != nil {
		b.logger.Error("reading history failed", "conversation", key, "error", err)
		return ""
	}
	block, ok := memory.RenderContext(turns)
	if !ok {
		return ""
	}
	return block
}

// remember records a completed exchange, logging storage failures.
func (b *Bot) remember(key message.Key, userText, botText string) {
	if err := b.conversations.Append(key, userText, botText); err != nil {
		b.logger.Error("storing history failed", "conversation", key, "error", err)
	}
}

// complete calls the AI gateway under a span and records latency.
func (b *Bot) complete(ctx context.Context, msg, contextBlock string, forceSearch bool) string {
	ctx, span := b.tracer.Start(ctx, "gemini.complete",
		trace.WithAttributes(attribute.Bool("search", forceSearch)))
	defer span.End()

	start := time.Now()
	text := b.ai.Complete(ctx, msg, contextBlock, forceSearch)
	b.metrics.completions.Inc()
	b.metrics.completionSeconds.Observe(time.Since(start).Seconds())
	return text
}
