package bot

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/liemdt/zbot/internal/exam"
	"github.com/liemdt/zbot/internal/session"
	"github.com/liemdt/zbot/pkg/message"
)

const (
	examFailedText = "❌ Xin lỗi, tôi không tạo được đề thi lúc này. Bạn thử lại sau nhé!"
	examDoneText   = "✅ Đề thi của bạn đây! Chúc các em làm bài tốt. 📚"
	generatingText = "⏳ Đang tạo đề thi, vui lòng đợi trong giây lát..."
)

// skipTopicAnswers mark the topics step as intentionally empty.
var skipTopicAnswers = map[string]bool{
	"không": true, "khong": true, "ko": true, "no": true, "skip": true, "bỏ qua": true,
}

// handleCreate enters the exam flow. With at least three inline tokens the
// parameters parse positionally and generation runs immediately; otherwise
// an interactive session starts at the subject step.
func (b *Bot) handleCreate(ctx context.Context, msg message.Inbound, args string) {
	if b.ai == nil {
		b.reply(ctx, msg, noAIText)
		return
	}

	if p, ok := exam.ParseInline(args); ok {
		b.runExam(ctx, msg, p)
		return
	}

	b.sessions.Create(msg.Key())
	b.reply(ctx, msg, "📝 Bắt đầu tạo đề thi! "+exam.Prompt(session.StepSubject))
}

// handleSessionAnswer feeds one plain message into the open session,
// advancing one step. When all fields are collected the session is
// destroyed and generation runs exactly once.
func (b *Bot) handleSessionAnswer(ctx context.Context, msg message.Inbound, answer string) {
	key := msg.Key()

	sess := b.sessions.Get(key)
	if sess == nil {
		return
	}

	answer = strings.TrimSpace(answer)
	if sess.Step == session.StepTopics && skipTopicAnswers[strings.ToLower(answer)] {
		answer = ""
	}

	sess = b.sessions.Advance(key, answer)
	if sess == nil {
		return
	}

	if sess.Step != session.StepDone {
		b.reply(ctx, msg, exam.Prompt(sess.Step))
		return
	}

	p := exam.FromSession(sess)
	b.sessions.Delete(key)
	b.runExam(ctx, msg, p)
}

// handleDemo generates a small fixed-parameter exam end to end.
func (b *Bot) handleDemo(ctx context.Context, msg message.Inbound) {
	if b.ai == nil {
		b.reply(ctx, msg, noAIText)
		return
	}
	b.runExam(ctx, msg, exam.Params{
		Subject:      "Toán",
		Grade:        "10",
		NumQuestions: 5,
		QuestionType: exam.DefaultQuestionType,
	})
}

// runExam generates the spec, renders the PDF, and delivers it, falling
// back to a truncated text rendering when document delivery fails. The
// rendered temp file is removed on every path. Generation failure gets one
// apology and no retry.
func (b *Bot) runExam(ctx context.Context, msg message.Inbound, p exam.Params) {
	ctx, span := b.tracer.Start(ctx, "exam.generate",
		trace.WithAttributes(
			attribute.String("subject", p.Subject),
			attribute.Int("questions", p.NumQuestions),
		))
	defer span.End()

	b.reply(ctx, msg, generatingText)
	b.typing(ctx, msg)

	spec, err := b.ai.GenerateExam(ctx, p)
	if err != nil {
		b.logger.Error("exam generation failed", "conversation", msg.Key(), "error", err)
		b.metrics.examsFailed.Inc()
		b.reply(ctx, msg, examFailedText)
		return
	}
	b.metrics.examsGenerated.Inc()

	path, err := b.renderer.RenderFile(spec, b.tmpDir)
	if err != nil {
		b.logger.Error("pdf rendering failed", "conversation", msg.Key(), "error", err)
		b.sendFallbackText(ctx, msg, spec)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			b.logger.Warn("temp file cleanup failed", "path", path, "error", err)
		}
	}()

	caption := fmt.Sprintf("📄 Đề thi %s lớp %s (%d câu)", spec.Subject, spec.Grade, len(spec.Questions))
	if err := b.channel.SendDocument(ctx, b.chatID(msg), path, caption); err != nil {
		b.logger.Error("document delivery failed", "conversation", msg.Key(), "error", err)
		b.metrics.sendFailures.Inc()
		b.sendFallbackText(ctx, msg, spec)
		return
	}

	b.reply(ctx, msg, examDoneText)
}

// sendFallbackText delivers the exam as bounded plain text when the PDF
// could not be delivered.
func (b *Bot) sendFallbackText(ctx context.Context, msg message.Inbound, spec *exam.Spec) {
	b.reply(ctx, msg, "⚠️ Không gửi được file PDF, đây là bản rút gọn:\n\n"+exam.RenderFallbackText(spec))
}
