package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/liemdt/zbot/internal/gemini"
	"github.com/liemdt/zbot/pkg/message"
)

const startText = `🤖 Xin chào! Tôi là Bot AI được trang bị Gemini 2.5 Flash với khả năng:

✨ Trả lời câu hỏi thông minh
🔍 Tìm kiếm thông tin mới nhất trên Google
💭 Suy nghĩ logic và phân tích sâu
📝 Tạo đề thi và xuất file PDF
🗣️ Trò chuyện tự nhiên bằng tiếng Việt

Hãy gửi bất kỳ câu hỏi nào bạn muốn!`

const helpText = `📋 Danh sách lệnh:
/start - Khởi động bot
/help - Hiển thị trợ giúp
/clear - Xóa lịch sử trò chuyện
/search [câu hỏi] - Tìm kiếm thông tin mới nhất
/create [môn] [lớp] [số câu] - Tạo đề thi PDF
/demo - Tạo đề thi mẫu
/status - Trạng thái bot
/token - Kiểm tra kết nối

🔍 Tự động tìm kiếm khi:
• Hỏi tin tức, thời tiết
• Hỏi giá cả, tỷ giá
• Cần thông tin mới nhất
• Hỏi về sự kiện hiện tại

Chỉ cần gửi tin nhắn bình thường để bắt đầu!`

const (
	clearedText     = "🗑️ Đã xóa lịch sử trò chuyện!"
	searchingText   = "🔍 Đang tìm kiếm thông tin mới nhất..."
	searchUsageText = "❌ Vui lòng nhập nội dung cần tìm kiếm. Ví dụ: /search giá Bitcoin hôm nay"
	noAIText        = "⚠️ Tính năng AI chưa được cấu hình. Vui lòng liên hệ admin để kích hoạt."
	imageText       = "🖼️ Cảm ơn bạn đã gửi hình ảnh! Hiện tại tôi chưa thể phân tích hình ảnh, nhưng tôi có thể trả lời các câu hỏi khác của bạn."
	linkText        = "🔗 Cảm ơn bạn đã chia sẻ link! Tôi có thể trả lời các câu hỏi về nội dung hoặc hỗ trợ bạn với vấn đề khác."
)

func (b *Bot) handleClear(ctx context.Context, msg message.Inbound) {
	key := msg.Key()
	if err := b.conversations.Clear(key); err != nil {
		b.logger.Error("clearing history failed", "conversation", key, "error", err)
	}
	b.sessions.Delete(key)
	b.reply(ctx, msg, clearedText)
}

func (b *Bot) handleSearch(ctx context.Context, msg message.Inbound, query string) {
	if strings.TrimSpace(query) == "" {
		b.reply(ctx, msg, searchUsageText)
		return
	}
	if b.ai == nil {
		b.reply(ctx, msg, noAIText)
		return
	}

	b.logger.Info("forced search", "conversation", msg.Key())
	b.reply(ctx, msg, searchingText)
	b.typing(ctx, msg)

	answer := b.complete(ctx, query, "", true)
	b.remember(msg.Key(), msg.Text, answer)
	b.reply(ctx, msg, "🔍 **Kết quả tìm kiếm:**\n\n"+answer)
}

// handleToken validates the configured bot credential against the
// platform's self-identity endpoint.
func (b *Bot) handleToken(ctx context.Context, msg message.Inbound) {
	ident, ok := b.channel.(interface {
		Identity(ctx context.Context) (string, error)
	})
	if !ok {
		b.reply(ctx, msg, "⚠️ Không thể kiểm tra token trên kênh này.")
		return
	}

	name, err := ident.Identity(ctx)
	if err != nil {
		b.logger.Error("token check failed", "error", err)
		b.reply(ctx, msg, "❌ Token không hợp lệ hoặc không kết nối được.")
		return
	}
	b.reply(ctx, msg, fmt.Sprintf("✅ Token hợp lệ! Bot: %s", name))
}

func (b *Bot) handleStatus(ctx context.Context, msg message.Inbound) {
	var sb strings.Builder
	sb.WriteString("📊 Trạng thái bot:\n")

	if b.ai != nil {
		fmt.Fprintf(&sb, "🤖 AI: %s\n", b.ai.Model())
	} else {
		sb.WriteString("🤖 AI: chưa cấu hình\n")
	}

	turns, err := b.conversations.Len(msg.Key())
	if err == nil {
		fmt.Fprintf(&sb, "💬 Lịch sử: %d lượt trao đổi\n", turns)
	}
	fmt.Fprintf(&sb, "📝 Phiên tạo đề đang mở: %d", b.sessions.Len())

	b.reply(ctx, msg, sb.String())
}

func (b *Bot) handleFreeText(ctx context.Context, msg message.Inbound, text string) {
	if b.ai == nil {
		b.reply(ctx, msg, fmt.Sprintf("📝 Tôi đã nhận được tin nhắn: %s\n\n%s", text, noAIText))
		return
	}

	b.typing(ctx, msg)

	willSearch := gemini.ShouldSearch(text)
	if willSearch {
		b.reply(ctx, msg, searchingText)
	}

	answer := b.complete(ctx, text, b.contextBlock(msg.Key()), false)
	b.remember(msg.Key(), text, answer)

	if willSearch {
		answer = "🔍 **Thông tin mới nhất:**\n\n" + answer
	}
	b.reply(ctx, msg, answer)
}
