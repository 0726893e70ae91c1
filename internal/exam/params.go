package exam

import (
	"strconv"
	"strings"

	"github.com/liemdt/zbot/internal/session"
)

// DefaultNumQuestions is used when the question count is absent or not
// numeric.
const DefaultNumQuestions = 10

// DefaultQuestionType is used when no type is given. Vietnamese for
// "multiple choice", matching what teachers type in chat.
const DefaultQuestionType = "trắc nghiệm"

// Params are the user-supplied exam parameters, collected either inline from
// the /create argument tail or step by step through an interactive session.
type Params struct {
	Subject      string
	Grade        string
	NumQuestions int
	QuestionType string
	Topics       string
}

// ParseInline parses the argument tail of an inline /create command. The
// second return is false when fewer than three tokens are present, meaning
// the interactive flow should run instead.
//
// Positional layout: subject grade count [type] [topics...].
func ParseInline(args string) (Params, bool) {
	tokens := strings.Fields(args)
	if len(tokens) < 3 {
		return Params{}, false
	}

	p := Params{
		Subject:      tokens[0],
		Grade:        tokens[1],
		NumQuestions: parseCount(tokens[2]),
		QuestionType: DefaultQuestionType,
	}
	if len(tokens) > 3 {
		p.QuestionType = tokens[3]
	}
	if len(tokens) > 4 {
		p.Topics = strings.Join(tokens[4:], " ")
	}
	return p, true
}

// FromSession assembles Params from a completed interactive session.
func FromSession(sess *session.Session) Params {
	p := Params{
		Subject:      sess.Collected[session.StepSubject],
		Grade:        sess.Collected[session.StepGrade],
		NumQuestions: parseCount(sess.Collected[session.StepNumQuestions]),
		QuestionType: sess.Collected[session.StepQuestionType],
		Topics:       strings.TrimSpace(sess.Collected[session.StepTopics]),
	}
	if strings.TrimSpace(p.QuestionType) == "" {
		p.QuestionType = DefaultQuestionType
	}
	return p
}

// parseCount parses a question count, falling back to the default when the
// token is not a positive integer.
func parseCount(tok string) int {
	n, err := strconv.Atoi(tok)
	if err != nil || n <= 0 {
		return DefaultNumQuestions
	}
	return n
}

// Prompt returns the Vietnamese question the bot asks for the given
// collection step.
func Prompt(step session.Step) string {
	switch step {
	case session.StepSubject:
		return "📚 Bạn muốn tạo đề thi môn gì? (ví dụ: Toán, Văn, Anh)"
	case session.StepGrade:
		return "🎓 Đề thi dành cho lớp mấy? (ví dụ: 10, 11, 12)"
	case session.StepNumQuestions:
		return "🔢 Đề thi gồm bao nhiêu câu hỏi? (ví dụ: 10)"
	case session.StepQuestionType:
		return "📝 Loại câu hỏi nào? (trắc nghiệm / tự luận / điền khuyết)"
	case session.StepTopics:
		return "🎯 Chủ đề trọng tâm? (nhập nội dung hoặc \"không\" để bỏ qua)"
	default:
		return ""
	}
}
