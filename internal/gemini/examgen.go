package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/liemdt/zbot/internal/exam"
)

// examPrompt is the structured-JSON-requesting template for exam generation.
const examPrompt = `Bạn là một giáo viên giàu kinh nghiệm. Hãy tạo một đề thi với các thông số sau:
- Môn học: %s
- Lớp: %s
- Số câu hỏi: %d
- Loại câu hỏi: %s%s

Trả lời CHỈ bằng một đối tượng JSON duy nhất, không thêm văn bản nào khác, theo đúng cấu trúc:
{
  "title": "tiêu đề đề thi",
  "subject": "môn học",
  "grade": "lớp",
  "duration": "thời gian làm bài",
  "instructions": "hướng dẫn làm bài",
  "questions": [
    {
      "id": 1,
      "type": "multiple_choice | essay | fill_blank",
      "question": "nội dung câu hỏi",
      "options": ["A", "B", "C", "D"],
      "correct_answer": "đáp án đúng",
      "explanation": "giải thích",
      "points": 1.0
    }
  ]
}`

// GenerateExam issues a single structured-JSON prompt and parses the first
// balanced JSON object found anywhere in the streamed response. Missing or
// malformed JSON is a value-level failure: the caller receives an error,
// apologises to the user, and must not retry automatically.
func (c *Client) GenerateExam(ctx context.Context, p exam.Params) (*exam.Spec, error) {
	topicLine := ""
	if strings.TrimSpace(p.Topics) != "" {
		topicLine = fmt.Sprintf("\n- Chủ đề trọng tâm: %s", p.Topics)
	}

	prompt := fmt.Sprintf(examPrompt, p.Subject, p.Grade, p.NumQuestions, p.QuestionType, topicLine)

	// Exam generation never grounds; the output must be pure JSON.
	text, err := c.generate(ctx, prompt, false)
	if err != nil {
		return nil, err
	}

	raw, ok := ExtractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("gemini: exam response contains no JSON object")
	}

	var spec exam.Spec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, fmt.Errorf("gemini: parse exam JSON: %w", err)
	}

	if len(spec.Questions) == 0 {
		return nil, fmt.Errorf("gemini: exam JSON has no questions")
	}

	return &spec, nil
}
