package exam

import (
	"strings"
	"testing"

	"github.com/liemdt/zbot/internal/session"
	"github.com/liemdt/zbot/pkg/message"
)

func TestParseInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args string
		want Params
		ok   bool
	}{
		{
			name: "full form",
			args: "Toán 10 15 trắc_nghiệm hàm_số",
			want: Params{Subject: "Toán", Grade: "10", NumQuestions: 15, QuestionType: "trắc_nghiệm", Topics: "hàm_số"},
			ok:   true,
		},
		{
			name: "minimum three tokens",
			args: "Văn 12 20",
			want: Params{Subject: "Văn", Grade: "12", NumQuestions: 20, QuestionType: DefaultQuestionType},
			ok:   true,
		},
		{
			name: "multi word topics",
			args: "Lý 11 10 tự_luận điện xoay chiều",
			want: Params{Subject: "Lý", Grade: "11", NumQuestions: 10, QuestionType: "tự_luận", Topics: "điện xoay chiều"},
			ok:   true,
		},
		{
			name: "non numeric count falls back",
			args: "Toán 10 nhiều",
			want: Params{Subject: "Toán", Grade: "10", NumQuestions: DefaultNumQuestions, QuestionType: DefaultQuestionType},
			ok:   true,
		},
		{
			name: "negative count falls back",
			args: "Toán 10 -5",
			want: Params{Subject: "Toán", Grade: "10", NumQuestions: DefaultNumQuestions, QuestionType: DefaultQuestionType},
			ok:   true,
		},
		{
			name: "two tokens not enough",
			args: "Toán 10",
			ok:   false,
		},
		{
			name: "empty",
			args: "",
			ok:   false,
		},
		{
			name: "whitespace only",
			args: "   ",
			ok:   false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseInline(tt.args)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromSession(t *testing.T) {
	t.Parallel()

	sess := &session.Session{
		Key:  message.Key("u1"),
		Step: session.StepDone,
		Collected: map[session.Step]string{
			session.StepSubject:      "Hóa",
			session.StepGrade:        "11",
			session.StepNumQuestions: "8",
			session.StepQuestionType: "tự luận",
			session.StepTopics:       "este  ",
		},
	}

	p := FromSession(sess)
	want := Params{Subject: "Hóa", Grade: "11", NumQuestions: 8, QuestionType: "tự luận", Topics: "este"}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}
}

func TestFromSession_Defaults(t *testing.T) {
	t.Parallel()

	sess := &session.Session{
		Key:  message.Key("u1"),
		Step: session.StepDone,
		Collected: map[session.Step]string{
			session.StepSubject:      "Toán",
			session.StepGrade:        "10",
			session.StepNumQuestions: "mười",
			session.StepQuestionType: " ",
		},
	}

	p := FromSession(sess)
	if p.NumQuestions != DefaultNumQuestions {
		t.Errorf("NumQuestions = %d, want %d", p.NumQuestions, DefaultNumQuestions)
	}
	if p.QuestionType != DefaultQuestionType {
		t.Errorf("QuestionType = %q, want %q", p.QuestionType, DefaultQuestionType)
	}
}

func TestPrompt_AllCollectionSteps(t *testing.T) {
	t.Parallel()

	steps := []session.Step{
		session.StepSubject,
		session.StepGrade,
		session.StepNumQuestions,
		session.StepQuestionType,
		session.StepTopics,
	}
	for _, s := range steps {
		if Prompt(s) == "" {
			t.Errorf("no prompt for step %v", s)
		}
	}
	if Prompt(session.StepDone) != "" {
		t.Error("StepDone should have no prompt")
	}
}

func TestRenderFallbackText(t *testing.T) {
	t.Parallel()

	spec := &Spec{
		Title:    "ĐỀ THI THỬ",
		Subject:  "Toán",
		Grade:    "10",
		Duration: "45 phút",
	}
	for i := 1; i <= 8; i++ {
		spec.Questions = append(spec.Questions, Question{
			ID:       i,
			Type:     TypeMultipleChoice,
			Question: "Câu hỏi số " + strings.Repeat("x", 10),
			Options:  []string{"một", "hai", "ba", "bốn"},
		})
	}

	out := RenderFallbackText(spec)

	if !strings.Contains(out, "ĐỀ THI THỬ") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "Câu 5:") {
		t.Error("fifth question missing")
	}
	if strings.Contains(out, "Câu 6:") {
		t.Error("more than five questions rendered")
	}
	if !strings.Contains(out, "3 câu nữa") {
		t.Errorf("missing omitted-count note:\n%s", out)
	}
	if len(out) > 1500 {
		t.Errorf("fallback text %d bytes, want <= 1500", len(out))
	}
}

func TestRenderFallbackText_TruncationKeepsValidUTF8(t *testing.T) {
	t.Parallel()

	spec := &Spec{Title: "Đề dài"}
	for i := 1; i <= 5; i++ {
		spec.Questions = append(spec.Questions, Question{
			ID:       i,
			Question: strings.Repeat("ề", 400),
		})
	}

	out := RenderFallbackText(spec)
	if len(out) > 1500 {
		t.Fatalf("got %d bytes, want <= 1500", len(out))
	}
	if !strings.HasSuffix(out, "ề") && strings.ContainsRune(out, '�') {
		t.Error("truncation split a UTF-8 sequence")
	}
}
