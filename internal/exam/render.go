package exam

import (
	"fmt"
	"strings"
)

// Fallback rendering limits for when PDF delivery fails and the exam is sent
// as plain chat text instead.
const (
	fallbackMaxQuestions = 5
	fallbackMaxChars     = 1500
)

// RenderFallbackText renders the first questions of the spec as chat text,
// bounded to fallbackMaxChars, with a note when questions were omitted.
func RenderFallbackText(spec *Spec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📄 %s\n", spec.Title)
	if spec.Subject != "" {
		fmt.Fprintf(&b, "Môn: %s", spec.Subject)
		if spec.Grade != "" {
			fmt.Fprintf(&b, " — Lớp %s", spec.Grade)
		}
		b.WriteByte('\n')
	}
	if spec.Duration != "" {
		fmt.Fprintf(&b, "Thời gian: %s\n", spec.Duration)
	}
	b.WriteByte('\n')

	shown := len(spec.Questions)
	if shown > fallbackMaxQuestions {
		shown = fallbackMaxQuestions
	}

	for i := 0; i < shown; i++ {
		q := spec.Questions[i]
		fmt.Fprintf(&b, "Câu %d: %s\n", questionNumber(q, i), q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "  %c. %s\n", 'A'+j, opt)
		}
		b.WriteByte('\n')
	}

	if omitted := len(spec.Questions) - shown; omitted > 0 {
		fmt.Fprintf(&b, "… và %d câu nữa trong bản PDF đầy đủ.", omitted)
	}

	return truncate(b.String(), fallbackMaxChars)
}

// questionNumber prefers the generated ID when present, otherwise the
// 1-based position.
func questionNumber(q Question, idx int) int {
	if q.ID > 0 {
		return q.ID
	}
	return idx + 1
}

// truncate bounds s to max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
