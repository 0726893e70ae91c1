package bot

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestBot_CreateInline_GeneratesImmediately(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{}
	ai := &fakeAI{spec: testSpec()}
	b := newTestBot(ai, ch)
	b.SetTempDir(t.TempDir())

	b.HandleInbound(context.Background(), inbound("/create Toán 10 15 trắc_nghiệm hàm_số"))

	if ai.genCalls != 1 {
		t.Fatalf("generation ran %d times, want 1", ai.genCalls)
	}
	if len(ch.documents) != 1 {
		t.Fatalf("documents sent = %d, want 1", len(ch.documents))
	}
	if !strings.Contains(ch.last(), "Chúc các em làm bài tốt") {
		t.Errorf("final reply = %q", ch.last())
	}
	// Temp file must be removed after delivery.
	if _, err := os.Stat(ch.documents[0]); !os.IsNotExist(err) {
		t.Errorf("temp file still exists: %s", ch.documents[0])
	}
}

func TestBot_CreateInteractive_FullFlow(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{}
	ai := &fakeAI{spec: testSpec()}
	b := newTestBot(ai, ch)
	b.SetTempDir(t.TempDir())

	b.HandleInbound(context.Background(), inbound("/create"))
	if !strings.Contains(ch.last(), "môn gì") {
		t.Fatalf("subject prompt missing: %q", ch.last())
	}

	steps := []struct {
		answer     string
		wantPrompt string
	}{
		{"Toán", "lớp mấy"},
		{"10", "bao nhiêu câu"},
		{"15", "Loại câu hỏi"},
		{"trắc nghiệm", "Chủ đề"},
	}
	for _, s := range steps {
		b.HandleInbound(context.Background(), inbound(s.answer))
		if !strings.Contains(ch.last(), s.wantPrompt) {
			t.Fatalf("after %q expected prompt containing %q, got %q", s.answer, s.wantPrompt, ch.last())
		}
		if ai.genCalls != 0 {
			t.Fatalf("generation ran before flow completed")
		}
	}

	b.HandleInbound(context.Background(), inbound("hàm số"))

	if ai.genCalls != 1 {
		t.Fatalf("generation ran %d times, want exactly 1", ai.genCalls)
	}
	if len(ch.documents) != 1 {
		t.Errorf("documents sent = %d, want 1", len(ch.documents))
	}

	// The session is gone; the next message goes to the AI.
	b.HandleInbound(context.Background(), inbound("cảm ơn"))
	if ai.genCalls != 1 {
		t.Errorf("a later message re-triggered generation")
	}
}

func TestBot_CreateInteractive_SkipTopics(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{}
	ai := &fakeAI{spec: testSpec()}
	b := newTestBot(ai, ch)
	b.SetTempDir(t.TempDir())

	b.HandleInbound(context.Background(), inbound("/create"))
	for _, a := range []string{"Toán", "10", "5", "trắc nghiệm", "không"} {
		b.HandleInbound(context.Background(), inbound(a))
	}

	if ai.genCalls != 1 {
		t.Fatalf("generation ran %d times, want 1", ai.genCalls)
	}
}

func TestBot_Demo(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{}
	ai := &fakeAI{spec: testSpec()}
	b := newTestBot(ai, ch)
	b.SetTempDir(t.TempDir())

	b.HandleInbound(context.Background(), inbound("/demo"))
	if ai.genCalls != 1 {
		t.Fatalf("generation ran %d times, want 1", ai.genCalls)
	}
	if len(ch.documents) != 1 {
		t.Errorf("documents sent = %d, want 1", len(ch.documents))
	}
}

func TestBot_GenerationFailure_ApologisesWithoutRetry(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{}
	ai := &fakeAI{genErr: errors.New("model unavailable")}
	b := newTestBot(ai, ch)

	b.HandleInbound(context.Background(), inbound("/create Toán 10 5"))

	if ai.genCalls != 1 {
		t.Fatalf("generation ran %d times, want 1 (no retry)", ai.genCalls)
	}
	if !strings.Contains(ch.last(), "không tạo được đề thi") {
		t.Errorf("apology = %q", ch.last())
	}
	if len(ch.documents) != 0 {
		t.Error("document sent despite generation failure")
	}
}

func TestBot_DocumentDeliveryFailure_FallsBackToText(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{docErr: errors.New("file too large")}
	ai := &fakeAI{spec: testSpec()}
	b := newTestBot(ai, ch)
	b.SetTempDir(t.TempDir())

	b.HandleInbound(context.Background(), inbound("/create Toán 10 5"))

	last := ch.last()
	if !strings.Contains(last, "Không gửi được file PDF") {
		t.Fatalf("fallback notice missing: %q", last)
	}
	if !strings.Contains(last, "Câu hỏi 1") {
		t.Errorf("fallback lacks question text: %q", last)
	}
	if len(last) > 2000 {
		t.Errorf("fallback reply %d bytes", len(last))
	}
	// Temp file removed on the failure path too.
	if len(ch.documents) == 1 {
		if _, err := os.Stat(ch.documents[0]); !os.IsNotExist(err) {
			t.Errorf("temp file still exists: %s", ch.documents[0])
		}
	}
}
