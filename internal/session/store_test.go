package session

import (
	"testing"
	"time"

	"github.com/liemdt/zbot/pkg/message"
)

func TestStep_Next_Terminal(t *testing.T) {
	t.Parallel()

	order := []Step{StepSubject, StepGrade, StepNumQuestions, StepQuestionType, StepTopics, StepDone}
	for i := 0; i < len(order)-1; i++ {
		if got := order[i].Next(); got != order[i+1] {
			t.Errorf("%v.Next() = %v, want %v", order[i], got, order[i+1])
		}
	}
	if got := StepDone.Next(); got != StepDone {
		t.Errorf("StepDone.Next() = %v, want StepDone", got)
	}
}

func TestInMemoryStore_AdvanceFullFlow(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	key := message.Key("u1")

	sess := s.Create(key)
	if sess.Step != StepSubject {
		t.Fatalf("new session at %v, want StepSubject", sess.Step)
	}

	answers := []string{"Toán", "10", "15", "trắc nghiệm", "hàm số"}
	for _, a := range answers {
		sess = s.Advance(key, a)
		if sess == nil {
			t.Fatalf("advance(%q) returned nil", a)
		}
	}

	if sess.Step != StepDone {
		t.Fatalf("after 5 answers step = %v, want StepDone", sess.Step)
	}
	if got := sess.Collected[StepSubject]; got != "Toán" {
		t.Errorf("subject = %q", got)
	}
	if got := sess.Collected[StepTopics]; got != "hàm số" {
		t.Errorf("topics = %q", got)
	}
}

func TestInMemoryStore_Advance_NoSession(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	if sess := s.Advance(message.Key("nobody"), "x"); sess != nil {
		t.Errorf("advance without session = %v, want nil", sess)
	}
}

func TestInMemoryStore_Create_ReplacesExisting(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	key := message.Key("u1")

	s.Create(key)
	s.Advance(key, "Toán")

	sess := s.Create(key)
	if sess.Step != StepSubject {
		t.Errorf("recreated session at %v, want StepSubject", sess.Step)
	}
	if len(sess.Collected) != 0 {
		t.Errorf("recreated session kept answers: %v", sess.Collected)
	}
}

func TestInMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	key := message.Key("u1")
	s.Create(key)
	s.Delete(key)

	if s.Get(key) != nil {
		t.Error("session survived delete")
	}
	// Deleting again is a no-op.
	s.Delete(key)
}

func TestInMemoryStore_Prune(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	current := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Create(message.Key("stale"))
	current = current.Add(16 * time.Minute)
	s.Create(message.Key("active"))

	pruned := s.Prune(15 * time.Minute)
	if pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}
	if s.Get(message.Key("stale")) != nil {
		t.Error("stale session survived prune")
	}
	if s.Get(message.Key("active")) == nil {
		t.Error("active session was pruned")
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}

func TestInMemoryStore_Advance_RefreshesIdleClock(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	current := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	key := message.Key("u1")
	s.Create(key)

	current = current.Add(10 * time.Minute)
	s.Advance(key, "Toán")

	current = current.Add(10 * time.Minute)
	if pruned := s.Prune(15 * time.Minute); pruned != 0 {
		t.Errorf("session pruned despite recent answer, pruned = %d", pruned)
	}
}
