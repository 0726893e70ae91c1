// Package session tracks in-progress interactive exam-creation dialogues.
// Sessions are transient per-conversation state: created when /create is
// issued without enough inline arguments, destroyed when the flow completes,
// is cancelled, or idles past the configured TTL.
package session

import (
	"time"

	"github.com/liemdt/zbot/pkg/message"
)

// Step identifies which exam parameter the session is currently collecting.
type Step int

// Collection steps, advanced one per inbound message.
const (
	StepSubject Step = iota
	StepGrade
	StepNumQuestions
	StepQuestionType
	StepTopics
	StepDone
)

// String returns the field name for logging and prompts.
func (s Step) String() string {
	switch s {
	case StepSubject:
		return "subject"
	case StepGrade:
		return "grade"
	case StepNumQuestions:
		return "num_questions"
	case StepQuestionType:
		return "question_type"
	case StepTopics:
		return "topics"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// Next returns the step that follows s. StepDone is terminal.
func (s Step) Next() Step {
	if s >= StepDone {
		return StepDone
	}
	return s + 1
}

// Session is one conversation's in-progress exam-creation dialogue.
type Session struct {
	Key          message.Key
	Step         Step
	Collected    map[Step]string
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// Store manages exam session lifecycle.
// Implementations must be safe for concurrent use.
type Store interface {
	// Create starts a new session at StepSubject, replacing any existing
	// session for the key.
	Create(key message.Key) *Session

	// Get returns the session for the key, or nil if none exists.
	Get(key message.Key) *Session

	// Advance records answer for the session's current step and moves to
	// the next step, updating LastActiveAt. Returns the updated session,
	// or nil if no session exists.
	Advance(key message.Key, answer string) *Session

	// Delete removes the session for the key. No-op when absent.
	Delete(key message.Key)

	// Prune removes sessions idle longer than maxIdle and returns the
	// number removed.
	Prune(maxIdle time.Duration) int

	// Len returns the number of open sessions.
	Len() int
}
