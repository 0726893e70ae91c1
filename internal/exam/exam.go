// Package exam defines the structured exam model produced by the AI
// generator, the parameter parsing for the /create command, and the
// plain-text fallback rendering used when PDF delivery fails.
package exam

// QuestionType discriminates generated question variants.
type QuestionType string

// Supported question types.
const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeEssay          QuestionType = "essay"
	TypeFillBlank      QuestionType = "fill_blank"
)

// Question is a single generated exam question.
type Question struct {
	ID            int          `json:"id"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
	Points        float64      `json:"points"`
}

// Spec is the structured representation of a generated exam.
type Spec struct {
	Title        string     `json:"title"`
	Subject      string     `json:"subject"`
	Grade        string     `json:"grade"`
	Duration     string     `json:"duration"`
	Instructions string     `json:"instructions"`
	Questions    []Question `json:"questions"`
}
