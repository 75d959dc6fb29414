package model

import (
	"strings"
	"time"
)

// Stage is one of the four steps of the session workflow.
type Stage string

const (
	StageUpload    Stage = "upload"
	StageReview    Stage = "review"
	StageStructure Stage = "structure"
	StageExport    Stage = "export"
)

// Stages lists all stages in workflow order.
var Stages = []Stage{StageUpload, StageReview, StageStructure, StageExport}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageUpload, StageReview, StageStructure, StageExport:
		return true
	}
	return false
}

// Kind represents a question kind.
type Kind string

const (
	// KindMultipleChoice is a question with a fixed list of options.
	KindMultipleChoice Kind = "mcq"
	// KindFreeResponse is a free-form (essay) question.
	KindFreeResponse Kind = "essay"
)

// Question is the structured representation of one extracted or manually
// authored question.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
	Kind    Kind     `json:"type"`
}

// HasAnswer reports whether the question carries a non-blank answer.
// Consumers substitute a localized "needs review" sentinel when it is
// missing; the parser leaves the field exactly as delivered.
func (q Question) HasAnswer() bool {
	return strings.TrimSpace(q.Answer) != ""
}

// NewManualQuestion returns the blank free-response question appended by
// the "add question" action in the Structure stage.
func NewManualQuestion() Question {
	return Question{Options: []string{}, Kind: KindFreeResponse}
}

// Session holds the full state of one user's wizard session. The store
// owns the persistent copy; transition handlers receive it explicitly
// and mutate it in place.
type Session struct {
	ID        string
	Stage     Stage
	RawText   string
	Questions []Question
	// APIKey is the inference credential supplied by the user for this
	// session only. It is never written anywhere outside the session row.
	APIKey    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession returns a fresh session at the Upload stage.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Stage:     StageUpload,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
