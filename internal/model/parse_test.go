package model

import (
	"errors"
	"testing"
)

func TestParseQuestions(t *testing.T) {
	data := `[
		{"question": "What is 2+2?", "options": ["3", "4"], "answer": "4", "type": "mcq"},
		{"question": "Explain gravity.", "type": "essay"}
	]`

	questions, err := ParseQuestions(data)
	if err != nil {
		t.Fatalf("ParseQuestions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}

	q := questions[0]
	if q.Text != "What is 2+2?" {
		t.Errorf("Text = %q, want %q", q.Text, "What is 2+2?")
	}
	if len(q.Options) != 2 || q.Options[1] != "4" {
		t.Errorf("Options = %v, want [3 4]", q.Options)
	}
	if q.Answer != "4" {
		t.Errorf("Answer = %q, want %q", q.Answer, "4")
	}
	if q.Kind != KindMultipleChoice {
		t.Errorf("Kind = %q, want %q", q.Kind, KindMultipleChoice)
	}

	essay := questions[1]
	if essay.Kind != KindFreeResponse {
		t.Errorf("Kind = %q, want %q", essay.Kind, KindFreeResponse)
	}
	if essay.Options == nil {
		t.Error("Options should default to an empty slice, not nil")
	}
	if essay.Answer != "" {
		t.Errorf("Answer = %q, want empty", essay.Answer)
	}
}

func TestParseQuestionsDefaults(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantKind Kind
	}{
		{"missing type", `[{"question": "q"}]`, KindFreeResponse},
		{"unknown type", `[{"question": "q", "type": "matching"}]`, KindFreeResponse},
		{"mcq type", `[{"question": "q", "type": "mcq"}]`, KindMultipleChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := ParseQuestions(tt.data)
			if err != nil {
				t.Fatalf("ParseQuestions: %v", err)
			}
			if len(questions) != 1 {
				t.Fatalf("expected 1 question, got %d", len(questions))
			}
			if questions[0].Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", questions[0].Kind, tt.wantKind)
			}
		})
	}
}

func TestParseQuestionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not JSON", "here are your questions!"},
		{"JSON object", `{"question": "q"}`},
		{"truncated array", `[{"question": "q"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestions(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if parseErr.Raw != tt.data {
				t.Errorf("Raw = %q, want %q", parseErr.Raw, tt.data)
			}
		})
	}
}

func TestHasAnswer(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"present", "4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{Answer: tt.answer}
			if got := q.HasAnswer(); got != tt.want {
				t.Errorf("HasAnswer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	sess := NewSession("abc")
	if sess.ID != "abc" {
		t.Errorf("ID = %q, want %q", sess.ID, "abc")
	}
	if sess.Stage != StageUpload {
		t.Errorf("Stage = %q, want %q", sess.Stage, StageUpload)
	}
	if sess.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStageValid(t *testing.T) {
	for _, st := range Stages {
		if !st.Valid() {
			t.Errorf("Stage %q should be valid", st)
		}
	}
	if Stage("grading").Valid() {
		t.Error(`Stage "grading" should not be valid`)
	}
}
