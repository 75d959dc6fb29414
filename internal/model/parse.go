package model

import (
	"encoding/json"
	"fmt"
)

// ParseError reports that the inference reply was not a valid question
// array. The raw input is kept so the UI can surface it verbatim.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse question data: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// questionJSON mirrors the wire schema produced by the inference service.
type questionJSON struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	Type     string   `json:"type"`
}

// ParseQuestions deserializes a JSON array of question objects. The top
// level must be an array; anything else is a *ParseError. Field defaults:
// missing options become an empty slice, a type of "mcq" maps to
// MultipleChoice and everything else to FreeResponse. The answer field is
// carried through as-is; blank answers are defaulted by consumers, not
// here.
func ParseQuestions(data string) ([]Question, error) {
	var raw []questionJSON
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, &ParseError{Raw: data, Err: err}
	}

	questions := make([]Question, 0, len(raw))
	for _, r := range raw {
		kind := KindFreeResponse
		if r.Type == string(KindMultipleChoice) {
			kind = KindMultipleChoice
		}
		opts := r.Options
		if opts == nil {
			opts = []string{}
		}
		questions = append(questions, Question{
			Text:    r.Question,
			Options: opts,
			Answer:  r.Answer,
			Kind:    kind,
		})
	}
	return questions, nil
}
