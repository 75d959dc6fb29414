package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/knasser/eduparser/internal/extract"
	"github.com/knasser/eduparser/internal/model"
)

// echoExtractor returns the file bytes as text, failing for any file
// whose content equals "bad".
var echoExtractor = ExtractorFunc(func(data []byte, kind extract.MediaKind) (string, error) {
	if string(data) == "bad" {
		return "", fmt.Errorf("broken file")
	}
	return string(data), nil
})

type stubStructurer struct {
	questions []model.Question
	err       error
}

func (s *stubStructurer) StructureText(ctx context.Context, apiKey, rawText string) ([]model.Question, error) {
	return s.questions, s.err
}

func newTestController(questions []model.Question, err error) *Controller {
	return NewController(echoExtractor, &stubStructurer{questions: questions, err: err})
}

func sessionAt(stage model.Stage) *model.Session {
	sess := model.NewSession("test")
	sess.Stage = stage
	return sess
}

func TestProcess(t *testing.T) {
	c := newTestController(nil, nil)
	sess := sessionAt(model.StageUpload)

	skipped, err := c.Process(context.Background(), sess, []Upload{
		{Name: "a.txt", Kind: extract.KindText, Data: []byte("first")},
		{Name: "b.txt", Kind: extract.KindText, Data: []byte("second")},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
	if sess.RawText != "first\nsecond" {
		t.Errorf("RawText = %q, want %q", sess.RawText, "first\nsecond")
	}
	if sess.Stage != model.StageReview {
		t.Errorf("Stage = %q, want %q", sess.Stage, model.StageReview)
	}
}

func TestProcessSkipsFailedFiles(t *testing.T) {
	c := newTestController(nil, nil)
	sess := sessionAt(model.StageUpload)

	skipped, err := c.Process(context.Background(), sess, []Upload{
		{Name: "ok.txt", Kind: extract.KindText, Data: []byte("kept")},
		{Name: "broken.pdf", Kind: extract.KindPDF, Data: []byte("bad")},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "broken.pdf" {
		t.Errorf("skipped = %v, want [broken.pdf]", skipped)
	}
	if sess.RawText != "kept" {
		t.Errorf("RawText = %q, want %q", sess.RawText, "kept")
	}
	if sess.Stage != model.StageReview {
		t.Errorf("Stage = %q, want %q", sess.Stage, model.StageReview)
	}
}

func TestAnalyze(t *testing.T) {
	want := []model.Question{{Text: "q1"}, {Text: "q2"}}
	c := newTestController(want, nil)
	sess := sessionAt(model.StageReview)
	sess.APIKey = "sk-test"

	if err := c.Analyze(context.Background(), sess); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(sess.Questions) != 2 {
		t.Fatalf("Questions = %d, want 2", len(sess.Questions))
	}
	if sess.Stage != model.StageStructure {
		t.Errorf("Stage = %q, want %q", sess.Stage, model.StageStructure)
	}
}

func TestAnalyzeRequiresCredential(t *testing.T) {
	c := newTestController([]model.Question{{Text: "q"}}, nil)

	for _, key := range []string{"", "   "} {
		sess := sessionAt(model.StageReview)
		sess.APIKey = key

		err := c.Analyze(context.Background(), sess)
		if !errors.Is(err, ErrCredentialMissing) {
			t.Errorf("APIKey %q: err = %v, want ErrCredentialMissing", key, err)
		}
		if sess.Stage != model.StageReview {
			t.Errorf("APIKey %q: Stage = %q, want %q", key, sess.Stage, model.StageReview)
		}
	}
}

func TestAnalyzeFailureLeavesSessionUntouched(t *testing.T) {
	c := newTestController(nil, fmt.Errorf("service unavailable"))
	sess := sessionAt(model.StageReview)
	sess.APIKey = "sk-test"
	sess.Questions = []model.Question{{Text: "existing"}}

	if err := c.Analyze(context.Background(), sess); err == nil {
		t.Fatal("expected error")
	}
	if sess.Stage != model.StageReview {
		t.Errorf("Stage = %q, want %q", sess.Stage, model.StageReview)
	}
	if len(sess.Questions) != 1 || sess.Questions[0].Text != "existing" {
		t.Errorf("Questions = %v, want the original list", sess.Questions)
	}
}

func TestBackTransitions(t *testing.T) {
	c := newTestController(nil, nil)

	sess := sessionAt(model.StageReview)
	if err := c.ReviewBack(sess); err != nil {
		t.Fatalf("ReviewBack: %v", err)
	}
	if sess.Stage != model.StageUpload {
		t.Errorf("Stage = %q, want %q", sess.Stage, model.StageUpload)
	}

	sess = sessionAt(model.StageStructure)
	sess.RawText = "edited"
	if err := c.StructureBack(sess); err != nil {
		t.Fatalf("StructureBack: %v", err)
	}
	if sess.Stage != model.StageReview {
		t.Errorf("Stage = %q, want %q", sess.Stage, model.StageReview)
	}
	if sess.RawText != "edited" {
		t.Errorf("RawText = %q, want %q", sess.RawText, "edited")
	}
}

func TestSetRawText(t *testing.T) {
	c := newTestController(nil, nil)

	sess := sessionAt(model.StageReview)
	if err := c.SetRawText(sess, "new text"); err != nil {
		t.Fatalf("SetRawText: %v", err)
	}
	if sess.RawText != "new text" {
		t.Errorf("RawText = %q, want %q", sess.RawText, "new text")
	}

	sess = sessionAt(model.StageExport)
	if err := c.SetRawText(sess, "x"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestQuestionEditing(t *testing.T) {
	c := newTestController(nil, nil)
	sess := sessionAt(model.StageStructure)
	sess.Questions = []model.Question{{Text: "a"}, {Text: "b"}, {Text: "c"}}

	if err := c.AddQuestion(sess); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if len(sess.Questions) != 4 {
		t.Fatalf("Questions = %d, want 4", len(sess.Questions))
	}
	added := sess.Questions[3]
	if added.Kind != model.KindFreeResponse {
		t.Errorf("added Kind = %q, want %q", added.Kind, model.KindFreeResponse)
	}
	if added.Options == nil {
		t.Error("added Options should be an empty slice, not nil")
	}

	if err := c.UpdateQuestion(sess, 1, model.Question{Text: "b2", Answer: "yes"}); err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if sess.Questions[1].Text != "b2" {
		t.Errorf("Questions[1].Text = %q, want %q", sess.Questions[1].Text, "b2")
	}

	if err := c.DeleteQuestion(sess, 1); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	got := make([]string, 0, len(sess.Questions))
	for _, q := range sess.Questions {
		got = append(got, q.Text)
	}
	want := []string{"a", "c", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("after delete, Questions[%d].Text = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQuestionIndexOutOfRange(t *testing.T) {
	c := newTestController(nil, nil)
	sess := sessionAt(model.StageStructure)
	sess.Questions = []model.Question{{Text: "only"}}

	for _, i := range []int{-1, 1, 99} {
		if err := c.UpdateQuestion(sess, i, model.Question{}); err == nil {
			t.Errorf("UpdateQuestion(%d) should fail", i)
		}
		if err := c.DeleteQuestion(sess, i); err == nil {
			t.Errorf("DeleteQuestion(%d) should fail", i)
		}
	}
	if len(sess.Questions) != 1 {
		t.Errorf("Questions = %d, want 1", len(sess.Questions))
	}
}

func TestApprove(t *testing.T) {
	c := newTestController(nil, nil)
	sess := sessionAt(model.StageStructure)

	if err := c.Approve(sess); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if sess.Stage != model.StageExport {
		t.Errorf("Stage = %q, want %q", sess.Stage, model.StageExport)
	}
}

func TestRestart(t *testing.T) {
	c := newTestController(nil, nil)

	for _, stage := range model.Stages {
		sess := sessionAt(stage)
		sess.RawText = "text"
		sess.Questions = []model.Question{{Text: "q"}}
		sess.APIKey = "sk-test"

		c.Restart(sess)

		if sess.Stage != model.StageUpload {
			t.Errorf("from %q: Stage = %q, want %q", stage, sess.Stage, model.StageUpload)
		}
		if sess.RawText != "" {
			t.Errorf("from %q: RawText = %q, want empty", stage, sess.RawText)
		}
		if len(sess.Questions) != 0 {
			t.Errorf("from %q: Questions = %d, want 0", stage, len(sess.Questions))
		}
		if sess.APIKey != "sk-test" {
			t.Errorf("from %q: APIKey = %q, want preserved", stage, sess.APIKey)
		}
	}
}

func TestSetCredential(t *testing.T) {
	c := newTestController(nil, nil)
	sess := sessionAt(model.StageExport)

	c.SetCredential(sess, "  sk-test  ")
	if sess.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want %q", sess.APIKey, "sk-test")
	}
}

func TestInvalidTransitions(t *testing.T) {
	c := newTestController(nil, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		stage model.Stage
		run   func(sess *model.Session) error
	}{
		{"process outside upload", model.StageReview, func(sess *model.Session) error {
			_, err := c.Process(ctx, sess, nil)
			return err
		}},
		{"analyze outside review", model.StageStructure, func(sess *model.Session) error {
			sess.APIKey = "sk-test"
			return c.Analyze(ctx, sess)
		}},
		{"review back outside review", model.StageUpload, func(sess *model.Session) error {
			return c.ReviewBack(sess)
		}},
		{"structure back outside structure", model.StageExport, func(sess *model.Session) error {
			return c.StructureBack(sess)
		}},
		{"add outside structure", model.StageUpload, func(sess *model.Session) error {
			return c.AddQuestion(sess)
		}},
		{"update outside structure", model.StageExport, func(sess *model.Session) error {
			return c.UpdateQuestion(sess, 0, model.Question{})
		}},
		{"delete outside structure", model.StageReview, func(sess *model.Session) error {
			return c.DeleteQuestion(sess, 0)
		}},
		{"approve outside structure", model.StageExport, func(sess *model.Session) error {
			return c.Approve(sess)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := sessionAt(tt.stage)
			if err := tt.run(sess); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("err = %v, want ErrInvalidTransition", err)
			}
			if sess.Stage != tt.stage {
				t.Errorf("Stage = %q, want unchanged %q", sess.Stage, tt.stage)
			}
		})
	}
}
