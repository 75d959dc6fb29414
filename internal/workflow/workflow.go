// Package workflow implements the four-stage session machine:
// Upload -> Review -> Structure -> Export. Every user action is a guarded
// transition over an explicit *model.Session, so the machine is testable
// without any HTTP or UI plumbing.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/knasser/eduparser/internal/extract"
	"github.com/knasser/eduparser/internal/model"
)

var (
	// ErrCredentialMissing is returned by Analyze when no inference
	// credential has been supplied for the session.
	ErrCredentialMissing = errors.New("inference credential missing")

	// ErrInvalidTransition is returned when an action does not apply to
	// the session's current stage. The session is left untouched.
	ErrInvalidTransition = errors.New("action not valid in current stage")
)

// Upload is one file supplied to the Process action, in submission order.
type Upload struct {
	Name string
	Kind extract.MediaKind
	Data []byte
}

// TextExtractor converts one file's bytes into text.
type TextExtractor interface {
	Extract(data []byte, kind extract.MediaKind) (string, error)
}

// TextStructurer converts edited raw text into an ordered question list
// via the inference service.
type TextStructurer interface {
	StructureText(ctx context.Context, apiKey, rawText string) ([]model.Question, error)
}

// ExtractorFunc adapts a function to the TextExtractor interface.
type ExtractorFunc func(data []byte, kind extract.MediaKind) (string, error)

func (f ExtractorFunc) Extract(data []byte, kind extract.MediaKind) (string, error) {
	return f(data, kind)
}

// Controller drives session transitions. It holds only collaborators,
// never session state.
type Controller struct {
	extractor  TextExtractor
	structurer TextStructurer
}

// NewController creates a workflow controller.
func NewController(e TextExtractor, s TextStructurer) *Controller {
	return &Controller{extractor: e, structurer: s}
}

// Process handles Upload -> Review: extract every file in submission
// order and join the results with a newline. A file that fails extraction
// is skipped and reported; the remaining files still accumulate, so a
// partially extracted blob is acceptable output.
func (c *Controller) Process(ctx context.Context, sess *model.Session, files []Upload) ([]string, error) {
	if sess.Stage != model.StageUpload {
		return nil, ErrInvalidTransition
	}

	var parts []string
	var skipped []string
	for _, f := range files {
		text, err := c.extractor.Extract(f.Data, f.Kind)
		if err != nil {
			slog.Warn("file extraction failed, skipping", "file", f.Name, "error", err)
			skipped = append(skipped, f.Name)
			continue
		}
		parts = append(parts, text)
	}

	sess.RawText = strings.Join(parts, "\n")
	sess.Stage = model.StageReview
	return skipped, nil
}

// ReviewBack handles Review -> Upload. No data is cleared.
func (c *Controller) ReviewBack(sess *model.Session) error {
	if sess.Stage != model.StageReview {
		return ErrInvalidTransition
	}
	sess.Stage = model.StageUpload
	return nil
}

// SetRawText records the user's edits to the extracted text. Only the
// Review stage exposes the editor.
func (c *Controller) SetRawText(sess *model.Session, text string) error {
	if sess.Stage != model.StageReview {
		return ErrInvalidTransition
	}
	sess.RawText = text
	return nil
}

// Analyze handles Review -> Structure. The transition is guarded on the
// session credential; on success the question list is replaced wholesale
// and the stage advances. Any inference or parse failure aborts the
// transition: the stage stays Review and Questions are left untouched.
func (c *Controller) Analyze(ctx context.Context, sess *model.Session) error {
	if sess.Stage != model.StageReview {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(sess.APIKey) == "" {
		return ErrCredentialMissing
	}

	questions, err := c.structurer.StructureText(ctx, sess.APIKey, sess.RawText)
	if err != nil {
		return err
	}

	sess.Questions = questions
	sess.Stage = model.StageStructure
	return nil
}

// StructureBack handles Structure -> Review. RawText remains as last
// edited.
func (c *Controller) StructureBack(sess *model.Session) error {
	if sess.Stage != model.StageStructure {
		return ErrInvalidTransition
	}
	sess.Stage = model.StageReview
	return nil
}

// AddQuestion appends one blank free-response question. The stage does
// not change.
func (c *Controller) AddQuestion(sess *model.Session) error {
	if sess.Stage != model.StageStructure {
		return ErrInvalidTransition
	}
	sess.Questions = append(sess.Questions, model.NewManualQuestion())
	return nil
}

// UpdateQuestion replaces the question at index i in place.
func (c *Controller) UpdateQuestion(sess *model.Session, i int, q model.Question) error {
	if sess.Stage != model.StageStructure {
		return ErrInvalidTransition
	}
	if i < 0 || i >= len(sess.Questions) {
		return fmt.Errorf("question index %d out of range", i)
	}
	sess.Questions[i] = q
	return nil
}

// DeleteQuestion removes the question at index i, preserving the relative
// order of the remaining questions.
func (c *Controller) DeleteQuestion(sess *model.Session, i int) error {
	if sess.Stage != model.StageStructure {
		return ErrInvalidTransition
	}
	if i < 0 || i >= len(sess.Questions) {
		return fmt.Errorf("question index %d out of range", i)
	}
	sess.Questions = append(sess.Questions[:i], sess.Questions[i+1:]...)
	return nil
}

// Approve handles Structure -> Export. Unconditional: question content is
// not validated.
func (c *Controller) Approve(sess *model.Session) error {
	if sess.Stage != model.StageStructure {
		return ErrInvalidTransition
	}
	sess.Stage = model.StageExport
	return nil
}

// Restart returns to Upload from any stage and clears the session data.
// The credential survives: it belongs to the sidebar, not the wizard.
func (c *Controller) Restart(sess *model.Session) {
	sess.Stage = model.StageUpload
	sess.RawText = ""
	sess.Questions = nil
}

// SetCredential records the inference credential for the session. Allowed
// in any stage, mirroring the always-visible sidebar field.
func (c *Controller) SetCredential(sess *model.Session, key string) {
	sess.APIKey = strings.TrimSpace(key)
}
