// Package handler wires the four-stage wizard to HTTP. Every POST is a
// plain form submission followed by a redirect back to /, which renders
// whatever stage the session is in.
package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/knasser/eduparser/internal/export"
	"github.com/knasser/eduparser/internal/extract"
	"github.com/knasser/eduparser/internal/i18n"
	"github.com/knasser/eduparser/internal/model"
	"github.com/knasser/eduparser/internal/store"
	"github.com/knasser/eduparser/internal/handler/views"
	"github.com/knasser/eduparser/internal/workflow"
)

const (
	sessionCookie     = "eduparser_session"
	maxUploadBytes    = 32 << 20
	cookieMaxAgeHours = 24
)

// Config holds handler settings that come from the command line.
type Config struct {
	SecureCookies bool
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store      *store.Store
	controller *workflow.Controller
	config     Config
}

// New creates a new Handler.
func New(s *store.Store, c *workflow.Controller, cfg Config) (*Handler, error) {
	return &Handler{store: s, controller: c, config: cfg}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.withSession(h.handleIndex))
	r.Post("/credential", h.withSession(h.handleCredential))
	r.Post("/upload", h.withSession(h.handleUpload))
	r.Post("/review", h.withSession(h.handleReviewSave))
	r.Post("/review/back", h.withSession(h.handleReviewBack))
	r.Post("/analyze", h.withSession(h.handleAnalyze))
	r.Post("/questions/add", h.withSession(h.handleQuestionAdd))
	r.Post("/questions/{index}", h.withSession(h.handleQuestionUpdate))
	r.Post("/questions/{index}/delete", h.withSession(h.handleQuestionDelete))
	r.Post("/structure/back", h.withSession(h.handleStructureBack))
	r.Post("/approve", h.withSession(h.handleApprove))
	r.Post("/restart", h.withSession(h.handleRestart))
	r.Get("/export/word", h.withSession(h.handleExportWord))
	r.Get("/export/slides", h.withSession(h.handleExportSlides))
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *model.Session)

// withSession resolves the browser's session from its cookie, creating a
// fresh one when the cookie is absent, stale, or expired.
func (h *Handler) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sess *model.Session

		if c, err := r.Cookie(sessionCookie); err == nil {
			sess, err = h.store.GetSession(c.Value)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}

		if sess == nil {
			sess = model.NewSession(uuid.NewString())
			if err := h.store.SaveSession(sess); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   cookieMaxAgeHours * 3600,
				HttpOnly: true,
				Secure:   h.config.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next(w, r, sess)
	}
}

// renderStage writes the page for the session's current stage. An error
// message, when present, is shown above the stage content.
func (h *Handler) renderStage(w http.ResponseWriter, r *http.Request, sess *model.Session, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var err error
	switch sess.Stage {
	case model.StageReview:
		err = views.ReviewPage(sess, errMsg).Render(r.Context(), w)
	case model.StageStructure:
		err = views.StructurePage(sess, errMsg).Render(r.Context(), w)
	case model.StageExport:
		err = views.ExportPage(sess, errMsg).Render(r.Context(), w)
	default:
		err = views.UploadPage(sess, errMsg).Render(r.Context(), w)
	}
	if err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) saveAndRedirect(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	if err := h.store.SaveSession(sess); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	h.renderStage(w, r, sess, "")
}

func (h *Handler) handleCredential(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	h.controller.SetCredential(sess, r.FormValue("api_key"))
	h.saveAndRedirect(w, r, sess)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderStage(w, r, sess, i18n.Td(r.Context(), "ErrProcessing", map[string]any{"Error": err.Error()}))
		return
	}

	var uploads []workflow.Upload
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			h.renderStage(w, r, sess, i18n.Td(r.Context(), "ErrProcessing", map[string]any{"Error": err.Error()}))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.renderStage(w, r, sess, i18n.Td(r.Context(), "ErrProcessing", map[string]any{"Error": err.Error()}))
			return
		}
		uploads = append(uploads, workflow.Upload{
			Name: fh.Filename,
			Kind: uploadKind(fh.Filename, fh.Header.Get("Content-Type")),
			Data: data,
		})
	}
	if len(uploads) == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	skipped, err := h.controller.Process(r.Context(), sess, uploads)
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidTransition) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.renderStage(w, r, sess, i18n.Td(r.Context(), "ErrProcessing", map[string]any{"Error": err.Error()}))
		return
	}

	if err := h.store.SaveSession(sess); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(skipped) > 0 {
		h.renderStage(w, r, sess, i18n.Td(r.Context(), "SkippedFiles", map[string]any{"Files": strings.Join(skipped, ", ")}))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// uploadKind maps a form file to a media kind, trusting the declared
// content type first and the file extension second. Anything unknown is
// treated as text so extraction gets a chance to reject it.
func uploadKind(filename, contentType string) extract.MediaKind {
	if kind, ok := extract.KindForContentType(contentType); ok {
		return kind
	}
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return extract.KindPDF
	}
	return extract.KindText
}

func (h *Handler) handleReviewSave(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	if err := h.controller.SetRawText(sess, r.FormValue("raw_text")); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.saveAndRedirect(w, r, sess)
}

func (h *Handler) handleReviewBack(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	if err := h.controller.ReviewBack(sess); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.saveAndRedirect(w, r, sess)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	// The analyze form carries the editor content, so the user's latest
	// edits are what gets structured.
	if err := h.controller.SetRawText(sess, r.FormValue("raw_text")); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.controller.Analyze(r.Context(), sess); err != nil {
		// Keep the edited text even when the analysis fails.
		if saveErr := h.store.SaveSession(sess); saveErr != nil {
			http.Error(w, saveErr.Error(), http.StatusInternalServerError)
			return
		}
		switch {
		case errors.Is(err, workflow.ErrCredentialMissing):
			h.renderStage(w, r, sess, i18n.T(r.Context(), "ErrCredentialMissing"))
		default:
			h.renderStage(w, r, sess, i18n.Td(r.Context(), "ErrProcessing", map[string]any{"Error": err.Error()}))
		}
		return
	}
	h.saveAndRedirect(w, r, sess)
}

func (h *Handler) handleQuestionAdd(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	if err := h.controller.AddQuestion(sess); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.saveAndRedirect(w, r, sess)
}

func (h *Handler) handleQuestionUpdate(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid question index", http.StatusBadRequest)
		return
	}
	if err := h.controller.UpdateQuestion(sess, i, questionFromForm(r)); err != nil {
		if errors.Is(err, workflow.ErrInvalidTransition) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.saveAndRedirect(w, r, sess)
}

func (h *Handler) handleQuestionDelete(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid question index", http.StatusBadRequest)
		return
	}
	if err := h.controller.DeleteQuestion(sess, i); err != nil {
		if errors.Is(err, workflow.ErrInvalidTransition) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.saveAndRedirect(w, r, sess)
}

// questionFromForm builds a question from the inline editor fields. The
// options textarea holds one option per line; blank lines are dropped.
func questionFromForm(r *http.Request) model.Question {
	kind := model.KindFreeResponse
	if r.FormValue("type") == string(model.KindMultipleChoice) {
		kind = model.KindMultipleChoice
	}

	options := []string{}
	for _, line := range strings.Split(r.FormValue("options"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			options = append(options, line)
		}
	}

	return model.Question{
		Text:    strings.TrimSpace(r.FormValue("question")),
		Options: options,
		Answer:  strings.TrimSpace(r.FormValue("answer")),
		Kind:    kind,
	}
}

func (h *Handler) handleStructureBack(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	if err := h.controller.StructureBack(sess); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.saveAndRedirect(w, r, sess)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	if err := h.controller.Approve(sess); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.saveAndRedirect(w, r, sess)
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	h.controller.Restart(sess)
	h.saveAndRedirect(w, r, sess)
}

func (h *Handler) handleExportWord(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	if sess.Stage != model.StageExport {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data, err := export.Word(r.Context(), sess.Questions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", export.WordMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.WordFilename+`"`)
	if _, err := w.Write(data); err != nil {
		slog.Error("export write error", "error", err)
	}
}

func (h *Handler) handleExportSlides(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	if sess.Stage != model.StageExport {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data, err := export.Slides(r.Context(), sess.Questions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", export.SlidesMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.SlidesFilename+`"`)
	if _, err := w.Write(data); err != nil {
		slog.Error("export write error", "error", err)
	}
}
