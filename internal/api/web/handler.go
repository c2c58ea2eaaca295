package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/pkg/formatter"
	"github.com/princehaifan/quran-memory-system/internal/pkg/logger"
	"github.com/princehaifan/quran-memory-system/internal/pkg/response"
	"github.com/princehaifan/quran-memory-system/internal/pkg/validator"
	"github.com/princehaifan/quran-memory-system/internal/presentation"
	"github.com/princehaifan/quran-memory-system/internal/usecase/studyplan"
	"go.uber.org/zap"
)

const (
	sessionCookie = "qmms_session"
	sessionPrefix = "web:"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type Handler struct {
	registry     *studyplan.Registry
	factory      *formatter.Factory
	cookieSecure bool
}

func NewHandler(registry *studyplan.Registry, factory *formatter.Factory, cookieSecure bool) *Handler {
	return &Handler{
		registry:     registry,
		factory:      factory,
		cookieSecure: cookieSecure,
	}
}

// Index handles GET / - renders the form and the current session state
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	h.render(w, r, http.StatusOK, newPageData(ctrl.Snapshot(), accordionFromQuery(r.URL.Query())))
}

// Generate handles POST /generate - submits the verse reference
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "WebGenerate")

	if err := r.ParseForm(); err != nil {
		ctxzap.Warn(ctx, "failed to parse form", zap.Error(err))
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	surah, ayah := r.PostFormValue("surah"), r.PostFormValue("ayah")

	ctrl := h.controller(w, r)
	_, err := ctrl.Start(ctx, surah, ayah)
	switch {
	case errors.Is(err, entity.ErrBlankVerseReference):
		ctxzap.Info(ctx, "blank verse reference submitted")
		data := newPageData(ctrl.Snapshot(), presentation.NewAccordion())
		data.Surah, data.Ayah = surah, ayah
		data.Notice = "Please enter both a Surah and an Ayah."
		h.render(w, r, http.StatusBadRequest, data)
		return
	case errors.Is(err, entity.ErrGenerationInProgress):
		ctxzap.Info(ctx, "generation already in progress, ignoring submit")
	case err != nil:
		ctxzap.Error(ctx, "failed to start generation", zap.Error(err))
	default:
		ctxzap.Info(ctx, "generation started", zap.String("surah", surah), zap.String("ayah", ayah))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Export handles GET /export?format= - downloads the current plan
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "WebExport")

	format, err := validator.ValidateFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st := h.controller(w, r).Snapshot()
	if st.Plan == nil || st.Loading {
		http.Error(w, entity.ErrNoStudyPlan.Error(), http.StatusNotFound)
		return
	}

	ref := entity.VerseRef{Surah: st.Surah, Ayah: st.Ayah}
	data, fmtr, err := h.factory.Render(format, ref, st.Plan)
	if err != nil {
		ctxzap.Error(ctx, "failed to render study plan", zap.Error(err))
		http.Error(w, "failed to render study plan", http.StatusInternalServerError)
		return
	}

	ctxzap.Info(ctx, "study plan downloaded", zap.String("format", string(format)))
	response.Attachment(w, fmtr.ContentType(), formatter.FileName(ref, fmtr), data)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var sb strings.Builder
	if err := pageTemplate.Execute(&sb, data); err != nil {
		ctxzap.Error(r.Context(), "failed to render page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write([]byte(sb.String()))
}

// controller resolves the browser session, issuing a cookie on first visit.
func (h *Handler) controller(w http.ResponseWriter, r *http.Request) *studyplan.Controller {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}

	if id == "" {
		id = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return h.registry.Get(sessionPrefix + id)
}
