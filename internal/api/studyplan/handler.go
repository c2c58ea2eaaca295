package studyplan

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/pkg/formatter"
	"github.com/princehaifan/quran-memory-system/internal/pkg/logger"
	"github.com/princehaifan/quran-memory-system/internal/pkg/response"
	"github.com/princehaifan/quran-memory-system/internal/pkg/validator"
	planuc "github.com/princehaifan/quran-memory-system/internal/usecase/studyplan"
	"go.uber.org/zap"
)

type Handler struct {
	planner     Planner
	factory     *formatter.Factory
	maxBodySize int64
}

const defaultMaxBodySize = 1 << 20

func NewHandler(planner Planner, factory *formatter.Factory, maxBodySize int64) *Handler {
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	return &Handler{
		planner:     planner,
		factory:     factory,
		maxBodySize: maxBodySize,
	}
}

// GenerateStudyPlan handles POST /api/v1/study-plans
func (h *Handler) GenerateStudyPlan(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateStudyPlan")

	var req entity.GenerateStudyPlanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodySize)).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "failed to decode request body", zap.Error(err))
		response.ErrorWithDetail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ref := entity.VerseRef{Surah: req.Surah, Ayah: req.Ayah}
	if err := validator.ValidateVerseRef(ref); err != nil {
		ctxzap.Warn(ctx, "blank verse reference", zap.Error(err))
		response.ErrorWithDetail(w, http.StatusBadRequest, entity.ErrBlankVerseReference.Error(), err.Error())
		return
	}

	plan, err := h.planner.Generate(ctx, ref)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "study plan returned", zap.Bool("has_story", plan.HasStory()))
	response.Created(w, toStudyPlanResponse(ref, plan))
}

// ExportStudyPlan handles POST /api/v1/study-plans/export?format=&surah=&ayah=
// The body is a study plan as returned by GenerateStudyPlan.
func (h *Handler) ExportStudyPlan(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportStudyPlan")

	format, err := validator.ValidateFormat(r.URL.Query().Get("format"))
	if err != nil {
		ctxzap.Warn(ctx, "invalid format parameter", zap.Error(err))
		response.ErrorWithDetail(w, http.StatusBadRequest, "invalid format parameter", err.Error())
		return
	}
	ctx = logger.AddFields(ctx, zap.String("format", string(format)))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		ctxzap.Warn(ctx, "failed to read request body", zap.Error(err))
		response.ErrorWithDetail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var plan entity.StudyPlan
	if err := planuc.PlanSchema.Decode(body, &plan); err != nil {
		ctxzap.Warn(ctx, "export body is not a valid study plan", zap.Error(err))
		response.ErrorWithDetail(w, http.StatusBadRequest, entity.ErrInvalidStudyPlan.Error(), err.Error())
		return
	}

	ref := entity.VerseRef{Surah: r.URL.Query().Get("surah"), Ayah: r.URL.Query().Get("ayah")}
	if validator.ValidateVerseRef(ref) != nil {
		ref = entity.VerseRef{Surah: "Verse", Ayah: "-"}
	}

	data, fmtr, err := h.factory.Render(format, ref, &plan)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "study plan exported", zap.Int("bytes", len(data)))
	response.Attachment(w, fmtr.ContentType(), formatter.FileName(ref, fmtr), data)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrBlankVerseReference),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrInvalidStudyPlan):
		response.ErrorWithDetail(w, http.StatusBadRequest, "invalid parameter", err.Error())
	case errors.Is(err, entity.ErrGenerationFailed):
		response.Error(w, http.StatusBadGateway, entity.ErrGenerationFailed.Error())
	case errors.Is(err, entity.ErrNoStudyPlan):
		response.Error(w, http.StatusNotFound, entity.ErrNoStudyPlan.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
