package studyplan

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/pkg/logger"
	"github.com/princehaifan/quran-memory-system/internal/pkg/retry"
	"github.com/princehaifan/quran-memory-system/internal/pkg/schema"
	"github.com/princehaifan/quran-memory-system/internal/pkg/validator"
	"go.uber.org/zap"
)

// PlanSchema is the response schema derived from entity.StudyPlan.
var PlanSchema = schema.MustOf(entity.StudyPlan{})

// Usecase requests study plans from the provider and validates them.
type Usecase struct {
	llmConnector LLMConnector
	retry        *retry.RetryConfig
	logger       *zap.Logger
}

// NewUsecase creates a new study plan use case
func NewUsecase(
	llmConnector LLMConnector,
	retryCfg *retry.RetryConfig,
	logger *zap.Logger,
) *Usecase {
	if retryCfg == nil {
		retryCfg = retry.DefaultRetryConfig()
	}

	return &Usecase{
		llmConnector: llmConnector,
		retry:        retryCfg,
		logger:       logger,
	}
}

// Generate issues one provider request per attempt and returns a fully
// validated plan. Every provider, transport, parse or schema failure is
// logged and reported as entity.ErrGenerationFailed.
func (uc *Usecase) Generate(ctx context.Context, ref entity.VerseRef) (*entity.StudyPlan, error) {
	if err := validator.ValidateVerseRef(ref); err != nil {
		return nil, err
	}

	ctx = logger.WithAction(ctx, "GenerateStudyPlan")
	ctx = logger.AddFields(ctx,
		zap.String("surah", ref.Surah),
		zap.String("ayah", ref.Ayah),
	)

	prompt, err := BuildPrompt(ref)
	if err != nil {
		ctxzap.Error(ctx, "failed to build prompt", zap.Error(err))
		return nil, entity.ErrGenerationFailed
	}

	var plan entity.StudyPlan
	err = uc.retry.Do(ctx, func() error {
		raw, err := uc.llmConnector.GenerateStructured(ctx, prompt, PlanSchema)
		if err != nil {
			return fmt.Errorf("generate structured: %w", err)
		}

		if err := PlanSchema.Decode([]byte(raw), &plan); err != nil {
			ctxzap.Warn(ctx, "provider returned an invalid study plan",
				zap.Int("response_length", len(raw)),
				zap.Error(err),
			)
			return fmt.Errorf("decode study plan: %w", err)
		}

		return nil
	})
	if err != nil {
		ctxzap.Error(ctx, "study plan generation failed", zap.Error(err))
		return nil, entity.ErrGenerationFailed
	}

	ctxzap.Info(ctx, "study plan generated",
		zap.Bool("has_story", plan.HasStory()),
		zap.Int("phases", len(plan.SevenBySevenSystem)),
	)

	return &plan, nil
}
