package studyplan

import (
	"context"

	"github.com/princehaifan/quran-memory-system/internal/entity"
)

type Planner interface {
	Generate(ctx context.Context, ref entity.VerseRef) (*entity.StudyPlan, error)
}
