package studyplan

import (
	"context"

	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/pkg/schema"
)

type LLMConnector interface {
	GenerateStructured(ctx context.Context, prompt string, s *schema.Node) (string, error)
}

// Planner produces a study plan for one verse reference.
type Planner interface {
	Generate(ctx context.Context, ref entity.VerseRef) (*entity.StudyPlan, error)
}
