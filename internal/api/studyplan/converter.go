package studyplan

import (
	"time"

	"github.com/google/uuid"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/presentation"
)

// toStudyPlanResponse wraps a generated plan with request metadata and the
// ids of the sections a client should render.
func toStudyPlanResponse(ref entity.VerseRef, plan *entity.StudyPlan) *entity.StudyPlanResponse {
	sections := presentation.Sections(plan)
	ids := make([]string, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, string(s.ID))
	}

	return &entity.StudyPlanResponse{
		ID:          uuid.New().String(),
		Surah:       ref.Surah,
		Ayah:        ref.Ayah,
		GeneratedAt: time.Now().UTC(),
		Sections:    ids,
		Plan:        plan,
	}
}
