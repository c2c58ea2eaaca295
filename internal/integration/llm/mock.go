package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/pkg/schema"
	"go.uber.org/zap"
)

// MockConnector answers every prompt with a canned study plan for Al-Fatiha 1.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// GenerateStructured returns SampleStudyPlan as JSON regardless of the prompt.
func (m *MockConnector) GenerateStructured(ctx context.Context, prompt string, _ *schema.Node) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating structured content", zap.Int("prompt_length", len(prompt)))

	data, err := json.Marshal(SampleStudyPlan())
	if err != nil {
		return "", fmt.Errorf("marshal sample plan: %w", err)
	}

	return string(data), nil
}

// SampleStudyPlan is a complete plan without a story module.
func SampleStudyPlan() *entity.StudyPlan {
	return &entity.StudyPlan{
		Foundations: entity.Foundations{
			VerseInfo: entity.VerseInfo{
				Arabic:          "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ",
				Transliteration: "Bismi Allāhi ar-Raḥmāni ar-Raḥīm",
				Translation:     "In the name of Allah, the Entirely Merciful, the Especially Merciful.",
			},
			Tafsir: "The Basmala opens every act with the remembrance of Allah. Scholars note it was revealed " +
				"in Makkah as the key to the Qur'an, teaching that every deed begins by seeking His help and mercy.",
			WordAnalysis: []entity.WordAnalysis{
				{Word: "بِسْمِ", Root: "س م و", Meaning: "In the name of"},
				{Word: "ٱللَّهِ", Root: "أ ل ه", Meaning: "Allah, the One God"},
				{Word: "ٱلرَّحْمَٰنِ", Root: "ر ح م", Meaning: "The Entirely Merciful, mercy that encompasses all"},
				{Word: "ٱلرَّحِيمِ", Root: "ر ح م", Meaning: "The Especially Merciful, enduring mercy to the believers"},
				{Word: "رَحْمَة", Root: "ر ح م", Meaning: "Mercy, the shared root of both divine names"},
			},
			MoralLessons: []string{
				"Begin every action consciously, with Allah's name.",
				"Mercy is the first attribute we are taught to associate with Allah.",
				"Dependence on Allah is the foundation of effort.",
			},
			LifeApplication:  "Say the Basmala aloud before starting work, eating and studying today.",
			ReflectionPrompt: "How can I live this verse today?",
			MemoryStory: entity.MemoryStory{
				Scene:    "A traveller opens a great door; above it, written in light, are the words of mercy.",
				Mnemonic: "Name, God, Mercy, Mercy",
				Keywords: []string{"Ism", "Allah", "Rahman", "Rahim"},
			},
		},
		AppliedFaith: entity.AppliedFaith{
			VerseTheme:          "Mindful beginnings",
			TafsirEmotionalTone: "Calm, hopeful and reassuring",
			PersonalChallenge:   "Rushing into tasks without intention",
			DailyMicroAction:    "Pause for three seconds and say Bismillah before each new task.",
			JournalPrompt:       "Which task today felt different because I began it with Allah's name?",
			VisualizationCue:    "A lamp lighting up as you say each word of the Basmala.",
			RecitationTrigger:   "Every time you open a door or a laptop.",
		},
		MemoryReview: entity.MemoryReview{
			Cycles: []entity.ReviewCycle{
				{Type: "Quick", Schedule: "10 minutes after learning", Method: "Recite once from memory"},
				{Type: "Deep", Schedule: "Same evening", Method: "Recite with meaning of each word"},
				{Type: "Active", Schedule: "Next morning", Method: "Write the verse from memory"},
				{Type: "Reflection", Schedule: "After 3 days", Method: "Journal one lesson lived"},
				{Type: "Long-Term", Schedule: "Weekly for a month", Method: "Recite in prayer"},
			},
		},
		SevenBySevenSystem: []entity.Phase{
			{Phase: 1, Focus: "Read", Practice: "Read the verse seven times while following the Arabic."},
			{Phase: 2, Focus: "Understand", Practice: "Study the translation and word roots."},
			{Phase: 3, Focus: "Visualize", Practice: "Replay the memory scene."},
			{Phase: 4, Focus: "Anchor", Practice: "Link each keyword to a physical cue."},
			{Phase: 5, Focus: "Apply", Practice: "Perform the daily micro-action."},
			{Phase: 6, Focus: "Recite", Practice: "Recite in two prayers today."},
			{Phase: 7, Focus: "Review", Practice: "Run the review cycle on schedule."},
		},
		JournalingFramework: entity.JournalingFramework{
			Prompts: []string{
				"What did this verse teach me today?",
				"Where did I notice Allah's mercy?",
				"Which action did I begin with the Basmala?",
				"What will I do differently tomorrow?",
			},
		},
		WeeklyConsolidation: entity.WeeklyConsolidation{
			Steps: []string{
				"Recite all verses learned this week.",
				"Re-read your journal entries.",
				"Teach the verse to someone.",
				"Identify the weakest verse and review it.",
				"Plan next week's verses.",
			},
			FocusVersePrompt: "Which verse moved you most this week, and why?",
		},
	}
}
