package studyplan

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/integration/llm"
	"github.com/princehaifan/quran-memory-system/internal/pkg/retry"
	"github.com/princehaifan/quran-memory-system/internal/pkg/schema"
	"go.uber.org/zap"
)

type fakeConnector struct {
	mu        sync.Mutex
	prompts   []string
	schemas   []*schema.Node
	responses []string
	errs      []error
}

func (f *fakeConnector) GenerateStructured(_ context.Context, prompt string, s *schema.Node) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, s)

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return f.responses[len(f.responses)-1], nil
}

func (f *fakeConnector) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func samplePlanJSON(t *testing.T, mutate func(m map[string]any)) string {
	t.Helper()

	data, err := json.Marshal(llm.SampleStudyPlan())
	if err != nil {
		t.Fatalf("marshal sample: %v", err)
	}
	if mutate == nil {
		return string(data)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	mutate(m)
	data, err = json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal mutated sample: %v", err)
	}
	return string(data)
}

func TestGenerate_SingleRequestWithBothIdentifiers(t *testing.T) {
	conn := &fakeConnector{responses: []string{samplePlanJSON(t, nil)}}
	uc := NewUsecase(conn, nil, zap.NewNop())

	plan, err := uc.Generate(context.Background(), entity.VerseRef{Surah: "Al-Fatiha", Ayah: "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.calls() != 1 {
		t.Fatalf("expected exactly one request, got %d", conn.calls())
	}
	if !strings.Contains(conn.prompts[0], "Surah Al-Fatiha, Ayah 1") {
		t.Fatalf("prompt does not embed the verse reference:\n%s", conn.prompts[0])
	}
	if conn.schemas[0] != PlanSchema {
		t.Fatal("request must carry the study plan schema")
	}
	if plan.HasStory() {
		t.Fatal("expected no story integration")
	}
	if len(plan.SevenBySevenSystem) != 7 {
		t.Fatalf("expected 7 phases, got %d", len(plan.SevenBySevenSystem))
	}
}

func TestGenerate_ForwardsInputVerbatim(t *testing.T) {
	conn := &fakeConnector{responses: []string{samplePlanJSON(t, nil)}}
	uc := NewUsecase(conn, nil, zap.NewNop())

	if _, err := uc.Generate(context.Background(), entity.VerseRef{Surah: " yā-sīn ", Ayah: "12a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(conn.prompts[0], "Surah  yā-sīn , Ayah 12a.") {
		t.Fatalf("input was altered:\n%s", conn.prompts[0])
	}
}

func TestGenerate_BlankInputIssuesNoRequest(t *testing.T) {
	conn := &fakeConnector{responses: []string{samplePlanJSON(t, nil)}}
	uc := NewUsecase(conn, nil, zap.NewNop())

	_, err := uc.Generate(context.Background(), entity.VerseRef{Surah: "", Ayah: "5"})
	if !errors.Is(err, entity.ErrBlankVerseReference) {
		t.Fatalf("expected ErrBlankVerseReference, got %v", err)
	}
	if conn.calls() != 0 {
		t.Fatalf("expected no request, got %d", conn.calls())
	}
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name string
		conn *fakeConnector
	}{
		{
			name: "transport error",
			conn: &fakeConnector{errs: []error{errors.New("dial tcp: connection refused")}},
		},
		{
			name: "unparseable text",
			conn: &fakeConnector{responses: []string{"Here is your plan: {"}},
		},
		{
			name: "missing required module",
			conn: &fakeConnector{responses: []string{samplePlanJSON(t, func(m map[string]any) {
				delete(m, "appliedFaith")
			})}},
		},
		{
			name: "blank nested field",
			conn: &fakeConnector{responses: []string{samplePlanJSON(t, func(m map[string]any) {
				m["weeklyConsolidation"].(map[string]any)["focusVersePrompt"] = ""
			})}},
		},
		{
			name: "six phases",
			conn: &fakeConnector{responses: []string{samplePlanJSON(t, func(m map[string]any) {
				phases := m["sevenBySevenSystem"].([]any)
				m["sevenBySevenSystem"] = phases[:6]
			})}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUsecase(tt.conn, nil, zap.NewNop())

			plan, err := uc.Generate(context.Background(), entity.DefaultVerseRef())
			if !errors.Is(err, entity.ErrGenerationFailed) {
				t.Fatalf("expected ErrGenerationFailed, got %v", err)
			}
			if err.Error() != "failed to generate study plan" {
				t.Fatalf("provider detail leaked into error: %q", err.Error())
			}
			if plan != nil {
				t.Fatal("no partial plan may be returned")
			}
			if tt.conn.calls() != 1 {
				t.Fatalf("expected a single attempt, got %d", tt.conn.calls())
			}
		})
	}
}

func TestGenerate_StoryIntegrationPresent(t *testing.T) {
	conn := &fakeConnector{responses: []string{samplePlanJSON(t, func(m map[string]any) {
		m["storyIntegration"] = map[string]any{
			"storySummary":     "Musa meets Khidr.",
			"moralThemes":      []string{"patience", "humility"},
			"modernAnalogy":    "An apprentice and a master craftsman.",
			"mentalMovieScene": "Two figures walking along the shore.",
			"mnemonicPhrase":   "Patience reveals wisdom",
		}
	})}}
	uc := NewUsecase(conn, nil, zap.NewNop())

	plan, err := uc.Generate(context.Background(), entity.VerseRef{Surah: "Al-Kahf", Ayah: "66"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.HasStory() || plan.StoryIntegration.MnemonicPhrase != "Patience reveals wisdom" {
		t.Fatalf("story not decoded: %+v", plan.StoryIntegration)
	}
}

func TestGenerate_RetriesWhenConfigured(t *testing.T) {
	conn := &fakeConnector{
		errs:      []error{errors.New("503 unavailable")},
		responses: []string{"", samplePlanJSON(t, nil)},
	}
	uc := NewUsecase(conn, &retry.RetryConfig{Attempts: 2, Delay: time.Millisecond, MaxDelay: time.Millisecond}, zap.NewNop())

	if _, err := uc.Generate(context.Background(), entity.DefaultVerseRef()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.calls() != 2 {
		t.Fatalf("expected 2 attempts, got %d", conn.calls())
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(entity.VerseRef{Surah: "Al-Baqarah", Ayah: "255"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Surah Al-Baqarah, Ayah 255",
		"return null for the 'storyIntegration' field",
		"Module 7 - Weekly Consolidation",
		"Do not include any text, markdown, or code block fences",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
