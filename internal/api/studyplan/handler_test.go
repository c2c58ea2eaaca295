package studyplan

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/integration/llm"
	"github.com/princehaifan/quran-memory-system/internal/pkg/formatter"
)

type fakePlanner struct {
	calls int
	ref   entity.VerseRef
	plan  *entity.StudyPlan
	err   error
}

func (f *fakePlanner) Generate(_ context.Context, ref entity.VerseRef) (*entity.StudyPlan, error) {
	f.calls++
	f.ref = ref
	return f.plan, f.err
}

func newTestRouter(p Planner) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(p, formatter.NewFactory(""), 0))
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerateStudyPlan_Created(t *testing.T) {
	p := &fakePlanner{plan: llm.SampleStudyPlan()}
	rec := do(t, newTestRouter(p), http.MethodPost, "/api/v1/study-plans", `{"surah":"Al-Fatiha","ayah":"1"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if p.calls != 1 || p.ref.Surah != "Al-Fatiha" || p.ref.Ayah != "1" {
		t.Fatalf("unexpected planner call: %d %+v", p.calls, p.ref)
	}

	var resp entity.StudyPlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" || resp.Plan == nil {
		t.Fatalf("incomplete response: %+v", resp)
	}
	if len(resp.Sections) != 6 || resp.Sections[0] != "foundations" {
		t.Fatalf("unexpected sections %v", resp.Sections)
	}
}

func TestGenerateStudyPlan_BlankInput(t *testing.T) {
	p := &fakePlanner{plan: llm.SampleStudyPlan()}
	rec := do(t, newTestRouter(p), http.MethodPost, "/api/v1/study-plans", `{"surah":"","ayah":"5"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if p.calls != 0 {
		t.Fatal("blank input must not reach the provider")
	}
}

func TestGenerateStudyPlan_ProviderFailure(t *testing.T) {
	p := &fakePlanner{err: entity.ErrGenerationFailed}
	rec := do(t, newTestRouter(p), http.MethodPost, "/api/v1/study-plans", `{"surah":"Al-Fatiha","ayah":"1"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var resp entity.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "failed to generate study plan" || resp.Message != "" {
		t.Fatalf("unexpected error body %+v", resp)
	}
}

func TestGenerateStudyPlan_MalformedBody(t *testing.T) {
	rec := do(t, newTestRouter(&fakePlanner{}), http.MethodPost, "/api/v1/study-plans", `{"surah":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExportStudyPlan(t *testing.T) {
	body, err := json.Marshal(llm.SampleStudyPlan())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := do(t, newTestRouter(&fakePlanner{}), http.MethodPost,
		"/api/v1/study-plans/export?format=markdown&surah=Al-Fatiha&ayah=1", string(body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "study-plan-al-fatiha-1.md") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("# Study Plan: Surah Al-Fatiha, Ayah 1")) {
		t.Fatalf("unexpected document:\n%s", rec.Body.String())
	}
}

func TestExportStudyPlan_Rejects(t *testing.T) {
	valid, _ := json.Marshal(llm.SampleStudyPlan())

	tests := []struct {
		name   string
		target string
		body   string
	}{
		{name: "unknown format", target: "/api/v1/study-plans/export?format=html", body: string(valid)},
		{name: "partial plan", target: "/api/v1/study-plans/export?format=pdf", body: `{"foundations":{}}`},
		{name: "not json", target: "/api/v1/study-plans/export?format=docx", body: "plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(&fakePlanner{}), http.MethodPost, tt.target, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}
