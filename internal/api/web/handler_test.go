package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/integration/llm"
	"github.com/princehaifan/quran-memory-system/internal/pkg/formatter"
	"github.com/princehaifan/quran-memory-system/internal/usecase/studyplan"
)

type gatedPlanner struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (p *gatedPlanner) Generate(_ context.Context, _ entity.VerseRef) (*entity.StudyPlan, error) {
	p.calls.Add(1)
	<-p.release
	if p.err != nil {
		return nil, p.err
	}
	return llm.SampleStudyPlan(), nil
}

type testApp struct {
	router   http.Handler
	registry *studyplan.Registry
	cookie   *http.Cookie
}

func newTestApp(p studyplan.Planner) *testApp {
	registry := studyplan.NewRegistry(p, time.Hour, time.Hour)
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(registry, formatter.NewFactory(""), false))
	return &testApp{router: r, registry: registry}
}

func (a *testApp) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			a.cookie = c
		}
	}
	return rec
}

func (a *testApp) controller(t *testing.T) *studyplan.Controller {
	t.Helper()
	ctrl, ok := a.registry.Lookup(sessionPrefix + a.cookie.Value)
	if !ok {
		t.Fatal("session controller missing")
	}
	return ctrl
}

func waitIdle(t *testing.T, ctrl *studyplan.Controller) {
	t.Helper()
	select {
	case <-ctrl.Wait():
	case <-time.After(2 * time.Second):
		t.Fatal("generation did not finish")
	}
}

func TestIndex_EmptyState(t *testing.T) {
	app := newTestApp(&gatedPlanner{release: make(chan struct{})})

	rec := app.do(t, http.MethodGet, "/", nil)
	body := rec.Body.String()

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if app.cookie == nil {
		t.Fatal("expected a session cookie")
	}
	for _, want := range []string{"🌙 Qur&#39;an Master Memory System", `value="Al-Fatiha"`, `value="1"`, "Your Study Plan Awaits"} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestGenerate_FullCycle(t *testing.T) {
	p := &gatedPlanner{release: make(chan struct{})}
	app := newTestApp(p)
	app.do(t, http.MethodGet, "/", nil)

	rec := app.do(t, http.MethodPost, "/generate", url.Values{"surah": {"Al-Fatiha"}, "ayah": {"1"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	loading := app.do(t, http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(loading, `http-equiv="refresh"`) || !strings.Contains(loading, `type="submit" disabled`) {
		t.Fatal("loading page must refresh and disable the submit button")
	}

	// A second submission while loading has no effect.
	app.do(t, http.MethodPost, "/generate", url.Values{"surah": {"Al-Baqarah"}, "ayah": {"2"}})
	if st := app.controller(t).Snapshot(); st.Surah != "Al-Fatiha" {
		t.Fatalf("second submission changed state: %+v", st)
	}

	close(p.release)
	waitIdle(t, app.controller(t))

	if got := p.calls.Load(); got != 1 {
		t.Fatalf("expected one request, got %d", got)
	}

	page := app.do(t, http.MethodGet, "/", nil).Body.String()
	if strings.Contains(page, "Story &amp; Lesson Integration") {
		t.Fatal("story section must be omitted")
	}
	if n := strings.Count(page, `class="section"`); n != 6 {
		t.Fatalf("expected 6 sections, got %d", n)
	}
	if n := strings.Count(page, `aria-expanded="true"`); n != 1 {
		t.Fatalf("expected exactly one open section, got %d", n)
	}
	if !strings.Contains(page, "Tafsir &amp; Context") {
		t.Fatal("foundations must be expanded by default")
	}

	collapsed := app.do(t, http.MethodGet, "/?open=", nil).Body.String()
	if strings.Contains(collapsed, `aria-expanded="true"`) {
		t.Fatal("open= must collapse every section")
	}

	journal := app.do(t, http.MethodGet, "/?open=journal", nil).Body.String()
	if !strings.Contains(journal, "What did this verse teach me today?") || strings.Contains(journal, "Tafsir &amp; Context") {
		t.Fatal("open=journal must expand only the journal section")
	}
}

func TestGenerate_BlankInputIssuesNoRequest(t *testing.T) {
	p := &gatedPlanner{release: make(chan struct{})}
	app := newTestApp(p)

	rec := app.do(t, http.MethodPost, "/generate", url.Values{"surah": {""}, "ayah": {"5"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please enter both a Surah and an Ayah.") {
		t.Fatal("expected a notice")
	}
	if p.calls.Load() != 0 {
		t.Fatal("no request may be issued")
	}
}

func TestGenerate_FailureShowsUniformError(t *testing.T) {
	p := &gatedPlanner{release: make(chan struct{}), err: entity.ErrGenerationFailed}
	close(p.release)
	app := newTestApp(p)

	app.do(t, http.MethodPost, "/generate", url.Values{"surah": {"Al-Fatiha"}, "ayah": {"1"}})
	waitIdle(t, app.controller(t))

	page := app.do(t, http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(page, "failed to generate study plan") {
		t.Fatal("expected the uniform error message")
	}
	if strings.Contains(page, `class="section"`) || strings.Contains(page, "Your Study Plan Awaits") {
		t.Fatal("no plan may be displayed after a failure")
	}
}

func TestExport(t *testing.T) {
	p := &gatedPlanner{release: make(chan struct{})}
	close(p.release)
	app := newTestApp(p)

	if rec := app.do(t, http.MethodGet, "/export?format=markdown", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a plan, got %d", rec.Code)
	}

	app.do(t, http.MethodPost, "/generate", url.Values{"surah": {"Al-Fatiha"}, "ayah": {"1"}})
	waitIdle(t, app.controller(t))

	rec := app.do(t, http.MethodGet, "/export?format=markdown", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "study-plan-al-fatiha-1.md") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}

	if rec := app.do(t, http.MethodGet, "/export?format=txt", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
}

func TestAccordionFromQuery(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", "foundations"},
		{"open=", ""},
		{"open=review", "review"},
		{"open=bogus", "foundations"},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		if got := string(accordionFromQuery(q).Open()); got != tt.want {
			t.Fatalf("query %q: got %q, want %q", tt.query, got, tt.want)
		}
	}
}
