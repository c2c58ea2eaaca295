package studyplan

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/integration/llm"
)

type blockingPlanner struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
	last    atomic.Value
}

func newBlockingPlanner() *blockingPlanner {
	return &blockingPlanner{release: make(chan struct{})}
}

func (p *blockingPlanner) Generate(ctx context.Context, ref entity.VerseRef) (*entity.StudyPlan, error) {
	p.calls.Add(1)
	p.last.Store(ref)
	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	return llm.SampleStudyPlan(), nil
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("generation did not finish")
	}
}

func TestController_Defaults(t *testing.T) {
	c := NewController(newBlockingPlanner())

	st := c.Snapshot()
	if st.Surah != "Al-Fatiha" || st.Ayah != "1" {
		t.Fatalf("unexpected defaults %q/%q", st.Surah, st.Ayah)
	}
	if st.Loading || st.Plan != nil || st.Err != nil {
		t.Fatalf("expected idle state, got %+v", st)
	}
}

func TestController_SecondSubmitWhileLoadingIsNoOp(t *testing.T) {
	p := newBlockingPlanner()
	c := NewController(p)

	done, err := c.Start(context.Background(), "Al-Fatiha", "1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	before := c.Snapshot()
	if !before.Loading {
		t.Fatal("expected loading state")
	}

	if _, err := c.Start(context.Background(), "Al-Ikhlas", "2"); !errors.Is(err, entity.ErrGenerationInProgress) {
		t.Fatalf("expected ErrGenerationInProgress, got %v", err)
	}
	if after := c.Snapshot(); after != before {
		t.Fatalf("state changed by rejected submit: %+v -> %+v", before, after)
	}

	close(p.release)
	waitDone(t, done)

	if got := p.calls.Load(); got != 1 {
		t.Fatalf("expected one request, got %d", got)
	}
	if ref := p.last.Load().(entity.VerseRef); ref.Surah != "Al-Fatiha" || ref.Ayah != "1" {
		t.Fatalf("unexpected reference forwarded: %+v", ref)
	}

	st := c.Snapshot()
	if st.Loading || st.Plan == nil || st.Err != nil {
		t.Fatalf("expected completed plan, got %+v", st)
	}
	if st.GeneratedAt.IsZero() {
		t.Fatal("expected generation time to be recorded")
	}
}

func TestController_FailureShowsUniformError(t *testing.T) {
	p := newBlockingPlanner()
	p.err = entity.ErrGenerationFailed
	close(p.release)
	c := NewController(p)

	st, err := c.Submit(context.Background(), "Al-Fatiha", "1")
	if !errors.Is(err, entity.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if st.Plan != nil || st.Loading {
		t.Fatalf("no plan may be shown after a failure: %+v", st)
	}
	if st.Err == nil || st.Err.Error() != "failed to generate study plan" {
		t.Fatalf("unexpected error state %v", st.Err)
	}
}

func TestController_NewGenerationReplacesPlan(t *testing.T) {
	p := newBlockingPlanner()
	close(p.release)
	c := NewController(p)

	if _, err := c.Submit(context.Background(), "Al-Fatiha", "1"); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	p.err = errors.New("boom")
	st, err := c.Submit(context.Background(), "Al-Fatiha", "2")
	if err == nil {
		t.Fatal("expected error on second submit")
	}
	if st.Plan != nil {
		t.Fatal("previous plan must be discarded when a new generation starts")
	}
	if st.Ayah != "2" {
		t.Fatalf("expected the new reference in state, got %q", st.Ayah)
	}
}

func TestController_BlankInputIssuesNoRequest(t *testing.T) {
	p := newBlockingPlanner()
	c := NewController(p)

	if _, err := c.Start(context.Background(), "", "5"); !errors.Is(err, entity.ErrBlankVerseReference) {
		t.Fatalf("expected ErrBlankVerseReference, got %v", err)
	}
	if p.calls.Load() != 0 {
		t.Fatal("no request may be issued for blank input")
	}
	if st := c.Snapshot(); st.Loading || st.Surah != "Al-Fatiha" {
		t.Fatalf("state changed by blank input: %+v", st)
	}
}

func TestController_GenerationOutlivesRequestContext(t *testing.T) {
	p := newBlockingPlanner()
	c := NewController(p)

	ctx, cancel := context.WithCancel(context.Background())
	done, err := c.Start(ctx, "Al-Fatiha", "1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()

	close(p.release)
	waitDone(t, done)

	if st := c.Snapshot(); st.Plan == nil {
		t.Fatalf("expected a plan despite cancelled request context, got err %v", st.Err)
	}
}

func TestController_Wait(t *testing.T) {
	p := newBlockingPlanner()
	c := NewController(p)

	waitDone(t, c.Wait())

	if _, err := c.Start(context.Background(), "Al-Fatiha", "1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case <-c.Wait():
		t.Fatal("wait returned while loading")
	default:
	}

	close(p.release)
	waitDone(t, c.Wait())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(newBlockingPlanner(), time.Hour, time.Hour)

	a := r.Get("web:a")
	if r.Get("web:a") != a {
		t.Fatal("expected the same controller for the same key")
	}
	if r.Get("tg:1") == a {
		t.Fatal("sessions must not share controllers")
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Len())
	}

	if _, ok := r.Lookup("missing"); ok {
		t.Fatal("lookup must not create sessions")
	}

	r.Delete("web:a")
	if _, ok := r.Lookup("web:a"); ok {
		t.Fatal("expected session to be removed")
	}
}
