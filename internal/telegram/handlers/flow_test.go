package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/integration/llm"
	"github.com/princehaifan/quran-memory-system/internal/pkg/formatter"
	"github.com/princehaifan/quran-memory-system/internal/telegram/keyboard"
	"github.com/princehaifan/quran-memory-system/internal/telegram/render"
	"github.com/princehaifan/quran-memory-system/internal/telegram/state"
	"github.com/princehaifan/quran-memory-system/internal/usecase/studyplan"
	"go.uber.org/zap"
)

const chatID int64 = 1001

type fakeSender struct {
	mu        sync.Mutex
	nextID    int
	messages  []tgbotapi.MessageConfig
	edits     []tgbotapi.EditMessageTextConfig
	documents []tgbotapi.DocumentConfig
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		s.messages = append(s.messages, m)
	case tgbotapi.DocumentConfig:
		s.documents = append(s.documents, m)
	}
	return tgbotapi.Message{MessageID: s.nextID}, nil
}

func (s *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := c.(tgbotapi.EditMessageTextConfig); ok {
		s.edits = append(s.edits, e)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *fakeSender) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m.Text)
	}
	return out
}

func (s *fakeSender) last() tgbotapi.MessageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[len(s.messages)-1]
}

type fakePlanner struct {
	calls   atomic.Int32
	refs    chan entity.VerseRef
	started chan struct{}
	release chan struct{}
	err     error
}

func newFakePlanner() *fakePlanner {
	return &fakePlanner{refs: make(chan entity.VerseRef, 10)}
}

func (p *fakePlanner) Generate(_ context.Context, ref entity.VerseRef) (*entity.StudyPlan, error) {
	p.calls.Add(1)
	p.refs <- ref
	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.release != nil {
		<-p.release
	}
	if p.err != nil {
		return nil, p.err
	}
	return llm.SampleStudyPlan(), nil
}

type testFlow struct {
	flow    *PlanFlow
	sender  *fakeSender
	planner *fakePlanner
	states  *state.Manager
}

func newTestFlow(planner *fakePlanner) *testFlow {
	sender := &fakeSender{}
	states := state.NewManager(state.NewMemoryStorage(time.Hour, time.Hour))
	registry := studyplan.NewRegistry(planner, time.Hour, time.Hour)
	flow := NewPlanFlow(sender, states, registry, formatter.NewFactory(""), keyboard.NewBuilder(), zap.NewNop())
	return &testFlow{flow: flow, sender: sender, planner: planner, states: states}
}

func (tf *testFlow) stateData(t *testing.T) *state.StateData {
	t.Helper()
	data, err := tf.states.GetStateData(context.Background(), chatID)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	return data
}

func TestPlanFlow_GuidedInput(t *testing.T) {
	tf := newTestFlow(newFakePlanner())
	ctx := context.Background()

	if err := tf.flow.AskSurah(ctx, chatID); err != nil {
		t.Fatalf("ask surah: %v", err)
	}
	if tf.stateData(t).Step != state.StepAwaitingSurah {
		t.Fatalf("expected awaiting surah, got %+v", tf.stateData(t))
	}

	if err := tf.flow.AcceptSurah(ctx, chatID, " Al-Ikhlas "); err != nil {
		t.Fatalf("accept surah: %v", err)
	}
	data := tf.stateData(t)
	if data.Step != state.StepAwaitingAyah || data.PendingSurah != " Al-Ikhlas " {
		t.Fatalf("surah must be kept verbatim: %+v", data)
	}

	if err := tf.flow.AcceptAyah(ctx, chatID, "1"); err != nil {
		t.Fatalf("accept ayah: %v", err)
	}

	ref := <-tf.planner.refs
	if ref.Surah != " Al-Ikhlas " || ref.Ayah != "1" {
		t.Fatalf("unexpected reference %+v", ref)
	}

	last := tf.sender.last()
	if !strings.Contains(last.Text, "Study Plan: Surah  Al-Ikhlas , Ayah 1") {
		t.Fatalf("expected plan message, got %q", last.Text)
	}
	if last.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("plan must be sent as HTML, got %q", last.ParseMode)
	}

	data = tf.stateData(t)
	if data.Step != state.StepIdle || data.PlanMessageID == 0 || data.OpenSection != "foundations" {
		t.Fatalf("unexpected state after delivery %+v", data)
	}
}

func TestPlanFlow_BlankSurahAsksAgain(t *testing.T) {
	tf := newTestFlow(newFakePlanner())

	if err := tf.flow.AcceptSurah(context.Background(), chatID, "   "); err != nil {
		t.Fatalf("accept surah: %v", err)
	}

	texts := tf.sender.texts()
	if len(texts) != 2 || texts[0] != render.MsgBlankInput || texts[1] != render.MsgAskSurah {
		t.Fatalf("unexpected messages %q", texts)
	}
	if tf.planner.calls.Load() != 0 {
		t.Fatal("blank input must not reach the planner")
	}
}

func TestPlanFlow_AyahWithoutSurah(t *testing.T) {
	tf := newTestFlow(newFakePlanner())

	if err := tf.flow.AcceptAyah(context.Background(), chatID, "1"); err != nil {
		t.Fatalf("accept ayah: %v", err)
	}
	if tf.sender.last().Text != render.ErrInvalidState {
		t.Fatalf("expected invalid state notice, got %q", tf.sender.last().Text)
	}
	if tf.planner.calls.Load() != 0 {
		t.Fatal("planner must not be called")
	}
}

func TestPlanFlow_FailureShowsUniformError(t *testing.T) {
	planner := newFakePlanner()
	planner.err = entity.ErrGenerationFailed
	tf := newTestFlow(planner)

	if err := tf.flow.Generate(context.Background(), chatID, entity.DefaultVerseRef()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if tf.sender.last().Text != render.ErrGenerationFailed {
		t.Fatalf("expected uniform error, got %q", tf.sender.last().Text)
	}
	if tf.stateData(t).PlanMessageID != 0 {
		t.Fatal("no plan message may be recorded after a failure")
	}
}

func TestPlanFlow_SecondSubmitIsIgnored(t *testing.T) {
	planner := newFakePlanner()
	planner.started = make(chan struct{}, 1)
	planner.release = make(chan struct{})
	tf := newTestFlow(planner)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- tf.flow.Generate(ctx, chatID, entity.DefaultVerseRef())
	}()
	<-planner.started

	if err := tf.flow.Generate(ctx, chatID, entity.VerseRef{Surah: "Yasin", Ayah: "1"}); err != nil {
		t.Fatalf("second generate: %v", err)
	}

	close(planner.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if got := planner.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one provider request, got %d", got)
	}

	// the second submit leaves no trace in the chat
	generating := 0
	for _, text := range tf.sender.texts() {
		if text == render.MsgAlreadyGenerating || strings.Contains(text, "Yasin") {
			t.Fatalf("second submit produced a message: %q", text)
		}
		if text == render.RenderGenerating(entity.DefaultVerseRef()) {
			generating++
		}
	}
	if generating != 1 {
		t.Fatalf("expected one generating notice, got %d in %q", generating, tf.sender.texts())
	}
}

func TestPlanFlow_ToggleSection(t *testing.T) {
	tf := newTestFlow(newFakePlanner())
	ctx := context.Background()

	if err := tf.flow.Generate(ctx, chatID, entity.DefaultVerseRef()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	planMsg := tf.stateData(t).PlanMessageID

	// tapping the open section collapses it
	if err := tf.flow.ToggleSection(ctx, chatID, planMsg, "foundations"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := tf.stateData(t).OpenSection; got != "" {
		t.Fatalf("expected all collapsed, got %q", got)
	}
	if len(tf.sender.edits) != 1 || !strings.Contains(tf.sender.edits[0].Text, render.MsgAllCollapsed) {
		t.Fatalf("expected collapsed edit, got %+v", tf.sender.edits)
	}

	if err := tf.flow.ToggleSection(ctx, chatID, planMsg, "faith"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := tf.stateData(t).OpenSection; got != "faith" {
		t.Fatalf("expected faith open, got %q", got)
	}
	if edit := tf.sender.edits[1]; edit.MessageID != planMsg || !strings.Contains(edit.Text, "Module 3: Applied Faith") {
		t.Fatalf("unexpected edit %+v", edit)
	}

	if err := tf.flow.ToggleSection(ctx, chatID, planMsg, "bogus"); err == nil {
		t.Fatal("unknown section must fail")
	}
}

func TestPlanFlow_ToggleWithoutPlan(t *testing.T) {
	tf := newTestFlow(newFakePlanner())

	if err := tf.flow.ToggleSection(context.Background(), chatID, 5, "faith"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if tf.sender.last().Text != render.MsgNoPlan {
		t.Fatalf("expected no-plan notice, got %q", tf.sender.last().Text)
	}
	if len(tf.sender.edits) != 0 {
		t.Fatal("nothing may be edited without a plan")
	}
}

func TestPlanFlow_Export(t *testing.T) {
	tf := newTestFlow(newFakePlanner())
	ctx := context.Background()

	if err := tf.flow.Export(ctx, chatID, "markdown"); !errors.Is(err, entity.ErrNoStudyPlan) {
		t.Fatalf("expected ErrNoStudyPlan, got %v", err)
	}

	if err := tf.flow.Generate(ctx, chatID, entity.DefaultVerseRef()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := tf.flow.Export(ctx, chatID, "xls"); !errors.Is(err, entity.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}

	if err := tf.flow.Export(ctx, chatID, "markdown"); err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(tf.sender.documents) != 1 {
		t.Fatalf("expected one document, got %d", len(tf.sender.documents))
	}
	file, ok := tf.sender.documents[0].File.(tgbotapi.FileBytes)
	if !ok {
		t.Fatalf("unexpected file type %T", tf.sender.documents[0].File)
	}
	if !strings.HasSuffix(file.Name, ".md") || !strings.Contains(string(file.Bytes), "Foundations of Understanding") {
		t.Fatalf("unexpected document %q", file.Name)
	}
}

func TestCallbackHandler_Routing(t *testing.T) {
	tf := newTestFlow(newFakePlanner())
	h := NewCallbackHandler(tf.sender, tf.flow, zap.NewNop())
	ctx := context.Background()

	if err := h.Handle(ctx, &Message{ChatID: chatID, CallbackData: "action:new"}); err != nil {
		t.Fatalf("action:new: %v", err)
	}
	if err := h.Handle(ctx, &Message{ChatID: chatID, CallbackData: "default:surah"}); err != nil {
		t.Fatalf("default:surah: %v", err)
	}
	if data := tf.stateData(t); data.PendingSurah != entity.DefaultSurah {
		t.Fatalf("default surah not applied: %+v", data)
	}
	if err := h.Handle(ctx, &Message{ChatID: chatID, CallbackData: "default:ayah"}); err != nil {
		t.Fatalf("default:ayah: %v", err)
	}
	if ref := <-tf.planner.refs; ref != entity.DefaultVerseRef() {
		t.Fatalf("unexpected reference %+v", ref)
	}

	if err := h.Handle(ctx, &Message{ChatID: chatID, CallbackData: "dl:xls"}); err != nil {
		t.Fatalf("invalid format is reported to the user, not returned: %v", err)
	}
	if tf.sender.last().Text != render.ErrInvalidFormat {
		t.Fatalf("expected format notice, got %q", tf.sender.last().Text)
	}

	if err := h.Handle(ctx, &Message{ChatID: chatID, CallbackData: "garbage"}); err == nil {
		t.Fatal("malformed callback must fail")
	}
}

func TestClassifyHandlerError(t *testing.T) {
	if got := classifyHandlerError(entity.ErrGenerationInProgress); got.Severity != SeverityWarning {
		t.Fatalf("in-progress is a warning, got %s", got.Severity)
	}
	if got := classifyHandlerError(errors.New("boom")); got.Severity != SeverityError || got.UserMessage != render.ErrGeneric {
		t.Fatalf("unexpected classification %+v", got)
	}
}
