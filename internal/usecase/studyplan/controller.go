package studyplan

import (
	"context"
	"sync"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/pkg/validator"
	"go.uber.org/zap"
)

// State is what a renderer needs to draw one session.
type State struct {
	Surah       string
	Ayah        string
	Plan        *entity.StudyPlan
	Loading     bool
	Err         error
	GeneratedAt time.Time
}

// Controller owns the state of a single UI session. At most one generation
// is outstanding at a time; the plan is replaced wholesale, never edited.
type Controller struct {
	planner Planner

	mu    sync.Mutex
	state State
	done  chan struct{}
}

func NewController(planner Planner) *Controller {
	ref := entity.DefaultVerseRef()
	return &Controller{
		planner: planner,
		state: State{
			Surah: ref.Surah,
			Ayah:  ref.Ayah,
		},
	}
}

// Start begins a generation for the given reference and returns a channel
// closed when it finishes. Blank input and a generation already in progress
// are rejected without touching the state.
func (c *Controller) Start(ctx context.Context, surah, ayah string) (<-chan struct{}, error) {
	ref := entity.VerseRef{Surah: surah, Ayah: ayah}
	if err := validator.ValidateVerseRef(ref); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return nil, entity.ErrGenerationInProgress
	}
	c.state = State{
		Surah:   surah,
		Ayah:    ayah,
		Loading: true,
	}
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	// The generation outlives the request that triggered it.
	go c.run(context.WithoutCancel(ctx), ref, done)

	return done, nil
}

// Submit starts a generation and waits for it to finish.
func (c *Controller) Submit(ctx context.Context, surah, ayah string) (State, error) {
	done, err := c.Start(ctx, surah, ayah)
	if err != nil {
		return c.Snapshot(), err
	}

	select {
	case <-done:
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}

	st := c.Snapshot()
	return st, st.Err
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait returns a channel closed when the outstanding generation finishes,
// or an already closed one when idle.
func (c *Controller) Wait() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil || !c.state.Loading {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.done
}

func (c *Controller) run(ctx context.Context, ref entity.VerseRef, done chan struct{}) {
	defer close(done)

	plan, err := c.generate(ctx, ref)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Loading = false
	if err != nil {
		c.state.Plan = nil
		c.state.Err = err
		return
	}
	c.state.Plan = plan
	c.state.Err = nil
	c.state.GeneratedAt = time.Now().UTC()

	ctxzap.Debug(ctx, "controller state updated", zap.Bool("has_story", plan.HasStory()))
}

func (c *Controller) generate(ctx context.Context, ref entity.VerseRef) (plan *entity.StudyPlan, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctxzap.Error(ctx, "panic during study plan generation", zap.Any("panic", r), zap.Stack("stack"))
			plan, err = nil, entity.ErrGenerationFailed
		}
	}()

	return c.planner.Generate(ctx, ref)
}
