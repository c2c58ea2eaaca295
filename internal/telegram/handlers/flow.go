package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/pkg/formatter"
	"github.com/princehaifan/quran-memory-system/internal/pkg/logger"
	"github.com/princehaifan/quran-memory-system/internal/pkg/validator"
	"github.com/princehaifan/quran-memory-system/internal/presentation"
	"github.com/princehaifan/quran-memory-system/internal/telegram/keyboard"
	"github.com/princehaifan/quran-memory-system/internal/telegram/render"
	"github.com/princehaifan/quran-memory-system/internal/telegram/state"
	"github.com/princehaifan/quran-memory-system/internal/usecase/studyplan"
	"go.uber.org/zap"
)

// PlanFlow is the conversation shared by commands, text input and buttons:
// collecting the verse reference, running the generation and showing the
// result as an accordion message.
type PlanFlow struct {
	sender       *MessageSender
	stateManager *state.Manager
	registry     SessionRegistry
	exporter     Exporter
	keyboard     *keyboard.Builder
	logger       *zap.Logger

	newNotifier func(chatID int64) *ProgressNotifier
}

func NewPlanFlow(
	bot Sender,
	stateManager *state.Manager,
	registry SessionRegistry,
	exporter Exporter,
	kb *keyboard.Builder,
	logger *zap.Logger,
) *PlanFlow {
	return &PlanFlow{
		sender:       NewMessageSender(bot, logger),
		stateManager: stateManager,
		registry:     registry,
		exporter:     exporter,
		keyboard:     kb,
		logger:       logger,
		newNotifier: func(chatID int64) *ProgressNotifier {
			return NewProgressNotifier(bot, chatID)
		},
	}
}

// AskSurah starts the guided input
func (f *PlanFlow) AskSurah(ctx context.Context, chatID int64) error {
	if err := f.stateManager.SetStep(ctx, chatID, state.StepAwaitingSurah); err != nil {
		return fmt.Errorf("set step: %w", err)
	}
	f.sender.Send(chatID, render.MsgAskSurah, f.keyboard.DefaultSurahKeyboard())
	return nil
}

// AcceptSurah stores the surah as typed and asks for the ayah
func (f *PlanFlow) AcceptSurah(ctx context.Context, chatID int64, surah string) error {
	if strings.TrimSpace(surah) == "" {
		f.sender.Send(chatID, render.MsgBlankInput, nil)
		return f.AskSurah(ctx, chatID)
	}

	data, err := f.stateManager.GetStateData(ctx, chatID)
	if err != nil {
		return fmt.Errorf("get state data: %w", err)
	}
	data.Step = state.StepAwaitingAyah
	data.PendingSurah = surah
	if err := f.stateManager.UpdateStateData(ctx, chatID, data); err != nil {
		return fmt.Errorf("update state data: %w", err)
	}

	f.sender.Send(chatID, render.RenderAskAyah(surah), f.keyboard.DefaultAyahKeyboard())
	return nil
}

// AcceptAyah completes the reference with the pending surah and generates
func (f *PlanFlow) AcceptAyah(ctx context.Context, chatID int64, ayah string) error {
	data, err := f.stateManager.GetStateData(ctx, chatID)
	if err != nil {
		return fmt.Errorf("get state data: %w", err)
	}
	if data.Step != state.StepAwaitingAyah {
		f.sender.Send(chatID, render.ErrInvalidState, nil)
		return nil
	}
	if strings.TrimSpace(ayah) == "" {
		f.sender.Send(chatID, render.MsgBlankInput, f.keyboard.DefaultAyahKeyboard())
		return nil
	}

	return f.Generate(ctx, chatID, entity.VerseRef{Surah: data.PendingSurah, Ayah: ayah})
}

// Cancel discards the input in progress. A running generation is not
// affected; its result still arrives.
func (f *PlanFlow) Cancel(ctx context.Context, chatID int64) error {
	if err := f.stateManager.SetStep(ctx, chatID, state.StepIdle); err != nil {
		return fmt.Errorf("set step: %w", err)
	}
	f.sender.Send(chatID, render.MsgCancelled, nil)
	return nil
}

// Generate submits ref for the chat and blocks until the plan or the
// uniform error has been delivered. A second submit while one is running
// is dropped without a reply.
func (f *PlanFlow) Generate(ctx context.Context, chatID int64, ref entity.VerseRef) error {
	ctx = logger.AddFields(ctx,
		zap.Int64("chat_id", chatID),
		zap.String("surah", ref.Surah),
		zap.String("ayah", ref.Ayah),
	)

	ctrl := f.registry.Get(SessionKey(chatID))
	done, err := ctrl.Start(ctx, ref.Surah, ref.Ayah)
	switch {
	case errors.Is(err, entity.ErrBlankVerseReference):
		ctxzap.Info(ctx, "blank verse reference submitted")
		f.sender.Send(chatID, render.MsgBlankInput, nil)
		return nil
	case errors.Is(err, entity.ErrGenerationInProgress):
		// The running generation's own messages are the only feedback.
		ctxzap.Info(ctx, "generation already in progress, ignoring submit")
		return nil
	case err != nil:
		return fmt.Errorf("start generation: %w", err)
	}

	if err := f.stateManager.SetStep(ctx, chatID, state.StepIdle); err != nil {
		ctxzap.Warn(ctx, "failed to reset input step", zap.Error(err))
	}

	ctxzap.Info(ctx, "generation started")
	f.sender.Send(chatID, render.RenderGenerating(ref), nil)

	notifier := f.newNotifier(chatID)
	notifier.Start(ctx)
	select {
	case <-done:
	case <-ctx.Done():
		notifier.Stop()
		return ctx.Err()
	}
	notifier.Stop()

	st := ctrl.Snapshot()
	if st.Err != nil || st.Plan == nil {
		ctxzap.Warn(ctx, "generation finished with error", zap.Error(st.Err))
		return sendCritical(ctx, chatID, f.logger, func() error {
			_, err := f.sender.Send(chatID, render.ErrGenerationFailed, f.keyboard.StartKeyboard())
			return err
		})
	}

	return f.showPlan(ctx, chatID, st)
}

func (f *PlanFlow) showPlan(ctx context.Context, chatID int64, st studyplan.State) error {
	acc := presentation.NewAccordion()
	sections := presentation.Sections(st.Plan)
	text := render.RenderPlan(entity.VerseRef{Surah: st.Surah, Ayah: st.Ayah}, sections, acc)

	var sent tgbotapi.Message
	err := sendCritical(ctx, chatID, f.logger, func() error {
		var err error
		sent, err = f.sender.Send(chatID, text, f.keyboard.PlanKeyboard(sections, acc))
		return err
	})
	if err != nil {
		return fmt.Errorf("send plan: %w", err)
	}

	// The chat may have moved on while the plan was generating.
	data, err := f.stateManager.LoadStateData(ctx, chatID)
	if err != nil {
		return fmt.Errorf("load state data: %w", err)
	}
	data.PlanMessageID = sent.MessageID
	data.OpenSection = string(acc.Open())
	if err := f.stateManager.UpdateStateData(ctx, chatID, data); err != nil {
		return fmt.Errorf("update state data: %w", err)
	}

	ctxzap.Info(ctx, "study plan delivered", zap.Int("sections", len(sections)))
	return nil
}

// ToggleSection opens or collapses a section of the plan message in place
func (f *PlanFlow) ToggleSection(ctx context.Context, chatID int64, messageID int, value string) error {
	id, ok := presentation.ParseSectionID(value)
	if !ok {
		return fmt.Errorf("unknown section %q", value)
	}

	st := f.registry.Get(SessionKey(chatID)).Snapshot()
	if st.Loading {
		f.sender.Send(chatID, render.MsgAlreadyGenerating, nil)
		return nil
	}
	if st.Plan == nil {
		f.sender.Send(chatID, render.MsgNoPlan, f.keyboard.StartKeyboard())
		return nil
	}

	data, err := f.stateManager.GetStateData(ctx, chatID)
	if err != nil {
		return fmt.Errorf("get state data: %w", err)
	}

	acc := presentation.NewAccordion()
	if data.PlanMessageID == messageID {
		acc = presentation.AccordionAt(presentation.SectionID(data.OpenSection))
	}
	acc = acc.Toggle(id)

	sections := presentation.Sections(st.Plan)
	text := render.RenderPlan(entity.VerseRef{Surah: st.Surah, Ayah: st.Ayah}, sections, acc)
	if err := f.sender.Edit(chatID, messageID, text, f.keyboard.PlanKeyboard(sections, acc)); err != nil && !isNotModified(err) {
		return fmt.Errorf("edit plan message: %w", err)
	}

	data.PlanMessageID = messageID
	data.OpenSection = string(acc.Open())
	if err := f.stateManager.UpdateStateData(ctx, chatID, data); err != nil {
		return fmt.Errorf("update state data: %w", err)
	}
	return nil
}

// Export sends the current plan as a document in the requested format
func (f *PlanFlow) Export(ctx context.Context, chatID int64, value string) error {
	format, err := validator.ValidateFormat(value)
	if err != nil {
		return err
	}

	st := f.registry.Get(SessionKey(chatID)).Snapshot()
	if st.Plan == nil {
		return entity.ErrNoStudyPlan
	}

	ref := entity.VerseRef{Surah: st.Surah, Ayah: st.Ayah}
	data, fmtr, err := f.exporter.Render(format, ref, st.Plan)
	if err != nil {
		ctxzap.Error(ctx, "failed to render study plan", zap.Error(err), zap.String("format", string(format)))
		f.sender.Send(chatID, render.ErrExportFailed, nil)
		return nil
	}

	if err := f.sender.SendDocument(chatID, formatter.FileName(ref, fmtr), data); err != nil {
		f.sender.Send(chatID, render.ErrExportFailed, nil)
	}
	return nil
}

// isNotModified reports the API refusing an edit that changes nothing,
// e.g. a double tap on the same button.
func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
