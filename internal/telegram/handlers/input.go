package handlers

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/telegram/keyboard"
	"github.com/princehaifan/quran-memory-system/internal/telegram/render"
	"go.uber.org/zap"
)

// IdleHandler answers free text outside the guided input
type IdleHandler struct {
	BaseHandler
	keyboard *keyboard.Builder
}

func NewIdleHandler(bot Sender, kb *keyboard.Builder, logger *zap.Logger) *IdleHandler {
	return &IdleHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateIdle,
			messageSender: NewMessageSender(bot, logger),
		},
		keyboard: kb,
	}
}

func (h *IdleHandler) Handle(ctx context.Context, msg *Message) error {
	h.sendMessage(msg.ChatID, render.MsgIdleHint, h.keyboard.StartKeyboard())
	return nil
}

// SurahHandler handles AWAITING_SURAH state
type SurahHandler struct {
	BaseHandler
	flow *PlanFlow
}

func NewSurahHandler(bot Sender, flow *PlanFlow, logger *zap.Logger) *SurahHandler {
	return &SurahHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateAwaitingSurah,
			messageSender: NewMessageSender(bot, logger),
		},
		flow: flow,
	}
}

// Handle takes the message text as the surah, verbatim
func (h *SurahHandler) Handle(ctx context.Context, msg *Message) error {
	ctxzap.Debug(ctx, "surah received", zap.Int64("chat_id", msg.ChatID))
	return h.flow.AcceptSurah(ctx, msg.ChatID, msg.Text)
}

// AyahHandler handles AWAITING_AYAH state
type AyahHandler struct {
	BaseHandler
	flow *PlanFlow
}

func NewAyahHandler(bot Sender, flow *PlanFlow, logger *zap.Logger) *AyahHandler {
	return &AyahHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateAwaitingAyah,
			messageSender: NewMessageSender(bot, logger),
		},
		flow: flow,
	}
}

// Handle takes the message text as the ayah and generates the plan
func (h *AyahHandler) Handle(ctx context.Context, msg *Message) error {
	ctxzap.Debug(ctx, "ayah received", zap.Int64("chat_id", msg.ChatID))
	return h.flow.AcceptAyah(ctx, msg.ChatID, msg.Text)
}
