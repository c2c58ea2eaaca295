package handlers

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/telegram/keyboard"
	"github.com/princehaifan/quran-memory-system/internal/telegram/render"
	"go.uber.org/zap"
)

// CallbackHandler handles all callback button clicks
type CallbackHandler struct {
	BaseHandler
	flow *PlanFlow
}

func NewCallbackHandler(bot Sender, flow *PlanFlow, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{
			stateName:     HandlerStateCallback,
			messageSender: NewMessageSender(bot, logger),
		},
		flow: flow,
	}
}

// Handle routes callback queries to appropriate actions
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Error(ctx, "failed to parse callback",
			zap.Error(err),
			zap.String("data", msg.CallbackData),
		)
		return fmt.Errorf("parse callback: %w", err)
	}

	ctxzap.Info(ctx, "handling callback",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
		zap.Int64("user_id", msg.UserID),
	)

	switch data.Action {
	case keyboard.ActionCommand:
		return h.handleCommand(ctx, msg, data.Value)
	case keyboard.ActionDefault:
		return h.handleDefault(ctx, msg, data.Value)
	case keyboard.ActionSection:
		return h.flow.ToggleSection(ctx, msg.ChatID, msg.MessageID, data.Value)
	case keyboard.ActionDownload:
		if err := h.flow.Export(ctx, msg.ChatID, data.Value); err != nil {
			h.HandleError(ctx, msg.ChatID, err)
		}
		return nil
	default:
		ctxzap.Warn(ctx, "unknown callback action",
			zap.String("action", data.Action),
		)
		return fmt.Errorf("unknown action: %s", data.Action)
	}
}

func (h *CallbackHandler) handleCommand(ctx context.Context, msg *Message, value string) error {
	switch value {
	case keyboard.ValueNew:
		return h.flow.AskSurah(ctx, msg.ChatID)
	case keyboard.ValueHelp:
		h.sendMessage(msg.ChatID, render.MsgHelp, nil)
		return nil
	default:
		return fmt.Errorf("unknown command action: %s", value)
	}
}

func (h *CallbackHandler) handleDefault(ctx context.Context, msg *Message, value string) error {
	switch value {
	case keyboard.ValueSurah:
		return h.flow.AcceptSurah(ctx, msg.ChatID, entity.DefaultSurah)
	case keyboard.ValueAyah:
		return h.flow.AcceptAyah(ctx, msg.ChatID, entity.DefaultAyah)
	default:
		return fmt.Errorf("unknown default: %s", value)
	}
}
