package handlers

import (
	"context"
	"errors"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/telegram/render"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// HandlerError pairs the message shown to the user with what goes to the log
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

func classifyHandlerError(err error) *HandlerError {
	out := &HandlerError{
		Err:         err,
		UserMessage: render.ClassifyError(err),
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}

	switch {
	case err == nil:
		out.LogMessage = "unknown error"
		out.Severity = SeverityWarning
	case errors.Is(err, entity.ErrBlankVerseReference):
		out.LogMessage = "blank verse reference"
		out.Severity = SeverityWarning
	case errors.Is(err, entity.ErrGenerationInProgress):
		out.LogMessage = "generation already in progress"
		out.Severity = SeverityWarning
	case errors.Is(err, entity.ErrNoStudyPlan):
		out.LogMessage = "no study plan"
		out.Severity = SeverityWarning
	case errors.Is(err, entity.ErrInvalidFormat):
		out.LogMessage = "invalid export format"
		out.Severity = SeverityWarning
	case errors.Is(err, entity.ErrGenerationFailed):
		out.LogMessage = "study plan generation failed"
	}

	return out
}

// HandleError logs err with its severity and tells the user what happened
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)

	switch handlerErr.Severity {
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	default:
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	}

	h.sendMessage(chatID, handlerErr.UserMessage, nil)
}
