package handlers

import (
	"context"
	"strconv"

	"github.com/princehaifan/quran-memory-system/internal/telegram/state"
)

// Handler state constants
const (
	HandlerStateCallback      = "CALLBACK"
	HandlerStateIdle          = string(state.StepIdle)
	HandlerStateAwaitingSurah = string(state.StepAwaitingSurah)
	HandlerStateAwaitingAyah  = string(state.StepAwaitingAyah)
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	CallbackData string
	CallbackID   string
}

// Handler defines the interface for state-specific handlers
type Handler interface {
	// Handle processes a message for this state
	Handle(ctx context.Context, msg *Message) error

	// GetState returns the state this handler manages
	GetState() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	stateName     string
	messageSender *MessageSender
}

// GetState implements Handler
func (h *BaseHandler) GetState() string {
	return h.stateName
}

// sendMessage is a convenience wrapper for messageSender.Send
func (h *BaseHandler) sendMessage(chatID int64, text string, markup interface{}) {
	if h.messageSender != nil {
		h.messageSender.Send(chatID, text, markup)
	}
}

var validStates = map[string]bool{
	HandlerStateCallback:      true,
	HandlerStateIdle:          true,
	HandlerStateAwaitingSurah: true,
	HandlerStateAwaitingAyah:  true,
}

// IsValidState checks if a state is valid for handler registration
func IsValidState(state string) bool {
	_, ok := validStates[state]
	return ok
}

// SessionKey is the registry key of a chat's plan controller.
func SessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
