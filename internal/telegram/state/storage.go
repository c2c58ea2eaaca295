package state

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Storage when a chat has no saved state.
var ErrNotFound = errors.New("chat state not found")

// Step is where a chat is in the guided input flow.
type Step string

const (
	StepIdle          Step = "IDLE"
	StepAwaitingSurah Step = "AWAITING_SURAH"
	StepAwaitingAyah  Step = "AWAITING_AYAH"
)

// ChatSession is the per-chat UI state of the bot.
type ChatSession struct {
	ChatID    int64
	Data      StateData
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StateData holds what the bot remembers between updates of one chat.
// Version 1: initial layout
type StateData struct {
	Version int `json:"version,omitempty"`

	Step         Step   `json:"step,omitempty"`
	PendingSurah string `json:"pending_surah,omitempty"`

	// Plan message the accordion edits in place, and its open section.
	// An empty OpenSection with a plan message means every section is collapsed.
	PlanMessageID int    `json:"plan_message_id,omitempty"`
	OpenSection   string `json:"open_section,omitempty"`
}

const (
	// StateDataCurrentVersion is the current version of StateData
	StateDataCurrentVersion = 1
)

// Storage defines the interface for chat state persistence
type Storage interface {
	// Get retrieves the session of a chat or ErrNotFound
	Get(ctx context.Context, chatID int64) (*ChatSession, error)

	// Set saves the session
	Set(ctx context.Context, session *ChatSession) error

	// Delete removes the session
	Delete(ctx context.Context, chatID int64) error
}
