package state

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type contextKey string

const stateDataKey contextKey = "state_data"

// StateDataFromContext retrieves StateData from context if available
func StateDataFromContext(ctx context.Context) (*StateData, bool) {
	data, ok := ctx.Value(stateDataKey).(*StateData)
	return data, ok
}

// ContextWithStateData attaches StateData to context for the lifetime of one update
func ContextWithStateData(ctx context.Context, data *StateData) context.Context {
	return context.WithValue(ctx, stateDataKey, data)
}

// Manager manages chat sessions
type Manager struct {
	storage Storage
}

func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
	}
}

// GetStateData returns the state of a chat. The context copy wins over
// storage; a chat never seen before starts idle.
func (m *Manager) GetStateData(ctx context.Context, chatID int64) (*StateData, error) {
	if data, ok := StateDataFromContext(ctx); ok {
		return data, nil
	}
	return m.LoadStateData(ctx, chatID)
}

// LoadStateData reads the state from storage, ignoring the context copy
func (m *Manager) LoadStateData(ctx context.Context, chatID int64) (*StateData, error) {
	session, err := m.storage.Get(ctx, chatID)
	if errors.Is(err, ErrNotFound) {
		return &StateData{
			Version: StateDataCurrentVersion,
			Step:    StepIdle,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat session from storage: %w", err)
	}

	data := session.Data
	if data.Version == 0 {
		data.Version = StateDataCurrentVersion
	}
	if data.Step == "" {
		data.Step = StepIdle
	}
	return &data, nil
}

// UpdateStateData saves data for the chat, creating the session if needed
func (m *Manager) UpdateStateData(ctx context.Context, chatID int64, data *StateData) error {
	now := time.Now()

	session, err := m.storage.Get(ctx, chatID)
	if errors.Is(err, ErrNotFound) {
		session = &ChatSession{ChatID: chatID, CreatedAt: now}
	} else if err != nil {
		return fmt.Errorf("get chat session from storage: %w", err)
	}

	data.Version = StateDataCurrentVersion
	session.Data = *data
	session.UpdatedAt = now

	if err := m.storage.Set(ctx, session); err != nil {
		return fmt.Errorf("save chat session to storage: %w", err)
	}
	return nil
}

// SetStep moves the chat to step, keeping everything else
func (m *Manager) SetStep(ctx context.Context, chatID int64, step Step) error {
	data, err := m.GetStateData(ctx, chatID)
	if err != nil {
		return err
	}
	data.Step = step
	if step != StepAwaitingAyah {
		data.PendingSurah = ""
	}
	return m.UpdateStateData(ctx, chatID, data)
}

// DeleteSession forgets the chat entirely
func (m *Manager) DeleteSession(ctx context.Context, chatID int64) error {
	if err := m.storage.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("delete chat session from storage: %w", err)
	}
	return nil
}
