package telegram

import (
	"context"
	"fmt"

	"github.com/princehaifan/quran-memory-system/internal/config"
	"github.com/princehaifan/quran-memory-system/internal/telegram/bot"
	"github.com/princehaifan/quran-memory-system/internal/telegram/handlers"
	"github.com/princehaifan/quran-memory-system/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	storage state.Storage,
	registry handlers.SessionRegistry,
	exporter handlers.Exporter,
	logger *zap.Logger,
) (Bot, error) {
	stateManager := state.NewManager(storage)

	b, err := bot.New(cfg, stateManager, registry, exporter, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	registerHandlers(b, logger)

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

func registerHandlers(b *bot.Bot, logger *zap.Logger) {
	api := b.GetAPI()
	flow := b.GetFlow()

	registered := []handlers.Handler{
		handlers.NewCallbackHandler(api, flow, logger),
		handlers.NewIdleHandler(api, b.GetKeyboard(), logger),
		handlers.NewSurahHandler(api, flow, logger),
		handlers.NewAyahHandler(api, flow, logger),
	}
	for _, h := range registered {
		b.RegisterHandler(h)
	}

	logger.Info("telegram handlers registered",
		zap.Int("handler_count", len(registered)),
	)
}
