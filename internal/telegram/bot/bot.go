package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/config"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/telegram/handlers"
	"github.com/princehaifan/quran-memory-system/internal/telegram/keyboard"
	"github.com/princehaifan/quran-memory-system/internal/telegram/middleware"
	"github.com/princehaifan/quran-memory-system/internal/telegram/render"
	"github.com/princehaifan/quran-memory-system/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.TelegramConfig
	stateManager *state.Manager
	handlers     map[string]handlers.Handler
	flow         *handlers.PlanFlow
	sender       *handlers.MessageSender
	keyboard     *keyboard.Builder
	logger       *zap.Logger
	loggingMW    *middleware.LoggingMiddleware
	recoveryMW   *middleware.RecoveryMiddleware
	rateLimitMW  *middleware.RateLimiterMiddleware
	updatesChan  tgbotapi.UpdatesChannel
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// New authorizes the bot and wires the plan flow
func New(
	cfg *config.TelegramConfig,
	stateManager *state.Manager,
	registry handlers.SessionRegistry,
	exporter handlers.Exporter,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	kb := keyboard.NewBuilder()
	bot := &Bot{
		api:          api,
		cfg:          cfg,
		stateManager: stateManager,
		flow:         handlers.NewPlanFlow(api, stateManager, registry, exporter, kb, logger),
		sender:       handlers.NewMessageSender(api, logger),
		keyboard:     kb,
		logger:       logger,
		handlers:     make(map[string]handlers.Handler),
		stopChan:     make(chan struct{}),
	}

	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api)
	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api,
	)

	return bot, nil
}

// Start starts polling for updates
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Welcome message"},
		tgbotapi.BotCommand{Command: "plan", Description: "Generate a study plan: /plan <surah> <ayah>"},
		tgbotapi.BotCommand{Command: "cancel", Description: "Discard the input in progress"},
		tgbotapi.BotCommand{Command: "help", Description: "How the bot works"},
	)); err != nil {
		b.logger.Warn("failed to register bot commands", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware runs rate limit, then logging, then recovery
func (b *Bot) handleUpdateWithMiddleware(update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, b.handleUpdate)
		})
	})
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := ctxzap.ToContext(context.Background(), b.logger.With(zap.Int("update_id", update.UpdateID)))

	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	chatID := message.Chat.ID
	stateData, err := b.stateManager.GetStateData(ctx, chatID)
	if err != nil {
		ctxzap.Error(ctx, "failed to get state data",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		b.sendError(chatID, render.ErrGeneric)
		return
	}
	ctx = state.ContextWithStateData(ctx, stateData)

	handler, exists := b.handlers[string(stateData.Step)]
	if !exists {
		ctxzap.Warn(ctx, "no handler for state",
			zap.String("state", string(stateData.Step)),
			zap.Int64("chat_id", chatID),
		)
		b.sendError(chatID, render.ErrInvalidState)
		return
	}

	msg := &handlers.Message{
		ChatID:    chatID,
		MessageID: message.MessageID,
		Text:      message.Text,
	}
	if message.From != nil {
		msg.UserID = message.From.ID
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("state", string(stateData.Step)),
			zap.Int64("chat_id", chatID),
		)
		b.sendError(chatID, render.ClassifyError(err))
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("chat_id", chatID),
	)

	var err error
	switch command {
	case "start":
		_, err = b.sender.Send(chatID, render.MsgWelcome, b.keyboard.StartKeyboard())
	case "help":
		_, err = b.sender.Send(chatID, render.MsgHelp, nil)
	case "cancel":
		err = b.flow.Cancel(ctx, chatID)
	case "plan":
		err = b.handlePlanCommand(ctx, chatID, message.CommandArguments())
	default:
		b.sendError(chatID, render.ErrUnknownCommand)
	}

	if err != nil {
		ctxzap.Error(ctx, "command failed",
			zap.Error(err),
			zap.String("command", command),
			zap.Int64("chat_id", chatID),
		)
		b.sendError(chatID, render.ClassifyError(err))
	}
}

// handlePlanCommand accepts "/plan", "/plan <surah>" and "/plan <surah> <ayah>".
// The last word is the ayah, so multi-word surah names work.
func (b *Bot) handlePlanCommand(ctx context.Context, chatID int64, args string) error {
	ref, complete := parsePlanArgs(args)
	switch {
	case complete:
		return b.flow.Generate(ctx, chatID, ref)
	case ref.Surah != "":
		return b.flow.AcceptSurah(ctx, chatID, ref.Surah)
	default:
		return b.flow.AskSurah(ctx, chatID)
	}
}

func parsePlanArgs(args string) (entity.VerseRef, bool) {
	fields := strings.Fields(args)
	switch len(fields) {
	case 0:
		return entity.VerseRef{}, false
	case 1:
		return entity.VerseRef{Surah: fields[0]}, false
	default:
		last := len(fields) - 1
		return entity.VerseRef{Surah: strings.Join(fields[:last], " "), Ayah: fields[last]}, true
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.Message.Chat == nil {
		b.answerCallback(query.ID, "")
		return
	}

	userID := query.From.ID
	chatID := query.Message.Chat.ID

	if _, err := keyboard.ParseCallback(query.Data); err != nil {
		ctxzap.Error(ctx, "invalid callback data",
			zap.Error(err),
			zap.String("data", query.Data),
		)
		b.answerCallback(query.ID, "❌ Invalid data")
		return
	}

	handler, exists := b.handlers[handlers.HandlerStateCallback]
	if !exists {
		ctxzap.Warn(ctx, "callback handler not registered")
		b.answerCallback(query.ID, "❌ No handler")
		return
	}

	// Answer right away so Telegram stops the button spinner; a
	// generation started from a button can run for a minute.
	b.answerCallback(query.ID, "")

	msg := &handlers.Message{
		ChatID:       chatID,
		UserID:       userID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
	}
	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "callback handler error",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		b.sendError(chatID, render.ClassifyError(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	if _, err := b.sender.Send(chatID, text, nil); err != nil {
		b.logger.Error("failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func (b *Bot) answerCallback(callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

// RegisterHandler registers a handler for a state
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	state := handler.GetState()

	if !handlers.IsValidState(state) {
		b.logger.Fatal("invalid handler state",
			zap.String("state", state),
		)
	}

	b.handlers[state] = handler
	b.logger.Info("handler registered",
		zap.String("state", state),
	)
}

// GetAPI returns the bot API instance (for handlers)
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}

// GetFlow returns the shared plan flow (for handlers)
func (b *Bot) GetFlow() *handlers.PlanFlow {
	return b.flow
}

// GetKeyboard returns the keyboard builder (for handlers)
func (b *Bot) GetKeyboard() *keyboard.Builder {
	return b.keyboard
}
