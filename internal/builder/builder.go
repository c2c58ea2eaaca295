package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/princehaifan/quran-memory-system/internal/api"
	studyplanapi "github.com/princehaifan/quran-memory-system/internal/api/studyplan"
	"github.com/princehaifan/quran-memory-system/internal/api/web"
	"github.com/princehaifan/quran-memory-system/internal/config"
	"github.com/princehaifan/quran-memory-system/internal/integration/llm"
	"github.com/princehaifan/quran-memory-system/internal/pkg/formatter"
	"github.com/princehaifan/quran-memory-system/internal/pkg/logger"
	"github.com/princehaifan/quran-memory-system/internal/telegram"
	"github.com/princehaifan/quran-memory-system/internal/telegram/state"
	"github.com/princehaifan/quran-memory-system/internal/usecase/studyplan"
	"github.com/unidoc/unioffice/common/license"
	"go.uber.org/zap"
)

// core holds the dependencies shared by the HTTP server and the bot
type core struct {
	cfg      *config.Config
	logger   *zap.Logger
	usecase  *studyplan.Usecase
	registry *studyplan.Registry
	factory  *formatter.Factory
}

func buildCore(ctx context.Context) (*core, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	var llmConnector studyplan.LLMConnector
	if cfg.EnableMocks {
		log.Info("Using mock connector for the generative provider")
		llmConnector = llm.NewMockConnector(log)
	} else {
		conn, err := llm.NewConnector(ctx, cfg.GeminiCfg, log)
		if err != nil {
			return nil, fmt.Errorf("create llm connector: %w", err)
		}
		llmConnector = conn
	}

	if key := cfg.ExportCfg.UnidocLicenseKey; key != "" {
		if err := license.SetMeteredKey(key); err != nil {
			return nil, fmt.Errorf("set document license: %w", err)
		}
	}

	uc := studyplan.NewUsecase(llmConnector, &cfg.GeminiCfg.Retry, log)
	log.Info("Use cases initialized")

	return &core{
		cfg:      cfg,
		logger:   log,
		usecase:  uc,
		registry: studyplan.NewRegistry(uc, cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval),
		factory:  formatter.NewFactory(cfg.ExportCfg.PDFFontPath),
	}, nil
}

func Build() (*App, error) {
	c, err := buildCore(context.Background())
	if err != nil {
		return nil, err
	}
	cfg, log := c.cfg, c.logger

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("model", cfg.GeminiCfg.Model),
	)

	webHandler := web.NewHandler(c.registry, c.factory, cfg.SessionCfg.CookieSecure)
	studyPlanHandler := studyplanapi.NewHandler(c.usecase, c.factory, cfg.ExportCfg.MaxPlanBodyBytes)
	log.Info("API handlers initialized")

	router := api.SetupRouter(webHandler, studyPlanHandler, cfg.RequestTimeout, log)
	log.Info("HTTP router configured")

	// Generations are slow; the write deadline must outlive the request timeout.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: log,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	c, err := buildCore(context.Background())
	if err != nil {
		return nil, nil, err
	}
	cfg, log := c.cfg, c.logger

	if err := cfg.ValidateTelegram(); err != nil {
		return nil, nil, fmt.Errorf("telegram config: %w", err)
	}

	log.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	storage := state.NewMemoryStorage(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval)

	bot, err := telegram.NewBot(&cfg.TelegramCfg, storage, c.registry, c.factory, log)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	log.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, log, nil
}
