package handlers

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	pkgRetry "github.com/princehaifan/quran-memory-system/internal/pkg/retry"
	"go.uber.org/zap"
)

// criticalSendPolicy retries messages the user must not miss, such as the
// finished plan or the generation error.
var criticalSendPolicy = pkgRetry.RetryConfig{
	Attempts: 3,
	Delay:    500 * time.Millisecond,
	MaxDelay: 3 * time.Second,
}

// sendCritical runs send under criticalSendPolicy
func sendCritical(ctx context.Context, chatID int64, logger *zap.Logger, send func() error) error {
	err := criticalSendPolicy.Do(ctx, send,
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("failed to send message, retrying",
				zap.Error(err),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", criticalSendPolicy.Attempts),
				zap.Int64("chat_id", chatID),
			)
		}),
	)
	if err != nil {
		logger.Error("failed to send message after all retries",
			zap.Error(err),
			zap.Uint("max_attempts", criticalSendPolicy.Attempts),
			zap.Int64("chat_id", chatID),
		)
	}
	return err
}
