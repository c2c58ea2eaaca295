package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/princehaifan/quran-memory-system/internal/config"
	"github.com/princehaifan/quran-memory-system/internal/integration/common"
	"github.com/princehaifan/quran-memory-system/internal/pkg/logger"
	"github.com/princehaifan/quran-memory-system/internal/pkg/schema"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const jsonMIMEType = "application/json"

var (
	// ErrEmptyResponse is returned when the provider answers without any text candidate.
	ErrEmptyResponse = errors.New("empty response from provider")
	// ErrBlocked is returned when the provider refuses to answer the prompt.
	ErrBlocked = errors.New("prompt blocked by provider")
)

// models is the subset of the genai Models service the connector calls.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Connector talks to the Gemini API with structured output enabled.
type Connector struct {
	config config.GeminiConfig
	models models
	logger *zap.Logger
}

func NewConnector(
	ctx context.Context,
	cfg config.GeminiConfig,
	logger *zap.Logger,
) (*Connector, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: common.NewHTTPClient(cfg.HTTP),
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return newConnector(cfg, client.Models, logger), nil
}

func newConnector(cfg config.GeminiConfig, m models, log *zap.Logger) *Connector {
	log.Info("gemini connector initialized",
		zap.String("model", cfg.Model),
		logger.Secret("api_key", cfg.APIKey),
	)

	return &Connector{
		config: cfg,
		models: m,
		logger: log,
	}
}

// GenerateStructured sends prompt with the response constrained to s and
// returns the raw JSON text of the first candidate.
func (c *Connector) GenerateStructured(ctx context.Context, prompt string, s *schema.Node) (string, error) {
	ctxzap.Info(ctx, "generating structured content via Gemini",
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	resp, err := c.models.GenerateContent(ctx, c.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   ToGenaiSchema(s),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "structured content generated successfully", zap.Int("response_length", len(text)))

	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}

	if strings.TrimSpace(sb.String()) == "" {
		reason := resp.Candidates[0].FinishReason
		if reason != "" && reason != genai.FinishReasonStop {
			return "", fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, reason)
		}
		return "", ErrEmptyResponse
	}

	return sb.String(), nil
}
