package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/hybridsearch/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds the Gemini API settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // overrides the API endpoint, used in tests
	Logger  *zap.Logger
}

// Completer is a summary provider backed by the Gemini API.
type Completer struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewCompleter creates a Gemini completer.
func NewCompleter(ctx context.Context, cfg *Config) (*Completer, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model, logger: cfg.Logger}, nil
}

// Complete sends prompt as a single user turn and returns the response text.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return "", fmt.Errorf("gemini generate: %w", domain.ErrCanceled)
		}
		c.logger.Error("Gemini API request failed",
			zap.String("model", c.model),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", fmt.Errorf("gemini generate: %v: %w", err, domain.ErrSummaryProvider)
	}

	text := resp.Text()
	c.logger.Debug("Gemini response received",
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("length", len(text)),
	)
	return text, nil
}
