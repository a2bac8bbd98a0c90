// Package ai generates restocking and sales recommendations from inventory
// and sales summaries using the Gemini API.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/shopbook/backend/internal/domain/shared"
)

// ErrDisabled is returned when the advisor is called without an API key.
var ErrDisabled = shared.NewDomainError("AI_DISABLED", "AI advisor is not configured")

// Advisor asks a generative model for shop recommendations. It never mutates
// data; the model only sees the summaries passed in.
type Advisor struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// AdvisorOption is a functional option for configuring Advisor.
type AdvisorOption func(*Advisor)

// WithAdvisorLogger sets the logger.
func WithAdvisorLogger(logger *zap.Logger) AdvisorOption {
	return func(a *Advisor) {
		a.logger = logger
	}
}

// NewAdvisor creates an Advisor backed by the Gemini API.
func NewAdvisor(ctx context.Context, apiKey, model string, opts ...AdvisorOption) (*Advisor, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	if model == "" {
		model = "gemini-2.0-flash-001"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	a := &Advisor{
		client: client,
		model:  model,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Recommend sends the stock and sales summaries (both JSON documents) to the
// model and returns its free-text advice.
func (a *Advisor) Recommend(ctx context.Context, stockJSON, salesJSON string) (string, error) {
	prompt := fmt.Sprintf(`You are an inventory advisor for a small retail shop.

Current stock levels, with low-stock thresholds, as JSON:
%s

Units sold per product, as JSON:
%s

Based on this data, give short practical recommendations: which products to
restock first, which are overstocked relative to sales, and anything notable
about selling patterns. Answer in plain text, at most ten bullet points.`,
		stockJSON, salesJSON)

	model := a.client.GenerativeModel(a.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		a.logger.Error("recommendation request failed", zap.Error(err))
		return "", fmt.Errorf("failed to generate recommendations: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("model returned no text")
	}
	return sb.String(), nil
}

// Close releases the underlying client.
func (a *Advisor) Close() error {
	return a.client.Close()
}
