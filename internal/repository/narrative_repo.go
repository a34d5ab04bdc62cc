package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"stock-signals/config"
	"stock-signals/internal/dto"
	"stock-signals/pkg/logger"
	"stock-signals/pkg/ratelimit"
)

type NarrativeRepository interface {
	Narrate(ctx context.Context, decision *dto.SignalDecision) (string, error)
}

// narrativeRepository turns a structured decision into a short prose
// narrative via the Gemini API. It is optional enrichment; callers must
// degrade gracefully when it fails.
type narrativeRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	tokenLimiter   *ratelimit.TokenLimiter
	genAiClient    *genai.Client
}

func NewNarrativeRepository(cfg *config.Config, log *logger.Logger) (NarrativeRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &narrativeRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *narrativeRepository) Narrate(ctx context.Context, decision *dto.SignalDecision) (string, error) {
	prompt := r.buildPrompt(decision)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.BaseModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to count tokens: %w", err)
	}
	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return "", fmt.Errorf("failed to wait for gemini token limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.BaseModel, contents, nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to generate narrative",
			logger.StringField("symbol", decision.Symbol),
			logger.ErrorField(err))
		return "", fmt.Errorf("failed to generate narrative: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty narrative response for symbol: %s", decision.Symbol)
	}
	return text, nil
}

func (r *narrativeRepository) buildPrompt(decision *dto.SignalDecision) string {
	var sb strings.Builder
	sb.WriteString("You are a financial analyst. Write a short plain-language narrative (max 3 sentences) for a retail investor based on this signal. Do not give personalized advice.\n\n")
	sb.WriteString(fmt.Sprintf("Symbol: %s\n", decision.Symbol))
	sb.WriteString(fmt.Sprintf("Signal: %s\n", decision.SignalType))
	sb.WriteString(fmt.Sprintf("Confidence: %.1f%%\n", decision.ConfidenceScore))
	sb.WriteString(fmt.Sprintf("Risk level: %s\n", decision.RiskLevel))
	sb.WriteString(fmt.Sprintf("Holding period: %s\n", decision.HoldingPeriod))
	if decision.Explanation.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", decision.Explanation.Summary))
	}
	if len(decision.Explanation.Triggers) > 0 {
		sb.WriteString(fmt.Sprintf("Triggers: %s\n", strings.Join(decision.Explanation.Triggers, "; ")))
	}
	if len(decision.Explanation.Risks) > 0 {
		sb.WriteString(fmt.Sprintf("Risks: %s\n", strings.Join(decision.Explanation.Risks, "; ")))
	}
	return sb.String()
}
