package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stock-signals/internal/dto"
)

func TestBuildPrompt(t *testing.T) {
	repo := &narrativeRepository{}

	decision := &dto.SignalDecision{
		Symbol:          "AAPL",
		SignalType:      dto.SignalBuy,
		ConfidenceScore: 72.5,
		RiskLevel:       dto.RiskMedium,
		HoldingPeriod:   dto.HoldingMedium,
		Explanation: dto.StructuredExplanation{
			Summary:  "BUY - Strong upward momentum (Confidence: 72.5%).",
			Triggers: []string{"RSI oversold (28.0)", "Bullish MACD crossover"},
			Risks:    []string{"Market conditions can change rapidly"},
		},
	}

	prompt := repo.buildPrompt(decision)

	assert.Contains(t, prompt, "Symbol: AAPL\n")
	assert.Contains(t, prompt, "Signal: BUY\n")
	assert.Contains(t, prompt, "Confidence: 72.5%\n")
	assert.Contains(t, prompt, "Summary: BUY - Strong upward momentum (Confidence: 72.5%).\n")
	assert.Contains(t, prompt, "Triggers: RSI oversold (28.0); Bullish MACD crossover\n")
	assert.Contains(t, prompt, "Risks: Market conditions can change rapidly\n")
}

func TestBuildPromptSkipsEmptySections(t *testing.T) {
	repo := &narrativeRepository{}

	prompt := repo.buildPrompt(&dto.SignalDecision{
		Symbol:     "AAPL",
		SignalType: dto.SignalHold,
	})

	assert.Contains(t, prompt, "Symbol: AAPL\n")
	assert.NotContains(t, prompt, "Summary:")
	assert.NotContains(t, prompt, "Triggers:")
	assert.NotContains(t, prompt, "Risks:")
}
