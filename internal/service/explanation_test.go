package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stock-signals/internal/dto"
	"stock-signals/pkg/utils"
)

func TestBuildSummary(t *testing.T) {
	t.Run("buy", func(t *testing.T) {
		got := buildSummary(dto.SignalBuy, 55, utils.ToPointer(45.0), utils.ToPointer(12.0), "bullish")
		assert.Equal(t, "BUY - Strong upward momentum with RSI at 45.0 positive earnings growth of 12.0% and price above key moving averages (Confidence: 55.0%).", got)
	})

	t.Run("sell", func(t *testing.T) {
		got := buildSummary(dto.SignalSell, 40, utils.ToPointer(75.0), utils.ToPointer(-12.0), "bearish")
		assert.Equal(t, "SELL - Negative momentum with RSI overbought at 75.0 negative earnings growth of -12.0% and price below key moving averages (Confidence: 40.0%).", got)
	})

	t.Run("hold", func(t *testing.T) {
		got := buildSummary(dto.SignalHold, 10, nil, nil, "neutral")
		assert.Equal(t, "HOLD - Mixed signals with neutral momentum (Confidence: 10.0%).", got)
	})
}

func TestBuildTriggersRanksAndCaps(t *testing.T) {
	input := SignalInput{
		Indicators: dto.IndicatorSnapshot{
			RSI:           utils.ToPointer(25.0),
			MACDHistogram: utils.ToPointer(1.0),
			SMA50:         utils.ToPointer(90.0),
		},
		Fundamentals: dto.FundamentalSnapshot{EarningsGrowth: utils.ToPointer(15.0)},
	}

	got := buildTriggers(input, 100, []string{"Strong short-term uptrend (6.00%)", "Positive medium-term trend (8.00%)"})

	assert.Equal(t, []string{
		"RSI oversold (25.0)",
		"Bullish MACD crossover",
		"Price above 50-day SMA",
		"Positive earnings growth (15.0%)",
		"Strong short-term uptrend (6.00%)",
	}, got)
}

func TestBuildRisks(t *testing.T) {
	t.Run("high risk stock caps at four", func(t *testing.T) {
		got := buildRisks(dto.RiskHigh, utils.ToPointer(45.0), utils.ToPointer(75.0))
		assert.Equal(t, []string{
			"High volatility and risk level",
			"High market volatility (45.0%)",
			"High debt ratio (75.0%)",
			"Market conditions can change rapidly",
		}, got)
	})

	t.Run("low risk keeps boilerplate only", func(t *testing.T) {
		got := buildRisks(dto.RiskLow, nil, nil)
		assert.Equal(t, []string{
			"Market conditions can change rapidly",
			"Past performance does not guarantee future results",
		}, got)
	})
}

func TestBuildInvalidationConditions(t *testing.T) {
	ind := dto.IndicatorSnapshot{
		RSI:            utils.ToPointer(40.0),
		SMA50:          utils.ToPointer(95.5),
		BollingerLower: utils.ToPointer(92.0),
		BollingerUpper: utils.ToPointer(108.0),
	}

	t.Run("buy", func(t *testing.T) {
		got := buildInvalidationConditions(dto.SignalBuy, ind)
		assert.Equal(t, []string{
			"Price breaks below $95.50 support (50-day SMA)",
			"RSI exceeds 70 (overbought)",
			"Price breaks below $92.00 (lower Bollinger Band)",
		}, got)
	})

	t.Run("sell", func(t *testing.T) {
		got := buildInvalidationConditions(dto.SignalSell, ind)
		assert.Equal(t, []string{
			"Price breaks above $95.50 resistance (50-day SMA)",
			"RSI falls below 30 (oversold)",
			"Price breaks above $108.00 (upper Bollinger Band)",
		}, got)
	})

	t.Run("hold", func(t *testing.T) {
		got := buildInvalidationConditions(dto.SignalHold, dto.IndicatorSnapshot{})
		assert.Equal(t, []string{"Signal may change with new data"}, got)
	})
}

func TestMomentumLabel(t *testing.T) {
	tests := []struct {
		technical float64
		trend     float64
		want      string
	}{
		{technical: 70, trend: 70, want: "strong"},
		{technical: 60, trend: 55, want: "moderate"},
		{technical: 30, trend: 30, want: "weak"},
		{technical: 50, trend: 50, want: "neutral"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, momentumLabel(tt.technical, tt.trend))
	}
}

func TestEnrichRewritesExplanation(t *testing.T) {
	svc := NewExplanationService(newTestLogger(t))

	decision := dto.SignalDecision{
		Symbol:          "AAPL",
		SignalType:      dto.SignalBuy,
		ConfidenceScore: 62,
		RiskLevel:       dto.RiskMedium,
		Explanation: dto.StructuredExplanation{
			Summary: "BUY signal with 62.0% confidence",
			Factors: dto.ExplanationFactors{
				Technical: &dto.FactorScore{Score: 70},
				Trend:     &dto.FactorScore{Score: 60, Factors: []string{"Strong short-term uptrend (6.00%)"}},
			},
		},
	}
	input := SignalInput{
		Symbol: "AAPL",
		Prices: flatSeries(10, 100),
		Indicators: dto.IndicatorSnapshot{
			RSI:            utils.ToPointer(28.0),
			SMA50:          utils.ToPointer(95.0),
			BollingerLower: utils.ToPointer(92.0),
		},
	}

	svc.Enrich(&decision, input)

	assert.Contains(t, decision.Explanation.Summary, "BUY - Strong upward momentum")
	assert.Contains(t, decision.Explanation.Summary, "(Confidence: 62.0%).")
	assert.Equal(t, "moderate", decision.Explanation.Momentum)
	assert.Equal(t, []string{
		"RSI oversold (28.0)",
		"Price above 50-day SMA",
		"Strong short-term uptrend (6.00%)",
	}, decision.Explanation.Triggers)
	assert.Contains(t, decision.Explanation.Risks, "Moderate market volatility may increase")
	assert.Len(t, decision.Explanation.InvalidationConditions, 3)
}
