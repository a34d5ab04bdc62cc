package service

import (
	"fmt"
	"strings"

	"stock-signals/internal/dto"
	"stock-signals/internal/indicator"
	"stock-signals/pkg/logger"
)

// ExplanationService rewrites a decision's explanation into reader-facing
// prose: a templated summary, ranked triggers, risk statements, and the
// conditions that would invalidate the signal.
type ExplanationService interface {
	Enrich(decision *dto.SignalDecision, input SignalInput)
}

type explanationService struct {
	log *logger.Logger
}

func NewExplanationService(log *logger.Logger) ExplanationService {
	return &explanationService{log: log}
}

func (s *explanationService) Enrich(decision *dto.SignalDecision, input SignalInput) {
	currentPrice := input.Prices.LastClose()
	factors := decision.Explanation.Factors

	technicalScore := factorScoreOrNeutral(factors.Technical)
	trendScore := factorScoreOrNeutral(factors.Trend)
	technicalTrend := trendLabel(technicalScore)

	decision.Explanation.Summary = buildSummary(decision.SignalType, decision.ConfidenceScore,
		input.Indicators.RSI, input.Fundamentals.EarningsGrowth, technicalTrend)
	decision.Explanation.Momentum = momentumLabel(technicalScore, trendScore)
	decision.Explanation.Triggers = buildTriggers(input, currentPrice, trendFactors(factors.Trend))
	decision.Explanation.Risks = buildRisks(decision.RiskLevel, annualizedVolOf(input.Prices), input.Fundamentals.DebtRatio)
	decision.Explanation.InvalidationConditions = buildInvalidationConditions(decision.SignalType, input.Indicators)
}

func factorScoreOrNeutral(factor *dto.FactorScore) float64 {
	if factor == nil {
		return 50
	}
	return factor.Score
}

func trendFactors(factor *dto.FactorScore) []string {
	if factor == nil {
		return nil
	}
	return factor.Factors
}

func trendLabel(score float64) string {
	switch {
	case score > 50:
		return "bullish"
	case score < 50:
		return "bearish"
	default:
		return "neutral"
	}
}

func annualizedVolOf(prices dto.PriceSeries) *float64 {
	if len(prices) < 20 {
		return nil
	}
	vol := indicator.AnnualizedVolatility(prices.Returns())
	return &vol
}

func buildSummary(signalType dto.SignalType, confidence float64, rsi, earningsGrowth *float64, technicalTrend string) string {
	parts := []string{fmt.Sprintf("%s -", signalType)}

	switch signalType {
	case dto.SignalBuy:
		parts = append(parts, "Strong upward momentum")
		if rsi != nil {
			parts = append(parts, fmt.Sprintf("with RSI at %.1f", *rsi))
		}
		if earningsGrowth != nil && *earningsGrowth > 0 {
			parts = append(parts, fmt.Sprintf("positive earnings growth of %.1f%%", *earningsGrowth))
		}
		if technicalTrend == "bullish" {
			parts = append(parts, "and price above key moving averages")
		}
	case dto.SignalSell:
		parts = append(parts, "Negative momentum")
		if rsi != nil && *rsi > 70 {
			parts = append(parts, fmt.Sprintf("with RSI overbought at %.1f", *rsi))
		}
		if earningsGrowth != nil && *earningsGrowth < 0 {
			parts = append(parts, fmt.Sprintf("negative earnings growth of %.1f%%", *earningsGrowth))
		}
		if technicalTrend == "bearish" {
			parts = append(parts, "and price below key moving averages")
		}
	case dto.SignalHold:
		parts = append(parts, "Mixed signals", "with neutral momentum")
	default:
		parts = append(parts, "Insufficient data or conflicting signals")
	}

	parts = append(parts, fmt.Sprintf("(Confidence: %.1f%%)", confidence))
	return strings.Join(parts, " ") + "."
}

// buildTriggers ranks the most decisive observations first: RSI extremes,
// MACD direction, price vs SMA 50, earnings growth, then trend factors.
func buildTriggers(input SignalInput, currentPrice float64, trendFactors []string) []string {
	triggers := []string{}
	ind := input.Indicators

	if ind.RSI != nil {
		if *ind.RSI < 30 {
			triggers = append(triggers, fmt.Sprintf("RSI oversold (%.1f)", *ind.RSI))
		} else if *ind.RSI > 70 {
			triggers = append(triggers, fmt.Sprintf("RSI overbought (%.1f)", *ind.RSI))
		}
	}

	if ind.MACDHistogram != nil {
		if *ind.MACDHistogram > 0 {
			triggers = append(triggers, "Bullish MACD crossover")
		} else if *ind.MACDHistogram < 0 {
			triggers = append(triggers, "Bearish MACD crossover")
		}
	}

	if ind.SMA50 != nil && currentPrice > 0 {
		if currentPrice > *ind.SMA50 {
			triggers = append(triggers, "Price above 50-day SMA")
		} else {
			triggers = append(triggers, "Price below 50-day SMA")
		}
	}

	if growth := input.Fundamentals.EarningsGrowth; growth != nil {
		if *growth > 10 {
			triggers = append(triggers, fmt.Sprintf("Positive earnings growth (%.1f%%)", *growth))
		} else if *growth < -10 {
			triggers = append(triggers, fmt.Sprintf("Negative earnings growth (%.1f%%)", *growth))
		}
	}

	triggers = append(triggers, headOf(trendFactors, 2)...)
	return headOf(triggers, 5)
}

func buildRisks(riskLevel dto.RiskLevel, annualizedVol, debtRatio *float64) []string {
	risks := []string{}

	if riskLevel == dto.RiskHigh {
		risks = append(risks, "High volatility and risk level")
	}
	if annualizedVol != nil && *annualizedVol > 40 {
		risks = append(risks, fmt.Sprintf("High market volatility (%.1f%%)", *annualizedVol))
	}
	if debtRatio != nil && *debtRatio > 70 {
		risks = append(risks, fmt.Sprintf("High debt ratio (%.1f%%)", *debtRatio))
	}
	if riskLevel == dto.RiskMedium {
		risks = append(risks, "Moderate market volatility may increase")
	}

	risks = append(risks,
		"Market conditions can change rapidly",
		"Past performance does not guarantee future results")
	return headOf(risks, 4)
}

func buildInvalidationConditions(signalType dto.SignalType, ind dto.IndicatorSnapshot) []string {
	conditions := []string{}

	switch signalType {
	case dto.SignalBuy:
		if ind.SMA50 != nil {
			conditions = append(conditions, fmt.Sprintf("Price breaks below $%.2f support (50-day SMA)", *ind.SMA50))
		}
		if ind.RSI != nil {
			conditions = append(conditions, "RSI exceeds 70 (overbought)")
		}
		if ind.BollingerLower != nil {
			conditions = append(conditions, fmt.Sprintf("Price breaks below $%.2f (lower Bollinger Band)", *ind.BollingerLower))
		}
	case dto.SignalSell:
		if ind.SMA50 != nil {
			conditions = append(conditions, fmt.Sprintf("Price breaks above $%.2f resistance (50-day SMA)", *ind.SMA50))
		}
		if ind.RSI != nil {
			conditions = append(conditions, "RSI falls below 30 (oversold)")
		}
		if ind.BollingerUpper != nil {
			conditions = append(conditions, fmt.Sprintf("Price breaks above $%.2f (upper Bollinger Band)", *ind.BollingerUpper))
		}
	default:
		conditions = append(conditions, "Signal may change with new data")
	}

	return headOf(conditions, 3)
}

func momentumLabel(technicalScore, trendScore float64) string {
	avg := (technicalScore + trendScore) / 2
	switch {
	case avg > 65:
		return "strong"
	case avg > 55:
		return "moderate"
	case avg < 35:
		return "weak"
	default:
		return "neutral"
	}
}
