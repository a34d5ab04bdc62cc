package service

import (
	"context"
	"fmt"
	"time"

	"stock-signals/internal/dto"
	"stock-signals/internal/indicator"
	"stock-signals/pkg/logger"
	"stock-signals/pkg/utils"
)

// Component weights of the technical composite score.
const (
	technicalWeight   = 0.40
	fundamentalWeight = 0.30
	trendWeight       = 0.20
	volatilityWeight  = 0.10

	buyThreshold  = 60.0
	sellThreshold = 40.0
)

// SignalInput carries everything a generator needs for one symbol. Prices
// must be sorted ascending; optional fields stay nil when unknown.
type SignalInput struct {
	Symbol       string
	Prices       dto.PriceSeries
	Indicators   dto.IndicatorSnapshot
	Fundamentals dto.FundamentalSnapshot
	SectorPE     *float64
}

// SignalGeneratorService produces rule-based trading signals from weighted
// technical, fundamental, trend, and volatility scores.
type SignalGeneratorService interface {
	Generate(ctx context.Context, input SignalInput) dto.SignalDecision
}

type signalGeneratorService struct {
	log *logger.Logger
}

func NewSignalGeneratorService(log *logger.Logger) SignalGeneratorService {
	return &signalGeneratorService{log: log}
}

func (s *signalGeneratorService) Generate(ctx context.Context, input SignalInput) dto.SignalDecision {
	if len(input.Prices) == 0 {
		s.log.WarnContext(ctx, "No price data, emitting NO_SIGNAL", logger.StringField("symbol", input.Symbol))
		return noSignalDecision(input.Symbol)
	}

	currentPrice := input.Prices.LastClose()
	technical, buySignals, sellSignals := technicalScore(input.Indicators, currentPrice)
	fundamental := fundamentalScore(input.Fundamentals, input.SectorPE)
	trend := trendScore(input.Prices)
	volatility, annualizedVol := volatilityScore(input.Prices)

	composite := technical.Score*technicalWeight +
		fundamental.Score*fundamentalWeight +
		trend.Score*trendWeight +
		volatility.Score*volatilityWeight

	signalType := signalFromComposite(composite)
	confidence := deriveConfidence(composite, signalType, input, buySignals, sellSignals)
	riskLevel := deriveRiskLevel(annualizedVol, input.Fundamentals.DebtRatio)
	holdingPeriod := deriveHoldingPeriod(annualizedVol, trend.Score, fundamental.Score)

	decision := dto.SignalDecision{
		Symbol:          input.Symbol,
		SignalType:      signalType,
		ConfidenceScore: utils.Round2(confidence),
		RiskLevel:       riskLevel,
		HoldingPeriod:   holdingPeriod,
		CompositeScore:  utils.Round2(composite),
		Explanation: dto.StructuredExplanation{
			Summary: fmt.Sprintf("%s signal with %.1f%% confidence", signalType, confidence),
			Factors: dto.ExplanationFactors{
				Technical:   &technical,
				Fundamental: &fundamental,
				Trend:       &trend,
				Volatility:  &volatility,
			},
			Triggers:               headOf(technical.Factors, 3),
			Risks:                  headOf(volatility.Factors, 2),
			InvalidationConditions: []string{},
		},
		GeneratedAt: time.Now().UTC(),
	}
	return decision
}

// noSignalDecision is the degenerate output for an empty price series. It
// is the only path that produces NO_SIGNAL.
func noSignalDecision(symbol string) dto.SignalDecision {
	return dto.SignalDecision{
		Symbol:          symbol,
		SignalType:      dto.SignalNoSignal,
		ConfidenceScore: 0,
		RiskLevel:       dto.RiskHigh,
		HoldingPeriod:   dto.HoldingShort,
		Explanation: dto.StructuredExplanation{
			Summary:                "Insufficient data to generate signal",
			Triggers:               []string{},
			Risks:                  []string{"Insufficient price data"},
			InvalidationConditions: []string{},
		},
		GeneratedAt: time.Now().UTC(),
	}
}

func signalFromComposite(composite float64) dto.SignalType {
	switch {
	case composite > buyThreshold:
		return dto.SignalBuy
	case composite < sellThreshold:
		return dto.SignalSell
	default:
		return dto.SignalHold
	}
}

// technicalScore starts neutral at 50 and shifts with each indicator
// reading. It also counts the explicit BUY and SELL votes from the RSI and
// MACD rules, which feed the agreement factor of the confidence.
func technicalScore(ind dto.IndicatorSnapshot, currentPrice float64) (dto.FactorScore, int, int) {
	score := 50.0
	factors := []string{}
	buySignals, sellSignals := 0, 0

	if ind.RSI != nil {
		rsi := *ind.RSI
		switch {
		case rsi < 30:
			score += 15
			factors = append(factors, "RSI oversold (bullish)")
			buySignals++
		case rsi > 70:
			score -= 15
			factors = append(factors, "RSI overbought (bearish)")
			sellSignals++
		case rsi <= 45:
			score += 5
			factors = append(factors, "RSI in neutral-bullish zone")
		case rsi >= 55:
			score -= 5
			factors = append(factors, "RSI in neutral-bearish zone")
		}
	}

	if ind.MACD != nil && ind.MACDSignal != nil && ind.MACDHistogram != nil {
		if *ind.MACD > *ind.MACDSignal && *ind.MACDHistogram > 0 {
			score += 10
			factors = append(factors, "Bullish MACD crossover")
			buySignals++
		} else if *ind.MACD < *ind.MACDSignal && *ind.MACDHistogram < 0 {
			score -= 10
			factors = append(factors, "Bearish MACD crossover")
			sellSignals++
		}
	}

	bullishMACount := 0
	if ind.SMA20 != nil && currentPrice > *ind.SMA20 {
		score += 5
		bullishMACount++
		factors = append(factors, "Price above SMA 20")
	}
	if ind.SMA50 != nil && currentPrice > *ind.SMA50 {
		score += 8
		bullishMACount++
		factors = append(factors, "Price above SMA 50")
	}
	if ind.SMA200 != nil && currentPrice > *ind.SMA200 {
		score += 10
		bullishMACount++
		factors = append(factors, "Price above SMA 200")
	}
	if bullishMACount == 0 {
		score -= 10
		factors = append(factors, "Price below all key moving averages")
	}

	if ind.BollingerLower != nil && ind.BollingerUpper != nil {
		if currentPrice <= *ind.BollingerLower {
			score += 10
			factors = append(factors, "Price near lower Bollinger Band (potential bounce)")
		} else if currentPrice >= *ind.BollingerUpper {
			score -= 10
			factors = append(factors, "Price near upper Bollinger Band (potential pullback)")
		}
	}

	if ind.CurrentVolume != nil && ind.VolumeAvg != nil && *ind.VolumeAvg > 0 {
		volumeRatio := *ind.CurrentVolume / *ind.VolumeAvg
		if volumeRatio > 1.5 {
			if buySignals > 0 {
				score += 5
			} else if sellSignals > 0 {
				score -= 5
			}
			factors = append(factors, fmt.Sprintf("Volume %.2fx average (confirms trend)", volumeRatio))
		}
	}

	return dto.FactorScore{Score: utils.Clamp(score, 0, 100), Factors: factors}, buySignals, sellSignals
}

func fundamentalScore(f dto.FundamentalSnapshot, sectorPE *float64) dto.FactorScore {
	score := 50.0
	factors := []string{}

	if f.PERatio != nil {
		pe := *f.PERatio
		if sectorPE != nil && *sectorPE > 0 {
			if pe < *sectorPE*0.8 {
				score += 10
				factors = append(factors, fmt.Sprintf("P/E ratio (%.2f) below sector average (%.2f)", pe, *sectorPE))
			} else if pe > *sectorPE*1.2 {
				score -= 10
				factors = append(factors, fmt.Sprintf("P/E ratio (%.2f) above sector average (%.2f)", pe, *sectorPE))
			}
		} else {
			if pe >= 10 && pe <= 25 {
				score += 5
				factors = append(factors, fmt.Sprintf("Reasonable P/E ratio (%.2f)", pe))
			} else if pe > 30 {
				score -= 10
				factors = append(factors, fmt.Sprintf("High P/E ratio (%.2f)", pe))
			}
		}
	}

	if f.EarningsGrowth != nil {
		growth := *f.EarningsGrowth
		switch {
		case growth > 20:
			score += 15
			factors = append(factors, fmt.Sprintf("Strong earnings growth (%.2f%%)", growth))
		case growth > 10:
			score += 8
			factors = append(factors, fmt.Sprintf("Positive earnings growth (%.2f%%)", growth))
		case growth > 0:
			score += 3
			factors = append(factors, fmt.Sprintf("Modest earnings growth (%.2f%%)", growth))
		case growth < -10:
			score -= 15
			factors = append(factors, fmt.Sprintf("Negative earnings growth (%.2f%%)", growth))
		default:
			score -= 5
			factors = append(factors, fmt.Sprintf("Declining earnings growth (%.2f%%)", growth))
		}
	}

	if f.Revenue != nil {
		factors = append(factors, "Revenue data available")
	}

	if f.DebtRatio != nil {
		if *f.DebtRatio < 30 {
			score += 5
			factors = append(factors, fmt.Sprintf("Low debt ratio (%.2f%%)", *f.DebtRatio))
		} else if *f.DebtRatio > 70 {
			score -= 10
			factors = append(factors, fmt.Sprintf("High debt ratio (%.2f%%)", *f.DebtRatio))
		}
	}

	return dto.FactorScore{Score: utils.Clamp(score, 0, 100), Factors: factors}
}

func trendScore(prices dto.PriceSeries) dto.FactorScore {
	if len(prices) < 5 {
		return dto.FactorScore{Score: 50, Factors: []string{"Insufficient data for trend analysis"}}
	}

	score := 50.0
	factors := []string{}

	if change, ok := prices.ChangePercent(20); ok {
		switch {
		case change > 5:
			score += 8
			factors = append(factors, fmt.Sprintf("Strong short-term uptrend (%.2f%%)", change))
		case change > 2:
			score += 4
			factors = append(factors, fmt.Sprintf("Positive short-term trend (%.2f%%)", change))
		case change < -5:
			score -= 8
			factors = append(factors, fmt.Sprintf("Strong short-term downtrend (%.2f%%)", change))
		case change < -2:
			score -= 4
			factors = append(factors, fmt.Sprintf("Negative short-term trend (%.2f%%)", change))
		}
	}

	if change, ok := prices.ChangePercent(50); ok {
		switch {
		case change > 10:
			score += 10
			factors = append(factors, fmt.Sprintf("Strong medium-term uptrend (%.2f%%)", change))
		case change > 5:
			score += 5
			factors = append(factors, fmt.Sprintf("Positive medium-term trend (%.2f%%)", change))
		case change < -10:
			score -= 10
			factors = append(factors, fmt.Sprintf("Strong medium-term downtrend (%.2f%%)", change))
		case change < -5:
			score -= 5
			factors = append(factors, fmt.Sprintf("Negative medium-term trend (%.2f%%)", change))
		}
	}

	if change, ok := prices.ChangePercent(200); ok {
		switch {
		case change > 20:
			score += 12
			factors = append(factors, fmt.Sprintf("Strong long-term uptrend (%.2f%%)", change))
		case change > 10:
			score += 6
			factors = append(factors, fmt.Sprintf("Positive long-term trend (%.2f%%)", change))
		case change < -20:
			score -= 12
			factors = append(factors, fmt.Sprintf("Strong long-term downtrend (%.2f%%)", change))
		case change < -10:
			score -= 6
			factors = append(factors, fmt.Sprintf("Negative long-term trend (%.2f%%)", change))
		}
	}

	return dto.FactorScore{Score: utils.Clamp(score, 0, 100), Factors: factors}
}

// volatilityScore rewards calm series and penalizes deep drawdowns. The
// second return is the annualized volatility in percent, nil when the
// window is shorter than 20 bars.
func volatilityScore(prices dto.PriceSeries) (dto.FactorScore, *float64) {
	if len(prices) < 20 {
		return dto.FactorScore{Score: 50, Factors: []string{"Insufficient data for volatility analysis"}}, nil
	}

	score := 50.0
	factors := []string{}
	returns := prices.Returns()

	annualizedVol := indicator.AnnualizedVolatility(returns)
	switch {
	case annualizedVol < 15:
		score += 10
		factors = append(factors, fmt.Sprintf("Low volatility (%.2f%%)", annualizedVol))
	case annualizedVol > 40:
		score -= 15
		factors = append(factors, fmt.Sprintf("High volatility (%.2f%%)", annualizedVol))
	default:
		factors = append(factors, fmt.Sprintf("Moderate volatility (%.2f%%)", annualizedVol))
	}

	maxDrawdown := indicator.MaxDrawdown(returns)
	if maxDrawdown > -20 {
		score += 5
		factors = append(factors, fmt.Sprintf("Controlled drawdown (%.2f%%)", maxDrawdown))
	} else if maxDrawdown < -50 {
		score -= 10
		factors = append(factors, fmt.Sprintf("Significant drawdown (%.2f%%)", maxDrawdown))
	}

	return dto.FactorScore{Score: utils.Clamp(score, 0, 100), Factors: factors}, &annualizedVol
}

// deriveConfidence scales the composite's distance from neutral, penalizes
// missing data, and nudges by how well the explicit indicator votes agree
// with the final signal.
func deriveConfidence(composite float64, signalType dto.SignalType, input SignalInput, buySignals, sellSignals int) float64 {
	confidence := abs(composite-50) * 2

	dataQualityFactor := 1.0
	if input.Indicators.IsEmpty() || input.Fundamentals.IsEmpty() {
		dataQualityFactor = 0.7
	}

	agreementFactor := 0.9
	switch {
	case signalType == dto.SignalBuy && buySignals > sellSignals:
		agreementFactor = 1.1
	case signalType == dto.SignalSell && sellSignals > buySignals:
		agreementFactor = 1.1
	case signalType == dto.SignalHold && buySignals == sellSignals:
		agreementFactor = 1.0
	}

	confidence = confidence * dataQualityFactor * agreementFactor
	if confidence > 100 {
		confidence = 100
	}
	return confidence
}

// deriveRiskLevel uses annualized volatility with a moderate 30% default
// and the debt ratio with a neutral 50% default when data is missing.
func deriveRiskLevel(annualizedVol *float64, debtRatio *float64) dto.RiskLevel {
	vol := 30.0
	if annualizedVol != nil {
		vol = *annualizedVol
	}
	debt := 50.0
	if debtRatio != nil {
		debt = *debtRatio
	}

	switch {
	case vol < 20 && debt < 40:
		return dto.RiskLow
	case vol > 40 || debt > 70:
		return dto.RiskHigh
	default:
		return dto.RiskMedium
	}
}

func deriveHoldingPeriod(annualizedVol *float64, trendScore, fundamentalScore float64) dto.HoldingPeriod {
	vol := 30.0
	if annualizedVol != nil {
		vol = *annualizedVol
	}

	switch {
	case vol > 35 || trendScore < 40:
		return dto.HoldingShort
	case vol < 20 && trendScore > 60 && fundamentalScore > 60:
		return dto.HoldingLong
	default:
		return dto.HoldingMedium
	}
}

func headOf(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
