package service

import (
	"context"
	"fmt"
	"time"

	"stock-signals/internal/dto"
	"stock-signals/pkg/logger"
	"stock-signals/pkg/utils"
)

// Component weights of the investment composite score. Fundamentals and
// dividends dominate; technicals only time the entry.
const (
	investFundamentalWeight = 0.50
	investDividendWeight    = 0.25
	investTrendWeight       = 0.15
	investTechnicalWeight   = 0.10

	investBuyThreshold  = 65.0
	investSellThreshold = 35.0
)

// InvestmentSignalService produces signals tuned for long-term,
// dividend-oriented investing rather than short-term trading.
type InvestmentSignalService interface {
	Generate(ctx context.Context, input SignalInput) dto.SignalDecision
}

type investmentSignalService struct {
	log *logger.Logger
}

func NewInvestmentSignalService(log *logger.Logger) InvestmentSignalService {
	return &investmentSignalService{log: log}
}

func (s *investmentSignalService) Generate(ctx context.Context, input SignalInput) dto.SignalDecision {
	if len(input.Prices) == 0 {
		s.log.WarnContext(ctx, "No price data, emitting NO_SIGNAL", logger.StringField("symbol", input.Symbol))
		decision := noSignalDecision(input.Symbol)
		decision.HoldingPeriod = dto.HoldingMedium
		decision.Explanation.Summary = "Insufficient data to generate investment signal"
		return decision
	}

	currentPrice := input.Prices.LastClose()
	dividend := dividendScore(input.Fundamentals)
	fundamental := fundamentalScoreInvesting(input.Fundamentals, input.SectorPE)
	trend := longTermTrendScore(input.Prices)
	entryTimingFactor, timing := entryTimingScore(input.Indicators, currentPrice)

	composite := fundamental.Score*investFundamentalWeight +
		dividend.Score*investDividendWeight +
		trend.Score*investTrendWeight +
		entryTimingFactor.Score*investTechnicalWeight

	var signalType dto.SignalType
	switch {
	case composite > investBuyThreshold:
		signalType = dto.SignalBuy
	case composite < investSellThreshold:
		signalType = dto.SignalSell
	default:
		signalType = dto.SignalHold
	}

	confidence := abs(composite-50) * 2
	if confidence > 100 {
		confidence = 100
	}
	dividendYield := input.Fundamentals.DividendYield
	if input.Fundamentals.IsEmpty() || dividendYield == nil || *dividendYield == 0 {
		confidence *= 0.8
	}

	debtRatio := 50.0
	if input.Fundamentals.DebtRatio != nil {
		debtRatio = *input.Fundamentals.DebtRatio
	}
	payout := input.Fundamentals.DividendPayoutRatio

	var riskLevel dto.RiskLevel
	switch {
	case debtRatio < 40 && payout != nil && *payout >= 30 && *payout <= 70:
		riskLevel = dto.RiskLow
	case debtRatio > 70 || (payout != nil && *payout > 90):
		riskLevel = dto.RiskHigh
	default:
		riskLevel = dto.RiskMedium
	}

	yield := 0.0
	if dividendYield != nil {
		yield = *dividendYield
	}
	growth := 0.0
	if input.Fundamentals.EarningsGrowth != nil {
		growth = *input.Fundamentals.EarningsGrowth
	}

	var holdingPeriod dto.HoldingPeriod
	switch {
	case yield > 3 && growth > 5 && fundamental.Score > 60:
		holdingPeriod = dto.HoldingLong
	case yield > 2 || (growth > 10 && fundamental.Score > 55):
		holdingPeriod = dto.HoldingLong
	case fundamental.Score < 40:
		holdingPeriod = dto.HoldingShort
	default:
		holdingPeriod = dto.HoldingMedium
	}

	payoutText := "N/A"
	if payout != nil {
		payoutText = fmt.Sprintf("%.1f", *payout)
	}

	triggers := append([]string{}, headOf(fundamental.Factors, 2)...)
	triggers = append(triggers, headOf(dividend.Factors, 2)...)
	triggers = append(triggers, headOf(trend.Factors, 1)...)

	isDividendStock := yield > 2

	return dto.SignalDecision{
		Symbol:          input.Symbol,
		SignalType:      signalType,
		ConfidenceScore: utils.Round2(confidence),
		RiskLevel:       riskLevel,
		HoldingPeriod:   holdingPeriod,
		CompositeScore:  utils.Round2(composite),
		DividendYield:   dividendYield,
		IsDividendStock: isDividendStock,
		Explanation: dto.StructuredExplanation{
			Summary: fmt.Sprintf("%s signal for long-term investing with %.1f%% confidence", signalType, confidence),
			Factors: dto.ExplanationFactors{
				Fundamental: &fundamental,
				Dividend:    &dividend,
				Trend:       &trend,
				EntryTiming: &entryTimingFactor,
			},
			Triggers: triggers,
			Risks: []string{
				fmt.Sprintf("Debt ratio: %.1f%%", debtRatio),
				fmt.Sprintf("Dividend payout: %s%%", payoutText),
			},
			InvalidationConditions: []string{},
			InvestmentGuidance: &dto.InvestmentGuidance{
				WhenToBuy:     timing,
				HowLongToHold: holdingPeriod,
				WhenToSell:    "Consider selling if fundamentals deteriorate or dividend is cut",
			},
		},
		GeneratedAt: time.Now().UTC(),
	}
}

// dividendScore favors a sustainable yield over a maximal one. A payout
// ratio above 100% outweighs the yield entirely.
func dividendScore(f dto.FundamentalSnapshot) dto.FactorScore {
	score := 50.0
	factors := []string{}

	if f.DividendYield != nil {
		yield := *f.DividendYield
		switch {
		case yield > 5:
			score += 15
			factors = append(factors, fmt.Sprintf("High dividend yield (%.2f%%) - excellent for income", yield))
		case yield > 3:
			score += 10
			factors = append(factors, fmt.Sprintf("Good dividend yield (%.2f%%) - solid income stream", yield))
		case yield > 2:
			score += 5
			factors = append(factors, fmt.Sprintf("Moderate dividend yield (%.2f%%) - decent income", yield))
		case yield > 0:
			score += 2
			factors = append(factors, fmt.Sprintf("Low dividend yield (%.2f%%) - minimal income", yield))
		default:
			score -= 5
			factors = append(factors, "No dividend - growth stock, no income")
		}
	}

	if f.DividendPayoutRatio != nil {
		payout := *f.DividendPayoutRatio
		switch {
		case payout >= 30 && payout <= 70:
			score += 10
			factors = append(factors, fmt.Sprintf("Sustainable payout ratio (%.2f%%) - healthy balance", payout))
		case payout < 30:
			score += 5
			factors = append(factors, fmt.Sprintf("Low payout ratio (%.2f%%) - room for dividend growth", payout))
		case payout > 100:
			score -= 15
			factors = append(factors, fmt.Sprintf("Payout ratio > 100%% (%.2f%%) - unsustainable", payout))
		case payout > 90:
			score -= 10
			factors = append(factors, fmt.Sprintf("High payout ratio (%.2f%%) - dividend may be at risk", payout))
		}
	}

	if f.EarningsGrowth != nil && f.DividendYield != nil && *f.DividendYield > 0 {
		growth := *f.EarningsGrowth
		switch {
		case growth > 10:
			score += 8
			factors = append(factors, fmt.Sprintf("Strong earnings growth (%.2f%%) - dividend may increase", growth))
		case growth > 5:
			score += 4
			factors = append(factors, fmt.Sprintf("Positive earnings growth (%.2f%%) - dividend stability", growth))
		case growth < 0:
			score -= 8
			factors = append(factors, fmt.Sprintf("Negative earnings growth (%.2f%%) - dividend may be cut", growth))
		}
	}

	if f.DividendPerShare != nil && *f.DividendPerShare > 0 {
		factors = append(factors, fmt.Sprintf("Annual dividend: $%.2f per share", *f.DividendPerShare))
	}

	return dto.FactorScore{Score: utils.Clamp(score, 0, 100), Factors: factors}
}

func fundamentalScoreInvesting(f dto.FundamentalSnapshot, sectorPE *float64) dto.FactorScore {
	score := 50.0
	factors := []string{}

	if f.PERatio != nil {
		pe := *f.PERatio
		if sectorPE != nil && *sectorPE > 0 {
			switch {
			case pe < *sectorPE*0.7:
				score += 12
				factors = append(factors, fmt.Sprintf("Undervalued: P/E (%.2f) well below sector (%.2f)", pe, *sectorPE))
			case pe < *sectorPE*0.9:
				score += 6
				factors = append(factors, fmt.Sprintf("Fairly valued: P/E (%.2f) below sector (%.2f)", pe, *sectorPE))
			case pe > *sectorPE*1.3:
				score -= 10
				factors = append(factors, fmt.Sprintf("Overvalued: P/E (%.2f) above sector (%.2f)", pe, *sectorPE))
			}
		} else {
			switch {
			case pe >= 10 && pe <= 20:
				score += 8
				factors = append(factors, fmt.Sprintf("Reasonable P/E ratio (%.2f) - good value", pe))
			case pe < 10:
				score += 5
				factors = append(factors, fmt.Sprintf("Low P/E ratio (%.2f) - potential value play", pe))
			case pe > 30:
				score -= 8
				factors = append(factors, fmt.Sprintf("High P/E ratio (%.2f) - premium valuation", pe))
			}
		}
	}

	if f.EarningsGrowth != nil {
		growth := *f.EarningsGrowth
		switch {
		case growth > 20:
			score += 15
			factors = append(factors, fmt.Sprintf("Strong earnings growth (%.2f%%) - excellent long-term potential", growth))
		case growth > 10:
			score += 10
			factors = append(factors, fmt.Sprintf("Good earnings growth (%.2f%%) - solid growth", growth))
		case growth > 5:
			score += 5
			factors = append(factors, fmt.Sprintf("Moderate earnings growth (%.2f%%) - steady growth", growth))
		case growth < -10:
			score -= 15
			factors = append(factors, fmt.Sprintf("Declining earnings (%.2f%%) - concerning for long-term", growth))
		}
	}

	if f.DebtRatio != nil {
		debt := *f.DebtRatio
		switch {
		case debt < 30:
			score += 8
			factors = append(factors, fmt.Sprintf("Low debt ratio (%.2f%%) - strong financial health", debt))
		case debt < 50:
			score += 4
			factors = append(factors, fmt.Sprintf("Moderate debt ratio (%.2f%%) - manageable debt", debt))
		case debt > 70:
			score -= 12
			factors = append(factors, fmt.Sprintf("High debt ratio (%.2f%%) - financial risk", debt))
		}
	}

	if f.Revenue != nil && *f.Revenue > 0 {
		factors = append(factors, "Revenue data available - business operational")
	}
	if f.EPS != nil {
		if *f.EPS > 0 {
			score += 3
			factors = append(factors, fmt.Sprintf("Positive EPS ($%.2f) - profitable company", *f.EPS))
		} else if *f.EPS < 0 {
			score -= 10
			factors = append(factors, fmt.Sprintf("Negative EPS ($%.2f) - company losing money", *f.EPS))
		}
	}

	return dto.FactorScore{Score: utils.Clamp(score, 0, 100), Factors: factors}
}

// longTermTrendScore looks at 6-month and 3-month windows and ignores
// day-to-day noise. Windows shorter than 60 bars stay neutral.
func longTermTrendScore(prices dto.PriceSeries) dto.FactorScore {
	if len(prices) < 60 {
		return dto.FactorScore{Score: 50, Factors: []string{"Insufficient data for long-term trend"}}
	}

	score := 50.0
	factors := []string{}

	if change, ok := prices.ChangePercent(126); ok {
		switch {
		case change > 30:
			score += 15
			factors = append(factors, fmt.Sprintf("Strong long-term uptrend (%.2f%% over 6 months)", change))
		case change > 15:
			score += 10
			factors = append(factors, fmt.Sprintf("Positive long-term trend (%.2f%% over 6 months)", change))
		case change > 5:
			score += 5
			factors = append(factors, fmt.Sprintf("Modest long-term growth (%.2f%% over 6 months)", change))
		case change < -30:
			score -= 15
			factors = append(factors, fmt.Sprintf("Significant long-term decline (%.2f%% over 6 months)", change))
		case change < -15:
			score -= 10
			factors = append(factors, fmt.Sprintf("Long-term downtrend (%.2f%% over 6 months)", change))
		}
	}

	if change, ok := prices.ChangePercent(63); ok {
		if change > 20 {
			score += 8
			factors = append(factors, fmt.Sprintf("Strong recent momentum (%.2f%% over 3 months)", change))
		} else if change < -20 {
			score -= 8
			factors = append(factors, fmt.Sprintf("Recent weakness (%.2f%% over 3 months)", change))
		}
	}

	volatility := utils.StdDevSample(prices.Returns()) * 100
	if volatility < 20 {
		score += 5
		factors = append(factors, fmt.Sprintf("Low volatility (%.2f%%) - stable for long-term holding", volatility))
	} else if volatility > 40 {
		score -= 5
		factors = append(factors, fmt.Sprintf("High volatility (%.2f%%) - more risk for long-term", volatility))
	}

	return dto.FactorScore{Score: utils.Clamp(score, 0, 100), Factors: factors}
}

// entryTimingScore uses technicals only to time the entry of a position
// that fundamentals already justify.
func entryTimingScore(ind dto.IndicatorSnapshot, currentPrice float64) (dto.FactorScore, dto.EntryTiming) {
	score := 50.0
	factors := []string{}

	if ind.RSI != nil {
		if *ind.RSI < 35 {
			score += 10
			factors = append(factors, fmt.Sprintf("RSI oversold (%.1f) - potential good entry point", *ind.RSI))
		} else if *ind.RSI > 65 {
			score -= 5
			factors = append(factors, fmt.Sprintf("RSI overbought (%.1f) - consider waiting for better entry", *ind.RSI))
		}
	}

	if ind.SMA200 != nil && currentPrice > 0 {
		if currentPrice < *ind.SMA200*0.9 {
			score += 8
			factors = append(factors, "Price below 200-day SMA - potential value entry")
		} else if currentPrice > *ind.SMA200*1.1 {
			score -= 5
			factors = append(factors, "Price above 200-day SMA - may be overextended")
		}
	}

	if ind.SMA50 != nil && currentPrice > 0 && currentPrice < *ind.SMA50*0.95 {
		score += 5
		factors = append(factors, "Price below 50-day SMA - short-term pullback, good entry")
	}

	score = utils.Clamp(score, 0, 100)

	timing := dto.EntryWait
	if score > 55 {
		timing = dto.EntryGood
	} else if score > 45 {
		timing = dto.EntryFair
	}

	return dto.FactorScore{Score: score, Factors: factors}, timing
}
