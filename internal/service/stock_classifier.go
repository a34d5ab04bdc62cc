package service

import (
	"fmt"

	"stock-signals/internal/dto"
)

// InvestorRecommendation maps a stock type and signal to investor-facing
// guidance.
type InvestorRecommendation struct {
	BestFor     []string `json:"best_for"`
	Strategy    string   `json:"strategy"`
	TimeHorizon string   `json:"time_horizon"`
	Action      string   `json:"action"`
}

// StockClassifierService buckets instruments into growth, dividend, or
// hybrid profiles from their fundamentals.
type StockClassifierService interface {
	Classify(f dto.FundamentalSnapshot) dto.StockType
	Recommend(stockType dto.StockType, signalType dto.SignalType) InvestorRecommendation
}

type stockClassifierService struct{}

func NewStockClassifierService() StockClassifierService {
	return &stockClassifierService{}
}

// Classify applies threshold rules in priority order: a clear dividend
// profile wins, then a clear growth profile, then hybrid. Unknown metrics
// count as absent characteristics, and HYBRID is the fallback.
func (s *stockClassifierService) Classify(f dto.FundamentalSnapshot) dto.StockType {
	hasDividend := f.DividendYield != nil && *f.DividendYield > 0.5
	hasGrowth := f.EarningsGrowth != nil && *f.EarningsGrowth > 10
	highPE := f.PERatio != nil && *f.PERatio > 25
	highPayout := f.DividendPayoutRatio != nil && *f.DividendPayoutRatio > 50

	if hasDividend && (!hasGrowth || *f.EarningsGrowth < 5) && (highPayout || *f.DividendYield > 3) {
		return dto.StockTypeDividend
	}

	if hasGrowth && (highPE || !hasDividend || *f.DividendYield < 1) {
		return dto.StockTypeGrowth
	}

	if hasDividend && hasGrowth {
		return dto.StockTypeHybrid
	}

	if hasDividend {
		return dto.StockTypeDividend
	}
	if hasGrowth {
		return dto.StockTypeGrowth
	}
	return dto.StockTypeHybrid
}

func (s *stockClassifierService) Recommend(stockType dto.StockType, signalType dto.SignalType) InvestorRecommendation {
	var rec InvestorRecommendation
	switch stockType {
	case dto.StockTypeGrowth:
		rec = InvestorRecommendation{
			BestFor:     []string{"Growth investors", "Long-term wealth building", "Capital appreciation seekers"},
			Strategy:    "Focus on capital gains and reinvestment",
			TimeHorizon: "Long-term (5+ years)",
		}
	case dto.StockTypeDividend:
		rec = InvestorRecommendation{
			BestFor:     []string{"Income investors", "Retirement portfolios", "Passive income seekers"},
			Strategy:    "Focus on regular dividend income",
			TimeHorizon: "Long-term (steady income)",
		}
	default:
		rec = InvestorRecommendation{
			BestFor:     []string{"Balanced investors", "Total return seekers", "Diversified portfolios"},
			Strategy:    "Combination of growth and income",
			TimeHorizon: "Medium to long-term",
		}
	}

	switch signalType {
	case dto.SignalBuy:
		rec.Action = fmt.Sprintf("Consider adding to %s portfolio", lowerStockType(stockType))
	case dto.SignalHold:
		rec.Action = "Maintain position if aligned with investment goals"
	case dto.SignalSell:
		rec.Action = "Consider reducing position or taking profits"
	default:
		rec.Action = "Wait for clearer signals"
	}
	return rec
}

func lowerStockType(stockType dto.StockType) string {
	switch stockType {
	case dto.StockTypeGrowth:
		return "growth"
	case dto.StockTypeDividend:
		return "dividend"
	default:
		return "hybrid"
	}
}
