package dto

import "time"

// SignalType is the canonical recommendation emitted by every generator.
// NO_SIGNAL is reserved for degenerate inputs (empty price series); the
// composite-score bands otherwise cover the full range.
type SignalType string

const (
	SignalBuy      SignalType = "BUY"
	SignalHold     SignalType = "HOLD"
	SignalSell     SignalType = "SELL"
	SignalNoSignal SignalType = "NO_SIGNAL"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

type HoldingPeriod string

const (
	HoldingShort  HoldingPeriod = "SHORT"
	HoldingMedium HoldingPeriod = "MEDIUM"
	HoldingLong   HoldingPeriod = "LONG"
)

type StockType string

const (
	StockTypeGrowth   StockType = "GROWTH"
	StockTypeDividend StockType = "DIVIDEND"
	StockTypeHybrid   StockType = "HYBRID"
)

type EntryTiming string

const (
	EntryGood EntryTiming = "GOOD"
	EntryFair EntryTiming = "FAIR"
	EntryWait EntryTiming = "WAIT"
)

// FactorScore is one weighted component of a composite score, together with
// the human-readable observations that moved it away from the neutral 50.
type FactorScore struct {
	Score   float64  `json:"score"`
	Factors []string `json:"factors,omitempty"`
}

type ExplanationFactors struct {
	Technical   *FactorScore `json:"technical,omitempty"`
	Fundamental *FactorScore `json:"fundamental,omitempty"`
	Trend       *FactorScore `json:"trend,omitempty"`
	Volatility  *FactorScore `json:"volatility,omitempty"`
	Dividend    *FactorScore `json:"dividend,omitempty"`
	EntryTiming *FactorScore `json:"entry_timing,omitempty"`
}

// MLPrediction describes the machine-learned contribution to a hybrid
// decision. Nil when no model produced a usable prediction.
type MLPrediction struct {
	Signal        SignalType `json:"signal"`
	Confidence    float64    `json:"confidence"`
	PriceForecast *float64   `json:"price_forecast,omitempty"`
	Method        string     `json:"method"`
}

type InvestmentGuidance struct {
	WhenToBuy     EntryTiming   `json:"when_to_buy"`
	HowLongToHold HoldingPeriod `json:"how_long_to_hold"`
	WhenToSell    string        `json:"when_to_sell"`
}

type StructuredExplanation struct {
	Summary                string              `json:"summary"`
	Momentum               string              `json:"momentum,omitempty"`
	Factors                ExplanationFactors  `json:"factors"`
	Triggers               []string            `json:"triggers"`
	Risks                  []string            `json:"risks"`
	InvalidationConditions []string            `json:"invalidation_conditions"`
	MLPrediction           *MLPrediction       `json:"ml_prediction,omitempty"`
	HybridApproach         bool                `json:"hybrid_approach,omitempty"`
	InvestmentGuidance     *InvestmentGuidance `json:"investment_guidance,omitempty"`
}

// SignalDecision is the atomic output of a generator invocation. It is never
// mutated after creation; a new decision is a new record.
type SignalDecision struct {
	Symbol          string                `json:"symbol"`
	SignalType      SignalType            `json:"signal_type"`
	ConfidenceScore float64               `json:"confidence_score"`
	RiskLevel       RiskLevel             `json:"risk_level"`
	HoldingPeriod   HoldingPeriod         `json:"holding_period"`
	CompositeScore  float64               `json:"composite_score"`
	Explanation     StructuredExplanation `json:"explanation"`
	MLUsed          bool                  `json:"ml_used,omitempty"`
	DividendYield   *float64              `json:"dividend_yield,omitempty"`
	IsDividendStock bool                  `json:"is_dividend_stock,omitempty"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

// SignalRecord is the lightweight history entry the backtester replays.
type SignalRecord struct {
	SignalType      SignalType `json:"signal_type"`
	ConfidenceScore float64    `json:"confidence_score"`
	CreatedAt       time.Time  `json:"created_at"`
}
