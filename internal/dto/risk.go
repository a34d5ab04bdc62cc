package dto

// RiskTolerance maps an investor profile to a stop-distance multiplier.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "CONSERVATIVE"
	RiskModerate     RiskTolerance = "MODERATE"
	RiskAggressive   RiskTolerance = "AGGRESSIVE"
)

// PositionSize is the deterministic result of a sizing calculation. It has
// no lifecycle of its own; recompute rather than mutate.
type PositionSize struct {
	Quantity            float64 `json:"quantity"`
	StopLossPrice       float64 `json:"stop_loss_price"`
	TakeProfitPrice     float64 `json:"take_profit_price"`
	RiskAmount          float64 `json:"risk_amount"`
	MaxLossPercent      float64 `json:"max_loss_percent"`
	TargetProfitPercent float64 `json:"target_profit_percent"`
	RiskRewardRatio     float64 `json:"risk_reward_ratio"`
}

type PositionSizeRequest struct {
	AccountValue    float64 `json:"account_value" validate:"required,gt=0"`
	EntryPrice      float64 `json:"entry_price" validate:"required,gt=0"`
	StopLossPrice   float64 `json:"stop_loss_price" validate:"required,gt=0"`
	RiskPerTrade    float64 `json:"risk_per_trade" validate:"omitempty,gt=0,lte=0.1"`
	RiskRewardRatio float64 `json:"risk_reward_ratio" validate:"omitempty,gt=0"`
	MaxPositionPct  float64 `json:"max_position_pct" validate:"omitempty,gt=0,lte=1"`
}

// PositionRiskCheck flags positions that are oversized for the account.
type PositionRiskCheck struct {
	IsValid         bool     `json:"is_valid"`
	PositionPercent float64  `json:"position_percent"`
	Warnings        []string `json:"warnings"`
}
