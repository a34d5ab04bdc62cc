package dto

import "time"

// BacktestRequest defines the parameters for a backtest run.
type BacktestRequest struct {
	Symbol    string    `json:"symbol" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

type RealisticBacktestRequest struct {
	BacktestRequest
	AccountValue float64 `json:"account_value" validate:"omitempty,gt=0"`
	RiskPerTrade float64 `json:"risk_per_trade" validate:"omitempty,gt=0,lte=0.1"`
}

type TradeType string

const (
	TradeBuyClose  TradeType = "BUY_CLOSE"
	TradeSellClose TradeType = "SELL_CLOSE"
)

// Trade records one closed position during simulation. A trade only exists
// once its position has been closed, either by a reversing signal or by the
// forced close at the end of the window.
type Trade struct {
	Type             TradeType `json:"type"`
	EntryDate        time.Time `json:"entry_date"`
	ExitDate         time.Time `json:"exit_date"`
	EntryPrice       float64   `json:"entry_price"`
	ExitPrice        float64   `json:"exit_price"`
	PnlPercent       float64   `json:"pnl_percent"`
	SignalConfidence *float64  `json:"signal_confidence,omitempty"`
}

// BacktestReport aggregates simulated performance. Error is a reported
// condition (no signals, no trades, too few prices), never a Go error:
// an empty backtest window is a normal outcome.
type BacktestReport struct {
	Symbol             string    `json:"symbol"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	TotalSignals       int       `json:"total_signals"`
	TotalTrades        int       `json:"total_trades"`
	WinningTrades      int       `json:"winning_trades"`
	LosingTrades       int       `json:"losing_trades"`
	WinRate            float64   `json:"win_rate"`
	TotalReturnPercent float64   `json:"total_return_percent"`
	AvgReturnPerTrade  float64   `json:"average_return_per_trade"`
	AverageWin         float64   `json:"average_win"`
	AverageLoss        float64   `json:"average_loss"`
	MaxDrawdownPercent float64   `json:"max_drawdown_percent"`
	Volatility         float64   `json:"volatility"`
	SharpeRatio        float64   `json:"sharpe_ratio"`
	Trades             []Trade   `json:"trades"`
	Error              string    `json:"error,omitempty"`
}

// BenchmarkComparison extends a report with relative performance.
type BenchmarkComparison struct {
	BacktestReport
	BenchmarkReturnPercent float64 `json:"benchmark_return_percent"`
	OutperformancePercent  float64 `json:"outperformance_percent"`
	BeatBenchmark          bool    `json:"beat_benchmark"`
}

// CostBreakdown itemizes the transaction costs of one order.
type CostBreakdown struct {
	Commission       float64 `json:"commission"`
	SpreadCost       float64 `json:"spread_cost"`
	SlippageCost     float64 `json:"slippage_cost"`
	MarketImpactCost float64 `json:"market_impact_cost"`
	TotalCost        float64 `json:"total_cost"`
	CostPercent      float64 `json:"cost_percent"`
}

// RealisticPnl compares intended execution with delayed, cost-adjusted
// execution for one round trip.
type RealisticPnl struct {
	GrossPnl         float64       `json:"gross_pnl"`
	NetPnl           float64       `json:"net_pnl"`
	TotalCosts       float64       `json:"total_costs"`
	GrossReturnPct   float64       `json:"gross_return_pct"`
	NetReturnPct     float64       `json:"net_return_pct"`
	CostImpactPct    float64       `json:"cost_impact_pct"`
	EntryPriceActual float64       `json:"entry_price_actual"`
	ExitPriceActual  float64       `json:"exit_price_actual"`
	EntryPriceWanted float64       `json:"entry_price_intended"`
	ExitPriceWanted  float64       `json:"exit_price_intended"`
	EntryCosts       CostBreakdown `json:"entry_costs"`
	ExitCosts        CostBreakdown `json:"exit_costs"`
}

type RealisticTrade struct {
	Trade
	Quantity          float64      `json:"quantity"`
	Realistic         RealisticPnl `json:"realistic_pnl"`
	AccountValueAfter float64      `json:"account_value_after"`
}

// RealisticBacktestReport carries both the naive and cost-adjusted returns
// so the cost drag is directly visible.
type RealisticBacktestReport struct {
	BacktestReport
	RealisticTotalReturnPct float64          `json:"realistic_total_return_pct"`
	NaiveTotalReturnPct     float64          `json:"naive_total_return_pct"`
	CostImpactPct           float64          `json:"cost_impact_pct"`
	FinalAccountValue       float64          `json:"final_account_value"`
	RealisticTrades         []RealisticTrade `json:"realistic_trades"`
}
