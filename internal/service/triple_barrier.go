package service

import (
	"stock-signals/internal/dto"
	"stock-signals/pkg/utils"
)

// BarrierConfig tunes the triple-barrier labeler. Volatility adjustment
// widens both barriers when recent returns are noisy, so the labels are
// not dominated by ordinary churn.
type BarrierConfig struct {
	UpperBarrierPct    float64
	LowerBarrierPct    float64
	MaxHoldingBars     int
	VolatilityAdjusted bool
	VolatilityWindow   int
	MinVolatility      float64
}

func DefaultBarrierConfig() BarrierConfig {
	return BarrierConfig{
		UpperBarrierPct:    0.05,
		LowerBarrierPct:    -0.03,
		MaxHoldingBars:     20,
		VolatilityAdjusted: true,
		VolatilityWindow:   20,
		MinVolatility:      0.01,
	}
}

// TripleBarrierService labels each bar by which barrier its forward window
// hits first: take-profit above, stop-loss below, or the holding limit.
// Path-dependent exits make these labels usable for supervised training,
// unlike a plain price-at-T+n target.
type TripleBarrierService interface {
	CreateLabels(prices dto.PriceSeries, cfg BarrierConfig) []dto.BarrierLabel
	CreateLabelsForHorizon(prices dto.PriceSeries, horizon dto.Horizon) []dto.BarrierLabel
}

type tripleBarrierService struct{}

func NewTripleBarrierService() TripleBarrierService {
	return &tripleBarrierService{}
}

func (s *tripleBarrierService) CreateLabels(prices dto.PriceSeries, cfg BarrierConfig) []dto.BarrierLabel {
	if cfg.MaxHoldingBars <= 0 || len(prices) < cfg.MaxHoldingBars+1 {
		return nil
	}

	labels := make([]dto.BarrierLabel, 0, len(prices)-cfg.MaxHoldingBars)
	for entry := 0; entry < len(prices)-cfg.MaxHoldingBars; entry++ {
		labels = append(labels, s.labelAt(prices, entry, cfg))
	}
	return labels
}

// CreateLabelsForHorizon swaps in the barrier widths and holding limit of
// a preset horizon.
func (s *tripleBarrierService) CreateLabelsForHorizon(prices dto.PriceSeries, horizon dto.Horizon) []dto.BarrierLabel {
	cfg := DefaultBarrierConfig()
	cfg.UpperBarrierPct = horizon.UpperBarrierPct
	cfg.LowerBarrierPct = horizon.LowerBarrierPct
	cfg.MaxHoldingBars = horizon.MaxHoldingBars
	return s.CreateLabels(prices, cfg)
}

func (s *tripleBarrierService) labelAt(prices dto.PriceSeries, entry int, cfg BarrierConfig) dto.BarrierLabel {
	entryPrice := prices[entry].Close

	volMultiplier := 1.0
	if cfg.VolatilityAdjusted {
		vol := trailingVolatility(prices, entry, cfg.VolatilityWindow, cfg.MinVolatility)
		volMultiplier = 1 + vol*2
	}

	upperBarrier := entryPrice * (1 + cfg.UpperBarrierPct*volMultiplier)
	lowerBarrier := entryPrice * (1 + cfg.LowerBarrierPct*volMultiplier)

	windowEnd := entry + 1 + cfg.MaxHoldingBars
	if windowEnd > len(prices) {
		windowEnd = len(prices)
	}

	label := dto.BarrierLabel{
		EntryIndex: entry,
		EntryTime:  prices[entry].Time,
		EntryPrice: entryPrice,
	}

	if entry+1 >= windowEnd {
		label.Barrier = dto.BarrierNone
		label.Signal = dto.SignalHold
		return label
	}

	upperHit, lowerHit := -1, -1
	for i := entry + 1; i < windowEnd; i++ {
		if upperHit < 0 && prices[i].Close >= upperBarrier {
			upperHit = i
		}
		if lowerHit < 0 && prices[i].Close <= lowerBarrier {
			lowerHit = i
		}
		if upperHit >= 0 && lowerHit >= 0 {
			break
		}
	}

	exit := windowEnd - 1
	switch {
	case upperHit >= 0 && (lowerHit < 0 || upperHit < lowerHit):
		label.Label = 1
		label.Signal = dto.SignalBuy
		label.Barrier = dto.BarrierUpper
		exit = upperHit
	case lowerHit >= 0:
		label.Label = -1
		label.Signal = dto.SignalSell
		label.Barrier = dto.BarrierLower
		exit = lowerHit
	default:
		label.Label = 0
		label.Signal = dto.SignalHold
		label.Barrier = dto.BarrierTime
	}

	label.ExitIndex = exit
	label.ExitTime = prices[exit].Time
	label.ExitPrice = prices[exit].Close
	label.HoldingBars = exit - entry
	if entryPrice != 0 {
		label.ReturnPct = ((prices[exit].Close - entryPrice) / entryPrice) * 100
	}
	return label
}

// trailingVolatility is the sample standard deviation of returns over the
// window ending at the entry bar, floored at minVolatility.
func trailingVolatility(prices dto.PriceSeries, entry, window int, minVolatility float64) float64 {
	start := entry - window
	if start < 0 {
		start = 0
	}
	returns := prices[start : entry+1].Returns()
	if len(returns) < window {
		return minVolatility
	}

	vol := utils.StdDevSample(returns[len(returns)-window:])
	if vol < minVolatility {
		return minVolatility
	}
	return vol
}
