package dto

import "time"

// BarrierType identifies which barrier closed a labeled window.
type BarrierType string

const (
	BarrierUpper BarrierType = "UPPER"
	BarrierLower BarrierType = "LOWER"
	BarrierTime  BarrierType = "TIME"
	BarrierNone  BarrierType = "NONE"
)

// BarrierLabel is one triple-barrier outcome. Label is 1 for an upper
// barrier hit, -1 for lower, 0 for time expiry or an empty forward window.
type BarrierLabel struct {
	EntryIndex  int         `json:"entry_index"`
	EntryTime   time.Time   `json:"entry_time"`
	EntryPrice  float64     `json:"entry_price"`
	ExitIndex   int         `json:"exit_index"`
	ExitTime    time.Time   `json:"exit_time"`
	ExitPrice   float64     `json:"exit_price"`
	Label       int         `json:"label"`
	Signal      SignalType  `json:"signal"`
	Barrier     BarrierType `json:"barrier"`
	ReturnPct   float64     `json:"return_pct"`
	HoldingBars int         `json:"holding_bars"`
}

// Horizon bundles barrier percentages with a holding limit in bars.
type Horizon struct {
	Name            string  `json:"name"`
	UpperBarrierPct float64 `json:"upper_barrier_pct"`
	LowerBarrierPct float64 `json:"lower_barrier_pct"`
	MaxHoldingBars  int     `json:"max_holding_bars"`
}

var (
	HorizonScalping  = Horizon{Name: "SCALPING", UpperBarrierPct: 0.01, LowerBarrierPct: -0.005, MaxHoldingBars: 12}
	HorizonSwing     = Horizon{Name: "SWING", UpperBarrierPct: 0.05, LowerBarrierPct: -0.03, MaxHoldingBars: 20}
	HorizonInvesting = Horizon{Name: "INVESTING", UpperBarrierPct: 0.20, LowerBarrierPct: -0.10, MaxHoldingBars: 252}
)

// HorizonByName resolves a preset horizon, defaulting to SWING.
func HorizonByName(name string) Horizon {
	switch name {
	case HorizonScalping.Name:
		return HorizonScalping
	case HorizonInvesting.Name:
		return HorizonInvesting
	default:
		return HorizonSwing
	}
}
