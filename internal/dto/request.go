package dto

import "time"

type AnalyzeRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	UseML  bool   `json:"use_ml"`
}

type BenchmarkBacktestRequest struct {
	BacktestRequest
	BenchmarkReturnPercent float64 `json:"benchmark_return_percent"`
}

type LabelRequest struct {
	Symbol    string    `json:"symbol" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Horizon   string    `json:"horizon" validate:"omitempty,oneof=SCALPING SWING INVESTING"`
}

type ScaleRequest struct {
	Values     []float64 `json:"values" validate:"required,min=2"`
	Method     string    `json:"method" validate:"required,oneof=rolling expanding"`
	ScalerType string    `json:"scaler_type" validate:"required,oneof=standard minmax"`
	WindowSize int       `json:"window_size" validate:"omitempty,gt=0"`
	MinPeriods int       `json:"min_periods" validate:"omitempty,gt=0"`
}

type AlphaFeatureRequest struct {
	Symbol          string    `json:"symbol" validate:"required"`
	BenchmarkSymbol string    `json:"benchmark_symbol" validate:"required"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	SectorPE        *float64  `json:"sector_pe,omitempty"`
}
