package dto

// AlphaFeatures are benchmark-relative metrics over aligned return series.
// When no benchmark is supplied the betas and correlations fall back to
// their neutral defaults instead of being omitted.
type AlphaFeatures struct {
	Beta              float64  `json:"beta"`
	Alpha5D           float64  `json:"alpha_5d"`
	Alpha5DVol        float64  `json:"alpha_5d_volatility"`
	Alpha20D          float64  `json:"alpha_20d"`
	Alpha20DVol       float64  `json:"alpha_20d_volatility"`
	AlphaSharpe       float64  `json:"alpha_sharpe"`
	MarketCorrelation float64  `json:"market_correlation"`
	RelativeStrength  float64  `json:"relative_strength"`
	PEVsSector        *float64 `json:"pe_vs_sector,omitempty"`
	PEVsSectorPct     *float64 `json:"pe_vs_sector_pct,omitempty"`
	VolatilityRatio   *float64 `json:"volatility_ratio,omitempty"`
}
