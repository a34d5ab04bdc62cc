package dto

// FundamentalSnapshot holds the latest-known fundamental metrics for an
// instrument. Every field is optional; nil means the provider had no value,
// and scoring treats it as neutral rather than bearish.
type FundamentalSnapshot struct {
	Revenue             *float64 `json:"revenue,omitempty"`
	EPS                 *float64 `json:"eps,omitempty"`
	PERatio             *float64 `json:"pe_ratio,omitempty"`
	DebtRatio           *float64 `json:"debt_ratio,omitempty"`
	EarningsGrowth      *float64 `json:"earnings_growth,omitempty"`
	DividendYield       *float64 `json:"dividend_yield,omitempty"`
	DividendPerShare    *float64 `json:"dividend_per_share,omitempty"`
	DividendPayoutRatio *float64 `json:"dividend_payout_ratio,omitempty"`
}

// IsEmpty reports whether no metric at all is present, which triggers the
// missing-data confidence penalty.
func (f FundamentalSnapshot) IsEmpty() bool {
	return f.Revenue == nil && f.EPS == nil && f.PERatio == nil &&
		f.DebtRatio == nil && f.EarningsGrowth == nil &&
		f.DividendYield == nil && f.DividendPerShare == nil &&
		f.DividendPayoutRatio == nil
}
