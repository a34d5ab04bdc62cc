package dto

// ChartResponse mirrors the chart API payload for daily OHLCV bars.
type ChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// QuoteSummaryResponse carries the fundamental metrics block of the quote
// summary endpoint. All raw values are optional.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE    rawValue `json:"trailingPE"`
				DividendYield rawValue `json:"dividendYield"`
				DividendRate  rawValue `json:"dividendRate"`
				PayoutRatio   rawValue `json:"payoutRatio"`
			} `json:"summaryDetail"`
			FinancialData struct {
				TotalRevenue     rawValue `json:"totalRevenue"`
				DebtToEquity     rawValue `json:"debtToEquity"`
				EarningsGrowth   rawValue `json:"earningsGrowth"`
				EarningsPerShare rawValue `json:"trailingEps"`
			} `json:"financialData"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteSummary"`
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

// Value returns the raw number or nil when the provider omitted it.
func (r rawValue) Value() *float64 {
	return r.Raw
}
