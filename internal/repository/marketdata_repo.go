package repository

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"stock-signals/config"
	"stock-signals/internal/dto"
	"stock-signals/pkg/httpclient"
	"stock-signals/pkg/logger"
)

type MarketDataRepository interface {
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time) (dto.PriceSeries, error)
	GetFundamentals(ctx context.Context, symbol string) (dto.FundamentalSnapshot, error)
}

// marketDataRepository fetches OHLCV bars and fundamental metrics from the
// chart provider. A shared rate limiter keeps scheduled refreshes from
// getting the IP throttled.
type marketDataRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	mu             sync.Mutex
}

func NewMarketDataRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &marketDataRepository{
		httpClient:     httpclient.New(log, cfg.MarketData.BaseURL, cfg.MarketData.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		mu:             sync.Mutex{},
	}
}

func (r *marketDataRepository) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) (dto.PriceSeries, error) {
	if err := r.waitForSlot(ctx); err != nil {
		return nil, err
	}

	endpoint := "/v8/finance/chart/" + symbol
	queryParams := map[string]string{
		"period1":        fmt.Sprintf("%d", start.Unix()),
		"period2":        fmt.Sprintf("%d", end.Unix()),
		"interval":       "1d",
		"includePrePost": "false",
		"events":         "div,split",
	}

	var chartResp dto.ChartResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, r.defaultHeaders(), &chartResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Chart API returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("chart api returned status: %d", resp.StatusCode)
	}

	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error: %v", chartResp.Chart.Error)
	}

	if len(chartResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data returned for symbol: %s", symbol)
	}

	result := chartResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data available for symbol: %s", symbol)
	}

	quote := result.Indicators.Quote[0]

	var series dto.PriceSeries
	for i, timestamp := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			continue
		}

		// Zero close means a missing bar in this feed.
		if quote.Close[i] == 0 {
			continue
		}

		series = append(series, dto.PriceBar{
			Time:   time.Unix(timestamp, 0).UTC(),
			Open:   quote.Open[i],
			High:   quote.High[i],
			Low:    quote.Low[i],
			Close:  quote.Close[i],
			Volume: quote.Volume[i],
		})
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no valid OHLCV data found for symbol: %s", symbol)
	}

	series.SortAscending()
	return series, nil
}

func (r *marketDataRepository) GetFundamentals(ctx context.Context, symbol string) (dto.FundamentalSnapshot, error) {
	if err := r.waitForSlot(ctx); err != nil {
		return dto.FundamentalSnapshot{}, err
	}

	endpoint := "/v10/finance/quoteSummary/" + symbol
	queryParams := map[string]string{
		"modules": "summaryDetail,financialData",
	}

	var summaryResp dto.QuoteSummaryResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, r.defaultHeaders(), &summaryResp)
	if err != nil {
		return dto.FundamentalSnapshot{}, fmt.Errorf("failed to fetch fundamentals: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Quote summary API returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", symbol))
		return dto.FundamentalSnapshot{}, fmt.Errorf("quote summary api returned status: %d", resp.StatusCode)
	}

	if summaryResp.QuoteSummary.Error != nil {
		return dto.FundamentalSnapshot{}, fmt.Errorf("quote summary api error: %v", summaryResp.QuoteSummary.Error)
	}

	if len(summaryResp.QuoteSummary.Result) == 0 {
		// Not every instrument reports fundamentals; scoring handles nil.
		return dto.FundamentalSnapshot{}, nil
	}

	result := summaryResp.QuoteSummary.Result[0]
	snapshot := dto.FundamentalSnapshot{
		Revenue:             result.FinancialData.TotalRevenue.Value(),
		EPS:                 result.FinancialData.EarningsPerShare.Value(),
		PERatio:             result.SummaryDetail.TrailingPE.Value(),
		DebtRatio:           result.FinancialData.DebtToEquity.Value(),
		DividendPerShare:    result.SummaryDetail.DividendRate.Value(),
	}

	// Provider reports yield, growth and payout as fractions.
	if v := result.SummaryDetail.DividendYield.Value(); v != nil {
		yield := *v * 100
		snapshot.DividendYield = &yield
	}
	if v := result.FinancialData.EarningsGrowth.Value(); v != nil {
		growth := *v * 100
		snapshot.EarningsGrowth = &growth
	}
	if v := result.SummaryDetail.PayoutRatio.Value(); v != nil {
		payout := *v * 100
		snapshot.DividendPayoutRatio = &payout
	}

	return snapshot, nil
}

func (r *marketDataRepository) waitForSlot(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.requestLimiter.Allow() {
		r.logger.WarnContext(ctx, "Market data API request limit reached, waiting",
			logger.IntField("max_request_per_minute", r.cfg.MarketData.MaxRequestPerMinute),
		)
	}
	return r.requestLimiter.Wait(ctx)
}

func (r *marketDataRepository) defaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
	}
}
