package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-signals/internal/dto"
	"stock-signals/internal/model"
)

type fakeSignalRepo struct {
	records []dto.SignalRecord
	err     error
}

func (f *fakeSignalRepo) SaveDecision(ctx context.Context, stockID uint, decision *dto.SignalDecision) (*model.Signal, error) {
	return nil, nil
}

func (f *fakeSignalRepo) GetLatest(ctx context.Context, symbol string) (*model.Signal, error) {
	return nil, nil
}

func (f *fakeSignalRepo) GetSignalHistory(ctx context.Context, symbol string, start, end time.Time) ([]dto.SignalRecord, error) {
	return f.records, f.err
}

func (f *fakeSignalRepo) DeleteOlderThan(ctx context.Context, date time.Time) (int64, error) {
	return 0, nil
}

type fakePriceRepo struct {
	series dto.PriceSeries
	err    error
}

func (f *fakePriceRepo) GetPriceRange(ctx context.Context, symbol string, start, end time.Time) (dto.PriceSeries, error) {
	return f.series, f.err
}

func (f *fakePriceRepo) GetLatest(ctx context.Context, symbol string, limit int) (dto.PriceSeries, error) {
	return f.series, f.err
}

func (f *fakePriceRepo) UpsertBulk(ctx context.Context, prices []model.StockPrice) error {
	return nil
}

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func signalAt(n int, signalType dto.SignalType, confidence float64) dto.SignalRecord {
	return dto.SignalRecord{SignalType: signalType, ConfidenceScore: confidence, CreatedAt: day(n)}
}

func backtestWindow() dto.BacktestRequest {
	return dto.BacktestRequest{Symbol: "AAPL", StartDate: day(0), EndDate: day(10)}
}

func TestRunBacktestNoSignals(t *testing.T) {
	svc := NewBacktestService(newTestLogger(t), &fakeSignalRepo{}, &fakePriceRepo{})

	report, err := svc.RunBacktest(context.Background(), backtestWindow())
	require.NoError(t, err)
	assert.Equal(t, "No signals found in date range", report.Error)
	assert.Zero(t, report.TotalTrades)
}

func TestRunBacktestInsufficientPrices(t *testing.T) {
	signals := &fakeSignalRepo{records: []dto.SignalRecord{signalAt(1, dto.SignalBuy, 70)}}
	prices := &fakePriceRepo{series: barSeries(100)}
	svc := NewBacktestService(newTestLogger(t), signals, prices)

	report, err := svc.RunBacktest(context.Background(), backtestWindow())
	require.NoError(t, err)
	assert.Equal(t, "Insufficient price data for backtest", report.Error)
	assert.Equal(t, 1, report.TotalSignals)
}

func TestRunBacktestHoldOnlyProducesNoTrades(t *testing.T) {
	signals := &fakeSignalRepo{records: []dto.SignalRecord{
		signalAt(1, dto.SignalHold, 55),
		signalAt(2, dto.SignalHold, 52),
	}}
	prices := &fakePriceRepo{series: barSeries(100, 101, 102, 103)}
	svc := NewBacktestService(newTestLogger(t), signals, prices)

	report, err := svc.RunBacktest(context.Background(), backtestWindow())
	require.NoError(t, err)
	assert.Equal(t, "No trades executed", report.Error)
}

func TestRunBacktestBuySellRoundTrip(t *testing.T) {
	signals := &fakeSignalRepo{records: []dto.SignalRecord{
		signalAt(0, dto.SignalBuy, 75),
		signalAt(2, dto.SignalSell, 68),
	}}
	// Bars on days 0..3 at 100, 105, 110, 120.
	prices := &fakePriceRepo{series: barSeries(100, 105, 110, 120)}
	svc := NewBacktestService(newTestLogger(t), signals, prices)

	report, err := svc.RunBacktest(context.Background(), backtestWindow())
	require.NoError(t, err)
	require.Empty(t, report.Error)

	// Long 100 -> 110 closed by the SELL, then the short opened at 110 is
	// force-closed at 120.
	require.Equal(t, 2, report.TotalTrades)
	assert.Equal(t, dto.TradeBuyClose, report.Trades[0].Type)
	assert.InDelta(t, 10.0, report.Trades[0].PnlPercent, 1e-9)
	require.NotNil(t, report.Trades[0].SignalConfidence)
	assert.Equal(t, 68.0, *report.Trades[0].SignalConfidence)

	assert.Equal(t, dto.TradeSellClose, report.Trades[1].Type)
	assert.InDelta(t, -9.090909090909092, report.Trades[1].PnlPercent, 1e-6)

	assert.Equal(t, 1, report.WinningTrades)
	assert.Equal(t, 1, report.LosingTrades)
	assert.InDelta(t, 50.0, report.WinRate, 1e-9)
	assert.InDelta(t, 0.91, report.TotalReturnPercent, 1e-9)
}

func TestRunBacktestForceClosesOpenLong(t *testing.T) {
	signals := &fakeSignalRepo{records: []dto.SignalRecord{signalAt(0, dto.SignalBuy, 80)}}
	prices := &fakePriceRepo{series: barSeries(100, 102, 104, 108)}
	svc := NewBacktestService(newTestLogger(t), signals, prices)

	report, err := svc.RunBacktest(context.Background(), backtestWindow())
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalTrades)

	trade := report.Trades[0]
	assert.Equal(t, dto.TradeBuyClose, trade.Type)
	assert.InDelta(t, 8.0, trade.PnlPercent, 1e-9)
	// Force-closed trades carry no closing signal confidence.
	assert.Nil(t, trade.SignalConfidence)
}

func TestMaxDrawdownOfPnls(t *testing.T) {
	tests := []struct {
		name string
		pnls []float64
		want float64
	}{
		{name: "monotonic gains have no drawdown", pnls: []float64{1, 2, 3}, want: 0},
		{name: "dip below peak", pnls: []float64{10, -22}, want: -20},
		{name: "loss from flat start", pnls: []float64{0, -10}, want: -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, maxDrawdownOfPnls(tt.pnls), 1e-9)
		})
	}
}

func TestCompareToBenchmark(t *testing.T) {
	signals := &fakeSignalRepo{records: []dto.SignalRecord{signalAt(0, dto.SignalBuy, 80)}}
	prices := &fakePriceRepo{series: barSeries(100, 102, 104, 108)}
	svc := NewBacktestService(newTestLogger(t), signals, prices)

	comparison, err := svc.CompareToBenchmark(context.Background(), backtestWindow(), 5.0)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, comparison.OutperformancePercent, 1e-9)
	assert.True(t, comparison.BeatBenchmark)

	comparison, err = svc.CompareToBenchmark(context.Background(), backtestWindow(), 12.0)
	require.NoError(t, err)
	assert.False(t, comparison.BeatBenchmark)
}

func TestPriceOnOrNearest(t *testing.T) {
	prices := barSeries(100, 110, 120)

	t.Run("exact calendar date", func(t *testing.T) {
		price, ok := priceOnOrNearest(prices, day(1).Add(15*time.Hour))
		require.True(t, ok)
		assert.Equal(t, 110.0, price)
	})

	t.Run("nearest bar fallback", func(t *testing.T) {
		price, ok := priceOnOrNearest(prices, day(7))
		require.True(t, ok)
		assert.Equal(t, 120.0, price)
	})

	t.Run("empty series", func(t *testing.T) {
		_, ok := priceOnOrNearest(nil, day(0))
		assert.False(t, ok)
	})
}
