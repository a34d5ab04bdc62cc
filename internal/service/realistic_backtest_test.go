package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-signals/internal/dto"
)

func TestTransactionCosts(t *testing.T) {
	costs := transactionCosts(100, 10, true, nil)

	// 1000 of trade value: 0.1% commission, 5bps spread, 10bps slippage.
	assert.InDelta(t, 1.0, costs.Commission, 1e-9)
	assert.InDelta(t, 0.5, costs.SpreadCost, 1e-9)
	assert.InDelta(t, 1.0, costs.SlippageCost, 1e-9)
	assert.Zero(t, costs.MarketImpactCost)
	assert.InDelta(t, 2.5, costs.TotalCost, 1e-9)
	assert.InDelta(t, 0.25, costs.CostPercent, 1e-9)
}

func TestTransactionCostsLimitOrder(t *testing.T) {
	costs := transactionCosts(100, 10, false, nil)
	assert.InDelta(t, 0.2, costs.SlippageCost, 1e-9)
}

func TestTransactionCostsMarketImpact(t *testing.T) {
	t.Run("small order has no impact", func(t *testing.T) {
		dailyVolume := 10000.0
		costs := transactionCosts(100, 50, true, &dailyVolume)
		assert.Zero(t, costs.MarketImpactCost)
	})

	t.Run("oversized order pays impact", func(t *testing.T) {
		dailyVolume := 10000.0
		// 500 shares is 5% of volume: 2.5bps of impact on 50000.
		costs := transactionCosts(100, 500, true, &dailyVolume)
		assert.InDelta(t, 12.5, costs.MarketImpactCost, 1e-9)
	})
}

func TestExecutionPrice(t *testing.T) {
	prices := barSeries(100, 105, 110)

	t.Run("first bar at or after delayed fill", func(t *testing.T) {
		got := executionPrice(prices, day(0).Add(-time.Hour), 99)
		assert.Equal(t, 100.0, got)
	})

	t.Run("falls back to first bar after signal", func(t *testing.T) {
		// Delay pushes past every bar; the first bar strictly after the
		// signal fills instead.
		got := executionPrice(prices, day(2).Add(23*time.Hour+59*time.Minute+45*time.Second), 99)
		assert.Equal(t, 99.0, got)

		got = executionPrice(prices, day(1).Add(23*time.Hour+59*time.Minute+45*time.Second), 99)
		assert.Equal(t, 110.0, got)
	})

	t.Run("intended price when nothing qualifies", func(t *testing.T) {
		got := executionPrice(nil, day(0), 42)
		assert.Equal(t, 42.0, got)
	})
}

func TestVolumeOnDate(t *testing.T) {
	prices := barSeries(100, 105)

	vol := volumeOnDate(prices, day(1).Add(10*time.Hour))
	require.NotNil(t, vol)
	assert.Equal(t, 1000.0, *vol)

	assert.Nil(t, volumeOnDate(prices, day(9)))
}

func TestRealisticBacktestPropagatesNaiveError(t *testing.T) {
	log := newTestLogger(t)
	backtest := NewBacktestService(log, &fakeSignalRepo{}, &fakePriceRepo{})
	svc := NewRealisticBacktestService(log, backtest, NewRiskManagerService(log), &fakePriceRepo{}, 0)

	report, err := svc.RunBacktest(context.Background(), dto.RealisticBacktestRequest{BacktestRequest: backtestWindow()})
	require.NoError(t, err)
	assert.Equal(t, "No signals found in date range", report.Error)
	assert.Empty(t, report.RealisticTrades)
}

func TestRealisticBacktestAppliesCosts(t *testing.T) {
	log := newTestLogger(t)
	signals := &fakeSignalRepo{records: []dto.SignalRecord{
		signalAt(0, dto.SignalBuy, 75),
		signalAt(3, dto.SignalSell, 70),
	}}
	prices := &fakePriceRepo{series: barSeries(100, 104, 108, 112)}

	backtest := NewBacktestService(log, signals, prices)
	svc := NewRealisticBacktestService(log, backtest, NewRiskManagerService(log), prices, 0.03)

	report, err := svc.RunBacktest(context.Background(), dto.RealisticBacktestRequest{
		BacktestRequest: backtestWindow(),
	})
	require.NoError(t, err)
	require.Empty(t, report.Error)
	require.NotEmpty(t, report.RealisticTrades)

	// Costs always drag the realistic result below the naive one.
	assert.Less(t, report.RealisticTotalReturnPct, report.NaiveTotalReturnPct)
	assert.Greater(t, report.CostImpactPct, 0.0)

	for _, trade := range report.RealisticTrades {
		assert.Greater(t, trade.Quantity, 0.0)
		assert.Less(t, trade.Realistic.NetPnl, trade.Realistic.GrossPnl)
	}

	// Defaults applied: account starts at the standard size and compounds.
	last := report.RealisticTrades[len(report.RealisticTrades)-1]
	assert.InDelta(t, DefaultStartingAccount+totalNetPnl(report.RealisticTrades), last.AccountValueAfter, 1e-6)
}

func totalNetPnl(trades []dto.RealisticTrade) float64 {
	total := 0.0
	for _, trade := range trades {
		total += trade.Realistic.NetPnl
	}
	return total
}
