package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-signals/internal/dto"
	"stock-signals/pkg/utils"
)

func TestInvestmentGenerateNoSignalOnEmptyPrices(t *testing.T) {
	svc := NewInvestmentSignalService(newTestLogger(t))

	decision := svc.Generate(context.Background(), SignalInput{Symbol: "KO"})

	assert.Equal(t, dto.SignalNoSignal, decision.SignalType)
	assert.Equal(t, dto.HoldingMedium, decision.HoldingPeriod)
	assert.Equal(t, "Insufficient data to generate investment signal", decision.Explanation.Summary)
}

func TestInvestmentGenerateBuysDividendPayer(t *testing.T) {
	svc := NewInvestmentSignalService(newTestLogger(t))

	input := SignalInput{
		Symbol: "KO",
		Prices: flatSeries(10, 100),
		Indicators: dto.IndicatorSnapshot{
			RSI: utils.ToPointer(30.0),
		},
		Fundamentals: dto.FundamentalSnapshot{
			PERatio:             utils.ToPointer(15.0),
			EarningsGrowth:      utils.ToPointer(25.0),
			DebtRatio:           utils.ToPointer(25.0),
			EPS:                 utils.ToPointer(3.0),
			DividendYield:       utils.ToPointer(4.0),
			DividendPayoutRatio: utils.ToPointer(50.0),
		},
	}

	decision := svc.Generate(context.Background(), input)

	// Fundamental 84, dividend 78, trend neutral, entry timing 60.
	assert.Equal(t, dto.SignalBuy, decision.SignalType)
	assert.InDelta(t, 75.0, decision.CompositeScore, 1e-9)
	assert.InDelta(t, 50.0, decision.ConfidenceScore, 1e-9)
	assert.Equal(t, dto.RiskLow, decision.RiskLevel)
	assert.Equal(t, dto.HoldingLong, decision.HoldingPeriod)
	assert.True(t, decision.IsDividendStock)

	require.NotNil(t, decision.DividendYield)
	assert.Equal(t, 4.0, *decision.DividendYield)

	guidance := decision.Explanation.InvestmentGuidance
	require.NotNil(t, guidance)
	assert.Equal(t, dto.EntryGood, guidance.WhenToBuy)
	assert.Equal(t, dto.HoldingLong, guidance.HowLongToHold)
}

func TestInvestmentGenerateHoldWithoutDividend(t *testing.T) {
	svc := NewInvestmentSignalService(newTestLogger(t))

	input := SignalInput{
		Symbol: "GOOG",
		Prices: flatSeries(10, 100),
		Fundamentals: dto.FundamentalSnapshot{
			PERatio: utils.ToPointer(15.0),
		},
	}

	decision := svc.Generate(context.Background(), input)

	assert.Equal(t, dto.SignalHold, decision.SignalType)
	assert.InDelta(t, 54.0, decision.CompositeScore, 1e-9)
	// Raw confidence 8, cut to 80% because no yield is known.
	assert.InDelta(t, 6.4, decision.ConfidenceScore, 1e-9)
	assert.Equal(t, dto.RiskMedium, decision.RiskLevel)
	assert.Equal(t, dto.HoldingMedium, decision.HoldingPeriod)
	assert.False(t, decision.IsDividendStock)
}

func TestDividendScore(t *testing.T) {
	tests := []struct {
		name string
		f    dto.FundamentalSnapshot
		want float64
	}{
		{
			name: "high sustainable yield",
			f: dto.FundamentalSnapshot{
				DividendYield:       utils.ToPointer(6.0),
				DividendPayoutRatio: utils.ToPointer(50.0),
				EarningsGrowth:      utils.ToPointer(12.0),
			},
			want: 83,
		},
		{
			name: "unsustainable payout over 100%",
			f:    dto.FundamentalSnapshot{DividendPayoutRatio: utils.ToPointer(110.0)},
			want: 35,
		},
		{
			name: "stretched payout over 90%",
			f:    dto.FundamentalSnapshot{DividendPayoutRatio: utils.ToPointer(95.0)},
			want: 40,
		},
		{
			name: "no dividend",
			f:    dto.FundamentalSnapshot{DividendYield: utils.ToPointer(0.0)},
			want: 45,
		},
		{name: "no data stays neutral", want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, dividendScore(tt.f).Score, 1e-9)
		})
	}
}

func TestEntryTimingScore(t *testing.T) {
	t.Run("oversold pullback is a good entry", func(t *testing.T) {
		ind := dto.IndicatorSnapshot{
			RSI:    utils.ToPointer(30.0),
			SMA50:  utils.ToPointer(90.0),
			SMA200: utils.ToPointer(100.0),
		}
		factor, timing := entryTimingScore(ind, 80)
		assert.InDelta(t, 73.0, factor.Score, 1e-9)
		assert.Equal(t, dto.EntryGood, timing)
	})

	t.Run("overbought and extended means wait", func(t *testing.T) {
		ind := dto.IndicatorSnapshot{
			RSI:    utils.ToPointer(70.0),
			SMA200: utils.ToPointer(100.0),
		}
		factor, timing := entryTimingScore(ind, 115)
		assert.InDelta(t, 40.0, factor.Score, 1e-9)
		assert.Equal(t, dto.EntryWait, timing)
	})

	t.Run("no indicators is fair", func(t *testing.T) {
		factor, timing := entryTimingScore(dto.IndicatorSnapshot{}, 100)
		assert.InDelta(t, 50.0, factor.Score, 1e-9)
		assert.Equal(t, dto.EntryFair, timing)
	})
}
