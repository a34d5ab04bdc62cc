package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-signals/internal/dto"
)

func seq(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		period int
		want   float64
		ok     bool
	}{
		{
			name:   "exact window",
			values: []float64{1, 2, 3, 4},
			period: 4,
			want:   2.5,
			ok:     true,
		},
		{
			name:   "uses trailing window only",
			values: []float64{100, 1, 2, 3},
			period: 3,
			want:   2,
			ok:     true,
		},
		{
			name:   "insufficient data",
			values: []float64{1, 2},
			period: 3,
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SMA(tt.values, tt.period)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestEMA(t *testing.T) {
	// Seeded at the first value, alpha = 2/(period+1).
	got, ok := EMA([]float64{10, 11, 12}, 2)
	require.True(t, ok)
	// ema = 10 -> 10.6667 -> 11.5556
	assert.InDelta(t, 11.5556, got, 1e-3)

	_, ok = EMA([]float64{10}, 2)
	assert.False(t, ok)
}

func TestRSI(t *testing.T) {
	t.Run("all gains saturates at 100", func(t *testing.T) {
		got, ok := RSI(seq(15, 100, 1), 14)
		require.True(t, ok)
		assert.Equal(t, 100.0, got)
	})

	t.Run("all losses is 0", func(t *testing.T) {
		got, ok := RSI(seq(15, 100, -1), 14)
		require.True(t, ok)
		assert.InDelta(t, 0.0, got, 1e-9)
	})

	t.Run("balanced gains and losses is 50", func(t *testing.T) {
		values := []float64{100}
		for i := 0; i < 7; i++ {
			values = append(values, 101, 100)
		}
		got, ok := RSI(values, 14)
		require.True(t, ok)
		assert.InDelta(t, 50.0, got, 1e-9)
	})

	t.Run("needs period plus one closes", func(t *testing.T) {
		_, ok := RSI(seq(14, 100, 1), 14)
		assert.False(t, ok)
	})
}

func TestMACD(t *testing.T) {
	t.Run("constant series is zero everywhere", func(t *testing.T) {
		line, signal, hist, ok := MACD(seq(40, 100, 0), MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
		require.True(t, ok)
		assert.InDelta(t, 0.0, line, 1e-9)
		assert.InDelta(t, 0.0, signal, 1e-9)
		assert.InDelta(t, 0.0, hist, 1e-9)
	})

	t.Run("uptrend has positive macd line", func(t *testing.T) {
		line, _, _, ok := MACD(seq(60, 100, 1), MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
		require.True(t, ok)
		assert.Greater(t, line, 0.0)
	})

	t.Run("needs slow plus signal closes", func(t *testing.T) {
		_, _, _, ok := MACD(seq(34, 100, 1), MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
		assert.False(t, ok)
	})
}

func TestBollinger(t *testing.T) {
	t.Run("constant series collapses to middle", func(t *testing.T) {
		upper, middle, lower, ok := Bollinger(seq(20, 50, 0), BollingerPeriod, BollingerK)
		require.True(t, ok)
		assert.Equal(t, 50.0, middle)
		assert.Equal(t, upper, lower)
	})

	t.Run("bands bracket the middle", func(t *testing.T) {
		upper, middle, lower, ok := Bollinger(seq(25, 100, 2), BollingerPeriod, BollingerK)
		require.True(t, ok)
		assert.Greater(t, upper, middle)
		assert.Less(t, lower, middle)
	})

	t.Run("insufficient data", func(t *testing.T) {
		_, _, _, ok := Bollinger(seq(19, 100, 1), BollingerPeriod, BollingerK)
		assert.False(t, ok)
	})
}

func TestMaxDrawdown(t *testing.T) {
	t.Run("monotonic gains never draw down", func(t *testing.T) {
		assert.Equal(t, 0.0, MaxDrawdown([]float64{0.01, 0.02, 0.01}))
	})

	t.Run("single drop", func(t *testing.T) {
		got := MaxDrawdown([]float64{0.10, -0.50, 0.20})
		assert.InDelta(t, -50.0, got, 1e-9)
	})

	t.Run("empty series", func(t *testing.T) {
		assert.Equal(t, 0.0, MaxDrawdown(nil))
	})
}

func TestSnapshot(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("short window leaves long indicators nil", func(t *testing.T) {
		prices := make(dto.PriceSeries, 30)
		for i := range prices {
			prices[i] = dto.PriceBar{
				Time:   base.AddDate(0, 0, i),
				Close:  100 + float64(i),
				Volume: 1000,
			}
		}
		snap := Snapshot(prices)
		require.NotNil(t, snap.RSI)
		require.NotNil(t, snap.SMA20)
		assert.Nil(t, snap.SMA50)
		assert.Nil(t, snap.SMA200)
		assert.Nil(t, snap.MACD)
		require.NotNil(t, snap.CurrentVolume)
		assert.Equal(t, 1000.0, *snap.CurrentVolume)
	})

	t.Run("empty series is entirely nil", func(t *testing.T) {
		snap := Snapshot(nil)
		assert.True(t, snap.IsEmpty())
	})

	t.Run("long window fills everything", func(t *testing.T) {
		prices := make(dto.PriceSeries, 250)
		for i := range prices {
			prices[i] = dto.PriceBar{
				Time:   base.AddDate(0, 0, i),
				Close:  100 + float64(i%7),
				Volume: 1000 + float64(i),
			}
		}
		snap := Snapshot(prices)
		assert.NotNil(t, snap.SMA200)
		assert.NotNil(t, snap.MACD)
		assert.NotNil(t, snap.MACDSignal)
		assert.NotNil(t, snap.BollingerUpper)
		assert.NotNil(t, snap.VolumeAvg)
	})
}
