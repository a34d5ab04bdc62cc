package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-signals/internal/dto"
	"stock-signals/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func TestCalculatePositionSize(t *testing.T) {
	svc := NewRiskManagerService(newTestLogger(t))

	tests := []struct {
		name          string
		accountValue  float64
		entryPrice    float64
		stopLossPrice float64
		riskPerTrade  float64
		wantQuantity  float64
		wantErr       bool
	}{
		{
			name:          "basic long sizing",
			accountValue:  100000,
			entryPrice:    100,
			stopLossPrice: 95,
			riskPerTrade:  0.02,
			// risk 2000 over 5 per share gives 400, capped at 10% of
			// account (10000 / 100 = 100 shares).
			wantQuantity: 100,
		},
		{
			name:          "wide stop is not capped",
			accountValue:  100000,
			entryPrice:    100,
			stopLossPrice: 50,
			riskPerTrade:  0.02,
			wantQuantity:  40,
		},
		{
			name:          "defaults applied when zero",
			accountValue:  50000,
			entryPrice:    200,
			stopLossPrice: 100,
			wantQuantity:  10,
		},
		{
			name:          "zero account rejected",
			accountValue:  0,
			entryPrice:    100,
			stopLossPrice: 95,
			wantErr:       true,
		},
		{
			name:          "stop equal to entry rejected",
			accountValue:  100000,
			entryPrice:    100,
			stopLossPrice: 100,
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CalculatePositionSize(tt.accountValue, tt.entryPrice, tt.stopLossPrice, tt.riskPerTrade, 0, 0)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantQuantity, got.Quantity, 1e-9)
			assert.Equal(t, tt.stopLossPrice, got.StopLossPrice)
			assert.Equal(t, DefaultRiskRewardRatio, got.RiskRewardRatio)
		})
	}
}

func TestCalculatePositionSizeTakeProfit(t *testing.T) {
	svc := NewRiskManagerService(newTestLogger(t))

	got, err := svc.CalculatePositionSize(100000, 100, 95, 0.02, 2.0, 0.10)
	require.NoError(t, err)

	// Long position: target sits riskRewardRatio stop-distances above entry.
	assert.InDelta(t, 110.0, got.TakeProfitPrice, 1e-9)
	assert.InDelta(t, 5.0, got.MaxLossPercent, 1e-9)
	assert.InDelta(t, 10.0, got.TargetProfitPercent, 1e-9)
}

func TestCalculateStopLoss(t *testing.T) {
	svc := NewRiskManagerService(newTestLogger(t))

	tests := []struct {
		name       string
		entryPrice float64
		volatility float64
		tolerance  dto.RiskTolerance
		want       float64
	}{
		{
			name:       "moderate tolerance",
			entryPrice: 100,
			volatility: 0.02,
			tolerance:  dto.RiskModerate,
			want:       92, // 100 - 100*0.02*2.0*2.0
		},
		{
			name:       "conservative stops tighter",
			entryPrice: 100,
			volatility: 0.02,
			tolerance:  dto.RiskConservative,
			want:       94,
		},
		{
			name:       "aggressive stops wider",
			entryPrice: 100,
			volatility: 0.02,
			tolerance:  dto.RiskAggressive,
			want:       88,
		},
		{
			name:       "floored at 20 percent below entry",
			entryPrice: 100,
			volatility: 0.50,
			tolerance:  dto.RiskAggressive,
			want:       80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.CalculateStopLoss(tt.entryPrice, tt.volatility, tt.tolerance)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalculateTakeProfit(t *testing.T) {
	svc := NewRiskManagerService(newTestLogger(t))

	assert.InDelta(t, 110.0, svc.CalculateTakeProfit(100, 95, 2.0), 1e-9)
	// Short position: target below entry.
	assert.InDelta(t, 90.0, svc.CalculateTakeProfit(100, 105, 2.0), 1e-9)
}

func TestValidatePositionRisk(t *testing.T) {
	svc := NewRiskManagerService(newTestLogger(t))

	t.Run("within limit", func(t *testing.T) {
		check := svc.ValidatePositionRisk(100000, 5000, 0.10)
		assert.True(t, check.IsValid)
		assert.InDelta(t, 5.0, check.PositionPercent, 1e-9)
		assert.Empty(t, check.Warnings)
	})

	t.Run("oversized position warns", func(t *testing.T) {
		check := svc.ValidatePositionRisk(100000, 25000, 0.10)
		assert.False(t, check.IsValid)
		assert.InDelta(t, 25.0, check.PositionPercent, 1e-9)
		assert.Len(t, check.Warnings, 2)
	})

	t.Run("default limit when zero", func(t *testing.T) {
		check := svc.ValidatePositionRisk(100000, 15000, 0)
		assert.False(t, check.IsValid)
	})
}
