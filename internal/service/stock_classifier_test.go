package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stock-signals/internal/dto"
	"stock-signals/pkg/utils"
)

func TestClassify(t *testing.T) {
	svc := NewStockClassifierService()

	tests := []struct {
		name string
		f    dto.FundamentalSnapshot
		want dto.StockType
	}{
		{
			name: "high yield high payout is dividend",
			f: dto.FundamentalSnapshot{
				DividendYield:       utils.ToPointer(4.0),
				DividendPayoutRatio: utils.ToPointer(70.0),
				EarningsGrowth:      utils.ToPointer(2.0),
			},
			want: dto.StockTypeDividend,
		},
		{
			name: "strong growth no dividend is growth",
			f: dto.FundamentalSnapshot{
				EarningsGrowth: utils.ToPointer(25.0),
				PERatio:        utils.ToPointer(40.0),
			},
			want: dto.StockTypeGrowth,
		},
		{
			name: "moderate yield and growth is hybrid",
			f: dto.FundamentalSnapshot{
				DividendYield:  utils.ToPointer(2.0),
				EarningsGrowth: utils.ToPointer(12.0),
				PERatio:        utils.ToPointer(18.0),
			},
			want: dto.StockTypeHybrid,
		},
		{
			name: "modest yield only falls back to dividend",
			f: dto.FundamentalSnapshot{
				DividendYield: utils.ToPointer(1.5),
			},
			want: dto.StockTypeDividend,
		},
		{
			name: "no metrics at all is hybrid",
			f:    dto.FundamentalSnapshot{},
			want: dto.StockTypeHybrid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Classify(tt.f))
		})
	}
}

func TestRecommend(t *testing.T) {
	svc := NewStockClassifierService()

	t.Run("growth buy", func(t *testing.T) {
		rec := svc.Recommend(dto.StockTypeGrowth, dto.SignalBuy)
		assert.Contains(t, rec.BestFor, "Growth investors")
		assert.Equal(t, "Consider adding to growth portfolio", rec.Action)
	})

	t.Run("dividend hold", func(t *testing.T) {
		rec := svc.Recommend(dto.StockTypeDividend, dto.SignalHold)
		assert.Equal(t, "Focus on regular dividend income", rec.Strategy)
		assert.Equal(t, "Maintain position if aligned with investment goals", rec.Action)
	})

	t.Run("hybrid sell", func(t *testing.T) {
		rec := svc.Recommend(dto.StockTypeHybrid, dto.SignalSell)
		assert.Equal(t, "Consider reducing position or taking profits", rec.Action)
	})

	t.Run("no signal waits", func(t *testing.T) {
		rec := svc.Recommend(dto.StockTypeHybrid, dto.SignalNoSignal)
		assert.Equal(t, "Wait for clearer signals", rec.Action)
	})
}
