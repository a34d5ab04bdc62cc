package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-signals/internal/contract"
	"stock-signals/internal/dto"
)

type fakeForecaster struct {
	forecast float64
	err      error
}

func (f *fakeForecaster) ForecastPrice(ctx context.Context, symbol string, closes []float64, steps int) (float64, error) {
	return f.forecast, f.err
}

type fakeClassifier struct {
	signal     dto.SignalType
	confidence float64
	err        error
}

func (f *fakeClassifier) ClassifySignal(ctx context.Context, symbol string, features contract.PriceFeatures) (dto.SignalType, float64, error) {
	return f.signal, f.confidence, f.err
}

func newMLService(t *testing.T) MLSignalService {
	log := newTestLogger(t)
	return NewMLSignalService(log, NewSignalGeneratorService(log))
}

// holdInput produces a pure-rule HOLD with composite 46, which the hybrid
// blend must move.
func holdInput() SignalInput {
	return SignalInput{Symbol: "AAPL", Prices: flatSeries(10, 100)}
}

func TestMLGenerateWithoutPredictors(t *testing.T) {
	svc := newMLService(t)

	decision := svc.Generate(context.Background(), holdInput(), contract.PredictorSet{})

	assert.Equal(t, dto.SignalHold, decision.SignalType)
	assert.InDelta(t, 46.0, decision.CompositeScore, 1e-9)
	assert.False(t, decision.MLUsed)
	assert.False(t, decision.Explanation.HybridApproach)
	assert.Nil(t, decision.Explanation.MLPrediction)
}

func TestMLGenerateBullishForecast(t *testing.T) {
	svc := newMLService(t)
	predictors := contract.PredictorSet{Forecaster: &fakeForecaster{forecast: 110}}

	decision := svc.Generate(context.Background(), holdInput(), predictors)

	// +10% forecast votes BUY at 70 confidence; blended with the rule
	// composite of 46 that lands at 60.4, just past the buy line.
	assert.Equal(t, dto.SignalBuy, decision.SignalType)
	assert.InDelta(t, 60.4, decision.CompositeScore, 1e-9)
	assert.InDelta(t, 20.8, decision.ConfidenceScore, 1e-9)
	assert.True(t, decision.MLUsed)
	assert.True(t, decision.Explanation.HybridApproach)

	prediction := decision.Explanation.MLPrediction
	require.NotNil(t, prediction)
	assert.Equal(t, "LSTM", prediction.Method)
	assert.Equal(t, dto.SignalBuy, prediction.Signal)
	assert.InDelta(t, 70.0, prediction.Confidence, 1e-9)
	require.NotNil(t, prediction.PriceForecast)
	assert.Equal(t, 110.0, *prediction.PriceForecast)
}

func TestMLGenerateFlatForecastStaysHold(t *testing.T) {
	svc := newMLService(t)
	predictors := contract.PredictorSet{Forecaster: &fakeForecaster{forecast: 102}}

	decision := svc.Generate(context.Background(), holdInput(), predictors)

	assert.Equal(t, dto.SignalHold, decision.SignalType)
	assert.InDelta(t, 48.4, decision.CompositeScore, 1e-9)
	assert.True(t, decision.MLUsed)
	assert.Equal(t, dto.SignalHold, decision.Explanation.MLPrediction.Signal)
}

func TestMLGenerateFallsBackToClassifier(t *testing.T) {
	svc := newMLService(t)
	predictors := contract.PredictorSet{
		Forecaster: &fakeForecaster{err: contract.ErrModelAbsent},
		Classifier: &fakeClassifier{signal: dto.SignalSell, confidence: 80},
	}

	decision := svc.Generate(context.Background(), holdInput(), predictors)

	// A SELL vote inverts the ML score: 100-80 blended with 46 gives 30.4.
	assert.Equal(t, dto.SignalSell, decision.SignalType)
	assert.InDelta(t, 30.4, decision.CompositeScore, 1e-9)
	assert.InDelta(t, 39.2, decision.ConfidenceScore, 1e-9)
	assert.Equal(t, "Classifier", decision.Explanation.MLPrediction.Method)
}

func TestMLGenerateClassifierAfterForecasterFailure(t *testing.T) {
	svc := newMLService(t)
	predictors := contract.PredictorSet{
		Forecaster: &fakeForecaster{err: errors.New("inference timeout")},
		Classifier: &fakeClassifier{signal: dto.SignalBuy, confidence: 70},
	}

	decision := svc.Generate(context.Background(), holdInput(), predictors)

	assert.True(t, decision.MLUsed)
	assert.Equal(t, "Classifier", decision.Explanation.MLPrediction.Method)
}

func TestMLGenerateAllModelsAbsent(t *testing.T) {
	svc := newMLService(t)
	predictors := contract.PredictorSet{
		Forecaster: &fakeForecaster{err: contract.ErrModelAbsent},
		Classifier: &fakeClassifier{err: contract.ErrModelAbsent},
	}

	decision := svc.Generate(context.Background(), holdInput(), predictors)

	assert.Equal(t, dto.SignalHold, decision.SignalType)
	assert.False(t, decision.MLUsed)
	assert.False(t, decision.Explanation.HybridApproach)
}

func TestMLGenerateEmptyPricesSkipsModels(t *testing.T) {
	svc := newMLService(t)
	predictors := contract.PredictorSet{Forecaster: &fakeForecaster{forecast: 110}}

	decision := svc.Generate(context.Background(), SignalInput{Symbol: "AAPL"}, predictors)

	assert.Equal(t, dto.SignalNoSignal, decision.SignalType)
	assert.False(t, decision.MLUsed)
}

func TestForecastPrediction(t *testing.T) {
	t.Run("large move caps confidence", func(t *testing.T) {
		prediction := forecastPrediction(150, 100)
		assert.Equal(t, dto.SignalBuy, prediction.Signal)
		assert.InDelta(t, 85.0, prediction.Confidence, 1e-9)
	})

	t.Run("downside move", func(t *testing.T) {
		prediction := forecastPrediction(96, 100)
		assert.Equal(t, dto.SignalSell, prediction.Signal)
		assert.InDelta(t, 58.0, prediction.Confidence, 1e-9)
	})

	t.Run("exactly three percent is noise", func(t *testing.T) {
		prediction := forecastPrediction(103, 100)
		assert.Equal(t, dto.SignalHold, prediction.Signal)
		assert.InDelta(t, 60.0, prediction.Confidence, 1e-9)
	})

	t.Run("nil on zero price", func(t *testing.T) {
		assert.Nil(t, forecastPrediction(110, 0))
	})
}
