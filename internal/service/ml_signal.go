package service

import (
	"context"

	"stock-signals/internal/contract"
	"stock-signals/internal/dto"
	"stock-signals/pkg/logger"
	"stock-signals/pkg/utils"
)

const (
	forecastSteps = 5

	hybridMLWeight   = 0.6
	hybridRuleWeight = 0.4
)

// MLSignalService layers trained models on top of the rule-based signal:
// a price forecaster first, a classifier second, and the plain rule result
// when neither produces a usable prediction. The PredictorSet is owned by
// the caller so concurrent callers never share model state.
type MLSignalService interface {
	Generate(ctx context.Context, input SignalInput, predictors contract.PredictorSet) dto.SignalDecision
}

type mlSignalService struct {
	log           *logger.Logger
	ruleGenerator SignalGeneratorService
}

func NewMLSignalService(log *logger.Logger, ruleGenerator SignalGeneratorService) MLSignalService {
	return &mlSignalService{log: log, ruleGenerator: ruleGenerator}
}

func (s *mlSignalService) Generate(ctx context.Context, input SignalInput, predictors contract.PredictorSet) dto.SignalDecision {
	ruleDecision := s.ruleGenerator.Generate(ctx, input)
	if len(input.Prices) == 0 {
		return ruleDecision
	}

	prediction := s.predict(ctx, input, predictors)
	if prediction == nil {
		ruleDecision.Explanation.HybridApproach = false
		return ruleDecision
	}

	// ML votes with 60% weight against the rule composite's 40%.
	var mlScore float64
	switch prediction.Signal {
	case dto.SignalBuy:
		mlScore = prediction.Confidence
	case dto.SignalSell:
		mlScore = 100 - prediction.Confidence
	default:
		mlScore = 50
	}

	hybridScore := mlScore*hybridMLWeight + ruleDecision.CompositeScore*hybridRuleWeight
	finalSignal := signalFromComposite(hybridScore)

	finalConfidence := abs(hybridScore-50) * 2
	if finalConfidence > 100 {
		finalConfidence = 100
	}

	decision := ruleDecision
	decision.SignalType = finalSignal
	decision.ConfidenceScore = utils.Round2(finalConfidence)
	decision.CompositeScore = utils.Round2(hybridScore)
	decision.MLUsed = true
	decision.Explanation.MLPrediction = prediction
	decision.Explanation.HybridApproach = true
	return decision
}

// predict runs the forecaster, then the classifier, and returns nil when no
// model is available. A missing model is silent; a failing model is logged.
func (s *mlSignalService) predict(ctx context.Context, input SignalInput, predictors contract.PredictorSet) *dto.MLPrediction {
	if predictors.Forecaster != nil {
		forecast, err := predictors.Forecaster.ForecastPrice(ctx, input.Symbol, input.Prices.Closes(), forecastSteps)
		if err == nil {
			return forecastPrediction(forecast, input.Prices.LastClose())
		}
		if !contract.IsModelAbsent(err) {
			s.log.ErrorContext(ctx, "Price forecaster failed, trying classifier",
				logger.StringField("symbol", input.Symbol), logger.ErrorField(err))
		}
	}

	if predictors.Classifier != nil {
		signal, confidence, err := predictors.Classifier.ClassifySignal(ctx, input.Symbol, priceFeatures(input.Prices))
		if err == nil {
			return &dto.MLPrediction{Signal: signal, Confidence: confidence, Method: "Classifier"}
		}
		if !contract.IsModelAbsent(err) {
			s.log.ErrorContext(ctx, "Signal classifier failed, falling back to rules",
				logger.StringField("symbol", input.Symbol), logger.ErrorField(err))
		}
	}

	return nil
}

// forecastPrediction maps a 5-step price forecast to a signal. Moves within
// 3% of the current price are treated as noise.
func forecastPrediction(forecast, currentPrice float64) *dto.MLPrediction {
	if currentPrice <= 0 {
		return nil
	}
	change := ((forecast - currentPrice) / currentPrice) * 100

	prediction := &dto.MLPrediction{
		PriceForecast: utils.ToPointer(forecast),
		Method:        "LSTM",
	}
	switch {
	case change > 3:
		prediction.Signal = dto.SignalBuy
		prediction.Confidence = minFloat(85, 50+abs(change)*2)
	case change < -3:
		prediction.Signal = dto.SignalSell
		prediction.Confidence = minFloat(85, 50+abs(change)*2)
	default:
		prediction.Signal = dto.SignalHold
		prediction.Confidence = 60
	}
	return prediction
}

func priceFeatures(prices dto.PriceSeries) contract.PriceFeatures {
	features := contract.PriceFeatures{Volatility: 20, VolumeRatio: 1}

	if change, ok := prices.ChangePercent(20); ok {
		features.ShortTermChangePct = change
	}
	if change, ok := prices.ChangePercent(50); ok {
		features.MediumTermChangePct = change
	}
	if len(prices) > 1 {
		features.Volatility = utils.StdDevSample(prices.Returns()) * 100
	}

	volumes := prices.Volumes()
	volumeAvg := utils.Mean(volumes)
	if volumeAvg > 0 && len(volumes) > 0 {
		features.VolumeRatio = volumes[len(volumes)-1] / volumeAvg
	}
	return features
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
