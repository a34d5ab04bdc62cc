// Package contract declares the interfaces for optional trained models.
// Implementations live outside this module; services depend only on these
// interfaces and are handed a PredictorSet owned by the caller, so two
// callers can use different model registries without sharing state.
package contract

import (
	"context"
	"errors"

	"stock-signals/internal/dto"
)

// ErrModelAbsent reports that no trained model exists for the requested
// symbol. It is a normal condition: callers fall back to rule-based output
// without logging an error. Any other error is a real model failure.
var ErrModelAbsent = errors.New("no trained model for symbol")

// PriceFeatures summarize a price window for classification.
type PriceFeatures struct {
	ShortTermChangePct  float64 `json:"short_term_change_pct"`
	MediumTermChangePct float64 `json:"medium_term_change_pct"`
	Volatility          float64 `json:"volatility"`
	VolumeRatio         float64 `json:"volume_ratio"`
}

// PriceForecaster predicts a close price a number of steps ahead.
type PriceForecaster interface {
	ForecastPrice(ctx context.Context, symbol string, closes []float64, steps int) (float64, error)
}

// SignalClassifier maps price features to a signal and a confidence in
// the 0-100 range.
type SignalClassifier interface {
	ClassifySignal(ctx context.Context, symbol string, features PriceFeatures) (dto.SignalType, float64, error)
}

// PredictorSet bundles the models available for hybrid signal generation.
// Either field may be nil; a nil field is treated like ErrModelAbsent.
type PredictorSet struct {
	Forecaster PriceForecaster
	Classifier SignalClassifier
}

// IsModelAbsent reports whether err means the model simply does not exist,
// as opposed to existing and failing.
func IsModelAbsent(err error) bool {
	return errors.Is(err, ErrModelAbsent)
}
