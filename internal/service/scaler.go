package service

import (
	"errors"

	"stock-signals/pkg/utils"
)

type ScalerMethod string

const (
	ScalerRolling   ScalerMethod = "rolling"
	ScalerExpanding ScalerMethod = "expanding"
)

type ScalerType string

const (
	ScalerStandard ScalerType = "standard"
	ScalerMinMax   ScalerType = "minmax"
)

// TimeSeriesScaler normalizes a series without leaking future information:
// every point is scaled with statistics of its own trailing window only.
// A whole-series fit would let early training samples see later data.
type TimeSeriesScaler interface {
	FitTransform(values []float64, minPeriods int) []float64
	Transform(values, reference []float64) []float64
}

type timeSeriesScaler struct {
	method     ScalerMethod
	windowSize int
	scalerType ScalerType
}

func NewTimeSeriesScaler(method ScalerMethod, windowSize int, scalerType ScalerType) (TimeSeriesScaler, error) {
	if method != ScalerRolling && method != ScalerExpanding {
		return nil, errors.New("unknown scaler method: " + string(method))
	}
	if scalerType != ScalerStandard && scalerType != ScalerMinMax {
		return nil, errors.New("unknown scaler type: " + string(scalerType))
	}
	if method == ScalerRolling && windowSize <= 0 {
		return nil, errors.New("rolling scaler requires a positive window size")
	}
	return &timeSeriesScaler{method: method, windowSize: windowSize, scalerType: scalerType}, nil
}

// FitTransform scales each point with the statistics of its trailing
// window. Points with fewer than minPeriods of history pass through raw.
func (s *timeSeriesScaler) FitTransform(values []float64, minPeriods int) []float64 {
	if minPeriods < 1 {
		minPeriods = 1
	}

	scaled := make([]float64, len(values))
	for i := range values {
		windowStart := 0
		if s.method == ScalerRolling && i-s.windowSize+1 > 0 {
			windowStart = i - s.windowSize + 1
		}
		window := values[windowStart : i+1]

		if len(window) < minPeriods {
			scaled[i] = values[i]
			continue
		}
		scaled[i] = s.scale(values[i], window)
	}
	return scaled
}

// Transform scales values using the statistics of a reference series, for
// applying a training-time fit to fresh data. A nil reference means the
// series scales against itself.
func (s *timeSeriesScaler) Transform(values, reference []float64) []float64 {
	if reference == nil {
		reference = values
	}

	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = s.scale(v, reference)
	}
	return scaled
}

func (s *timeSeriesScaler) scale(value float64, window []float64) float64 {
	if s.scalerType == ScalerStandard {
		std := utils.StdDevSample(window)
		if std == 0 {
			std = 1.0
		}
		return (value - utils.Mean(window)) / std
	}

	minVal, maxVal := window[0], window[0]
	for _, w := range window {
		if w < minVal {
			minVal = w
		}
		if w > maxVal {
			maxVal = w
		}
	}
	if maxVal == minVal {
		return 0.0
	}
	return (value - minVal) / (maxVal - minVal)
}
