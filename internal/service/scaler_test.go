package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeSeriesScaler(t *testing.T) {
	tests := []struct {
		name       string
		method     ScalerMethod
		windowSize int
		scalerType ScalerType
		wantErr    bool
	}{
		{name: "rolling standard", method: ScalerRolling, windowSize: 20, scalerType: ScalerStandard},
		{name: "expanding minmax", method: ScalerExpanding, scalerType: ScalerMinMax},
		{name: "unknown method", method: "batch", windowSize: 20, scalerType: ScalerStandard, wantErr: true},
		{name: "unknown type", method: ScalerRolling, windowSize: 20, scalerType: "robust", wantErr: true},
		{name: "rolling needs window", method: ScalerRolling, windowSize: 0, scalerType: ScalerStandard, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeSeriesScaler(tt.method, tt.windowSize, tt.scalerType)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFitTransformMinPeriodsPassthrough(t *testing.T) {
	scaler, err := NewTimeSeriesScaler(ScalerExpanding, 0, ScalerStandard)
	require.NoError(t, err)

	values := []float64{10, 20, 30, 40}
	got := scaler.FitTransform(values, 3)

	// The first two points lack history and pass through raw.
	assert.Equal(t, 10.0, got[0])
	assert.Equal(t, 20.0, got[1])
	assert.NotEqual(t, 30.0, got[2])
}

func TestFitTransformStandardConstantWindow(t *testing.T) {
	scaler, err := NewTimeSeriesScaler(ScalerExpanding, 0, ScalerStandard)
	require.NoError(t, err)

	// Zero deviation divides by 1.0 instead, so constant input maps to 0.
	got := scaler.FitTransform([]float64{5, 5, 5, 5}, 1)
	for _, v := range got {
		assert.Equal(t, 0.0, v)
	}
}

func TestFitTransformMinMax(t *testing.T) {
	scaler, err := NewTimeSeriesScaler(ScalerExpanding, 0, ScalerMinMax)
	require.NoError(t, err)

	got := scaler.FitTransform([]float64{10, 20, 30}, 1)

	// Each point scales within its expanding window; the latest point is
	// always the window maximum here.
	assert.Equal(t, 0.0, got[0]) // degenerate single-point window
	assert.Equal(t, 1.0, got[1])
	assert.Equal(t, 1.0, got[2])
}

func TestFitTransformRollingWindowForgets(t *testing.T) {
	scaler, err := NewTimeSeriesScaler(ScalerRolling, 2, ScalerMinMax)
	require.NoError(t, err)

	got := scaler.FitTransform([]float64{100, 1, 2, 3}, 2)

	// With a 2-bar window the early spike at 100 no longer affects the
	// scaling of the last point.
	assert.Equal(t, 1.0, got[3])
}

func TestTransformAgainstReference(t *testing.T) {
	scaler, err := NewTimeSeriesScaler(ScalerExpanding, 0, ScalerMinMax)
	require.NoError(t, err)

	reference := []float64{0, 10}
	got := scaler.Transform([]float64{5, 10, 20}, reference)

	assert.InDelta(t, 0.5, got[0], 1e-9)
	assert.InDelta(t, 1.0, got[1], 1e-9)
	// Values outside the reference range extrapolate past 1.
	assert.InDelta(t, 2.0, got[2], 1e-9)
}

func TestTransformNilReferenceUsesSelf(t *testing.T) {
	scaler, err := NewTimeSeriesScaler(ScalerExpanding, 0, ScalerMinMax)
	require.NoError(t, err)

	got := scaler.Transform([]float64{0, 5, 10}, nil)
	assert.Equal(t, []float64{0, 0.5, 1}, got)
}
