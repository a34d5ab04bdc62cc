// Package indicator computes technical indicators over close-price windows.
// Every function reports ok=false when the window is too short instead of
// guessing; callers map that to a nil snapshot field.
package indicator

import (
	"math"

	"stock-signals/internal/dto"
	"stock-signals/pkg/utils"
)

const (
	RSIPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	BollingerPeriod  = 20
	BollingerK       = 2.0
	VolumePeriod     = 20
)

// SMA returns the simple moving average of the trailing period.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	return utils.Mean(values[len(values)-period:]), true
}

// EMA returns the last value of a recursively smoothed average seeded at
// the first element, with alpha = 2/(period+1).
func EMA(values []float64, period int) (float64, bool) {
	series, ok := emaSeries(values, period)
	if !ok {
		return 0, false
	}
	return series[len(series)-1], true
}

func emaSeries(values []float64, period int) ([]float64, bool) {
	if period <= 0 || len(values) < period {
		return nil, false
	}
	alpha := 2.0 / (float64(period) + 1.0)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, true
}

// RSI computes the relative strength index over simple rolling averages of
// gains and losses. Needs period+1 closes for period deltas. A window with
// no losses saturates at 100.
func RSI(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period+1 {
		return 0, false
	}
	window := values[len(values)-period-1:]
	gainSum, lossSum := 0.0, 0.0
	for i := 1; i < len(window); i++ {
		delta := window[i] - window[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum += -delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MACD returns the MACD line, signal line, and histogram. The signal line
// is an EMA of the full MACD series, so the window must cover the slow
// period plus the signal period.
func MACD(values []float64, fast, slow, signal int) (line, signalLine, histogram float64, ok bool) {
	if len(values) < slow+signal {
		return 0, 0, 0, false
	}
	fastSeries, okFast := emaSeries(values, fast)
	slowSeries, okSlow := emaSeries(values, slow)
	if !okFast || !okSlow {
		return 0, 0, 0, false
	}
	macdSeries := make([]float64, len(values))
	for i := range values {
		macdSeries[i] = fastSeries[i] - slowSeries[i]
	}
	signalSeries, okSignal := emaSeries(macdSeries, signal)
	if !okSignal {
		return 0, 0, 0, false
	}
	line = macdSeries[len(macdSeries)-1]
	signalLine = signalSeries[len(signalSeries)-1]
	return line, signalLine, line - signalLine, true
}

// Bollinger returns the upper, middle, and lower bands using a sample
// standard deviation over the trailing period.
func Bollinger(values []float64, period int, k float64) (upper, middle, lower float64, ok bool) {
	if period < 2 || len(values) < period {
		return 0, 0, 0, false
	}
	window := values[len(values)-period:]
	middle = utils.Mean(window)
	std := utils.StdDevSample(window)
	upper = middle + k*std
	lower = middle - k*std
	return upper, middle, lower, true
}

// AnnualizedVolatility scales the sample standard deviation of daily
// returns to a yearly percentage assuming 252 trading days.
func AnnualizedVolatility(returns []float64) float64 {
	return utils.StdDevSample(returns) * 100 * math.Sqrt(252)
}

// MaxDrawdown returns the deepest peak-to-trough decline in percent over a
// return series, as a non-positive number.
func MaxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	cum := 1.0
	peak := 1.0
	worst := 0.0
	for _, r := range returns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		dd := (cum - peak) / peak
		if dd < worst {
			worst = dd
		}
	}
	return worst * 100
}

// Snapshot computes every indicator the window allows and leaves the rest
// nil. Bars must already be sorted ascending.
func Snapshot(prices dto.PriceSeries) dto.IndicatorSnapshot {
	var snap dto.IndicatorSnapshot
	if len(prices) == 0 {
		return snap
	}
	closes := prices.Closes()
	volumes := prices.Volumes()

	if v, ok := RSI(closes, RSIPeriod); ok {
		snap.RSI = utils.ToPointer(v)
	}
	if line, signal, hist, ok := MACD(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod); ok {
		snap.MACD = utils.ToPointer(line)
		snap.MACDSignal = utils.ToPointer(signal)
		snap.MACDHistogram = utils.ToPointer(hist)
	}
	if v, ok := SMA(closes, 20); ok {
		snap.SMA20 = utils.ToPointer(v)
	}
	if v, ok := SMA(closes, 50); ok {
		snap.SMA50 = utils.ToPointer(v)
	}
	if v, ok := SMA(closes, 200); ok {
		snap.SMA200 = utils.ToPointer(v)
	}
	if v, ok := EMA(closes, MACDFastPeriod); ok {
		snap.EMA12 = utils.ToPointer(v)
	}
	if v, ok := EMA(closes, MACDSlowPeriod); ok {
		snap.EMA26 = utils.ToPointer(v)
	}
	if upper, middle, lower, ok := Bollinger(closes, BollingerPeriod, BollingerK); ok {
		snap.BollingerUpper = utils.ToPointer(upper)
		snap.BollingerMiddle = utils.ToPointer(middle)
		snap.BollingerLower = utils.ToPointer(lower)
	}
	if v, ok := SMA(volumes, VolumePeriod); ok {
		snap.VolumeAvg = utils.ToPointer(v)
	}
	snap.CurrentVolume = utils.ToPointer(volumes[len(volumes)-1])
	return snap
}
