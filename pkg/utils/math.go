package utils

import "math"

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDevPopulation divides by n. Used for return-series volatility where
// the sample is the whole window.
func StdDevPopulation(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// StdDevSample divides by n-1 and needs at least two values.
func StdDevSample(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// CovarianceSample and VarianceSample use n-1 denominators, matching the
// sample standard deviation.
func CovarianceSample(a, b []float64) float64 {
	n := len(a)
	if n < 2 || len(b) != n {
		return 0
	}
	meanA, meanB := Mean(a), Mean(b)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += (a[i] - meanA) * (b[i] - meanB)
	}
	return sum / float64(n-1)
}

func VarianceSample(values []float64) float64 {
	std := StdDevSample(values)
	return std * std
}

// Correlation returns the Pearson correlation of two equal-length series,
// or 0 when either side is constant.
func Correlation(a, b []float64) float64 {
	stdA, stdB := StdDevSample(a), StdDevSample(b)
	if stdA == 0 || stdB == 0 {
		return 0
	}
	return CovarianceSample(a, b) / (stdA * stdB)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
