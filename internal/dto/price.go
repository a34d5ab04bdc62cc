package dto

import (
	"sort"
	"time"
)

// PriceBar is one trading session of OHLCV data. Bars must be sorted
// ascending by time before any indicator or trend computation.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

type PriceSeries []PriceBar

// SortAscending orders bars by time in place, oldest first.
func (p PriceSeries) SortAscending() {
	sort.Slice(p, func(i, j int) bool {
		return p[i].Time.Before(p[j].Time)
	})
}

func (p PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p))
	for i, bar := range p {
		closes[i] = bar.Close
	}
	return closes
}

func (p PriceSeries) Volumes() []float64 {
	volumes := make([]float64, len(p))
	for i, bar := range p {
		volumes[i] = bar.Volume
	}
	return volumes
}

// Returns computes simple period-over-period close returns, one element
// shorter than the series.
func (p PriceSeries) Returns() []float64 {
	if len(p) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(p)-1)
	for i := 1; i < len(p); i++ {
		prev := p[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, (p[i].Close-prev)/prev)
	}
	return returns
}

func (p PriceSeries) LastClose() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].Close
}

// ChangePercent returns the percentage close-to-close change over the
// trailing window of n bars, and false when history is insufficient.
func (p PriceSeries) ChangePercent(n int) (float64, bool) {
	if len(p) < n || n <= 0 {
		return 0, false
	}
	base := p[len(p)-n].Close
	if base == 0 {
		return 0, false
	}
	return ((p[len(p)-1].Close - base) / base) * 100, true
}
