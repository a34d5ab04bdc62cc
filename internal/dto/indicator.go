package dto

// IndicatorSnapshot holds technical indicator values computed as of the
// latest bar of one price window. A nil field means the window was too short
// for that indicator; callers must treat nil as unknown, never as zero.
type IndicatorSnapshot struct {
	RSI             *float64 `json:"rsi,omitempty"`
	MACD            *float64 `json:"macd,omitempty"`
	MACDSignal      *float64 `json:"macd_signal,omitempty"`
	MACDHistogram   *float64 `json:"macd_histogram,omitempty"`
	SMA20           *float64 `json:"sma_20,omitempty"`
	SMA50           *float64 `json:"sma_50,omitempty"`
	SMA200          *float64 `json:"sma_200,omitempty"`
	EMA12           *float64 `json:"ema_12,omitempty"`
	EMA26           *float64 `json:"ema_26,omitempty"`
	BollingerUpper  *float64 `json:"bollinger_upper,omitempty"`
	BollingerMiddle *float64 `json:"bollinger_middle,omitempty"`
	BollingerLower  *float64 `json:"bollinger_lower,omitempty"`
	VolumeAvg       *float64 `json:"volume_avg,omitempty"`
	CurrentVolume   *float64 `json:"current_volume,omitempty"`
}

// IsEmpty reports whether no indicator could be computed at all.
func (i IndicatorSnapshot) IsEmpty() bool {
	return i.RSI == nil && i.MACD == nil && i.MACDSignal == nil &&
		i.MACDHistogram == nil && i.SMA20 == nil && i.SMA50 == nil &&
		i.SMA200 == nil && i.EMA12 == nil && i.EMA26 == nil &&
		i.BollingerUpper == nil && i.BollingerMiddle == nil &&
		i.BollingerLower == nil && i.VolumeAvg == nil
}
