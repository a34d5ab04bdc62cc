package model

import (
	"time"

	"gorm.io/datatypes"
)

// Signal is the latest generated decision for a stock, with the structured
// explanation kept as JSONB.
type Signal struct {
	ID              uint           `gorm:"primarykey"`
	StockID         uint           `gorm:"not null;index:idx_signals_stock_created"`
	SignalType      string         `gorm:"size:20;not null;index"`
	ConfidenceScore float64        `gorm:"not null"`
	RiskLevel       string         `gorm:"size:10;not null"`
	HoldingPeriod   string         `gorm:"size:10;not null"`
	CompositeScore  float64        `gorm:"not null"`
	MLUsed          bool           `gorm:"not null;default:false"`
	Explanation     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index:idx_signals_stock_created" json:"created_at"`

	Stock *Stock `gorm:"foreignKey:StockID"`
}

func (Signal) TableName() string {
	return "signals"
}

// SignalHistory is the append-only trail the backtester replays. SignalID
// is nullable so history survives signal deletion.
type SignalHistory struct {
	ID              uint      `gorm:"primarykey"`
	SignalID        *uint     `gorm:"null"`
	StockID         uint      `gorm:"not null;index:idx_signal_history_stock_created"`
	SignalType      string    `gorm:"size:20;not null;index"`
	ConfidenceScore float64   `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index:idx_signal_history_stock_created" json:"created_at"`

	Stock  *Stock  `gorm:"foreignKey:StockID"`
	Signal *Signal `gorm:"foreignKey:SignalID"`
}

func (SignalHistory) TableName() string {
	return "signal_history"
}
