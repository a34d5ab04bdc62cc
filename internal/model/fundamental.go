package model

import "time"

// Fundamental stores the reported metrics for a stock on a report date.
// All metrics are nullable; absence must survive the round trip to the
// database instead of collapsing to zero.
type Fundamental struct {
	ID                  uint      `gorm:"primarykey"`
	StockID             uint      `gorm:"not null;uniqueIndex:idx_fundamentals_stock_date"`
	Date                time.Time `gorm:"not null;uniqueIndex:idx_fundamentals_stock_date"`
	Revenue             *float64
	EPS                 *float64
	PERatio             *float64
	DebtRatio           *float64
	EarningsGrowth      *float64
	DividendYield       *float64
	DividendPerShare    *float64
	DividendPayoutRatio *float64
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Stock *Stock `gorm:"foreignKey:StockID"`
}

func (Fundamental) TableName() string {
	return "fundamentals"
}
