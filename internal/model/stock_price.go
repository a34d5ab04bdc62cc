package model

import "time"

// StockPrice is one OHLCV bar. Time and StockID form the composite key so
// the table can be turned into a hypertable later without remodeling.
type StockPrice struct {
	Time    time.Time `gorm:"primarykey;not null"`
	StockID uint      `gorm:"primarykey;not null;index:idx_stock_prices_stock_time"`
	Open    float64   `gorm:"not null"`
	High    float64   `gorm:"not null"`
	Low     float64   `gorm:"not null"`
	Close   float64   `gorm:"not null"`
	Volume  float64   `gorm:"not null"`

	Stock *Stock `gorm:"foreignKey:StockID"`
}

func (StockPrice) TableName() string {
	return "stock_prices"
}
