package model

import "time"

type Stock struct {
	ID        uint      `gorm:"primarykey"`
	Symbol    string    `gorm:"size:20;uniqueIndex;not null"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:10;not null;index"`
	Sector    *string   `gorm:"size:100"`
	StockType *string   `gorm:"size:20"`
	Currency  string    `gorm:"size:10;not null;default:USD"`
	IsActive  bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Stock) TableName() string {
	return "stocks"
}
