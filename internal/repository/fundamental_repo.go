package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock-signals/internal/dto"
	"stock-signals/internal/model"
)

type FundamentalRepository interface {
	GetLatestSnapshot(ctx context.Context, symbol string) (dto.FundamentalSnapshot, error)
	Upsert(ctx context.Context, fundamental *model.Fundamental) error
	DeleteOlderThan(ctx context.Context, date time.Time) (int64, error)
}

type fundamentalRepository struct {
	db *gorm.DB
}

func NewFundamentalRepository(db *gorm.DB) FundamentalRepository {
	return &fundamentalRepository{db: db}
}

// GetLatestSnapshot returns the most recent report for the symbol. A symbol
// with no fundamentals yields an empty snapshot, not an error.
func (f *fundamentalRepository) GetLatestSnapshot(ctx context.Context, symbol string) (dto.FundamentalSnapshot, error) {
	var row model.Fundamental
	err := f.db.WithContext(ctx).
		Joins("JOIN stocks ON stocks.id = fundamentals.stock_id").
		Where("stocks.symbol = ?", symbol).
		Order("fundamentals.date DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FundamentalSnapshot{}, nil
		}
		return dto.FundamentalSnapshot{}, err
	}

	return dto.FundamentalSnapshot{
		Revenue:             row.Revenue,
		EPS:                 row.EPS,
		PERatio:             row.PERatio,
		DebtRatio:           row.DebtRatio,
		EarningsGrowth:      row.EarningsGrowth,
		DividendYield:       row.DividendYield,
		DividendPerShare:    row.DividendPerShare,
		DividendPayoutRatio: row.DividendPayoutRatio,
	}, nil
}

func (f *fundamentalRepository) Upsert(ctx context.Context, fundamental *model.Fundamental) error {
	return f.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stock_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"revenue", "eps", "pe_ratio", "debt_ratio", "earnings_growth",
				"dividend_yield", "dividend_per_share", "dividend_payout_ratio",
			}),
		}).
		Create(fundamental).Error
}

func (f *fundamentalRepository) DeleteOlderThan(ctx context.Context, date time.Time) (int64, error) {
	db := f.db.WithContext(ctx).Where("date < ?", date).Delete(&model.Fundamental{})
	if db.Error != nil {
		return 0, db.Error
	}
	return db.RowsAffected, nil
}
