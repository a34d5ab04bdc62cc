package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock-signals/internal/dto"
	"stock-signals/internal/model"
)

type StockPriceRepository interface {
	GetPriceRange(ctx context.Context, symbol string, start, end time.Time) (dto.PriceSeries, error)
	GetLatest(ctx context.Context, symbol string, limit int) (dto.PriceSeries, error)
	UpsertBulk(ctx context.Context, prices []model.StockPrice) error
}

type stockPriceRepository struct {
	db *gorm.DB
}

func NewStockPriceRepository(db *gorm.DB) StockPriceRepository {
	return &stockPriceRepository{db: db}
}

func (s *stockPriceRepository) GetPriceRange(ctx context.Context, symbol string, start, end time.Time) (dto.PriceSeries, error) {
	var rows []model.StockPrice
	err := s.db.WithContext(ctx).
		Joins("JOIN stocks ON stocks.id = stock_prices.stock_id").
		Where("stocks.symbol = ?", symbol).
		Where("stock_prices.time >= ?", start).
		Where("stock_prices.time <= ?", end).
		Order("stock_prices.time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPriceSeries(rows), nil
}

// GetLatest returns the most recent bars in ascending order.
func (s *stockPriceRepository) GetLatest(ctx context.Context, symbol string, limit int) (dto.PriceSeries, error) {
	var rows []model.StockPrice
	err := s.db.WithContext(ctx).
		Joins("JOIN stocks ON stocks.id = stock_prices.stock_id").
		Where("stocks.symbol = ?", symbol).
		Order("stock_prices.time DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	series := toPriceSeries(rows)
	series.SortAscending()
	return series, nil
}

func (s *stockPriceRepository) UpsertBulk(ctx context.Context, prices []model.StockPrice) error {
	if len(prices) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "time"}, {Name: "stock_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
		}).
		CreateInBatches(prices, 500).Error
}

func toPriceSeries(rows []model.StockPrice) dto.PriceSeries {
	series := make(dto.PriceSeries, 0, len(rows))
	for _, row := range rows {
		series = append(series, dto.PriceBar{
			Time:   row.Time,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}
	return series
}
