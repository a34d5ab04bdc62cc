package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stock-signals/internal/model"
)

type StockRepository interface {
	GetBySymbol(ctx context.Context, symbol string) (*model.Stock, error)
	GetActive(ctx context.Context) ([]model.Stock, error)
	Create(ctx context.Context, stock *model.Stock) error
	UpdateStockType(ctx context.Context, stockID uint, stockType string) error
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (s *stockRepository) GetBySymbol(ctx context.Context, symbol string) (*model.Stock, error) {
	var stock model.Stock
	err := s.db.WithContext(ctx).Where("symbol = ?", symbol).First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

func (s *stockRepository) GetActive(ctx context.Context) ([]model.Stock, error) {
	var stocks []model.Stock
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("symbol ASC").
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

func (s *stockRepository) Create(ctx context.Context, stock *model.Stock) error {
	return s.db.WithContext(ctx).Create(stock).Error
}

func (s *stockRepository) UpdateStockType(ctx context.Context, stockID uint, stockType string) error {
	return s.db.WithContext(ctx).
		Model(&model.Stock{}).
		Where("id = ?", stockID).
		Update("stock_type", stockType).Error
}
