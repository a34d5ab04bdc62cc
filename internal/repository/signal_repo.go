package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"stock-signals/internal/dto"
	"stock-signals/internal/model"
)

type SignalRepository interface {
	SaveDecision(ctx context.Context, stockID uint, decision *dto.SignalDecision) (*model.Signal, error)
	GetLatest(ctx context.Context, symbol string) (*model.Signal, error)
	GetSignalHistory(ctx context.Context, symbol string, start, end time.Time) ([]dto.SignalRecord, error)
	DeleteOlderThan(ctx context.Context, date time.Time) (int64, error)
}

type signalRepository struct {
	db *gorm.DB
}

func NewSignalRepository(db *gorm.DB) SignalRepository {
	return &signalRepository{db: db}
}

// SaveDecision persists the signal and appends a history row in one
// transaction. History rows are what the backtester replays, so a signal
// without its history row would silently skew results.
func (s *signalRepository) SaveDecision(ctx context.Context, stockID uint, decision *dto.SignalDecision) (*model.Signal, error) {
	explanation, err := json.Marshal(decision.Explanation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signal explanation: %w", err)
	}

	signal := model.Signal{
		StockID:         stockID,
		SignalType:      string(decision.SignalType),
		ConfidenceScore: decision.ConfidenceScore,
		RiskLevel:       string(decision.RiskLevel),
		HoldingPeriod:   string(decision.HoldingPeriod),
		CompositeScore:  decision.CompositeScore,
		MLUsed:          decision.MLUsed,
		Explanation:     explanation,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&signal).Error; err != nil {
			return fmt.Errorf("failed to create signal: %w", err)
		}

		history := model.SignalHistory{
			SignalID:        &signal.ID,
			StockID:         stockID,
			SignalType:      string(decision.SignalType),
			ConfidenceScore: decision.ConfidenceScore,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create signal history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &signal, nil
}

func (s *signalRepository) GetLatest(ctx context.Context, symbol string) (*model.Signal, error) {
	var signal model.Signal
	err := s.db.WithContext(ctx).
		Joins("JOIN stocks ON stocks.id = signals.stock_id").
		Where("stocks.symbol = ?", symbol).
		Order("signals.created_at DESC").
		Preload("Stock").
		First(&signal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &signal, nil
}

func (s *signalRepository) GetSignalHistory(ctx context.Context, symbol string, start, end time.Time) ([]dto.SignalRecord, error) {
	var rows []model.SignalHistory
	err := s.db.WithContext(ctx).
		Joins("JOIN stocks ON stocks.id = signal_history.stock_id").
		Where("stocks.symbol = ?", symbol).
		Where("signal_history.created_at >= ?", start).
		Where("signal_history.created_at <= ?", end).
		Order("signal_history.created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]dto.SignalRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, dto.SignalRecord{
			SignalType:      dto.SignalType(row.SignalType),
			ConfidenceScore: row.ConfidenceScore,
			CreatedAt:       row.CreatedAt,
		})
	}
	return records, nil
}

func (s *signalRepository) DeleteOlderThan(ctx context.Context, date time.Time) (int64, error) {
	db := s.db.WithContext(ctx).Where("created_at < ?", date).Delete(&model.SignalHistory{})
	if db.Error != nil {
		return 0, db.Error
	}
	return db.RowsAffected, nil
}
