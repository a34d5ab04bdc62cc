package repository

import (
	"gorm.io/gorm"

	"stock-signals/config"
	"stock-signals/pkg/logger"
)

type Repository struct {
	StockRepo       StockRepository
	StockPriceRepo  StockPriceRepository
	FundamentalRepo FundamentalRepository
	SignalRepo      SignalRepository
	MarketDataRepo  MarketDataRepository
	NarrativeRepo   NarrativeRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	repo := &Repository{
		StockRepo:       NewStockRepository(db),
		StockPriceRepo:  NewStockPriceRepository(db),
		FundamentalRepo: NewFundamentalRepository(db),
		SignalRepo:      NewSignalRepository(db),
		MarketDataRepo:  NewMarketDataRepository(cfg, log),
	}

	// Narrative generation is optional enrichment; without an API key the
	// rest of the pipeline still runs.
	if cfg.Gemini.APIKey != "" {
		narrativeRepo, err := NewNarrativeRepository(cfg, log)
		if err != nil {
			return nil, err
		}
		repo.NarrativeRepo = narrativeRepo
	}

	return repo, nil
}
