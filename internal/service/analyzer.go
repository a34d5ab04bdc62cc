package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"stock-signals/config"
	"stock-signals/internal/contract"
	"stock-signals/internal/dto"
	"stock-signals/internal/indicator"
	"stock-signals/internal/model"
	"stock-signals/internal/repository"
	"stock-signals/pkg/cache"
	"stock-signals/pkg/logger"
)

const (
	// Enough history for the 200-bar trend window plus warmup.
	analysisLookbackBars = 300
	priceSyncLookback    = 2 * 365 * 24 * time.Hour

	analysisCacheKeyPrefix = "analysis:"
)

// AnalyzeResult bundles the decision with the classification context the
// API exposes alongside it.
type AnalyzeResult struct {
	Decision       dto.SignalDecision     `json:"decision"`
	StockType      dto.StockType          `json:"stock_type"`
	Recommendation InvestorRecommendation `json:"recommendation"`
	Narrative      string                 `json:"narrative,omitempty"`
}

type AnalyzerService interface {
	Analyze(ctx context.Context, symbol string, useML bool) (*AnalyzeResult, error)
	AnalyzeAll(ctx context.Context, useML bool) error
	ActiveSymbols(ctx context.Context) ([]string, error)
	LatestSignal(ctx context.Context, symbol string) (*model.Signal, error)
	PriceHistory(ctx context.Context, symbol string, start, end time.Time) (dto.PriceSeries, error)
	Fundamentals(ctx context.Context, symbol string) (dto.FundamentalSnapshot, error)
	SyncPrices(ctx context.Context, symbol string) (int, error)
	SyncFundamentals(ctx context.Context, symbol string) error
	PruneHistory(ctx context.Context, before time.Time) error
}

type analyzerService struct {
	cfg           *config.Config
	log           *logger.Logger
	repo          *repository.Repository
	inmemoryCache cache.Cache
	ruleGenerator SignalGeneratorService
	investmentGen InvestmentSignalService
	mlGenerator   MLSignalService
	explanation   ExplanationService
	classifier    StockClassifierService
	predictors    contract.PredictorSet
}

func NewAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	ruleGenerator SignalGeneratorService,
	investmentGen InvestmentSignalService,
	mlGenerator MLSignalService,
	explanation ExplanationService,
	classifier StockClassifierService,
	predictors contract.PredictorSet,
) AnalyzerService {
	return &analyzerService{
		cfg:           cfg,
		log:           log,
		repo:          repo,
		inmemoryCache: inmemoryCache,
		ruleGenerator: ruleGenerator,
		investmentGen: investmentGen,
		mlGenerator:   mlGenerator,
		explanation:   explanation,
		classifier:    classifier,
		predictors:    predictors,
	}
}

func (s *analyzerService) Analyze(ctx context.Context, symbol string, useML bool) (*AnalyzeResult, error) {
	cacheKey := fmt.Sprintf("%s%s:%t", analysisCacheKeyPrefix, symbol, useML)
	if cached, found := s.inmemoryCache.Get(cacheKey); found {
		if result, ok := cached.(*AnalyzeResult); ok {
			s.log.DebugContext(ctx, "Analysis served from cache", logger.StringField("symbol", symbol))
			return result, nil
		}
	}

	stock, err := s.repo.StockRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	if stock == nil {
		return nil, fmt.Errorf("stock not found: %s", symbol)
	}

	prices, err := s.repo.StockPriceRepo.GetLatest(ctx, symbol, analysisLookbackBars)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}
	if len(prices) == 0 {
		if _, err := s.SyncPrices(ctx, symbol); err != nil {
			return nil, fmt.Errorf("failed to sync prices for %s: %w", symbol, err)
		}
		prices, err = s.repo.StockPriceRepo.GetLatest(ctx, symbol, analysisLookbackBars)
		if err != nil {
			return nil, fmt.Errorf("failed to load prices: %w", err)
		}
	}

	fundamentals, err := s.repo.FundamentalRepo.GetLatestSnapshot(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load fundamentals: %w", err)
	}

	input := SignalInput{
		Symbol:       symbol,
		Prices:       prices,
		Indicators:   indicator.Snapshot(prices),
		Fundamentals: fundamentals,
	}

	stockType := s.classifier.Classify(fundamentals)
	if stock.StockType == nil || *stock.StockType != string(stockType) {
		if err := s.repo.StockRepo.UpdateStockType(ctx, stock.ID, string(stockType)); err != nil {
			s.log.WarnContext(ctx, "Failed to update stock type",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err))
		}
	}

	var decision dto.SignalDecision
	switch {
	case stockType == dto.StockTypeDividend:
		decision = s.investmentGen.Generate(ctx, input)
	case useML:
		decision = s.mlGenerator.Generate(ctx, input, s.predictors)
	default:
		decision = s.ruleGenerator.Generate(ctx, input)
	}

	if stockType != dto.StockTypeDividend {
		s.explanation.Enrich(&decision, input)
	}

	result := &AnalyzeResult{
		Decision:       decision,
		StockType:      stockType,
		Recommendation: s.classifier.Recommend(stockType, decision.SignalType),
	}

	if s.repo.NarrativeRepo != nil && decision.SignalType != dto.SignalNoSignal {
		narrative, err := s.repo.NarrativeRepo.Narrate(ctx, &decision)
		if err != nil {
			s.log.WarnContext(ctx, "Narrative generation failed",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err))
		} else {
			result.Narrative = narrative
		}
	}

	if decision.SignalType != dto.SignalNoSignal {
		if _, err := s.repo.SignalRepo.SaveDecision(ctx, stock.ID, &decision); err != nil {
			return nil, fmt.Errorf("failed to persist signal: %w", err)
		}
	}

	s.inmemoryCache.Set(cacheKey, result, s.cfg.Cache.DefaultExpiration)

	s.log.InfoContext(ctx, "Analysis completed",
		logger.StringField("symbol", symbol),
		logger.StringField("signal", string(decision.SignalType)),
		logger.Field("confidence", decision.ConfidenceScore),
		logger.StringField("stock_type", string(stockType)),
	)

	return result, nil
}

// AnalyzeAll fans out over every active stock with bounded concurrency. A
// failed symbol is logged and counted; only cancellation aborts the run.
func (s *analyzerService) AnalyzeAll(ctx context.Context, useML bool) error {
	stocks, err := s.repo.StockRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active stocks: %w", err)
	}

	limit := s.cfg.Scheduler.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var failed atomic.Int64
	for _, stock := range stocks {
		symbol := stock.Symbol
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := s.Analyze(gctx, symbol, useML); err != nil {
				failed.Add(1)
				s.log.ErrorContext(gctx, "Failed to analyze stock",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.WarnContext(ctx, "Analysis run cancelled", logger.ErrorField(err))
		return err
	}

	s.log.InfoContext(ctx, "Analysis run finished",
		logger.IntField("total", len(stocks)),
		logger.IntField("failed", int(failed.Load())))
	return nil
}

func (s *analyzerService) ActiveSymbols(ctx context.Context) ([]string, error) {
	stocks, err := s.repo.StockRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(stocks))
	for _, stock := range stocks {
		symbols = append(symbols, stock.Symbol)
	}
	return symbols, nil
}

func (s *analyzerService) LatestSignal(ctx context.Context, symbol string) (*model.Signal, error) {
	return s.repo.SignalRepo.GetLatest(ctx, symbol)
}

func (s *analyzerService) PriceHistory(ctx context.Context, symbol string, start, end time.Time) (dto.PriceSeries, error) {
	return s.repo.StockPriceRepo.GetPriceRange(ctx, symbol, start, end)
}

func (s *analyzerService) Fundamentals(ctx context.Context, symbol string) (dto.FundamentalSnapshot, error) {
	return s.repo.FundamentalRepo.GetLatestSnapshot(ctx, symbol)
}

func (s *analyzerService) SyncPrices(ctx context.Context, symbol string) (int, error) {
	stock, err := s.repo.StockRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to load stock: %w", err)
	}
	if stock == nil {
		return 0, fmt.Errorf("stock not found: %s", symbol)
	}

	end := time.Now().UTC()
	start := end.Add(-priceSyncLookback)
	series, err := s.repo.MarketDataRepo.GetDailyBars(ctx, symbol, start, end)
	if err != nil {
		return 0, err
	}

	rows := make([]model.StockPrice, 0, len(series))
	for _, bar := range series {
		rows = append(rows, model.StockPrice{
			Time:    bar.Time,
			StockID: stock.ID,
			Open:    bar.Open,
			High:    bar.High,
			Low:     bar.Low,
			Close:   bar.Close,
			Volume:  bar.Volume,
		})
	}

	if err := s.repo.StockPriceRepo.UpsertBulk(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to upsert prices: %w", err)
	}

	s.log.InfoContext(ctx, "Price sync completed",
		logger.StringField("symbol", symbol),
		logger.IntField("bars", len(rows)))
	return len(rows), nil
}

func (s *analyzerService) SyncFundamentals(ctx context.Context, symbol string) error {
	stock, err := s.repo.StockRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return fmt.Errorf("failed to load stock: %w", err)
	}
	if stock == nil {
		return fmt.Errorf("stock not found: %s", symbol)
	}

	snapshot, err := s.repo.MarketDataRepo.GetFundamentals(ctx, symbol)
	if err != nil {
		return err
	}
	if snapshot.IsEmpty() {
		s.log.DebugContext(ctx, "No fundamentals reported", logger.StringField("symbol", symbol))
		return nil
	}

	now := time.Now().UTC()
	row := model.Fundamental{
		StockID:             stock.ID,
		Date:                time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Revenue:             snapshot.Revenue,
		EPS:                 snapshot.EPS,
		PERatio:             snapshot.PERatio,
		DebtRatio:           snapshot.DebtRatio,
		EarningsGrowth:      snapshot.EarningsGrowth,
		DividendYield:       snapshot.DividendYield,
		DividendPerShare:    snapshot.DividendPerShare,
		DividendPayoutRatio: snapshot.DividendPayoutRatio,
	}

	if err := s.repo.FundamentalRepo.Upsert(ctx, &row); err != nil {
		return fmt.Errorf("failed to upsert fundamentals: %w", err)
	}
	return nil
}

// PruneHistory deletes signal history and fundamentals older than the
// cutoff. Signals themselves stay; only the replayable history rows and
// stale fundamentals are bounded.
func (s *analyzerService) PruneHistory(ctx context.Context, before time.Time) error {
	signals, err := s.repo.SignalRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		return fmt.Errorf("failed to prune signal history: %w", err)
	}
	fundamentals, err := s.repo.FundamentalRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		return fmt.Errorf("failed to prune fundamentals: %w", err)
	}

	s.log.InfoContext(ctx, "Retention pruning completed",
		logger.Field("cutoff", before),
		logger.IntField("signal_history_deleted", int(signals)),
		logger.IntField("fundamentals_deleted", int(fundamentals)))
	return nil
}
