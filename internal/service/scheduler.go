package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/semaphore"

	"stock-signals/config"
	"stock-signals/pkg/logger"
	"stock-signals/pkg/utils"
)

const defaultRetentionDays = 365

type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	RunAnalysis(ctx context.Context) error
	RunPriceSync(ctx context.Context) error
	RunRetention(ctx context.Context) error
}

// schedulerService drives the periodic signal and data refresh runs. A
// weighted semaphore keeps overlapping cron fires from stacking up.
type schedulerService struct {
	cfg      *config.Config
	log      *logger.Logger
	analyzer AnalyzerService
	cron     *cron.Cron
	sem      *semaphore.Weighted
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, analyzer AnalyzerService) SchedulerService {
	maxConcurrency := cfg.Scheduler.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &schedulerService{
		cfg:      cfg,
		log:      log,
		analyzer: analyzer,
		cron:     cron.New(),
		sem:      semaphore.NewWeighted(int64(maxConcurrency)),
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	if s.cfg.Scheduler.SignalCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.SignalCron, func() {
			s.runGuarded(ctx, "signal_generation", s.RunAnalysis)
		}); err != nil {
			return fmt.Errorf("failed to register signal cron: %w", err)
		}
	}

	if s.cfg.Scheduler.PriceSyncCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.PriceSyncCron, func() {
			s.runGuarded(ctx, "price_sync", s.RunPriceSync)
		}); err != nil {
			return fmt.Errorf("failed to register price sync cron: %w", err)
		}
	}

	if s.cfg.Scheduler.RetentionCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.RetentionCron, func() {
			s.runGuarded(ctx, "retention", s.RunRetention)
		}); err != nil {
			return fmt.Errorf("failed to register retention cron: %w", err)
		}
	}

	s.cron.Start()
	s.log.Info("Scheduler started",
		logger.StringField("signal_cron", s.cfg.Scheduler.SignalCron),
		logger.StringField("price_sync_cron", s.cfg.Scheduler.PriceSyncCron),
		logger.StringField("retention_cron", s.cfg.Scheduler.RetentionCron),
	)
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Scheduler stopped")
}

func (s *schedulerService) runGuarded(ctx context.Context, name string, run func(context.Context) error) {
	if !s.sem.TryAcquire(1) {
		s.log.Warn("Skipping scheduled run, previous run still in progress",
			logger.StringField("job", name))
		return
	}

	utils.GoSafe(func() {
		defer s.sem.Release(1)

		runCtx := ctx
		var cancel context.CancelFunc
		if s.cfg.Scheduler.TimeoutDuration > 0 {
			runCtx, cancel = context.WithTimeout(ctx, s.cfg.Scheduler.TimeoutDuration)
			defer cancel()
		}

		s.log.InfoContext(runCtx, "Scheduled run started", logger.StringField("job", name))
		if err := run(runCtx); err != nil {
			s.log.ErrorContext(runCtx, "Scheduled run failed",
				logger.StringField("job", name),
				logger.ErrorField(err))
			return
		}
		s.log.InfoContext(runCtx, "Scheduled run finished", logger.StringField("job", name))
	})
}

func (s *schedulerService) RunAnalysis(ctx context.Context) error {
	return s.analyzer.AnalyzeAll(ctx, true)
}

// RunRetention prunes history older than the configured retention window,
// one year when unset.
func (s *schedulerService) RunRetention(ctx context.Context) error {
	days := s.cfg.Scheduler.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	return s.analyzer.PruneHistory(ctx, cutoff)
}

func (s *schedulerService) RunPriceSync(ctx context.Context) error {
	stocks, err := s.analyzerStocks(ctx)
	if err != nil {
		return err
	}

	var failed int
	for _, symbol := range stocks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.analyzer.SyncPrices(ctx, symbol); err != nil {
			failed++
			s.log.ErrorContext(ctx, "Failed to sync prices",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err))
			continue
		}
		if err := s.analyzer.SyncFundamentals(ctx, symbol); err != nil {
			failed++
			s.log.ErrorContext(ctx, "Failed to sync fundamentals",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err))
		}
	}

	s.log.InfoContext(ctx, "Price sync run finished",
		logger.IntField("total", len(stocks)),
		logger.IntField("failed", failed))
	return nil
}

func (s *schedulerService) analyzerStocks(ctx context.Context) ([]string, error) {
	symbols, err := s.analyzer.ActiveSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active stocks: %w", err)
	}
	return symbols, nil
}
