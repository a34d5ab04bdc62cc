package service

import (
	"stock-signals/config"
	"stock-signals/internal/contract"
	"stock-signals/internal/repository"
	"stock-signals/pkg/cache"
	"stock-signals/pkg/logger"
)

type Service struct {
	SignalGenerator   SignalGeneratorService
	InvestmentSignal  InvestmentSignalService
	MLSignal          MLSignalService
	Explanation       ExplanationService
	StockClassifier   StockClassifierService
	RiskManager       RiskManagerService
	AlphaFeatures     AlphaFeatureService
	TripleBarrier     TripleBarrierService
	Backtest          BacktestService
	RealisticBacktest RealisticBacktestService
	Analyzer          AnalyzerService
	Scheduler         SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	predictors contract.PredictorSet,
) *Service {
	signalGenerator := NewSignalGeneratorService(log)
	investmentSignal := NewInvestmentSignalService(log)
	mlSignal := NewMLSignalService(log, signalGenerator)
	explanation := NewExplanationService(log)
	stockClassifier := NewStockClassifierService()
	riskManager := NewRiskManagerService(log)

	backtest := NewBacktestService(log, repo.SignalRepo, repo.StockPriceRepo)
	realisticBacktest := NewRealisticBacktestService(log, backtest, riskManager, repo.StockPriceRepo, cfg.Backtest.SizingStopPct)

	analyzer := NewAnalyzerService(cfg, log, repo, inmemoryCache,
		signalGenerator, investmentSignal, mlSignal, explanation, stockClassifier, predictors)
	scheduler := NewSchedulerService(cfg, log, analyzer)

	return &Service{
		SignalGenerator:   signalGenerator,
		InvestmentSignal:  investmentSignal,
		MLSignal:          mlSignal,
		Explanation:       explanation,
		StockClassifier:   stockClassifier,
		RiskManager:       riskManager,
		AlphaFeatures:     NewAlphaFeatureService(),
		TripleBarrier:     NewTripleBarrierService(),
		Backtest:          backtest,
		RealisticBacktest: realisticBacktest,
		Analyzer:          analyzer,
		Scheduler:         scheduler,
	}
}
