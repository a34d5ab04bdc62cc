package service

import (
	"context"
	"time"

	"stock-signals/internal/dto"
	"stock-signals/internal/repository"
	"stock-signals/pkg/logger"
	"stock-signals/pkg/utils"
)

// BacktestService replays stored signal history against historical prices
// and measures how a follower of those signals would have fared. Degenerate
// windows (no signals, too few prices, no trades) come back as report
// fields, not errors: the replay itself succeeded.
type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestReport, error)
	CompareToBenchmark(ctx context.Context, req dto.BacktestRequest, benchmarkReturn float64) (*dto.BenchmarkComparison, error)
}

type backtestService struct {
	log        *logger.Logger
	signalRepo repository.SignalRepository
	priceRepo  repository.StockPriceRepository
}

func NewBacktestService(
	log *logger.Logger,
	signalRepo repository.SignalRepository,
	priceRepo repository.StockPriceRepository,
) BacktestService {
	return &backtestService{
		log:        log,
		signalRepo: signalRepo,
		priceRepo:  priceRepo,
	}
}

func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestReport, error) {
	report := &dto.BacktestReport{
		Symbol:    req.Symbol,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	signals, err := s.signalRepo.GetSignalHistory(ctx, req.Symbol, req.StartDate, req.EndDate)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load signal history for backtest",
			logger.StringField("symbol", req.Symbol), logger.ErrorField(err))
		return nil, err
	}
	if len(signals) == 0 {
		report.Error = "No signals found in date range"
		return report, nil
	}
	report.TotalSignals = len(signals)

	prices, err := s.priceRepo.GetPriceRange(ctx, req.Symbol, req.StartDate, req.EndDate)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load prices for backtest",
			logger.StringField("symbol", req.Symbol), logger.ErrorField(err))
		return nil, err
	}
	if len(prices) < 2 {
		report.Error = "Insufficient price data for backtest"
		return report, nil
	}
	prices.SortAscending()

	trades := simulateSignalFollowing(signals, prices)
	if len(trades) == 0 {
		report.Error = "No trades executed"
		return report, nil
	}

	fillReportMetrics(report, trades)
	return report, nil
}

func (s *backtestService) CompareToBenchmark(ctx context.Context, req dto.BacktestRequest, benchmarkReturn float64) (*dto.BenchmarkComparison, error) {
	report, err := s.RunBacktest(ctx, req)
	if err != nil {
		return nil, err
	}

	comparison := &dto.BenchmarkComparison{BacktestReport: *report}
	if report.Error != "" {
		return comparison, nil
	}

	outperformance := report.TotalReturnPercent - benchmarkReturn
	comparison.BenchmarkReturnPercent = utils.Round2(benchmarkReturn)
	comparison.OutperformancePercent = utils.Round2(outperformance)
	comparison.BeatBenchmark = outperformance > 0
	return comparison, nil
}

// simulateSignalFollowing walks the signals chronologically, holding at
// most one position. A BUY closes any short and opens a long; a SELL does
// the reverse; HOLD is a no-op. Whatever is still open at the end is
// force-closed at the last price.
func simulateSignalFollowing(signals []dto.SignalRecord, prices dto.PriceSeries) []dto.Trade {
	trades := []dto.Trade{}

	var position dto.SignalType
	var entryPrice float64
	var entryDate time.Time

	for i := range signals {
		signal := signals[i]
		currentPrice, ok := priceOnOrNearest(prices, signal.CreatedAt)
		if !ok {
			continue
		}
		signalDate := signal.CreatedAt

		switch {
		case signal.SignalType == dto.SignalBuy && position != dto.SignalBuy:
			if position == dto.SignalSell && entryPrice > 0 {
				trades = append(trades, dto.Trade{
					Type:             dto.TradeSellClose,
					EntryDate:        entryDate,
					ExitDate:         signalDate,
					EntryPrice:       entryPrice,
					ExitPrice:        currentPrice,
					PnlPercent:       ((entryPrice - currentPrice) / entryPrice) * 100,
					SignalConfidence: utils.ToPointer(signal.ConfidenceScore),
				})
			}
			position = dto.SignalBuy
			entryPrice = currentPrice
			entryDate = signalDate

		case signal.SignalType == dto.SignalSell && position != dto.SignalSell:
			if position == dto.SignalBuy && entryPrice > 0 {
				trades = append(trades, dto.Trade{
					Type:             dto.TradeBuyClose,
					EntryDate:        entryDate,
					ExitDate:         signalDate,
					EntryPrice:       entryPrice,
					ExitPrice:        currentPrice,
					PnlPercent:       ((currentPrice - entryPrice) / entryPrice) * 100,
					SignalConfidence: utils.ToPointer(signal.ConfidenceScore),
				})
			}
			position = dto.SignalSell
			entryPrice = currentPrice
			entryDate = signalDate
		}
	}

	if (position == dto.SignalBuy || position == dto.SignalSell) && entryPrice > 0 {
		finalBar := prices[len(prices)-1]
		var pnl float64
		tradeType := dto.TradeBuyClose
		if position == dto.SignalBuy {
			pnl = ((finalBar.Close - entryPrice) / entryPrice) * 100
		} else {
			pnl = ((entryPrice - finalBar.Close) / entryPrice) * 100
			tradeType = dto.TradeSellClose
		}
		trades = append(trades, dto.Trade{
			Type:       tradeType,
			EntryDate:  entryDate,
			ExitDate:   finalBar.Time,
			EntryPrice: entryPrice,
			ExitPrice:  finalBar.Close,
			PnlPercent: pnl,
		})
	}

	return trades
}

// priceOnOrNearest prefers a bar on the signal's calendar date and falls
// back to the closest bar in time.
func priceOnOrNearest(prices dto.PriceSeries, at time.Time) (float64, bool) {
	if len(prices) == 0 {
		return 0, false
	}

	year, month, day := at.Date()
	best := -1
	var bestDistance time.Duration
	for i := range prices {
		py, pm, pd := prices[i].Time.Date()
		if py == year && pm == month && pd == day {
			return prices[i].Close, true
		}
		distance := prices[i].Time.Sub(at)
		if distance < 0 {
			distance = -distance
		}
		if best < 0 || distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}
	return prices[best].Close, true
}

func fillReportMetrics(report *dto.BacktestReport, trades []dto.Trade) {
	pnls := make([]float64, len(trades))
	totalReturn := 0.0
	var wins, losses []float64
	for i, t := range trades {
		pnls[i] = t.PnlPercent
		totalReturn += t.PnlPercent
		if t.PnlPercent > 0 {
			wins = append(wins, t.PnlPercent)
		} else if t.PnlPercent < 0 {
			losses = append(losses, t.PnlPercent)
		}
	}

	report.TotalTrades = len(trades)
	report.WinningTrades = len(wins)
	report.LosingTrades = len(losses)
	report.WinRate = utils.Round2(float64(len(wins)) / float64(len(trades)) * 100)
	report.TotalReturnPercent = utils.Round2(totalReturn)
	report.AvgReturnPerTrade = utils.Round2(totalReturn / float64(len(trades)))
	report.AverageWin = utils.Round2(utils.Mean(wins))
	report.AverageLoss = utils.Round2(utils.Mean(losses))
	report.MaxDrawdownPercent = utils.Round2(maxDrawdownOfPnls(pnls))
	report.Volatility = utils.Round2(utils.StdDevSample(pnls))
	if report.Volatility > 0 {
		report.SharpeRatio = utils.Round2((totalReturn / float64(len(trades))) / report.Volatility)
	}
	report.Trades = lastTrades(trades, 10)
}

// maxDrawdownOfPnls measures the deepest dip of the cumulative pnl curve
// below its running peak, relative to the peak plus the 100% starting base.
func maxDrawdownOfPnls(pnls []float64) float64 {
	cumulative := 0.0
	runningMax := 0.0
	first := true
	worst := 0.0
	for _, pnl := range pnls {
		cumulative += pnl
		if first || cumulative > runningMax {
			runningMax = cumulative
			first = false
		}
		if runningMax+100 != 0 {
			dd := (cumulative - runningMax) / (runningMax + 100)
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst * 100
}

func lastTrades(trades []dto.Trade, n int) []dto.Trade {
	if len(trades) <= n {
		return trades
	}
	return trades[len(trades)-n:]
}
