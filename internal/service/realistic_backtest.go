package service

import (
	"context"
	"time"

	"stock-signals/internal/dto"
	"stock-signals/internal/repository"
	"stock-signals/pkg/logger"
	"stock-signals/pkg/utils"
)

// Friction parameters, calibrated for liquid equities at an online broker.
const (
	CommissionRate = 0.001
	SpreadBPS      = 5.0

	ExecutionDelay    = 30 * time.Second
	SlippageBPSMarket = 10.0
	SlippageBPSLimit  = 2.0

	// Applied only when the order exceeds 1% of daily volume.
	MarketImpactBPSPerPct = 0.5

	DefaultStartingAccount = 100000.0
	DefaultSizingStopPct   = 0.03
)

// RealisticBacktestService re-prices the naive backtest's trades with the
// frictions a live follower would face: commission, spread, slippage,
// market impact on oversized orders, and a fill delay after each signal.
// Position sizes are fixed-fractional against a compounding account.
type RealisticBacktestService interface {
	RunBacktest(ctx context.Context, req dto.RealisticBacktestRequest) (*dto.RealisticBacktestReport, error)
}

type realisticBacktestService struct {
	log         *logger.Logger
	backtest    BacktestService
	riskManager RiskManagerService
	priceRepo   repository.StockPriceRepository
	// sizingStopPct places the synthetic stop used only for sizing, as a
	// fraction below the entry.
	sizingStopPct float64
}

func NewRealisticBacktestService(
	log *logger.Logger,
	backtest BacktestService,
	riskManager RiskManagerService,
	priceRepo repository.StockPriceRepository,
	sizingStopPct float64,
) RealisticBacktestService {
	if sizingStopPct <= 0 || sizingStopPct >= 1 {
		sizingStopPct = DefaultSizingStopPct
	}
	return &realisticBacktestService{
		log:           log,
		backtest:      backtest,
		riskManager:   riskManager,
		priceRepo:     priceRepo,
		sizingStopPct: sizingStopPct,
	}
}

func (s *realisticBacktestService) RunBacktest(ctx context.Context, req dto.RealisticBacktestRequest) (*dto.RealisticBacktestReport, error) {
	naive, err := s.backtest.RunBacktest(ctx, req.BacktestRequest)
	if err != nil {
		return nil, err
	}

	report := &dto.RealisticBacktestReport{BacktestReport: *naive}
	if naive.Error != "" {
		return report, nil
	}

	prices, err := s.priceRepo.GetPriceRange(ctx, req.Symbol, req.StartDate, req.EndDate)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load prices for realistic backtest",
			logger.StringField("symbol", req.Symbol), logger.ErrorField(err))
		return nil, err
	}
	prices.SortAscending()

	accountValue := req.AccountValue
	if accountValue <= 0 {
		accountValue = DefaultStartingAccount
	}
	riskPerTrade := req.RiskPerTrade
	if riskPerTrade <= 0 {
		riskPerTrade = DefaultRiskPerTrade
	}

	currentAccount := accountValue
	realisticTrades := make([]dto.RealisticTrade, 0, len(naive.Trades))
	totalRealisticReturn := 0.0

	for _, trade := range naive.Trades {
		dailyVolume := volumeOnDate(prices, trade.EntryDate)

		// The stop here only sizes the position; exits still follow the
		// replayed signals.
		stopLoss := trade.EntryPrice * (1 - s.sizingStopPct)
		position, err := s.riskManager.CalculatePositionSize(currentAccount, trade.EntryPrice, stopLoss, riskPerTrade, 0, 0)
		if err != nil {
			s.log.WarnContext(ctx, "Skipping unsizable trade in realistic backtest",
				logger.StringField("symbol", req.Symbol), logger.ErrorField(err))
			continue
		}
		quantity := position.Quantity

		pnl := s.realisticPnl(trade, quantity, prices, dailyVolume)
		currentAccount += pnl.NetPnl
		totalRealisticReturn += pnl.NetReturnPct

		realisticTrades = append(realisticTrades, dto.RealisticTrade{
			Trade:             trade,
			Quantity:          quantity,
			Realistic:         pnl,
			AccountValueAfter: currentAccount,
		})
	}

	report.RealisticTotalReturnPct = utils.Round2(totalRealisticReturn)
	report.NaiveTotalReturnPct = utils.Round2(naive.TotalReturnPercent)
	report.CostImpactPct = utils.Round2(naive.TotalReturnPercent - totalRealisticReturn)
	report.FinalAccountValue = utils.Round2(currentAccount)
	report.RealisticTrades = lastRealisticTrades(realisticTrades, 10)
	return report, nil
}

// realisticPnl prices one round trip with delayed fills and per-side costs.
func (s *realisticBacktestService) realisticPnl(trade dto.Trade, quantity float64, prices dto.PriceSeries, dailyVolume *float64) dto.RealisticPnl {
	actualEntry := executionPrice(prices, trade.EntryDate, trade.EntryPrice)
	actualExit := executionPrice(prices, trade.ExitDate, trade.ExitPrice)

	grossPnl := (actualExit - actualEntry) * quantity
	entryCosts := transactionCosts(actualEntry, quantity, true, dailyVolume)
	exitCosts := transactionCosts(actualExit, quantity, true, dailyVolume)
	totalCosts := entryCosts.TotalCost + exitCosts.TotalCost
	netPnl := grossPnl - totalCosts

	pnl := dto.RealisticPnl{
		GrossPnl:         grossPnl,
		NetPnl:           netPnl,
		TotalCosts:       totalCosts,
		EntryPriceWanted: trade.EntryPrice,
		EntryPriceActual: actualEntry,
		ExitPriceWanted:  trade.ExitPrice,
		ExitPriceActual:  actualExit,
		EntryCosts:       entryCosts,
		ExitCosts:        exitCosts,
	}

	initialValue := actualEntry * quantity
	if initialValue > 0 {
		pnl.GrossReturnPct = (grossPnl / initialValue) * 100
		pnl.NetReturnPct = (netPnl / initialValue) * 100
		pnl.CostImpactPct = (totalCosts / initialValue) * 100
	}
	return pnl
}

// transactionCosts itemizes commission, half-spread, slippage, and the
// market impact of orders above 1% of daily volume.
func transactionCosts(price, quantity float64, isMarketOrder bool, dailyVolume *float64) dto.CostBreakdown {
	tradeValue := price * quantity

	slippageBPS := SlippageBPSLimit
	if isMarketOrder {
		slippageBPS = SlippageBPSMarket
	}

	costs := dto.CostBreakdown{
		Commission:   tradeValue * CommissionRate,
		SpreadCost:   tradeValue * (SpreadBPS / 10000),
		SlippageCost: tradeValue * (slippageBPS / 10000),
	}

	if dailyVolume != nil && *dailyVolume > 0 {
		orderPctOfVolume := (quantity / *dailyVolume) * 100
		if orderPctOfVolume > 1 {
			impactBPS := orderPctOfVolume * MarketImpactBPSPerPct
			costs.MarketImpactCost = tradeValue * (impactBPS / 10000)
		}
	}

	costs.TotalCost = costs.Commission + costs.SpreadCost + costs.SlippageCost + costs.MarketImpactCost
	if tradeValue > 0 {
		costs.CostPercent = (costs.TotalCost / tradeValue) * 100
	}
	return costs
}

// executionPrice is the first close at or after signalTime plus the fill
// delay, then the first close after signalTime, then the intended price.
func executionPrice(prices dto.PriceSeries, signalTime time.Time, intendedPrice float64) float64 {
	executionTime := signalTime.Add(ExecutionDelay)

	for i := range prices {
		if !prices[i].Time.Before(executionTime) {
			return prices[i].Close
		}
	}
	for i := range prices {
		if prices[i].Time.After(signalTime) {
			return prices[i].Close
		}
	}
	return intendedPrice
}

func volumeOnDate(prices dto.PriceSeries, at time.Time) *float64 {
	year, month, day := at.Date()
	for i := range prices {
		py, pm, pd := prices[i].Time.Date()
		if py == year && pm == month && pd == day {
			return utils.ToPointer(prices[i].Volume)
		}
	}
	return nil
}

func lastRealisticTrades(trades []dto.RealisticTrade, n int) []dto.RealisticTrade {
	if len(trades) <= n {
		return trades
	}
	return trades[len(trades)-n:]
}
