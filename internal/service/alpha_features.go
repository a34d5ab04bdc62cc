package service

import (
	"stock-signals/internal/dto"
	"stock-signals/pkg/utils"
)

const betaWindow = 252

// AlphaFeatureService separates stock-specific returns (alpha) from plain
// market exposure (beta). Stock and benchmark returns are aligned on their
// trailing overlap; at least 20 overlapping points are needed before any
// benchmark-relative feature is computed.
type AlphaFeatureService interface {
	Beta(stockReturns, marketReturns []float64) float64
	NeutralizeMarketBeta(stockReturns, marketReturns []float64, beta float64) []float64
	Features(stockPrices, benchmarkPrices dto.PriceSeries, fundamentals dto.FundamentalSnapshot, sectorPE *float64) dto.AlphaFeatures
}

type alphaFeatureService struct{}

func NewAlphaFeatureService() AlphaFeatureService {
	return &alphaFeatureService{}
}

// Beta regresses stock returns on market returns over the trailing year.
// Degenerate inputs fall back to the market beta of 1.0.
func (s *alphaFeatureService) Beta(stockReturns, marketReturns []float64) float64 {
	stock, market := alignTail(stockReturns, marketReturns, betaWindow)
	if len(stock) < 2 {
		return 1.0
	}

	marketVariance := utils.VarianceSample(market)
	if marketVariance == 0 {
		return 1.0
	}
	return utils.CovarianceSample(stock, market) / marketVariance
}

// NeutralizeMarketBeta subtracts the beta-scaled market move from each
// stock return, leaving the stock-specific residual.
func (s *alphaFeatureService) NeutralizeMarketBeta(stockReturns, marketReturns []float64, beta float64) []float64 {
	stock, market := alignTail(stockReturns, marketReturns, 0)
	if len(stock) < 2 {
		return nil
	}

	alpha := make([]float64, len(stock))
	for i := range stock {
		alpha[i] = stock[i] - beta*market[i]
	}
	return alpha
}

func (s *alphaFeatureService) Features(stockPrices, benchmarkPrices dto.PriceSeries, fundamentals dto.FundamentalSnapshot, sectorPE *float64) dto.AlphaFeatures {
	features := dto.AlphaFeatures{Beta: 1.0}
	stockReturns := stockPrices.Returns()

	var benchmarkReturns []float64
	if len(benchmarkPrices) > 0 {
		benchmarkReturns = benchmarkPrices.Returns()
	}

	if len(benchmarkReturns) > 0 {
		stock, market := alignTail(stockReturns, benchmarkReturns, 0)
		if len(stock) >= 20 {
			beta := s.Beta(stock, market)
			features.Beta = beta

			alphaReturns := s.NeutralizeMarketBeta(stock, market, beta)
			if len(alphaReturns) >= 5 {
				tail5 := alphaReturns[len(alphaReturns)-5:]
				features.Alpha5D = utils.Mean(tail5)
				features.Alpha5DVol = utils.StdDevSample(tail5)
			}
			if len(alphaReturns) >= 20 {
				tail20 := alphaReturns[len(alphaReturns)-20:]
				features.Alpha20D = utils.Mean(tail20)
				features.Alpha20DVol = utils.StdDevSample(tail20)
				if features.Alpha20DVol > 0 {
					features.AlphaSharpe = features.Alpha20D / features.Alpha20DVol
				}
			}

			features.MarketCorrelation = utils.Correlation(stock, market)

			stockCum, marketCum := 1.0, 1.0
			for i := range stock {
				stockCum *= 1 + stock[i]
				marketCum *= 1 + market[i]
			}
			if marketCum != 0 {
				features.RelativeStrength = stockCum / marketCum
			}
		}
	}

	if fundamentals.PERatio != nil && sectorPE != nil && *sectorPE > 0 {
		diff := *fundamentals.PERatio - *sectorPE
		features.PEVsSector = utils.ToPointer(diff)
		features.PEVsSectorPct = utils.ToPointer((diff / *sectorPE) * 100)
	}

	if len(stockReturns) >= 20 && len(benchmarkReturns) >= 20 {
		stockVol := utils.StdDevSample(stockReturns[len(stockReturns)-20:])
		marketVol := utils.StdDevSample(benchmarkReturns[len(benchmarkReturns)-20:])
		if marketVol > 0 {
			features.VolatilityRatio = utils.ToPointer(stockVol / marketVol)
		}
	}

	return features
}

// alignTail truncates both series to their trailing overlap, optionally
// capped at window elements.
func alignTail(a, b []float64, window int) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if window > 0 && n > window {
		n = window
	}
	return a[len(a)-n:], b[len(b)-n:]
}
