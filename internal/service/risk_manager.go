package service

import (
	"errors"
	"fmt"

	"stock-signals/internal/dto"
	"stock-signals/pkg/logger"
)

const (
	DefaultRiskPerTrade    = 0.02
	DefaultRiskRewardRatio = 2.0
	DefaultMaxPositionPct  = 0.10

	defaultATRMultiplier    = 2.0
	defaultMaxPortfolioRisk = 0.10
)

// RiskManagerService sizes positions so a stopped-out trade loses a fixed
// fraction of the account, and derives stop and target levels from it.
// All calculations are pure; validation failures are real errors.
type RiskManagerService interface {
	CalculatePositionSize(accountValue, entryPrice, stopLossPrice, riskPerTrade, riskRewardRatio, maxPositionPct float64) (dto.PositionSize, error)
	CalculateStopLoss(entryPrice, volatility float64, tolerance dto.RiskTolerance) float64
	CalculateTakeProfit(entryPrice, stopLossPrice, riskRewardRatio float64) float64
	ValidatePositionRisk(accountValue, positionValue, maxPortfolioRisk float64) dto.PositionRiskCheck
}

type riskManagerService struct {
	log *logger.Logger
}

func NewRiskManagerService(log *logger.Logger) RiskManagerService {
	return &riskManagerService{log: log}
}

// CalculatePositionSize implements fixed-fractional sizing:
// quantity = (account * riskPerTrade) / |entry - stop|, capped so the
// position value never exceeds maxPositionPct of the account. Zero
// parameters fall back to the package defaults.
func (s *riskManagerService) CalculatePositionSize(accountValue, entryPrice, stopLossPrice, riskPerTrade, riskRewardRatio, maxPositionPct float64) (dto.PositionSize, error) {
	if accountValue <= 0 {
		return dto.PositionSize{}, errors.New("account value must be positive")
	}
	if entryPrice <= 0 {
		return dto.PositionSize{}, errors.New("entry price must be positive")
	}
	if stopLossPrice <= 0 {
		return dto.PositionSize{}, errors.New("stop loss price must be positive")
	}

	if riskPerTrade == 0 {
		riskPerTrade = DefaultRiskPerTrade
	}
	if riskRewardRatio == 0 {
		riskRewardRatio = DefaultRiskRewardRatio
	}
	if maxPositionPct == 0 {
		maxPositionPct = DefaultMaxPositionPct
	}

	priceRisk := entryPrice - stopLossPrice
	if priceRisk < 0 {
		priceRisk = -priceRisk
	}
	if priceRisk == 0 {
		return dto.PositionSize{}, errors.New("stop loss price cannot equal entry price")
	}

	riskAmount := accountValue * riskPerTrade
	quantity := riskAmount / priceRisk

	maxQuantityBySize := (accountValue * maxPositionPct) / entryPrice
	if quantity > maxQuantityBySize {
		quantity = maxQuantityBySize
	}
	actualRiskAmount := quantity * priceRisk

	var takeProfitPrice float64
	if entryPrice > stopLossPrice {
		takeProfitPrice = entryPrice + priceRisk*riskRewardRatio
	} else {
		takeProfitPrice = entryPrice - priceRisk*riskRewardRatio
	}

	return dto.PositionSize{
		Quantity:            quantity,
		StopLossPrice:       stopLossPrice,
		TakeProfitPrice:     takeProfitPrice,
		RiskAmount:          actualRiskAmount,
		MaxLossPercent:      (priceRisk / entryPrice) * 100,
		TargetProfitPercent: (abs(takeProfitPrice-entryPrice) / entryPrice) * 100,
		RiskRewardRatio:     riskRewardRatio,
	}, nil
}

// CalculateStopLoss places a volatility-scaled stop below the entry for a
// long position. Volatility is a decimal (0.20 = 20%). The stop never sits
// more than 20% below the entry.
func (s *riskManagerService) CalculateStopLoss(entryPrice, volatility float64, tolerance dto.RiskTolerance) float64 {
	multiplier := 2.0
	switch tolerance {
	case dto.RiskConservative:
		multiplier = 1.5
	case dto.RiskAggressive:
		multiplier = 3.0
	}

	stopDistance := entryPrice * volatility * multiplier * defaultATRMultiplier
	stopLoss := entryPrice - stopDistance

	floor := entryPrice - entryPrice*0.20
	if stopLoss < floor {
		stopLoss = floor
	}
	return stopLoss
}

func (s *riskManagerService) CalculateTakeProfit(entryPrice, stopLossPrice, riskRewardRatio float64) float64 {
	priceRisk := abs(entryPrice - stopLossPrice)
	if entryPrice > stopLossPrice {
		return entryPrice + priceRisk*riskRewardRatio
	}
	return entryPrice - priceRisk*riskRewardRatio
}

// ValidatePositionRisk checks a position value against the account. It
// warns above 20% regardless of the configured limit.
func (s *riskManagerService) ValidatePositionRisk(accountValue, positionValue, maxPortfolioRisk float64) dto.PositionRiskCheck {
	if maxPortfolioRisk == 0 {
		maxPortfolioRisk = defaultMaxPortfolioRisk
	}

	positionPct := (positionValue / accountValue) * 100
	check := dto.PositionRiskCheck{
		IsValid:         positionPct <= maxPortfolioRisk*100,
		PositionPercent: positionPct,
		Warnings:        []string{},
	}

	if positionPct > 20 {
		check.Warnings = append(check.Warnings, fmt.Sprintf("Position size (%.2f%%) exceeds 20%% of portfolio", positionPct))
	}
	if positionPct > maxPortfolioRisk*100 {
		check.Warnings = append(check.Warnings, fmt.Sprintf("Position exceeds maximum risk limit (%g%%)", maxPortfolioRisk*100))
	}
	return check
}
