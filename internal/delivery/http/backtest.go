package http

import (
	"github.com/labstack/echo/v4"

	"stock-signals/internal/dto"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	v1 := base.Group("/v1/backtest")
	{
		v1.POST("", h.runBacktest)
		v1.POST("/realistic", h.runRealisticBacktest)
		v1.POST("/benchmark", h.compareToBenchmark)
	}
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BacktestRequest)
	if err := c.Bind(req); err != nil {
		response := dto.NewBadRequestResponse("invalid request body")
		return c.JSON(response.Code, response)
	}
	if err := h.validator.Struct(req); err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	result, err := h.service.Backtest.RunBacktest(ctx, *req)
	if err != nil {
		response := dto.NewInternalErrorResponse("failed to run backtest")
		return c.JSON(response.Code, response)
	}

	response := dto.NewSuccessResponse("Backtest completed", result)
	return c.JSON(response.Code, response)
}

func (h *HttpAPIHandler) runRealisticBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.RealisticBacktestRequest)
	if err := c.Bind(req); err != nil {
		response := dto.NewBadRequestResponse("invalid request body")
		return c.JSON(response.Code, response)
	}
	if err := h.validator.Struct(req); err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	result, err := h.service.RealisticBacktest.RunBacktest(ctx, *req)
	if err != nil {
		response := dto.NewInternalErrorResponse("failed to run realistic backtest")
		return c.JSON(response.Code, response)
	}

	response := dto.NewSuccessResponse("Realistic backtest completed", result)
	return c.JSON(response.Code, response)
}

func (h *HttpAPIHandler) compareToBenchmark(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BenchmarkBacktestRequest)
	if err := c.Bind(req); err != nil {
		response := dto.NewBadRequestResponse("invalid request body")
		return c.JSON(response.Code, response)
	}
	if err := h.validator.Struct(req); err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	result, err := h.service.Backtest.CompareToBenchmark(ctx, req.BacktestRequest, req.BenchmarkReturnPercent)
	if err != nil {
		response := dto.NewInternalErrorResponse("failed to compare to benchmark")
		return c.JSON(response.Code, response)
	}

	response := dto.NewSuccessResponse("Benchmark comparison completed", result)
	return c.JSON(response.Code, response)
}
