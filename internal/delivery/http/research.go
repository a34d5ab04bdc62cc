package http

import (
	"github.com/labstack/echo/v4"

	"stock-signals/internal/dto"
	"stock-signals/internal/service"
)

func (h *HttpAPIHandler) SetupResearch(base *echo.Group) {
	v1 := base.Group("/v1/research")
	{
		v1.POST("/labels", h.createLabels)
		v1.POST("/alpha", h.computeAlphaFeatures)
		v1.POST("/scale", h.scaleSeries)
	}
}

// createLabels runs the triple-barrier labeler over stored price history.
func (h *HttpAPIHandler) createLabels(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.LabelRequest)
	if err := c.Bind(req); err != nil {
		response := dto.NewBadRequestResponse("invalid request body")
		return c.JSON(response.Code, response)
	}
	if err := h.validator.Struct(req); err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	prices, err := h.service.Analyzer.PriceHistory(ctx, req.Symbol, req.StartDate, req.EndDate)
	if err != nil {
		response := dto.NewInternalErrorResponse("failed to load price history")
		return c.JSON(response.Code, response)
	}

	horizon := dto.HorizonByName(req.Horizon)
	labels := h.service.TripleBarrier.CreateLabelsForHorizon(prices, horizon)

	response := dto.NewSuccessResponse("Labels created", map[string]interface{}{
		"symbol":  req.Symbol,
		"horizon": horizon,
		"labels":  labels,
	})
	return c.JSON(response.Code, response)
}

func (h *HttpAPIHandler) computeAlphaFeatures(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.AlphaFeatureRequest)
	if err := c.Bind(req); err != nil {
		response := dto.NewBadRequestResponse("invalid request body")
		return c.JSON(response.Code, response)
	}
	if err := h.validator.Struct(req); err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	stockPrices, err := h.service.Analyzer.PriceHistory(ctx, req.Symbol, req.StartDate, req.EndDate)
	if err != nil {
		response := dto.NewInternalErrorResponse("failed to load stock price history")
		return c.JSON(response.Code, response)
	}

	benchmarkPrices, err := h.service.Analyzer.PriceHistory(ctx, req.BenchmarkSymbol, req.StartDate, req.EndDate)
	if err != nil {
		response := dto.NewInternalErrorResponse("failed to load benchmark price history")
		return c.JSON(response.Code, response)
	}

	fundamentals, err := h.service.Analyzer.Fundamentals(ctx, req.Symbol)
	if err != nil {
		response := dto.NewInternalErrorResponse("failed to load fundamentals")
		return c.JSON(response.Code, response)
	}

	features := h.service.AlphaFeatures.Features(stockPrices, benchmarkPrices, fundamentals, req.SectorPE)

	response := dto.NewSuccessResponse("Alpha features computed", features)
	return c.JSON(response.Code, response)
}

// scaleSeries normalizes a feature series with trailing-window statistics
// only, so the output is safe to feed into model training.
func (h *HttpAPIHandler) scaleSeries(c echo.Context) error {
	req := new(dto.ScaleRequest)
	if err := c.Bind(req); err != nil {
		response := dto.NewBadRequestResponse("invalid request body")
		return c.JSON(response.Code, response)
	}
	if err := h.validator.Struct(req); err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	scaler, err := service.NewTimeSeriesScaler(
		service.ScalerMethod(req.Method), req.WindowSize, service.ScalerType(req.ScalerType))
	if err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	scaled := scaler.FitTransform(req.Values, req.MinPeriods)

	response := dto.NewSuccessResponse("Series scaled", map[string]interface{}{
		"method":      req.Method,
		"scaler_type": req.ScalerType,
		"scaled":      scaled,
	})
	return c.JSON(response.Code, response)
}
