package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-signals/internal/dto"
)

func (h *HttpAPIHandler) SetupSignals(base *echo.Group) {
	v1 := base.Group("/v1/signals")
	{
		v1.POST("/analyze", h.analyzeStock)
		v1.POST("/run", h.runAnalysis)
		v1.GET("/:symbol", h.getLatestSignal)
	}
}

func (h *HttpAPIHandler) analyzeStock(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.AnalyzeRequest)
	if err := c.Bind(req); err != nil {
		response := dto.NewBadRequestResponse("invalid request body")
		return c.JSON(response.Code, response)
	}
	if err := h.validator.Struct(req); err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	result, err := h.service.Analyzer.Analyze(ctx, req.Symbol, req.UseML)
	if err != nil {
		response := dto.NewInternalErrorResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	response := dto.NewSuccessResponse("Analysis completed", result)
	return c.JSON(response.Code, response)
}

// runAnalysis kicks off a full run over all active stocks; it returns
// immediately once the run has started.
func (h *HttpAPIHandler) runAnalysis(c echo.Context) error {
	response := dto.NewBaseResponse(http.StatusOK, "Start running analysis", nil)
	if err := h.service.Scheduler.RunAnalysis(c.Request().Context()); err != nil {
		response.Code = http.StatusInternalServerError
		response.Message = err.Error()
	}
	return c.JSON(response.Code, response)
}

func (h *HttpAPIHandler) getLatestSignal(c echo.Context) error {
	ctx := c.Request().Context()
	symbol := c.Param("symbol")

	signal, err := h.service.Analyzer.LatestSignal(ctx, symbol)
	if err != nil {
		response := dto.NewInternalErrorResponse(err.Error())
		return c.JSON(response.Code, response)
	}
	if signal == nil {
		response := dto.NewNotFoundResponse("no signal found for symbol")
		return c.JSON(response.Code, response)
	}

	response := dto.NewSuccessResponse("Latest signal", signal)
	return c.JSON(response.Code, response)
}
