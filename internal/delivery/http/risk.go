package http

import (
	"github.com/labstack/echo/v4"

	"stock-signals/internal/dto"
)

func (h *HttpAPIHandler) SetupRisk(base *echo.Group) {
	v1 := base.Group("/v1/risk")
	{
		v1.POST("/position-size", h.calculatePositionSize)
	}
}

func (h *HttpAPIHandler) calculatePositionSize(c echo.Context) error {
	req := new(dto.PositionSizeRequest)
	if err := c.Bind(req); err != nil {
		response := dto.NewBadRequestResponse("invalid request body")
		return c.JSON(response.Code, response)
	}
	if err := h.validator.Struct(req); err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	result, err := h.service.RiskManager.CalculatePositionSize(
		req.AccountValue, req.EntryPrice, req.StopLossPrice,
		req.RiskPerTrade, req.RiskRewardRatio, req.MaxPositionPct)
	if err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	response := dto.NewSuccessResponse("Position size calculated", result)
	return c.JSON(response.Code, response)
}
