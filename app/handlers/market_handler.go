// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/heimanarii/fenua-estim/app/dto"
	businessflow "github.com/heimanarii/fenua-estim/business_flow"
	"github.com/heimanarii/fenua-estim/utils"
)

// MarketHandlerInterface defines the contract for market data handlers
type MarketHandlerInterface interface {
	ListCommunes(c fiber.Ctx) error
	GetTrend(c fiber.Ctx) error
}

// MarketHandler handles market reference data HTTP requests
type MarketHandler struct {
	trendFlow businessflow.TrendFlow
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(trendFlow businessflow.TrendFlow) *MarketHandler {
	return &MarketHandler{trendFlow: trendFlow}
}

func (h *MarketHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *MarketHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListCommunes returns the commune set accepted by the estimate form
// @Summary List communes
// @Description List the French Polynesian communes accepted by the estimate form
// @Tags Market
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CommunesResponse} "Communes listed"
// @Router /api/v1/market/communes [get]
func (h *MarketHandler) ListCommunes(c fiber.Ctx) error {
	result, err := h.trendFlow.ListCommunes(h.createRequestContext(c, "/api/v1/market/communes"))
	if err != nil {
		log.Println("Commune listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Commune listing failed", "INTERNAL_ERROR", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Communes listed", result)
}

// GetTrend returns the yearly price index of a commune
// @Summary Get commune trend
// @Description Get the yearly price-per-m² index and evolution of one commune
// @Tags Market
// @Produce json
// @Param commune path string true "Commune name"
// @Success 200 {object} dto.APIResponse{data=dto.TrendResponse} "Trend found"
// @Failure 404 {object} dto.APIResponse "Commune unknown"
// @Router /api/v1/market/trends/{commune} [get]
func (h *MarketHandler) GetTrend(c fiber.Ctx) error {
	commune := c.Params("commune")
	if commune == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Commune is required", "MISSING_COMMUNE", nil)
	}

	result, err := h.trendFlow.GetTrend(h.createRequestContext(c, "/api/v1/market/trends/"+commune), commune)
	if err != nil {
		if businessflow.IsCommuneUnknown(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Commune is not in the accepted set", "COMMUNE_UNKNOWN", nil)
		}

		log.Println("Trend retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Trend retrieval failed", "INTERNAL_ERROR", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Trend found", result)
}

// createRequestContext creates a context with default timeout
func (h *MarketHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
