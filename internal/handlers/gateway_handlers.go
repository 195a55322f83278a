package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gymtrack_echo/internal/services"
)

// GatewayHandler receives async notifications from the payment gateway
type GatewayHandler struct {
	checkout *services.CheckoutService
}

// NewGatewayHandler creates a new GatewayHandler
func NewGatewayHandler(checkout *services.CheckoutService) *GatewayHandler {
	return &GatewayHandler{checkout: checkout}
}

// MidtransCallback validates and applies a gateway notification. Settled
// orders are recorded as payments through the billing service.
func (h *GatewayHandler) MidtransCallback(c echo.Context) error {
	if h.checkout == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Online payment not configured")
	}

	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	if err := h.checkout.HandleCallback(c.Request().Context(), payload); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
