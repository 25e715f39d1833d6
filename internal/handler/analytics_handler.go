package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"leadflow/internal/service"
)

// AnalyticsHandler serves the dashboard rollup.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	logger    *zap.Logger
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(analytics service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, logger: logger}
}

// Summary godoc
// @Summary Lead analytics
// @Description Agents get counts over their own leads; agent head-counts are zero for them.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Analytics
// @Failure 401 {object} errors.ErrorResponse
// @Router /analytics [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	out, err := h.analytics.Summary(c.Request().Context(), identity.Principal)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}
