package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"leadflow/internal/service"
)

// NotificationHandler serves the caller's notification feed.
type NotificationHandler struct {
	notifications service.NotificationService
	logger        *zap.Logger
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(notifications service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// MarkReadRequest selects one notification; an empty body marks all.
type MarkReadRequest struct {
	NotificationID *uuid.UUID `json:"notificationId" swaggertype:"string"`
}

// MarkReadResponse reports how many notifications changed state.
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

// ListNotifications godoc
// @Summary List my notifications
// @Description Newest first, at most 50, with the unread total.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.NotificationFeed
// @Failure 401 {object} errors.ErrorResponse
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	feed, err := h.notifications.ListNotifications(c.Request().Context(), identity.Principal)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, feed)
}

// MarkRead godoc
// @Summary Mark notifications read
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MarkReadRequest false "Notification to mark; omit to mark all"
// @Success 200 {object} MarkReadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /notifications [patch]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req MarkReadRequest
	if err := bindAndValidate(c, h.logger, &req); err != nil {
		return err
	}
	n, err := h.notifications.MarkRead(c.Request().Context(), identity.Principal, req.NotificationID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, MarkReadResponse{Updated: n})
}
