package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"leadflow/internal/service"
)

// LeadHandler serves the lead lifecycle endpoints.
type LeadHandler struct {
	leads  service.LeadService
	logger *zap.Logger
}

// NewLeadHandler creates a lead handler.
func NewLeadHandler(leads service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, logger: logger}
}

// CreateLeadRequest is the lead intake payload.
type CreateLeadRequest struct {
	Name         string           `json:"name" validate:"required"`
	Email        string           `json:"email" validate:"omitempty,email"`
	Phone        string           `json:"phone"`
	Company      string           `json:"company"`
	Source       string           `json:"source"`
	Status       string           `json:"status"`
	AssignedTo   string           `json:"assignedTo" validate:"omitempty,uuid"`
	Date         *time.Time       `json:"date"`
	NextFollowUp *time.Time       `json:"nextFollowUp"`
	Value        *decimal.Decimal `json:"value" swaggertype:"string"`
	Note         string           `json:"note"`
}

// UpdateLeadRequest is a partial lead update shared by PUT and PATCH.
// assignedTo and nextFollowUp accept null to clear.
type UpdateLeadRequest struct {
	Name         *string                `json:"name"`
	Email        *string                `json:"email" validate:"omitempty,email"`
	Phone        *string                `json:"phone"`
	Company      *string                `json:"company"`
	Source       *string                `json:"source"`
	Status       *string                `json:"status"`
	AssignedTo   service.OptionalString `json:"assignedTo" swaggertype:"string"`
	NextFollowUp service.NullableTime   `json:"nextFollowUp" swaggertype:"string"`
	Date         *time.Time             `json:"date"`
	Value        *decimal.Decimal       `json:"value" swaggertype:"string"`
	Version      *int64                 `json:"version"`
}

// ListLeads godoc
// @Summary List leads
// @Description Agents see only leads assigned to them.
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.LeadView
// @Failure 401 {object} errors.ErrorResponse
// @Router /leads [get]
func (h *LeadHandler) ListLeads(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	leads, err := h.leads.ListLeads(c.Request().Context(), identity.Principal)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, leads)
}

// GetLead godoc
// @Summary Get lead by id
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} model.LeadView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id} [get]
func (h *LeadHandler) GetLead(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	lead, err := h.leads.GetLead(c.Request().Context(), identity.Principal, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// CreateLead godoc
// @Summary Create lead
// @Description Agents that omit assignedTo own the new lead.
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLeadRequest true "Lead payload"
// @Success 201 {object} model.LeadView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads [post]
func (h *LeadHandler) CreateLead(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req CreateLeadRequest
	if err := bindAndValidate(c, h.logger, &req); err != nil {
		return err
	}

	lead, err := h.leads.CreateLead(c.Request().Context(), identity.Principal, service.CreateLeadInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Source:       req.Source,
		Status:       req.Status,
		AssignedTo:   req.AssignedTo,
		Date:         req.Date,
		NextFollowUp: req.NextFollowUp,
		Value:        req.Value,
		Note:         req.Note,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, lead)
}

// UpdateLead godoc
// @Summary Update lead
// @Description PUT and PATCH both merge the given fields into the lead.
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body UpdateLeadRequest true "Fields to change"
// @Success 200 {object} model.LeadView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /leads/{id} [put]
// @Router /leads/{id} [patch]
func (h *LeadHandler) UpdateLead(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateLeadRequest
	if err := bindAndValidate(c, h.logger, &req); err != nil {
		return err
	}

	lead, err := h.leads.UpdateLead(c.Request().Context(), identity.Principal, id, service.UpdateLeadInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Source:       req.Source,
		Status:       req.Status,
		AssignedTo:   req.AssignedTo,
		NextFollowUp: req.NextFollowUp,
		Date:         req.Date,
		Value:        req.Value,
		Version:      req.Version,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// DeleteLead godoc
// @Summary Delete lead and its notes
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id} [delete]
func (h *LeadHandler) DeleteLead(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.leads.DeleteLead(c.Request().Context(), identity.Principal, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "lead deleted"})
}
