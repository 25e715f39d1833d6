package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"leadflow/internal/model"
	"leadflow/internal/service"
)

// NoteHandler serves notes nested under a lead.
type NoteHandler struct {
	notes  service.NoteService
	logger *zap.Logger
}

// NewNoteHandler creates a note handler.
func NewNoteHandler(notes service.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// CreateNoteRequest is the note payload.
type CreateNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// NoteResponse is a note joined with its author's name and role.
type NoteResponse struct {
	ID        uuid.UUID        `json:"id"`
	Content   string           `json:"content"`
	Lead      uuid.UUID        `json:"lead"`
	Author    model.NoteAuthor `json:"author"`
	CreatedAt time.Time        `json:"createdAt"`
}

func newNoteResponse(n *model.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Content:   n.Content,
		Lead:      n.LeadID,
		Author:    n.AuthorView(),
		CreatedAt: n.CreatedAt,
	}
}

// ListNotes godoc
// @Summary List a lead's notes, newest first
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {array} NoteResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id}/notes [get]
func (h *NoteHandler) ListNotes(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	leadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	notes, err := h.notes.ListNotes(c.Request().Context(), identity.Principal, leadID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	out := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, newNoteResponse(&notes[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateNote godoc
// @Summary Add a note to a lead
// @Description Every admin receives a system notification.
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body CreateNoteRequest true "Note"
// @Success 201 {object} NoteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id}/notes [post]
func (h *NoteHandler) CreateNote(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	leadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req CreateNoteRequest
	if err := bindAndValidate(c, h.logger, &req); err != nil {
		return err
	}
	note, err := h.notes.CreateNote(c.Request().Context(), identity.Principal, leadID, req.Content)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, newNoteResponse(note))
}
