package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/services"
)

// MentorshipHandler handles mentorship lifecycle and thread endpoints
type MentorshipHandler struct {
	service services.MentorshipServiceInterface
}

// NewMentorshipHandler creates a new MentorshipHandler
func NewMentorshipHandler(service services.MentorshipServiceInterface) *MentorshipHandler {
	return &MentorshipHandler{service: service}
}

// List handles GET /api/v1/mentorships
func (h *MentorshipHandler) List(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	mentorships, err := h.service.List(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MentorshipListResponse{
		Mentorships: mentorships,
		Count:       len(mentorships),
	})
}

// Get handles GET /api/v1/mentorships/:id
func (h *MentorshipHandler) Get(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	mentorship, err := h.service.Get(c.Request.Context(), session, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mentorship)
}

// Activate handles POST /api/v1/mentorships/:id/activate
func (h *MentorshipHandler) Activate(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	mentorship, err := h.service.Activate(c.Request.Context(), session, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mentorship)
}

// Complete handles POST /api/v1/mentorships/:id/complete
func (h *MentorshipHandler) Complete(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Notes are optional; an empty body is fine
	var req models.CompleteMentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondValidationError(c, err)
		return
	}

	mentorship, err := h.service.Complete(c.Request.Context(), session, id, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mentorship)
}

// Cancel handles POST /api/v1/mentorships/:id/cancel
func (h *MentorshipHandler) Cancel(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CancelMentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondValidationError(c, err)
		return
	}

	mentorship, err := h.service.Cancel(c.Request.Context(), session, id, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mentorship)
}

// ListMessages handles GET /api/v1/mentorships/:id/messages
func (h *MentorshipHandler) ListMessages(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), session, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageListResponse{
		Messages: messages,
		Count:    len(messages),
	})
}

// SendMessage handles POST /api/v1/mentorships/:id/messages
func (h *MentorshipHandler) SendMessage(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	message, err := h.service.SendMessage(c.Request.Context(), session, id, req.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}
