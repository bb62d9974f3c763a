package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/services"
)

// ConversationHandler handles direct message thread endpoints
type ConversationHandler struct {
	service services.ConversationServiceInterface
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(service services.ConversationServiceInterface) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// List handles GET /api/v1/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	conversations, err := h.service.List(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ConversationListResponse{
		Conversations: conversations,
		Count:         len(conversations),
	})
}

// Start handles POST /api/v1/conversations
func (h *ConversationHandler) Start(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req models.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	conversation, err := h.service.Start(c.Request.Context(), session, req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, conversation)
}

// ListMessages handles GET /api/v1/conversations/:id/messages
func (h *ConversationHandler) ListMessages(c *gin.Context) {
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

// SendMessage handles POST /api/v1/conversations/:id/messages
func (h *ConversationHandler) SendMessage(c *gin.Context) {
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
