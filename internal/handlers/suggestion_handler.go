package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/services"
)

// SuggestionHandler handles suggestion lifecycle endpoints
type SuggestionHandler struct {
	service services.SuggestionServiceInterface
}

// NewSuggestionHandler creates a new SuggestionHandler
func NewSuggestionHandler(service services.SuggestionServiceInterface) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// List handles GET /api/v1/suggestions
func (h *SuggestionHandler) List(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	suggestions, err := h.service.List(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuggestionListResponse{
		Suggestions: suggestions,
		Count:       len(suggestions),
	})
}

// Create handles POST /api/v1/suggestions
func (h *SuggestionHandler) Create(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req models.CreateSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	suggestion, err := h.service.Create(c.Request.Context(), session, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, suggestion)
}

// Respond handles POST /api/v1/suggestions/:id/respond
func (h *SuggestionHandler) Respond(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.RespondSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.service.Respond(c.Request.Context(), session, id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
