package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/services"
)

// MatchHandler handles candidate scoring endpoints
type MatchHandler struct {
	service services.MatchingServiceInterface
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(service services.MatchingServiceInterface) *MatchHandler {
	return &MatchHandler{service: service}
}

// List handles GET /api/v1/matches?role=mentor|mentee
func (h *MatchHandler) List(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	role := models.MatchRole(c.DefaultQuery("role", string(models.MatchRoleMentor)))

	candidates, err := h.service.ScoreCandidates(c.Request.Context(), session.UserID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MatchListResponse{
		Role:       role,
		Candidates: candidates,
		Count:      len(candidates),
	})
}

// Generate handles POST /api/v1/suggestions/generate
func (h *MatchHandler) Generate(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req models.GenerateSuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	suggestions, err := h.service.GenerateSuggestions(c.Request.Context(), session.UserID, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuggestionListResponse{
		Suggestions: suggestions,
		Count:       len(suggestions),
	})
}
