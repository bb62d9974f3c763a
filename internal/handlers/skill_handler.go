package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/services"
)

// SkillHandler handles skill catalog endpoints
type SkillHandler struct {
	service services.SkillServiceInterface
}

// NewSkillHandler creates a new SkillHandler
func NewSkillHandler(service services.SkillServiceInterface) *SkillHandler {
	return &SkillHandler{service: service}
}

// List handles GET /api/v1/skills
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SkillListResponse{
		Skills: skills,
		Count:  len(skills),
	})
}

// Create handles POST /api/v1/skills (admin only)
func (h *SkillHandler) Create(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req models.CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	skill, err := h.service.Create(c.Request.Context(), session, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, skill)
}

// Delete handles DELETE /api/v1/skills/:id (admin only)
func (h *SkillHandler) Delete(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), session, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Mentors handles GET /api/v1/skills/:slug/mentors
func (h *SkillHandler) Mentors(c *gin.Context) {
	users, err := h.service.UsersOffering(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// Mentees handles GET /api/v1/skills/:slug/mentees
func (h *SkillHandler) Mentees(c *gin.Context) {
	users, err := h.service.UsersSeeking(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}
