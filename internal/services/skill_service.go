package services

import (
	"context"

	"github.com/mentormesh/mentormesh-api/internal/cache"
	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/repository"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/slug"
	"go.uber.org/zap"
)

// SkillService manages the skill catalog and its read projections
type SkillService struct {
	skills      repository.SkillStore
	users       repository.UserStore
	skillsCache cache.SkillsCacheInterface
}

// NewSkillService creates a new SkillService
func NewSkillService(skills repository.SkillStore, users repository.UserStore, skillsCache cache.SkillsCacheInterface) *SkillService {
	return &SkillService{
		skills:      skills,
		users:       users,
		skillsCache: skillsCache,
	}
}

// List returns the skill catalog from cache
func (s *SkillService) List(ctx context.Context) ([]models.Skill, error) {
	return s.skillsCache.Get(ctx)
}

// Create adds a skill to the catalog, admin only. The cached catalog is
// invalidated so the new skill is visible immediately.
func (s *SkillService) Create(ctx context.Context, session *models.UserSession, req *models.CreateSkillRequest) (*models.Skill, error) {
	if !session.Role.IsAdmin() {
		return nil, apperrors.AccessDeniedError("only admins can manage the skill catalog")
	}

	skill, err := s.skills.CreateSkill(ctx, req.Name, slug.GenerateSkillSlug(req.Name))
	if err != nil {
		return nil, err
	}

	s.skillsCache.Invalidate()

	logger.Info("Skill created",
		zap.Int64("skill_id", skill.ID),
		zap.String("name", skill.Name),
		zap.String("slug", skill.Slug))

	return skill, nil
}

// Delete removes a skill from the catalog, admin only
func (s *SkillService) Delete(ctx context.Context, session *models.UserSession, id int64) error {
	if !session.Role.IsAdmin() {
		return apperrors.AccessDeniedError("only admins can manage the skill catalog")
	}

	if err := s.skills.DeleteSkill(ctx, id); err != nil {
		return err
	}

	s.skillsCache.Invalidate()

	logger.Info("Skill deleted", zap.Int64("skill_id", id))
	return nil
}

// UsersOffering returns users who mentor the skill identified by slug.
// An existing skill with no users yields an empty list, not an error.
func (s *SkillService) UsersOffering(ctx context.Context, skillSlug string) ([]models.User, error) {
	skill, err := s.skills.GetSkillBySlug(ctx, skillSlug)
	if err != nil {
		return nil, err
	}
	return s.users.ListUsersWithSkill(ctx, "user_mentor_skills", skill.ID)
}

// UsersSeeking returns users who want to learn the skill identified by
// slug.
func (s *SkillService) UsersSeeking(ctx context.Context, skillSlug string) ([]models.User, error) {
	skill, err := s.skills.GetSkillBySlug(ctx, skillSlug)
	if err != nil {
		return nil, err
	}
	return s.users.ListUsersWithSkill(ctx, "user_mentee_skills", skill.ID)
}
