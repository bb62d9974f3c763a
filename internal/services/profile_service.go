package services

import (
	"context"
	"fmt"

	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/repository"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/objectstorage"
	"go.uber.org/zap"
)

// ProfileService manages the caller's own profile
type ProfileService struct {
	store   repository.UserStore
	users   repository.UserRepositoryInterface
	skills  repository.SkillStore
	storage objectstorage.ClientInterface
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	store repository.UserStore,
	users repository.UserRepositoryInterface,
	skills repository.SkillStore,
	storage objectstorage.ClientInterface,
) *ProfileService {
	return &ProfileService{
		store:   store,
		users:   users,
		skills:  skills,
		storage: storage,
	}
}

// Get returns the caller's profile with skills attached
func (s *ProfileService) Get(ctx context.Context, session *models.UserSession) (*models.User, error) {
	return s.users.GetByID(ctx, session.UserID)
}

// Update applies a partial profile update. Skill id lists are validated
// against the catalog before the links are replaced.
func (s *ProfileService) Update(ctx context.Context, session *models.UserSession, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.Availability != nil {
		for _, w := range *req.Availability {
			if w.EndMinute <= w.StartMinute {
				return nil, apperrors.InvalidInputError("availability", "window end must come after start")
			}
		}
	}

	if req.MentorSkillIDs != nil {
		if err := s.validateSkillIDs(ctx, *req.MentorSkillIDs); err != nil {
			return nil, err
		}
	}
	if req.MenteeSkillIDs != nil {
		if err := s.validateSkillIDs(ctx, *req.MenteeSkillIDs); err != nil {
			return nil, err
		}
	}

	if _, err := s.store.UpdateUserProfile(ctx, session.UserID, req); err != nil {
		return nil, err
	}

	if req.MentorSkillIDs != nil {
		if err := s.store.ReplaceMentorSkills(ctx, session.UserID, *req.MentorSkillIDs); err != nil {
			return nil, err
		}
	}
	if req.MenteeSkillIDs != nil {
		if err := s.store.ReplaceMenteeSkills(ctx, session.UserID, *req.MenteeSkillIDs); err != nil {
			return nil, err
		}
	}

	logger.Info("Profile updated", zap.Int64("user_id", session.UserID))

	return s.users.GetByID(ctx, session.UserID)
}

func (s *ProfileService) validateSkillIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return apperrors.InvalidInputError("skill_ids", fmt.Sprintf("duplicate skill id %d", id))
		}
		seen[id] = struct{}{}
	}

	count, err := s.skills.CountSkillsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if count != len(ids) {
		return apperrors.InvalidInputError("skill_ids", "one or more skills do not exist")
	}

	return nil
}

// CompleteOnboarding marks onboarding finished, making the caller
// visible to matching. Idempotent.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, session *models.UserSession) (*models.User, error) {
	user, err := s.store.CompleteOnboarding(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	logger.Info("Onboarding completed", zap.Int64("user_id", session.UserID))
	return user, nil
}

// UploadAvatar validates and stores a profile picture, returning its
// public URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, session *models.UserSession, req *models.UploadAvatarRequest) (string, error) {
	if s.storage == nil {
		return "", apperrors.InvalidStateError("avatar uploads are not configured")
	}

	if err := s.storage.ValidateImageType(req.ContentType); err != nil {
		return "", apperrors.InvalidInputError("content_type", err.Error())
	}
	if err := s.storage.ValidateImageSize(req.Image); err != nil {
		return "", apperrors.InvalidInputError("image", err.Error())
	}

	key := s.storage.GenerateAvatarKey(fmt.Sprintf("%d", session.UserID), req.FileName)
	url, err := s.storage.UploadImage(ctx, req.Image, key, req.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.store.SetAvatarURL(ctx, session.UserID, url); err != nil {
		return "", err
	}

	logger.Info("Avatar uploaded",
		zap.Int64("user_id", session.UserID),
		zap.String("key", key))

	return url, nil
}
