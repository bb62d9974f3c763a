package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/services"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func int64ListPtr(ids ...int64) *[]int64 {
	return &ids
}

func TestProfileGet(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByID", mock.Anything, int64(5)).
		Return(&models.User{ID: 5, Name: "Casey", MentorSkills: []models.Skill{skillGo}}, nil)

	svc := services.NewProfileService(new(MockUserStore), mockUsers, new(MockSkillStore), new(MockStorageClient))
	user, err := svc.Get(context.Background(), regularSession(5))

	assert.NoError(t, err)
	assert.Equal(t, "Casey", user.Name)
	assert.Len(t, user.MentorSkills, 1)
}

func TestProfileUpdate_RejectsInvertedAvailabilityWindow(t *testing.T) {
	svc := services.NewProfileService(new(MockUserStore), new(MockUserRepository), new(MockSkillStore), new(MockStorageClient))

	windows := []models.AvailabilityWindow{{Day: 1, StartMinute: 600, EndMinute: 540}}
	_, err := svc.Update(context.Background(), regularSession(5), &models.UpdateProfileRequest{
		Availability: &windows,
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

func TestProfileUpdate_RejectsDuplicateSkillIDs(t *testing.T) {
	svc := services.NewProfileService(new(MockUserStore), new(MockUserRepository), new(MockSkillStore), new(MockStorageClient))

	_, err := svc.Update(context.Background(), regularSession(5), &models.UpdateProfileRequest{
		MentorSkillIDs: int64ListPtr(1, 2, 1),
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

func TestProfileUpdate_RejectsUnknownSkillIDs(t *testing.T) {
	mockSkills := new(MockSkillStore)
	mockSkills.On("CountSkillsByIDs", mock.Anything, []int64{1, 999}).Return(1, nil)

	svc := services.NewProfileService(new(MockUserStore), new(MockUserRepository), mockSkills, new(MockStorageClient))
	_, err := svc.Update(context.Background(), regularSession(5), &models.UpdateProfileRequest{
		MenteeSkillIDs: int64ListPtr(1, 999),
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

func TestProfileUpdate_ReplacesSkillLinks(t *testing.T) {
	mockStore := new(MockUserStore)
	mockUsers := new(MockUserRepository)
	mockSkills := new(MockSkillStore)

	req := &models.UpdateProfileRequest{
		MentorSkillIDs: int64ListPtr(1, 2),
	}

	mockSkills.On("CountSkillsByIDs", mock.Anything, []int64{1, 2}).Return(2, nil)
	mockStore.On("UpdateUserProfile", mock.Anything, int64(5), req).Return(&models.User{ID: 5}, nil)
	mockStore.On("ReplaceMentorSkills", mock.Anything, int64(5), []int64{1, 2}).Return(nil)
	mockUsers.On("GetByID", mock.Anything, int64(5)).
		Return(&models.User{ID: 5, MentorSkills: []models.Skill{skillGo, skillSQL}}, nil)

	svc := services.NewProfileService(mockStore, mockUsers, mockSkills, new(MockStorageClient))
	user, err := svc.Update(context.Background(), regularSession(5), req)

	assert.NoError(t, err)
	assert.Len(t, user.MentorSkills, 2)
	mockStore.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "ReplaceMenteeSkills", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileUpdate_ClearingSkillsSkipsCatalogCheck(t *testing.T) {
	mockStore := new(MockUserStore)
	mockUsers := new(MockUserRepository)
	mockSkills := new(MockSkillStore)

	empty := []int64{}
	req := &models.UpdateProfileRequest{
		MenteeSkillIDs: &empty,
	}

	mockStore.On("UpdateUserProfile", mock.Anything, int64(5), req).Return(&models.User{ID: 5}, nil)
	mockStore.On("ReplaceMenteeSkills", mock.Anything, int64(5), []int64{}).Return(nil)
	mockUsers.On("GetByID", mock.Anything, int64(5)).Return(&models.User{ID: 5}, nil)

	svc := services.NewProfileService(mockStore, mockUsers, mockSkills, new(MockStorageClient))
	_, err := svc.Update(context.Background(), regularSession(5), req)

	assert.NoError(t, err)
	mockSkills.AssertNotCalled(t, "CountSkillsByIDs", mock.Anything, mock.Anything)
}

func TestProfileCompleteOnboarding(t *testing.T) {
	mockStore := new(MockUserStore)
	now := time.Now()
	mockStore.On("CompleteOnboarding", mock.Anything, int64(5)).
		Return(&models.User{ID: 5, OnboardingCompletedAt: &now}, nil)

	svc := services.NewProfileService(mockStore, new(MockUserRepository), new(MockSkillStore), new(MockStorageClient))
	user, err := svc.CompleteOnboarding(context.Background(), regularSession(5))

	assert.NoError(t, err)
	assert.True(t, user.OnboardingComplete())
}

func TestProfileUploadAvatar(t *testing.T) {
	mockStore := new(MockUserStore)
	mockStorage := new(MockStorageClient)

	req := &models.UploadAvatarRequest{
		Image:       "aGVsbG8=",
		FileName:    "me.png",
		ContentType: "image/png",
	}

	mockStorage.On("ValidateImageType", "image/png").Return(nil)
	mockStorage.On("ValidateImageSize", "aGVsbG8=").Return(nil)
	mockStorage.On("GenerateAvatarKey", "5", "me.png").Return("avatars/5/me.png")
	mockStorage.On("UploadImage", mock.Anything, "aGVsbG8=", "avatars/5/me.png", "image/png").
		Return("https://cdn.example.com/avatars/5/me.png", nil)
	mockStore.On("SetAvatarURL", mock.Anything, int64(5), "https://cdn.example.com/avatars/5/me.png").Return(nil)

	svc := services.NewProfileService(mockStore, new(MockUserRepository), new(MockSkillStore), mockStorage)
	url, err := svc.UploadAvatar(context.Background(), regularSession(5), req)

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/5/me.png", url)
	mockStore.AssertExpectations(t)
}

func TestProfileUploadAvatar_StorageNotConfigured(t *testing.T) {
	svc := services.NewProfileService(new(MockUserStore), new(MockUserRepository), new(MockSkillStore), nil)

	var err error
	assert.NotPanics(t, func() {
		_, err = svc.UploadAvatar(context.Background(), regularSession(5), &models.UploadAvatarRequest{
			Image:       "aGVsbG8=",
			FileName:    "me.png",
			ContentType: "image/png",
		})
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))
}

func TestProfileUploadAvatar_RejectsBadContentType(t *testing.T) {
	mockStorage := new(MockStorageClient)
	mockStorage.On("ValidateImageType", "application/pdf").
		Return(assert.AnError)

	svc := services.NewProfileService(new(MockUserStore), new(MockUserRepository), new(MockSkillStore), mockStorage)
	_, err := svc.UploadAvatar(context.Background(), regularSession(5), &models.UploadAvatarRequest{
		Image:       "aGVsbG8=",
		FileName:    "doc.pdf",
		ContentType: "application/pdf",
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	mockStorage.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
