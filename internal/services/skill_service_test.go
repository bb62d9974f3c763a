package services_test

import (
	"context"
	"testing"

	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/services"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSkillList_ServedFromCache(t *testing.T) {
	mockCache := new(MockSkillsCache)
	mockCache.On("Get", mock.Anything).Return([]models.Skill{skillGo, skillSQL}, nil)

	svc := services.NewSkillService(new(MockSkillStore), new(MockUserStore), mockCache)
	skills, err := svc.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, skills, 2)
	mockCache.AssertExpectations(t)
}

func TestSkillCreate_AdminOnly(t *testing.T) {
	mockSkills := new(MockSkillStore)
	mockCache := new(MockSkillsCache)

	svc := services.NewSkillService(mockSkills, new(MockUserStore), mockCache)
	_, err := svc.Create(context.Background(), regularSession(1), &models.CreateSkillRequest{Name: "Go"})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrAccessDenied))
	mockSkills.AssertNotCalled(t, "CreateSkill", mock.Anything, mock.Anything, mock.Anything)
}

func TestSkillCreate_SlugifiesAndInvalidatesCache(t *testing.T) {
	mockSkills := new(MockSkillStore)
	mockCache := new(MockSkillsCache)

	mockSkills.On("CreateSkill", mock.Anything, "Distributed Systems", "distributed-systems").
		Return(&models.Skill{ID: 8, Name: "Distributed Systems", Slug: "distributed-systems"}, nil)
	mockCache.On("Invalidate").Return()

	svc := services.NewSkillService(mockSkills, new(MockUserStore), mockCache)
	skill, err := svc.Create(context.Background(), adminSession(1), &models.CreateSkillRequest{Name: "Distributed Systems"})

	assert.NoError(t, err)
	assert.Equal(t, "distributed-systems", skill.Slug)
	mockCache.AssertCalled(t, "Invalidate")
}

func TestSkillCreate_DuplicateName(t *testing.T) {
	mockSkills := new(MockSkillStore)
	mockSkills.On("CreateSkill", mock.Anything, "Go", "go").
		Return(nil, apperrors.ConflictError("skill already exists"))

	svc := services.NewSkillService(mockSkills, new(MockUserStore), new(MockSkillsCache))
	_, err := svc.Create(context.Background(), adminSession(1), &models.CreateSkillRequest{Name: "Go"})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestSkillDelete_AdminOnly(t *testing.T) {
	mockSkills := new(MockSkillStore)
	mockCache := new(MockSkillsCache)

	svc := services.NewSkillService(mockSkills, new(MockUserStore), mockCache)

	err := svc.Delete(context.Background(), regularSession(1), 8)
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrAccessDenied))

	mockSkills.On("DeleteSkill", mock.Anything, int64(8)).Return(nil)
	mockCache.On("Invalidate").Return()

	err = svc.Delete(context.Background(), adminSession(1), 8)
	assert.NoError(t, err)
	mockCache.AssertCalled(t, "Invalidate")
}

func TestSkillUsersOffering(t *testing.T) {
	mockSkills := new(MockSkillStore)
	mockUsers := new(MockUserStore)

	mockSkills.On("GetSkillBySlug", mock.Anything, "go").Return(&skillGo, nil)
	mockUsers.On("ListUsersWithSkill", mock.Anything, "user_mentor_skills", skillGo.ID).
		Return([]models.User{{ID: 1}, {ID: 2}}, nil)

	svc := services.NewSkillService(mockSkills, mockUsers, new(MockSkillsCache))
	users, err := svc.UsersOffering(context.Background(), "go")

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	mockUsers.AssertExpectations(t)
}

func TestSkillUsersSeeking_UnknownSlug(t *testing.T) {
	mockSkills := new(MockSkillStore)
	mockSkills.On("GetSkillBySlug", mock.Anything, "cobol").
		Return(nil, apperrors.NotFoundError("skill"))

	svc := services.NewSkillService(mockSkills, new(MockUserStore), new(MockSkillsCache))
	_, err := svc.UsersSeeking(context.Background(), "cobol")

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestSkillUsersSeeking_EmptyIsNotAnError(t *testing.T) {
	mockSkills := new(MockSkillStore)
	mockUsers := new(MockUserStore)

	mockSkills.On("GetSkillBySlug", mock.Anything, "go").Return(&skillGo, nil)
	mockUsers.On("ListUsersWithSkill", mock.Anything, "user_mentee_skills", skillGo.ID).
		Return([]models.User{}, nil)

	svc := services.NewSkillService(mockSkills, mockUsers, new(MockSkillsCache))
	users, err := svc.UsersSeeking(context.Background(), "go")

	assert.NoError(t, err)
	assert.Empty(t, users)
}
