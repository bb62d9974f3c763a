package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mentormesh/mentormesh-api/internal/middleware"
	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// testSessionMiddleware injects a session the way the real session
// middleware would after validating the cookie.
func testSessionMiddleware(session *models.UserSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.SessionContextKey, session)
		c.Next()
	}
}

func testSession(userID int64, role models.Role) *models.UserSession {
	return &models.UserSession{
		UserID: userID,
		Email:  "user@example.com",
		Name:   "User",
		Role:   role,
	}
}

// MockSuggestionService is a mock implementation of services.SuggestionServiceInterface
type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) Create(ctx context.Context, session *models.UserSession, req *models.CreateSuggestionRequest) (*models.Suggestion, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suggestion), args.Error(1)
}

func (m *MockSuggestionService) List(ctx context.Context, session *models.UserSession) ([]models.Suggestion, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Suggestion), args.Error(1)
}

func (m *MockSuggestionService) Respond(ctx context.Context, session *models.UserSession, suggestionID int64, req *models.RespondSuggestionRequest) (*models.RespondSuggestionResponse, error) {
	args := m.Called(ctx, session, suggestionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RespondSuggestionResponse), args.Error(1)
}

// MockMentorshipService is a mock implementation of services.MentorshipServiceInterface
type MockMentorshipService struct {
	mock.Mock
}

func (m *MockMentorshipService) Get(ctx context.Context, session *models.UserSession, id int64) (*models.Mentorship, error) {
	args := m.Called(ctx, session, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentorship), args.Error(1)
}

func (m *MockMentorshipService) List(ctx context.Context, session *models.UserSession) ([]models.Mentorship, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mentorship), args.Error(1)
}

func (m *MockMentorshipService) Activate(ctx context.Context, session *models.UserSession, id int64) (*models.Mentorship, error) {
	args := m.Called(ctx, session, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentorship), args.Error(1)
}

func (m *MockMentorshipService) Complete(ctx context.Context, session *models.UserSession, id int64, notes string) (*models.Mentorship, error) {
	args := m.Called(ctx, session, id, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentorship), args.Error(1)
}

func (m *MockMentorshipService) Cancel(ctx context.Context, session *models.UserSession, id int64, reason string) (*models.Mentorship, error) {
	args := m.Called(ctx, session, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentorship), args.Error(1)
}

func (m *MockMentorshipService) SendMessage(ctx context.Context, session *models.UserSession, mentorshipID int64, body string) (*models.Message, error) {
	args := m.Called(ctx, session, mentorshipID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMentorshipService) ListMessages(ctx context.Context, session *models.UserSession, mentorshipID int64) ([]models.Message, error) {
	args := m.Called(ctx, session, mentorshipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}
