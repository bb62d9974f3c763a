package services

import (
	"context"

	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/pkg/jwt"
)

// AuthServiceInterface defines the passwordless login flow
type AuthServiceInterface interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	RequestLogin(ctx context.Context, email string) (*models.RequestLoginResponse, error)
	VerifyLogin(ctx context.Context, token string) (*models.UserSession, string, error)
	GetSessionTTL() int
	GetCookieDomain() string
	GetCookieSecure() bool
	GetTokenManager() *jwt.TokenManager
}

// SkillServiceInterface defines skill catalog operations
type SkillServiceInterface interface {
	List(ctx context.Context) ([]models.Skill, error)
	Create(ctx context.Context, session *models.UserSession, req *models.CreateSkillRequest) (*models.Skill, error)
	Delete(ctx context.Context, session *models.UserSession, id int64) error
	UsersOffering(ctx context.Context, skillSlug string) ([]models.User, error)
	UsersSeeking(ctx context.Context, skillSlug string) ([]models.User, error)
}

// ProfileServiceInterface defines profile operations for the caller
type ProfileServiceInterface interface {
	Get(ctx context.Context, session *models.UserSession) (*models.User, error)
	Update(ctx context.Context, session *models.UserSession, req *models.UpdateProfileRequest) (*models.User, error)
	CompleteOnboarding(ctx context.Context, session *models.UserSession) (*models.User, error)
	UploadAvatar(ctx context.Context, session *models.UserSession, req *models.UploadAvatarRequest) (string, error)
}

// MatchingServiceInterface defines candidate scoring and suggestion
// generation.
type MatchingServiceInterface interface {
	ScoreCandidates(ctx context.Context, seekerID int64, role models.MatchRole) ([]models.Candidate, error)
	GenerateSuggestions(ctx context.Context, userID int64, role models.MatchRole) ([]models.Suggestion, error)
}

// SuggestionServiceInterface defines the suggestion lifecycle
type SuggestionServiceInterface interface {
	Create(ctx context.Context, session *models.UserSession, req *models.CreateSuggestionRequest) (*models.Suggestion, error)
	List(ctx context.Context, session *models.UserSession) ([]models.Suggestion, error)
	Respond(ctx context.Context, session *models.UserSession, suggestionID int64, req *models.RespondSuggestionRequest) (*models.RespondSuggestionResponse, error)
}

// MentorshipServiceInterface defines the mentorship state machine and
// its message threads.
type MentorshipServiceInterface interface {
	Get(ctx context.Context, session *models.UserSession, id int64) (*models.Mentorship, error)
	List(ctx context.Context, session *models.UserSession) ([]models.Mentorship, error)
	Activate(ctx context.Context, session *models.UserSession, id int64) (*models.Mentorship, error)
	Complete(ctx context.Context, session *models.UserSession, id int64, notes string) (*models.Mentorship, error)
	Cancel(ctx context.Context, session *models.UserSession, id int64, reason string) (*models.Mentorship, error)
	SendMessage(ctx context.Context, session *models.UserSession, mentorshipID int64, body string) (*models.Message, error)
	ListMessages(ctx context.Context, session *models.UserSession, mentorshipID int64) ([]models.Message, error)
}

// ConversationServiceInterface defines direct message threads
type ConversationServiceInterface interface {
	Start(ctx context.Context, session *models.UserSession, otherUserID int64) (*models.Conversation, error)
	List(ctx context.Context, session *models.UserSession) ([]models.Conversation, error)
	SendMessage(ctx context.Context, session *models.UserSession, conversationID int64, body string) (*models.Message, error)
	ListMessages(ctx context.Context, session *models.UserSession, conversationID int64) ([]models.Message, error)
}

// Ensure services implement their interfaces
var _ AuthServiceInterface = (*AuthService)(nil)
var _ SkillServiceInterface = (*SkillService)(nil)
var _ ProfileServiceInterface = (*ProfileService)(nil)
var _ MatchingServiceInterface = (*MatchingService)(nil)
var _ SuggestionServiceInterface = (*SuggestionService)(nil)
var _ MentorshipServiceInterface = (*MentorshipService)(nil)
var _ ConversationServiceInterface = (*ConversationService)(nil)
