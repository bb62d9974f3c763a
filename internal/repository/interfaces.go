package repository

import (
	"context"
	"time"

	"github.com/mentormesh/mentormesh-api/internal/models"
)

// UserStore defines the storage operations for users and their skill links
type UserStore interface {
	CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, req *models.UpdateProfileRequest) (*models.User, error)
	SetAvatarURL(ctx context.Context, id int64, avatarURL string) error
	SetLoginToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	GetUserByLoginToken(ctx context.Context, token string) (*models.User, string, time.Time, error)
	ClearLoginToken(ctx context.Context, id int64) error
	ReplaceMentorSkills(ctx context.Context, userID int64, skillIDs []int64) error
	ReplaceMenteeSkills(ctx context.Context, userID int64, skillIDs []int64) error
	GetSkillsForUsers(ctx context.Context, table string, userIDs []int64) (map[int64][]models.Skill, error)
	ListMatchCandidates(ctx context.Context, callerID int64, role models.MatchRole) ([]models.User, error)
	ListUsersWithSkill(ctx context.Context, table string, skillID int64) ([]models.User, error)
	CompleteOnboarding(ctx context.Context, id int64) (*models.User, error)
}

// SkillStore defines the storage operations for the skill catalog
type SkillStore interface {
	ListSkills(ctx context.Context) ([]models.Skill, error)
	GetSkillByID(ctx context.Context, id int64) (*models.Skill, error)
	GetSkillBySlug(ctx context.Context, slug string) (*models.Skill, error)
	CreateSkill(ctx context.Context, name, slug string) (*models.Skill, error)
	DeleteSkill(ctx context.Context, id int64) error
	CountSkillsByIDs(ctx context.Context, ids []int64) (int, error)
}

// SuggestionStore defines the storage operations for suggestions
type SuggestionStore interface {
	CreateSuggestion(ctx context.Context, mentorID, menteeID int64, score float64) (*models.Suggestion, error)
	GetSuggestionByID(ctx context.Context, id int64) (*models.Suggestion, error)
	ListSuggestionsForUser(ctx context.Context, userID int64) ([]models.Suggestion, error)
	DeclineSuggestion(ctx context.Context, id int64) (*models.Suggestion, error)
	AcceptSuggestion(ctx context.Context, id int64) (*models.Suggestion, *models.Mentorship, error)
}

// MentorshipStore defines the storage operations for mentorships
type MentorshipStore interface {
	GetMentorshipByID(ctx context.Context, id int64) (*models.Mentorship, error)
	ListMentorshipsForUser(ctx context.Context, userID int64) ([]models.Mentorship, error)
	TransitionMentorship(ctx context.Context, id int64, from, to models.MentorshipStatus, note string) (*models.Mentorship, error)
}

// ConversationStore defines the storage operations for conversations
type ConversationStore interface {
	GetOrCreateConversation(ctx context.Context, participant1, participant2 int64) (*models.Conversation, error)
	GetConversationByID(ctx context.Context, id int64) (*models.Conversation, error)
	ListConversationsForUser(ctx context.Context, userID int64) ([]models.Conversation, error)
}

// MessageStore defines the storage operations for messages
type MessageStore interface {
	InsertMentorshipMessage(ctx context.Context, mentorshipID, senderID int64, body string) (*models.Message, error)
	InsertConversationMessage(ctx context.Context, conversationID, senderID int64, body string) (*models.Message, error)
	ListMentorshipMessages(ctx context.Context, mentorshipID int64) ([]models.Message, error)
	ListConversationMessages(ctx context.Context, conversationID int64) ([]models.Message, error)
}
