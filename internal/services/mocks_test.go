package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/pkg/notify"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repository.UserRepositoryInterface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetCandidates(ctx context.Context, callerID int64, role models.MatchRole) ([]models.User, error) {
	args := m.Called(ctx, callerID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockUserStore is a mock implementation of repository.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) UpdateUserProfile(ctx context.Context, id int64, req *models.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) SetAvatarURL(ctx context.Context, id int64, avatarURL string) error {
	args := m.Called(ctx, id, avatarURL)
	return args.Error(0)
}

func (m *MockUserStore) SetLoginToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	args := m.Called(ctx, id, token, expiresAt)
	return args.Error(0)
}

func (m *MockUserStore) GetUserByLoginToken(ctx context.Context, token string) (*models.User, string, time.Time, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, "", time.Time{}, args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.Get(2).(time.Time), args.Error(3)
}

func (m *MockUserStore) ClearLoginToken(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) ReplaceMentorSkills(ctx context.Context, userID int64, skillIDs []int64) error {
	args := m.Called(ctx, userID, skillIDs)
	return args.Error(0)
}

func (m *MockUserStore) ReplaceMenteeSkills(ctx context.Context, userID int64, skillIDs []int64) error {
	args := m.Called(ctx, userID, skillIDs)
	return args.Error(0)
}

func (m *MockUserStore) GetSkillsForUsers(ctx context.Context, table string, userIDs []int64) (map[int64][]models.Skill, error) {
	args := m.Called(ctx, table, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]models.Skill), args.Error(1)
}

func (m *MockUserStore) ListMatchCandidates(ctx context.Context, callerID int64, role models.MatchRole) ([]models.User, error) {
	args := m.Called(ctx, callerID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserStore) ListUsersWithSkill(ctx context.Context, table string, skillID int64) ([]models.User, error) {
	args := m.Called(ctx, table, skillID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserStore) CompleteOnboarding(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockSkillStore is a mock implementation of repository.SkillStore
type MockSkillStore struct {
	mock.Mock
}

func (m *MockSkillStore) ListSkills(ctx context.Context) ([]models.Skill, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Skill), args.Error(1)
}

func (m *MockSkillStore) GetSkillByID(ctx context.Context, id int64) (*models.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skill), args.Error(1)
}

func (m *MockSkillStore) GetSkillBySlug(ctx context.Context, slug string) (*models.Skill, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skill), args.Error(1)
}

func (m *MockSkillStore) CreateSkill(ctx context.Context, name, slug string) (*models.Skill, error) {
	args := m.Called(ctx, name, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skill), args.Error(1)
}

func (m *MockSkillStore) DeleteSkill(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSkillStore) CountSkillsByIDs(ctx context.Context, ids []int64) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

// MockSuggestionStore is a mock implementation of repository.SuggestionStore
type MockSuggestionStore struct {
	mock.Mock
}

func (m *MockSuggestionStore) CreateSuggestion(ctx context.Context, mentorID, menteeID int64, score float64) (*models.Suggestion, error) {
	args := m.Called(ctx, mentorID, menteeID, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suggestion), args.Error(1)
}

func (m *MockSuggestionStore) GetSuggestionByID(ctx context.Context, id int64) (*models.Suggestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suggestion), args.Error(1)
}

func (m *MockSuggestionStore) ListSuggestionsForUser(ctx context.Context, userID int64) ([]models.Suggestion, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Suggestion), args.Error(1)
}

func (m *MockSuggestionStore) DeclineSuggestion(ctx context.Context, id int64) (*models.Suggestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suggestion), args.Error(1)
}

func (m *MockSuggestionStore) AcceptSuggestion(ctx context.Context, id int64) (*models.Suggestion, *models.Mentorship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Suggestion), args.Get(1).(*models.Mentorship), args.Error(2)
}

// MockMentorshipStore is a mock implementation of repository.MentorshipStore
type MockMentorshipStore struct {
	mock.Mock
}

func (m *MockMentorshipStore) GetMentorshipByID(ctx context.Context, id int64) (*models.Mentorship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentorship), args.Error(1)
}

func (m *MockMentorshipStore) ListMentorshipsForUser(ctx context.Context, userID int64) ([]models.Mentorship, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mentorship), args.Error(1)
}

func (m *MockMentorshipStore) TransitionMentorship(ctx context.Context, id int64, from, to models.MentorshipStatus, note string) (*models.Mentorship, error) {
	args := m.Called(ctx, id, from, to, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentorship), args.Error(1)
}

// MockMessageStore is a mock implementation of repository.MessageStore
type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) InsertMentorshipMessage(ctx context.Context, mentorshipID, senderID int64, body string) (*models.Message, error) {
	args := m.Called(ctx, mentorshipID, senderID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageStore) InsertConversationMessage(ctx context.Context, conversationID, senderID int64, body string) (*models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageStore) ListMentorshipMessages(ctx context.Context, mentorshipID int64) ([]models.Message, error) {
	args := m.Called(ctx, mentorshipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageStore) ListConversationMessages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// MockConversationStore is a mock implementation of repository.ConversationStore
type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) GetOrCreateConversation(ctx context.Context, participant1, participant2 int64) (*models.Conversation, error) {
	args := m.Called(ctx, participant1, participant2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockConversationStore) GetConversationByID(ctx context.Context, id int64) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockConversationStore) ListConversationsForUser(ctx context.Context, userID int64) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conversation), args.Error(1)
}

// MockSkillsCache is a mock implementation of cache.SkillsCacheInterface
type MockSkillsCache struct {
	mock.Mock
}

func (m *MockSkillsCache) Initialize() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSkillsCache) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockSkillsCache) Get(ctx context.Context) ([]models.Skill, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Skill), args.Error(1)
}

func (m *MockSkillsCache) Invalidate() {
	m.Called()
}

// MockStorageClient is a mock implementation of objectstorage.ClientInterface
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) UploadImage(ctx context.Context, imageData, key, contentType string) (string, error) {
	args := m.Called(ctx, imageData, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageClient) GenerateAvatarKey(userID, originalFileName string) string {
	args := m.Called(userID, originalFileName)
	return args.String(0)
}

func (m *MockStorageClient) ValidateImageType(contentType string) error {
	args := m.Called(contentType)
	return args.Error(0)
}

func (m *MockStorageClient) ValidateImageSize(imageData string) error {
	args := m.Called(imageData)
	return args.Error(0)
}

// recordedEvent captures a notification dispatch for assertions
type recordedEvent struct {
	UserID  string
	Event   notify.Event
	Payload map[string]interface{}
}

// recordingNotifier collects dispatched events synchronously
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Notify(userID string, event notify.Event, payload map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{UserID: userID, Event: event, Payload: payload})
}

func (n *recordingNotifier) Events() []recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedEvent(nil), n.events...)
}
