package services

import (
	"context"
	"fmt"

	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/repository"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	"github.com/mentormesh/mentormesh-api/pkg/notify"
)

// ConversationService manages direct message threads between users
type ConversationService struct {
	conversations repository.ConversationStore
	messages      repository.MessageStore
	users         repository.UserRepositoryInterface
	notifier      notify.Notifier
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	conversations repository.ConversationStore,
	messages repository.MessageStore,
	users repository.UserRepositoryInterface,
	notifier notify.Notifier,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		users:         users,
		notifier:      notifier,
	}
}

// Start opens (or returns the existing) conversation between the caller
// and another user. The pair is stored canonically, so concurrent
// starts from both sides converge on the same thread.
func (s *ConversationService) Start(ctx context.Context, session *models.UserSession, otherUserID int64) (*models.Conversation, error) {
	if otherUserID == session.UserID {
		return nil, apperrors.InvalidInputError("user_id", "cannot start a conversation with yourself")
	}

	if _, err := s.users.GetByID(ctx, otherUserID); err != nil {
		return nil, err
	}

	p1, p2 := models.CanonicalPair(session.UserID, otherUserID)
	return s.conversations.GetOrCreateConversation(ctx, p1, p2)
}

// List returns the caller's conversations, newest first
func (s *ConversationService) List(ctx context.Context, session *models.UserSession) ([]models.Conversation, error) {
	return s.conversations.ListConversationsForUser(ctx, session.UserID)
}

// SendMessage appends a message to a conversation, participants only
func (s *ConversationService) SendMessage(ctx context.Context, session *models.UserSession, conversationID int64, body string) (*models.Message, error) {
	conversation, err := s.conversations.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conversation.Involves(session.UserID) {
		metrics.MessagesSent.WithLabelValues("conversation", "denied").Inc()
		return nil, apperrors.AccessDeniedError("not a participant of this conversation")
	}

	message, err := s.messages.InsertConversationMessage(ctx, conversationID, session.UserID, body)
	if err != nil {
		metrics.MessagesSent.WithLabelValues("conversation", "error").Inc()
		return nil, err
	}

	metrics.MessagesSent.WithLabelValues("conversation", "success").Inc()

	recipient := conversation.Participant1ID
	if session.UserID == conversation.Participant1ID {
		recipient = conversation.Participant2ID
	}
	s.notifier.Notify(fmt.Sprintf("%d", recipient), notify.EventMessageSent, map[string]interface{}{
		"conversation_id": conversationID,
		"message_id":      message.ID,
	})

	return message, nil
}

// ListMessages returns a conversation's messages in send order,
// participants only.
func (s *ConversationService) ListMessages(ctx context.Context, session *models.UserSession, conversationID int64) ([]models.Message, error) {
	conversation, err := s.conversations.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conversation.Involves(session.UserID) {
		return nil, apperrors.AccessDeniedError("not a participant of this conversation")
	}

	return s.messages.ListConversationMessages(ctx, conversationID)
}
