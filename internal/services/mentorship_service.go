package services

import (
	"context"
	"fmt"

	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/repository"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	"github.com/mentormesh/mentormesh-api/pkg/notify"
	"go.uber.org/zap"
)

// MentorshipService manages the mentorship state machine and its
// message threads.
type MentorshipService struct {
	mentorships repository.MentorshipStore
	messages    repository.MessageStore
	notifier    notify.Notifier
}

// NewMentorshipService creates a new MentorshipService
func NewMentorshipService(
	mentorships repository.MentorshipStore,
	messages repository.MessageStore,
	notifier notify.Notifier,
) *MentorshipService {
	return &MentorshipService{
		mentorships: mentorships,
		messages:    messages,
		notifier:    notifier,
	}
}

// Get returns a mentorship visible to its participants only
func (s *MentorshipService) Get(ctx context.Context, session *models.UserSession, id int64) (*models.Mentorship, error) {
	mentorship, err := s.mentorships.GetMentorshipByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !mentorship.Involves(session.UserID) {
		return nil, apperrors.AccessDeniedError("not a participant of this mentorship")
	}

	return mentorship, nil
}

// List returns the caller's mentorships, newest first
func (s *MentorshipService) List(ctx context.Context, session *models.UserSession) ([]models.Mentorship, error) {
	return s.mentorships.ListMentorshipsForUser(ctx, session.UserID)
}

// Activate moves a pending mentorship to active
func (s *MentorshipService) Activate(ctx context.Context, session *models.UserSession, id int64) (*models.Mentorship, error) {
	return s.transition(ctx, session, id, models.MentorshipActive, "")
}

// Complete closes an active mentorship, storing optional notes and
// stamping the end date.
func (s *MentorshipService) Complete(ctx context.Context, session *models.UserSession, id int64, notes string) (*models.Mentorship, error) {
	return s.transition(ctx, session, id, models.MentorshipCompleted, notes)
}

// Cancel aborts a pending or active mentorship, storing an optional
// reason and stamping the end date.
func (s *MentorshipService) Cancel(ctx context.Context, session *models.UserSession, id int64, reason string) (*models.Mentorship, error) {
	return s.transition(ctx, session, id, models.MentorshipCanceled, reason)
}

// transition validates the state machine before mutating. The guarded
// store update catches the race where another request transitions the
// mentorship between our read and write.
func (s *MentorshipService) transition(ctx context.Context, session *models.UserSession, id int64, target models.MentorshipStatus, note string) (*models.Mentorship, error) {
	mentorship, err := s.mentorships.GetMentorshipByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !mentorship.Involves(session.UserID) {
		return nil, apperrors.AccessDeniedError("not a participant of this mentorship")
	}

	if !mentorship.Status.CanTransitionTo(target) {
		metrics.MentorshipTransitions.WithLabelValues(string(mentorship.Status), string(target), "invalid_state").Inc()
		return nil, apperrors.InvalidStateError(
			fmt.Sprintf("cannot move mentorship from %s to %s", mentorship.Status, target))
	}

	updated, err := s.mentorships.TransitionMentorship(ctx, id, mentorship.Status, target, note)
	if err != nil {
		metrics.MentorshipTransitions.WithLabelValues(string(mentorship.Status), string(target), "conflict").Inc()
		return nil, err
	}

	metrics.MentorshipTransitions.WithLabelValues(string(mentorship.Status), string(target), "success").Inc()
	logger.Info("Mentorship transitioned",
		zap.Int64("mentorship_id", id),
		zap.String("from", string(mentorship.Status)),
		zap.String("to", string(target)))

	return updated, nil
}

// SendMessage appends a message to a mentorship thread. Messages are
// only accepted while the mentorship is pending or active.
func (s *MentorshipService) SendMessage(ctx context.Context, session *models.UserSession, mentorshipID int64, body string) (*models.Message, error) {
	mentorship, err := s.mentorships.GetMentorshipByID(ctx, mentorshipID)
	if err != nil {
		return nil, err
	}

	if !mentorship.Involves(session.UserID) {
		metrics.MessagesSent.WithLabelValues("mentorship", "denied").Inc()
		return nil, apperrors.AccessDeniedError("not a participant of this mentorship")
	}

	if !mentorship.Status.CanReceiveMessages() {
		metrics.MessagesSent.WithLabelValues("mentorship", "invalid_state").Inc()
		return nil, apperrors.InvalidStateError(
			fmt.Sprintf("mentorship is %s, messages are closed", mentorship.Status))
	}

	message, err := s.messages.InsertMentorshipMessage(ctx, mentorshipID, session.UserID, body)
	if err != nil {
		metrics.MessagesSent.WithLabelValues("mentorship", "error").Inc()
		return nil, err
	}

	metrics.MessagesSent.WithLabelValues("mentorship", "success").Inc()
	s.notifier.Notify(fmt.Sprintf("%d", mentorship.OtherParticipant(session.UserID)),
		notify.EventMessageSent, map[string]interface{}{
			"mentorship_id": mentorshipID,
			"message_id":    message.ID,
		})

	return message, nil
}

// ListMessages returns a mentorship's messages in send order,
// participants only.
func (s *MentorshipService) ListMessages(ctx context.Context, session *models.UserSession, mentorshipID int64) ([]models.Message, error) {
	mentorship, err := s.mentorships.GetMentorshipByID(ctx, mentorshipID)
	if err != nil {
		return nil, err
	}

	if !mentorship.Involves(session.UserID) {
		return nil, apperrors.AccessDeniedError("not a participant of this mentorship")
	}

	return s.messages.ListMentorshipMessages(ctx, mentorshipID)
}
