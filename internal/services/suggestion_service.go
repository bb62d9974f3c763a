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

// SuggestionService manages the suggestion lifecycle
type SuggestionService struct {
	suggestions repository.SuggestionStore
	users       repository.UserRepositoryInterface
	notifier    notify.Notifier
}

// NewSuggestionService creates a new SuggestionService
func NewSuggestionService(
	suggestions repository.SuggestionStore,
	users repository.UserRepositoryInterface,
	notifier notify.Notifier,
) *SuggestionService {
	return &SuggestionService{
		suggestions: suggestions,
		users:       users,
		notifier:    notifier,
	}
}

// Create proposes a mentor/mentee pairing. Regular users may only
// propose pairs they are part of; admins may pair anyone.
func (s *SuggestionService) Create(ctx context.Context, session *models.UserSession, req *models.CreateSuggestionRequest) (*models.Suggestion, error) {
	if req.MentorID == req.MenteeID {
		return nil, apperrors.InvalidInputError("pair", "mentor and mentee must differ")
	}
	if !session.Role.IsAdmin() && session.UserID != req.MentorID && session.UserID != req.MenteeID {
		return nil, apperrors.AccessDeniedError("cannot propose a pairing for other users")
	}

	// Both users must exist; the store only enforces referential
	// integrity with an opaque FK error
	if _, err := s.users.GetByID(ctx, req.MentorID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, req.MenteeID); err != nil {
		return nil, err
	}

	suggestion, err := s.suggestions.CreateSuggestion(ctx, req.MentorID, req.MenteeID, 0)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			metrics.SuggestionsCreated.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	metrics.SuggestionsCreated.WithLabelValues("success").Inc()

	// Notify the counterpart, not the proposer
	recipient := req.MentorID
	if session.UserID == req.MentorID {
		recipient = req.MenteeID
	}
	s.notifier.Notify(fmt.Sprintf("%d", recipient), notify.EventSuggestionCreated, map[string]interface{}{
		"suggestion_id": suggestion.ID,
		"mentor_id":     suggestion.MentorID,
		"mentee_id":     suggestion.MenteeID,
	})

	logger.Info("Suggestion created",
		zap.Int64("suggestion_id", suggestion.ID),
		zap.Int64("mentor_id", suggestion.MentorID),
		zap.Int64("mentee_id", suggestion.MenteeID))

	return suggestion, nil
}

// List returns the caller's suggestions, newest first
func (s *SuggestionService) List(ctx context.Context, session *models.UserSession) ([]models.Suggestion, error) {
	return s.suggestions.ListSuggestionsForUser(ctx, session.UserID)
}

// Respond resolves a pending suggestion. Accepting atomically creates
// the resulting pending mentorship; declining only flips the status.
func (s *SuggestionService) Respond(ctx context.Context, session *models.UserSession, suggestionID int64, req *models.RespondSuggestionRequest) (*models.RespondSuggestionResponse, error) {
	suggestion, err := s.suggestions.GetSuggestionByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}

	if session.UserID != suggestion.MentorID && session.UserID != suggestion.MenteeID {
		metrics.SuggestionResponses.WithLabelValues(req.Action, "denied").Inc()
		return nil, apperrors.AccessDeniedError("not a participant of this suggestion")
	}

	if suggestion.Status != models.SuggestionPending {
		metrics.SuggestionResponses.WithLabelValues(req.Action, "invalid_state").Inc()
		return nil, apperrors.InvalidStateError(
			fmt.Sprintf("suggestion is %s, only pending suggestions can be responded to", suggestion.Status))
	}

	if req.Action == "decline" {
		declined, err := s.suggestions.DeclineSuggestion(ctx, suggestionID)
		if err != nil {
			metrics.SuggestionResponses.WithLabelValues(req.Action, "conflict").Inc()
			return nil, err
		}

		metrics.SuggestionResponses.WithLabelValues(req.Action, "success").Inc()
		s.notifyCounterpart(session.UserID, declined, notify.EventSuggestionDeclined, nil)

		logger.Info("Suggestion declined", zap.Int64("suggestion_id", suggestionID))
		return &models.RespondSuggestionResponse{Suggestion: declined}, nil
	}

	accepted, mentorship, err := s.suggestions.AcceptSuggestion(ctx, suggestionID)
	if err != nil {
		metrics.SuggestionResponses.WithLabelValues(req.Action, "conflict").Inc()
		return nil, err
	}

	metrics.SuggestionResponses.WithLabelValues(req.Action, "success").Inc()
	s.notifyCounterpart(session.UserID, accepted, notify.EventSuggestionAccepted, map[string]interface{}{
		"mentorship_id": mentorship.ID,
	})

	logger.Info("Suggestion accepted",
		zap.Int64("suggestion_id", suggestionID),
		zap.Int64("mentorship_id", mentorship.ID))

	return &models.RespondSuggestionResponse{Suggestion: accepted, Mentorship: mentorship}, nil
}

func (s *SuggestionService) notifyCounterpart(actorID int64, suggestion *models.Suggestion, event notify.Event, extra map[string]interface{}) {
	recipient := suggestion.MentorID
	if actorID == suggestion.MentorID {
		recipient = suggestion.MenteeID
	}

	payload := map[string]interface{}{
		"suggestion_id": suggestion.ID,
		"mentor_id":     suggestion.MentorID,
		"mentee_id":     suggestion.MenteeID,
	}
	for k, v := range extra {
		payload[k] = v
	}

	s.notifier.Notify(fmt.Sprintf("%d", recipient), event, payload)
}
