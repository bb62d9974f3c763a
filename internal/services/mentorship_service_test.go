package services_test

import (
	"context"
	"testing"

	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/services"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func mentorshipBetween(id int64, status models.MentorshipStatus) *models.Mentorship {
	return &models.Mentorship{
		ID:       id,
		MentorID: 1,
		MenteeID: 2,
		Status:   status,
	}
}

func TestMentorshipGet_ParticipantsOnly(t *testing.T) {
	mockMentorships := new(MockMentorshipStore)
	mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
		Return(mentorshipBetween(7, models.MentorshipActive), nil)

	svc := services.NewMentorshipService(mockMentorships, new(MockMessageStore), notify.NoopNotifier{})

	mentorship, err := svc.Get(context.Background(), regularSession(1), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), mentorship.ID)

	_, err = svc.Get(context.Background(), regularSession(99), 7)
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrAccessDenied))
}

func TestMentorshipActivate(t *testing.T) {
	mockMentorships := new(MockMentorshipStore)
	mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
		Return(mentorshipBetween(7, models.MentorshipPending), nil)
	mockMentorships.On("TransitionMentorship", mock.Anything, int64(7),
		models.MentorshipPending, models.MentorshipActive, "").
		Return(mentorshipBetween(7, models.MentorshipActive), nil)

	svc := services.NewMentorshipService(mockMentorships, new(MockMessageStore), notify.NoopNotifier{})
	updated, err := svc.Activate(context.Background(), regularSession(2), 7)

	assert.NoError(t, err)
	assert.Equal(t, models.MentorshipActive, updated.Status)
	mockMentorships.AssertExpectations(t)
}

func TestMentorshipComplete_StoresNotes(t *testing.T) {
	mockMentorships := new(MockMentorshipStore)
	completed := mentorshipBetween(7, models.MentorshipCompleted)
	completed.Notes = "great run"

	mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
		Return(mentorshipBetween(7, models.MentorshipActive), nil)
	mockMentorships.On("TransitionMentorship", mock.Anything, int64(7),
		models.MentorshipActive, models.MentorshipCompleted, "great run").
		Return(completed, nil)

	svc := services.NewMentorshipService(mockMentorships, new(MockMessageStore), notify.NoopNotifier{})
	updated, err := svc.Complete(context.Background(), regularSession(1), 7, "great run")

	assert.NoError(t, err)
	assert.Equal(t, models.MentorshipCompleted, updated.Status)
	assert.Equal(t, "great run", updated.Notes)
}

func TestMentorshipComplete_FromCanceledRejected(t *testing.T) {
	mockMentorships := new(MockMentorshipStore)
	mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
		Return(mentorshipBetween(7, models.MentorshipCanceled), nil)

	svc := services.NewMentorshipService(mockMentorships, new(MockMessageStore), notify.NoopNotifier{})
	_, err := svc.Complete(context.Background(), regularSession(1), 7, "")

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))
	mockMentorships.AssertNotCalled(t, "TransitionMentorship",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMentorshipComplete_FromPendingRejected(t *testing.T) {
	mockMentorships := new(MockMentorshipStore)
	mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
		Return(mentorshipBetween(7, models.MentorshipPending), nil)

	svc := services.NewMentorshipService(mockMentorships, new(MockMessageStore), notify.NoopNotifier{})
	_, err := svc.Complete(context.Background(), regularSession(1), 7, "")

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))
}

func TestMentorshipCancel_ConcurrentTransition(t *testing.T) {
	mockMentorships := new(MockMentorshipStore)
	mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
		Return(mentorshipBetween(7, models.MentorshipActive), nil)
	mockMentorships.On("TransitionMentorship", mock.Anything, int64(7),
		models.MentorshipActive, models.MentorshipCanceled, "schedule clash").
		Return(nil, apperrors.ConflictError("mentorship state changed concurrently"))

	svc := services.NewMentorshipService(mockMentorships, new(MockMessageStore), notify.NoopNotifier{})
	_, err := svc.Cancel(context.Background(), regularSession(2), 7, "schedule clash")

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestMentorshipTransition_NonParticipantDenied(t *testing.T) {
	mockMentorships := new(MockMentorshipStore)
	mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
		Return(mentorshipBetween(7, models.MentorshipPending), nil)

	svc := services.NewMentorshipService(mockMentorships, new(MockMessageStore), notify.NoopNotifier{})
	_, err := svc.Activate(context.Background(), regularSession(99), 7)

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrAccessDenied))
}

func TestMentorshipSendMessage(t *testing.T) {
	mockMentorships := new(MockMentorshipStore)
	mockMessages := new(MockMessageStore)
	notifier := &recordingNotifier{}

	mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
		Return(mentorshipBetween(7, models.MentorshipActive), nil)
	mockMessages.On("InsertMentorshipMessage", mock.Anything, int64(7), int64(1), "hello").
		Return(&models.Message{ID: 50, SenderID: 1, Body: "hello"}, nil)

	svc := services.NewMentorshipService(mockMentorships, mockMessages, notifier)
	message, err := svc.SendMessage(context.Background(), regularSession(1), 7, "hello")

	assert.NoError(t, err)
	assert.Equal(t, int64(50), message.ID)

	events := notifier.Events()
	assert.Len(t, events, 1)
	assert.Equal(t, "2", events[0].UserID)
	assert.Equal(t, notify.EventMessageSent, events[0].Event)
}

func TestMentorshipSendMessage_ClosedThread(t *testing.T) {
	for _, status := range []models.MentorshipStatus{models.MentorshipCompleted, models.MentorshipCanceled} {
		mockMentorships := new(MockMentorshipStore)
		mockMessages := new(MockMessageStore)

		mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
			Return(mentorshipBetween(7, status), nil)

		svc := services.NewMentorshipService(mockMentorships, mockMessages, notify.NoopNotifier{})
		_, err := svc.SendMessage(context.Background(), regularSession(1), 7, "hello")

		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))
		mockMessages.AssertNotCalled(t, "InsertMentorshipMessage",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestMentorshipSendMessage_ClosedBetweenReadAndInsert(t *testing.T) {
	mockMentorships := new(MockMentorshipStore)
	mockMessages := new(MockMessageStore)
	notifier := &recordingNotifier{}

	// The read sees an active mentorship, but the guarded insert finds
	// it canceled by the time it runs.
	mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
		Return(mentorshipBetween(7, models.MentorshipActive), nil)
	mockMessages.On("InsertMentorshipMessage", mock.Anything, int64(7), int64(1), "hello").
		Return(nil, apperrors.InvalidStateError("mentorship is closed, messages are closed"))

	svc := services.NewMentorshipService(mockMentorships, mockMessages, notifier)
	_, err := svc.SendMessage(context.Background(), regularSession(1), 7, "hello")

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))
	assert.Empty(t, notifier.Events())
}

func TestMentorshipListMessages_ParticipantsOnly(t *testing.T) {
	mockMentorships := new(MockMentorshipStore)
	mockMessages := new(MockMessageStore)

	mockMentorships.On("GetMentorshipByID", mock.Anything, int64(7)).
		Return(mentorshipBetween(7, models.MentorshipCompleted), nil)
	mockMessages.On("ListMentorshipMessages", mock.Anything, int64(7)).
		Return([]models.Message{{ID: 1, Body: "first"}, {ID: 2, Body: "second"}}, nil)

	svc := services.NewMentorshipService(mockMentorships, mockMessages, notify.NoopNotifier{})

	// History stays readable after the thread closes
	messages, err := svc.ListMessages(context.Background(), regularSession(2), 7)
	assert.NoError(t, err)
	assert.Len(t, messages, 2)

	_, err = svc.ListMessages(context.Background(), regularSession(99), 7)
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrAccessDenied))
}
