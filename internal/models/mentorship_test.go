package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMentorshipStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    MentorshipStatus
		to      MentorshipStatus
		allowed bool
	}{
		{"pending to active", MentorshipPending, MentorshipActive, true},
		{"pending to canceled", MentorshipPending, MentorshipCanceled, true},
		{"pending to completed", MentorshipPending, MentorshipCompleted, false},
		{"active to completed", MentorshipActive, MentorshipCompleted, true},
		{"active to canceled", MentorshipActive, MentorshipCanceled, true},
		{"active to pending", MentorshipActive, MentorshipPending, false},
		{"completed is terminal", MentorshipCompleted, MentorshipActive, false},
		{"canceled is terminal", MentorshipCanceled, MentorshipActive, false},
		{"completed to canceled", MentorshipCompleted, MentorshipCanceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestMentorshipStatus_CanReceiveMessages(t *testing.T) {
	assert.True(t, MentorshipPending.CanReceiveMessages())
	assert.True(t, MentorshipActive.CanReceiveMessages())
	assert.False(t, MentorshipCompleted.CanReceiveMessages())
	assert.False(t, MentorshipCanceled.CanReceiveMessages())
}

func TestMentorship_OtherParticipant(t *testing.T) {
	m := &Mentorship{MentorID: 10, MenteeID: 20}

	assert.True(t, m.Involves(10))
	assert.True(t, m.Involves(20))
	assert.False(t, m.Involves(30))
	assert.Equal(t, int64(20), m.OtherParticipant(10))
	assert.Equal(t, int64(10), m.OtherParticipant(20))
}

func TestTransitionMentorshipRequest_TargetStatus(t *testing.T) {
	assert.Equal(t, MentorshipActive, (&TransitionMentorshipRequest{Action: "activate"}).TargetStatus())
	assert.Equal(t, MentorshipCompleted, (&TransitionMentorshipRequest{Action: "complete"}).TargetStatus())
	assert.Equal(t, MentorshipCanceled, (&TransitionMentorshipRequest{Action: "cancel"}).TargetStatus())
}

func TestSuggestionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    SuggestionStatus
		to      SuggestionStatus
		allowed bool
	}{
		{"pending to accepted", SuggestionPending, SuggestionAccepted, true},
		{"pending to declined", SuggestionPending, SuggestionDeclined, true},
		{"accepted is terminal", SuggestionAccepted, SuggestionDeclined, false},
		{"declined is terminal", SuggestionDeclined, SuggestionAccepted, false},
		{"pending to pending", SuggestionPending, SuggestionPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
