package models

import "time"

// MentorshipStatus is the lifecycle state of a mentorship
type MentorshipStatus string

const (
	MentorshipPending   MentorshipStatus = "pending"
	MentorshipActive    MentorshipStatus = "active"
	MentorshipCompleted MentorshipStatus = "completed"
	MentorshipCanceled  MentorshipStatus = "canceled"
)

// IsTerminal returns true once a mentorship can no longer change state
func (s MentorshipStatus) IsTerminal() bool {
	return s == MentorshipCompleted || s == MentorshipCanceled
}

// CanTransitionTo reports whether the transition is allowed:
// pending -> active, active -> completed, and pending/active -> canceled.
func (s MentorshipStatus) CanTransitionTo(target MentorshipStatus) bool {
	switch s {
	case MentorshipPending:
		return target == MentorshipActive || target == MentorshipCanceled
	case MentorshipActive:
		return target == MentorshipCompleted || target == MentorshipCanceled
	default:
		return false
	}
}

// CanReceiveMessages returns true while the relationship is open
func (s MentorshipStatus) CanReceiveMessages() bool {
	return s == MentorshipPending || s == MentorshipActive
}

// Mentorship is an established mentor/mentee relationship, usually
// created by accepting a suggestion.
type Mentorship struct {
	ID           int64            `json:"id"`
	MentorID     int64            `json:"mentor_id"`
	MenteeID     int64            `json:"mentee_id"`
	SuggestionID *int64           `json:"suggestion_id,omitempty"`
	Status       MentorshipStatus `json:"status"`
	Notes        string           `json:"notes,omitempty"`
	CancelReason string           `json:"cancel_reason,omitempty"`
	StartedAt    time.Time        `json:"started_at"`
	EndedAt      *time.Time       `json:"ended_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// Populated on read paths for display
	Mentor *User `json:"mentor,omitempty"`
	Mentee *User `json:"mentee,omitempty"`
}

// Involves reports whether the user participates in this mentorship
func (m *Mentorship) Involves(userID int64) bool {
	return m.MentorID == userID || m.MenteeID == userID
}

// OtherParticipant returns the id of the participant other than userID.
// Callers must check Involves first.
func (m *Mentorship) OtherParticipant(userID int64) int64 {
	if m.MentorID == userID {
		return m.MenteeID
	}
	return m.MentorID
}

// CompleteMentorshipRequest is the payload for completing a mentorship
type CompleteMentorshipRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// CancelMentorshipRequest is the payload for canceling a mentorship
type CancelMentorshipRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

// TransitionMentorshipRequest is the payload for changing mentorship state
type TransitionMentorshipRequest struct {
	Action string `json:"action" binding:"required,oneof=activate complete cancel"`
}

// TargetStatus maps the request action to the status it produces
func (r *TransitionMentorshipRequest) TargetStatus() MentorshipStatus {
	switch r.Action {
	case "activate":
		return MentorshipActive
	case "complete":
		return MentorshipCompleted
	default:
		return MentorshipCanceled
	}
}

// MentorshipListResponse wraps a mentorship list
type MentorshipListResponse struct {
	Mentorships []Mentorship `json:"mentorships"`
	Count       int          `json:"count"`
}
