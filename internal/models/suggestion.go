package models

import "time"

// SuggestionStatus is the lifecycle state of a match suggestion
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionAccepted SuggestionStatus = "accepted"
	SuggestionDeclined SuggestionStatus = "declined"
)

// IsTerminal returns true once a suggestion can no longer change state
func (s SuggestionStatus) IsTerminal() bool {
	return s == SuggestionAccepted || s == SuggestionDeclined
}

// CanTransitionTo reports whether the transition is allowed. Suggestions
// only move from pending to one of the terminal states.
func (s SuggestionStatus) CanTransitionTo(target SuggestionStatus) bool {
	return s == SuggestionPending && target.IsTerminal()
}

// Suggestion proposes a mentor/mentee pairing. The mentee responds to
// it; accepting atomically creates a pending mentorship.
type Suggestion struct {
	ID          int64            `json:"id"`
	MentorID    int64            `json:"mentor_id"`
	MenteeID    int64            `json:"mentee_id"`
	Score       float64          `json:"score"`
	Status      SuggestionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`

	// Populated on read paths for display
	Mentor *User `json:"mentor,omitempty"`
	Mentee *User `json:"mentee,omitempty"`
}

// CreateSuggestionRequest is the payload for manually proposing a pairing
type CreateSuggestionRequest struct {
	MentorID int64 `json:"mentor_id" binding:"required,min=1"`
	MenteeID int64 `json:"mentee_id" binding:"required,min=1"`
}

// RespondSuggestionRequest is the mentee's answer to a pending suggestion
type RespondSuggestionRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

// RespondSuggestionResponse is returned after responding to a suggestion.
// Mentorship is set only when the suggestion was accepted.
type RespondSuggestionResponse struct {
	Suggestion *Suggestion `json:"suggestion"`
	Mentorship *Mentorship `json:"mentorship,omitempty"`
}

// SuggestionListResponse wraps a suggestion list
type SuggestionListResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	Count       int          `json:"count"`
}
