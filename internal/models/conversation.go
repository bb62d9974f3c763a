package models

import "time"

// Conversation is a direct message thread between two users outside any
// mentorship. Participants are stored in canonical order: the lower user
// id is always participant1, so each pair maps to exactly one row.
type Conversation struct {
	ID             int64     `json:"id"`
	Participant1ID int64     `json:"participant1_id"`
	Participant2ID int64     `json:"participant2_id"`
	CreatedAt      time.Time `json:"created_at"`

	// Populated on read paths for display
	Participant1 *User `json:"participant1,omitempty"`
	Participant2 *User `json:"participant2,omitempty"`
}

// CanonicalPair orders two user ids into the stored participant order
func CanonicalPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// Involves reports whether the user participates in this conversation
func (c *Conversation) Involves(userID int64) bool {
	return c.Participant1ID == userID || c.Participant2ID == userID
}

// StartConversationRequest is the payload for opening a direct thread
type StartConversationRequest struct {
	UserID int64 `json:"user_id" binding:"required,min=1"`
}

// ConversationListResponse wraps a conversation list
type ConversationListResponse struct {
	Conversations []Conversation `json:"conversations"`
	Count         int            `json:"count"`
}
