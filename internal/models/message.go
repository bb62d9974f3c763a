package models

import "time"

// Message is a chat message attached to exactly one parent, either a
// mentorship or a direct conversation.
type Message struct {
	ID             int64     `json:"id"`
	SenderID       int64     `json:"sender_id"`
	MentorshipID   *int64    `json:"mentorship_id,omitempty"`
	ConversationID *int64    `json:"conversation_id,omitempty"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// SendMessageRequest is the payload for posting a message
type SendMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=4000"`
}

// MessageListResponse wraps a message list in ascending id order
type MessageListResponse struct {
	Messages []Message `json:"messages"`
	Count    int       `json:"count"`
}
