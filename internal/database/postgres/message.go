package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mentormesh/mentormesh-api/internal/models"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	"go.uber.org/zap"
)

const messageColumns = `id, sender_id, mentorship_id, conversation_id, body, created_at`

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.SenderID, &m.MentorshipID, &m.ConversationID, &m.Body, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// InsertMentorshipMessage stores a message under a mentorship. The
// insert re-checks the mentorship status so a thread closed after the
// caller's read cannot receive the message.
func (c *Client) InsertMentorshipMessage(ctx context.Context, mentorshipID, senderID int64, body string) (*models.Message, error) {
	message, err := c.insertMessage(ctx, "insertMentorshipMessage",
		`INSERT INTO messages (sender_id, mentorship_id, body)
		 SELECT $1, $2, $3
		 WHERE EXISTS (
		     SELECT 1 FROM mentorships
		     WHERE id = $2 AND status IN ('pending', 'active')
		 )
		 RETURNING `+messageColumns,
		senderID, mentorshipID, body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.InvalidStateError("mentorship is closed, messages are closed")
		}
		return nil, err
	}

	return message, nil
}

// InsertConversationMessage stores a message under a conversation
func (c *Client) InsertConversationMessage(ctx context.Context, conversationID, senderID int64, body string) (*models.Message, error) {
	return c.insertMessage(ctx, "insertConversationMessage",
		`INSERT INTO messages (sender_id, conversation_id, body) VALUES ($1, $2, $3) RETURNING `+messageColumns,
		senderID, conversationID, body)
}

func (c *Client) insertMessage(ctx context.Context, operation, query string, args ...interface{}) (*models.Message, error) {
	start := time.Now()

	message, err := scanMessage(c.pool.QueryRow(ctx, query, args...))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("message_id", message.ID))

	return message, nil
}

// ListMentorshipMessages fetches all messages of a mentorship in
// ascending id order.
func (c *Client) ListMentorshipMessages(ctx context.Context, mentorshipID int64) ([]models.Message, error) {
	return c.listMessages(ctx, "listMentorshipMessages",
		`SELECT `+messageColumns+` FROM messages WHERE mentorship_id = $1 ORDER BY created_at, id`,
		mentorshipID)
}

// ListConversationMessages fetches all messages of a conversation in
// ascending id order.
func (c *Client) ListConversationMessages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	return c.listMessages(ctx, "listConversationMessages",
		`SELECT `+messageColumns+` FROM messages WHERE conversation_id = $1 ORDER BY created_at, id`,
		conversationID)
}

func (c *Client) listMessages(ctx context.Context, operation, query string, args ...interface{}) ([]models.Message, error) {
	start := time.Now()

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, *message)
	}

	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return messages, nil
}
