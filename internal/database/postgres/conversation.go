package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mentormesh/mentormesh-api/internal/models"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	"go.uber.org/zap"
)

const conversationColumns = `id, participant1_id, participant2_id, created_at`

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var c models.Conversation
	err := row.Scan(&c.ID, &c.Participant1ID, &c.Participant2ID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateConversation returns the conversation for a user pair,
// creating it if missing. Participants must already be in canonical
// order. ON CONFLICT DO NOTHING plus a follow-up select makes the
// operation safe under concurrent creation.
func (c *Client) GetOrCreateConversation(ctx context.Context, participant1, participant2 int64) (*models.Conversation, error) {
	start := time.Now()
	operation := "getOrCreateConversation"

	if participant1 >= participant2 {
		return nil, apperrors.InvalidInputError("participants", "must be in canonical order")
	}

	insertQuery := `
		INSERT INTO conversations (participant1_id, participant2_id)
		VALUES ($1, $2)
		ON CONFLICT (participant1_id, participant2_id) DO NOTHING
		RETURNING ` + conversationColumns

	conversation, err := scanConversation(c.pool.QueryRow(ctx, insertQuery, participant1, participant2))
	if isNoRows(err) {
		// Row already existed, fetch it
		selectQuery := `SELECT ` + conversationColumns + `
			FROM conversations
			WHERE participant1_id = $1 AND participant2_id = $2`
		conversation, err = scanConversation(c.pool.QueryRow(ctx, selectQuery, participant1, participant2))
	}

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to get or create conversation: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.Int64("conversation_id", conversation.ID))

	return conversation, nil
}

// GetConversationByID fetches a conversation by primary key
func (c *Client) GetConversationByID(ctx context.Context, id int64) (*models.Conversation, error) {
	start := time.Now()
	operation := "getConversationByID"

	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	conversation, err := scanConversation(c.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("conversation")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return conversation, nil
}

// ListConversationsForUser fetches conversations the user participates
// in, newest first.
func (c *Client) ListConversationsForUser(ctx context.Context, userID int64) ([]models.Conversation, error) {
	start := time.Now()
	operation := "listConversationsForUser"

	query := `SELECT ` + conversationColumns + `
		FROM conversations
		WHERE participant1_id = $1 OR participant2_id = $1
		ORDER BY id DESC`

	rows, err := c.pool.Query(ctx, query, userID)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		conversation, err := scanConversation(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		conversations = append(conversations, *conversation)
	}

	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return conversations, nil
}
