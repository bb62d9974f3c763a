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

const suggestionColumns = `id, mentor_id, mentee_id, score, status, created_at, responded_at`

func scanSuggestion(row pgx.Row) (*models.Suggestion, error) {
	var s models.Suggestion
	err := row.Scan(&s.ID, &s.MentorID, &s.MenteeID, &s.Score, &s.Status, &s.CreatedAt, &s.RespondedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSuggestion inserts a pending suggestion. The partial unique
// index rejects a second pending suggestion for the same pair, and the
// insert is refused while an open mentorship exists between the two.
func (c *Client) CreateSuggestion(ctx context.Context, mentorID, menteeID int64, score float64) (*models.Suggestion, error) {
	start := time.Now()
	operation := "createSuggestion"

	query := `
		INSERT INTO suggestions (mentor_id, mentee_id, score)
		SELECT $1, $2, $3
		WHERE NOT EXISTS (
			SELECT 1 FROM mentorships
			WHERE mentor_id = $1 AND mentee_id = $2 AND status IN ('pending', 'active')
		)
		RETURNING ` + suggestionColumns

	suggestion, err := scanSuggestion(c.pool.QueryRow(ctx, query, mentorID, menteeID, score))

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "conflict", duration)
		return nil, apperrors.ConflictError("an open mentorship already exists for this pair")
	}
	if err != nil {
		if isUniqueViolation(err) {
			recordMetrics(operation, "conflict", duration)
			return nil, apperrors.ConflictError("a pending suggestion already exists for this pair")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create suggestion: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.Int64("suggestion_id", suggestion.ID),
		zap.Int64("mentor_id", mentorID),
		zap.Int64("mentee_id", menteeID))

	return suggestion, nil
}

// GetSuggestionByID fetches a suggestion by primary key
func (c *Client) GetSuggestionByID(ctx context.Context, id int64) (*models.Suggestion, error) {
	start := time.Now()
	operation := "getSuggestionByID"

	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE id = $1`

	suggestion, err := scanSuggestion(c.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("suggestion")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query suggestion: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return suggestion, nil
}

// ListSuggestionsForUser fetches suggestions where the user is mentor or
// mentee, newest first.
func (c *Client) ListSuggestionsForUser(ctx context.Context, userID int64) ([]models.Suggestion, error) {
	start := time.Now()
	operation := "listSuggestionsForUser"

	query := `SELECT ` + suggestionColumns + `
		FROM suggestions
		WHERE mentor_id = $1 OR mentee_id = $1
		ORDER BY id DESC`

	rows, err := c.pool.Query(ctx, query, userID)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []models.Suggestion
	for rows.Next() {
		suggestion, err := scanSuggestion(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, fmt.Errorf("failed to scan suggestion row: %w", err)
		}
		suggestions = append(suggestions, *suggestion)
	}

	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating suggestion rows: %w", err)
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return suggestions, nil
}

// DeclineSuggestion marks a pending suggestion declined. The guarded
// update returns no row when the suggestion was already resolved, which
// maps to a conflict: someone else got there first.
func (c *Client) DeclineSuggestion(ctx context.Context, id int64) (*models.Suggestion, error) {
	start := time.Now()
	operation := "declineSuggestion"

	query := `
		UPDATE suggestions
		SET status = 'declined', responded_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + suggestionColumns

	suggestion, err := scanSuggestion(c.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "conflict", duration)
		return nil, apperrors.ConflictError("suggestion already resolved")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to decline suggestion: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("suggestion_id", id))

	return suggestion, nil
}

// AcceptSuggestion atomically marks a pending suggestion accepted and
// creates the resulting pending mentorship. Both writes share one
// transaction so a crash cannot leave an accepted suggestion without
// its mentorship.
func (c *Client) AcceptSuggestion(ctx context.Context, id int64) (*models.Suggestion, *models.Mentorship, error) {
	start := time.Now()
	operation := "acceptSuggestion"

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback after commit is a no-op

	updateQuery := `
		UPDATE suggestions
		SET status = 'accepted', responded_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + suggestionColumns

	suggestion, err := scanSuggestion(tx.QueryRow(ctx, updateQuery, id))
	if isNoRows(err) {
		recordMetrics(operation, "conflict", metrics.MeasureDuration(start))
		return nil, nil, apperrors.ConflictError("suggestion already resolved")
	}
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, nil, fmt.Errorf("failed to accept suggestion: %w", err)
	}

	insertQuery := `
		INSERT INTO mentorships (mentor_id, mentee_id, suggestion_id)
		VALUES ($1, $2, $3)
		RETURNING ` + mentorshipColumns

	mentorship, err := scanMentorship(tx.QueryRow(ctx, insertQuery,
		suggestion.MentorID, suggestion.MenteeID, suggestion.ID))
	if err != nil {
		duration := metrics.MeasureDuration(start)
		if isUniqueViolation(err) {
			recordMetrics(operation, "conflict", duration)
			return nil, nil, apperrors.ConflictError("an open mentorship already exists for this pair")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, nil, fmt.Errorf("failed to create mentorship: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, nil, fmt.Errorf("failed to commit suggestion acceptance: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.Int64("suggestion_id", suggestion.ID),
		zap.Int64("mentorship_id", mentorship.ID))

	return suggestion, mentorship, nil
}
