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

const mentorshipColumns = `id, mentor_id, mentee_id, suggestion_id, status, notes, cancel_reason, started_at, ended_at, created_at, updated_at`

func scanMentorship(row pgx.Row) (*models.Mentorship, error) {
	var m models.Mentorship
	err := row.Scan(&m.ID, &m.MentorID, &m.MenteeID, &m.SuggestionID, &m.Status,
		&m.Notes, &m.CancelReason, &m.StartedAt, &m.EndedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMentorshipByID fetches a mentorship by primary key
func (c *Client) GetMentorshipByID(ctx context.Context, id int64) (*models.Mentorship, error) {
	start := time.Now()
	operation := "getMentorshipByID"

	query := `SELECT ` + mentorshipColumns + ` FROM mentorships WHERE id = $1`

	mentorship, err := scanMentorship(c.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("mentorship")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query mentorship: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return mentorship, nil
}

// ListMentorshipsForUser fetches mentorships where the user is mentor
// or mentee, newest first.
func (c *Client) ListMentorshipsForUser(ctx context.Context, userID int64) ([]models.Mentorship, error) {
	start := time.Now()
	operation := "listMentorshipsForUser"

	query := `SELECT ` + mentorshipColumns + `
		FROM mentorships
		WHERE mentor_id = $1 OR mentee_id = $1
		ORDER BY id DESC`

	rows, err := c.pool.Query(ctx, query, userID)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query mentorships: %w", err)
	}
	defer rows.Close()

	var mentorships []models.Mentorship
	for rows.Next() {
		mentorship, err := scanMentorship(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, fmt.Errorf("failed to scan mentorship row: %w", err)
		}
		mentorships = append(mentorships, *mentorship)
	}

	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating mentorship rows: %w", err)
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return mentorships, nil
}

// TransitionMentorship moves a mentorship from one status to another.
// The update is guarded on the expected current status: zero affected
// rows means the mentorship changed under us, which maps to a conflict.
// Terminal transitions stamp ended_at; note carries completion notes or
// the cancellation reason depending on the target status.
func (c *Client) TransitionMentorship(ctx context.Context, id int64, from, to models.MentorshipStatus, note string) (*models.Mentorship, error) {
	start := time.Now()
	operation := "transitionMentorship"

	query := `
		UPDATE mentorships
		SET status = $3,
		    notes = CASE WHEN $3 = 'completed' THEN $4 ELSE notes END,
		    cancel_reason = CASE WHEN $3 = 'canceled' THEN $4 ELSE cancel_reason END,
		    ended_at = CASE WHEN $3 IN ('completed', 'canceled') THEN NOW() ELSE ended_at END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + mentorshipColumns

	mentorship, err := scanMentorship(c.pool.QueryRow(ctx, query, id, from, to, note))

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "conflict", duration)
		return nil, apperrors.ConflictError("mentorship state changed concurrently")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to transition mentorship: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.Int64("mentorship_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	return mentorship, nil
}
