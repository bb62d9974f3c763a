package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mentormesh/mentormesh-api/internal/models"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	"go.uber.org/zap"
)

// ListSkills fetches the full skill catalog ordered by name
func (c *Client) ListSkills(ctx context.Context) ([]models.Skill, error) {
	start := time.Now()
	operation := "listSkills"

	rows, err := c.pool.Query(ctx,
		`SELECT id, name, slug, created_at FROM skills ORDER BY name`)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Slug, &skill.CreatedAt); err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, fmt.Errorf("failed to scan skill row: %w", err)
		}
		skills = append(skills, skill)
	}

	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating skill rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int("count", len(skills)))

	return skills, nil
}

// GetSkillByID fetches a single skill
func (c *Client) GetSkillByID(ctx context.Context, id int64) (*models.Skill, error) {
	start := time.Now()
	operation := "getSkillByID"

	var skill models.Skill
	err := c.pool.QueryRow(ctx,
		`SELECT id, name, slug, created_at FROM skills WHERE id = $1`, id).
		Scan(&skill.ID, &skill.Name, &skill.Slug, &skill.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("skill")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query skill: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &skill, nil
}

// GetSkillBySlug fetches a single skill by its URL slug
func (c *Client) GetSkillBySlug(ctx context.Context, slug string) (*models.Skill, error) {
	start := time.Now()
	operation := "getSkillBySlug"

	var skill models.Skill
	err := c.pool.QueryRow(ctx,
		`SELECT id, name, slug, created_at FROM skills WHERE slug = $1`, slug).
		Scan(&skill.ID, &skill.Name, &skill.Slug, &skill.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("skill")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query skill: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &skill, nil
}

// CreateSkill adds a skill to the catalog
func (c *Client) CreateSkill(ctx context.Context, name, slug string) (*models.Skill, error) {
	start := time.Now()
	operation := "createSkill"

	var skill models.Skill
	err := c.pool.QueryRow(ctx,
		`INSERT INTO skills (name, slug) VALUES ($1, $2) RETURNING id, name, slug, created_at`,
		name, slug).
		Scan(&skill.ID, &skill.Name, &skill.Slug, &skill.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		if isUniqueViolation(err) {
			recordMetrics(operation, "conflict", duration)
			return nil, apperrors.ConflictError("skill already exists")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.String("name", name))

	return &skill, nil
}

// DeleteSkill removes a skill from the catalog. Link rows cascade.
func (c *Client) DeleteSkill(ctx context.Context, id int64) error {
	start := time.Now()
	operation := "deleteSkill"

	tag, err := c.pool.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("skill")
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("skill_id", id))

	return nil
}

// CountSkillsByIDs returns how many of the given ids exist in the catalog
func (c *Client) CountSkillsByIDs(ctx context.Context, ids []int64) (int, error) {
	start := time.Now()
	operation := "countSkillsByIDs"

	if len(ids) == 0 {
		return 0, nil
	}

	var count int
	err := c.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM skills WHERE id = ANY($1)`, ids).Scan(&count)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return 0, fmt.Errorf("failed to count skills: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return count, nil
}
