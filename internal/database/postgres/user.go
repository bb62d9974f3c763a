package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mentormesh/mentormesh-api/internal/models"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	"go.uber.org/zap"
)

const userColumns = `id, email, name, role, location, prefers_in_person, bio, avatar_url, availability, onboarding_completed_at, created_at, updated_at`

const qualifiedUserColumns = `u.id, u.email, u.name, u.role, u.location, u.prefers_in_person, u.bio, u.avatar_url, u.availability, u.onboarding_completed_at, u.created_at, u.updated_at`

// scanUser scans a user row. Availability is stored as JSONB.
func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var availabilityJSON []byte

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.Location,
		&user.PrefersInPerson,
		&user.Bio,
		&user.AvatarURL,
		&availabilityJSON,
		&user.OnboardingCompletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(availabilityJSON) > 0 {
		if err := json.Unmarshal(availabilityJSON, &user.Availability); err != nil {
			return nil, fmt.Errorf("failed to decode availability: %w", err)
		}
	}

	return &user, nil
}

// CreateUser inserts a new user and returns it with the generated id
func (c *Client) CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	start := time.Now()
	operation := "createUser"

	availabilityJSON, err := json.Marshal(req.Availability)
	if err != nil {
		return nil, fmt.Errorf("failed to encode availability: %w", err)
	}

	query := `
		INSERT INTO users (email, name, location, prefers_in_person, bio, availability)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	user, err := scanUser(c.pool.QueryRow(ctx, query,
		req.Email, req.Name, req.Location, req.PrefersInPerson, req.Bio, availabilityJSON))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		if isUniqueViolation(err) {
			recordMetrics(operation, "conflict", duration)
			return nil, apperrors.ConflictError("email already registered")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("user_id", user.ID))

	return user, nil
}

// GetUserByID fetches a user by primary key
func (c *Client) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	start := time.Now()
	operation := "getUserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(c.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("user")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return user, nil
}

// GetUserByEmail fetches a user by email
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()
	operation := "getUserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(c.pool.QueryRow(ctx, query, email))

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("user")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return user, nil
}

// UpdateUserProfile applies a partial profile update. Skill links are
// handled separately via ReplaceMentorSkills/ReplaceMenteeSkills.
func (c *Client) UpdateUserProfile(ctx context.Context, id int64, req *models.UpdateProfileRequest) (*models.User, error) {
	start := time.Now()
	operation := "updateUserProfile"

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf(clause, len(args)))
	}

	if req.Name != nil {
		addArg("name = $%d", *req.Name)
	}
	if req.Location != nil {
		addArg("location = $%d", *req.Location)
	}
	if req.PrefersInPerson != nil {
		addArg("prefers_in_person = $%d", *req.PrefersInPerson)
	}
	if req.Bio != nil {
		addArg("bio = $%d", *req.Bio)
	}
	if req.Availability != nil {
		availabilityJSON, err := json.Marshal(*req.Availability)
		if err != nil {
			return nil, fmt.Errorf("failed to encode availability: %w", err)
		}
		addArg("availability = $%d", availabilityJSON)
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(setClauses, ", "), userColumns,
	)

	user, err := scanUser(c.pool.QueryRow(ctx, query, args...))

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("user")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("user_id", id))

	return user, nil
}

// SetAvatarURL stores the uploaded avatar URL on the user
func (c *Client) SetAvatarURL(ctx context.Context, id int64, avatarURL string) error {
	start := time.Now()
	operation := "setAvatarURL"

	tag, err := c.pool.Exec(ctx,
		`UPDATE users SET avatar_url = $2, updated_at = NOW() WHERE id = $1`, id, avatarURL)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to set avatar URL: %w", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("user")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// CompleteOnboarding marks the user's onboarding as finished, making
// them visible to matching. Idempotent: a second call keeps the first
// completion timestamp.
func (c *Client) CompleteOnboarding(ctx context.Context, id int64) (*models.User, error) {
	start := time.Now()
	operation := "completeOnboarding"

	query := `
		UPDATE users
		SET onboarding_completed_at = COALESCE(onboarding_completed_at, NOW()), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(c.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("user")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("user_id", id))

	return user, nil
}

// ListUsersWithSkill returns users linked to the skill through the
// given link table, ordered by id.
func (c *Client) ListUsersWithSkill(ctx context.Context, table string, skillID int64) ([]models.User, error) {
	start := time.Now()
	operation := "listUsersWithSkill"

	if table != "user_mentor_skills" && table != "user_mentee_skills" {
		return nil, fmt.Errorf("unknown skill link table: %s", table)
	}

	query := fmt.Sprintf(`
		SELECT `+qualifiedUserColumns+`
		FROM users u
		JOIN %s l ON l.user_id = u.id
		WHERE l.skill_id = $1
		ORDER BY u.id`, table)

	rows, err := c.pool.Query(ctx, query, skillID)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query users by skill: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return users, nil
}

// SetLoginToken stores a single-use login token with its expiration
func (c *Client) SetLoginToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	start := time.Now()
	operation := "setLoginToken"

	tag, err := c.pool.Exec(ctx,
		`UPDATE users SET login_token = $2, login_token_expires_at = $3 WHERE id = $1`,
		id, token, expiresAt)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to store login token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("user")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// GetUserByLoginToken fetches a user by login token along with the
// stored token and its expiration for verification.
func (c *Client) GetUserByLoginToken(ctx context.Context, token string) (*models.User, string, time.Time, error) {
	start := time.Now()
	operation := "getUserByLoginToken"

	query := `SELECT ` + userColumns + `, login_token, login_token_expires_at
		FROM users WHERE login_token = $1`

	var user models.User
	var availabilityJSON []byte
	var storedToken string
	var tokenExp time.Time

	err := c.pool.QueryRow(ctx, query, token).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.Location,
		&user.PrefersInPerson, &user.Bio, &user.AvatarURL, &availabilityJSON,
		&user.OnboardingCompletedAt, &user.CreatedAt, &user.UpdatedAt,
		&storedToken, &tokenExp,
	)

	duration := metrics.MeasureDuration(start)

	if isNoRows(err) {
		recordMetrics(operation, "not_found", duration)
		return nil, "", time.Time{}, apperrors.NotFoundError("login token")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, "", time.Time{}, fmt.Errorf("failed to query login token: %w", err)
	}

	if len(availabilityJSON) > 0 {
		if err := json.Unmarshal(availabilityJSON, &user.Availability); err != nil {
			recordMetrics(operation, "error", duration)
			return nil, "", time.Time{}, fmt.Errorf("failed to decode availability: %w", err)
		}
	}

	recordMetrics(operation, "success", duration)
	return &user, storedToken, tokenExp, nil
}

// ClearLoginToken removes a consumed login token
func (c *Client) ClearLoginToken(ctx context.Context, id int64) error {
	start := time.Now()
	operation := "clearLoginToken"

	_, err := c.pool.Exec(ctx,
		`UPDATE users SET login_token = NULL, login_token_expires_at = NULL WHERE id = $1`, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to clear login token: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// ReplaceMentorSkills replaces the user's mentor skill set
func (c *Client) ReplaceMentorSkills(ctx context.Context, userID int64, skillIDs []int64) error {
	return c.replaceSkillLinks(ctx, "user_mentor_skills", "replaceMentorSkills", userID, skillIDs)
}

// ReplaceMenteeSkills replaces the user's mentee skill set
func (c *Client) ReplaceMenteeSkills(ctx context.Context, userID int64, skillIDs []int64) error {
	return c.replaceSkillLinks(ctx, "user_mentee_skills", "replaceMenteeSkills", userID, skillIDs)
}

func (c *Client) replaceSkillLinks(ctx context.Context, table, operation string, userID int64, skillIDs []int64) error {
	start := time.Now()

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback after commit is a no-op

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table), userID); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return fmt.Errorf("failed to clear skill links: %w", err)
	}

	for _, skillID := range skillIDs {
		_, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (user_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table),
			userID, skillID)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return fmt.Errorf("failed to insert skill link: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return fmt.Errorf("failed to commit skill links: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.Int64("user_id", userID),
		zap.Int("count", len(skillIDs)))

	return nil
}

// GetSkillsForUsers loads skill lists for a batch of users from the
// given link table. Returns a map keyed by user id.
func (c *Client) GetSkillsForUsers(ctx context.Context, table string, userIDs []int64) (map[int64][]models.Skill, error) {
	start := time.Now()
	operation := "getSkillsForUsers"

	if len(userIDs) == 0 {
		return map[int64][]models.Skill{}, nil
	}
	if table != "user_mentor_skills" && table != "user_mentee_skills" {
		return nil, fmt.Errorf("unknown skill link table: %s", table)
	}

	query := fmt.Sprintf(`
		SELECT l.user_id, s.id, s.name, s.slug, s.created_at
		FROM %s l
		JOIN skills s ON s.id = l.skill_id
		WHERE l.user_id = ANY($1)
		ORDER BY s.name`, table)

	rows, err := c.pool.Query(ctx, query, userIDs)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query user skills: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]models.Skill, len(userIDs))
	for rows.Next() {
		var userID int64
		var skill models.Skill
		if err := rows.Scan(&userID, &skill.ID, &skill.Name, &skill.Slug, &skill.CreatedAt); err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, fmt.Errorf("failed to scan skill row: %w", err)
		}
		result[userID] = append(result[userID], skill)
	}

	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating skill rows: %w", err)
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return result, nil
}

// ListMatchCandidates returns users who could fill the given role for
// the caller: mentor candidates teach at least one skill the caller
// wants to learn, mentee candidates want at least one skill the caller
// teaches. Excluded: the caller, users who have not completed
// onboarding, and users already in an open mentorship with the caller.
func (c *Client) ListMatchCandidates(ctx context.Context, callerID int64, role models.MatchRole) ([]models.User, error) {
	start := time.Now()
	operation := "listMatchCandidates"

	// candidateTable holds the candidate's side of the link, callerTable
	// the caller's side
	candidateTable := "user_mentor_skills"
	callerTable := "user_mentee_skills"
	if role == models.MatchRoleMentee {
		candidateTable = "user_mentee_skills"
		callerTable = "user_mentor_skills"
	}

	query := fmt.Sprintf(`
		SELECT `+qualifiedUserColumns+`
		FROM users u
		WHERE u.id <> $1
		  AND u.onboarding_completed_at IS NOT NULL
		  AND EXISTS (
			SELECT 1
			FROM %s cand
			JOIN %s caller ON caller.skill_id = cand.skill_id AND caller.user_id = $1
			WHERE cand.user_id = u.id
		  )
		  AND NOT EXISTS (
			SELECT 1
			FROM mentorships m
			WHERE m.status IN ('pending', 'active')
			  AND ((m.mentor_id = u.id AND m.mentee_id = $1)
			    OR (m.mentor_id = $1 AND m.mentee_id = u.id))
		  )
		ORDER BY u.id`, candidateTable, callerTable)

	rows, err := c.pool.Query(ctx, query, callerID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query match candidates: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("error iterating candidate rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.Int64("user_id", callerID),
		zap.String("role", string(role)),
		zap.Int("count", len(users)))

	return users, nil
}
