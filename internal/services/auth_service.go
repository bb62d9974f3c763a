package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/mentormesh/mentormesh-api/config"
	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/repository"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/jwt"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	"github.com/mentormesh/mentormesh-api/pkg/notify"
	"go.uber.org/zap"
)

// AuthService handles passwordless authentication: a short-lived login
// token is delivered out of band, then exchanged for a session JWT.
type AuthService struct {
	store        repository.UserStore
	config       *config.Config
	tokenManager *jwt.TokenManager
	notifier     notify.Notifier
}

// NewAuthService creates a new AuthService
func NewAuthService(store repository.UserStore, cfg *config.Config, notifier notify.Notifier) *AuthService {
	tokenManager := jwt.NewTokenManager(
		cfg.Session.JWTSecret,
		cfg.Session.JWTIssuer,
		time.Duration(cfg.Session.SessionTTLHours)*time.Hour,
	)

	return &AuthService{
		store:        store,
		config:       cfg,
		tokenManager: tokenManager,
		notifier:     notifier,
	}
}

// Register creates a new account together with its initial skill sets
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	user, err := s.store.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(req.MentorSkillIDs) > 0 {
		if err := s.store.ReplaceMentorSkills(ctx, user.ID, req.MentorSkillIDs); err != nil {
			return nil, err
		}
	}
	if len(req.MenteeSkillIDs) > 0 {
		if err := s.store.ReplaceMenteeSkills(ctx, user.ID, req.MenteeSkillIDs); err != nil {
			return nil, err
		}
	}

	logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email))

	return user, nil
}

// RequestLogin generates a login token and hands it to the notification
// webhook for delivery. The response never reveals whether the email
// exists.
func (s *AuthService) RequestLogin(ctx context.Context, email string) (*models.RequestLoginResponse, error) {
	start := time.Now()

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Warn("Login request for unknown email", zap.String("email", email))
		metrics.AuthLoginRequests.WithLabelValues("user_not_found").Inc()
		return nil, apperrors.NotFoundError("user")
	}

	token, err := generateLoginToken()
	if err != nil {
		logger.Error("Failed to generate login token", zap.Error(err))
		metrics.AuthLoginRequests.WithLabelValues("token_generation_failed").Inc()
		return nil, apperrors.InternalError("failed to generate login token")
	}

	expiration := time.Now().Add(time.Duration(s.config.Session.LoginTokenTTLMinutes) * time.Minute)

	if err := s.store.SetLoginToken(ctx, user.ID, token, expiration); err != nil {
		logger.Error("Failed to store login token",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		metrics.AuthLoginRequests.WithLabelValues("storage_failed").Inc()
		return nil, fmt.Errorf("failed to store login token: %w", err)
	}

	loginURL := fmt.Sprintf("%s/auth/callback?token=%s", s.config.Server.BaseURL, token)

	s.notifier.Notify(strconv.FormatInt(user.ID, 10), notify.EventLoginRequested, map[string]interface{}{
		"email":     user.Email,
		"name":      user.Name,
		"login_url": loginURL,
	})

	if s.config.IsDevelopment() {
		// Without a delivery webhook the login URL ends up nowhere, so
		// surface it in the dev console
		logger.Info("=== DEVELOPMENT LOGIN URL ===",
			zap.String("email", user.Email),
			zap.String("login_url", loginURL))
	}

	metrics.AuthLoginRequests.WithLabelValues("success").Inc()

	logger.Info("Login token generated",
		zap.Int64("user_id", user.ID),
		zap.Duration("duration", time.Since(start)))

	return &models.RequestLoginResponse{
		Success: true,
		Message: "A login link has been sent to your email",
	}, nil
}

// VerifyLogin verifies a login token and creates a session
func (s *AuthService) VerifyLogin(ctx context.Context, token string) (*models.UserSession, string, error) {
	start := time.Now()

	user, storedToken, tokenExp, err := s.store.GetUserByLoginToken(ctx, token)
	if err != nil {
		logger.Warn("Login verification with invalid token")
		metrics.AuthVerifyRequests.WithLabelValues("invalid_token").Inc()
		return nil, "", apperrors.AccessDeniedError("invalid or expired login token")
	}

	if !jwt.TimingSafeCompare(token, storedToken) {
		logger.Warn("Login token mismatch", zap.Int64("user_id", user.ID))
		metrics.AuthVerifyRequests.WithLabelValues("token_mismatch").Inc()
		return nil, "", apperrors.AccessDeniedError("invalid or expired login token")
	}

	if time.Now().After(tokenExp) {
		logger.Warn("Login token expired",
			zap.Int64("user_id", user.ID),
			zap.Time("expired_at", tokenExp))
		metrics.AuthVerifyRequests.WithLabelValues("expired").Inc()
		return nil, "", apperrors.AccessDeniedError("invalid or expired login token")
	}

	// Single-use: clear before issuing the session
	if clearErr := s.store.ClearLoginToken(ctx, user.ID); clearErr != nil {
		logger.Error("Failed to clear login token",
			zap.Int64("user_id", user.ID),
			zap.Error(clearErr))
		// Continue with login even if clearing fails
	}

	jwtToken, err := s.tokenManager.GenerateToken(
		strconv.FormatInt(user.ID, 10), user.Email, user.Name, string(user.Role))
	if err != nil {
		logger.Error("Failed to generate JWT",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		metrics.AuthVerifyRequests.WithLabelValues("jwt_failed").Inc()
		return nil, "", fmt.Errorf("failed to generate session: %w", err)
	}

	now := time.Now()
	session := &models.UserSession{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		ExpiresAt: now.Add(s.tokenManager.GetExpirationTime()).Unix(),
		IssuedAt:  now.Unix(),
	}

	metrics.AuthVerifyRequests.WithLabelValues("success").Inc()

	logger.Info("Login successful",
		zap.Int64("user_id", user.ID),
		zap.Duration("duration", time.Since(start)))

	return session, jwtToken, nil
}

// GetSessionTTL returns the session TTL in seconds
func (s *AuthService) GetSessionTTL() int {
	return s.config.Session.SessionTTLHours * 3600
}

// GetCookieDomain returns the cookie domain
func (s *AuthService) GetCookieDomain() string {
	return s.config.Session.CookieDomain
}

// GetCookieSecure returns whether cookies should be secure
func (s *AuthService) GetCookieSecure() bool {
	return s.config.Session.CookieSecure
}

// GetTokenManager returns the JWT token manager
func (s *AuthService) GetTokenManager() *jwt.TokenManager {
	return s.tokenManager
}

// generateLoginToken creates a secure random login token
func generateLoginToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return fmt.Sprintf("lt_%s", hex.EncodeToString(bytes)), nil
}
