package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/auth"
	"github.com/docvault/backend/internal/config"
	"github.com/docvault/backend/internal/models"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListActive(ctx context.Context) ([]models.User, error)
}

// SessionStore tracks live tokens so logout can revoke them before expiry.
type SessionStore interface {
	Save(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error
	Lookup(ctx context.Context, token string) (uuid.UUID, bool, error)
	Revoke(ctx context.Context, token string) error
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, cfg *config.Config, log *zap.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, cfg: cfg, log: log}
}

type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and opens a session. Unknown email, wrong
// password and inactive account all collapse into ErrInvalidCredentials so
// the response does not leak which one it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.cfg.SessionTTL)
	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, token, user.ID, expiresAt); err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()))
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session. Idempotent: revoking an already-revoked or
// expired token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate resolves a bearer token to its active user. The token must
// verify, the session must still be live and the account must be active.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseJWT(s.cfg.JWTSecret, token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	userID, ok, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok || userID != claims.UserID {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ListUsers returns all active users with password hashes stripped by the
// model's JSON encoding.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListActive(ctx)
}
