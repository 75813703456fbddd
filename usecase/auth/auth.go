package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/repository"
)

// UseCase implements the credentials login flow: email lookup, bcrypt
// comparison, a Redis-held session and an HS256 token referencing it.
type UseCase struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	sessions repository.SessionRepository
	secret   []byte
	issuer   string
	ttl      time.Duration
	logger   *zap.Logger
}

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

func New(
	users repository.UserRepository,
	roles repository.RoleRepository,
	sessions repository.SessionRepository,
	cfg Config,
	logger *zap.Logger,
) *UseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		roles:    roles,
		sessions: sessions,
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		ttl:      cfg.TTL,
		logger:   logger,
	}
}

// LoginResult is returned to the client after a successful credentials check.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// Login validates the credentials and opens a session. Unknown emails and
// wrong passwords collapse into the same error so callers cannot probe
// which accounts exist.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// A missing role only means the identity carries no role name downstream.
	roleName := ""
	if role, err := uc.roles.GetByID(ctx, user.RoleID); err == nil {
		roleName = role.Name
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      roleName,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := uc.signToken(session)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("session opened", zap.String("user_id", user.ID))
	return &LoginResult{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

// Logout revokes the session referenced by the token.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// ResolveSession validates a session id against Redis and returns the
// caller identity, or ErrSessionNotFound for expired/revoked sessions.
func (uc *UseCase) ResolveSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"session_id": session.ID,
		"sub":        session.UserID,
		"email":      session.Email,
		"iss":        uc.issuer,
		"iat":        session.CreatedAt.Unix(),
		"exp":        session.ExpiresAt.Unix(),
	}
	if session.Role != "" {
		claims["role"] = session.Role
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
}
