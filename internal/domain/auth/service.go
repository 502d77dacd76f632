package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

type UserStore interface {
	FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error)
	UpdateLastLogin(ctx context.Context, userID string) error
}

type Service struct {
	store  UserStore
	secret string
	ttl    time.Duration
}

func NewService(store UserStore, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Service{store: store, secret: secret, ttl: ttl}
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserInfo  `json:"user"`
}

type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Login checks the credentials and issues a bearer token. Unknown users and
// wrong passwords both report ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	user, err := s.store.FindActiveUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := CheckPassword(user.Password, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !ValidRole(user.RoleName) {
		return LoginResult{}, ErrInvalidRole
	}

	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, RoleName: user.RoleName}, s.ttl)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}
	return LoginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.ttl).UTC(),
		User:      UserInfo{ID: user.ID, Name: user.Name, Role: user.RoleName},
	}, nil
}

// Authenticate validates a bearer token and returns its claims.
func (s *Service) Authenticate(token string) (*Claims, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, err
	}
	if !ValidRole(claims.RoleName) {
		return nil, ErrInvalidRole
	}
	return claims, nil
}
