package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fieldops-service/internal/auth"
	"github.com/spec-kit/fieldops-service/internal/config"
	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/repository"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

// AuthService verifies credentials and issues access tokens. Identity and
// role assignment are otherwise external concerns; the rest of the core only
// consumes the Actor the middleware resolves.
type AuthService struct {
	actors repository.ActorRepository
	tokens *auth.TokenManager
}

// LoginResult carries an issued token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Actor     *domain.Actor
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.Config, actors repository.ActorRepository) *AuthService {
	return &AuthService{
		actors: actors,
		tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies credentials and issues a token. Deactivated actors may still
// log in; every capability beyond account reactivation is denied downstream
// by the permission evaluator.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	actor, err := s.actors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.VerifyPassword(actor.PasswordHash, password) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(actor)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Actor: actor}, nil
}
