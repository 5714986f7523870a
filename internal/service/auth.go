package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/kesuzuki/notably/internal/domain"
	"github.com/kesuzuki/notably/jwt"
)

var tracer = otel.Tracer("auth")

// RevocationChecker is the read side of the logout blacklist.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthService struct {
	config      domain.Config
	revocations RevocationChecker
}

func NewAuthService(
	config domain.Config,
	revocations RevocationChecker,
) *AuthService {
	return &AuthService{
		config:      config,
		revocations: revocations,
	}
}

type AuthResult struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// AuthToken checks the blacklist first, then the token itself. A registry
// failure is surfaced as an error, never as "not revoked".
func (s *AuthService) AuthToken(ctx context.Context, token string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.AuthToken")
	defer span.End()

	revoked, err := s.revocations.IsRevoked(ctx, token)
	if err != nil {
		wrapped := errors.Wrap(err, "revocation lookup failed")
		span.RecordError(wrapped)
		return nil, wrapped
	}
	if revoked {
		span.RecordError(domain.ErrTokenRevoked)
		return nil, domain.ErrTokenRevoked
	}

	claims, err := jwt.Validate(token, s.config.Secret)
	if err != nil {
		span.RecordError(errors.Wrap(err, "jwt validation failed"))
		return nil, domain.ErrInvalidToken
	}

	result := &AuthResult{
		UserID: claims.UserID,
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}
