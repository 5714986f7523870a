package service

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/kesuzuki/notably/internal/domain"
	"github.com/kesuzuki/notably/jwt"
)

// TokenService mints bearer tokens. It holds no state beyond the secret;
// issued tokens are never persisted.
type TokenService struct {
	config domain.Config
}

func NewTokenService(config domain.Config) *TokenService {
	return &TokenService{config: config}
}

func (s *TokenService) Issue(user domain.User) (string, error) {
	now := time.Now()
	claims := jwt.Claims{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(domain.TokenLifetime)),
		},
	}

	return jwt.Create(claims, s.config.Secret)
}
