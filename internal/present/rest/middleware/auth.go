package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kesuzuki/notably/internal/domain"
	"github.com/kesuzuki/notably/internal/present/rest/presenter"
	"github.com/kesuzuki/notably/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth   *service.AuthService
	config domain.Config
}

func NewAuthMiddleware(
	auth *service.AuthService,
	config domain.Config,
) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   auth,
		config: config,
	}
}

// RequireIdentity rejects the request unless it carries a verifiable,
// non-blacklisted bearer token. On success the requester id, the raw token
// and its expiry are bound to the request context; logout needs the raw
// value later.
func (s *AuthMiddleware) RequireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireIdentity")
		defer span.End()

		authHeader := c.Request().Header.Get("authorization")
		if authHeader == "" {
			span.RecordError(fmt.Errorf("missing authentication header"))
			return presenter.Unauthorized(c, "Unauthorized")
		}

		split := strings.Split(authHeader, " ")
		if len(split) != 2 {
			span.RecordError(fmt.Errorf("invalid authentication header"))
			return presenter.Unauthorized(c, "Unauthorized")
		}

		authType, token := split[0], split[1]
		if authType != "Bearer" {
			span.RecordError(fmt.Errorf("only Bearer is acceptable"))
			return presenter.Unauthorized(c, "Unauthorized")
		}

		result, err := s.auth.AuthToken(ctx, token)
		if err != nil {
			span.RecordError(err)
			switch {
			case errors.Is(err, domain.ErrTokenRevoked):
				return presenter.Unauthorized(c, "Token blacklisted")
			case errors.Is(err, domain.ErrInvalidToken):
				return presenter.Unauthorized(c, "Invalid token")
			default:
				return presenter.InternalError(c, err)
			}
		}

		ctx = context.WithValue(ctx, domain.RequesterIdCtxKey, result.UserID)
		ctx = context.WithValue(ctx, domain.RequesterTokenCtxKey, token)
		ctx = context.WithValue(ctx, domain.RequesterTokenExpCtxKey, result.ExpiresAt)
		span.SetAttributes(attribute.String("RequesterId", result.UserID))

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
