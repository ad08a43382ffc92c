// Package middleware contains API-specific echo middleware.
package middleware

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	deliverycontext "coffeexport/internal/delivery/context"
	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
	"coffeexport/internal/domain/service"
)

const bearerPrefix = "Bearer "

// Headers a gateway may set to describe the caller's session.
const (
	HeaderSessionID = "X-Session-Id"
)

// AuthMiddleware resolves the bearer token into an Actor.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate validates the access token and attaches the actor, including client
// metadata recorded on audit entries.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrUnauthenticated.WithDetails("authorization header is missing")
		}

		tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix)
		if !ok || tokenString == "" {
			return domainerrors.ErrUnauthenticated.WithDetails("token must be a Bearer token")
		}

		actor, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Debug("Rejected access token",
				slog.Any("error", err),
			)

			return domainerrors.ErrUnauthenticated.WithDetails("invalid or expired token")
		}

		actor.IPAddress = c.RealIP()
		actor.UserAgent = c.Request().UserAgent()
		actor.SessionID = c.Request().Header.Get(HeaderSessionID)
		if actor.SessionID == "" {
			actor.SessionID = deliverycontext.GetRequestID(c)
		}

		deliverycontext.SetActor(c, actor)
		ctx := deliverycontext.WithActor(c.Request().Context(), actor)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRoles rejects actors whose role is not listed. ADMIN always passes.
// It must be used AFTER Authenticate.
func (m *AuthMiddleware) RequireRoles(roles ...entity.ActorRole) echo.MiddlewareFunc {
	allowed := entity.Roles(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := deliverycontext.GetActor(c)
			if !ok {
				return domainerrors.ErrUnauthenticated
			}
			if actor.Role != entity.RoleAdmin && !allowed.Contains(actor.Role) {
				return domainerrors.ErrUnauthorized.WithDetails("role " + actor.Role.String() + " may not access this resource")
			}

			return next(c)
		}
	}
}

// ActorFrom returns the authenticated actor, failing when Authenticate did not run.
func ActorFrom(c echo.Context) (entity.Actor, error) {
	actor, ok := deliverycontext.GetActor(c)
	if !ok || actor.ID == uuid.Nil {
		return entity.Actor{}, domainerrors.ErrUnauthenticated
	}

	return actor, nil
}
