package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"pushgate/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware enforces the presence of a bearer Authorization header.
// The token itself is issued and checked by the fronting gateway; this
// service only rejects requests that arrive without one.
type AuthMiddleware struct {
	logger *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		logger: logger,
	}
}

// RequireBearer rejects requests lacking an Authorization: Bearer header.
func (m *AuthMiddleware) RequireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			m.logger.Warn("request rejected, missing bearer token",
				slog.String("path", c.Request().URL.Path))

			return response.RequestError(c, http.StatusUnauthorized, "Missing Authorization: Bearer <token>")
		}

		return next(c)
	}
}
