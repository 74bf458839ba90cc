package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mlebedev/coursehub/internal/logging"
	"github.com/mlebedev/coursehub/internal/service/token"
)

// ContextUserKey is where RequireLogin stores the resolved user id.
const ContextUserKey = "userID"

// RequireLogin verifies the Authorization bearer token and puts the
// user id into the echo context. Any failure ends the request with 401,
// there is no refresh path.
func RequireLogin(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "require_login")

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				l.Warn("auth_failed", "status", 401, "reason", "missing Authorization header")
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization required")
			}

			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				l.Warn("auth_failed", "status", 401, "reason", "malformed Authorization header")
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization required")
			}

			userID, err := tokens.Verify(raw)
			if err != nil {
				l.Warn("auth_failed", "status", 401, "reason", "invalid or expired token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(ContextUserKey, userID)
			return next(c)
		}
	}
}

// UserID reads the id set by RequireLogin. The second return is false
// when the route was not guarded.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextUserKey).(uuid.UUID)
	return id, ok
}
