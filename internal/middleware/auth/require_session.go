package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopapi/internal/session"
)

// CookieName is where the opaque session token travels.
const CookieName = "session"

const contextUserKey = "userID"

// RequireSession rejects the request with 401 before the handler runs unless
// the session cookie resolves to a live session. On success the owning user id
// is stored on the echo context.
func RequireSession(s *session.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			userID, err := s.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, session.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
			}

			c.Set(contextUserKey, userID)
			return next(c)
		}
	}
}

// UserID returns the identity RequireSession resolved for this request.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get(contextUserKey).(uint)
	if !ok {
		return 0, errors.New("no authenticated user in context")
	}
	return id, nil
}
