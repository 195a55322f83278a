package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gymtrack_echo/internal/models"
	"gymtrack_echo/internal/services"
)

// SessionCookieName is the cookie carrying the login session token
const SessionCookieName = "session"

// RequireAuth resolves the session cookie to an AuthContext and stores it in
// the request context for downstream handlers
func RequireAuth(sessions *services.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sessions == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Sessions not configured")
			}

			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue")
			}

			auth, err := sessions.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				return err
			}
			if auth == nil {
				// Expired or revoked session, clear the stale cookie
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    "",
					MaxAge:   -1,
					HttpOnly: true,
					Path:     "/",
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue")
			}

			c.Set("auth", auth)
			return next(c)
		}
	}
}

// RequireRole gates a route group to callers holding the given role.
// Must run after RequireAuth.
func RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := AuthFromContext(c)
			if auth == nil || auth.Role != role {
				return &services.AuthorizationError{Message: "Access denied"}
			}
			return next(c)
		}
	}
}

// AuthFromContext returns the AuthContext set by RequireAuth, or nil
func AuthFromContext(c echo.Context) *services.AuthContext {
	auth, _ := c.Get("auth").(*services.AuthContext)
	return auth
}
