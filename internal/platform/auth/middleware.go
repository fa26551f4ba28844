package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys set by SessionMiddleware.
const (
	UserIDKey   = "session_user_id"
	UserNameKey = "session_user_name"
)

// SessionMiddleware validates the bearer session token and stores the user
// identity in the request context. Routes behind it require a logged-in
// session.
func SessionMiddleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header must be a bearer token")
			}

			claims, err := issuer.Parse(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session token")
			}

			c.Set(UserIDKey, claims.UserID)
			c.Set(UserNameKey, claims.Name)
			return next(c)
		}
	}
}

// OptionalSession resolves the user identity when a valid bearer token is
// present and continues anonymously otherwise. Used on routes that work for
// both logged-in and anonymous callers.
func OptionalSession(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return next(c)
			}
			if claims, err := issuer.Parse(tokenString); err == nil {
				c.Set(UserIDKey, claims.UserID)
				c.Set(UserNameKey, claims.Name)
			}
			return next(c)
		}
	}
}

// UserIDFromEcho returns the session user id set by SessionMiddleware, or "".
func UserIDFromEcho(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}

// UserNameFromEcho returns the session user name set by SessionMiddleware, or "".
func UserNameFromEcho(c echo.Context) string {
	name, _ := c.Get(UserNameKey).(string)
	return name
}
