package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"mydiary/internal/server/auth"
)

const sessionCookie = "mydiary_session"

// actorIDKey is the echo context key holding the authenticated owner id.
const actorIDKey = "actorID"

// sessionMiddleware resolves the session token from the Authorization
// header or the session cookie, if present. Requests without a valid token
// proceed as anonymous; handlers that need an identity use requireSession.
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(sessionCookie); err == nil {
				token = cookie.Value
			}
		}
		if token != "" {
			if ownerID, err := auth.GetOwnerIDFromToken(token, s.jwtSecret); err == nil {
				c.Set(actorIDKey, ownerID)
			}
		}
		return next(c)
	}
}

// requireSession rejects requests that did not authenticate.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if actorID(c) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "session required")
		}
		return next(c)
	}
}

func actorID(c echo.Context) string {
	id, _ := c.Get(actorIDKey).(string)
	return id
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// setSessionCookie attaches a session token to the response.
func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
