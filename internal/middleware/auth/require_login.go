package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/shop-api/internal/httperr"
	"github.com/avolkov/shop-api/internal/service/token"
)

const (
	userIDKey = "userID"
	roleKey   = "role"
)

// RequireLogin resolves the caller's identity from a signed bearer token and
// injects it into the request context. Identity is never taken from a
// client-supplied header.
func RequireLogin(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return httperr.Unauthorized(c, "missing access token")
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				return httperr.Unauthorized(c, "invalid access token")
			}

			setUserContext(c, claims)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func setUserContext(c echo.Context, claims *token.Claims) {
	c.Set(userIDKey, claims.UserID)
	c.Set(roleKey, claims.Role)
}

// UserID returns the authenticated user id, or "" outside RequireLogin.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

func Role(c echo.Context) string {
	role, _ := c.Get(roleKey).(string)
	return role
}
