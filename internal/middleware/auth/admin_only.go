package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/avolkov/shop-api/internal/httperr"
	"github.com/avolkov/shop-api/internal/models"
	"github.com/avolkov/shop-api/internal/service/token"
)

// AdminOnly is RequireLogin plus an ADMIN role check.
func AdminOnly(tokens *token.Service) echo.MiddlewareFunc {
	login := RequireLogin(tokens)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return login(func(c echo.Context) error {
			if Role(c) != models.RoleAdmin {
				return httperr.Forbidden(c, "admin role required")
			}
			return next(c)
		})
	}
}
