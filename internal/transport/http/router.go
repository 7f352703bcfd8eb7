package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avolkov/shop-api/internal/handlers"
	authmw "github.com/avolkov/shop-api/internal/middleware/auth"
	"github.com/avolkov/shop-api/internal/service/token"
)

type Deps struct {
	DB             *gorm.DB
	Tokens         *token.Service
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	UserHandler    *handlers.UserHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	api.POST("/auth/register", d.AuthHandler.Register)
	api.POST("/auth/login", d.AuthHandler.Login)

	api.GET("/products", d.ProductHandler.GetProducts)
	api.GET("/products/search", d.SearchHandler.Search)
	api.GET("/products/:id", d.ProductHandler.GetProduct)

	admin := authmw.AdminOnly(d.Tokens)

	api.POST("/products", d.ProductHandler.CreateProduct, admin)
	api.PUT("/products/:id", d.ProductHandler.UpdateProduct, admin)
	api.DELETE("/products/:id", d.ProductHandler.DeleteProduct, admin)

	login := authmw.RequireLogin(d.Tokens)

	api.GET("/users", d.UserHandler.GetUsers, admin)
	api.GET("/users/me", d.UserHandler.GetCurrent, login)
	api.PUT("/users/me", d.UserHandler.UpdateCurrent, login)
	api.PUT("/users/me/password", d.UserHandler.ChangePassword, login)
	api.PATCH("/users/:id/role", d.UserHandler.SetRole, admin)
	api.DELETE("/users/:id", d.UserHandler.DeleteUser, admin)
}
