package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avolkov/shop-api/internal/hash"
	"github.com/avolkov/shop-api/internal/httperr"
	"github.com/avolkov/shop-api/internal/models"
	"github.com/avolkov/shop-api/internal/service/token"
)

type AuthHandler struct {
	DB     *gorm.DB
	Tokens *token.Service
	Events EventPublisher
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(c, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return httperr.BadRequest(c, "email and password are required")
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return httperr.BadRequest(c, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.Internal(c, "Failed to register")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return httperr.Internal(c, "Failed to register")
	}

	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return httperr.Internal(c, "Failed to register")
	}

	publish(c, h.Events, "user_events", user.ID, map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, user.Public())
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(c, "invalid request body")
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return httperr.Unauthorized(c, "invalid credentials")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return httperr.Unauthorized(c, "invalid credentials")
	}

	access, err := h.Tokens.Sign(user.ID, user.Role)
	if err != nil {
		return httperr.Internal(c, "Failed to log in")
	}

	publish(c, h.Events, "user_events", user.ID, map[string]interface{}{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": access,
		"user":         user.Public(),
	})
}
