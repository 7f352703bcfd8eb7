package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avolkov/shop-api/internal/hash"
	"github.com/avolkov/shop-api/internal/httperr"
	authmw "github.com/avolkov/shop-api/internal/middleware/auth"
	"github.com/avolkov/shop-api/internal/models"
)

type UserHandler struct {
	DB     *gorm.DB
	Events EventPublisher
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	var users []models.User
	err := h.DB.
		Select("id", "email", "name", "role", "created_at").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return httperr.Internal(c, "Failed to fetch users")
	}

	public := make([]models.PublicUser, len(users))
	for i, u := range users {
		public[i] = u.Public()
	}
	return c.JSON(http.StatusOK, public)
}

func (h *UserHandler) GetCurrent(c echo.Context) error {
	userID := authmw.UserID(c)
	if userID == "" {
		return httperr.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return httperr.FromDB(c, err, "User not found", "Failed to fetch user")
	}
	return c.JSON(http.StatusOK, user.Public())
}

func (h *UserHandler) UpdateCurrent(c echo.Context) error {
	userID := authmw.UserID(c)
	if userID == "" {
		return httperr.Unauthorized(c, "Unauthorized")
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(c, "invalid request body")
	}
	if req.Name == "" || req.Email == "" {
		return httperr.BadRequest(c, "name and email are required")
	}

	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return httperr.FromDB(c, err, "User not found", "Failed to update user")
	}

	user.Name = req.Name
	user.Email = req.Email
	if err := h.DB.Save(&user).Error; err != nil {
		return httperr.Internal(c, "Failed to update user")
	}

	return c.JSON(http.StatusOK, user.Public())
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID := authmw.UserID(c)
	if userID == "" {
		return httperr.Unauthorized(c, "Unauthorized")
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(c, "invalid request body")
	}
	if req.NewPassword == "" {
		return httperr.BadRequest(c, "new password is required")
	}

	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return httperr.FromDB(c, err, "User not found", "Failed to change password")
	}

	if !hash.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return httperr.BadRequest(c, "invalid credentials")
	}

	newHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return httperr.Internal(c, "Failed to change password")
	}

	user.PasswordHash = newHash
	if err := h.DB.Save(&user).Error; err != nil {
		return httperr.Internal(c, "Failed to change password")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *UserHandler) SetRole(c echo.Context) error {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(c, "invalid request body")
	}
	if !models.ValidRole(req.Role) {
		return httperr.BadRequest(c, "invalid role")
	}

	var user models.User
	if err := h.DB.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		return httperr.FromDB(c, err, "User not found", "Failed to update role")
	}

	user.Role = req.Role
	if err := h.DB.Save(&user).Error; err != nil {
		return httperr.Internal(c, "Failed to update role")
	}

	publish(c, h.Events, "user_events", user.ID, map[string]interface{}{
		"type":   "user_role_changed",
		"userID": user.ID,
		"role":   user.Role,
	})

	return c.JSON(http.StatusOK, user.Public())
}

// DeleteUser removes any user by id, the caller's own account included.
// Self-delete protection is the admin client's concern, not a server guarantee.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id := c.Param("id")

	res := h.DB.Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return httperr.Internal(c, "Failed to delete user")
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound(c, "User not found")
	}

	publish(c, h.Events, "user_events", id, map[string]interface{}{
		"type":   "user_deleted",
		"userID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
