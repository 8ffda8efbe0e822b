package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-server/internal/models"
	"clinic-server/internal/utils"
)

// UserHandler handles account administration endpoints.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetUsers handles GET /users (admin only), optionally filtered by role.
// Password hashes never leave the database layer.
func (h *UserHandler) GetUsers(c *gin.Context) {
	q := h.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		if !models.ValidRole(models.Role(role)) {
			utils.BadRequest(c, "Unknown role: "+role)
			return
		}
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Order("username asc").Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users")
		return
	}

	sanitized := make([]models.UserSanitized, 0, len(users))
	for i := range users {
		sanitized = append(sanitized, users[i].Sanitize())
	}
	utils.Success(c, "Users fetched successfully", sanitized)
}
