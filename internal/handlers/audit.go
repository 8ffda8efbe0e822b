package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-server/internal/models"
	"clinic-server/internal/utils"
)

// AuditHandler exposes the admin-only audit trail viewer.
type AuditHandler struct {
	DB *gorm.DB
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{DB: db}
}

// GetAuditLogs handles GET /audit (admin only), newest first, optionally
// filtered by resource, action or actor.
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	q := h.DB.Model(&models.AuditLog{})
	if resource := c.Query("resource"); resource != "" {
		q = q.Where("resource = ?", resource)
	}
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if actor := c.Query("actorUserId"); actor != "" {
		q = q.Where("actor_user_id = ?", actor)
	}

	var logs []models.AuditLog
	if err := q.Order("created_at desc").Limit(200).Find(&logs).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch audit logs")
		return
	}
	utils.Success(c, "Audit logs fetched successfully", logs)
}
