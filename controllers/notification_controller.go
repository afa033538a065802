package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rental-marketplace-api/config"
	"rental-marketplace-api/models"
)

// GetNotifications lists the caller's notifications, newest first.
func GetNotifications(c *gin.Context) {
	userID, _ := c.Get("userID")

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	var notifications []models.Notification
	query := config.DB.Where("user_id = ?", userID).Order("create_at DESC").Limit(limit)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// GetNotificationCounter returns the unread count for the badge.
func GetNotificationCounter(c *gin.Context) {
	userID, _ := c.Get("userID")

	var unread int64
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": unread})
}

// MarkNotificationRead marks one notification read.
func MarkNotificationRead(c *gin.Context) {
	userID, _ := c.Get("userID")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllNotificationsRead marks every unread notification read.
func MarkAllNotificationsRead(c *gin.Context) {
	userID, _ := c.Get("userID")

	now := time.Now()
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
