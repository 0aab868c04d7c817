package adminController

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"gorm.io/gorm"
)

// GET /api/admin/notifications
func GetNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		var notifications []models.Notification
		if err := db.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
			log.Println("❌ Notifications error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load notifications"})
			return
		}

		var unread int64
		if err := db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&unread).Error; err != nil {
			log.Println("❌ Notifications error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load notifications"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"notifications": notifications,
				"unreadCount":   unread,
			},
		})
	}
}

// PUT /api/admin/notifications/:id/read
func MarkNotificationRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var notification models.Notification
		if err := db.First(&notification, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Notification not found"})
				return
			}
			log.Println("❌ Mark notification error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update notification"})
			return
		}

		if err := db.Model(&notification).Update("is_read", true).Error; err != nil {
			log.Println("❌ Mark notification error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update notification"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": notification})
	}
}

// PUT /api/admin/notifications/read-all
func MarkAllNotificationsRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Model(&models.Notification{}).Where("is_read = ?", false).Update("is_read", true)
		if res.Error != nil {
			log.Println("❌ Mark all notifications error:", res.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update notifications"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"updatedCount": res.RowsAffected}})
	}
}
