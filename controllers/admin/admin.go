package adminController

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"github.com/tumansdev/tum-panich-liff-production/realtime"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/admin/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		var admin models.AdminUser
		if err := db.Where("username = ? AND is_active = ?", req.Username, true).First(&admin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
				return
			}
			log.Println("❌ Login error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Login failed"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
			return
		}

		now := time.Now()
		if err := db.Model(&admin).Update("last_login", now).Error; err != nil {
			log.Println("❌ Failed to update last login:", err)
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"id":       admin.ID,
			"username": admin.Username,
			"role":     admin.Role,
			"exp":      now.Add(24 * time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
		if err != nil {
			log.Println("❌ Failed to sign token:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Login failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"token": signed,
				"admin": gin.H{
					"id":          admin.ID,
					"username":    admin.Username,
					"displayName": admin.DisplayName,
					"role":        admin.Role,
				},
			},
		})
	}
}

// GET /api/admin/dashboard
func GetDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var today struct {
			OrderCount   int64
			TotalRevenue float64
		}
		if err := db.Raw(`
			SELECT COUNT(*) AS order_count,
			       COALESCE(SUM(total), 0) AS total_revenue
			FROM orders
			WHERE DATE(created_at) = CURRENT_DATE
			  AND status != 'cancelled'
		`).Scan(&today).Error; err != nil {
			log.Println("❌ Dashboard error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load dashboard"})
			return
		}

		var pending int64
		if err := db.Model(&models.Order{}).
			Where("status IN ?", []models.OrderStatus{
				models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusCooking,
			}).Count(&pending).Error; err != nil {
			log.Println("❌ Dashboard error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load dashboard"})
			return
		}

		var statusBreakdown []struct {
			Status string `json:"status"`
			Count  int64  `json:"count"`
		}
		if err := db.Raw(`
			SELECT status, COUNT(*) AS count
			FROM orders
			WHERE DATE(created_at) = CURRENT_DATE
			GROUP BY status
		`).Scan(&statusBreakdown).Error; err != nil {
			log.Println("❌ Dashboard error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load dashboard"})
			return
		}

		var topItems []struct {
			Name     string `json:"name"`
			Quantity int64  `json:"quantity"`
		}
		if err := db.Raw(`
			SELECT oi.name, SUM(oi.quantity) AS quantity
			FROM order_items oi
			JOIN orders o ON oi.order_id = o.id
			WHERE DATE(o.created_at) = CURRENT_DATE
			  AND o.status != 'cancelled'
			GROUP BY oi.name
			ORDER BY quantity DESC
			LIMIT 5
		`).Scan(&topItems).Error; err != nil {
			log.Println("❌ Dashboard error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load dashboard"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"today": gin.H{
					"orders":  today.OrderCount,
					"revenue": today.TotalRevenue,
				},
				"pendingOrders":   pending,
				"statusBreakdown": statusBreakdown,
				"topItems":        topItems,
			},
		})
	}
}

// GET /api/admin/realtime/stats
func RealtimeStats(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": hub.Stats()})
	}
}
