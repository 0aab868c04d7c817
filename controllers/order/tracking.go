package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"gorm.io/gorm"
)

var numericID = regexp.MustCompile(`^\d+$`)

// GET /api/orders/:id/tracking
// Accepts either the numeric order id or the order number; the tracking
// page mostly sends the order number.
func TrackOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		query := db.Where("order_number = ?", id)
		if numericID.MatchString(id) {
			query = db.Where("id = ? OR order_number = ?", id, id)
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
				return
			}
			log.Println("❌ Error fetching tracking:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch tracking"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"order_number":   order.OrderNumber,
				"status":         order.Status,
				"delivery_type":  order.DeliveryType,
				"estimated_time": order.EstimatedTime,
				"rider_name":     order.RiderName,
				"rider_phone":    order.RiderPhone,
				"created_at":     order.CreatedAt,
				"timeline":       models.BuildTimeline(&order),
			},
		})
	}
}
