package orderControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"gorm.io/gorm"
)

// UploadDir resolves the base directory for uploaded files.
func UploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// POST /api/orders/:id/slip
// The customer attaches a bank-transfer slip; payment moves to
// pending_verification and the admins get a notification.
func UploadSlip(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		file, err := c.FormFile("slip")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
				return
			}
			log.Println("❌ Error fetching order for slip:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to upload slip"})
			return
		}

		filename := uuid.NewString() + filepath.Ext(file.Filename)
		dst := filepath.Join(UploadDir(), "slips", filename)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			log.Println("❌ Failed to create slips directory:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to upload slip"})
			return
		}
		if err := c.SaveUploadedFile(file, dst); err != nil {
			log.Println("❌ Failed to save slip file:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to upload slip"})
			return
		}

		slipURL := "/uploads/slips/" + filename
		if err := db.Model(&order).Updates(map[string]any{
			"slip_image_url": slipURL,
			"payment_status": models.PaymentStatusPendingVerification,
			"updated_at":     time.Now(),
		}).Error; err != nil {
			log.Println("❌ Failed to record slip:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to upload slip"})
			return
		}

		notification := models.Notification{
			Type:    models.NotificationPaymentReceived,
			Title:   "แจ้งโอนเงิน",
			Message: fmt.Sprintf("ออเดอร์ #%s แนบสลิปแล้ว", order.OrderNumber),
			OrderID: &order.ID,
		}
		if err := db.Create(&notification).Error; err != nil {
			log.Println("❌ Failed to create slip notification:", err)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"slipUrl": slipURL}})
	}
}
