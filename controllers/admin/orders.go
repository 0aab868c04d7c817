package adminController

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"github.com/tumansdev/tum-panich-liff-production/realtime"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type UpdateOrderStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	EstimatedTime string `json:"estimatedTime"`
	RiderName     string `json:"riderName"`
	RiderPhone    string `json:"riderPhone"`
}

type VerifyPaymentRequest struct {
	Action string `json:"action" binding:"required"` // "approve" or "reject"
	Notes  string `json:"notes"`
}

// -------- Handlers --------

// GET /api/admin/orders
func GetOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items").Preload("User").Order("created_at DESC")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if date := c.Query("date"); date != "" {
			query = query.Where("DATE(created_at) = ?", date)
		}

		limit := 50
		if l := c.Query("limit"); l != "" {
			fmt.Sscan(l, &limit)
		}
		offset := 0
		if o := c.Query("offset"); o != "" {
			fmt.Sscan(o, &offset)
		}

		var orders []models.Order
		if err := query.Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
			log.Println("❌ Failed to load orders:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load orders"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
	}
}

// PUT /api/admin/orders/:id/status
// Drives the order state machine: validates the target status, rejects
// regressions, stamps transition timestamps once, and settles payment
// on confirmation. Broadcasts to the order room and the admin group
// after the write commits.
func UpdateOrderStatus(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		target := models.OrderStatus(req.Status)
		if !target.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status"})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
				return
			}
			log.Println("❌ Failed to load order:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update order status"})
			return
		}

		if !models.CanTransition(order.Status, target) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   fmt.Sprintf("Cannot change status from %s to %s", order.Status, target),
			})
			return
		}

		now := time.Now()
		updates := map[string]any{
			"status":     target,
			"updated_at": now,
		}
		if col, ok := models.TimestampColumn(target); ok {
			// Stamped once, in the statement itself; a retried request
			// re-entering the same status keeps the original time.
			updates[col] = gorm.Expr("COALESCE("+col+", ?)", now)
		}
		if target == models.OrderStatusConfirmed {
			// Confirming an order is the point where payment counts as
			// settled.
			updates["payment_status"] = models.PaymentStatusPaid
		}
		if req.EstimatedTime != "" {
			updates["estimated_time"] = req.EstimatedTime
		}
		if req.RiderName != "" {
			updates["rider_name"] = req.RiderName
		}
		if req.RiderPhone != "" {
			updates["rider_phone"] = req.RiderPhone
		}

		affected, err := applyTransition(db, order.ID, order.Status, updates)
		if err != nil {
			log.Println("❌ Failed to update order status:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update order status"})
			return
		}
		if affected == 0 {
			// Another request moved the order between our read and this
			// write; the caller has to re-read and retry.
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Order status changed, please retry"})
			return
		}

		var updated models.Order
		if err := db.First(&updated, order.ID).Error; err != nil {
			log.Println("❌ Failed to reload order:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update order status"})
			return
		}

		// Best effort after the committed write: customers in the order
		// room first, then the admin dashboards.
		data := map[string]any{
			"status":         updated.Status,
			"order_number":   updated.OrderNumber,
			"estimated_time": updated.EstimatedTime,
			"rider_name":     updated.RiderName,
			"rider_phone":    updated.RiderPhone,
		}
		hub.BroadcastOrderUpdate(updated.OrderNumber, data)
		hub.NotifyAdminOrderUpdate(updated.OrderNumber, string(updated.Status), data)

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

// applyTransition writes the transition guarded by the status the
// handler validated against. Zero rows affected means the order moved
// under a concurrent request and the transition must be re-validated.
func applyTransition(db *gorm.DB, orderID uint, from models.OrderStatus, updates map[string]any) (int64, error) {
	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// PUT /api/admin/orders/:id/verify-payment
// Slip review: approve settles payment and confirms the order; reject
// marks the payment rejected and leaves the order pending so the
// customer can retry.
func VerifyPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var req VerifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if req.Action != "approve" && req.Action != "reject" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid action"})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
				return
			}
			log.Println("❌ Failed to load order:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to verify payment"})
			return
		}

		now := time.Now()
		updates := map[string]any{"updated_at": now}
		var notifType models.NotificationType
		var notifTitle string
		if req.Action == "approve" {
			updates["payment_status"] = models.PaymentStatusPaid
			updates["status"] = models.OrderStatusConfirmed
			if order.ConfirmedAt == nil {
				updates["confirmed_at"] = now
			}
			notifType = models.NotificationPaymentApproved
			notifTitle = "ยืนยันการชำระเงิน"
		} else {
			updates["payment_status"] = models.PaymentStatusRejected
			notifType = models.NotificationPaymentRejected
			notifTitle = "ปฏิเสธการชำระเงิน"
		}
		if req.Notes != "" {
			updates["delivery_note"] = gorm.Expr("COALESCE(delivery_note, '') || ?", " [Payment: "+req.Notes+"]")
		}

		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			log.Println("❌ Failed to verify payment:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to verify payment"})
			return
		}

		notification := models.Notification{
			Type:    notifType,
			Title:   notifTitle,
			Message: fmt.Sprintf("ออเดอร์ #%s", order.OrderNumber),
			OrderID: &order.ID,
		}
		if err := db.Create(&notification).Error; err != nil {
			log.Println("❌ Failed to create payment notification:", err)
		}

		var updated models.Order
		if err := db.First(&updated, order.ID).Error; err != nil {
			log.Println("❌ Failed to reload order:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to verify payment"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

// GET /api/admin/orders/:id/slip
func GetOrderSlip(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var order models.Order
		if err := db.Select("id", "order_number", "slip_image_url", "payment_status", "total", "created_at").
			First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
				return
			}
			log.Println("❌ Failed to get slip:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get slip"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}
