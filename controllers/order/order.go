package orderControllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"github.com/tumansdev/tum-panich-liff-production/realtime"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	orderNumberPrefix      = "TP"
	orderNumberMaxLen      = 12
	orderNumberMaxAttempts = 3

	maxItemsPerOrder   = 50
	maxQuantityPerItem = 100
)

var ErrMenuItemUnavailable = errors.New("menu item not found or unavailable")

// -------- Request Structs --------

type OrderItemRequest struct {
	MenuItemID uint            `json:"menuItemId" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	Price      float64         `json:"price"`
	Quantity   int             `json:"quantity" binding:"required"`
	Note       string          `json:"note"`
	Options    json.RawMessage `json:"options"`
}

type CreateOrderRequest struct {
	LineUserID       string             `json:"lineUserId" binding:"required"`
	Items            []OrderItemRequest `json:"items" binding:"required"`
	DeliveryType     string             `json:"deliveryType" binding:"required"`
	DeliveryAddress  string             `json:"deliveryAddress"`
	DeliveryLat      *float64           `json:"deliveryLat"`
	DeliveryLng      *float64           `json:"deliveryLng"`
	DeliveryDistance *float64           `json:"deliveryDistance"`
	DeliveryNote     string             `json:"deliveryNote"`
	Subtotal         float64            `json:"subtotal"`
	DeliveryFee      float64            `json:"deliveryFee"`
	Discount         float64            `json:"discount"`
	Total            float64            `json:"total"`
	CouponID         *uint              `json:"couponId"`
}

// -------- Helpers --------

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// generateOrderNumber builds a short, human-speakable token:
// "TP-" + the low-order base-36 millisecond timestamp chars + 3 random
// chars, 12 characters total. The timestamp is trimmed from the front
// so the whole random suffix always survives the length cap.
// Collision-resistant at single-restaurant volume; the unique index on
// order_number plus a bounded retry covers the rest.
func generateOrderNumber() string {
	suffix := make([]byte, 3)
	for i := range suffix {
		suffix[i] = base36Chars[rand.Intn(len(base36Chars))]
	}
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	tsKeep := orderNumberMaxLen - len(orderNumberPrefix) - 1 - len(suffix)
	if len(ts) > tsKeep {
		ts = ts[len(ts)-tsKeep:]
	}
	return orderNumberPrefix + "-" + strings.ToUpper(ts+string(suffix))
}

func validateCreateOrder(req *CreateOrderRequest) error {
	if len(req.Items) == 0 || len(req.Items) > maxItemsPerOrder {
		return fmt.Errorf("order must contain between 1 and %d items", maxItemsPerOrder)
	}
	for _, item := range req.Items {
		if item.Quantity < 1 || item.Quantity > maxQuantityPerItem {
			return fmt.Errorf("invalid quantity for item %q", item.Name)
		}
		if item.Price < 0 {
			return fmt.Errorf("invalid price for item %q", item.Name)
		}
	}
	if !models.ValidDeliveryType(models.DeliveryType(req.DeliveryType)) {
		return errors.New("invalid delivery type")
	}
	if models.DeliveryType(req.DeliveryType) != models.DeliveryTypePickup && req.DeliveryAddress == "" {
		return errors.New("delivery address is required for delivery orders")
	}
	if req.Subtotal < 0 || req.DeliveryFee < 0 || req.Discount < 0 || req.Total < 0 {
		return errors.New("monetary fields must not be negative")
	}
	if math.Abs(req.Total-(req.Subtotal-req.Discount+req.DeliveryFee)) > 0.005 {
		return errors.New("total does not match subtotal - discount + delivery fee")
	}
	return nil
}

// -------- Core Logic --------

// createOrderTx runs the whole order-creation transaction: customer
// upsert, header, item snapshots, popularity counters, coupon
// redemption, and the admin notification. All-or-nothing. Retries the
// whole transaction with a fresh order number if the unique index on
// order_number rejects the insert.
func createOrderTx(db *gorm.DB, req *CreateOrderRequest, out *models.Order) error {
	for attempt := 0; attempt < orderNumberMaxAttempts; attempt++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			var user models.User
			if err := tx.Where("line_user_id = ?", req.LineUserID).First(&user).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				// First-seen customers are auto-registered.
				user = models.User{LineUserID: req.LineUserID}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
			}

			ids := make([]uint, 0, len(req.Items))
			seen := make(map[uint]struct{}, len(req.Items))
			for _, item := range req.Items {
				if _, ok := seen[item.MenuItemID]; ok {
					continue
				}
				seen[item.MenuItemID] = struct{}{}
				ids = append(ids, item.MenuItemID)
			}
			var available int64
			if err := tx.Model(&models.MenuItem{}).
				Where("id IN ? AND is_available = ?", ids, true).
				Count(&available).Error; err != nil {
				return err
			}
			if available != int64(len(ids)) {
				return ErrMenuItemUnavailable
			}

			order := models.Order{
				OrderNumber:      generateOrderNumber(),
				UserID:           user.ID,
				DeliveryType:     models.DeliveryType(req.DeliveryType),
				DeliveryAddress:  req.DeliveryAddress,
				DeliveryLat:      req.DeliveryLat,
				DeliveryLng:      req.DeliveryLng,
				DeliveryDistance: req.DeliveryDistance,
				DeliveryNote:     req.DeliveryNote,
				Subtotal:         req.Subtotal,
				DeliveryFee:      req.DeliveryFee,
				Discount:         req.Discount,
				Total:            req.Total,
				Status:           models.OrderStatusPending,
				PaymentStatus:    models.PaymentStatusUnpaid,
				CouponID:         req.CouponID,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			for _, item := range req.Items {
				options := datatypes.JSON(item.Options)
				if len(options) == 0 {
					options = datatypes.JSON([]byte("[]"))
				}
				orderItem := models.OrderItem{
					OrderID:    order.ID,
					MenuItemID: item.MenuItemID,
					Name:       item.Name,
					Price:      item.Price,
					Quantity:   item.Quantity,
					Subtotal:   item.Price * float64(item.Quantity),
					Options:    options,
					Note:       item.Note,
				}
				if err := tx.Create(&orderItem).Error; err != nil {
					return err
				}
				// Popularity counter, single statement so concurrent
				// orders never lose updates.
				if err := tx.Model(&models.MenuItem{}).
					Where("id = ?", item.MenuItemID).
					UpdateColumn("order_count", gorm.Expr("order_count + ?", item.Quantity)).Error; err != nil {
					return err
				}
			}

			if req.CouponID != nil {
				if err := redeemCoupon(tx, *req.CouponID, user.ID, order.ID, req.Subtotal); err != nil {
					return err
				}
			}

			notification := models.Notification{
				Type:    models.NotificationNewOrder,
				Title:   "ออเดอร์ใหม่!",
				Message: fmt.Sprintf("ออเดอร์ #%s - ฿%.0f", order.OrderNumber, order.Total),
				OrderID: &order.ID,
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}

			*out = order
			return nil
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Order number collided, regenerate and retry.
			continue
		}
		return err
	}
	return errors.New("could not allocate a unique order number")
}

// redeemCoupon applies a coupon inside the order transaction: validity
// checks, per-customer single use, then a conditional single-statement
// usage increment so the cap holds under concurrent orders.
func redeemCoupon(tx *gorm.DB, couponID, userID, orderID uint, orderTotal float64) error {
	var coupon models.Coupon
	if err := tx.First(&coupon, couponID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrCouponNotFound
		}
		return err
	}
	if err := coupon.Check(orderTotal, time.Now()); err != nil {
		return err
	}

	var used int64
	if err := tx.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&used).Error; err != nil {
		return err
	}
	if used > 0 {
		return models.ErrCouponAlreadyUsed
	}

	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND (max_uses IS NULL OR current_uses < max_uses)", couponID).
		UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrCouponExhausted
	}

	usage := models.CouponUsage{CouponID: couponID, UserID: userID, OrderID: orderID}
	if err := tx.Create(&usage).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrCouponAlreadyUsed
		}
		return err
	}
	return nil
}

func couponErrorMessage(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrCouponNotFound):
		return http.StatusNotFound, "ไม่พบคูปองนี้ หรือคูปองหมดอายุแล้ว"
	case errors.Is(err, models.ErrCouponInactive), errors.Is(err, models.ErrCouponExpired):
		return http.StatusConflict, "คูปองนี้หมดอายุแล้ว"
	case errors.Is(err, models.ErrCouponNotStarted):
		return http.StatusConflict, "คูปองนี้ยังไม่เริ่มใช้งาน"
	case errors.Is(err, models.ErrCouponExhausted):
		return http.StatusConflict, "คูปองนี้ถูกใช้งานครบแล้ว"
	case errors.Is(err, models.ErrCouponAlreadyUsed):
		return http.StatusConflict, "คุณเคยใช้คูปองนี้แล้ว"
	case errors.Is(err, models.ErrCouponMinOrder):
		return http.StatusConflict, fmt.Sprintf("ยอดสั่งซื้อขั้นต่ำไม่ถึง (%s)", err.Error())
	}
	return 0, ""
}

// -------- Handlers --------

// POST /api/orders
func CreateOrder(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if err := validateCreateOrder(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		var order models.Order
		if err := createOrderTx(db, &req, &order); err != nil {
			if errors.Is(err, ErrMenuItemUnavailable) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "One or more menu items are unavailable"})
				return
			}
			if status, msg := couponErrorMessage(err); status != 0 {
				c.JSON(status, gin.H{"success": false, "error": msg})
				return
			}
			log.Println("❌ Error creating order:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create order"})
			return
		}

		// The order is durably committed; a broadcast failure must not
		// fail the request.
		hub.NotifyNewOrder(map[string]any{
			"orderNumber":  order.OrderNumber,
			"orderId":      order.ID,
			"total":        order.Total,
			"deliveryType": order.DeliveryType,
			"itemCount":    len(req.Items),
		})

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data": gin.H{
				"orderNumber": order.OrderNumber,
				"orderId":     order.ID,
				"total":       order.Total,
			},
		})
	}
}

// GET /api/orders/:orderNumber
func GetOrderByNumber(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderNumber := c.Param("orderNumber")

		var order models.Order
		if err := db.Preload("Items").Preload("User").
			Where("order_number = ?", orderNumber).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
				return
			}
			log.Println("❌ Error fetching order:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch order"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

// GET /api/orders/user/:lineUserId
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineUserID := c.Param("lineUserId")
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		var orders []models.Order
		if err := db.Preload("Items").
			Joins("JOIN users ON users.id = orders.user_id").
			Where("users.line_user_id = ?", lineUserID).
			Order("orders.created_at DESC").
			Limit(limit).Offset(offset).
			Find(&orders).Error; err != nil {
			log.Println("❌ Error fetching orders:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch orders"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
	}
}
