package couponControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"gorm.io/gorm"
)

type ValidateCouponRequest struct {
	Code       string  `json:"code"`
	OrderTotal float64 `json:"orderTotal"`
	LineUserID string  `json:"lineUserId"`
}

// POST /api/coupons/validate
// Pre-checkout validation so the cart can show the discount before the
// order is placed. The same rules run again inside the order
// transaction; this endpoint is advisory.
func ValidateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValidateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if req.Code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Coupon code is required"})
			return
		}

		var coupon models.Coupon
		if err := db.Where("UPPER(code) = UPPER(?) AND is_active = ?", req.Code, true).
			First(&coupon).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "ไม่พบคูปองนี้ หรือคูปองหมดอายุแล้ว"})
				return
			}
			log.Println("❌ Error validating coupon:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to validate coupon"})
			return
		}

		if err := coupon.Check(req.OrderTotal, time.Now()); err != nil {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": checkMessage(err, &coupon)})
			return
		}

		if req.LineUserID != "" {
			var used int64
			if err := db.Model(&models.CouponUsage{}).
				Joins("JOIN users ON users.id = coupon_usages.user_id").
				Where("coupon_usages.coupon_id = ? AND users.line_user_id = ?", coupon.ID, req.LineUserID).
				Count(&used).Error; err != nil {
				log.Println("❌ Error validating coupon:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to validate coupon"})
				return
			}
			if used > 0 {
				c.JSON(http.StatusConflict, gin.H{"success": false, "error": "คุณเคยใช้คูปองนี้แล้ว"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"couponId":       coupon.ID,
				"code":           coupon.Code,
				"description":    coupon.Description,
				"discountType":   coupon.DiscountType,
				"discountValue":  coupon.DiscountValue,
				"discountAmount": coupon.DiscountFor(req.OrderTotal),
			},
		})
	}
}

func checkMessage(err error, coupon *models.Coupon) string {
	switch {
	case errors.Is(err, models.ErrCouponExpired), errors.Is(err, models.ErrCouponInactive):
		return "คูปองนี้หมดอายุแล้ว"
	case errors.Is(err, models.ErrCouponNotStarted):
		return "คูปองนี้ยังไม่เริ่มใช้งาน"
	case errors.Is(err, models.ErrCouponExhausted):
		return "คูปองนี้ถูกใช้งานครบแล้ว"
	case errors.Is(err, models.ErrCouponMinOrder):
		return fmt.Sprintf("ยอดสั่งซื้อขั้นต่ำ ฿%.0f", coupon.MinOrder)
	}
	return "ไม่สามารถใช้คูปองนี้ได้"
}
