package routes

import (
	"github.com/gin-gonic/gin"
	couponControllers "github.com/tumansdev/tum-panich-liff-production/controllers/coupon"
	"gorm.io/gorm"
)

func SetupCouponRoutes(r *gin.Engine, db *gorm.DB) {
	r.POST("/api/coupons/validate", couponControllers.ValidateCoupon(db))
}
