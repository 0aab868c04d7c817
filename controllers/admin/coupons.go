package adminController

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tumansdev/tum-panich-liff-production/models"
	"gorm.io/gorm"
)

type CreateCouponRequest struct {
	Code          string     `json:"code" binding:"required"`
	Description   string     `json:"description"`
	DiscountType  string     `json:"discountType" binding:"required"`
	DiscountValue float64    `json:"discountValue" binding:"required"`
	MinOrder      float64    `json:"minOrder"`
	MaxDiscount   *float64   `json:"maxDiscount"`
	MaxUses       *int       `json:"maxUses"`
	ValidFrom     *time.Time `json:"validFrom"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

type UpdateCouponInput struct {
	IsActive  *bool      `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt"`
	MaxUses   *int       `json:"maxUses"`
}

// GET /api/admin/coupons
func GetCoupons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupons []models.Coupon
		if err := db.Order("created_at DESC").Find(&coupons).Error; err != nil {
			log.Println("❌ Get coupons error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load coupons"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": coupons})
	}
}

// POST /api/admin/coupons
func CreateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		discountType := models.DiscountType(req.DiscountType)
		if discountType != models.DiscountTypePercent && discountType != models.DiscountTypeFixed {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid discount type"})
			return
		}

		coupon := models.Coupon{
			Code:          strings.ToUpper(req.Code),
			Description:   req.Description,
			DiscountType:  discountType,
			DiscountValue: req.DiscountValue,
			MinOrder:      req.MinOrder,
			MaxDiscount:   req.MaxDiscount,
			MaxUses:       req.MaxUses,
			IsActive:      true,
			ValidFrom:     req.ValidFrom,
			ExpiresAt:     req.ExpiresAt,
		}

		if err := db.Create(&coupon).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Coupon code already exists"})
				return
			}
			log.Println("❌ Create coupon error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create coupon"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": coupon})
	}
}

// PUT /api/admin/coupons/:id
func UpdateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var coupon models.Coupon
		if err := db.First(&coupon, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Coupon not found"})
				return
			}
			log.Println("❌ Update coupon error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update coupon"})
			return
		}

		var input UpdateCouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		updates := make(map[string]any)
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if input.ExpiresAt != nil {
			updates["expires_at"] = *input.ExpiresAt
		}
		if input.MaxUses != nil {
			updates["max_uses"] = *input.MaxUses
		}

		if len(updates) > 0 {
			if err := db.Model(&coupon).Updates(updates).Error; err != nil {
				log.Println("❌ Update coupon error:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update coupon"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": coupon})
	}
}
