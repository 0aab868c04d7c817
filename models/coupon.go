package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeFixed   DiscountType = "fixed"
)

// Business-rule rejections for coupon redemption. These are not system
// failures; handlers map them to user-facing messages.
var (
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrCouponInactive    = errors.New("coupon is not active")
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrCouponNotStarted  = errors.New("coupon is not valid yet")
	ErrCouponExhausted   = errors.New("coupon usage limit reached")
	ErrCouponAlreadyUsed = errors.New("coupon already used by this customer")
	ErrCouponMinOrder    = errors.New("order total below coupon minimum")
)

type Coupon struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Code          string       `gorm:"uniqueIndex;not null" json:"code"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `gorm:"type:VARCHAR(10);not null" json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	MinOrder      float64      `json:"min_order"`
	MaxDiscount   *float64     `json:"max_discount"`
	MaxUses       *int         `json:"max_uses"`
	CurrentUses   int          `gorm:"default:0" json:"current_uses"`
	IsActive      bool         `gorm:"default:true" json:"is_active"`
	ValidFrom     *time.Time   `json:"valid_from"`
	ExpiresAt     *time.Time   `json:"expires_at"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Check validates the coupon against its active flag, validity window,
// usage cap, and the order total. The per-customer single-use rule needs
// a store lookup and is checked by the caller.
func (c *Coupon) Check(orderTotal float64, now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return ErrCouponExpired
	}
	if c.ValidFrom != nil && c.ValidFrom.After(now) {
		return ErrCouponNotStarted
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return ErrCouponExhausted
	}
	if c.MinOrder > orderTotal {
		return fmt.Errorf("%w: ฿%.0f", ErrCouponMinOrder, c.MinOrder)
	}
	return nil
}

// DiscountFor computes the discount amount for an order total, applying
// the max-discount cap for percent coupons. Rounded to satang.
func (c *Coupon) DiscountFor(orderTotal float64) float64 {
	var amount float64
	if c.DiscountType == DiscountTypePercent {
		amount = orderTotal * (c.DiscountValue / 100)
		if c.MaxDiscount != nil {
			amount = math.Min(amount, *c.MaxDiscount)
		}
	} else {
		amount = c.DiscountValue
	}
	return math.Round(amount*100) / 100
}

// CouponUsage links a redeemed coupon to the customer and order. The
// unique index backs the at-most-once-per-customer rule.
type CouponUsage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CouponID  uint      `gorm:"not null;uniqueIndex:idx_coupon_usages_coupon_user" json:"coupon_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_coupon_usages_coupon_user" json:"user_id"`
	OrderID   uint      `json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
}
