package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func TestCouponCheck(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	t.Run("valid coupon passes", func(t *testing.T) {
		c := &Coupon{IsActive: true, MinOrder: 100, ValidFrom: &past, ExpiresAt: &future}
		assert.NoError(t, c.Check(150, now))
	})

	t.Run("inactive", func(t *testing.T) {
		c := &Coupon{IsActive: false}
		assert.ErrorIs(t, c.Check(150, now), ErrCouponInactive)
	})

	t.Run("expired", func(t *testing.T) {
		c := &Coupon{IsActive: true, ExpiresAt: &past}
		assert.ErrorIs(t, c.Check(150, now), ErrCouponExpired)
	})

	t.Run("not started yet", func(t *testing.T) {
		c := &Coupon{IsActive: true, ValidFrom: &future}
		assert.ErrorIs(t, c.Check(150, now), ErrCouponNotStarted)
	})

	t.Run("no window means always valid", func(t *testing.T) {
		c := &Coupon{IsActive: true}
		assert.NoError(t, c.Check(150, now))
	})

	t.Run("usage cap reached", func(t *testing.T) {
		c := &Coupon{IsActive: true, MaxUses: ptrInt(10), CurrentUses: 10}
		assert.ErrorIs(t, c.Check(150, now), ErrCouponExhausted)
	})

	t.Run("usage below cap", func(t *testing.T) {
		c := &Coupon{IsActive: true, MaxUses: ptrInt(10), CurrentUses: 9}
		assert.NoError(t, c.Check(150, now))
	})

	t.Run("below minimum order", func(t *testing.T) {
		c := &Coupon{IsActive: true, MinOrder: 200}
		err := c.Check(150, now)
		assert.ErrorIs(t, err, ErrCouponMinOrder)
		assert.Contains(t, err.Error(), "฿200")
	})

	t.Run("exactly at minimum order", func(t *testing.T) {
		c := &Coupon{IsActive: true, MinOrder: 200}
		assert.NoError(t, c.Check(200, now))
	})
}

func TestCouponDiscountFor(t *testing.T) {
	t.Run("fixed amount", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountTypeFixed, DiscountValue: 50}
		assert.Equal(t, 50.0, c.DiscountFor(300))
	})

	t.Run("percent", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountTypePercent, DiscountValue: 10}
		assert.Equal(t, 30.0, c.DiscountFor(300))
	})

	t.Run("percent with cap", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountTypePercent, DiscountValue: 20, MaxDiscount: ptrFloat(40)}
		assert.Equal(t, 40.0, c.DiscountFor(300))
	})

	t.Run("percent under cap", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountTypePercent, DiscountValue: 10, MaxDiscount: ptrFloat(100)}
		assert.Equal(t, 30.0, c.DiscountFor(300))
	})

	t.Run("rounds to satang", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountTypePercent, DiscountValue: 15}
		// 15% of 99.99 = 14.9985 -> 15.00
		assert.Equal(t, 15.0, c.DiscountFor(99.99))
	})
}
