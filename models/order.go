package models

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string
type PaymentStatus string
type DeliveryType string

const (
	// Order statuses (kitchen flow)
	OrderStatusPending        OrderStatus = "pending"          // Order placed, awaiting confirmation
	OrderStatusConfirmed      OrderStatus = "confirmed"        // Confirmed by staff, payment settled
	OrderStatusCooking        OrderStatus = "cooking"          // In the kitchen
	OrderStatusReady          OrderStatus = "ready"            // Ready for pickup / handoff to rider
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery" // Rider on the way
	OrderStatusDelivered      OrderStatus = "delivered"        // Customer received the order
	OrderStatusCompleted      OrderStatus = "completed"        // Closed out
	OrderStatusCancelled      OrderStatus = "cancelled"        // Cancelled at any point before completion

	// Payment statuses (bank-transfer slip flow)
	PaymentStatusUnpaid              PaymentStatus = "unpaid"
	PaymentStatusPendingVerification PaymentStatus = "pending_verification" // Slip uploaded, awaiting review
	PaymentStatusPaid                PaymentStatus = "paid"
	PaymentStatusRejected            PaymentStatus = "rejected" // Slip rejected, customer can retry

	// Delivery types
	DeliveryTypePickup       DeliveryType = "pickup"
	DeliveryTypeFreeDelivery DeliveryType = "free_delivery"
	DeliveryTypeEasyDelivery DeliveryType = "easy_delivery"
)

// statusRank orders the normal flow so transitions can be checked for
// regression. cancelled is handled separately.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusConfirmed:      1,
	OrderStatusCooking:        2,
	OrderStatusReady:          3,
	OrderStatusOutForDelivery: 4,
	OrderStatusDelivered:      5,
	OrderStatusCompleted:      6,
}

func (s OrderStatus) Valid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransition reports whether an order may move from one status to
// another. The flow is monotonic: a later status never goes back to an
// earlier one. cancelled is reachable from any non-terminal state, and
// re-applying the current status is allowed so retried requests stay
// harmless.
func CanTransition(from, to OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if from.Terminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	return statusRank[to] >= statusRank[from]
}

// statusTimestamps maps a status to the column stamped when the order
// first enters it.
var statusTimestamps = map[OrderStatus]string{
	OrderStatusConfirmed: "confirmed_at",
	OrderStatusCooking:   "cooking_at",
	OrderStatusReady:     "ready_at",
	OrderStatusDelivered: "delivered_at",
}

// TimestampColumn returns the transition-timestamp column for a status,
// if it has one.
func TimestampColumn(s OrderStatus) (string, bool) {
	col, ok := statusTimestamps[s]
	return col, ok
}

func ValidDeliveryType(t DeliveryType) bool {
	switch t {
	case DeliveryTypePickup, DeliveryTypeFreeDelivery, DeliveryTypeEasyDelivery:
		return true
	}
	return false
}

type Order struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	OrderNumber      string        `gorm:"uniqueIndex;size:12;not null" json:"order_number"`
	UserID           uint          `gorm:"index" json:"user_id"`
	User             User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items            []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	DeliveryType     DeliveryType  `gorm:"type:VARCHAR(20);not null" json:"delivery_type"`
	DeliveryAddress  string        `json:"delivery_address"`
	DeliveryLat      *float64      `json:"delivery_lat"`
	DeliveryLng      *float64      `json:"delivery_lng"`
	DeliveryDistance *float64      `json:"delivery_distance"`
	DeliveryNote     string        `json:"delivery_note"`
	Subtotal         float64       `json:"subtotal"`
	DeliveryFee      float64       `json:"delivery_fee"`
	Discount         float64       `json:"discount"`
	Total            float64       `json:"total"`
	Status           OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus    PaymentStatus `gorm:"type:VARCHAR(24);default:'unpaid'" json:"payment_status"`
	CouponID         *uint         `json:"coupon_id"`
	EstimatedTime    string        `json:"estimated_time"`
	RiderName        string        `json:"rider_name"`
	RiderPhone       string        `json:"rider_phone"`
	SlipImageURL     string        `json:"slip_image_url"`
	ConfirmedAt      *time.Time    `json:"confirmed_at"`
	CookingAt        *time.Time    `json:"cooking_at"`
	ReadyAt          *time.Time    `json:"ready_at"`
	DeliveredAt      *time.Time    `json:"delivered_at"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// OrderItem is a snapshot of a menu item at purchase time, so historical
// orders stay accurate when the menu changes later.
type OrderItem struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OrderID    uint           `gorm:"index;not null" json:"order_id"`
	MenuItemID uint           `json:"menu_item_id"`
	Name       string         `gorm:"not null" json:"name"`
	Price      float64        `json:"price"`
	Quantity   int            `json:"quantity"`
	Subtotal   float64        `json:"subtotal"`
	Options    datatypes.JSON `json:"options"`
	Note       string         `json:"note"`
	CreatedAt  time.Time      `json:"created_at"`
}

// TimelineStep is one entry of the fixed five-step tracking timeline.
type TimelineStep struct {
	Step      string     `json:"step"`
	Label     string     `json:"label"`
	Time      *time.Time `json:"time"`
	Completed bool       `json:"completed"`
}

// BuildTimeline renders the tracking timeline for an order. The pending
// step is always completed (the order exists); later steps complete when
// their transition timestamp is set.
func BuildTimeline(o *Order) []TimelineStep {
	created := o.CreatedAt
	return []TimelineStep{
		{Step: "pending", Label: "รอยืนยัน", Time: &created, Completed: true},
		{Step: "confirmed", Label: "ยืนยันแล้ว", Time: o.ConfirmedAt, Completed: o.ConfirmedAt != nil},
		{Step: "cooking", Label: "กำลังปรุง", Time: o.CookingAt, Completed: o.CookingAt != nil},
		{Step: "ready", Label: "พร้อมส่ง", Time: o.ReadyAt, Completed: o.ReadyAt != nil},
		{Step: "delivered", Label: "ส่งแล้ว", Time: o.DeliveredAt, Completed: o.DeliveredAt != nil},
	}
}
