package models

import "time"

type NotificationType string

const (
	NotificationNewOrder        NotificationType = "new_order"
	NotificationPaymentReceived NotificationType = "payment_received"
	NotificationPaymentApproved NotificationType = "payment_approved"
	NotificationPaymentRejected NotificationType = "payment_rejected"
)

// Notification is an admin-facing event record. Created as a side
// effect of order creation and payment verification; only the read flag
// is mutated afterwards.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Type      NotificationType `gorm:"type:VARCHAR(24);not null" json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	OrderID   *uint            `gorm:"index" json:"order_id"`
	IsRead    bool             `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
