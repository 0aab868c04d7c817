package models

import "time"

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	LineUserID   string     `gorm:"uniqueIndex;not null" json:"line_user_id"`
	DisplayName  string     `json:"display_name"`
	PictureURL   string     `json:"picture_url"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Birthday     *time.Time `json:"birthday"`
	DietaryNotes string     `json:"dietary_notes"`
	Addresses    []Address  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Orders       []Order    `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Address is a saved delivery location for a customer.
type Address struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Label       string    `json:"label"`
	AddressLine string    `json:"address_line"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Note        string    `json:"note"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}
