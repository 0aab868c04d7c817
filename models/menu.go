package models

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	NameEn    string    `json:"name_en"`
	Icon      string    `json:"icon"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type MenuItem struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"not null" json:"name"`
	NameEn        string       `json:"name_en"`
	Description   string       `json:"description"`
	Price         float64      `gorm:"not null" json:"price"`
	ImageURL      string       `json:"image_url"`
	CategoryID    *uint        `gorm:"index" json:"category_id"`
	Category      *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Options       []MenuOption `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	IsAvailable   bool         `gorm:"default:true" json:"is_available"`
	IsRecommended bool         `gorm:"default:false" json:"is_recommended"`
	IsSpicy       bool         `gorm:"default:false" json:"is_spicy"`
	IsVegan       bool         `gorm:"default:false" json:"is_vegan"`
	SortOrder     int          `json:"sort_order"`
	// OrderCount is a cumulative popularity counter, bumped on every
	// order. Best effort, not part of any money math.
	OrderCount int       `gorm:"default:0" json:"order_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MenuOption is a customization choice (size, spice level, add-ons)
// grouped per item.
type MenuOption struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	MenuItemID  uint    `gorm:"index;not null" json:"menu_item_id"`
	OptionGroup string  `json:"option_group"`
	Name        string  `gorm:"not null" json:"name"`
	ExtraPrice  float64 `json:"extra_price"`
}
