package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single mutable cart owned by a user. TotalPrice is derived from
// the item line prices and is recomputed on every mutation, never set
// independently.
type Cart struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice float64    `gorm:"not null;default:0" json:"total_price"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// CartItem holds the quantity and the line price snapshot taken at the time
// of the last edit (quantity x unit price as read then).
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
}

// RecalculateTotal derives TotalPrice from the current item set.
func (c *Cart) RecalculateTotal() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price
	}
	c.TotalPrice = total
}
