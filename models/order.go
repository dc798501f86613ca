package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the order lifecycle. Any status may follow any
// other; no transition table is enforced.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus validates a status string from the wire.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, nil
	case OrderStatusShipped:
		return OrderStatusShipped, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// Order is immutable after creation except for Status. Items, TotalPrice and
// OrderDate are snapshots taken at checkout time.
type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderItems    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	TotalPrice    float64     `gorm:"not null" json:"total_price"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	PaymentMethod string      `gorm:"type:varchar(50)" json:"payment_method"`
	OrderDate     time.Time   `gorm:"not null" json:"order_date"`
}

// OrderItem is a value copy of a cart line, independent of later product or
// cart changes.
type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string    `gorm:"not null" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       float64   `gorm:"not null" json:"price"`
}
