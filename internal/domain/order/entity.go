// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopzone/shopzone-backend/internal/domain/customer"
	"github.com/shopzone/shopzone-backend/internal/domain/product"
	"gorm.io/gorm"
)

// OrderStatus represents order fulfilment status
type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
)

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// CanTransitionTo checks if a status change moves one step forward
// through fulfilment. Orders never move backward or skip shipment.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusProcessing:
		return next == StatusShipped
	case StatusShipped:
		return next == StatusDelivered
	default:
		return false
	}
}

// Order represents a placed order with a derived total
type Order struct {
	ID            uint                  `json:"id" gorm:"primaryKey"`
	UserID        uint                  `json:"user_id" gorm:"not null;index"`
	CartID        *uint                 `json:"cart_id,omitempty" gorm:"index"`
	TotalAmount   decimal.Decimal       `json:"total_amount" gorm:"type:decimal(8,2);not null"`
	Status        OrderStatus           `json:"status" gorm:"type:varchar(20);not null;default:'processing'"`
	ContactInfoID uint                  `json:"contact_info_id" gorm:"not null"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	DeletedAt     gorm.DeletedAt        `json:"deleted_at,omitempty" gorm:"index"`
	Items         []OrderItem           `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ContactInfo   *customer.ContactInfo `json:"contact_info,omitempty" gorm:"foreignKey:ContactInfoID"`
}

// TableName returns the table name for Order
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a line on an order. Price is frozen at order time
// so later catalog price changes never alter a placed order.
type OrderItem struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	OrderID   uint             `json:"order_id" gorm:"not null;index"`
	ProductID uint             `json:"product_id" gorm:"not null;index"`
	Quantity  int              `json:"quantity" gorm:"not null;default:1"`
	Price     decimal.Decimal  `json:"price" gorm:"type:decimal(8,2);not null"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Product   *product.Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal computes the frozen price times quantity
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
