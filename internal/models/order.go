package models

import (
	"time"

	"github.com/agromanage/agromanage/internal/types"
)

type Order struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"not null;index:idx_user_id" json:"user_id"`
	TotalAmount types.Decimal     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status      types.OrderStatus `gorm:"type:enum('pending','processing','completed','cancelled');not null;default:pending;index:idx_status" json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	OrderID      uint          `gorm:"not null;index:idx_order_id" json:"order_id"`
	ProductID    uint          `gorm:"not null;index:idx_product_id" json:"product_id"`
	Quantity     int           `gorm:"not null" json:"quantity"`
	PricePerUnit types.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_unit"`
	TotalPrice   types.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
