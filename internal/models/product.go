package models

import (
	"time"

	"github.com/agromanage/agromanage/internal/types"
)

type Product struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Category    string        `gorm:"type:enum('Seeds','Fertilizers','Pesticides');not null;index:idx_category" json:"category"`
	Price       types.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int           `gorm:"not null;default:0" json:"stock"`
	ImageURL    *string       `gorm:"column:image_url;type:text" json:"image_url"`
	Description *string       `gorm:"type:text" json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
