package models

import (
	"time"

	"github.com/agromanage/agromanage/internal/types"
)

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"column:password;size:255;not null" json:"-"`
	Role      types.Role `gorm:"type:enum('admin','farmer');not null;index:idx_role" json:"role"`
	CreatedAt time.Time  `json:"created_at"`

	// Relationships
	Orders []Order `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Loans  []Loan  `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (User) TableName() string {
	return "users"
}
