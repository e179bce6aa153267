package models

import (
	"time"

	"github.com/agromanage/agromanage/internal/types"
)

type Loan struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	UserID       uint             `gorm:"not null;index:idx_user_id" json:"user_id"`
	Amount       types.Decimal    `gorm:"type:decimal(10,2);not null" json:"amount"`
	InterestRate types.Decimal    `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	TermMonths   int              `gorm:"not null" json:"term_months"`
	Status       types.LoanStatus `gorm:"type:enum('pending','approved','rejected','paid');not null;default:pending;index:idx_status" json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}
