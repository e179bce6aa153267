package store

import (
	"context"

	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/types"
	"gorm.io/gorm"
)

type LoanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) List(ctx context.Context) ([]models.Loan, error) {
	loans := []models.Loan{}

	if err := r.db.WithContext(ctx).Order("id").Find(&loans).Error; err != nil {
		return nil, classify(err)
	}

	return loans, nil
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID uint) ([]models.Loan, error) {
	loans := []models.Loan{}

	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&loans).Error; err != nil {
		return nil, classify(err)
	}

	return loans, nil
}

func (r *LoanRepository) Get(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan

	if err := r.db.WithContext(ctx).First(&loan, id).Error; err != nil {
		return nil, classify(err)
	}

	return &loan, nil
}

func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if loan.Status == "" {
		loan.Status = types.LoanPending
	}

	return classify(r.db.WithContext(ctx).Create(loan).Error)
}

func (r *LoanRepository) UpdateStatus(ctx context.Context, id uint, status types.LoanStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Loan{}).Where("id = ?", id).Update("status", status)

	if res.Error != nil {
		return classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return rowExists(r.db.WithContext(ctx).Model(&models.Loan{}), id)
	}

	return nil
}
