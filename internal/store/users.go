package store

import (
	"context"

	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/types"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and fills in its ID. Username or email collisions
// return ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return classify(r.db.WithContext(ctx).Omit("Orders", "Loans").Create(user).Error)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, classify(err)
	}

	return &user, nil
}

func (r *UserRepository) FindByUsernameAndRole(ctx context.Context, username string, role types.Role) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).Where("username = ? AND role = ?", username, role).First(&user).Error

	if err != nil {
		return nil, classify(err)
	}

	return &user, nil
}
