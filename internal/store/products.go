package store

import (
	"context"

	"github.com/agromanage/agromanage/internal/models"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}

	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, classify(err)
	}

	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product

	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, classify(err)
	}

	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return classify(r.db.WithContext(ctx).Create(product).Error)
}

// Update overwrites the editable columns of an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(product).
		Select("Name", "Category", "Price", "Stock", "ImageURL", "Description").
		Updates(product)

	if res.Error != nil {
		return classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return r.exists(ctx, product.ID)
	}

	return nil
}

// Delete removes a product. Products referenced by order items return ErrReferenced.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)

	if res.Error != nil {
		return classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *ProductRepository) exists(ctx context.Context, id uint) error {
	return rowExists(r.db.WithContext(ctx).Model(&models.Product{}), id)
}

// rowExists distinguishes "no change" from "no row": MySQL reports zero
// affected rows when an UPDATE writes identical values.
func rowExists(tx *gorm.DB, id uint) error {
	var n int64

	if err := tx.Where("id = ?", id).Count(&n).Error; err != nil {
		return classify(err)
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}
