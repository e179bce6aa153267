package store

import (
	"context"

	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderLine is a requested product quantity. Prices come from the catalogue.
type OrderLine struct {
	ProductID uint
	Quantity  int
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}

	if err := r.db.WithContext(ctx).Order("id").Find(&orders).Error; err != nil {
		return nil, classify(err)
	}

	return orders, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}

	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&orders).Error; err != nil {
		return nil, classify(err)
	}

	return orders, nil
}

// Get loads an order together with its items.
func (r *OrderRepository) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order

	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, classify(err)
	}

	return &order, nil
}

// Create prices each line from the products table and inserts the order and
// its items in one transaction. A line naming a missing product returns
// ErrUnknownProduct and nothing is written. Quantities outside the INT
// column and totals beyond DECIMAL(10,2) return ErrAmountOutOfRange.
func (r *OrderRepository) Create(ctx context.Context, userID uint, lines []OrderLine) (*models.Order, error) {
	var order models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(lines))
		seen := make(map[uint]bool, len(lines))

		for _, line := range lines {
			if !seen[line.ProductID] {
				seen[line.ProductID] = true
				ids = append(ids, line.ProductID)
			}
		}

		var products []models.Product

		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}

		prices := make(map[uint]int64, len(products))

		for _, p := range products {
			cents, err := p.Price.Cents()
			if err != nil {
				return err
			}
			prices[p.ID] = cents
		}

		items := make([]models.OrderItem, 0, len(lines))
		var total int64

		for _, line := range lines {
			unit, ok := prices[line.ProductID]
			if !ok {
				return ErrUnknownProduct
			}

			if line.Quantity < 1 || line.Quantity > MaxQuantity {
				return ErrAmountOutOfRange
			}

			if unit > 0 && int64(line.Quantity) > MaxAmountCents/unit {
				return ErrAmountOutOfRange
			}

			lineTotal := unit * int64(line.Quantity)
			total += lineTotal

			if total > MaxAmountCents {
				return ErrAmountOutOfRange
			}

			items = append(items, models.OrderItem{
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				PricePerUnit: types.DecimalFromCents(unit),
				TotalPrice:   types.DecimalFromCents(lineTotal),
			})
		}

		order = models.Order{
			UserID:      userID,
			TotalAmount: types.DecimalFromCents(total),
			Status:      types.OrderPending,
		}

		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}

		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		order.Items = items

		return nil
	})

	if err != nil {
		return nil, classify(err)
	}

	return &order, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status types.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)

	if res.Error != nil {
		return classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return rowExists(r.db.WithContext(ctx).Model(&models.Order{}), id)
	}

	return nil
}
