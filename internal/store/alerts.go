package store

import (
	"context"
	"time"

	"github.com/agromanage/agromanage/internal/models"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) List(ctx context.Context) ([]models.WeatherAlert, error) {
	alerts := []models.WeatherAlert{}

	if err := r.db.WithContext(ctx).Order("start_date DESC").Find(&alerts).Error; err != nil {
		return nil, classify(err)
	}

	return alerts, nil
}

// ListActive returns alerts whose window contains at.
func (r *AlertRepository) ListActive(ctx context.Context, at time.Time) ([]models.WeatherAlert, error) {
	alerts := []models.WeatherAlert{}

	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", at, at).
		Order("start_date DESC").
		Find(&alerts).Error

	if err != nil {
		return nil, classify(err)
	}

	return alerts, nil
}

// ListStartedBetween returns alerts that became active in (from, to] and are
// still running at to. Alerts created after their own start date are
// excluded: they are announced when they are created.
func (r *AlertRepository) ListStartedBetween(ctx context.Context, from, to time.Time) ([]models.WeatherAlert, error) {
	alerts := []models.WeatherAlert{}

	err := r.db.WithContext(ctx).
		Where("start_date > ? AND start_date <= ? AND end_date >= ? AND created_at < start_date", from, to, to).
		Order("start_date").
		Find(&alerts).Error

	if err != nil {
		return nil, classify(err)
	}

	return alerts, nil
}

func (r *AlertRepository) Get(ctx context.Context, id uint) (*models.WeatherAlert, error) {
	var alert models.WeatherAlert

	if err := r.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		return nil, classify(err)
	}

	return &alert, nil
}

func (r *AlertRepository) Create(ctx context.Context, alert *models.WeatherAlert) error {
	return classify(r.db.WithContext(ctx).Create(alert).Error)
}
