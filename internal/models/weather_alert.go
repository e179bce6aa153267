package models

import (
	"time"

	"github.com/agromanage/agromanage/internal/types"
)

type WeatherAlert struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Type        string         `gorm:"size:100;not null" json:"type"`
	Severity    types.Severity `gorm:"type:enum('low','medium','high');not null;index:idx_severity" json:"severity"`
	Description string         `gorm:"type:text;not null" json:"description"`
	StartDate   time.Time      `gorm:"not null;index:idx_date_range,priority:1" json:"start_date"`
	EndDate     time.Time      `gorm:"not null;index:idx_date_range,priority:2" json:"end_date"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (WeatherAlert) TableName() string {
	return "weather_alerts"
}

// ActiveAt reports whether t falls inside the alert window, bounds included.
func (a WeatherAlert) ActiveAt(t time.Time) bool {
	return !t.Before(a.StartDate) && !t.After(a.EndDate)
}
