package db

import (
	"context"
	"fmt"
	"time"

	"github.com/agromanage/agromanage/internal/auth"
	"github.com/agromanage/agromanage/internal/config"
	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/types"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Bootstrap administrator created on first start.
const (
	AdminUsername = "admin"
	AdminEmail    = "admin@agromanage.com"
	AdminPassword = "admin123"
)

// Connect opens the MySQL connection pool. Callers beyond MaxOpenConns wait
// for a free connection instead of failing.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig(log))

	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()

	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

func gormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		Logger: gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Migrate creates any missing table and seeds the administrator account.
// It is safe to run on every start.
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	for _, t := range schema {
		if err := db.WithContext(ctx).Exec(t.ddl).Error; err != nil {
			return fmt.Errorf("create table %s: %w", t.table, err)
		}
	}

	return SeedAdmin(ctx, db, log)
}

func SeedAdmin(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var admins int64

	err := db.WithContext(ctx).Model(&models.User{}).Where("role = ?", types.RoleAdmin).Count(&admins).Error

	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}

	if admins > 0 {
		return nil
	}

	hash, err := auth.HashPassword(AdminPassword)

	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username: AdminUsername,
		Email:    AdminEmail,
		Password: hash,
		Role:     types.RoleAdmin,
	}

	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Info("Default admin user created", zap.Uint("id", admin.ID), zap.String("username", admin.Username))

	return nil
}
