package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agromanage/agromanage/db"
	"github.com/agromanage/agromanage/internal/auth"
	"github.com/agromanage/agromanage/internal/handlers"
	"github.com/agromanage/agromanage/internal/middleware"
	"github.com/agromanage/agromanage/internal/realtime"
	"github.com/agromanage/agromanage/internal/router"
	"github.com/agromanage/agromanage/internal/scheduler"
	"github.com/agromanage/agromanage/internal/services"
	"github.com/agromanage/agromanage/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	shutdownTimeout        = 10 * time.Second
	limiterCleanupInterval = 5 * time.Minute
	webhookTimeout         = 10 * time.Second
)

func runServe() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	gin.SetMode(gin.ReleaseMode)

	conn, err := db.Connect(cfg.Database, log)
	if err != nil {
		return err
	}

	if err := db.Migrate(context.Background(), conn, log); err != nil {
		return err
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(log)
	notifier := services.NewNotifier(cfg.Alerts.DiscordWebhook, cfg.Alerts.SlackWebhook, &http.Client{Timeout: webhookTimeout})
	broadcaster := services.NewAlertBroadcaster(hub, notifier, log)

	alerts := store.NewAlertRepository(conn)

	h := &handlers.Handler{
		Users:          store.NewUserRepository(conn),
		Products:       store.NewProductRepository(conn),
		Orders:         store.NewOrderRepository(conn),
		Loans:          store.NewLoanRepository(conn),
		Alerts:         alerts,
		Tokens:         tokens,
		Alerter:        broadcaster,
		DB:             db.HealthChecker{DB: conn},
		Hub:            hub,
		Logger:         log,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	stop := make(chan struct{})
	defer close(stop)

	limiter := middleware.NewRateLimiter(cfg.LoginRate.PerSecond, cfg.LoginRate.Burst, log)
	limiter.StartCleanup(limiterCleanupInterval, stop)

	sched := scheduler.NewScheduler(alerts, broadcaster, cfg.Alerts.SweepInterval, log)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.NewRouter(h, router.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			LoginLimiter:   limiter,
			Logger:         log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("Server stopped")
	return nil
}

func runMigrate() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	conn, err := db.Connect(cfg.Database, log)
	if err != nil {
		return err
	}

	sqlDB, err := conn.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	return db.Migrate(context.Background(), conn, log)
}
