package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/agromanage/agromanage/internal/models"
	"go.uber.org/zap"
)

type AlertSource interface {
	ListStartedBetween(ctx context.Context, from, to time.Time) ([]models.WeatherAlert, error)
}

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert models.WeatherAlert)
}

// Scheduler periodically announces alerts whose start date has been reached
// since the previous sweep.
type Scheduler struct {
	alerts    AlertSource
	publisher AlertPublisher
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
	sweeps    int
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewScheduler(alerts AlertSource, publisher AlertPublisher, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		alerts:    alerts,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins sweeping in the background. The first window opens at the
// moment Start is called.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.lastSweep = s.now()

	go s.run(ctx, s.done)

	s.logger.Info("Alert scheduler started", zap.Duration("interval", s.interval))
}

// Stop cancels the sweep loop and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	s.logger.Info("Alert scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("Alert sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep publishes alerts that started after the previous sweep and returns
// how many were published. On error the window is kept so the next sweep
// retries it.
func (s *Scheduler) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	from := s.lastSweep
	s.mu.Unlock()

	to := s.now()

	alerts, err := s.alerts.ListStartedBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	for _, alert := range alerts {
		s.publisher.PublishAlert(ctx, alert)
	}

	s.mu.Lock()
	s.lastSweep = to
	s.sweeps++
	s.mu.Unlock()

	if len(alerts) > 0 {
		s.logger.Info("Alert sweep published alerts", zap.Int("count", len(alerts)))
	}

	return len(alerts), nil
}

// GetStatus returns current scheduler status.
func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"running":    s.cancel != nil,
		"sweeps":     s.sweeps,
		"last_sweep": s.lastSweep,
	}
}
