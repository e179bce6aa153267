package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agromanage/agromanage/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type window struct {
	from, to time.Time
}

type fakeSource struct {
	mu      sync.Mutex
	windows []window
	alerts  []models.WeatherAlert
	err     error
}

func (f *fakeSource) ListStartedBetween(_ context.Context, from, to time.Time) ([]models.WeatherAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.windows = append(f.windows, window{from, to})
	if f.err != nil {
		return nil, f.err
	}
	alerts := f.alerts
	f.alerts = nil
	return alerts, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []models.WeatherAlert
}

func (f *fakePublisher) PublishAlert(_ context.Context, alert models.WeatherAlert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, alert)
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func TestSweepAdvancesWindow(t *testing.T) {
	source := &fakeSource{alerts: []models.WeatherAlert{{ID: 1}, {ID: 2}}}
	publisher := &fakePublisher{}
	s := NewScheduler(source, publisher, time.Minute, zap.NewNop())

	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	s.lastSweep = clock.Add(-time.Minute)

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, publisher.count())

	clock = clock.Add(time.Minute)
	n, err = s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.Len(t, source.windows, 2)
	assert.Equal(t, source.windows[0].to, source.windows[1].from)
	assert.Equal(t, 2, s.GetStatus()["sweeps"])
}

func TestSweepKeepsWindowOnError(t *testing.T) {
	source := &fakeSource{err: errors.New("db down")}
	s := NewScheduler(source, &fakePublisher{}, time.Minute, zap.NewNop())

	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.lastSweep = start
	s.now = func() time.Time { return start.Add(time.Minute) }

	_, err := s.Sweep(context.Background())
	require.Error(t, err)

	s.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = s.Sweep(context.Background())
	require.Error(t, err)

	require.Len(t, source.windows, 2)
	assert.Equal(t, start, source.windows[1].from)
}

func TestStartAndStop(t *testing.T) {
	source := &fakeSource{alerts: []models.WeatherAlert{{ID: 9}}}
	publisher := &fakePublisher{}
	s := NewScheduler(source, publisher, 10*time.Millisecond, zap.NewNop())

	s.Start()
	s.Start()
	assert.Equal(t, true, s.GetStatus()["running"])

	require.Eventually(t, func() bool { return publisher.count() == 1 }, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.Equal(t, false, s.GetStatus()["running"])
}
