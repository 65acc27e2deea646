// Package scheduler runs periodic cache maintenance: it samples the
// resolution cache and logs its size so operators can watch hit-rate and
// growth without an external metrics stack.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/cache"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = 5 * time.Minute

// sampleTimeout bounds one stats read; a slow remote backend must not pile
// up maintenance jobs.
const sampleTimeout = 10 * time.Second

// Scheduler periodically samples cache statistics.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     cache.Cache
	interval  time.Duration
	log       *logger.Logger
}

// New creates a new Scheduler for the given cache.
func New(store cache.Cache, interval time.Duration, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		interval:  interval,
		log:       log.WithComponent("cache_maintenance"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.sample)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info().Dur("interval", s.interval).Msg("Cache maintenance scheduler started")
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// sample reads the cache stats once and logs them.
func (s *Scheduler) sample() {
	ctx, cancel := context.WithTimeout(context.Background(), sampleTimeout)
	defer cancel()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Cache stats sample failed")
		return
	}

	event := s.log.Info().Int("size", stats.Size)
	if stats.Connected != nil {
		event = event.Bool("connected", *stats.Connected)
	}
	event.Msg("Cache stats")
}
