// Package scheduler runs the due-date sweep on a cron schedule.
package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/example/cmms/internal/ports/primary"
)

// SweepRunner triggers the sweep service on a cron spec. Overlapping runs
// are skipped rather than queued: a sweep started while the previous one
// is still going would only redo its work.
type SweepRunner struct {
	cron     *cron.Cron
	sweeps   primary.SweepService
	schedule string
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	last    *primary.SweepReport
}

// NewSweepRunner creates a runner for the given cron spec, e.g.
// "0 6 * * *" or "@hourly".
func NewSweepRunner(sweeps primary.SweepService, schedule string, log zerolog.Logger) *SweepRunner {
	return &SweepRunner{
		cron:     cron.New(),
		sweeps:   sweeps,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the sweep job and starts the cron loop.
func (r *SweepRunner) Start() error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		r.RunNow(context.Background())
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.log.Info().Str("schedule", r.schedule).Msg("sweep scheduler started")
	return nil
}

// Stop stops the cron loop and waits for an in-flight sweep to finish.
func (r *SweepRunner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info().Msg("sweep scheduler stopped")
}

// RunNow runs one sweep immediately. Returns nil without sweeping when a
// run is already in flight.
func (r *SweepRunner) RunNow(ctx context.Context) *primary.SweepReport {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.log.Debug().Msg("sweep already running, skipped")
		return nil
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	report, err := r.sweeps.Sweep(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("sweep run failed")
		return nil
	}

	r.mu.Lock()
	r.last = report
	r.mu.Unlock()
	return report
}

// LastReport returns the most recent successful sweep report, or nil.
func (r *SweepRunner) LastReport() *primary.SweepReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
