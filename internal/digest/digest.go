// Package digest runs the periodic astrological digest: on every tick it
// refreshes the current sky, builds the calendar and horizon projections and
// hands them to a notifier.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/astrocal/internal/logger"
	"github.com/rewired-gh/astrocal/internal/models"
	"github.com/rewired-gh/astrocal/internal/projection"
)

// Projector produces the projections of a digest cycle.
type Projector interface {
	ClearCache()
	Current(ctx context.Context) (*models.AstroSnapshot, error)
	BuildCalendar(ctx context.Context, current *models.AstroSnapshot, start time.Time, days int) models.Calendar
	ProjectHorizons(ctx context.Context, current *models.AstroSnapshot, days []int) (map[int]*models.AstroSnapshot, []projection.DayError)
}

// Notifier delivers digests and service notices.
type Notifier interface {
	SendDigest(generatedAt time.Time, calendar models.Calendar, horizons map[int]*models.AstroSnapshot) error
	SendError(err error) error
	SendRecovery(failures int) error
}

// Options configures a Runner.
type Options struct {
	Interval     time.Duration
	CalendarDays int
	Horizons     []int
}

// Result is the outcome of one digest cycle.
type Result struct {
	CycleID       string
	GeneratedAt   time.Time
	Current       *models.AstroSnapshot
	Calendar      models.Calendar
	Horizons      map[int]*models.AstroSnapshot
	HorizonErrors []projection.DayError
}

// Runner executes digest cycles on a fixed interval.
type Runner struct {
	projector Projector
	notifier  Notifier
	opts      Options
	now       func() time.Time

	consecutiveFailures int
}

// New creates a Runner. A nil notifier disables delivery; cycles still run and log.
func New(projector Projector, notifier Notifier, opts Options) *Runner {
	if opts.Interval <= 0 {
		opts.Interval = 24 * time.Hour
	}
	if opts.CalendarDays <= 0 {
		opts.CalendarDays = projection.DefaultCalendarDays
	}
	if len(opts.Horizons) == 0 {
		opts.Horizons = projection.DefaultHorizons
	}
	return &Runner{
		projector: projector,
		notifier:  notifier,
		opts:      opts,
		now:       time.Now,
	}
}

// Run executes one cycle immediately and then one per interval until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	logger.Info("Starting digest service (interval: %v, calendar_days: %d, horizons: %v)",
		r.opts.Interval, r.opts.CalendarDays, r.opts.Horizons)

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	logger.Debug("Running initial digest cycle")
	r.handleCycleResult(r.RunOnce(ctx, r.now()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Digest service stopped")
			return

		case tickTime := <-ticker.C:
			logger.Debug("Starting scheduled digest cycle")
			r.handleCycleResult(r.RunOnce(ctx, tickTime))
		}
	}
}

// ConsecutiveFailures reports how many cycles in a row have failed.
func (r *Runner) ConsecutiveFailures() int {
	return r.consecutiveFailures
}

// RunOnce executes a single digest cycle starting at cycleTime. The cycle
// fails only when the current sky cannot be fetched; failed calendar days and
// horizons are reported in the result.
func (r *Runner) RunOnce(ctx context.Context, cycleTime time.Time) (*Result, error) {
	startTime := time.Now()
	result := &Result{CycleID: uuid.NewString(), GeneratedAt: cycleTime}
	logger.Info("Starting digest cycle %s", result.CycleID)

	// Projections are relative to the sky at cycle time.
	r.projector.ClearCache()

	current, err := r.projector.Current(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to fetch current sky: %w", err)
	}
	result.Current = current
	logger.Debug("Current sky: %s in %s, sun in %s",
		current.MoonPhase.Phase, current.MoonPhase.Sign, current.CurrentSign)

	result.Calendar = r.projector.BuildCalendar(ctx, current, cycleTime, r.opts.CalendarDays)
	if failed := result.Calendar.Failed(); failed > 0 {
		logger.Warn("%d of %d calendar days unavailable", failed, len(result.Calendar))
	}

	result.Horizons, result.HorizonErrors = r.projector.ProjectHorizons(ctx, current, r.opts.Horizons)
	for _, dayErr := range result.HorizonErrors {
		logger.Warn("Failed to project horizon +%d: %v", dayErr.DaysAhead, dayErr.Err)
	}

	if r.notifier != nil {
		if err := r.notifier.SendDigest(cycleTime, result.Calendar, result.Horizons); err != nil {
			logger.Error("Failed to send digest: %v", err)
		} else {
			logger.Info("Sent digest with %d days and %d horizons", len(result.Calendar), len(result.Horizons))
		}
	} else {
		logger.Debug("Digest built but notifications disabled")
	}

	logger.Info("Digest cycle %s completed in %v", result.CycleID, time.Since(startTime))
	return result, nil
}

func (r *Runner) handleCycleResult(_ *Result, err error) {
	if err != nil {
		r.consecutiveFailures++
		logger.Error("Digest cycle failed: %v", err)
		if r.consecutiveFailures == 1 && r.notifier != nil {
			if sendErr := r.notifier.SendError(err); sendErr != nil {
				logger.Warn("Failed to send error notification: %v", sendErr)
			}
		}
		return
	}

	if r.consecutiveFailures > 0 && r.notifier != nil {
		if sendErr := r.notifier.SendRecovery(r.consecutiveFailures); sendErr != nil {
			logger.Warn("Failed to send recovery notification: %v", sendErr)
		}
	}
	r.consecutiveFailures = 0
}
