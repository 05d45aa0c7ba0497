package projection

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rewired-gh/astrocal/internal/logger"
	"github.com/rewired-gh/astrocal/internal/models"
)

// DefaultCalendarDays is the calendar length used when none is requested.
const DefaultCalendarDays = 28

// DefaultHorizons are the day offsets projected by ProjectHorizons by default.
var DefaultHorizons = []int{7, 14, 21, 28}

// DayError represents a per-offset error during a multi-day projection
type DayError struct {
	DaysAhead int
	Err       error
}

func (e DayError) Error() string {
	return fmt.Sprintf("projection error for day +%d: %v", e.DaysAhead, e.Err)
}

func (e DayError) Unwrap() error {
	return e.Err
}

// BuildCalendar projects days consecutive calendar days starting at start.
// A zero start means today and a non-positive days means DefaultCalendarDays.
//
// Day i is projected i days ahead of the engine's current instant. Days are
// independent: a failed projection marks only its own day, which carries the
// error, no events and the "Data unavailable" forecast. The first day is
// always flagged as today.
func (e *Engine) BuildCalendar(ctx context.Context, current *models.AstroSnapshot, start time.Time, days int) models.Calendar {
	if start.IsZero() {
		start = e.now()
	}
	if days <= 0 {
		days = DefaultCalendarDays
	}

	ctx, span := e.tracer.Start(ctx, "projection.BuildCalendar",
		trace.WithAttributes(attribute.Int("astrocal.days", days)))
	defer span.End()

	calendar := make(models.Calendar, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		entry := models.CalendarDay{
			Date:       date,
			DayOfMonth: date.Day(),
			Month:      int(date.Month()),
			Year:       date.Year(),
			DayOfWeek:  date.Weekday(),
			IsToday:    i == 0,
		}

		snap, err := e.Project(ctx, current, i)
		if err != nil {
			logger.Warn("Calendar day %s unavailable: %v", date.Format("2006-01-02"), err)
			entry.Err = err
			entry.Error = err.Error()
			entry.KeyEvents = []models.KeyEvent{}
			entry.Forecast = unavailableForecast
			calendar = append(calendar, entry)
			continue
		}

		entry.MoonPhase = snap.MoonPhase
		entry.SunSign = snap.CurrentSign
		entry.KeyEvents = KeyEvents(snap)
		entry.Forecast = BriefForecast(snap)
		calendar = append(calendar, entry)
	}

	if failed := calendar.Failed(); failed > 0 {
		span.SetAttributes(attribute.Int("astrocal.failed_days", failed))
	}
	return calendar
}

// ProjectHorizons projects current at each offset in days through the cache.
// A nil or empty days uses DefaultHorizons. Failed offsets are reported in
// the returned errors and absent from the map; the rest still succeed.
func (e *Engine) ProjectHorizons(ctx context.Context, current *models.AstroSnapshot, days []int) (map[int]*models.AstroSnapshot, []DayError) {
	if len(days) == 0 {
		days = DefaultHorizons
	}

	projections := make(map[int]*models.AstroSnapshot, len(days))
	var dayErrors []DayError
	for _, d := range days {
		snap, err := e.ProjectCached(ctx, current, d)
		if err != nil {
			dayErrors = append(dayErrors, DayError{DaysAhead: d, Err: err})
			continue
		}
		projections[d] = snap
	}
	return projections, dayErrors
}
