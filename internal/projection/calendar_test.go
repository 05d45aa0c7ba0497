package projection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/astrocal/internal/models"
)

func TestBuildCalendar_ConsecutiveDays(t *testing.T) {
	p := newFakeProvider()
	e := newTestEngine(p)
	start := time.Date(2030, time.January, 30, 0, 0, 0, 0, time.UTC)

	calendar := e.BuildCalendar(context.Background(), referenceSnapshot(), start, 28)

	require.Len(t, calendar, 28)
	assert.Equal(t, 0, p.calls())
	assert.Equal(t, 0, calendar.Failed())

	for i, d := range calendar {
		want := start.AddDate(0, 0, i)
		assert.Equal(t, want, d.Date)
		assert.Equal(t, want.Day(), d.DayOfMonth)
		assert.Equal(t, int(want.Month()), d.Month)
		assert.Equal(t, want.Year(), d.Year)
		assert.Equal(t, want.Weekday(), d.DayOfWeek)
		assert.Equal(t, i == 0, d.IsToday, "day %d", i)

		require.True(t, d.OK(), "day %d", i)
		require.NotNil(t, d.MoonPhase)
		assert.NotEmpty(t, d.SunSign)
		assert.NotEmpty(t, d.Forecast)
		assert.NotEqual(t, unavailableForecast, d.Forecast)

		var moonSign bool
		for _, ev := range d.KeyEvents {
			if ev.Type == models.EventMoonSign {
				moonSign = true
			}
		}
		assert.True(t, moonSign, "day %d lacks a moon sign event", i)
	}

	// Crosses the month boundary.
	assert.Equal(t, time.February, time.Month(calendar[2].Month))
	assert.Equal(t, 1, calendar[2].DayOfMonth)
}

func TestBuildCalendar_FailedDayIsIsolated(t *testing.T) {
	p := newFakeProvider()
	p.failMoonOn = map[int]bool{5: true}
	e := newTestEngine(p)

	calendar := e.BuildCalendar(context.Background(), nil, refTime, 28)

	require.Len(t, calendar, 28)
	assert.Equal(t, 1, calendar.Failed())
	assert.Equal(t, 28, p.calls())

	failed := calendar[4]
	assert.False(t, failed.OK())
	assert.ErrorIs(t, failed.Err, ErrUnavailable)
	assert.ErrorIs(t, failed.Err, errProviderDown)
	assert.NotEmpty(t, failed.Error)
	assert.Nil(t, failed.MoonPhase)
	assert.NotNil(t, failed.KeyEvents)
	assert.Empty(t, failed.KeyEvents)
	assert.Equal(t, "Data unavailable", failed.Forecast)
	assert.Equal(t, refTime.AddDate(0, 0, 4), failed.Date)

	for i, d := range calendar {
		if i == 4 {
			continue
		}
		assert.True(t, d.OK(), "day %d", i)
		assert.NotNil(t, d.MoonPhase, "day %d", i)
	}
}

func TestBuildCalendar_Defaults(t *testing.T) {
	e := newTestEngine(newFakeProvider())

	calendar := e.BuildCalendar(context.Background(), referenceSnapshot(), time.Time{}, 0)

	require.Len(t, calendar, DefaultCalendarDays)
	assert.Equal(t, refTime, calendar[0].Date)
	assert.True(t, calendar[0].IsToday)
}

func TestBuildCalendar_AllDaysFail(t *testing.T) {
	p := newFakeProvider()
	p.nilMoon = true
	e := newTestEngine(p)

	calendar := e.BuildCalendar(context.Background(), nil, refTime, 3)

	require.Len(t, calendar, 3)
	assert.Equal(t, 3, calendar.Failed())
	for _, d := range calendar {
		assert.Equal(t, unavailableForecast, d.Forecast)
	}
}

func TestProjectHorizons(t *testing.T) {
	p := newFakeProvider()
	e := newTestEngine(p)

	projections, errs := e.ProjectHorizons(context.Background(), referenceSnapshot(), nil)

	assert.Empty(t, errs)
	require.Len(t, projections, len(DefaultHorizons))
	for _, d := range DefaultHorizons {
		snap, ok := projections[d]
		require.True(t, ok, "missing +%d", d)
		assert.Equal(t, refTime.AddDate(0, 0, d), snap.Date)
	}
	assert.Equal(t, len(DefaultHorizons), e.CacheStats().Misses)

	again, _ := e.ProjectHorizons(context.Background(), referenceSnapshot(), nil)
	for _, d := range DefaultHorizons {
		assert.Same(t, projections[d], again[d])
	}
}

func TestProjectHorizons_PartialFailure(t *testing.T) {
	p := newFakeProvider()
	p.failMoonOn = map[int]bool{2: true}
	e := newTestEngine(p)

	projections, errs := e.ProjectHorizons(context.Background(), nil, []int{7, 14, 21})

	require.Len(t, errs, 1)
	assert.Equal(t, 14, errs[0].DaysAhead)
	assert.ErrorIs(t, errs[0], ErrUnavailable)
	assert.Contains(t, errs[0].Error(), "day +14")

	assert.Len(t, projections, 2)
	assert.Contains(t, projections, 7)
	assert.Contains(t, projections, 21)
	assert.NotContains(t, projections, 14)
}
