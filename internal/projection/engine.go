// Package projection advances astrological snapshots into the future.
//
// The model is a deliberately simple cyclic approximation, not an ephemeris:
//
//	moon phase   walks the eight phases using average phase durations
//	moon sign    advances one sign every 2.5 days
//	planets      move linearly through their sign, changing sign at most once
//
// On top of a projected snapshot the package derives a horoscope, a one-line
// forecast and the day's key events, and assembles multi-day calendars.
//
// Engine composes the model with a live current-state Provider, a bounded
// projection cache and an injected clock and random source.
package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rewired-gh/astrocal/internal/logger"
	"github.com/rewired-gh/astrocal/internal/models"
	"github.com/rewired-gh/astrocal/internal/storage"
)

const tracerName = "github.com/rewired-gh/astrocal/internal/projection"

// fallbackSunSign is recorded when a live snapshot carries no sun position.
const fallbackSunSign = models.Pisces

// ErrUnavailable reports that the current state could not be obtained from the provider.
var ErrUnavailable = errors.New("current astrological state unavailable")

// Provider supplies the live moon and planetary state.
type Provider interface {
	FetchCurrentMoonState(ctx context.Context) (*models.MoonState, error)
	FetchPlanetaryPositions(ctx context.Context) (models.PlanetarySnapshot, error)
}

// Engine projects snapshots using a live provider, a cache and injectable
// clock and randomness.
type Engine struct {
	provider Provider
	cache    *storage.Cache
	rng      Rand
	now      func() time.Time
	tracer   trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache sets the projection cache. Engines sharing a cache share results.
func WithCache(c *storage.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithRand sets the random source for horoscope text and Mercury retrograde.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock sets the reference instant source. Projections are relative to it.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTracer sets the tracer used for projection spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// New creates an Engine reading live state from provider.
func New(provider Provider, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		rng:      globalRand{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = storage.New(storage.DefaultMaxEntries)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	return e
}

// Current fetches the live snapshot from the provider. Any provider failure
// or missing moon or planetary data is reported as ErrUnavailable.
func (e *Engine) Current(ctx context.Context) (*models.AstroSnapshot, error) {
	ctx, span := e.tracer.Start(ctx, "projection.Current")
	defer span.End()

	moon, err := e.provider.FetchCurrentMoonState(ctx)
	if err != nil {
		return nil, e.fail(span, fmt.Errorf("%w: fetch moon phase: %w", ErrUnavailable, err))
	}
	if moon == nil {
		return nil, e.fail(span, fmt.Errorf("%w: provider returned no moon phase", ErrUnavailable))
	}

	planets, err := e.provider.FetchPlanetaryPositions(ctx)
	if err != nil {
		return nil, e.fail(span, fmt.Errorf("%w: fetch planetary positions: %w", ErrUnavailable, err))
	}
	if len(planets) == 0 {
		return nil, e.fail(span, fmt.Errorf("%w: provider returned no planetary positions", ErrUnavailable))
	}

	snap := &models.AstroSnapshot{
		ID:                 uuid.NewString(),
		Date:               e.now(),
		MoonPhase:          moon,
		PlanetaryPositions: planets,
		CurrentSign:        fallbackSunSign,
	}
	snap.CurrentSign = snap.SunSign()
	return snap, nil
}

// Project returns the snapshot daysAhead days after the engine's current
// instant. When current is nil or lacks moon or planetary data, the live
// state is fetched first and a fetch failure fails the projection.
func (e *Engine) Project(ctx context.Context, current *models.AstroSnapshot, daysAhead int) (*models.AstroSnapshot, error) {
	ctx, span := e.tracer.Start(ctx, "projection.Project",
		trace.WithAttributes(attribute.Int("astrocal.days_ahead", daysAhead)))
	defer span.End()

	if !current.Complete() {
		fetched, err := e.Current(ctx)
		if err != nil {
			return nil, e.fail(span, err)
		}
		current = fetched
	}

	snap := ProjectSnapshot(current, daysAhead, e.now(), e.rng)
	span.SetAttributes(
		attribute.String("astrocal.moon_phase", string(snap.MoonPhase.Phase)),
		attribute.String("astrocal.sun_sign", string(snap.CurrentSign)),
	)
	return snap, nil
}

// ProjectCached is Project memoized by day offset and the originating phase
// and sun sign. Identical keys return the same snapshot, which callers must
// not modify.
func (e *Engine) ProjectCached(ctx context.Context, current *models.AstroSnapshot, daysAhead int) (*models.AstroSnapshot, error) {
	key := CacheKey(current, daysAhead)
	return e.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*models.AstroSnapshot, error) {
		logger.Debug("Projection cache miss for %s", key)
		return e.Project(ctx, current, daysAhead)
	})
}

// ClearCache empties the projection cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// CacheStats reports projection cache activity.
func (e *Engine) CacheStats() storage.Stats {
	return e.cache.Stats()
}

// CacheKey derives the cache key for projecting current by daysAhead days.
// A nil snapshot yields empty phase and sign.
func CacheKey(current *models.AstroSnapshot, daysAhead int) storage.Key {
	key := storage.Key{DaysAhead: daysAhead}
	if current == nil {
		return key
	}
	if current.MoonPhase != nil {
		key.Phase = current.MoonPhase.Phase
	}
	key.Sign = current.CurrentSign
	return key
}

func (e *Engine) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// ProjectSnapshot advances current by daysAhead days relative to ref. It
// performs no I/O. The sun sign is the projected sun's sign, falling back to
// current.CurrentSign. The horoscope is derived fresh from rng on every call.
// A nil current projects to nil.
func ProjectSnapshot(current *models.AstroSnapshot, daysAhead int, ref time.Time, rng Rand) *models.AstroSnapshot {
	if current == nil {
		return nil
	}
	if daysAhead < 0 {
		daysAhead = 0
	}

	snap := &models.AstroSnapshot{
		ID:          uuid.NewString(),
		Date:        ref.Add(time.Duration(daysAhead) * day),
		CurrentSign: current.CurrentSign,
	}
	if current.MoonPhase != nil {
		moon := ProjectMoon(*current.MoonPhase, daysAhead, ref)
		snap.MoonPhase = &moon
	}
	snap.PlanetaryPositions = ProjectPlanets(current.PlanetaryPositions, daysAhead, rng)
	snap.CurrentSign = snap.SunSign()

	var phase models.Phase
	if snap.MoonPhase != nil {
		phase = snap.MoonPhase.Phase
	}
	snap.DailyHoroscope = DeriveHoroscope(snap.CurrentSign, phase, rng)
	return snap
}
