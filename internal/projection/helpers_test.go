package projection

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rewired-gh/astrocal/internal/models"
)

var (
	refTime         = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	errProviderDown = errors.New("provider down")
)

func fixedClock() time.Time { return refTime }

// stubRand returns fixed values, so tests can pick a branch.
type stubRand struct {
	f float64
	n int
}

func (s stubRand) Float64() float64 { return s.f }
func (s stubRand) IntN(n int) int   { return s.n % n }

// fakeProvider serves a fixed snapshot and can fail chosen moon fetches.
type fakeProvider struct {
	mu         sync.Mutex
	moon       models.MoonState
	planets    models.PlanetarySnapshot
	moonCalls  int
	failMoonOn map[int]bool // 1-based call numbers
	nilMoon    bool
	planetsErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		moon: models.MoonState{
			Phase:        models.WaxingCrescent,
			Sign:         models.Leo,
			Illumination: 0.35,
			PhaseEmoji:   models.WaxingCrescent.Emoji(),
		},
		planets: referencePlanets(),
	}
}

func (f *fakeProvider) FetchCurrentMoonState(ctx context.Context) (*models.MoonState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.moonCalls++
	if f.failMoonOn[f.moonCalls] {
		return nil, errProviderDown
	}
	if f.nilMoon {
		return nil, nil
	}
	moon := f.moon
	return &moon, nil
}

func (f *fakeProvider) FetchPlanetaryPositions(ctx context.Context) (models.PlanetarySnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.planetsErr != nil {
		return nil, f.planetsErr
	}
	out := make(models.PlanetarySnapshot, len(f.planets))
	for k, v := range f.planets {
		out[k] = v
	}
	return out, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.moonCalls
}

func referencePlanets() models.PlanetarySnapshot {
	return models.PlanetarySnapshot{
		models.Sun:     {Sign: models.Pisces, Degree: 5.23},
		models.Moon:    {Sign: models.Leo, Degree: 12.48},
		models.Mercury: {Sign: models.Aquarius, Degree: 28.4, IsRetrograde: true},
		models.Venus:   {Sign: models.Aries, Degree: 3.12},
		models.Mars:    {Sign: models.Capricorn, Degree: 19.87},
		models.Jupiter: {Sign: models.Gemini, Degree: 8.32},
		models.Saturn:  {Sign: models.Pisces, Degree: 14.56},
	}
}

func referenceSnapshot() *models.AstroSnapshot {
	return &models.AstroSnapshot{
		ID:   "reference",
		Date: refTime,
		MoonPhase: &models.MoonState{
			Phase:        models.WaxingCrescent,
			Sign:         models.Leo,
			Illumination: 0.35,
		},
		PlanetaryPositions: referencePlanets(),
		CurrentSign:        models.Pisces,
	}
}
