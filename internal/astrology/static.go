package astrology

import (
	"context"
	"time"

	"github.com/rewired-gh/astrocal/internal/models"
)

// Static is an offline provider that always returns the same reference sky.
type Static struct {
	Moon    models.MoonState
	Planets models.PlanetarySnapshot
}

// NewStatic returns a Static provider holding the reference sky of early March 2025.
func NewStatic() *Static {
	return &Static{
		Moon: models.MoonState{
			Phase:        models.WaxingCrescent,
			Sign:         models.Leo,
			Illumination: 0.35,
			PhaseEmoji:   models.WaxingCrescent.Emoji(),
			Date:         time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
		},
		Planets: models.PlanetarySnapshot{
			models.Sun:     {Sign: models.Pisces, Degree: 5.23},
			models.Moon:    {Sign: models.Leo, Degree: 12.48},
			models.Mercury: {Sign: models.Aquarius, Degree: 28.4, IsRetrograde: true},
			models.Venus:   {Sign: models.Aries, Degree: 3.12},
			models.Mars:    {Sign: models.Capricorn, Degree: 19.87},
			models.Jupiter: {Sign: models.Gemini, Degree: 8.32},
			models.Saturn:  {Sign: models.Pisces, Degree: 14.56},
		},
	}
}

// FetchCurrentMoonState returns a copy of the fixed moon state.
func (s *Static) FetchCurrentMoonState(ctx context.Context) (*models.MoonState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	moon := s.Moon
	return &moon, nil
}

// FetchPlanetaryPositions returns a copy of the fixed planetary positions.
func (s *Static) FetchPlanetaryPositions(ctx context.Context) (models.PlanetarySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(models.PlanetarySnapshot, len(s.Planets))
	for k, v := range s.Planets {
		out[k] = v
	}
	return out, nil
}
