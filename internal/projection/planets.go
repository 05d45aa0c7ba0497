package projection

import (
	"math"

	"github.com/rewired-gh/astrocal/internal/models"
)

// defaultDegree is assumed when a position carries no degree.
const defaultDegree = 15.0

// Mercury retrograde heuristic thresholds, in days.
const (
	mercuryDirectAfter     = 21
	mercuryRetrogradeAfter = 90
	mercuryRetrogradeOdds  = 0.3
)

// ProjectPlanets advances every body in current by daysAhead days.
//
// Each body moves linearly through its sign at its average rate. A body
// advances at most one sign no matter how long the horizon is. A zero degree
// is read as missing and replaced by the middle of the sign.
//
// Only Mercury's retrograde flag can change, and only when it changes sign:
// past 21 days a retrograde Mercury turns direct, past 90 days a direct
// Mercury turns retrograde with probability 0.3. Bodies absent from current
// are absent from the result.
func ProjectPlanets(current models.PlanetarySnapshot, daysAhead int, rng Rand) models.PlanetarySnapshot {
	if current == nil {
		return nil
	}
	days := math.Max(0, float64(daysAhead))

	projected := make(models.PlanetarySnapshot, len(current))
	for _, planet := range current.Names() {
		state := current[planet]
		signDuration := planet.SignDuration()

		degree := state.Degree
		if degree == 0 {
			degree = defaultDegree
		}
		daysToNextSign := (models.DegreesPerSign - degree) * (signDuration / models.DegreesPerSign)

		sign := state.Sign
		retrograde := state.IsRetrograde
		if days > daysToNextSign {
			sign = sign.Next()
			if planet == models.Mercury {
				retrograde = mercuryRetrograde(days, retrograde, rng)
			}
		}

		projected[planet] = models.PlanetState{
			Sign:         sign,
			Degree:       math.Mod(degree+days*(models.DegreesPerSign/signDuration), models.DegreesPerSign),
			IsRetrograde: retrograde,
		}
	}
	return projected
}

func mercuryRetrograde(days float64, retrograde bool, rng Rand) bool {
	switch {
	case days > mercuryDirectAfter && retrograde:
		return false
	case days > mercuryRetrogradeAfter && !retrograde:
		return rng.Float64() > 1-mercuryRetrogradeOdds
	}
	return retrograde
}
