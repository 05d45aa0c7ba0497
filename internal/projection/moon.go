package projection

import (
	"math"
	"time"

	"github.com/rewired-gh/astrocal/internal/models"
)

// MoonSignDuration is the average number of days the moon spends in one sign.
const MoonSignDuration = 2.5

const day = 24 * time.Hour

// ProjectMoon advances the moon daysAhead days from current.
//
// The phase walks the cycle using average phase durations, assuming the
// current illumination is the fraction of the current phase already elapsed.
// The walk stops as soon as the remaining offset fits in the next phase, so
// results are approximate. The sign advances independently every
// MoonSignDuration days. An unrecognized phase or sign is read as the first
// member of its cycle.
//
// The projected date is ref plus daysAhead days. A non-positive daysAhead
// returns the current phase, sign and illumination.
func ProjectMoon(current models.MoonState, daysAhead int, ref time.Time) models.MoonState {
	return advanceMoon(current, float64(daysAhead), ref)
}

func advanceMoon(current models.MoonState, days float64, ref time.Time) models.MoonState {
	phase, _ := models.ParsePhase(string(current.Phase))
	sign, _ := models.ParseSign(string(current.Sign))
	currentIllumination := clampUnit(current.Illumination)

	if days <= 0 {
		return models.MoonState{
			Phase:        phase,
			Sign:         sign,
			Illumination: clampIllumination(currentIllumination),
			PhaseEmoji:   phase.Emoji(),
			Date:         ref,
		}
	}

	elapsedInPhase := phase.Duration() * currentIllumination
	remainingInPhase := phase.Duration() - elapsedInPhase

	remaining := days
	if remaining > remainingInPhase {
		remaining -= remainingInPhase
		for remaining > 0 {
			phase = phase.Next()
			if remaining > phase.Duration() {
				remaining -= phase.Duration()
			} else {
				break
			}
		}
	}

	remainingInSign := MoonSignDuration - math.Mod(elapsedInPhase, MoonSignDuration)
	if days > remainingInSign {
		// Passing the end of the current sign is the first change; each
		// further MoonSignDuration is another. Over 30 days that is
		// 1 + 11 changes, so a 30-day advance lands back on the starting
		// sign only because of the leading 1.
		steps := 1 + int(math.Floor((days-remainingInSign)/MoonSignDuration))
		sign = sign.Advance(steps)
	}

	return models.MoonState{
		Phase:        phase,
		Sign:         sign,
		Illumination: projectIllumination(phase, remaining),
		PhaseEmoji:   phase.Emoji(),
		Date:         ref.Add(time.Duration(days * float64(day))),
	}
}

// projectIllumination starts from the phase's nominal illumination and scales
// it by progress through the phase: up for waxing phases, down for waning ones.
func projectIllumination(phase models.Phase, daysIntoPhase float64) float64 {
	illumination := phase.BaseIllumination()
	if daysIntoPhase > 0 {
		progress := daysIntoPhase / phase.Duration()
		if phase.Waxing() {
			illumination = math.Min(models.MaxIllumination, illumination*progress)
		} else {
			illumination = math.Max(models.MinIllumination, illumination*(1-progress))
		}
	}
	return clampIllumination(illumination)
}

func clampIllumination(v float64) float64 {
	return math.Max(models.MinIllumination, math.Min(models.MaxIllumination, v))
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
