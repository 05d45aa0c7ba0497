package projection

import (
	"fmt"

	"github.com/rewired-gh/astrocal/internal/models"
)

const (
	moonSignIcon   = "🌙"
	sunSignIcon    = "☀️"
	retrogradeIcon = "☿"
)

// KeyEvents lists the notable events of a projected day: cardinal moon
// phases, the moon's sign, the sun entering a sign (degree below 1) and
// Mercury retrograde. A nil snapshot has no events.
func KeyEvents(snap *models.AstroSnapshot) []models.KeyEvent {
	events := []models.KeyEvent{}
	if snap == nil {
		return events
	}

	if moon := snap.MoonPhase; moon != nil {
		if moon.Phase.Cardinal() {
			events = append(events, models.KeyEvent{
				Type:        models.EventMoonPhase,
				Name:        string(moon.Phase),
				Description: fmt.Sprintf("%s in %s", moon.Phase, moon.Sign),
				Icon:        moon.PhaseEmoji,
			})
		}
		if moon.Sign != "" {
			events = append(events, models.KeyEvent{
				Type:        models.EventMoonSign,
				Name:        fmt.Sprintf("Moon enters %s", moon.Sign),
				Description: fmt.Sprintf("Moon moves into %s", moon.Sign),
				Icon:        moonSignIcon,
			})
		}
	}

	if sun, ok := snap.PlanetaryPositions[models.Sun]; ok && sun.Degree < 1 {
		events = append(events, models.KeyEvent{
			Type:        models.EventSunSign,
			Name:        fmt.Sprintf("Sun enters %s", sun.Sign),
			Description: fmt.Sprintf("Sun moves into %s", sun.Sign),
			Icon:        sunSignIcon,
		})
	}

	if mercury, ok := snap.PlanetaryPositions[models.Mercury]; ok && mercury.IsRetrograde {
		events = append(events, models.KeyEvent{
			Type:        models.EventRetrograde,
			Name:        "Mercury Retrograde",
			Description: "Mercury is retrograde - communication and technology may be affected",
			Icon:        retrogradeIcon,
		})
	}

	return events
}
