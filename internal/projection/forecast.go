package projection

import "github.com/rewired-gh/astrocal/internal/models"

const (
	unavailableForecast = "Data unavailable"
	genericForecast     = "Align with the day's cosmic energies."
)

var phaseForecasts = map[models.Phase]map[models.Sign]string{
	models.NewMoon: {
		models.Aries:       "Perfect for starting new projects with confidence.",
		models.Taurus:      "Begin building foundations for material security.",
		models.Gemini:      "Ideal for initiating new conversations and learning.",
		models.Cancer:      "Start emotional healing and home improvements.",
		models.Leo:         "Launch creative projects with renewed passion.",
		models.Virgo:       "Begin practical routines with clear intentions.",
		models.Libra:       "Start new relationships with balanced expectations.",
		models.Scorpio:     "Powerful time for personal transformation begins.",
		models.Sagittarius: "Set intentions for expansion and exploration.",
		models.Capricorn:   "Begin building structured paths to achievement.",
		models.Aquarius:    "Innovate and plant seeds for community projects.",
		models.Pisces:      "Start spiritual practices and creative endeavors.",
	},
	models.FullMoon: {
		models.Aries:       "See results of your independent initiatives.",
		models.Taurus:      "Harvest the rewards of your consistent efforts.",
		models.Gemini:      "Communications reach culmination and clarity.",
		models.Cancer:      "Emotional situations reach illuminating resolution.",
		models.Leo:         "Creative and romantic situations reach a climax.",
		models.Virgo:       "Work projects and health matters reach completion.",
		models.Libra:       "Relationships reach important turning points.",
		models.Scorpio:     "Deep transformations reveal their purpose.",
		models.Sagittarius: "Expansion efforts show meaningful results.",
		models.Capricorn:   "Career initiatives reach important milestones.",
		models.Aquarius:    "Innovative projects gain community recognition.",
		models.Pisces:      "Spiritual insights bring profound understanding.",
	},
}

var signForecasts = map[models.Sign]string{
	models.Aries:       "Channel your energy into purposeful action.",
	models.Taurus:      "Build steadily toward your material goals.",
	models.Gemini:      "Connect and communicate with versatility.",
	models.Cancer:      "Nurture important emotional connections.",
	models.Leo:         "Express your authentic creativity and leadership.",
	models.Virgo:       "Organize and improve with practical precision.",
	models.Libra:       "Create harmony and weigh important decisions.",
	models.Scorpio:     "Transform through deep emotional insights.",
	models.Sagittarius: "Expand your horizons with optimism.",
	models.Capricorn:   "Structure your path to long-term success.",
	models.Aquarius:    "Innovate with humanitarian perspective.",
	models.Pisces:      "Flow with intuition and creative inspiration.",
}

// BriefForecast returns the deterministic one-line forecast for a snapshot.
// New and full moons have per-sign lines; other phases use the sign alone.
func BriefForecast(snap *models.AstroSnapshot) string {
	if snap == nil {
		return unavailableForecast
	}
	var phase models.Phase
	if snap.MoonPhase != nil {
		phase = snap.MoonPhase.Phase
	}
	if line, ok := phaseForecasts[phase][snap.CurrentSign]; ok {
		return line
	}
	if line, ok := signForecasts[snap.CurrentSign]; ok {
		return line
	}
	return genericForecast
}
