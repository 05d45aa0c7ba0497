package projection

import "github.com/rewired-gh/astrocal/internal/models"

const (
	fallbackPrediction = "Your intuition will guide you in the right direction."
	fallbackModifier   = "Align yourself with the cosmic energies of the day."
	fallbackColor      = "Blue"
	fallbackSignMood   = "Balanced"
	fallbackPhaseMood  = "Contemplative"
	fallbackCompatible = models.Libra
)

var signPredictions = map[models.Sign]string{
	models.Aries:       "Your natural leadership abilities will be highlighted. Focus on taking initiative.",
	models.Taurus:      "Stability and resources are emphasized. Good time to build foundations.",
	models.Gemini:      "Communication and social connections are favored. Express your ideas freely.",
	models.Cancer:      "Emotional intuition is heightened. Trust your gut feelings about situations.",
	models.Leo:         "Self-expression and creativity shine. Share your unique talents with others.",
	models.Virgo:       "Analysis and problem-solving are enhanced. Pay attention to details.",
	models.Libra:       "Balance and partnership are in focus. Seek harmony in your decisions.",
	models.Scorpio:     "Transformation and deep insights are favored. Embrace personal evolution.",
	models.Sagittarius: "Expansion and exploration are highlighted. Seek new horizons.",
	models.Capricorn:   "Structure and discipline lead to achievement. Focus on long-term goals.",
	models.Aquarius:    "Innovation and community connections are emphasized. Think outside the box.",
	models.Pisces:      "Intuition and spiritual awareness are heightened. Listen to your inner voice.",
}

var phaseModifiers = map[models.Phase]string{
	models.NewMoon:        "A perfect time for new beginnings and setting intentions.",
	models.WaxingCrescent: "Building momentum is key. Take initial steps toward your goals.",
	models.FirstQuarter:   "Time to overcome obstacles. Make decisive choices.",
	models.WaxingGibbous:  "Refine your approach. Pay attention to details before completion.",
	models.FullMoon:       "Culmination and clarity. Relationships and emotions are highlighted.",
	models.WaningGibbous:  "Share knowledge and express gratitude. Reflect on recent developments.",
	models.LastQuarter:    "Release what no longer serves you. Reconsider your direction.",
	models.WaningCrescent: "Rest, reflect, and prepare for the next cycle. Inner work is favored.",
}

var luckyColors = map[models.Sign][]string{
	models.Aries:       {"Red", "Orange", "Gold"},
	models.Taurus:      {"Green", "Pink", "Blue"},
	models.Gemini:      {"Yellow", "Light Blue", "Orange"},
	models.Cancer:      {"Silver", "White", "Sea Green"},
	models.Leo:         {"Gold", "Orange", "Royal Purple"},
	models.Virgo:       {"Green", "Brown", "Navy"},
	models.Libra:       {"Pink", "Blue", "Lavender"},
	models.Scorpio:     {"Deep Red", "Black", "Dark Purple"},
	models.Sagittarius: {"Purple", "Blue", "Turquoise"},
	models.Capricorn:   {"Brown", "Dark Green", "Gray"},
	models.Aquarius:    {"Electric Blue", "Turquoise", "Silver"},
	models.Pisces:      {"Sea Green", "Lavender", "Purple"},
}

var signMoods = map[models.Sign][]string{
	models.Aries:       {"Energetic", "Passionate", "Determined"},
	models.Taurus:      {"Steady", "Content", "Grounded"},
	models.Gemini:      {"Curious", "Social", "Expressive"},
	models.Cancer:      {"Intuitive", "Nurturing", "Reflective"},
	models.Leo:         {"Confident", "Creative", "Generous"},
	models.Virgo:       {"Analytical", "Practical", "Helpful"},
	models.Libra:       {"Harmonious", "Diplomatic", "Social"},
	models.Scorpio:     {"Intense", "Focused", "Transformative"},
	models.Sagittarius: {"Adventurous", "Optimistic", "Philosophical"},
	models.Capricorn:   {"Ambitious", "Disciplined", "Responsible"},
	models.Aquarius:    {"Innovative", "Independent", "Humanitarian"},
	models.Pisces:      {"Dreamy", "Compassionate", "Intuitive"},
}

var phaseMoods = map[models.Phase][]string{
	models.NewMoon:        {"Introspective", "Hopeful", "Anticipating"},
	models.WaxingCrescent: {"Motivated", "Determined", "Building"},
	models.FirstQuarter:   {"Challenged", "Resolute", "Active"},
	models.WaxingGibbous:  {"Focused", "Perfecting", "Detailed"},
	models.FullMoon:       {"Emotional", "Expressive", "Illuminated"},
	models.WaningGibbous:  {"Grateful", "Giving", "Sharing"},
	models.LastQuarter:    {"Reflective", "Releasing", "Evaluating"},
	models.WaningCrescent: {"Resting", "Surrendering", "Preparing"},
}

var compatibleSigns = map[models.Sign][]models.Sign{
	models.Aries:       {models.Leo, models.Sagittarius, models.Gemini},
	models.Taurus:      {models.Virgo, models.Capricorn, models.Cancer},
	models.Gemini:      {models.Libra, models.Aquarius, models.Aries},
	models.Cancer:      {models.Scorpio, models.Pisces, models.Taurus},
	models.Leo:         {models.Aries, models.Sagittarius, models.Gemini},
	models.Virgo:       {models.Taurus, models.Capricorn, models.Cancer},
	models.Libra:       {models.Gemini, models.Aquarius, models.Leo},
	models.Scorpio:     {models.Cancer, models.Pisces, models.Virgo},
	models.Sagittarius: {models.Aries, models.Leo, models.Aquarius},
	models.Capricorn:   {models.Taurus, models.Virgo, models.Scorpio},
	models.Aquarius:    {models.Gemini, models.Libra, models.Sagittarius},
	models.Pisces:      {models.Cancer, models.Scorpio, models.Capricorn},
}

// DeriveHoroscope builds the horoscope for a sun sign and moon phase. The
// prediction is fixed for a given pair; color, number, mood and compatible
// sign are drawn from rng on every call.
func DeriveHoroscope(sunSign models.Sign, phase models.Phase, rng Rand) models.Horoscope {
	return models.Horoscope{
		Prediction:    prediction(sunSign, phase),
		LuckyColor:    pick(luckyColors[sunSign], fallbackColor, rng),
		LuckyNumber:   rng.IntN(9) + 1,
		Mood:          mood(sunSign, phase, rng),
		Compatibility: pick(compatibleSigns[sunSign], fallbackCompatible, rng),
	}
}

func prediction(sunSign models.Sign, phase models.Phase) string {
	base, ok := signPredictions[sunSign]
	if !ok {
		base = fallbackPrediction
	}
	modifier, ok := phaseModifiers[phase]
	if !ok {
		modifier = fallbackModifier
	}
	return base + " " + modifier
}

// mood draws from the sign's moods or the phase's moods with equal odds.
func mood(sunSign models.Sign, phase models.Phase, rng Rand) string {
	if rng.Float64() > 0.5 {
		return pick(signMoods[sunSign], fallbackSignMood, rng)
	}
	return pick(phaseMoods[phase], fallbackPhaseMood, rng)
}

func pick[T any](options []T, fallback T, rng Rand) T {
	if len(options) == 0 {
		return fallback
	}
	return options[rng.IntN(len(options))]
}
