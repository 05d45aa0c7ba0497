package models

import (
	"errors"
	"fmt"
	"time"
)

// Phase is one of the eight named stages of the lunar cycle.
type Phase string

// Moon phases in cyclic order.
const (
	NewMoon        Phase = "New Moon"
	WaxingCrescent Phase = "Waxing Crescent"
	FirstQuarter   Phase = "First Quarter"
	WaxingGibbous  Phase = "Waxing Gibbous"
	FullMoon       Phase = "Full Moon"
	WaningGibbous  Phase = "Waning Gibbous"
	LastQuarter    Phase = "Last Quarter"
	WaningCrescent Phase = "Waning Crescent"
)

// Phases lists every moon phase in cyclic order, starting at New Moon.
var Phases = []Phase{
	NewMoon, WaxingCrescent, FirstQuarter, WaxingGibbous,
	FullMoon, WaningGibbous, LastQuarter, WaningCrescent,
}

// Illumination bounds. Projected illumination never reaches 0 or 1.
const (
	MinIllumination = 0.01
	MaxIllumination = 0.99
)

// defaultPhaseDuration applies to a phase missing from phaseDurations.
const defaultPhaseDuration = 3.7

// phaseDurations holds the average number of days the moon spends in each phase.
var phaseDurations = map[Phase]float64{
	NewMoon:        3.69,
	WaxingCrescent: 4.09,
	FirstQuarter:   3.89,
	WaxingGibbous:  3.89,
	FullMoon:       3.69,
	WaningGibbous:  4.09,
	LastQuarter:    3.89,
	WaningCrescent: 3.89,
}

var phaseIllumination = map[Phase]float64{
	NewMoon:        0.01,
	WaxingCrescent: 0.25,
	FirstQuarter:   0.5,
	WaxingGibbous:  0.75,
	FullMoon:       0.99,
	WaningGibbous:  0.75,
	LastQuarter:    0.5,
	WaningCrescent: 0.25,
}

var phaseEmoji = map[Phase]string{
	NewMoon:        "🌑",
	WaxingCrescent: "🌒",
	FirstQuarter:   "🌓",
	WaxingGibbous:  "🌔",
	FullMoon:       "🌕",
	WaningGibbous:  "🌖",
	LastQuarter:    "🌗",
	WaningCrescent: "🌘",
}

// Index returns the position of p in Phases, or -1 if p is not a known phase.
func (p Phase) Index() int {
	for i, phase := range Phases {
		if phase == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is one of the eight named phases.
func (p Phase) Valid() bool {
	return p.Index() >= 0
}

// Next returns the phase that follows p. An unknown phase resolves to New Moon.
func (p Phase) Next() Phase {
	i := p.Index()
	if i < 0 {
		return Phases[0]
	}
	return Phases[(i+1)%len(Phases)]
}

// Duration returns the average length of the phase in days.
func (p Phase) Duration() float64 {
	if d, ok := phaseDurations[p]; ok {
		return d
	}
	return defaultPhaseDuration
}

// BaseIllumination returns the nominal illuminated fraction at the phase.
func (p Phase) BaseIllumination() float64 {
	if v, ok := phaseIllumination[p]; ok {
		return v
	}
	return 0.5
}

// Emoji returns the display glyph for the phase. Unknown phases render as a new moon.
func (p Phase) Emoji() string {
	if e, ok := phaseEmoji[p]; ok {
		return e
	}
	return phaseEmoji[NewMoon]
}

// Waxing reports whether illumination grows during the phase.
// New Moon through Waxing Gibbous count as waxing.
func (p Phase) Waxing() bool {
	i := p.Index()
	return i >= 0 && i <= 3
}

// Cardinal reports whether p is one of New Moon, First Quarter, Full Moon or Last Quarter.
func (p Phase) Cardinal() bool {
	switch p {
	case NewMoon, FirstQuarter, FullMoon, LastQuarter:
		return true
	}
	return false
}

// ParsePhase returns the phase named by name. Unknown names fall back to
// New Moon and ok is false.
func ParsePhase(name string) (phase Phase, ok bool) {
	p := Phase(name)
	if !p.Valid() {
		return Phases[0], false
	}
	return p, true
}

// CycleLength returns the sum of all phase durations in days.
func CycleLength() float64 {
	total := 0.0
	for _, p := range Phases {
		total += p.Duration()
	}
	return total
}

// MoonState describes the moon at one calendar date.
type MoonState struct {
	Phase        Phase     `json:"phase" yaml:"phase"`
	Sign         Sign      `json:"sign" yaml:"sign"`
	Illumination float64   `json:"illumination" yaml:"illumination"` // fraction in [0, 1]
	PhaseEmoji   string    `json:"phase_emoji" yaml:"phase_emoji"`
	Date         time.Time `json:"date" yaml:"date"`
}

// Validate checks that the moon state uses known enumerations and a valid illumination.
func (m *MoonState) Validate() error {
	if !m.Phase.Valid() {
		return fmt.Errorf("unknown moon phase %q", m.Phase)
	}
	if !m.Sign.Valid() {
		return fmt.Errorf("unknown moon sign %q", m.Sign)
	}
	if m.Illumination < 0.0 || m.Illumination > 1.0 {
		return errors.New("illumination must be between 0.0 and 1.0")
	}
	return nil
}
