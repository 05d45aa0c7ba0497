package models

import (
	"errors"
	"fmt"
	"sort"
)

// Planet names a body tracked in a planetary snapshot. Names are lower case,
// matching the keys used by the current-state provider.
type Planet string

const (
	Sun     Planet = "sun"
	Moon    Planet = "moon"
	Mercury Planet = "mercury"
	Venus   Planet = "venus"
	Mars    Planet = "mars"
	Jupiter Planet = "jupiter"
	Saturn  Planet = "saturn"
)

// Planets lists the tracked bodies in traditional order.
var Planets = []Planet{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn}

// DegreesPerSign is the width of one zodiac sign on the ecliptic.
const DegreesPerSign = 30.0

// defaultSignDuration applies to bodies missing from signDurations.
const defaultSignDuration = 30.0

// signDurations holds the average number of days each body spends in one sign.
var signDurations = map[Planet]float64{
	Sun:     30,
	Moon:    2.5,
	Mercury: 17,
	Venus:   30,
	Mars:    57,
	Jupiter: 365,
	Saturn:  912,
}

// SignDuration returns the average days per sign for the body. Unknown
// bodies use 30 days.
func (p Planet) SignDuration() float64 {
	if d, ok := signDurations[p]; ok {
		return d
	}
	return defaultSignDuration
}

// PlanetState is one body's position.
type PlanetState struct {
	Sign         Sign    `json:"sign" yaml:"sign"`
	Degree       float64 `json:"degree" yaml:"degree"` // position within the sign, nominally [0, 30)
	IsRetrograde bool    `json:"is_retrograde" yaml:"is_retrograde"`
}

// PlanetarySnapshot maps each body to its position.
type PlanetarySnapshot map[Planet]PlanetState

// Names returns the bodies present in the snapshot, sorted for stable output.
func (ps PlanetarySnapshot) Names() []Planet {
	names := make([]Planet, 0, len(ps))
	for p := range ps {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Validate checks every position in the snapshot.
func (ps PlanetarySnapshot) Validate() error {
	if len(ps) == 0 {
		return errors.New("planetary snapshot must not be empty")
	}
	for _, p := range ps.Names() {
		state := ps[p]
		if !state.Sign.Valid() {
			return fmt.Errorf("%s: unknown sign %q", p, state.Sign)
		}
		if state.Degree < 0 {
			return fmt.Errorf("%s: degree must not be negative", p)
		}
	}
	return nil
}
