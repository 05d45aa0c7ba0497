// Package models defines the core domain entities for astrocal.
// These models describe moon and planetary state, projected snapshots and
// calendar days. Entities carry built-in validation in the same way across
// the application.
//
// Terminology:
//   - Snapshot: a complete description of moon and planetary state at one date.
//   - Projection: a snapshot advanced some number of days with the simplified
//     cyclic model in package projection.
package models

import (
	"errors"
	"fmt"
	"time"
)

// Horoscope is the display text derived from a sun sign and moon phase.
type Horoscope struct {
	Prediction    string `json:"prediction" yaml:"prediction"`
	LuckyColor    string `json:"lucky_color" yaml:"lucky_color"`
	LuckyNumber   int    `json:"lucky_number" yaml:"lucky_number"`
	Mood          string `json:"mood" yaml:"mood"`
	Compatibility Sign   `json:"compatibility" yaml:"compatibility"`
}

// AstroSnapshot is the complete moon and planetary state at one date.
// A snapshot returned from the projection cache is shared between callers
// and must be treated as read-only.
type AstroSnapshot struct {
	ID                 string            `json:"id" yaml:"id"`
	Date               time.Time         `json:"date" yaml:"date"`
	MoonPhase          *MoonState        `json:"moon_phase" yaml:"moon_phase"`
	PlanetaryPositions PlanetarySnapshot `json:"planetary_positions" yaml:"planetary_positions"`
	CurrentSign        Sign              `json:"current_sign" yaml:"current_sign"` // the sun's sign
	DailyHoroscope     Horoscope         `json:"daily_horoscope" yaml:"daily_horoscope"`
}

// Complete reports whether the snapshot carries both moon and planetary data.
func (s *AstroSnapshot) Complete() bool {
	return s != nil && s.MoonPhase != nil && len(s.PlanetaryPositions) > 0
}

// SunSign returns the sun's sign from the planetary positions, falling back
// to CurrentSign when the sun is absent.
func (s *AstroSnapshot) SunSign() Sign {
	if sun, ok := s.PlanetaryPositions[Sun]; ok && sun.Sign != "" {
		return sun.Sign
	}
	return s.CurrentSign
}

// Validate checks that all snapshot fields are valid
func (s *AstroSnapshot) Validate() error {
	if s.ID == "" {
		return errors.New("snapshot ID must not be empty")
	}
	if s.Date.IsZero() {
		return errors.New("snapshot date must be set")
	}
	if s.MoonPhase == nil {
		return errors.New("moon phase must not be nil")
	}
	if err := s.MoonPhase.Validate(); err != nil {
		return fmt.Errorf("invalid moon phase: %w", err)
	}
	if err := s.PlanetaryPositions.Validate(); err != nil {
		return fmt.Errorf("invalid planetary positions: %w", err)
	}
	if !s.CurrentSign.Valid() {
		return fmt.Errorf("unknown current sign %q", s.CurrentSign)
	}
	return nil
}
