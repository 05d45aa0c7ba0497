package models

import "time"

// EventType classifies a KeyEvent.
type EventType string

const (
	EventMoonPhase  EventType = "moonPhase"
	EventMoonSign   EventType = "moonSign"
	EventSunSign    EventType = "sunSign"
	EventRetrograde EventType = "retrograde"
)

// KeyEvent is a notable occurrence on a calendar day. It is display data only.
type KeyEvent struct {
	Type        EventType `json:"type" yaml:"type"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Icon        string    `json:"icon" yaml:"icon"`
}

// CalendarDay is one projected day of a calendar.
//
// When the projection for the day failed, Err is set, MoonPhase is nil,
// KeyEvents is empty and Forecast reads "Data unavailable".
type CalendarDay struct {
	Date       time.Time    `json:"date" yaml:"date"`
	DayOfMonth int          `json:"day_of_month" yaml:"day_of_month"`
	Month      int          `json:"month" yaml:"month"`
	Year       int          `json:"year" yaml:"year"`
	DayOfWeek  time.Weekday `json:"day_of_week" yaml:"day_of_week"` // 0 = Sunday
	IsToday    bool         `json:"is_today" yaml:"is_today"`
	MoonPhase  *MoonState   `json:"moon_phase,omitempty" yaml:"moon_phase,omitempty"`
	SunSign    Sign         `json:"sun_sign,omitempty" yaml:"sun_sign,omitempty"`
	KeyEvents  []KeyEvent   `json:"key_events" yaml:"key_events"`
	Forecast   string       `json:"forecast" yaml:"forecast"`
	Error      string       `json:"error,omitempty" yaml:"error,omitempty"`

	Err error `json:"-" yaml:"-"`
}

// OK reports whether the day was projected successfully.
func (d *CalendarDay) OK() bool {
	return d.Err == nil
}

// Calendar is an ordered run of consecutive days.
type Calendar []CalendarDay

// Failed returns the number of days whose projection failed.
func (c Calendar) Failed() int {
	n := 0
	for i := range c {
		if !c[i].OK() {
			n++
		}
	}
	return n
}
