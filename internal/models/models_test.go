package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSignNext(t *testing.T) {
	tests := []struct {
		name string
		sign Sign
		want Sign
	}{
		{name: "aries to taurus", sign: Aries, want: Taurus},
		{name: "pisces wraps to aries", sign: Pisces, want: Aries},
		{name: "unknown falls back to aries", sign: Sign("Ophiuchus"), want: Aries},
		{name: "empty falls back to aries", sign: Sign(""), want: Aries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sign.Next(); got != tt.want {
				t.Errorf("Sign(%q).Next() = %q, want %q", tt.sign, got, tt.want)
			}
		})
	}
}

func TestSignAdvance(t *testing.T) {
	tests := []struct {
		name  string
		sign  Sign
		steps int
		want  Sign
	}{
		{name: "zero steps", sign: Leo, steps: 0, want: Leo},
		{name: "negative steps", sign: Leo, steps: -3, want: Leo},
		{name: "one step", sign: Gemini, steps: 1, want: Cancer},
		{name: "full cycle", sign: Virgo, steps: 12, want: Virgo},
		{name: "more than a cycle", sign: Capricorn, steps: 14, want: Pisces},
		{name: "unknown treated as aries", sign: Sign("nope"), steps: 2, want: Gemini},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sign.Advance(tt.steps); got != tt.want {
				t.Errorf("Sign(%q).Advance(%d) = %q, want %q", tt.sign, tt.steps, got, tt.want)
			}
		})
	}
}

func TestParseSignAndPhase(t *testing.T) {
	if s, ok := ParseSign("Scorpio"); !ok || s != Scorpio {
		t.Errorf("ParseSign(Scorpio) = %q, %v", s, ok)
	}
	if s, ok := ParseSign("Unknown"); ok || s != Aries {
		t.Errorf("ParseSign(Unknown) = %q, %v; want Aries, false", s, ok)
	}
	if p, ok := ParsePhase("Full Moon"); !ok || p != FullMoon {
		t.Errorf("ParsePhase(Full Moon) = %q, %v", p, ok)
	}
	if p, ok := ParsePhase("Blue Moon"); ok || p != NewMoon {
		t.Errorf("ParsePhase(Blue Moon) = %q, %v; want New Moon, false", p, ok)
	}
}

func TestPhaseCycle(t *testing.T) {
	p := NewMoon
	for i := 0; i < len(Phases); i++ {
		if p != Phases[i] {
			t.Fatalf("step %d: got %q, want %q", i, p, Phases[i])
		}
		p = p.Next()
	}
	if p != NewMoon {
		t.Errorf("after a full cycle got %q, want New Moon", p)
	}
	if got := Phase("bogus").Next(); got != NewMoon {
		t.Errorf("unknown phase Next() = %q, want New Moon", got)
	}
}

func TestPhaseAttributes(t *testing.T) {
	waxing := map[Phase]bool{NewMoon: true, WaxingCrescent: true, FirstQuarter: true, WaxingGibbous: true}
	cardinal := map[Phase]bool{NewMoon: true, FirstQuarter: true, FullMoon: true, LastQuarter: true}

	for _, p := range Phases {
		if p.Waxing() != waxing[p] {
			t.Errorf("%s: Waxing() = %v", p, p.Waxing())
		}
		if p.Cardinal() != cardinal[p] {
			t.Errorf("%s: Cardinal() = %v", p, p.Cardinal())
		}
		if p.Duration() < 3.69 || p.Duration() > 4.09 {
			t.Errorf("%s: Duration() = %v out of range", p, p.Duration())
		}
		if p.Emoji() == "" {
			t.Errorf("%s: empty emoji", p)
		}
	}

	if Phase("x").Duration() != defaultPhaseDuration {
		t.Errorf("unknown phase should use default duration")
	}
	if Phase("x").Emoji() != NewMoon.Emoji() {
		t.Errorf("unknown phase should render as a new moon")
	}
}

func TestCycleLength(t *testing.T) {
	if got := CycleLength(); math.Abs(got-31.12) > 1e-9 {
		t.Errorf("CycleLength() = %v, want 31.12", got)
	}
}

func TestPlanetSignDuration(t *testing.T) {
	tests := []struct {
		planet Planet
		want   float64
	}{
		{Sun, 30}, {Moon, 2.5}, {Mercury, 17}, {Venus, 30},
		{Mars, 57}, {Jupiter, 365}, {Saturn, 912}, {Planet("pluto"), 30},
	}
	for _, tt := range tests {
		if got := tt.planet.SignDuration(); got != tt.want {
			t.Errorf("%s.SignDuration() = %v, want %v", tt.planet, got, tt.want)
		}
	}
}

func TestMoonStateValidate(t *testing.T) {
	tests := []struct {
		name    string
		state   MoonState
		wantErr bool
	}{
		{
			name:    "valid state",
			state:   MoonState{Phase: FullMoon, Sign: Leo, Illumination: 0.99},
			wantErr: false,
		},
		{
			name:    "unknown phase",
			state:   MoonState{Phase: "Harvest", Sign: Leo, Illumination: 0.5},
			wantErr: true,
		},
		{
			name:    "unknown sign",
			state:   MoonState{Phase: NewMoon, Sign: "Unknown", Illumination: 0.5},
			wantErr: true,
		},
		{
			name:    "illumination above one",
			state:   MoonState{Phase: NewMoon, Sign: Leo, Illumination: 1.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("MoonState.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAstroSnapshotValidate(t *testing.T) {
	valid := func() AstroSnapshot {
		return AstroSnapshot{
			ID:   "snap-1",
			Date: time.Now(),
			MoonPhase: &MoonState{
				Phase:        WaxingCrescent,
				Sign:         Leo,
				Illumination: 0.35,
			},
			PlanetaryPositions: PlanetarySnapshot{
				Sun: {Sign: Pisces, Degree: 5.23},
			},
			CurrentSign: Pisces,
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *AstroSnapshot)
		wantErr bool
	}{
		{name: "valid snapshot", mutate: func(s *AstroSnapshot) {}, wantErr: false},
		{name: "empty ID", mutate: func(s *AstroSnapshot) { s.ID = "" }, wantErr: true},
		{name: "zero date", mutate: func(s *AstroSnapshot) { s.Date = time.Time{} }, wantErr: true},
		{name: "nil moon", mutate: func(s *AstroSnapshot) { s.MoonPhase = nil }, wantErr: true},
		{name: "no planets", mutate: func(s *AstroSnapshot) { s.PlanetaryPositions = nil }, wantErr: true},
		{
			name: "negative degree",
			mutate: func(s *AstroSnapshot) {
				s.PlanetaryPositions[Mars] = PlanetState{Sign: Aries, Degree: -1}
			},
			wantErr: true,
		},
		{name: "unknown current sign", mutate: func(s *AstroSnapshot) { s.CurrentSign = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("AstroSnapshot.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAstroSnapshotSunSign(t *testing.T) {
	s := &AstroSnapshot{
		PlanetaryPositions: PlanetarySnapshot{Sun: {Sign: Taurus}},
		CurrentSign:        Pisces,
	}
	if got := s.SunSign(); got != Taurus {
		t.Errorf("SunSign() = %q, want Taurus", got)
	}

	s.PlanetaryPositions = PlanetarySnapshot{Mars: {Sign: Aries}}
	if got := s.SunSign(); got != Pisces {
		t.Errorf("SunSign() without sun = %q, want Pisces", got)
	}
}

func TestAstroSnapshotComplete(t *testing.T) {
	var nilSnap *AstroSnapshot
	if nilSnap.Complete() {
		t.Error("nil snapshot should not be complete")
	}
	s := &AstroSnapshot{MoonPhase: &MoonState{}}
	if s.Complete() {
		t.Error("snapshot without planets should not be complete")
	}
	s.PlanetaryPositions = PlanetarySnapshot{Sun: {Sign: Aries}}
	if !s.Complete() {
		t.Error("snapshot with moon and planets should be complete")
	}
}

func TestCalendarFailed(t *testing.T) {
	cal := Calendar{
		{Forecast: "ok"},
		{Forecast: "Data unavailable", Err: errTest},
		{Forecast: "ok"},
	}
	if got := cal.Failed(); got != 1 {
		t.Errorf("Failed() = %d, want 1", got)
	}
	if !cal[0].OK() || cal[1].OK() {
		t.Error("OK() does not reflect Err")
	}
}

var errTest = errors.New("boom")
