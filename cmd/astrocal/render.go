package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/rewired-gh/astrocal/internal/models"
)

// render writes v as JSON or YAML, or calls text for the human format.
func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

func writeSnapshot(w io.Writer, label string, snap *models.AstroSnapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", label, snap.Date.Format("Mon 2006-01-02"))
	if moon := snap.MoonPhase; moon != nil {
		fmt.Fprintf(tw, "Moon\t%s %s in %s (%.0f%% lit)\n", moon.PhaseEmoji, moon.Phase, moon.Sign, moon.Illumination*100)
	}
	fmt.Fprintf(tw, "Sun sign\t%s\n", snap.CurrentSign)

	title := cases.Title(language.English)
	for _, name := range snap.PlanetaryPositions.Names() {
		p := snap.PlanetaryPositions[name]
		retro := ""
		if p.IsRetrograde {
			retro = " R"
		}
		fmt.Fprintf(tw, "%s\t%s %.2f°%s\n", title.String(string(name)), p.Sign, p.Degree, retro)
	}

	h := snap.DailyHoroscope
	fmt.Fprintf(tw, "Horoscope\t%s\n", h.Prediction)
	fmt.Fprintf(tw, "Lucky\t%s, %d\n", h.LuckyColor, h.LuckyNumber)
	fmt.Fprintf(tw, "Mood\t%s\n", h.Mood)
	fmt.Fprintf(tw, "Compatible\t%s\n", h.Compatibility)
	return tw.Flush()
}

func writeCalendar(w io.Writer, calendar models.Calendar) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tMOON\tSUN\tEVENTS\tFORECAST")
	for _, day := range calendar {
		date := day.Date.Format("Mon 01-02")
		if day.IsToday {
			date += " *"
		}
		if !day.OK() || day.MoonPhase == nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%s\n", date, day.Forecast)
			continue
		}
		var events []string
		for _, ev := range day.KeyEvents {
			if ev.Type == models.EventMoonSign {
				continue
			}
			events = append(events, ev.Name)
		}
		eventText := "-"
		if len(events) > 0 {
			eventText = strings.Join(events, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s %s in %s\t%s\t%s\t%s\n", date,
			day.MoonPhase.PhaseEmoji, day.MoonPhase.Phase, day.MoonPhase.Sign,
			day.SunSign, eventText, day.Forecast)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed := calendar.Failed(); failed > 0 {
		_, err := fmt.Fprintf(w, "\n%d of %d days unavailable\n", failed, len(calendar))
		return err
	}
	return nil
}

// horizonReport is the structured output of the horizons command.
type horizonReport struct {
	Projections map[int]*models.AstroSnapshot `json:"projections" yaml:"projections"`
	Errors      map[int]string                `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func writeHorizons(w io.Writer, report horizonReport) error {
	offsets := make([]int, 0, len(report.Projections)+len(report.Errors))
	for d := range report.Projections {
		offsets = append(offsets, d)
	}
	for d := range report.Errors {
		offsets = append(offsets, d)
	}
	sort.Ints(offsets)

	for i, d := range offsets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		label := fmt.Sprintf("+%d days", d)
		if msg, failed := report.Errors[d]; failed {
			if _, err := fmt.Fprintf(w, "%s  unavailable: %s\n", label, msg); err != nil {
				return err
			}
			continue
		}
		if err := writeSnapshot(w, label, report.Projections[d]); err != nil {
			return err
		}
	}
	return nil
}
