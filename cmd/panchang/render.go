package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

var (
	colorTitle   = lipgloss.Color("#FFD700")
	colorGood    = lipgloss.Color("#00E676")
	colorBad     = lipgloss.Color("#FF5252")
	colorMuted   = lipgloss.Color("#8C8C8C")
	colorHeading = lipgloss.Color("#00BFFF")

	styleTitle   = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	styleHeading = lipgloss.NewStyle().Foreground(colorHeading).Bold(true).MarginTop(1)
	styleLabel   = lipgloss.NewStyle().Foreground(colorMuted).Width(16)
	styleWindow  = lipgloss.NewStyle().Width(30)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleGood    = lipgloss.NewStyle().Foreground(colorGood).Bold(true)
	styleBad     = lipgloss.NewStyle().Foreground(colorBad).Bold(true)
)

const activeMarker = "●"

// renderDay lays out one snapshot. Windows containing now are marked and
// show the time they have left.
func renderDay(s *panchang.Snapshot, place string, festivals []festival.Record, now time.Time) string {
	var b strings.Builder

	date, _ := time.Parse(time.DateOnly, s.Date)
	title := fmt.Sprintf("%s, %s", s.Vara.EnglishName, panchang.FormatDate(date))
	if place != "" {
		title += " · " + place
	}
	b.WriteString(styleTitle.Render(title) + "\n")
	b.WriteString(styleMuted.Render(s.HinduDate+" ("+s.Zone+")") + "\n")

	b.WriteString(styleHeading.Render("Panchang") + "\n")
	row(&b, "Tithi", fmt.Sprintf("%s %s", s.Tithi.Paksha, s.Tithi.Name), s.Tithi.EndTime)
	row(&b, "Nakshatra", s.Nakshatra.Name, s.Nakshatra.EndTime)
	row(&b, "Yoga", s.Yoga.Name, s.Yoga.EndTime)
	row(&b, "Karana", s.Karana.Name, s.Karana.EndTime)
	row(&b, "Vara", fmt.Sprintf("%s (%s)", s.Vara.Name, s.Vara.EnglishName), time.Time{})
	row(&b, "Month", fmt.Sprintf("%s / %s", s.Month.Amanta.Name, s.Month.Purnimanta.Name), time.Time{})
	row(&b, "Sunrise", panchang.FormatTime(s.Sunrise), time.Time{})
	row(&b, "Sunset", panchang.FormatTime(s.Sunset), time.Time{})

	b.WriteString(styleHeading.Render("Auspicious") + "\n")
	for _, w := range sortedWindows(s.Auspicious) {
		window(&b, w, styleGood, now)
	}

	b.WriteString(styleHeading.Render("Inauspicious") + "\n")
	for _, w := range sortedWindows(s.Inauspicious) {
		window(&b, w, styleBad, now)
	}

	b.WriteString(styleHeading.Render("Shubh Muhurat") + "\n")
	for _, key := range panchang.MuhuratKeys() {
		w := s.Muhurats[key]
		if w == nil {
			b.WriteString("  " + styleWindow.Render(key) + styleMuted.Render("not available today") + "\n")
			continue
		}
		window(&b, *w, styleGood, now)
	}

	if len(festivals) > 0 {
		b.WriteString(styleHeading.Render("Festivals") + "\n")
		for _, f := range festivals {
			b.WriteString(fmt.Sprintf("  %s %s\n", f.Name, styleMuted.Render("("+string(f.Type)+")")))
		}
	}
	return b.String()
}

func row(b *strings.Builder, label, value string, until time.Time) {
	line := "  " + styleLabel.Render(label) + value
	if !until.IsZero() {
		line += styleMuted.Render(" until " + panchang.FormatTime(until))
	}
	b.WriteString(line + "\n")
}

func window(b *strings.Builder, w panchang.Interval, active lipgloss.Style, now time.Time) {
	span := panchang.FormatInterval(&w)
	if !w.Active(now) {
		b.WriteString("  " + styleWindow.Render(w.Name) + span + "\n")
		return
	}
	left := humanize.RelTime(w.End, now, "ago", "left")
	b.WriteString(active.Render("  "+activeMarker+" ") + styleWindow.Render(w.Name) +
		active.Render(span) + styleMuted.Render(" ("+left+")") + "\n")
}

func sortedWindows(m map[string]panchang.Interval) []panchang.Interval {
	out := make([]panchang.Interval, 0, len(m))
	for _, w := range m {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// renderFestivals lists records one per line.
func renderFestivals(records []festival.Record) string {
	if len(records) == 0 {
		return styleMuted.Render("No festivals found.") + "\n"
	}
	var b strings.Builder
	for _, r := range records {
		t, _ := r.Time()
		style := styleGood
		if r.Type == festival.TypeVrat {
			style = styleTitle
		}
		fmt.Fprintf(&b, "%s  %s %s\n",
			styleLabel.Render(panchang.FormatDate(t)),
			style.Render(r.Name),
			styleMuted.Render("("+string(r.Type)+")"))
		if r.Description != "" {
			b.WriteString("                " + styleMuted.Render(r.Description) + "\n")
		}
	}
	return b.String()
}
