package panchang

import (
	"fmt"
	"math"
	"time"
)

// SakaOffset converts a Gregorian year into the displayed Hindu year.
const SakaOffset = 78.65

// FormatHinduDate renders e.g. "Shravana Krishna Navami, 2103".
func FormatHinduDate(date time.Time, month LunarMonth, tithi Tithi) string {
	year := int(math.Floor(float64(date.Year()) + SakaOffset))
	return fmt.Sprintf("%s %s %s, %d", month.Amanta.Name, tithi.Paksha, tithi.Name, year)
}

// FormatTime renders t as "3:04 PM", or "N/A" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("3:04 PM")
}

// FormatDate renders t as "Jan 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatInterval renders a window as "5:12 AM - 6:42 AM", or "N/A" for nil.
func FormatInterval(i *Interval) string {
	if i == nil {
		return "N/A"
	}
	return FormatTime(i.Start) + " - " + FormatTime(i.End)
}
