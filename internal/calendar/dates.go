// Package calendar holds civil date helpers shared by the API, the feed and
// the command line tools.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// DateLayout is the wire format for dates.
const DateLayout = "2006-01-02"

// ParseDateString parses a date string in YYYY-MM-DD format as midnight in
// loc. A nil loc means UTC.
func ParseDateString(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(dateStr), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// DayName returns the day of week name (Sunday, Monday, etc.)
func DayName(date time.Time) string {
	return date.Weekday().String()
}

// Midnight returns the start of the civil day of t in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Days returns every civil day from start to end inclusive, each at
// midnight in start's location. It fails when end is before start or the
// span is longer than maxDays (maxDays <= 0 disables the limit).
func Days(start, end time.Time, maxDays int) ([]time.Time, error) {
	start = Midnight(start)
	end = Midnight(end.In(start.Location()))
	if end.Before(start) {
		return nil, fmt.Errorf("end %s is before start %s", FormatDate(end), FormatDate(start))
	}

	span := DaysBetween(start, end) + 1
	if maxDays > 0 && span > maxDays {
		return nil, fmt.Errorf("range of %d days exceeds the limit of %d", span, maxDays)
	}

	opt := rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: start,
		Until:   end,
	}
	if maxDays > 0 {
		opt.Count = maxDays + 1
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build daily rule: %w", err)
	}

	days := r.All()
	if maxDays > 0 && len(days) > maxDays {
		return nil, fmt.Errorf("range exceeds the limit of %d days", maxDays)
	}
	return days, nil
}

// DaysBetween returns the number of civil days from the date of start to the
// date of end. Only the calendar dates count, so zone offsets and daylight
// saving do not shift the result.
func DaysBetween(start, end time.Time) int {
	return int(civilDay(end) - civilDay(start))
}

func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// ParseCoordinate parses a decimal degree value and checks it against
// [-limit, limit].
func ParseCoordinate(s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}
	if v != v || v < -limit || v > limit {
		return 0, fmt.Errorf("coordinate %v outside [-%v, %v]", v, limit, limit)
	}
	return v, nil
}
