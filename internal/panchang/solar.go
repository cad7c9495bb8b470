package panchang

import (
	"fmt"
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// SunTimesFunc returns sunrise and sunset for a civil date and location as
// absolute instants. A zero time means the event does not happen that day.
type SunTimesFunc func(latitude, longitude float64, year int, month time.Month, day int) (rise, set time.Time)

// DefaultSunTimes is the solar-position function used when none is supplied.
func DefaultSunTimes(latitude, longitude float64, year int, month time.Month, day int) (time.Time, time.Time) {
	return sunrise.SunriseSunset(latitude, longitude, year, month, day)
}

// ZoneOffsetHours estimates the civil UTC offset of a location as
// round(longitude / 15), with Japan pinned to +9. Daylight saving and
// political boundaries are ignored.
func ZoneOffsetHours(loc Location) int {
	if loc.Longitude > 138 && loc.Longitude < 146 && loc.Latitude > 30 && loc.Latitude < 46 {
		return 9
	}
	return int(math.Round(loc.Longitude / 15))
}

// EstimateZone returns a fixed zone for the estimated offset of loc.
func EstimateZone(loc Location) *time.Location {
	offset := ZoneOffsetHours(loc)
	sign := "+"
	if offset < 0 {
		sign = "-"
	}
	name := fmt.Sprintf("UTC%s%02d:00", sign, absInt(offset))
	return time.FixedZone(name, offset*3600)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// SunriseSunset returns sunrise and sunset on the civil date of date,
// expressed in the estimated zone of loc. Both are placed on that civil date
// even when the zone estimate would push one across midnight. Near the poles
// that shifts one event by a whole day, so the day length can differ from the
// true interval and a sunset left before sunrise is reported as ErrNoSunrise.
func SunriseSunset(date time.Time, loc Location, fn SunTimesFunc) (rise, set time.Time, err error) {
	if fn == nil {
		fn = DefaultSunTimes
	}
	y, m, d := date.Date()
	r, s := fn(loc.Latitude, loc.Longitude, y, m, d)
	if r.IsZero() || s.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d at (%.4f, %.4f)",
			ErrNoSunrise, y, m, d, loc.Latitude, loc.Longitude)
	}

	zone := EstimateZone(loc)
	rise = onCivilDate(r.In(zone), y, m, d)
	set = onCivilDate(s.In(zone), y, m, d)

	if !set.After(rise) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: sunset %s is not after sunrise %s",
			ErrNoSunrise, set.Format("15:04"), rise.Format("15:04"))
	}
	return rise, set, nil
}

func onCivilDate(t time.Time, year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}
