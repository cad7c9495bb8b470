package panchang

import (
	"math"
	"time"
)

const (
	// SynodicMonth is the mean length of a lunar month in days.
	SynodicMonth = 29.53

	// newMoonReference is the Julian day of the new moon of 2000-01-06.
	newMoonReference = 2451550.1
)

// JulianDayNumber returns the Julian Day Number of a proleptic Gregorian
// civil date.
func JulianDayNumber(year int, month time.Month, day int) int {
	a := (14 - int(month)) / 12
	y := year + 4800 - a
	m := int(month) + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// LunarAge returns the approximate age of the moon in days, in
// [0, SynodicMonth), for the civil date of the given time.
func LunarAge(date time.Time) float64 {
	y, m, d := date.Date()
	days := float64(JulianDayNumber(y, m, d)) - newMoonReference
	return math.Mod(math.Mod(days, SynodicMonth)+SynodicMonth, SynodicMonth)
}

// LunarLongitude rescales the lunar age onto 0-360 degrees.
func LunarLongitude(date time.Time) float64 {
	return LunarAge(date) / SynodicMonth * 360
}

// addHours adds a fractional number of hours as whole hours plus rounded
// minutes.
func addHours(t time.Time, hours float64) time.Time {
	whole := math.Floor(hours)
	minutes := math.Round((hours - whole) * 60)
	return t.Add(time.Duration(whole)*time.Hour + time.Duration(minutes)*time.Minute)
}
