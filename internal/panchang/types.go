package panchang

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidInput is returned when the date or coordinates are out of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSunrise is returned when the sun does not rise or set on the
	// requested day at the requested location (polar day or night).
	ErrNoSunrise = errors.New("no sunrise or sunset on this date")
)

// Location is a point on Earth in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinates are finite and within range.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || math.IsInf(l.Latitude, 0) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidInput, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || math.IsInf(l.Longitude, 0) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidInput, l.Longitude)
	}
	return nil
}

// ValidateDate rejects the zero time and years the civil calendar formulas
// are not meant for.
func ValidateDate(date time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is not set", ErrInvalidInput)
	}
	if y := date.Year(); y < 1 || y > 9999 {
		return fmt.Errorf("%w: year %d outside [1, 9999]", ErrInvalidInput, y)
	}
	return nil
}

// Interval is a named time window.
type Interval struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the window.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Active reports whether now falls inside the window.
func (i Interval) Active(now time.Time) bool {
	return InRange(now, i.Start, i.End)
}

// Attribute is a named table entry together with the instant it stops
// being valid.
type Attribute struct {
	Index   int       `json:"index"`
	Name    string    `json:"name"`
	EndTime time.Time `json:"end_time"`
}

// Paksha is the half of the lunar month.
type Paksha string

const (
	PakshaShukla  Paksha = "Shukla"  // bright, waxing half
	PakshaKrishna Paksha = "Krishna" // dark, waning half
)

// Tithi is the lunar day.
type Tithi struct {
	Attribute
	Paksha Paksha `json:"paksha"`
}

// Vara is the weekday. It is valid for the whole civil day.
type Vara struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// MonthName is one entry of a lunar month table.
type MonthName struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// LunarMonth names the same lunar month in both conventions.
type LunarMonth struct {
	Amanta     MonthName `json:"amanta"`
	Purnimanta MonthName `json:"purnimanta"`
}

// Snapshot is the full panchang for one day at one location.
type Snapshot struct {
	Date      string     `json:"date"` // YYYY-MM-DD
	Location  Location   `json:"location"`
	Zone      string     `json:"zone"`
	HinduDate string     `json:"hindu_date"`
	Tithi     Tithi      `json:"tithi"`
	Nakshatra Attribute  `json:"nakshatra"`
	Yoga      Attribute  `json:"yoga"`
	Karana    Attribute  `json:"karana"`
	Vara      Vara       `json:"vara"`
	Month     LunarMonth `json:"month"`
	Sunrise   time.Time  `json:"sunrise"`
	Sunset    time.Time  `json:"sunset"`

	Auspicious   map[string]Interval  `json:"auspicious_periods"`
	Inauspicious map[string]Interval  `json:"inauspicious_periods"`
	Muhurats     map[string]*Interval `json:"shubh_muhurat"` // nil entry: unavailable today
}
