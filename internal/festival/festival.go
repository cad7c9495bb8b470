// Package festival holds the festival and fast-day reference data: the
// record type, file parsing, in-memory queries and a file watcher.
package festival

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Type classifies a record.
type Type string

const (
	TypeFestival Type = "Festival"
	TypeVrat     Type = "Vrat" // fast day
)

// ParseType accepts either type name, case-insensitively.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "festival":
		return TypeFestival, nil
	case "vrat":
		return TypeVrat, nil
	}
	return "", fmt.Errorf("unknown festival type %q", s)
}

// Record is one festival or fast day.
type Record struct {
	Date        string `json:"date" yaml:"date" toml:"date"` // YYYY-MM-DD
	Name        string `json:"name" yaml:"name" toml:"name"`
	Type        Type   `json:"type" yaml:"type" toml:"type"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

// Time returns the record date at midnight UTC.
func (r Record) Time() (time.Time, error) {
	return time.Parse(time.DateOnly, r.Date)
}

// Validate checks the date, name and type of the record and normalizes the
// type spelling.
func (r *Record) Validate() error {
	var errs []error
	if _, err := r.Time(); err != nil {
		errs = append(errs, fmt.Errorf("date %q is not YYYY-MM-DD", r.Date))
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	t, err := ParseType(string(r.Type))
	if err != nil {
		errs = append(errs, err)
	} else {
		r.Type = t
	}
	return errors.Join(errs...)
}
