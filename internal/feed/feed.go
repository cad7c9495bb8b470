// Package feed renders festivals and daily panchang windows as an
// iCalendar feed.
package feed

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// ProductID identifies the generator in PRODID.
const ProductID = "-//panchang-api//Panchang Calendar//EN"

// Options selects what goes into the feed.
type Options struct {
	Name      string // X-WR-CALNAME
	Place     string // LOCATION of window events
	Festivals []festival.Record
	Days      []*panchang.Snapshot

	// Muhurats adds the activity windows of each day. Only the auspicious
	// and inauspicious periods are included otherwise.
	Muhurats bool

	// Stamp is used for DTSTAMP; zero means time.Now.
	Stamp time.Time
}

// Build assembles the calendar.
func Build(opts Options) *ical.Calendar {
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	stamp = stamp.UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, r := range opts.Festivals {
		addFestival(cal, r, stamp)
	}
	for _, s := range opts.Days {
		if s == nil {
			continue
		}
		for _, key := range sortedKeys(s.Auspicious) {
			addWindow(cal, s, key, s.Auspicious[key], "Auspicious", opts.Place, stamp)
		}
		for _, key := range sortedKeys(s.Inauspicious) {
			addWindow(cal, s, key, s.Inauspicious[key], "Inauspicious", opts.Place, stamp)
		}
		if opts.Muhurats {
			for _, key := range panchang.MuhuratKeys() {
				if w := s.Muhurats[key]; w != nil {
					addWindow(cal, s, key, *w, "Muhurat", opts.Place, stamp)
				}
			}
		}
	}
	return cal
}

// Serialize renders the feed as text/calendar.
func Serialize(opts Options) string {
	return Build(opts).Serialize()
}

func addFestival(cal *ical.Calendar, r festival.Record, stamp time.Time) {
	day, err := r.Time()
	if err != nil {
		return
	}
	ev := cal.AddEvent(fmt.Sprintf("%s-%s@panchang-api", r.Date, slug(r.Name)))
	ev.SetDtStampTime(stamp)
	ev.SetAllDayStartAt(day)
	ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
	ev.SetSummary(r.Name)
	if r.Description != "" {
		ev.SetDescription(r.Description)
	}
	ev.AddProperty(ical.ComponentPropertyCategories, string(r.Type))
}

func addWindow(cal *ical.Calendar, s *panchang.Snapshot, key string, w panchang.Interval, category, place string, stamp time.Time) {
	ev := cal.AddEvent(fmt.Sprintf("%s-%s@panchang-api", s.Date, strings.ReplaceAll(key, "_", "-")))
	ev.SetDtStampTime(stamp)
	ev.SetStartAt(w.Start)
	ev.SetEndAt(w.End)
	ev.SetSummary(w.Name)
	ev.SetDescription(fmt.Sprintf("%s. Tithi: %s %s. Nakshatra: %s.", s.HinduDate, s.Tithi.Paksha, s.Tithi.Name, s.Nakshatra.Name))
	if place != "" {
		ev.SetLocation(place)
	}
	ev.AddProperty(ical.ComponentPropertyCategories, category)
}

func sortedKeys(m map[string]panchang.Interval) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := m[keys[i]], m[keys[j]]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return keys[i] < keys[j]
	})
	return keys
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
