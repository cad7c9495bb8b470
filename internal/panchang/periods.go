package panchang

import (
	"time"
)

// Keys of Snapshot.Auspicious.
const (
	BrahmaMuhurta  = "brahma_muhurta"
	AbhijitMuhurat = "abhijit_muhurat"
	GodhuliMuhurat = "godhuli_muhurat"
	AmritKaal      = "amrit_kaal"
)

// Keys of Snapshot.Inauspicious.
const (
	RahuKaal   = "rahu_kaal"
	Yamaganda  = "yamaganda"
	GulikaKaal = "gulika_kaal"
	DurMuhurat = "dur_muhurat"
	Varjyam    = "varjyam"
)

// AuspiciousPeriods derives the four auspicious windows of the day from
// sunrise and sunset.
//
// Amrit Kaal is placed dayOfYear%100 minutes after sunrise. That is a
// placeholder, not the nakshatra-based rule.
func AuspiciousPeriods(date, sunrise, sunset time.Time) map[string]Interval {
	day := sunset.Sub(sunrise)
	midday := sunrise.Add(day / 2)
	amrit := sunrise.Add(time.Duration(date.YearDay()%100) * time.Minute)

	return map[string]Interval{
		BrahmaMuhurta: {
			Name:  "Brahma Muhurta",
			Start: sunrise.Add(-48 * time.Minute),
			End:   sunrise,
		},
		AbhijitMuhurat: {
			Name:  "Abhijit Muhurat",
			Start: midday.Add(-24 * time.Minute),
			End:   midday.Add(24 * time.Minute),
		},
		GodhuliMuhurat: {
			Name:  "Godhuli Muhurat",
			Start: sunset,
			End:   sunset.Add(24 * time.Minute),
		},
		AmritKaal: {
			Name:  "Amrit Kaal",
			Start: amrit,
			End:   amrit.Add(90 * time.Minute),
		},
	}
}

// InauspiciousPeriods derives the five inauspicious windows of the day.
//
// Rahu Kaal, Yamaganda and Gulika Kaal each occupy one eighth of daylight
// chosen by weekday. Varjyam starts at a random point of the third quarter
// of daylight drawn from rnd and lasts 90 minutes.
func InauspiciousPeriods(date, sunrise, sunset time.Time, rnd RandomSource) map[string]Interval {
	if rnd == nil {
		rnd = globalRand{}
	}
	wd := date.Weekday()
	day := sunset.Sub(sunrise)
	portion := day / 8

	segment := func(name string, n int) Interval {
		start := sunrise.Add(time.Duration(n-1) * portion)
		return Interval{Name: name, Start: start, End: start.Add(portion)}
	}

	rule := durMuhuratRules[wd]
	durStart := sunrise.Add(time.Duration(rule.startHours) * time.Hour)

	varjyamStart := sunrise.Add(day/2 + time.Duration(rnd.Float64()*float64(day/4)))

	return map[string]Interval{
		RahuKaal:   segment("Rahu Kaal", rahuSegments[wd]),
		Yamaganda:  segment("Yamaganda", yamaSegments[wd]),
		GulikaKaal: segment("Gulika Kaal", gulikaSegments[wd]),
		DurMuhurat: {
			Name:  "Dur Muhurat",
			Start: durStart,
			End:   durStart.Add(time.Duration(rule.minutes) * time.Minute),
		},
		Varjyam: {
			Name:  "Varjyam",
			Start: varjyamStart,
			End:   varjyamStart.Add(90 * time.Minute),
		},
	}
}
