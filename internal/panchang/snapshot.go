package panchang

import (
	"fmt"
	"time"
)

type options struct {
	rand  RandomSource
	solar SunTimesFunc
}

// Option customizes Calculate.
type Option func(*options)

// WithRand sets the random source for the yoga end time and Varjyam.
func WithRand(r RandomSource) Option {
	return func(o *options) { o.rand = r }
}

// WithSolar replaces the solar-position function.
func WithSolar(fn SunTimesFunc) Option {
	return func(o *options) { o.solar = fn }
}

// Calculate computes the panchang for the civil date of date at loc.
//
// The civil date is read in the estimated zone of loc, and every instant in
// the result is expressed in that zone. The wall-clock part of date is the
// instant attribute end times are extrapolated from.
func Calculate(date time.Time, loc Location, opts ...Option) (*Snapshot, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	o := options{rand: globalRand{}, solar: DefaultSunTimes}
	for _, opt := range opts {
		opt(&o)
	}

	zone := EstimateZone(loc)
	local := date.In(zone)

	rise, set, err := SunriseSunset(local, loc, o.solar)
	if err != nil {
		return nil, fmt.Errorf("calculate panchang: %w", err)
	}

	s := &Snapshot{
		Date:      local.Format(time.DateOnly),
		Location:  loc,
		Zone:      zone.String(),
		Tithi:     CalculateTithi(local),
		Nakshatra: CalculateNakshatra(local),
		Yoga:      CalculateYoga(local, o.rand),
		Karana:    CalculateKarana(local),
		Vara:      CalculateVara(local),
		Month:     CalculateMonth(local),
		Sunrise:   rise,
		Sunset:    set,
	}
	s.Auspicious = AuspiciousPeriods(local, rise, set)
	s.Inauspicious = InauspiciousPeriods(local, rise, set, o.rand)
	s.Muhurats = ShubhMuhurat(local, rise)
	s.HinduDate = FormatHinduDate(local, s.Month, s.Tithi)
	return s, nil
}

// DateIn returns midnight of the given civil date in the estimated zone of
// loc.
func DateIn(year int, month time.Month, day int, loc Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, EstimateZone(loc))
}
