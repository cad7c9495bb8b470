package panchang

import (
	"math"
	"math/rand/v2"
	"time"
)

// RandomSource supplies uniformly distributed values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// nakshatraSpan is the width of one nakshatra in degrees (13°20′).
const nakshatraSpan = 360.0 / NakshatraCount

// moonDegreesPerDay is the mean daily motion used for nakshatra end times.
const moonDegreesPerDay = 13.2

// CalculateTithi returns the lunar day for the date. The end time is a
// linear extrapolation from the given instant.
func CalculateTithi(date time.Time) Tithi {
	age := LunarAge(date)
	index := int(math.Floor(age))

	paksha := PakshaShukla
	if index >= 15 {
		paksha = PakshaKrishna
	}

	return Tithi{
		Attribute: Attribute{
			Index:   index,
			Name:    tithiNames[index],
			EndTime: tithiEnd(date, age, index),
		},
		Paksha: paksha,
	}
}

func tithiEnd(date time.Time, age float64, index int) time.Time {
	hours := (float64(index+1) - age) * 24 / SynodicMonth
	return addHours(date, hours)
}

// CalculateNakshatra returns the lunar mansion for the date.
func CalculateNakshatra(date time.Time) Attribute {
	longitude := LunarLongitude(date)
	index := int(math.Floor(longitude/nakshatraSpan)) % NakshatraCount

	position := math.Mod(longitude, nakshatraSpan)
	days := (nakshatraSpan - position) / moonDegreesPerDay

	return Attribute{
		Index:   index,
		Name:    nakshatraNames[index],
		EndTime: addHours(date, days*24),
	}
}

// CalculateYoga returns the yoga for the date. The index is taken from the
// day of the year rather than the sum of solar and lunar longitudes, and the
// end time is 14 to 25 whole hours after the given instant, drawn from rnd.
func CalculateYoga(date time.Time, rnd RandomSource) Attribute {
	if rnd == nil {
		rnd = globalRand{}
	}
	index := date.YearDay() % YogaCount
	hours := 14 + math.Floor(rnd.Float64()*12)

	return Attribute{
		Index:   index,
		Name:    yogaNames[index],
		EndTime: date.Add(time.Duration(hours) * time.Hour),
	}
}

// KaranaIndex maps the overall half-tithi count of the month (0-59) onto the
// 11 karana names.
func KaranaIndex(overall int) int {
	if overall < 56 {
		return overall % 7
	}
	return 7 + (overall - 56)
}

// CalculateKarana returns the half lunar day for the date.
func CalculateKarana(date time.Time) Attribute {
	age := LunarAge(date)
	tithi := int(math.Floor(age))
	progress := age - float64(tithi)

	half := 0
	if progress >= 0.5 {
		half = 1
	}
	index := KaranaIndex(tithi*2 + half)

	var end time.Time
	if half == 0 {
		days := (0.5 - progress) * SynodicMonth / 30
		end = addHours(date, days*24)
	} else {
		end = tithiEnd(date, age, tithi)
	}

	return Attribute{
		Index:   index,
		Name:    karanaNames[index],
		EndTime: end,
	}
}

// CalculateVara returns the weekday of the date, Sunday being 0.
func CalculateVara(date time.Time) Vara {
	wd := date.Weekday()
	return Vara{
		Index:       int(wd),
		Name:        varaNames[wd],
		EnglishName: wd.String(),
	}
}

// CalculateMonth returns the lunar month pair for the date. The index is an
// offset of the Gregorian month, not a solar ingress calculation.
func CalculateMonth(date time.Time) LunarMonth {
	index := (int(date.Month()) - 1 + 10) % 12
	return LunarMonth{
		Amanta:     MonthName{Index: index, Name: amantaMonths[index]},
		Purnimanta: MonthName{Index: index, Name: purnimantaMonths[index]},
	}
}
