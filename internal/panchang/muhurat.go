package panchang

import (
	"time"
)

// Keys of Snapshot.Muhurats.
const (
	MuhuratMarriage         = "marriage"
	MuhuratGrihaPravesh     = "griha_pravesh"
	MuhuratBusinessOpening  = "business_opening"
	MuhuratTravel           = "travel"
	MuhuratNameCeremony     = "name_ceremony"
	MuhuratVehiclePurchase  = "vehicle_purchase"
	MuhuratPropertyPurchase = "property_purchase"
	MuhuratMundanCeremony   = "mundan_ceremony"
)

// MuhuratLength is the length of every activity window.
const MuhuratLength = 90 * time.Minute

type muhuratRule struct {
	key        string
	name       string
	afterHours float64
}

// muhuratRules is also the display order.
var muhuratRules = []muhuratRule{
	{MuhuratMarriage, "Marriage Muhurat", 3},
	{MuhuratGrihaPravesh, "Griha Pravesh (House Entry)", 2.5},
	{MuhuratBusinessOpening, "Business Opening", 1},
	{MuhuratTravel, "Travel Muhurat", 8},
	{MuhuratNameCeremony, "Name Ceremony", 2.5},
	{MuhuratVehiclePurchase, "Vehicle Purchase", 4},
	{MuhuratPropertyPurchase, "Property Purchase", 1},
	{MuhuratMundanCeremony, "Mundan Ceremony", 2},
}

// MuhuratKeys returns the muhurat keys in display order.
func MuhuratKeys() []string {
	keys := make([]string, len(muhuratRules))
	for i, r := range muhuratRules {
		keys[i] = r.key
	}
	return keys
}

// MarriageAvailable reports whether the date allows a marriage muhurat: not
// on Saturdays and not on the 4th, 9th, 14th, 19th, 24th or 29th.
func MarriageAvailable(date time.Time) bool {
	return date.Weekday() != time.Saturday && date.Day()%5 != 4
}

// ShubhMuhurat returns the eight activity windows of the day. The marriage
// entry is nil when MarriageAvailable is false.
func ShubhMuhurat(date, sunrise time.Time) map[string]*Interval {
	out := make(map[string]*Interval, len(muhuratRules))
	for _, r := range muhuratRules {
		if r.key == MuhuratMarriage && !MarriageAvailable(date) {
			out[r.key] = nil
			continue
		}
		w := muhuratWindow(r.name, sunrise, r.afterHours)
		out[r.key] = &w
	}
	return out
}

func muhuratWindow(name string, sunrise time.Time, afterHours float64) Interval {
	start := addHours(sunrise, afterHours)
	return Interval{Name: name, Start: start, End: start.Add(MuhuratLength)}
}
