package panchang

import (
	"sort"
	"time"
)

// InRange reports whether now lies in [start, end]. All three instants are
// truncated to the minute first, so a window ending at 10:30 is still active
// at 10:30:59. A window that crosses midnight needs no special handling as
// the instants are absolute.
func InRange(now, start, end time.Time) bool {
	n := now.Truncate(time.Minute)
	s := start.Truncate(time.Minute)
	e := end.Truncate(time.Minute)
	return !n.Before(s) && !n.After(e)
}

// Window kinds reported by ActiveWindows.
const (
	KindAuspicious   = "auspicious"
	KindInauspicious = "inauspicious"
	KindMuhurat      = "muhurat"
)

// ActiveWindow is a window of a snapshot that contains a given instant.
type ActiveWindow struct {
	Key  string `json:"key"`
	Kind string `json:"kind"`
	Interval
}

// ActiveWindows returns every window of s that contains now, ordered by
// start time and then key.
func ActiveWindows(s *Snapshot, now time.Time) []ActiveWindow {
	if s == nil {
		return nil
	}
	var out []ActiveWindow
	for k, w := range s.Auspicious {
		if w.Active(now) {
			out = append(out, ActiveWindow{Key: k, Kind: KindAuspicious, Interval: w})
		}
	}
	for k, w := range s.Inauspicious {
		if w.Active(now) {
			out = append(out, ActiveWindow{Key: k, Kind: KindInauspicious, Interval: w})
		}
	}
	for k, w := range s.Muhurats {
		if w != nil && w.Active(now) {
			out = append(out, ActiveWindow{Key: k, Kind: KindMuhurat, Interval: *w})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Key < out[j].Key
	})
	return out
}
