package festival

import (
	"sort"
	"time"
)

// Catalog is an immutable, date-ordered set of records.
type Catalog struct {
	records []Record
}

// NewCatalog copies and sorts records by date, then name.
func NewCatalog(records []Record) *Catalog {
	rs := make([]Record, len(records))
	copy(rs, records)
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Date != rs[j].Date {
			return rs[i].Date < rs[j].Date
		}
		return rs[i].Name < rs[j].Name
	})
	return &Catalog{records: rs}
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// All returns every record in date order.
func (c *Catalog) All() []Record {
	return c.filter(func(Record) bool { return true })
}

// ByDate returns the records on an exact YYYY-MM-DD date.
func (c *Catalog) ByDate(date string) []Record {
	return c.filter(func(r Record) bool { return r.Date == date })
}

// ByMonth returns the records in month (1-12). A year of 0 matches any year.
func (c *Catalog) ByMonth(year int, month time.Month) []Record {
	return c.filter(func(r Record) bool {
		t, err := r.Time()
		if err != nil {
			return false
		}
		return t.Month() == month && (year == 0 || t.Year() == year)
	})
}

// Range returns the records whose date falls in [start, end], compared as
// civil dates.
func (c *Catalog) Range(start, end time.Time) []Record {
	from, to := start.Format(time.DateOnly), end.Format(time.DateOnly)
	return c.filter(func(r Record) bool { return r.Date >= from && r.Date <= to })
}

// Upcoming returns the records from the civil date of today through the
// following days days.
func (c *Catalog) Upcoming(today time.Time, days int) []Record {
	return c.Range(today, today.AddDate(0, 0, days))
}

func (c *Catalog) filter(keep func(Record) bool) []Record {
	out := []Record{}
	for _, r := range c.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
