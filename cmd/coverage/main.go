// Command coverage calculates the panchang for every day of a span of years
// at one or more locations and reports which days could be computed. Days
// without a sunrise or sunset (polar day and night) are counted separately
// from real failures.
//
// Usage:
//
//	go run ./cmd/coverage -start 2025 -years 2 -loc "Delhi:28.6139,77.2090" -loc "Tromso:69.6492,18.9553"
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/zapponejosh/panchang-api/internal/calendar"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// Site is a named location to cover.
type Site struct {
	Name     string            `json:"name"`
	Location panchang.Location `json:"location"`
}

// DayResult holds the result for a single date at one site
type DayResult struct {
	Site      string        `json:"site"`
	Date      string        `json:"date"`
	Success   bool          `json:"success"`
	NoSunrise bool          `json:"no_sunrise,omitempty"`
	DayLength time.Duration `json:"day_length,omitempty"`
	Tithi     string        `json:"tithi,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// SiteStats tracks statistics for each site
type SiteStats struct {
	Site           string   `json:"site"`
	TotalDays      int      `json:"total_days"`
	SuccessDays    int      `json:"success_days"`
	NoSunriseDays  int      `json:"no_sunrise_days"`
	FailedDays     int      `json:"failed_days"`
	ShortestDay    string   `json:"shortest_day,omitempty"`
	ShortestLength string   `json:"shortest_length,omitempty"`
	LongestDay     string   `json:"longest_day,omitempty"`
	LongestLength  string   `json:"longest_length,omitempty"`
	NoSunriseDates []string `json:"no_sunrise_dates,omitempty"`

	shortest, longest time.Duration
}

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays      int                   `json:"total_days"`
	TotalSuccess   int                   `json:"total_success"`
	TotalNoSunrise int                   `json:"total_no_sunrise"`
	TotalFailed    int                   `json:"total_failed"`
	BySite         map[string]*SiteStats `json:"by_site"`
	AllFailures    []DayResult           `json:"failures,omitempty"`
}

// siteFlag collects repeated -loc values.
type siteFlag []Site

func (s *siteFlag) String() string {
	names := make([]string, len(*s))
	for i, site := range *s {
		names[i] = site.Name
	}
	return strings.Join(names, ",")
}

func (s *siteFlag) Set(v string) error {
	site, err := parseSite(v)
	if err != nil {
		return err
	}
	*s = append(*s, site)
	return nil
}

// parseSite reads "Name:lat,lon".
func parseSite(v string) (Site, error) {
	name, coords, ok := strings.Cut(v, ":")
	if !ok {
		return Site{}, fmt.Errorf("location %q must be Name:lat,lon", v)
	}
	latStr, lonStr, ok := strings.Cut(coords, ",")
	if !ok {
		return Site{}, fmt.Errorf("location %q must be Name:lat,lon", v)
	}
	lat, err := calendar.ParseCoordinate(latStr, 90)
	if err != nil {
		return Site{}, fmt.Errorf("location %q: %w", v, err)
	}
	lon, err := calendar.ParseCoordinate(lonStr, 180)
	if err != nil {
		return Site{}, fmt.Errorf("location %q: %w", v, err)
	}
	return Site{Name: strings.TrimSpace(name), Location: panchang.Location{Latitude: lat, Longitude: lon}}, nil
}

var defaultSites = []Site{
	{Name: "New Delhi", Location: panchang.Location{Latitude: 28.6139, Longitude: 77.2090}},
	{Name: "Singapore", Location: panchang.Location{Latitude: 1.3521, Longitude: 103.8198}},
	{Name: "London", Location: panchang.Location{Latitude: 51.5074, Longitude: -0.1278}},
	{Name: "Tromso", Location: panchang.Location{Latitude: 69.6492, Longitude: 18.9553}},
}

func main() {
	var sites siteFlag
	startYear := flag.Int("start", time.Now().Year(), "Start year")
	years := flag.Int("years", 1, "Number of years to cover")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Var(&sites, "loc", "Location as Name:lat,lon (repeatable; default: a built-in set)")
	flag.Parse()

	if len(sites) == 0 {
		sites = defaultSites
	}
	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Panchang - Full Coverage Report")
	fmt.Println("================================================================")
	fmt.Printf("Locations:   %s\n", sites.String())
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	results, err := coverAll(sites, *startYear, endYear, nil, os.Stdout, *verbose)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	analysis := analyzeResults(results)
	printSummary(os.Stdout, analysis, sites)
	printFailures(os.Stdout, analysis)

	if *outputFile != "" {
		if err := saveResults(*outputFile, results, analysis); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Results saved to %s\n", *outputFile)
	}

	// Days without sunrise are expected at high latitudes.
	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

// coverAll calculates every day from startYear through endYear at each
// site. A nil solar uses the default sunrise model.
func coverAll(sites []Site, startYear, endYear int, solar panchang.SunTimesFunc, out io.Writer, verbose bool) ([]DayResult, error) {
	var opts []panchang.Option
	if solar != nil {
		opts = append(opts, panchang.WithSolar(solar))
	}

	var results []DayResult
	for _, site := range sites {
		zone := panchang.EstimateZone(site.Location)
		start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, zone)
		end := time.Date(endYear, time.December, 31, 0, 0, 0, 0, zone)
		days, err := calendar.Days(start, end, 0)
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(out, "Covering %d days at %s (%s)...\n", len(days), site.Name, zone)
		for _, day := range days {
			r := coverDay(site, day, opts)
			results = append(results, r)

			if verbose {
				status := "✓"
				switch {
				case r.NoSunrise:
					status = "○"
				case !r.Success:
					status = "✗"
				}
				fmt.Fprintf(out, "  %s %s: %s %s\n", status, r.Date, r.Tithi, formatLength(r.DayLength))
				if r.Error != "" {
					fmt.Fprintf(out, "      %s\n", r.Error)
				}
			}
		}
	}
	fmt.Fprintln(out)
	return results, nil
}

func coverDay(site Site, day time.Time, opts []panchang.Option) DayResult {
	result := DayResult{Site: site.Name, Date: calendar.FormatDate(day)}

	s, err := panchang.Calculate(day, site.Location, opts...)
	if err != nil {
		result.NoSunrise = errors.Is(err, panchang.ErrNoSunrise)
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.DayLength = s.Sunset.Sub(s.Sunrise)
	result.Tithi = fmt.Sprintf("%s %s", s.Tithi.Paksha, s.Tithi.Name)
	return result
}

func analyzeResults(results []DayResult) *Analysis {
	analysis := &Analysis{BySite: make(map[string]*SiteStats)}

	for _, r := range results {
		analysis.TotalDays++

		stats, ok := analysis.BySite[r.Site]
		if !ok {
			stats = &SiteStats{Site: r.Site}
			analysis.BySite[r.Site] = stats
		}
		stats.TotalDays++

		switch {
		case r.Success:
			analysis.TotalSuccess++
			stats.SuccessDays++
			if stats.ShortestDay == "" || r.DayLength < stats.shortest {
				stats.shortest, stats.ShortestDay = r.DayLength, r.Date
			}
			if stats.LongestDay == "" || r.DayLength > stats.longest {
				stats.longest, stats.LongestDay = r.DayLength, r.Date
			}
		case r.NoSunrise:
			analysis.TotalNoSunrise++
			stats.NoSunriseDays++
			stats.NoSunriseDates = append(stats.NoSunriseDates, r.Date)
		default:
			analysis.TotalFailed++
			stats.FailedDays++
			analysis.AllFailures = append(analysis.AllFailures, r)
		}
	}

	for _, stats := range analysis.BySite {
		if stats.ShortestDay != "" {
			stats.ShortestLength = formatLength(stats.shortest)
			stats.LongestLength = formatLength(stats.longest)
		}
	}
	return analysis
}

func formatLength(d time.Duration) string {
	if d == 0 {
		return ""
	}
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func printSummary(out io.Writer, analysis *Analysis, sites []Site) {
	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "SUMMARY")
	fmt.Fprintln(out, "================================================================")
	fmt.Fprintf(out, "Total Days:        %d\n", analysis.TotalDays)
	fmt.Fprintf(out, "Calculated:        %d (%.1f%%)\n", analysis.TotalSuccess, percent(analysis.TotalSuccess, analysis.TotalDays))
	fmt.Fprintf(out, "No sunrise:        %d (%.1f%%)\n", analysis.TotalNoSunrise, percent(analysis.TotalNoSunrise, analysis.TotalDays))
	fmt.Fprintf(out, "Failed:            %d (%.1f%%)\n", analysis.TotalFailed, percent(analysis.TotalFailed, analysis.TotalDays))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "By Location:")
	for _, site := range sites {
		stats, ok := analysis.BySite[site.Name]
		if !ok {
			continue
		}
		status := "✓"
		if stats.FailedDays > 0 {
			status = "✗"
		} else if stats.NoSunriseDays > 0 {
			status = "○"
		}
		fmt.Fprintf(out, "  %s %s: %d/%d days (%.1f%%)\n", status, stats.Site,
			stats.SuccessDays, stats.TotalDays, percent(stats.SuccessDays, stats.TotalDays))
		if stats.ShortestDay != "" {
			fmt.Fprintf(out, "      shortest %s (%s), longest %s (%s)\n",
				stats.ShortestLength, stats.ShortestDay, stats.LongestLength, stats.LongestDay)
		}
		if n := len(stats.NoSunriseDates); n > 0 {
			fmt.Fprintf(out, "      no sunrise %s to %s (%d days)\n",
				stats.NoSunriseDates[0], stats.NoSunriseDates[n-1], n)
		}
	}
	fmt.Fprintln(out)
}

func printFailures(out io.Writer, analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Fprintln(out, "No failures!")
		return
	}

	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "FAILURES")
	fmt.Fprintln(out, "================================================================")

	failures := append([]DayResult(nil), analysis.AllFailures...)
	sort.Slice(failures, func(i, j int) bool {
		if failures[i].Site != failures[j].Site {
			return failures[i].Site < failures[j].Site
		}
		return failures[i].Date < failures[j].Date
	})
	for _, f := range failures {
		fmt.Fprintf(out, "  %s %s: %s\n", f.Site, f.Date, f.Error)
	}
	fmt.Fprintln(out)
}

func saveResults(path string, results []DayResult, analysis *Analysis) error {
	output := struct {
		Generated string      `json:"generated"`
		Analysis  *Analysis   `json:"analysis"`
		Results   []DayResult `json:"results"`
	}{
		Generated: time.Now().Format(time.RFC3339),
		Analysis:  analysis,
		Results:   results,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
