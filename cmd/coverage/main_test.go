package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// polarSun has no sunrise in December and a day that grows one minute
// per day of the year otherwise.
func polarSun(_, _ float64, y int, m time.Month, d int) (time.Time, time.Time) {
	if m == time.December {
		return time.Time{}, time.Time{}
	}
	rise := time.Date(y, m, d, 6, 0, 0, 0, time.UTC)
	yday := rise.YearDay()
	return rise, rise.Add(10*time.Hour + time.Duration(yday)*time.Minute)
}

func TestParseSite(t *testing.T) {
	got, err := parseSite("Tromso: 69.6492, 18.9553")
	if err != nil {
		t.Fatal(err)
	}
	want := Site{Name: "Tromso", Location: panchang.Location{Latitude: 69.6492, Longitude: 18.9553}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseSite() mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"Tromso", "Tromso:69.6", "Tromso:95,10", "Tromso:10,abc"} {
		if _, err := parseSite(bad); err == nil {
			t.Errorf("parseSite(%q) expected error", bad)
		}
	}
}

func TestCoverAll(t *testing.T) {
	sites := []Site{{Name: "Null Island"}}
	var out bytes.Buffer
	results, err := coverAll(sites, 2025, 2025, polarSun, &out, false)
	if err != nil {
		t.Fatalf("coverAll() error = %v", err)
	}
	if len(results) != 365 {
		t.Fatalf("results = %d, want 365", len(results))
	}

	analysis := analyzeResults(results)
	stats := analysis.BySite["Null Island"]
	if stats == nil {
		t.Fatal("missing site stats")
	}
	if stats.SuccessDays != 334 || stats.NoSunriseDays != 31 || stats.FailedDays != 0 {
		t.Errorf("stats = %d ok, %d no sunrise, %d failed", stats.SuccessDays, stats.NoSunriseDays, stats.FailedDays)
	}
	if stats.ShortestDay != "2025-01-01" || stats.ShortestLength != "10h01m" {
		t.Errorf("shortest = %s %s", stats.ShortestDay, stats.ShortestLength)
	}
	if stats.LongestDay != "2025-11-30" {
		t.Errorf("longest = %s", stats.LongestDay)
	}
	if stats.NoSunriseDates[0] != "2025-12-01" || stats.NoSunriseDates[30] != "2025-12-31" {
		t.Errorf("no sunrise dates = %s..%s", stats.NoSunriseDates[0], stats.NoSunriseDates[30])
	}

	var report bytes.Buffer
	printSummary(&report, analysis, sites)
	printFailures(&report, analysis)
	for _, want := range []string{
		"No sunrise:        31",
		"○ Null Island: 334/365 days",
		"no sunrise 2025-12-01 to 2025-12-31 (31 days)",
		"No failures!",
	} {
		if !strings.Contains(report.String(), want) {
			t.Errorf("report missing %q:\n%s", want, report.String())
		}
	}
}

func TestSaveResults(t *testing.T) {
	results := []DayResult{
		{Site: "A", Date: "2025-01-01", Success: true, DayLength: 12 * time.Hour, Tithi: "Shukla Pratipada"},
		{Site: "A", Date: "2025-01-02", Error: "invalid input"},
	}
	analysis := analyzeResults(results)
	if analysis.TotalFailed != 1 || len(analysis.AllFailures) != 1 {
		t.Fatalf("failures = %+v", analysis.AllFailures)
	}

	path := filepath.Join(t.TempDir(), "coverage.json")
	if err := saveResults(path, results, analysis); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Analysis struct {
			TotalDays int `json:"total_days"`
		} `json:"analysis"`
		Results []DayResult `json:"results"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Analysis.TotalDays != 2 || len(got.Results) != 2 {
		t.Errorf("saved %d days, %d results", got.Analysis.TotalDays, len(got.Results))
	}
}
