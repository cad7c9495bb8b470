// Command apitest runs a smoke test suite against a running Panchang API.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -geocode
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/panchang-api/internal/api"
	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/geocode"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// HealthResponse is the data of /health
type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	geocode      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, out io.Writer, verbose, geocode bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		out:     out,
		verbose: verbose,
		geocode: geocode,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Panchang API Test Suite")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	// Run test groups
	tr.testHealth()
	tr.testToday()
	tr.testSpecificDates()
	tr.testDateRange()
	tr.testNow()
	tr.testFestivals()
	tr.testLocation()
	tr.testCalendarFeed()
	tr.testEdgeCases()
	if tr.geocode {
		tr.testGeocode()
	}

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", nil, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today's Panchang")

	var data api.PanchangResponse
	if err := tr.getData("/api/v1/panchang/today", nil, &data); err != nil {
		tr.recordError("Today (default)", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today (%s, %s): %s",
		data.Location.Name, data.Location.Source, data.Panchang.HinduDate))
	tr.printSnapshotDetail(data.Panchang)

	// Explicit coordinates
	if err := tr.getData("/api/v1/panchang/today?lat=35.6762&lon=139.6503&name=Tokyo", nil, &data); err != nil {
		tr.recordError("Today (Tokyo)", err.Error())
		return
	}
	if data.Location.Source == api.SourceQuery && data.Panchang.Zone == "UTC+09:00" {
		tr.recordSuccess("Today with lat/lon uses the estimated zone UTC+09:00")
	} else {
		tr.recordError("Today (Tokyo)", fmt.Sprintf("source %q zone %q", data.Location.Source, data.Panchang.Zone))
	}
}

func (tr *TestRunner) testSpecificDates() {
	tr.printSection("Specific Date Tests")

	tests := []struct {
		date     string
		vara     string
		festival string
	}{
		{"2025-03-14", "Friday", "Gangaur"},
		{"2025-08-18", "Monday", "Raksha Bandhan"},
		{"2025-10-03", "Friday", "Navratri Begins"},
		{"2025-12-25", "Thursday", "Gita Jayanti"},
		{"2025-12-26", "Friday", ""},
	}

	for _, tc := range tests {
		var data api.PanchangResponse
		if err := tr.getData("/api/v1/panchang/date/"+tc.date, nil, &data); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if data.Panchang.Vara.EnglishName != tc.vara {
			tr.recordError(tc.date, fmt.Sprintf("Expected vara '%s', got '%s'", tc.vara, data.Panchang.Vara.EnglishName))
			continue
		}
		if tc.festival != "" && !hasFestival(data.Festivals, tc.festival) {
			tr.recordError(tc.date, fmt.Sprintf("Expected festival '%s'", tc.festival))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %s, %s %s", tc.date, data.Panchang.Vara.Name,
			data.Panchang.Tithi.Paksha, data.Panchang.Tithi.Name))
		tr.printSnapshotDetail(data.Panchang)
	}
}

func (tr *TestRunner) testDateRange() {
	tr.printSection("Date Range Tests")

	var data api.RangeResponse
	if err := tr.getData("/api/v1/panchang/range?start=2025-12-21&end=2025-12-27", nil, &data); err != nil {
		tr.recordError("Range (week)", err.Error())
	} else if len(data.Days) == 7 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days", len(data.Days)))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d", len(data.Days)))
	}

	tr.expectStatus("Range limit", "/api/v1/panchang/range?start=2025-01-01&end=2025-12-31", http.StatusBadRequest)
	tr.expectStatus("Invalid range", "/api/v1/panchang/range?start=2025-12-31&end=2025-01-01", http.StatusBadRequest)
}

func (tr *TestRunner) testNow() {
	tr.printSection("Active Windows")

	var data api.NowResponse
	if err := tr.getData("/api/v1/panchang/now", nil, &data); err != nil {
		tr.recordError("Now", err.Error())
		return
	}
	for _, w := range data.Active {
		if !w.Active(data.Now) {
			tr.recordError("Now", fmt.Sprintf("%s does not contain %s", w.Key, data.Now.Format(time.RFC3339)))
			return
		}
	}
	tr.recordSuccess(fmt.Sprintf("%d window(s) active at %s", len(data.Active), panchang.FormatTime(data.Now)))
	if tr.verbose {
		for _, w := range data.Active {
			fmt.Fprintf(tr.out, "    %s (%s): %s\n", w.Name, w.Kind, panchang.FormatInterval(&w.Interval))
		}
	}
}

func (tr *TestRunner) testFestivals() {
	tr.printSection("Festivals")

	var all []database.Festival
	if err := tr.getData("/api/v1/festivals", nil, &all); err != nil {
		tr.recordError("Festivals (all)", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("%d festivals stored", len(all)))
	}

	var november []database.Festival
	if err := tr.getData("/api/v1/festivals?month=11", nil, &november); err != nil {
		tr.recordError("Festivals (November)", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("November: %d festival(s)", len(november)))
	}

	var upcoming api.UpcomingResponse
	if err := tr.getData("/api/v1/festivals/upcoming?from=2025-10-01&days=30", nil, &upcoming); err != nil {
		tr.recordError("Festivals (upcoming)", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("Upcoming %s to %s: %d festival(s)", upcoming.From, upcoming.To, len(upcoming.Festivals)))
	}

	tr.expectStatus("Festival month", "/api/v1/festivals?month=13", http.StatusBadRequest)
}

func (tr *TestRunner) testLocation() {
	tr.printSection("Saved Location")

	clientID := fmt.Sprintf("apitest-%d", time.Now().UnixNano())
	body := map[string]any{"latitude": 19.076, "longitude": 72.8777, "name": "Mumbai"}
	header := http.Header{api.ClientIDHeader: []string{clientID}}

	var saved api.LocationResponse
	if err := tr.doData(http.MethodPut, "/api/v1/location", header, body, &saved); err != nil {
		tr.recordError("Save location", err.Error())
		return
	}
	tr.recordSuccess("Saved Mumbai for " + clientID)

	var today api.PanchangResponse
	if err := tr.getData("/api/v1/panchang/today", header, &today); err != nil {
		tr.recordError("Restore location", err.Error())
		return
	}
	if today.Location.Source == api.SourceSaved && today.Location.Name == "Mumbai" {
		tr.recordSuccess("Saved location restored on the next request")
	} else {
		tr.recordError("Restore location", fmt.Sprintf("got %+v", today.Location))
	}
}

func (tr *TestRunner) testCalendarFeed() {
	tr.printSection("Calendar Feed")

	resp, err := tr.client.Get(tr.baseURL + "/api/v1/calendar.ics?start=2025-10-01&end=2025-10-07")
	if err != nil {
		tr.recordError("Feed", err.Error())
		return
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar") {
		tr.recordError("Feed", fmt.Sprintf("HTTP %d, %s", resp.StatusCode, resp.Header.Get("Content-Type")))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Feed has %d events", strings.Count(string(data), "BEGIN:VEVENT")))
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tr.expectStatus("Invalid date", "/api/v1/panchang/date/invalid", http.StatusBadRequest)
	tr.expectStatus("Bad latitude", "/api/v1/panchang/today?lat=95&lon=0", http.StatusBadRequest)
	tr.expectStatus("Missing longitude", "/api/v1/panchang/today?lat=10", http.StatusBadRequest)
	tr.expectStatus("Unknown route", "/api/v1/nope", http.StatusNotFound)
}

func (tr *TestRunner) testGeocode() {
	tr.printSection("Geocoding")

	var places []geocode.Place
	if err := tr.getData("/api/v1/geocode/search?q=Varanasi", nil, &places); err != nil {
		tr.recordError("Search", err.Error())
	} else if len(places) > 0 {
		tr.recordSuccess(fmt.Sprintf("Search: %s (%.4f, %.4f)", places[0].Name, places[0].Latitude, places[0].Longitude))
	}

	var place geocode.Place
	if err := tr.getData("/api/v1/geocode/reverse?lat=25.3176&lon=82.9739", nil, &place); err != nil {
		tr.recordError("Reverse", err.Error())
	} else {
		tr.recordSuccess("Reverse: " + place.Name)
	}
}

// =============================================================================
// Helpers
// =============================================================================

func hasFestival(fs []database.Festival, name string) bool {
	for _, f := range fs {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (tr *TestRunner) getData(path string, header http.Header, target any) error {
	return tr.doData(http.MethodGet, path, header, nil, target)
}

// doData sends a request and decodes the data of a successful envelope
// into target.
func (tr *TestRunner) doData(method, path string, header http.Header, body, target any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, tr.baseURL+path, reader)
	if err != nil {
		return err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tr.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *api.ErrorInfo  `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if !envelope.Success {
		errMsg := "unknown error"
		if envelope.Error != nil {
			errMsg = envelope.Error.Message
		}
		return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, errMsg)
	}
	return json.Unmarshal(envelope.Data, target)
}

func (tr *TestRunner) expectStatus(name, path string, status int) {
	resp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		tr.recordError(name, err.Error())
		return
	}
	resp.Body.Close()
	if resp.StatusCode == status {
		tr.recordSuccess(fmt.Sprintf("%s rejected with %d", name, status))
	} else {
		tr.recordError(name, fmt.Sprintf("Expected HTTP %d, got %d", status, resp.StatusCode))
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintln(tr.out)
	fmt.Fprintf(tr.out, "--- %s ---\n", name)
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) printSnapshotDetail(s *panchang.Snapshot) {
	if !tr.verbose || s == nil {
		return
	}
	fmt.Fprintf(tr.out, "    Nakshatra: %s, Yoga: %s, Karana: %s\n", s.Nakshatra.Name, s.Yoga.Name, s.Karana.Name)
	fmt.Fprintf(tr.out, "    Sunrise %s, Sunset %s\n", panchang.FormatTime(s.Sunrise), panchang.FormatTime(s.Sunset))
	rahu := s.Inauspicious[panchang.RahuKaal]
	fmt.Fprintf(tr.out, "    Rahu Kaal: %s\n", panchang.FormatInterval(&rahu))
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Summary")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)
	fmt.Fprintln(tr.out)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "Failures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintln(tr.out)
	}

	if tr.errorCount == 0 {
		fmt.Fprintln(tr.out, "All tests passed! ✓")
	} else {
		fmt.Fprintf(tr.out, "Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show panchang details)")
	withGeocode := flag.Bool("geocode", false, "Also test place search (calls the upstream geocoder)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, os.Stdout, *verbose, *withGeocode)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
