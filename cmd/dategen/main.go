// Command dategen generates the recurring fast days of a year from the
// tithi of each civil day: both Ekadashis, Purnima and Amavasya of every
// lunar month. The output is a festival file that cmd/import and the API
// can load.
//
// Usage:
//
//	go run ./cmd/dategen -year 2026 -o data/vrats_2026.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zapponejosh/panchang-api/internal/calendar"
	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// vratTithis maps a tithi index to the fast observed on it.
var vratTithis = map[int]struct {
	name        string
	description string
}{
	10: {"Ekadashi Vrat", "Fast on the eleventh lunar day of the bright half"},
	14: {"Purnima Vrat", "Full moon fast"},
	25: {"Ekadashi Vrat", "Fast on the eleventh lunar day of the dark half"},
	29: {"Amavasya", "New moon; day for ancestral offerings"},
}

func main() {
	year := flag.Int("year", time.Now().Year(), "Year to generate fast days for")
	format := flag.String("format", "", "Output format: yaml or toml (default: from -o, else yaml)")
	outPath := flag.String("o", "", "Output file (default: stdout)")
	flag.Parse()

	if err := run(*year, *format, *outPath, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(year int, format, outPath string, stdout io.Writer) error {
	f, err := outputFormat(format, outPath)
	if err != nil {
		return err
	}

	records, err := generate(year)
	if err != nil {
		return err
	}

	data, err := festival.Marshal(records, f)
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Fprintf(stdout, "Wrote %d fast days for %d to %s\n", len(records), year, outPath)
	return nil
}

func outputFormat(format, outPath string) (festival.Format, error) {
	switch format {
	case "":
		if outPath == "" {
			return festival.FormatYAML, nil
		}
		return festival.FormatFromPath(outPath)
	case "yaml", "yml":
		return festival.FormatYAML, nil
	case "toml":
		return festival.FormatTOML, nil
	}
	return "", fmt.Errorf("unknown format %q (want yaml or toml)", format)
}

// generate walks every day of year. A fast falls on the first day whose
// tithi reaches its index, so a tithi skipped between two days is kept on
// the later day.
func generate(year int) ([]festival.Record, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("year %d out of range", year)
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days, err := calendar.Days(start, start.AddDate(1, 0, -1), 0)
	if err != nil {
		return nil, err
	}

	var records []festival.Record
	prev := panchang.CalculateTithi(start.AddDate(0, 0, -1)).Index
	for _, day := range days {
		tithi := panchang.CalculateTithi(day)
		if tithi.Index == prev {
			continue
		}
		month := panchang.CalculateMonth(day).Amanta.Name

		for i := prev + 1; ; i++ {
			index := i % panchang.TithiCount
			if v, ok := vratTithis[index]; ok {
				records = append(records, festival.Record{
					Date:        calendar.FormatDate(day),
					Name:        v.name,
					Type:        festival.TypeVrat,
					Description: fmt.Sprintf("%s (%s)", v.description, month),
				})
			}
			if index == tithi.Index {
				break
			}
		}
		prev = tithi.Index
	}
	return records, nil
}
