package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/panchang-api/internal/calendar"
	"github.com/zapponejosh/panchang-api/internal/feed"
	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// maxFeedDays bounds the ics span.
const maxFeedDays = 366

var icsCmd = &cobra.Command{
	Use:   "ics",
	Short: "Export festivals and daily windows as iCalendar",
	Long: `Writes an iCalendar file with the festivals and the auspicious and
inauspicious windows of every day from --start to --end (default: the next
30 days). Days without sunrise at the location are skipped.`,
	Args: cobra.NoArgs,
	RunE: runICS,
}

func init() {
	icsCmd.Flags().String("start", "", "first day, YYYY-MM-DD (default today)")
	icsCmd.Flags().String("end", "", "last day, YYYY-MM-DD (default start + 29 days)")
	icsCmd.Flags().Bool("muhurats", false, "include activity muhurats")
	icsCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(icsCmd)
}

func runICS(cmd *cobra.Command, args []string) error {
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	muhurats, _ := cmd.Flags().GetBool("muhurats")
	output, _ := cmd.Flags().GetString("output")

	loc, place, err := location()
	if err != nil {
		return err
	}
	zone := panchang.EstimateZone(loc)

	start := calendar.Midnight(time.Now().In(zone))
	if startStr != "" {
		if start, err = calendar.ParseDateString(startStr, zone); err != nil {
			return err
		}
	}
	end := start.AddDate(0, 0, 29)
	if endStr != "" {
		if end, err = calendar.ParseDateString(endStr, zone); err != nil {
			return err
		}
	}
	days, err := calendar.Days(start, end, maxFeedDays)
	if err != nil {
		return err
	}

	snaps := make([]*panchang.Snapshot, 0, len(days))
	for _, day := range days {
		snap, err := panchang.Calculate(day, loc)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", calendar.FormatDate(day), err)
			continue
		}
		snaps = append(snaps, snap)
	}

	records, err := festival.Load(festivalsPath())
	if err != nil {
		return err
	}

	body := feed.Serialize(feed.Options{
		Name:      "Panchang - " + place,
		Place:     place,
		Festivals: festival.NewCatalog(records).Range(start, end),
		Days:      snaps,
		Muhurats:  muhurats,
	})

	if output == "" {
		_, err = cmd.OutOrStdout().Write([]byte(body))
		return err
	}
	if err := os.WriteFile(output, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d days to %s\n", len(snaps), output)
	return nil
}
