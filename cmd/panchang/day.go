package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/panchang-api/internal/calendar"
	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's panchang",
	Long: `Shows today's panchang in the location's estimated time zone. Windows
that are open right now are highlighted with the time they have left.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showDay(cmd, time.Now(), time.Now())
	},
}

var dateCmd = &cobra.Command{
	Use:   "date YYYY-MM-DD",
	Short: "Show the panchang of a date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, _, err := location()
		if err != nil {
			return err
		}
		day, err := calendar.ParseDateString(args[0], panchang.EstimateZone(loc))
		if err != nil {
			return err
		}
		return showDay(cmd, day, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(dateCmd)
}

// dayOutput is the --json shape of today and date.
type dayOutput struct {
	Place     string                  `json:"place,omitempty"`
	Panchang  *panchang.Snapshot      `json:"panchang"`
	Festivals []festival.Record       `json:"festivals"`
	Active    []panchang.ActiveWindow `json:"active,omitempty"`
}

func showDay(cmd *cobra.Command, day, now time.Time) error {
	loc, place, err := location()
	if err != nil {
		return err
	}
	snap, err := panchang.Calculate(day, loc)
	if err != nil {
		return err
	}
	records, err := festival.Load(festivalsPath())
	if err != nil {
		return err
	}
	festivals := festival.NewCatalog(records).ByDate(snap.Date)

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(out, dayOutput{
			Place:     place,
			Panchang:  snap,
			Festivals: festivals,
			Active:    panchang.ActiveWindows(snap, now),
		})
	}
	_, err = out.Write([]byte(renderDay(snap, place, festivals, now)))
	return err
}
