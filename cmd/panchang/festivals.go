package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

var festivalsCmd = &cobra.Command{
	Use:   "festivals",
	Short: "List festivals and fast days",
	Long: `Lists festivals and vrats (fast days).

  --month     Only month 1-12 (any year)
  --upcoming  Only the next N days from today
  --festivals Read a YAML or TOML file instead of the built-in list`,
	Args: cobra.NoArgs,
	RunE: runFestivals,
}

func init() {
	festivalsCmd.Flags().Int("month", 0, "month 1-12")
	festivalsCmd.Flags().Int("upcoming", 0, "days ahead of today")
	festivalsCmd.MarkFlagsMutuallyExclusive("month", "upcoming")
	rootCmd.AddCommand(festivalsCmd)
}

func runFestivals(cmd *cobra.Command, args []string) error {
	month, _ := cmd.Flags().GetInt("month")
	upcoming, _ := cmd.Flags().GetInt("upcoming")

	records, err := festival.Load(festivalsPath())
	if err != nil {
		return err
	}
	catalog := festival.NewCatalog(records)

	var list []festival.Record
	switch {
	case month != 0:
		if month < 1 || month > 12 {
			return fmt.Errorf("month must be between 1 and 12, got %d", month)
		}
		list = catalog.ByMonth(0, time.Month(month))
	case upcoming != 0:
		if upcoming < 0 {
			return fmt.Errorf("upcoming must be positive, got %d", upcoming)
		}
		loc, _, err := location()
		if err != nil {
			return err
		}
		list = catalog.Upcoming(time.Now().In(panchang.EstimateZone(loc)), upcoming)
	default:
		list = catalog.All()
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(out, list)
	}
	_, err = out.Write([]byte(renderFestivals(list)))
	return err
}
