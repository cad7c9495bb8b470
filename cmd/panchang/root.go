package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zapponejosh/panchang-api/internal/config"
	"github.com/zapponejosh/panchang-api/internal/panchang"
)

var rootCmd = &cobra.Command{
	Use:   "panchang",
	Short: "Hindu calendar almanac for the terminal",
	Long: `panchang computes the five limbs of the Hindu calendar (tithi, nakshatra,
yoga, karana and vara) together with the auspicious, inauspicious and
activity windows of a day, and lists the festivals of the year.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .panchang.yaml)")
	rootCmd.PersistentFlags().Float64("lat", config.DefaultLatitude, "latitude in decimal degrees")
	rootCmd.PersistentFlags().Float64("lon", config.DefaultLongitude, "longitude in decimal degrees")
	rootCmd.PersistentFlags().String("place", config.DefaultPlaceName, "label for the location")
	rootCmd.PersistentFlags().String("festivals", "", "YAML or TOML festival file (default: built-in list)")
	rootCmd.PersistentFlags().Bool("json", false, "print JSON instead of text")

	_ = viper.BindPFlag("latitude", rootCmd.PersistentFlags().Lookup("lat"))
	_ = viper.BindPFlag("longitude", rootCmd.PersistentFlags().Lookup("lon"))
	_ = viper.BindPFlag("place", rootCmd.PersistentFlags().Lookup("place"))
	_ = viper.BindPFlag("festivals", rootCmd.PersistentFlags().Lookup("festivals"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".panchang")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PANCHANG")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// location reads the configured coordinates.
func location() (panchang.Location, string, error) {
	loc := panchang.Location{
		Latitude:  viper.GetFloat64("latitude"),
		Longitude: viper.GetFloat64("longitude"),
	}
	if err := loc.Validate(); err != nil {
		return panchang.Location{}, "", err
	}
	return loc, viper.GetString("place"), nil
}

func jsonOutput() bool {
	return viper.GetBool("json")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func festivalsPath() string {
	return viper.GetString("festivals")
}
