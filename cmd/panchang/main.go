// Command panchang prints the panchang for a location in the terminal.
//
// Usage:
//
//	panchang today --lat 28.6139 --lon 77.2090
//	panchang date 2025-10-20 --json
//	panchang festivals --upcoming 30
//	panchang ics --start 2025-10-01 --end 2025-10-31 -o october.ics
//
// Flags may also come from PANCHANG_* environment variables or a
// .panchang.yaml file in the working or home directory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
