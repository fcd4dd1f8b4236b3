package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time
var (
	Version   = "v0.1.0"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Versionsinformationen anzeigen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("meinDEVICECONTROL %s\n", Version)
		fmt.Printf("Build:  %s\n", BuildTime)
		fmt.Printf("Go:     %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
