package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the perflens version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("perflens %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
