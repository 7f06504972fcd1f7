// Package medcare implements the medcare command line.
package medcare

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "medcare",
	Short: "Symptom analysis for the MedCare patient portal",
	Long: `MedCare turns a free-text description of symptoms into a short list of
possible conditions and general care suggestions.

Run "medcare serve" for the HTTP API used by the portal, or
"medcare analyze" to try a description from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
