package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"meetscribe/cmd/scribe/cmd/export"
	"meetscribe/cmd/scribe/cmd/serve"
	"meetscribe/cmd/scribe/cmd/sweep"
	"meetscribe/cmd/scribe/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Meeting audio transcription and extraction service",
	Long: `Meeting audio transcription and extraction service.
- serve runs the HTTP API and the transcription status poller
- sweep hard-deletes scrubbed transcription jobs past the retention window
- export writes a meeting's decisions and action items to excel`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(sweep.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
