package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"speech-insight/cmd/sia/cmd/bootstrap"
	"speech-insight/cmd/sia/cmd/export"
	"speech-insight/cmd/sia/cmd/ingest"
	"speech-insight/cmd/sia/cmd/process"
	"speech-insight/cmd/sia/cmd/serve"
	"speech-insight/cmd/sia/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sia",
	Short: "Speech insight: transcribe call recordings and analyse what was said",
	Long: `Speech insight transcribes audio recordings and analyses the transcript.
- Upload recordings over HTTP (sia serve) or ingest local files (sia ingest)
- Run the pipeline: transcription, sentiment, entities, summary, key phrases, action items, topics
- Results are stored in SQLite or PostgreSQL and can be exported to Excel.`,
	TraverseChildren: true,
	SilenceUsage:     true,
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
	rootCmd.AddCommand(ingest.Cmd)
	rootCmd.AddCommand(process.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&bootstrap.Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&bootstrap.ConfigFile, "config", "", "YAML config file (environment variables override it)")
}
