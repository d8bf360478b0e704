package process

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"speech-insight/cmd/sia/cmd/bootstrap"
	"speech-insight/internal/app/pipeline"
	"speech-insight/internal/app/progress"
)

var (
	audioIDs     []string
	allPending   bool
	showProgress bool
)

func init() {
	Cmd.Flags().StringSliceVar(&audioIDs, "id", nil, "audio IDs to process (repeatable)")
	Cmd.Flags().BoolVar(&allPending, "all-pending", false, "process every pending or failed recording")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "force the progress bar even without a terminal")
	Cmd.MarkFlagsOneRequired("id", "all-pending")
	Cmd.MarkFlagsMutuallyExclusive("id", "all-pending")
}

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Run the analysis pipeline on stored recordings",
	Long: `Run the analysis pipeline on stored recordings

- Recordings are processed one after another
- Failed recordings can be retried; completed ones are skipped with an error
- Ctrl-C stops after the recording currently running`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, cleanup, err := bootstrap.Application(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		ids := audioIDs
		if allPending {
			if ids, err = application.Orchestrator.PendingIDs(ctx); err != nil {
				return err
			}
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to process")
			return nil
		}

		manager := progress.NewManager(progress.Config{
			Enabled: progress.ShouldShow(showProgress),
			Writer:  os.Stderr,
		})
		bar := manager.CreateBar(len(ids), "Processing")

		results := application.Orchestrator.ProcessBatch(ctx, ids, func(res *pipeline.Result) {
			bar.Increment(time.Duration(res.TotalProcessingTime * float64(time.Second)))
			if !res.Success {
				application.Logger.Warn("Pipeline run failed",
					zap.String("audio_id", res.AudioID),
					zap.String("error", res.Error),
				)
			}
		})
		bar.Complete()
		manager.Wait()

		failed := 0
		for _, res := range results {
			status := "ok"
			if !res.Success {
				failed++
				status = "failed: " + res.Error
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.2fs\n", res.AudioID, res.Sentiment, status, res.TotalProcessingTime)
		}

		if skipped := len(ids) - len(results); skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "interrupted, %d recordings not processed\n", skipped)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d recordings failed", failed, len(results))
		}
		return nil
	},
}
