package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"speech-insight/cmd/sia/cmd/bootstrap"
	"speech-insight/internal/app/export"
	"speech-insight/internal/app/model"
)

var (
	outputFilePath string
	status         string
)

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath, e.g. report.xlsx")
	Cmd.Flags().StringVarP(&status, "status", "s", "", "only export recordings with this status")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export recordings and their analysis to excel",
	Long: `Export recordings and their analysis to excel

- One sheet row per recording with sentiment, topics, key phrases, action items and summary
- Entities are written to a second sheet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := model.Status(status)
		if filter != "" && !filter.Valid() {
			return fmt.Errorf("invalid status %q", status)
		}

		application, cleanup, err := bootstrap.Application(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		rows, err := export.Collect(cmd.Context(), application.Store, filter)
		if err != nil {
			return err
		}
		if err := export.ToExcel(rows, outputFilePath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "export finished, %d recordings, exported file path: %v\n", len(rows), outputFilePath)
		return nil
	},
}
