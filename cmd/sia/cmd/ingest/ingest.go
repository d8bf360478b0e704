package ingest

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"speech-insight/cmd/sia/cmd/bootstrap"
	"speech-insight/internal/api/v1/services"
	"speech-insight/internal/app/util/files"
)

var processNow bool

func init() {
	Cmd.Flags().BoolVar(&processNow, "process", false, "run the pipeline on each file right after it is stored")
}

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest <file|dir>...",
	Short: "Store local audio files as pending recordings",
	Long: `Store local audio files as pending recordings

- Files go through the same format and size checks as uploads
- Directories are scanned for audio files, oldest first
- Use --process to run the pipeline immediately, or run 'sia process --all-pending' later`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, cleanup, err := bootstrap.Application(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		cfg := application.Config
		audio := services.NewAudioService(
			application.Store,
			application.Files,
			application.Orchestrator,
			services.UploadPolicy{
				AllowedExtensions: cfg.Storage.AllowedExtensions,
				MaxFileSizeBytes:  cfg.MaxFileSizeBytes(),
			},
			application.Logger,
		)

		paths, err := files.ExpandPaths(args, cfg.Storage.AllowedExtensions)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no audio files found")
			return nil
		}

		failed := 0
		for _, path := range paths {
			id, err := ingestFile(cmd, audio, path)
			if err != nil {
				failed++
				application.Logger.Error("Ingest failed", zap.String("file", path), zap.Error(err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, path)

			if processNow {
				resp, err := audio.Process(ctx, id, true)
				if err != nil {
					failed++
					application.Logger.Error("Processing failed", zap.String("audio_id", id), zap.Error(err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", id, resp.Sentiment, resp.TranscriptPreview)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(paths))
		}
		return nil
	},
}

func ingestFile(cmd *cobra.Command, audio services.AudioService, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	resp, err := audio.Upload(cmd.Context(), path, file, info.Size())
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}
