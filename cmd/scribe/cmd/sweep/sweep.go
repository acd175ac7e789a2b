package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"meetscribe/internal/app"
	"meetscribe/internal/app/metrics"
	"meetscribe/internal/app/retention"
	"meetscribe/internal/config"
)

var window time.Duration

func init() {
	Cmd.Flags().DurationVarP(&window, "window", "w", 0, "retention window override (default SCRIBE_RETENTION_WINDOW)")
}

// Cmd represents the sweep command
var Cmd = &cobra.Command{
	Use:   "sweep",
	Short: "Hard-delete scrubbed transcription jobs past the retention window",
	Long: `Hard-delete scrubbed transcription jobs past the retention window.

Jobs soft-deleted longer ago than the window are removed permanently,
including any stored audio objects. Intended to run from cron.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if window == 0 {
			window = cfg.RetentionWindow
		}

		logger := app.ProvideLogger(cfg)
		db, cleanup, err := app.ProvideDB(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		repos := app.ProvideRepositories(cfg, db)
		storage, storageCleanup, err := app.ProvideStorage(cfg, logger)
		if err != nil {
			return err
		}
		defer storageCleanup()

		manager := retention.NewManager(repos.Jobs, nil, storage, metrics.NewNopPipeline(), logger)

		ctx := context.Background()
		cutoff := time.Now().Add(-window)
		due, err := repos.Jobs.ListScrubbedBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Println("nothing to sweep")
			return nil
		}

		progress := mpb.New(mpb.WithWidth(64))
		bar := progress.AddBar(int64(len(due)),
			mpb.PrependDecorators(
				decor.Name("sweep ", decor.WC{W: 6, C: decor.DindentRight}),
				decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.NewPercentage("%.1f", decor.WCSyncSpace),
			),
		)

		result, err := manager.Sweep(ctx, window, bar.Increment)
		if err != nil {
			return err
		}
		bar.SetTotal(bar.Current(), true)
		progress.Wait()

		fmt.Printf("sweep finished: examined %d, deleted %d\n", result.Examined, result.Deleted)
		return nil
	},
}
