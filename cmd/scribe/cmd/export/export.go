package export

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"meetscribe/internal/app"
	"meetscribe/internal/app/export"
	"meetscribe/internal/config"
)

var meetingID string
var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&meetingID, "meeting", "m", "", "set meeting id")
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "set output file path")

	Cmd.MarkFlagRequired("meeting")
	Cmd.MarkFlagRequired("output")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export a meeting's decisions and action items to excel",
	Long: `Export a meeting's decisions and action items to excel

- Writes one sheet of decisions and one of action items for the meeting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		db, cleanup, err := app.ProvideDB(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		repos := app.ProvideRepositories(cfg, db)

		ctx := context.Background()
		meeting, err := repos.Meetings.Get(ctx, meetingID)
		if err != nil {
			return err
		}
		decisions, err := repos.Decisions.ListByMeeting(ctx, meetingID)
		if err != nil {
			return err
		}
		items, err := repos.Actions.ListByMeeting(ctx, meetingID)
		if err != nil {
			return err
		}

		if err := export.ToExcel(meeting, decisions, items, outputFilePath); err != nil {
			return err
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
		return nil
	},
}
