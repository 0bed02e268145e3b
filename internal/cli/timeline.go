package cli

import (
	"fmt"

	"datsys/internal/timeline"

	"github.com/spf13/cobra"
)

func newTimelineCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the case timeline once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.aggregator().Rows()
			if err != nil {
				return writeErr(cmd, err)
			}
			if asJSON {
				out := make([]timelineEntry, 0, len(rows))
				for i, r := range rows {
					out = append(out, timelineEntry{Index: timeline.DisplayIndex(i, len(rows)), Row: r})
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), timeline.Render(rows, timeline.RenderOptions{Styled: applyColorProfile(cmd.OutOrStdout())}))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rows as JSON instead of the table")
	return cmd
}

type timelineEntry struct {
	Index int `json:"index"`
	timeline.Row
}
