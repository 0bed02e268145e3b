package cli

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite legacy case files in the current schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := app.store().MigrateCases()
			for _, ref := range refs {
				app.logger.Info("case migrated", "project", ref.ProjectID)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			ids := make([]string, 0, len(refs))
			for _, ref := range refs {
				ids = append(ids, ref.ProjectID)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"migrated": ids}})
		},
	}
}
