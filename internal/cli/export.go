package cli

import (
	"path/filepath"

	"datsys/internal/report"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export case reports",
	}
	cmd.AddCommand(newExportHQCmd(app))
	return cmd
}

func newExportHQCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "hq",
		Short: "Write the HQ TSV export of every PEEK case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := out
			if path == "" {
				path = filepath.Join(app.cfg.ExportsDir, "HQ_EXPORT_"+app.now().Format("2006-01-02")+".tsv")
			}
			n, err := report.ExportHQ(app.store(), path, app.logger)
			if err != nil {
				return writeErr(cmd, err)
			}
			data := map[string]any{"rows": n}
			if n > 0 {
				data["exportedTo"] = path
			}
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default: <exports>/HQ_EXPORT_<date>.tsv)")
	return cmd
}
