package cli

import (
	"errors"

	"datsys/internal/dicomingest"

	"github.com/spf13/cobra"
)

func newIngestCmd(app *App) *cobra.Command {
	var source string
	var replace bool
	cmd := &cobra.Command{
		Use:   "ingest <case>",
		Short: "Copy a DICOM folder, archive, or .dcm file into a project",
		Long: `Copy a DICOM study into <project>/DICOM.

--source may be a folder, a .zip/.7z/.rar archive, or a single .dcm file. Without --source,
the newest candidate in the downloads directory is listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, _, err := app.resolve(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if source == "" {
				recent, err := dicomingest.RecentInputs(app.cfg.DownloadsDir)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data":   recent,
					"_hints": []string{"datsys ingest " + ref.ProjectID + " --source <path>"},
				})
			}
			res, err := app.ingester().Ingest(ref, source, replace)
			if err != nil {
				if errors.Is(err, dicomingest.ErrDICOMExists) {
					err = errUsage("%v: pass --replace to overwrite %s", err, ref.DICOMDir())
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"project_id":      ref.ProjectID,
				"source":          res.Source,
				"dicom_dir":       res.DICOMDir,
				"patient_name":    res.PatientName,
				"patient_updated": res.PatientUpdated,
			}})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "DICOM folder, archive, or .dcm file")
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace an existing DICOM folder")
	return cmd
}
