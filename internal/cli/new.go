package cli

import (
	"strings"

	"datsys/internal/model"
	"datsys/internal/store"

	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	var clientID, typ, name, contact string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a project (and the client when --name is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.store()
			if err := st.Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			id, err := store.NormalizeClientID(clientID)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := model.ParseProjectType(typ)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !st.ClientExists(id) {
				if strings.TrimSpace(name) == "" {
					return writeErr(cmd, errUsage("client %s does not exist; pass --name to create it", id))
				}
				if _, err := st.CreateClient(id, name, contact); err != nil {
					return writeErr(cmd, err)
				}
				app.logger.Info("client created", "client", id)
			}
			res, err := st.CreateProject(id, t)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Info("project created", "project", res.Ref.ProjectID)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"project": res.Ref,
				"meta":    res.Meta,
			}})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "Client ID (letters/digits, uppercased)")
	cmd.Flags().StringVar(&typ, "type", string(model.ProjectTypePEEK), "Project type (PK|PL|AR or 1-3)")
	cmd.Flags().StringVar(&name, "name", "", "Client full name (creates the client when missing)")
	cmd.Flags().StringVar(&contact, "contact", "", "Client contact info")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}
