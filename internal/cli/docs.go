package cli

import (
	"fmt"

	"datsys/internal/docs"
	"datsys/internal/report"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw, asJSON bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show documentation topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `datsys docs` to list topics)", topic))
			}
			if asJSON {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
			}
			if !raw {
				style := "dark"
				if !applyColorProfile(cmd.OutOrStdout()) {
					style = "notty"
				}
				body = report.RenderMarkdown(body, style, 100)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), body)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the topic in a JSON envelope")

	return cmd
}
