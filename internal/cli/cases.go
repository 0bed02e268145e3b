package cli

import (
	"fmt"
	"strings"

	"datsys/internal/model"
	"datsys/internal/report"
	"datsys/internal/store"

	"github.com/spf13/cobra"
)

func newCaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "case",
		Aliases: []string{"cases"},
		Short:   "Show and update PEEK cases",
	}
	cmd.AddCommand(newCaseShowCmd(app))
	cmd.AddCommand(newCaseStageCmd(app))
	cmd.AddCommand(newCaseLogCmd(app))
	cmd.AddCommand(newCaseEditCmd(app))
	return cmd
}

func newCaseShowCmd(app *App) *cobra.Command {
	var asJSON bool
	var style string
	var width int
	cmd := &cobra.Command{
		Use:   "show <case>",
		Short: "Show a case card (timeline # or project ID)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, row, err := app.resolve(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.store().LoadCase(ref)
			if err != nil {
				return writeErr(cmd, err)
			}
			if asJSON {
				return writeOut(cmd, app, map[string]any{"data": c})
			}
			client, err := app.store().LoadClient(ref.ClientID)
			if err != nil {
				app.logger.Warn("client unreadable", "client", ref.ClientID, "err", err)
				client = model.Client{ID: ref.ClientID}
			}
			var daysLeft *int
			if row != nil {
				daysLeft = row.DaysLeft
			}
			md := report.CaseCard(c, client, daysLeft)
			if !applyColorProfile(cmd.OutOrStdout()) {
				style = "notty"
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), report.RenderMarkdown(md, style, width))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the case record as JSON")
	cmd.Flags().StringVar(&style, "style", envOr("DATSYS_GLAMOUR_STYLE", "dark"), "Glamour style (dark|light|notty|ascii)")
	cmd.Flags().IntVar(&width, "width", 80, "Word wrap width")
	return cmd
}

func newCaseStageCmd(app *App) *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "stage <case> <stage>",
		Short: "Set a case's stage and log the change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage := strings.TrimSpace(args[1])
			if stage == "" {
				return writeErr(cmd, errUsage("stage is empty"))
			}
			ref, _, err := app.resolve(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.store().SetStage(ref, stage, message)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Info("stage updated", "project", ref.ProjectID, "stage", stage)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"project_id":     ref.ProjectID,
				"estado_caso":    c.EstadoCaso,
				"actualizado_en": c.ActualizadoEn,
			}})
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Log message (default: stage update)")
	return cmd
}

func newCaseLogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "log <case> <message...>",
		Short: "Append a timestamped line to the project's Log.txt",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := strings.TrimSpace(strings.Join(args[1:], " "))
			if msg == "" {
				return writeErr(cmd, errUsage("log message is empty"))
			}
			ref, _, err := app.resolve(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.store().AppendLog(ref, msg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"project_id": ref.ProjectID,
				"log":        ref.LogPath(),
				"line":       strings.TrimSuffix(store.FormatLogLine(app.now(), msg), "\n"),
			}})
		},
	}
}

func newCaseEditCmd(app *App) *cobra.Command {
	var accessible bool
	cmd := &cobra.Command{
		Use:   "edit <case>",
		Short: "Edit a case interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, _, err := app.resolve(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			l := app.launcher(cmd.InOrStdin(), cmd.OutOrStdout())
			l.Editor.Accessible = accessible
			if err := l.EditCase(cmd.Context(), ref); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&accessible, "accessible", envOr("ACCESSIBLE", "") != "", "Use plain line prompts")
	return cmd
}
