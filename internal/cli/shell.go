package cli

import (
	"os"
	"strings"

	"datsys/internal/shell"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newShellCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive case shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, app)
		},
	}
}

func runShell(cmd *cobra.Command, app *App) error {
	st := app.store()
	if err := st.Ensure(); err != nil {
		return writeErr(cmd, err)
	}
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	sh := shell.New(st, app.aggregator(), app.launcher(in, out), in, out, app.logger)
	sh.Styled = applyColorProfile(out)
	if err := sh.Run(cmd.Context()); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// applyColorProfile sets Lip Gloss's color profile and reports whether out should be styled.
// NO_COLOR and non-terminal output disable styling.
func applyColorProfile(out any) bool {
	f, ok := out.(*os.File)
	if !ok || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return false
	}
	profile := termenv.NewOutput(f).EnvColorProfile()
	lipgloss.SetColorProfile(profile)
	return profile != termenv.Ascii
}
