package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"datsys/internal/casedit"
	"datsys/internal/catalog"
	"datsys/internal/config"
	"datsys/internal/dicomingest"
	"datsys/internal/format"
	"datsys/internal/launch"
	"datsys/internal/store"
	"datsys/internal/timeline"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	ClientsDir string
	LogLevel   string
	PrettyJSON bool
	Format     string

	// Now defaults to time.Now. Tests pin it.
	Now func() time.Time

	cfg    config.Config
	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "datsys",
		Short:        "Case timeline and workflow shell for surgical planning cases",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive shell
  datsys

  # Scriptable commands
  datsys timeline --json
  datsys case stage 3 design --message "CT received"

  # Direct case lookup (shortcut for: datsys case show <project-id>)
  datsys P113-ABC-PK1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive shell.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runShell(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("DATSYS_CONFIG", ""), "Path to datsys.yaml (default: ./datsys.yaml when present)")
	cmd.PersistentFlags().StringVar(&app.ClientsDir, "clients-dir", "", "Path to the clients tree (overrides config and DATSYS_CLIENTS_DIR)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DATSYS_FORMAT", "json"), "Output format for --json commands (json|yaml)")

	cmd.AddCommand(newShellCmd(app))
	cmd.AddCommand(newTimelineCmd(app))
	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newCaseCmd(app))
	cmd.AddCommand(newIngestCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newMigrateCmd(app))
	cmd.AddCommand(newHospitalsCmd(app))
	cmd.AddCommand(newPricesCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// load resolves the config (file, env, flags) and builds the logger.
func (app *App) load(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	if app.ClientsDir != "" {
		cfg.ClientsDir = app.ClientsDir
	}
	if app.LogLevel != "" {
		cfg.Log.Level = app.LogLevel
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	app.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func (app *App) now() time.Time {
	if app.Now != nil {
		return app.Now()
	}
	return time.Now()
}

func (app *App) store() store.Store {
	return store.Store{ClientsDir: app.cfg.ClientsDir, Clock: app.now}
}

func (app *App) aggregator() timeline.Aggregator {
	weekday, _ := app.cfg.Weekday()
	return timeline.Aggregator{
		Store:    app.store(),
		Excluded: weekday,
		Logger:   app.logger,
		Today:    app.now,
	}
}

func (app *App) registry() catalog.Registry {
	return catalog.NewRegistry(app.cfg.DataDir)
}

func (app *App) ingester() dicomingest.Ingester {
	return dicomingest.Ingester{Store: app.store(), Logger: app.logger}
}

func (app *App) launcher(in io.Reader, out io.Writer) launch.OS {
	return launch.OS{
		Config: app.cfg,
		Editor: casedit.Editor{
			Store:    app.store(),
			Registry: app.registry(),
			In:       in,
			Out:      out,
		},
		Ingester: app.ingester(),
		Logger:   app.logger,
		In:       in,
		Out:      out,
	}
}

// resolve finds a case by timeline index or project ID. Project IDs of projects without a
// case file (PLA, archive) resolve too.
func (app *App) resolve(sel string) (store.ProjectRef, *timeline.Row, error) {
	rows, err := app.aggregator().Rows()
	if err != nil {
		return store.ProjectRef{}, nil, err
	}
	st := app.store()
	if row, ok := timeline.Resolve(rows, sel); ok {
		ref, err := st.Resolve(row.ProjectID)
		return ref, &row, err
	}
	ref, err := st.Resolve(sel)
	if err != nil {
		return store.ProjectRef{}, nil, errNotFound("project", sel)
	}
	return ref, nil, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
