package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"datsys/internal/store"
	"datsys/internal/timeline"

	"github.com/charmbracelet/lipgloss"
)

const helpText = `Commands:
  <case>, stage, <value>[, <message>]   set the case stage and log it
  <case>, log, <message>                append a line to Log.txt
  <case>, open                          open the project folder
  <case>, logopen                       open Log.txt
  <case>, edit                          edit the case details
  <case>, dicom                         ingest DICOM images
  <case>, slicer                        open the DICOM folder in 3D Slicer
  <case>, blender                       open the case in Blender
  <case>, import | importbg             import segmentations into Blender (foreground/background)
  new                                   create a project
  help                                  show this help
  quit                                  leave

<case> is the # shown in the timeline or a case ID.
`

// RowSource rebuilds the timeline rows. timeline.Aggregator implements it.
type RowSource interface {
	Rows() ([]timeline.Row, error)
}

type Shell struct {
	Store    store.Store
	Rows     RowSource
	Launcher Launcher
	Logger   *slog.Logger

	// Styled enables lipgloss styling of the banner and the timeline.
	Styled bool

	in  *bufio.Reader
	out io.Writer
}

func New(st store.Store, rows RowSource, l Launcher, in io.Reader, out io.Writer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Shell{
		Store:    st,
		Rows:     rows,
		Launcher: l,
		Logger:   logger,
		in:       bufio.NewReader(in),
		out:      out,
	}
}

// Run shows the timeline and executes commands until quit, end of input, or ctx is done.
// Rows are rebuilt before every prompt so the indexes always match what was printed.
func (s *Shell) Run(ctx context.Context) error {
	banner := "=== DATSYS ==="
	if s.Styled {
		banner = lipgloss.NewStyle().Bold(true).Render(banner)
	}
	fmt.Fprintln(s.out, banner)
	fmt.Fprintln(s.out, "Type help for commands.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows, err := s.Rows.Rows()
		if err != nil {
			s.printErr(err)
			rows = nil
		}
		fmt.Fprintln(s.out)
		fmt.Fprint(s.out, timeline.Render(rows, timeline.RenderOptions{Styled: s.Styled}))
		fmt.Fprint(s.out, "\n> ")

		line, err := s.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}
		if s.Execute(ctx, line, rows) {
			return nil
		}
	}
}

// Execute runs one line against the rows that were displayed. It reports true when the
// shell should exit. Errors are printed, never returned.
func (s *Shell) Execute(ctx context.Context, line string, rows []timeline.Row) bool {
	cmd, err := Parse(line)
	if err != nil {
		s.printErr(err)
		return false
	}

	switch cmd.Kind {
	case KindEmpty:
	case KindQuit:
		return true
	case KindHelp:
		fmt.Fprint(s.out, helpText)
	case KindNew:
		if err := s.newProject(ctx); err != nil {
			s.printErr(err)
		}
	case KindAction:
		row, ok := timeline.Resolve(rows, cmd.Selector)
		if !ok {
			fmt.Fprintln(s.out, "Project not found.")
			return false
		}
		ref, err := s.Store.Ref(row.ProjectID)
		if err != nil {
			s.printErr(err)
			return false
		}
		if err := s.dispatch(ctx, ref, cmd); err != nil {
			s.Logger.Debug("action failed", "project", ref.ProjectID, "action", cmd.Action, "error", err)
			s.printErr(err)
		}
	}
	return false
}

func (s *Shell) dispatch(ctx context.Context, ref store.ProjectRef, cmd Command) error {
	switch cmd.Action {
	case ActionStage:
		if _, err := s.Store.SetStage(ref, cmd.Stage, cmd.Message); err != nil {
			return err
		}
		s.Logger.Info("stage changed", "project", ref.ProjectID, "stage", cmd.Stage)
		fmt.Fprintf(s.out, "Stage updated: %s → %s\n", ref.ProjectID, cmd.Stage)
	case ActionLog:
		if err := s.Store.AppendLog(ref, cmd.Message); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Logged to %s.\n", ref.ProjectID)
	case ActionOpen:
		return s.Launcher.OpenFolder(ctx, ref)
	case ActionLogOpen:
		if _, err := s.Store.EnsureLog(ref); err != nil {
			return err
		}
		return s.Launcher.OpenLog(ctx, ref)
	case ActionEdit:
		return s.Launcher.EditCase(ctx, ref)
	case ActionDICOM:
		return s.Launcher.IngestImages(ctx, ref)
	case ActionSlicer:
		return s.Launcher.LaunchViewer(ctx, ref)
	case ActionBlender:
		return s.Launcher.LaunchEditor(ctx, ref)
	case ActionImport:
		return s.Launcher.ImportMeshes(ctx, ref, false)
	case ActionImportBG:
		return s.Launcher.ImportMeshes(ctx, ref, true)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrMalformed, cmd.Action)
	}
	return nil
}

func (s *Shell) printErr(err error) {
	fmt.Fprintf(s.out, "[ERROR] %v\n", err)
}

// readLine returns the next input line without its newline. A final line without a newline
// is returned before io.EOF.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// prompt prints msg and reads one trimmed line. End of input reads as an empty answer.
func (s *Shell) prompt(msg string) string {
	fmt.Fprint(s.out, msg)
	line, err := s.readLine()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
