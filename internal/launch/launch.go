package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"datsys/internal/casedit"
	"datsys/internal/config"
	"datsys/internal/dicomingest"
	"datsys/internal/store"
)

// ErrToolMissing is returned when an external executable, script, or required project file
// is absent.
var ErrToolMissing = errors.New("external tool missing")

// StartFunc starts a process without waiting for it.
type StartFunc func(name string, args ...string) error

// OS implements the shell's Launcher against the local desktop.
type OS struct {
	Config   config.Config
	Editor   casedit.Editor
	Ingester dicomingest.Ingester
	Logger   *slog.Logger

	// In and Out carry the DICOM source prompts.
	In  io.Reader
	Out io.Writer
	// Accessible switches huh prompts to plain line input.
	Accessible bool

	// Start defaults to a detached exec.Cmd; LookPath defaults to exec.LookPath.
	Start    StartFunc
	LookPath func(string) (string, error)
	GOOS     string
}

func (o OS) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o OS) start(name string, args ...string) error {
	o.logger().Debug("starting", "exe", name, "args", args)
	if o.Start != nil {
		return o.Start(name, args...)
	}
	return startDetached(name, args...)
}

func (o OS) OpenFolder(_ context.Context, ref store.ProjectRef) error {
	return o.openPath(ref.Dir)
}

func (o OS) OpenLog(_ context.Context, ref store.ProjectRef) error {
	return o.openPath(ref.LogPath())
}

func (o OS) EditCase(ctx context.Context, ref store.ProjectRef) error {
	return o.Editor.Edit(ctx, ref)
}

// LaunchViewer opens the project's DICOM folder in 3D Slicer with the autoload script.
func (o OS) LaunchViewer(_ context.Context, ref store.ProjectRef) error {
	if !isDir(ref.DICOMDir()) {
		return errors.New("DICOM folder not found. Ingest DICOM first.")
	}
	exe, err := o.tool("Slicer", o.Config.Slicer.Exe)
	if err != nil {
		return err
	}
	script, err := requireFile("Slicer script", o.Config.Slicer.Script)
	if err != nil {
		return err
	}
	if err := o.start(exe, "--python-script", script, ref.DICOMDir()); err != nil {
		return err
	}
	o.println("[OK] 3D Slicer launched")
	return nil
}

// LaunchEditor opens Blender/<id>.blend, running the startup script when one is configured.
func (o OS) LaunchEditor(_ context.Context, ref store.ProjectRef) error {
	exe, blend, err := o.blender(ref)
	if err != nil {
		return err
	}
	args := []string{blend}
	if strings.TrimSpace(o.Config.Blender.StartupScript) != "" {
		script, err := requireFile("Blender startup script", o.Config.Blender.StartupScript)
		if err != nil {
			return err
		}
		args = append(args, "--python", script)
	}
	if err := o.start(exe, args...); err != nil {
		return err
	}
	o.println("[OK] Blender launched")
	return nil
}

// ImportMeshes runs the import script on the case's .blend file, headless when background
// is set. The segmentations come from 3DSlicer/Segmentations.
func (o OS) ImportMeshes(_ context.Context, ref store.ProjectRef, background bool) error {
	if !isDir(ref.SegmentsDir()) {
		return fmt.Errorf("no segmentations found: %s", ref.SegmentsDir())
	}
	exe, blend, err := o.blender(ref)
	if err != nil {
		return err
	}
	script, err := requireFile("Blender import script", o.Config.Blender.ImportScript)
	if err != nil {
		return err
	}
	var args []string
	if background {
		args = append(args, "--background")
	}
	args = append(args, blend, "--python", script)
	if err := o.start(exe, args...); err != nil {
		return err
	}
	if background {
		o.println("[OK] Mesh import started in the background")
	} else {
		o.println("[OK] Blender launched with mesh import")
	}
	return nil
}

func (o OS) blender(ref store.ProjectRef) (exe, blend string, err error) {
	exe, err = o.tool("Blender", o.Config.Blender.Exe)
	if err != nil {
		return "", "", err
	}
	blend, err = requireFile("blend file", ref.BlendFile())
	if err != nil {
		return "", "", err
	}
	return exe, blend, nil
}

// tool resolves an executable from a path or the PATH.
func (o OS) tool(label, exe string) (string, error) {
	exe = strings.TrimSpace(exe)
	if exe == "" {
		return "", fmt.Errorf("%w: %s executable is not configured", ErrToolMissing, label)
	}
	lookPath := o.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	p, err := lookPath(exe)
	if err != nil {
		return "", fmt.Errorf("%w: %s executable not found: %s", ErrToolMissing, label, exe)
	}
	return p, nil
}

func (o OS) openPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("empty path")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("not found: %s", path)
	}
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	switch goos {
	case "darwin":
		return o.start("open", path)
	case "windows":
		return o.start("cmd", "/c", "start", "", path)
	default:
		return o.start("xdg-open", path)
	}
}

func (o OS) println(msg string) {
	if o.Out != nil {
		fmt.Fprintln(o.Out, msg)
	}
}

func requireFile(label, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: %s is not configured", ErrToolMissing, label)
	}
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return "", fmt.Errorf("%w: %s not found: %s", ErrToolMissing, label, path)
	}
	return path, nil
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// startDetached starts name without attaching the terminal and does not wait for it.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
