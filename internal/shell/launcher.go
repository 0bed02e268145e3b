package shell

import (
	"context"

	"datsys/internal/store"
)

// Launcher performs the actions that leave the shell: external applications and
// interactive prompts. The shell only resolves the case and reports errors.
type Launcher interface {
	// OpenFolder opens the project directory in the platform file browser.
	OpenFolder(ctx context.Context, ref store.ProjectRef) error
	// OpenLog opens Log.txt, which the shell has already created if missing.
	OpenLog(ctx context.Context, ref store.ProjectRef) error
	EditCase(ctx context.Context, ref store.ProjectRef) error
	IngestImages(ctx context.Context, ref store.ProjectRef) error
	// LaunchViewer starts 3D Slicer against the project's DICOM folder.
	LaunchViewer(ctx context.Context, ref store.ProjectRef) error
	// LaunchEditor starts Blender on the project's .blend file.
	LaunchEditor(ctx context.Context, ref store.ProjectRef) error
	ImportMeshes(ctx context.Context, ref store.ProjectRef, background bool) error
}
