package launch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"datsys/internal/dicomingest"
	"datsys/internal/store"

	"github.com/charmbracelet/huh"
)

const pasteSource = "\x00paste"

// IngestImages asks for a DICOM source (recent Downloads entry or a pasted path) and copies
// it into the project's DICOM folder. An existing folder is only replaced after confirmation.
func (o OS) IngestImages(ctx context.Context, ref store.ProjectRef) error {
	replace := false
	if isDir(ref.DICOMDir()) {
		if err := o.run(ctx, huh.NewConfirm().
			Title("DICOM folder already exists. Replace it?").
			Value(&replace)); err != nil {
			return abortNil(err)
		}
		if !replace {
			o.println("Cancelled.")
			return nil
		}
	}

	recent, err := dicomingest.RecentInputs(o.Config.DownloadsDir)
	if err != nil {
		o.logger().Warn("list downloads", "dir", o.Config.DownloadsDir, "err", err)
	}
	source, err := o.chooseSource(ctx, recent)
	if err != nil {
		return abortNil(err)
	}
	if source == "" {
		o.println("Cancelled.")
		return nil
	}

	res, err := o.Ingester.Ingest(ref, source, replace)
	if err != nil {
		return err
	}
	o.println("[OK] DICOM ingested into: " + res.DICOMDir)
	if res.PatientUpdated {
		o.println("Patient: " + res.PatientName)
	}
	return nil
}

func (o OS) chooseSource(ctx context.Context, recent []dicomingest.Input) (string, error) {
	choice := pasteSource
	if len(recent) > 0 {
		opts := make([]huh.Option[string], 0, len(recent)+1)
		for _, in := range recent {
			opts = append(opts, huh.NewOption(in.Name+"  "+in.ModTime.Format(time.DateTime), in.Path))
		}
		opts = append(opts, huh.NewOption("Paste a path...", pasteSource))
		choice = recent[0].Path
		if err := o.run(ctx, huh.NewSelect[string]().
			Title("DICOM source").
			Description("Recent files in "+o.Config.DownloadsDir).
			Options(opts...).
			Value(&choice)); err != nil {
			return "", err
		}
	}
	if choice != pasteSource {
		return choice, nil
	}

	var pasted string
	if err := o.run(ctx, huh.NewInput().
		Title("DICOM folder, archive, or .dcm file").
		Placeholder("/path/to/study.zip").
		Value(&pasted)); err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(pasted), `"`), nil
}

func (o OS) run(ctx context.Context, field huh.Field) error {
	f := huh.NewForm(huh.NewGroup(field)).
		WithShowHelp(false).
		WithAccessible(o.Accessible)
	if o.In != nil {
		f = f.WithInput(o.In)
	}
	if o.Out != nil {
		f = f.WithOutput(o.Out)
	}
	if err := f.RunWithContext(ctx); err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

func abortNil(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}
