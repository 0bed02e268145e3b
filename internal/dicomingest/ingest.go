package dicomingest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"datsys/internal/model"
	"datsys/internal/store"
)

var (
	// ErrDICOMExists is returned when the project already has a DICOM folder and replacing
	// it was not confirmed.
	ErrDICOMExists = errors.New("DICOM folder already exists")
	// ErrNoDICOM is returned when the source holds nothing that looks like DICOM.
	ErrNoDICOM = errors.New("input does not appear to contain DICOM files")
)

type Ingester struct {
	Store  store.Store
	Logger *slog.Logger
}

type Result struct {
	Source   string
	DICOMDir string
	// PatientName is the name read from the images, empty when none was found.
	PatientName string
	// PatientUpdated reports whether nombre_paciente was filled in from the images.
	PatientUpdated bool
}

// Ingest copies or extracts source into the project's DICOM folder. source may be a folder,
// a .zip/.7z/.rar archive, or a single .dcm file. An existing DICOM folder is replaced only
// when replace is set. On failure the new DICOM folder is removed.
func (in Ingester) Ingest(ref store.ProjectRef, source string, replace bool) (Result, error) {
	logger := in.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if st, err := os.Stat(ref.Dir); err != nil || !st.IsDir() {
		return Result{}, store.NotFoundError{Kind: "project", ID: ref.ProjectID}
	}
	source = filepath.Clean(strings.Trim(strings.TrimSpace(source), `"`))
	src, err := os.Stat(source)
	if err != nil {
		return Result{}, fmt.Errorf("path not found: %s", source)
	}

	dest := ref.DICOMDir()
	if _, err := os.Stat(dest); err == nil {
		if !replace {
			return Result{}, ErrDICOMExists
		}
		if err := os.RemoveAll(dest); err != nil {
			return Result{}, err
		}
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return Result{}, err
	}

	if err := copyInput(source, src, dest); err != nil {
		_ = os.RemoveAll(dest)
		return Result{}, err
	}
	ok, err := ContainsDICOM(dest)
	if err != nil || !ok {
		_ = os.RemoveAll(dest)
		if err == nil {
			err = ErrNoDICOM
		}
		return Result{}, err
	}

	res := Result{Source: source, DICOMDir: dest, PatientName: PatientName(dest)}
	if res.PatientName != "" && in.Store.CaseExists(ref) {
		c, err := in.Store.LoadCase(ref)
		if err != nil {
			return res, err
		}
		if strings.TrimSpace(c.NombrePaciente) == "" {
			if _, err := in.Store.UpdateCase(ref, func(c *model.PeekCase) error {
				c.NombrePaciente = res.PatientName
				return nil
			}); err != nil {
				return res, err
			}
			res.PatientUpdated = true
		}
	}

	if err := in.Store.AppendLog(ref, fmt.Sprintf("DICOM ingested from %q", filepath.Base(source))); err != nil {
		return res, err
	}
	logger.Info("dicom ingested", "project", ref.ProjectID, "source", source, "patient_updated", res.PatientUpdated)
	return res, nil
}

func copyInput(source string, info os.FileInfo, dest string) error {
	switch {
	case info.IsDir():
		return store.CopyDir(source, dest)
	case isArchive(source):
		return Extract(source, dest)
	case isSingle(source):
		return store.CopyFile(source, filepath.Join(dest, filepath.Base(source)))
	default:
		return fmt.Errorf("unsupported DICOM input: %s", filepath.Base(source))
	}
}
