package dicomingest

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

var errFound = errors.New("found")

// ContainsDICOM reports whether dir holds a file that looks like DICOM: a .dcm extension
// or no extension at all (the usual scanner export naming).
func ContainsDICOM(dir string) (bool, error) {
	found := false
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := filepath.Ext(d.Name())
		if ext == "" || strings.EqualFold(ext, ".dcm") {
			found = true
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return false, err
	}
	return found, nil
}

// PatientName returns the first non-empty PatientName found under dir, walking files in
// lexical order. Files that do not parse as DICOM are skipped. Pixel data is never read.
func PatientName(dir string) string {
	var name string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return nil
		}
		if n := patientNameOf(path); n != "" {
			name = n
			return errFound
		}
		return nil
	})
	return name
}

func patientNameOf(path string) string {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return ""
	}
	elem, err := ds.FindElementByTag(tag.PatientName)
	if err != nil || elem.Value == nil {
		return ""
	}
	vals, ok := elem.Value.GetValue().([]string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.Join(vals, " "))
}
