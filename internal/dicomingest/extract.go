package dicomingest

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// Extract unpacks a .zip, .7z or .rar archive into dest.
func Extract(archive, dest string) error {
	switch ext := strings.ToLower(filepath.Ext(archive)); ext {
	case ".zip":
		return extractZip(archive, dest)
	case ".7z":
		return extract7z(archive, dest)
	case ".rar":
		return extractRar(archive, dest)
	default:
		return fmt.Errorf("unsupported archive format: %s", ext)
	}
}

func extractZip(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := writeEntry(dest, f.Name, f.FileInfo().IsDir(), f.Open); err != nil {
			return err
		}
	}
	return nil
}

func extract7z(archive, dest string) error {
	r, err := sevenzip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := writeEntry(dest, f.Name, f.FileInfo().IsDir(), f.Open); err != nil {
			return err
		}
	}
	return nil
}

func extractRar(archive, dest string) error {
	r, err := rardecode.OpenReader(archive, "")
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		open := func() (io.ReadCloser, error) { return io.NopCloser(r), nil }
		if err := writeEntry(dest, hdr.Name, hdr.IsDir, open); err != nil {
			return err
		}
	}
}

// writeEntry writes one archive member below dest. Members that would land outside dest
// are rejected.
func writeEntry(dest, name string, isDir bool, open func() (io.ReadCloser, error)) error {
	target, err := safeJoin(dest, name)
	if err != nil {
		return err
	}
	if isDir {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := open()
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return fmt.Errorf("extract %s: %w", name, err)
	}
	return out.Close()
}

func safeJoin(dest, name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return "", fmt.Errorf("archive entry escapes destination: %q", name)
	}
	return target, nil
}
