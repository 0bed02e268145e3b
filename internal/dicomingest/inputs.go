package dicomingest

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
)

// MaxRecent is how many Downloads entries are offered for selection.
const MaxRecent = 10

var (
	archiveExts = []string{".zip", ".7z", ".rar"}
	singleExts  = []string{".dcm"}
)

// Input is a candidate DICOM source found in the downloads directory.
type Input struct {
	Path    string
	Name    string
	ModTime time.Time
}

// RecentInputs lists the newest archives and .dcm files in dir (not recursive).
// A missing dir yields no inputs.
func RecentInputs(dir string) ([]Input, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []Input
	for _, e := range ents {
		if !e.Type().IsRegular() || !isCandidate(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Input{Path: filepath.Join(dir, e.Name()), Name: e.Name(), ModTime: info.ModTime()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.After(out[j].ModTime)
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > MaxRecent {
		out = out[:MaxRecent]
	}
	return out, nil
}

func isCandidate(name string) bool {
	return isArchive(name) || isSingle(name)
}

func isArchive(name string) bool {
	return slices.Contains(archiveExts, strings.ToLower(filepath.Ext(name)))
}

func isSingle(name string) bool {
	return slices.Contains(singleExts, strings.ToLower(filepath.Ext(name)))
}
