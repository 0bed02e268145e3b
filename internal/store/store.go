package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"datsys/internal/model"
)

const (
	CaseFileName  = "peekCase.json"
	LogFileName   = "Log.txt"
	DICOMDirName  = "DICOM"
	BlenderDir    = "Blender"
	SegmentsDir   = "3DSlicer/Segmentations"
	clientFilePfx = "client_"
)

// Store reads and writes the clients/<client>/<project>/ tree.
// It is not safe for concurrent writers: project counters and case files are read-modify-write.
type Store struct {
	ClientsDir string

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// ProjectRef identifies a project directory on disk.
type ProjectRef struct {
	ClientID  string `json:"client_id"`
	ProjectID string `json:"project_id"`
	Dir       string `json:"dir"`
}

func (r ProjectRef) CasePath() string   { return filepath.Join(r.Dir, CaseFileName) }
func (r ProjectRef) LogPath() string    { return filepath.Join(r.Dir, LogFileName) }
func (r ProjectRef) DICOMDir() string   { return filepath.Join(r.Dir, DICOMDirName) }
func (r ProjectRef) MetaPath() string   { return filepath.Join(r.Dir, r.ProjectID+".json") }
func (r ProjectRef) SegmentsDir() string {
	return filepath.Join(r.Dir, filepath.FromSlash(SegmentsDir))
}
func (r ProjectRef) BlendFile() string {
	return filepath.Join(r.Dir, BlenderDir, r.ProjectID+".blend")
}

func (s Store) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s Store) timestamp() string {
	return s.now().Format(model.TimestampLayout)
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.ClientsDir) == "" {
		return errors.New("clients dir is not configured")
	}
	return os.MkdirAll(s.ClientsDir, 0o755)
}

func (s Store) ClientDir(clientID string) string {
	return filepath.Join(s.ClientsDir, clientID)
}

func (s Store) clientPath(clientID string) string {
	return filepath.Join(s.ClientDir(clientID), clientFilePfx+clientID+".json")
}

// Ref builds a ProjectRef without touching the disk.
func (s Store) Ref(projectID string) (ProjectRef, error) {
	projectID = strings.TrimSpace(projectID)
	clientID, ok := model.ClientIDFromProjectID(projectID)
	if !ok {
		return ProjectRef{}, fmt.Errorf("malformed project id: %q", projectID)
	}
	return ProjectRef{
		ClientID:  clientID,
		ProjectID: projectID,
		Dir:       filepath.Join(s.ClientDir(clientID), projectID),
	}, nil
}

// Resolve returns the ref of an existing project directory.
func (s Store) Resolve(projectID string) (ProjectRef, error) {
	ref, err := s.Ref(projectID)
	if err != nil {
		return ProjectRef{}, err
	}
	st, err := os.Stat(ref.Dir)
	if err != nil || !st.IsDir() {
		return ProjectRef{}, NotFoundError{Kind: "project", ID: projectID}
	}
	return ref, nil
}

// ListDirs returns the names of the subdirectories of dir in lexical order.
// A missing dir yields an empty list.
func ListDirs(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s Store) ListClients() ([]string, error) {
	return ListDirs(s.ClientsDir)
}

// ListProjects returns refs for every project directory of a client.
func (s Store) ListProjects(clientID string) ([]ProjectRef, error) {
	names, err := ListDirs(s.ClientDir(clientID))
	if err != nil {
		return nil, err
	}
	out := make([]ProjectRef, 0, len(names))
	for _, name := range names {
		out = append(out, ProjectRef{
			ClientID:  clientID,
			ProjectID: name,
			Dir:       filepath.Join(s.ClientDir(clientID), name),
		})
	}
	return out, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return WriteFile(path, append(b, '\n'))
}
