package store

import (
	"fmt"
	"os"

	"datsys/internal/model"
)

type CreateProjectResult struct {
	Ref    ProjectRef
	Meta   model.ProjectMeta
	Client model.Client
}

// CreateProject increments the client's project counter, creates the project directory and
// its metadata, and initializes peekCase.json for PEEK projects.
// The client must already exist.
func (s Store) CreateProject(clientID string, typ model.ProjectType) (CreateProjectResult, error) {
	clientID, err := NormalizeClientID(clientID)
	if err != nil {
		return CreateProjectResult{}, err
	}
	if _, err := model.ParseProjectType(string(typ)); err != nil {
		return CreateProjectResult{}, err
	}
	client, err := s.LoadClient(clientID)
	if err != nil {
		return CreateProjectResult{}, err
	}

	now := s.now()
	code, err := DateCode(now)
	if err != nil {
		return CreateProjectResult{}, err
	}

	// Persist the counter first so a failed project write never reuses a sequence number.
	client.ProjectCount++
	if err := s.SaveClient(client); err != nil {
		return CreateProjectResult{}, err
	}

	projectID := fmt.Sprintf("%s-%s-%s%d", code, clientID, typ, client.ProjectCount)
	ref, err := s.Ref(projectID)
	if err != nil {
		return CreateProjectResult{}, err
	}
	if _, err := os.Stat(ref.Dir); err == nil {
		return CreateProjectResult{}, ExistsError{Kind: "project", ID: projectID}
	}
	if err := os.MkdirAll(ref.Dir, 0o755); err != nil {
		return CreateProjectResult{}, err
	}

	meta := model.ProjectMeta{
		ID:        projectID,
		ClientID:  clientID,
		Type:      typ,
		CreatedAt: now.Format(model.TimestampLayout),
	}
	if err := writeJSON(ref.MetaPath(), meta); err != nil {
		return CreateProjectResult{}, err
	}

	if typ == model.ProjectTypePEEK {
		if _, err := s.InitCase(ref, ""); err != nil {
			return CreateProjectResult{}, err
		}
	}
	return CreateProjectResult{Ref: ref, Meta: meta, Client: client}, nil
}

func (s Store) LoadProjectMeta(ref ProjectRef) (model.ProjectMeta, error) {
	var m model.ProjectMeta
	if err := readJSON(ref.MetaPath(), &m); err != nil {
		return model.ProjectMeta{}, err
	}
	return m, nil
}
