package store

import (
	"errors"
	"os"
	"strings"

	"datsys/internal/model"
)

func (s Store) CaseExists(ref ProjectRef) bool {
	st, err := os.Stat(ref.CasePath())
	return err == nil && st.Mode().IsRegular()
}

// LoadCase reads peekCase.json, migrating older schemas in memory. case.Migrated reports
// whether the on-disk document differs from the canonical schema.
func (s Store) LoadCase(ref ProjectRef) (model.PeekCase, error) {
	var c model.PeekCase
	if err := readJSON(ref.CasePath(), &c); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.PeekCase{}, NotFoundError{Kind: "case", ID: ref.ProjectID}
		}
		return model.PeekCase{}, err
	}
	if c.IDCaso == "" {
		c.IDCaso = ref.ProjectID
		c.Migrated = true
	}
	return c, nil
}

// SaveCase stamps actualizado_en and writes the case atomically.
func (s Store) SaveCase(ref ProjectRef, c model.PeekCase) error {
	c.ActualizadoEn = s.timestamp()
	if c.CreadoEn == "" {
		c.CreadoEn = c.ActualizadoEn
	}
	return writeJSON(ref.CasePath(), c)
}

// InitCase writes a fresh case for ref unless one exists. The doctor name comes from the
// owning client. It reports whether a file was created.
func (s Store) InitCase(ref ProjectRef, patientName string) (bool, error) {
	if s.CaseExists(ref) {
		return false, nil
	}
	c := model.NewPeekCase()
	c.IDCaso = ref.ProjectID
	if client, err := s.LoadClient(ref.ClientID); err == nil {
		c.NombreDoctor = client.Name
	}
	c.NombrePaciente = strings.TrimSpace(patientName)
	ts := s.timestamp()
	c.CreadoEn = ts
	c.ActualizadoEn = ts
	if err := writeJSON(ref.CasePath(), c); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateCase loads, mutates and saves a case in one step.
func (s Store) UpdateCase(ref ProjectRef, fn func(*model.PeekCase) error) (model.PeekCase, error) {
	c, err := s.LoadCase(ref)
	if err != nil {
		return model.PeekCase{}, err
	}
	if err := fn(&c); err != nil {
		return model.PeekCase{}, err
	}
	if err := s.SaveCase(ref, c); err != nil {
		return model.PeekCase{}, err
	}
	return c, nil
}

// SetStage updates estado_caso and appends a STAGE log line. The case JSON is written first;
// if the log append fails the JSON already holds the new stage.
func (s Store) SetStage(ref ProjectRef, stage, message string) (model.PeekCase, error) {
	stage = strings.TrimSpace(stage)
	if stage == "" {
		return model.PeekCase{}, errors.New("stage is empty")
	}
	c, err := s.UpdateCase(ref, func(c *model.PeekCase) error {
		c.EstadoCaso = stage
		return nil
	})
	if err != nil {
		return model.PeekCase{}, err
	}
	if err := s.AppendLog(ref, StageLogMessage(stage, message)); err != nil {
		return c, err
	}
	return c, nil
}

// MigrateCases rewrites every case file that is not in the canonical schema.
func (s Store) MigrateCases() ([]ProjectRef, error) {
	clients, err := s.ListClients()
	if err != nil {
		return nil, err
	}
	var out []ProjectRef
	for _, clientID := range clients {
		refs, err := s.ListProjects(clientID)
		if err != nil {
			return out, err
		}
		for _, ref := range refs {
			if !s.CaseExists(ref) {
				continue
			}
			c, err := s.LoadCase(ref)
			if err != nil {
				return out, err
			}
			if !c.Migrated {
				continue
			}
			if err := writeJSON(ref.CasePath(), c); err != nil {
				return out, err
			}
			out = append(out, ref)
		}
	}
	return out, nil
}
