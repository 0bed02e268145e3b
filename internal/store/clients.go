package store

import (
	"errors"
	"os"
	"strings"

	"datsys/internal/model"
)

// NormalizeClientID uppercases and trims a client id.
func NormalizeClientID(id string) (string, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return "", errors.New("client id is empty")
	}
	if strings.ContainsAny(id, `-/\ `) {
		return "", errors.New("client id must not contain '-', '/', '\\' or spaces")
	}
	return id, nil
}

func (s Store) ClientExists(clientID string) bool {
	st, err := os.Stat(s.ClientDir(clientID))
	return err == nil && st.IsDir()
}

// LoadClient reads client_<ID>.json. A client directory without the file yields a bare client.
func (s Store) LoadClient(clientID string) (model.Client, error) {
	if !s.ClientExists(clientID) {
		return model.Client{}, NotFoundError{Kind: "client", ID: clientID}
	}
	var c model.Client
	if err := readJSON(s.clientPath(clientID), &c); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Client{ID: clientID}, nil
		}
		return model.Client{}, err
	}
	if c.ID == "" {
		c.ID = clientID
	}
	return c, nil
}

func (s Store) SaveClient(c model.Client) error {
	if _, err := NormalizeClientID(c.ID); err != nil {
		return err
	}
	return writeJSON(s.clientPath(c.ID), c)
}

// CreateClient creates the client directory and its JSON document.
func (s Store) CreateClient(id, name, contact string) (model.Client, error) {
	id, err := NormalizeClientID(id)
	if err != nil {
		return model.Client{}, err
	}
	if s.ClientExists(id) {
		return model.Client{}, ExistsError{Kind: "client", ID: id}
	}
	c := model.Client{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Contact:   strings.TrimSpace(contact),
		CreatedAt: s.timestamp(),
	}
	if err := os.MkdirAll(s.ClientDir(id), 0o755); err != nil {
		return model.Client{}, err
	}
	if err := s.SaveClient(c); err != nil {
		return model.Client{}, err
	}
	return c, nil
}
