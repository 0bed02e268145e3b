package shell

import (
	"context"
	"fmt"
	"strings"

	"datsys/internal/model"
	"datsys/internal/store"
)

// newProject asks for a client and a project type, creating the client on first use.
// An empty client ID or a declined confirmation returns without changes.
func (s *Shell) newProject(ctx context.Context) error {
	raw := strings.ToUpper(s.prompt("Enter client ID: "))
	if raw == "" {
		return nil
	}
	clientID, err := store.NormalizeClientID(raw)
	if err != nil {
		return err
	}

	if !s.Store.ClientExists(clientID) {
		fmt.Fprintln(s.out, "New client detected.")
		name := s.prompt("Client full name: ")
		contact := s.prompt("Contact info: ")
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Store.CreateClient(clientID, name, contact); err != nil {
			return err
		}
		s.Logger.Info("client created", "client", clientID)
	} else {
		c, err := s.Store.LoadClient(clientID)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Client found: %s (%s)\n", c.Name, clientID)
		if strings.ToLower(s.prompt("Continue? [y/N]: ")) != "y" {
			return nil
		}
	}

	fmt.Fprintln(s.out, "\nProject type:")
	for i, t := range model.ProjectTypes {
		fmt.Fprintf(s.out, "[%d] %s - %s\n", i+1, t, t.Label())
	}
	answer := s.prompt("> ")
	if answer == "" {
		return nil
	}
	typ, err := model.ParseProjectType(answer)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := s.Store.CreateProject(clientID, typ)
	if err != nil {
		return err
	}
	s.Logger.Info("project created", "project", res.Ref.ProjectID, "type", typ)
	fmt.Fprintf(s.out, "\nProject created: %s\n", res.Ref.ProjectID)
	return nil
}
