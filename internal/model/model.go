package model

import (
	"fmt"
	"strings"
)

// TimestampLayout is the local, second-precision ISO timestamp stored in every JSON document.
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout is the date-only layout used for surgery and delivery dates.
const DateLayout = "2006-01-02"

type ProjectType string

const (
	ProjectTypePEEK    ProjectType = "PK"
	ProjectTypePLA     ProjectType = "PL"
	ProjectTypeArchive ProjectType = "AR"
)

// ProjectTypes lists the fixed type codes in menu order.
var ProjectTypes = []ProjectType{ProjectTypePEEK, ProjectTypePLA, ProjectTypeArchive}

func (t ProjectType) Label() string {
	switch t {
	case ProjectTypePEEK:
		return "PEEK"
	case ProjectTypePLA:
		return "PLA"
	case ProjectTypeArchive:
		return "Archive"
	default:
		return string(t)
	}
}

// ParseProjectType accepts a type code ("PK") or its 1-based menu number ("1").
func ParseProjectType(s string) (ProjectType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, t := range ProjectTypes {
		if s == string(t) || s == fmt.Sprintf("%d", i+1) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid project type: %q", s)
}

type Client struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	CreatedAt    string `json:"created_at"`
	ProjectCount int    `json:"project_count"`
}

// ProjectMeta is the minimal <project_id>.json written when a project is created.
type ProjectMeta struct {
	ID        string      `json:"id"`
	ClientID  string      `json:"client_id"`
	Type      ProjectType `json:"type"`
	CreatedAt string      `json:"created_at"`
}

// ClientIDFromProjectID returns the second "-" segment of a project id.
func ClientIDFromProjectID(projectID string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(projectID), "-")
	if len(parts) < 3 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
