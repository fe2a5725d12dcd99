package domain

import (
	"fmt"
	"time"
)

// MinNameLen is the minimum accepted length for step and project names.
const MinNameLen = 3

// Step is a node in a project hierarchy. The project itself is the root
// step of its own tree: its ProjectID equals its ID and it has no parent.
type Step struct {
	ID           string
	ProjectID    string
	ParentStepID *string
	Name         string
	Description  string
	OrderIndex   int
	Progress     float64
	CreatedByID  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsRoot reports whether the step is a project root.
func (s *Step) IsRoot() bool {
	return s.ParentStepID == nil || s.ProjectID == s.ID
}

// ParentOrProject returns the step's parent id, falling back to the project
// root for steps whose parent pointer was stored as the project itself.
func (s *Step) ParentOrProject() string {
	if s.ParentStepID != nil {
		return *s.ParentStepID
	}
	return s.ProjectID
}

// ValidateName checks the minimum-length constraint on step names.
func ValidateName(name string) error {
	if len(name) < MinNameLen {
		return fmt.Errorf("name must be at least %d characters long", MinNameLen)
	}
	return nil
}
