package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/minitello/minitello/internal/domain"
)

// Step options
type StepOption func(*domain.Step)

func WithOrder(i int) StepOption {
	return func(s *domain.Step) {
		s.OrderIndex = i
	}
}

func WithProgress(p float64) StepOption {
	return func(s *domain.Step) {
		s.Progress = p
	}
}

func WithDescription(d string) StepOption {
	return func(s *domain.Step) {
		s.Description = d
	}
}

// NewTestProject builds a project root step: its ProjectID equals its ID
// and it has no parent.
func NewTestProject(name string, opts ...StepOption) *domain.Step {
	now := time.Now().UTC()
	id := uuid.New().String()
	p := &domain.Step{
		ID:          id,
		ProjectID:   id,
		Name:        name,
		OrderIndex:  0,
		Progress:    0,
		CreatedByID: "test-user",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestStep builds a leaf step under the given parent.
func NewTestStep(projectID, parentID, name string, opts ...StepOption) *domain.Step {
	now := time.Now().UTC()
	s := &domain.Step{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		ParentStepID: &parentID,
		Name:         name,
		OrderIndex:   0,
		Progress:     0,
		CreatedByID:  "test-user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestMembership builds a membership row, MANAGER by default.
func NewTestMembership(projectID, userID string, role ...domain.Role) *domain.Membership {
	r := domain.RoleManager
	if len(role) > 0 {
		r = role[0]
	}
	return &domain.Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      r,
		CreatedAt: time.Now().UTC(),
	}
}
