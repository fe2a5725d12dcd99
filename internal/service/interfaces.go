package service

import (
	"context"

	"github.com/minitello/minitello/internal/domain"
	"github.com/minitello/minitello/internal/tree"
)

// CreateStepRequest carries the fields for inserting a new leaf step.
// A nil Order appends at the end of the parent's children; an explicit
// order opens a slot at that position (clamped to the valid range).
type CreateStepRequest struct {
	ProjectID    string
	ParentStepID string
	Name         string
	Description  string
	CreatedByID  string
	Order        *int
}

// MoveStepRequest carries the destination of a reorder or reparent.
// Nesting under a former sibling is expressed by the caller setting
// NewParentID to that sibling's id and NewOrder to 0.
type MoveStepRequest struct {
	ProjectID   string
	StepID      string
	NewParentID string
	NewOrder    int
}

type StepService interface {
	Create(ctx context.Context, req CreateStepRequest) (*domain.Step, error)
	GetByID(ctx context.Context, id string) (*domain.Step, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Step, error)
	ToggleProgress(ctx context.Context, projectID, stepID string) (*domain.Step, error)
	Move(ctx context.Context, req MoveStepRequest) (*domain.Step, error)
	Delete(ctx context.Context, projectID, stepID string) error
	GetProjectTree(ctx context.Context, projectID, userID string) ([]*tree.Node, error)
}

type ProjectService interface {
	Create(ctx context.Context, name, description, ownerID string) (*domain.Step, error)
	GetByID(ctx context.Context, projectID string) (*domain.Step, error)
	Update(ctx context.Context, projectID, name, description string) (*domain.Step, error)
	Delete(ctx context.Context, projectID, userID string) error
	List(ctx context.Context, userID string) ([]*domain.Step, error)
	Members(ctx context.Context, projectID string) ([]*domain.Membership, error)
}
