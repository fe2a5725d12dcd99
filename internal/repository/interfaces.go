package repository

import (
	"context"

	"github.com/minitello/minitello/internal/domain"
)

// OrderFilter selects a contiguous range of sibling order values.
// To < 0 means unbounded (every sibling at From or later).
type OrderFilter struct {
	From int
	To   int
}

type StepRepo interface {
	Create(ctx context.Context, s *domain.Step) error
	GetByID(ctx context.Context, id string) (*domain.Step, error)
	ListByParent(ctx context.Context, parentID string) ([]*domain.Step, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Step, error)
	ListRoots(ctx context.Context, userID string) ([]*domain.Step, error)
	CountChildren(ctx context.Context, parentID string) (int, error)
	Update(ctx context.Context, s *domain.Step) error
	SetOrder(ctx context.Context, id string, order int) error
	SetParentAndOrder(ctx context.Context, id, parentID string, order int) error
	SetProgress(ctx context.Context, id string, progress float64) error
	ShiftOrderRange(ctx context.Context, parentID string, f OrderFilter, delta int) (int, error)
	SetProgressByParent(ctx context.Context, parentID string, progress float64) (int, error)
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
}

type MembershipRepo interface {
	Create(ctx context.Context, m *domain.Membership) error
	Get(ctx context.Context, projectID, userID string) (*domain.Membership, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error)
	DeleteByProject(ctx context.Context, projectID string) (int, error)
}
