package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minitello/minitello/internal/db"
	"github.com/minitello/minitello/internal/domain"
	"github.com/minitello/minitello/internal/repository"
)

type projectService struct {
	steps    repository.StepRepo
	members  repository.MembershipRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewProjectService creates the project lifecycle service. A project is the
// root step of its tree: creation writes the root row plus a MANAGER
// membership, deletion removes the whole tree plus all membership rows.
func NewProjectService(steps repository.StepRepo, members repository.MembershipRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		steps:    steps,
		members:  members,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, name, description, ownerID string) (*domain.Step, error) {
	start := time.Now()

	if err := domain.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	root := &domain.Step{
		ID:          id,
		ProjectID:   id, // a root is its own project
		Name:        name,
		Description: description,
		OrderIndex:  0,
		Progress:    0,
		CreatedByID: ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSteps := repository.NewSQLiteStepRepo(tx)
		txMembers := repository.NewSQLiteMembershipRepo(tx)

		if err := txSteps.Create(ctx, root); err != nil {
			return err
		}
		return txMembers.Create(ctx, &domain.Membership{
			ProjectID: id,
			UserID:    ownerID,
			Role:      domain.RoleManager,
			CreatedAt: now,
		})
	})

	err = classifyStoreErr(err)
	observe(ctx, s.observer, "project_create", start, err, map[string]any{"project_id": id})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (s *projectService) GetByID(ctx context.Context, projectID string) (*domain.Step, error) {
	root, err := s.steps.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !root.IsRoot() {
		return nil, fmt.Errorf("%w: step %s is not a project root", ErrValidation, projectID)
	}
	return root, nil
}

func (s *projectService) Update(ctx context.Context, projectID, name, description string) (*domain.Step, error) {
	start := time.Now()

	if err := domain.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var root *domain.Step
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSteps := repository.NewSQLiteStepRepo(tx)

		var err error
		root, err = txSteps.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if !root.IsRoot() {
			return fmt.Errorf("%w: step %s is not a project root", ErrValidation, projectID)
		}
		root.Name = name
		root.Description = description
		root.UpdatedAt = time.Now().UTC()
		return txSteps.Update(ctx, root)
	})

	err = classifyStoreErr(err)
	observe(ctx, s.observer, "project_update", start, err, map[string]any{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (s *projectService) Delete(ctx context.Context, projectID, userID string) error {
	start := time.Now()

	err := func() error {
		membership, err := s.members.Get(ctx, projectID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAccessDenied
			}
			return err
		}
		if !membership.IsManager() {
			return ErrAccessDenied
		}

		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txSteps := repository.NewSQLiteStepRepo(tx)
			txMembers := repository.NewSQLiteMembershipRepo(tx)

			if _, err := txMembers.DeleteByProject(ctx, projectID); err != nil {
				return err
			}
			steps, err := txSteps.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(steps))
			for _, st := range steps {
				ids = append(ids, st.ID)
			}
			if _, err := txSteps.DeleteByIDs(ctx, ids); err != nil {
				return err
			}
			return nil
		})
	}()

	err = classifyStoreErr(err)
	observe(ctx, s.observer, "project_delete", start, err, map[string]any{"project_id": projectID})
	return err
}

func (s *projectService) List(ctx context.Context, userID string) ([]*domain.Step, error) {
	return s.steps.ListRoots(ctx, userID)
}

func (s *projectService) Members(ctx context.Context, projectID string) ([]*domain.Membership, error) {
	return s.members.ListByProject(ctx, projectID)
}
