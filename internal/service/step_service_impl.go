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
	"github.com/minitello/minitello/internal/tree"
)

type stepService struct {
	steps    repository.StepRepo
	members  repository.MembershipRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewStepService creates the step-tree engine façade. All multi-row write
// paths run inside a single transaction via the unit of work; reads go
// straight to the store.
func NewStepService(steps repository.StepRepo, members repository.MembershipRepo, uow db.UnitOfWork, observers ...UseCaseObserver) StepService {
	return &stepService{
		steps:    steps,
		members:  members,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *stepService) Create(ctx context.Context, req CreateStepRequest) (*domain.Step, error) {
	start := time.Now()

	if err := domain.ValidateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	step := &domain.Step{
		ID:           uuid.New().String(),
		ProjectID:    req.ProjectID,
		ParentStepID: &req.ParentStepID,
		Name:         req.Name,
		Description:  req.Description,
		Progress:     0,
		CreatedByID:  req.CreatedByID,
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSteps := repository.NewSQLiteStepRepo(tx)

		if _, err := txSteps.GetByID(ctx, req.ProjectID); err != nil {
			return fmt.Errorf("project: %w", err)
		}
		parent, err := txSteps.GetByID(ctx, req.ParentStepID)
		if err != nil {
			return fmt.Errorf("parent: %w", err)
		}
		if parent.ProjectID != req.ProjectID && parent.ID != req.ProjectID {
			return ErrInvalidParent
		}

		count, err := txSteps.CountChildren(ctx, req.ParentStepID)
		if err != nil {
			return err
		}
		order := count
		if req.Order != nil {
			order = tree.ClampOrder(*req.Order, count)
		}
		// An explicit position inside the existing range needs a slot opened
		// so sibling orders stay contiguous.
		if order < count {
			for _, shift := range tree.PlanInsertion(req.ParentStepID, order) {
				if _, err := txSteps.ShiftOrderRange(ctx, shift.Parent, repository.OrderFilter{From: shift.From, To: shift.To}, shift.Delta); err != nil {
					return err
				}
			}
		}

		now := time.Now().UTC()
		step.OrderIndex = order
		step.CreatedAt = now
		step.UpdatedAt = now
		if err := txSteps.Create(ctx, step); err != nil {
			return err
		}

		// A parent gaining its first child switches from toggled to derived
		// progress, so the ancestor chain must be re-derived immediately.
		return propagator{steps: txSteps}.up(ctx, step)
	})

	err = classifyStoreErr(err)
	observe(ctx, s.observer, "step_create", start, err, map[string]any{
		"project_id": req.ProjectID,
		"parent_id":  req.ParentStepID,
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

func (s *stepService) GetByID(ctx context.Context, id string) (*domain.Step, error) {
	return s.steps.GetByID(ctx, id)
}

func (s *stepService) ListChildren(ctx context.Context, parentID string) ([]*domain.Step, error) {
	return s.steps.ListByParent(ctx, parentID)
}

// ToggleProgress flips a step between 0 and 1 and cascades the value down,
// then re-derives the ancestor chain. Toggling a non-leaf forces the whole
// subtree to the flipped value; the step's own stored value is then
// re-derived from its children and therefore settles on the same number.
func (s *stepService) ToggleProgress(ctx context.Context, projectID, stepID string) (*domain.Step, error) {
	start := time.Now()
	var toggled *domain.Step

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSteps := repository.NewSQLiteStepRepo(tx)

		step, err := txSteps.GetByID(ctx, stepID)
		if err != nil {
			return err
		}
		if step.ProjectID != projectID {
			return ErrInvalidParent
		}

		flipped := 1.0
		if step.Progress == 1 {
			flipped = 0
		}
		if err := txSteps.SetProgress(ctx, step.ID, flipped); err != nil {
			return err
		}

		prop := propagator{steps: txSteps}
		if err := prop.down(ctx, step.ID, flipped); err != nil {
			return err
		}
		if err := prop.up(ctx, step); err != nil {
			return err
		}

		toggled, err = txSteps.GetByID(ctx, stepID)
		return err
	})

	err = classifyStoreErr(err)
	observe(ctx, s.observer, "step_toggle", start, err, map[string]any{
		"project_id": projectID,
		"step_id":    stepID,
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

func (s *stepService) Move(ctx context.Context, req MoveStepRequest) (*domain.Step, error) {
	start := time.Now()
	var moved *domain.Step

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSteps := repository.NewSQLiteStepRepo(tx)

		step, err := txSteps.GetByID(ctx, req.StepID)
		if err != nil {
			return err
		}
		if step.ProjectID != req.ProjectID {
			return ErrInvalidParent
		}
		if step.IsRoot() {
			return fmt.Errorf("%w: project root cannot be moved", ErrValidation)
		}

		newParent, err := txSteps.GetByID(ctx, req.NewParentID)
		if err != nil {
			return fmt.Errorf("new parent: %w", err)
		}
		if newParent.ProjectID != req.ProjectID && newParent.ID != req.ProjectID {
			return ErrInvalidParent
		}
		if err := checkNoCycle(ctx, txSteps, step.ID, newParent); err != nil {
			return err
		}

		fromParent := step.ParentOrProject()
		count, err := txSteps.CountChildren(ctx, req.NewParentID)
		if err != nil {
			return err
		}
		maxOrder := count
		if fromParent == req.NewParentID {
			maxOrder = count - 1
		}
		newOrder := tree.ClampOrder(req.NewOrder, maxOrder)

		moveReq := tree.MoveRequest{
			FromParent: fromParent,
			FromOrder:  step.OrderIndex,
			ToParent:   req.NewParentID,
			ToOrder:    newOrder,
		}
		if moveReq.NoOp() {
			moved = step
			return nil
		}

		for _, shift := range tree.PlanMove(moveReq) {
			if _, err := txSteps.ShiftOrderRange(ctx, shift.Parent, repository.OrderFilter{From: shift.From, To: shift.To}, shift.Delta); err != nil {
				return err
			}
		}
		if err := txSteps.SetParentAndOrder(ctx, step.ID, req.NewParentID, newOrder); err != nil {
			return err
		}

		relocated := *step
		relocated.ParentStepID = &req.NewParentID
		relocated.OrderIndex = newOrder

		prop := propagator{steps: txSteps}
		if err := prop.up(ctx, &relocated); err != nil {
			return err
		}
		// The source subtree lost a member; its chain is corrected separately.
		if !moveReq.SameParent() {
			if err := prop.recomputeAround(ctx, fromParent); err != nil {
				return err
			}
		}

		moved, err = txSteps.GetByID(ctx, step.ID)
		return err
	})

	err = classifyStoreErr(err)
	observe(ctx, s.observer, "step_move", start, err, map[string]any{
		"project_id": req.ProjectID,
		"step_id":    req.StepID,
		"new_parent": req.NewParentID,
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

func (s *stepService) Delete(ctx context.Context, projectID, stepID string) error {
	start := time.Now()

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSteps := repository.NewSQLiteStepRepo(tx)

		step, err := txSteps.GetByID(ctx, stepID)
		if err != nil {
			return err
		}
		if step.ProjectID != projectID {
			return ErrInvalidParent
		}
		if step.IsRoot() {
			return fmt.Errorf("%w: project root is deleted with its project", ErrValidation)
		}

		ids, err := collectSubtreeIDs(ctx, txSteps, step.ID)
		if err != nil {
			return err
		}
		if _, err := txSteps.DeleteByIDs(ctx, ids); err != nil {
			return err
		}

		fromParent := step.ParentOrProject()
		for _, shift := range tree.PlanRemoval(fromParent, step.OrderIndex) {
			if _, err := txSteps.ShiftOrderRange(ctx, shift.Parent, repository.OrderFilter{From: shift.From, To: shift.To}, shift.Delta); err != nil {
				return err
			}
		}

		return propagator{steps: txSteps}.recomputeAround(ctx, fromParent)
	})

	err = classifyStoreErr(err)
	observe(ctx, s.observer, "step_delete", start, err, map[string]any{
		"project_id": projectID,
		"step_id":    stepID,
	})
	return err
}

func (s *stepService) GetProjectTree(ctx context.Context, projectID, userID string) ([]*tree.Node, error) {
	if _, err := s.members.Get(ctx, projectID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, classifyStoreErr(err)
	}
	if _, err := s.steps.GetByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	steps, err := s.steps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	return tree.Build(steps, tree.BuildOptions{WithChildren: true, WithParents: true}), nil
}

// checkNoCycle rejects a destination that is the moved step itself or any
// of its descendants, by walking the destination's ancestor chain up to
// the project root.
func checkNoCycle(ctx context.Context, steps repository.StepRepo, stepID string, newParent *domain.Step) error {
	if newParent.ID == stepID {
		return ErrCycle
	}
	current := newParent
	for !current.IsRoot() {
		parentID := current.ParentOrProject()
		if parentID == stepID {
			return ErrCycle
		}
		parent, err := steps.GetByID(ctx, parentID)
		if err != nil {
			return fmt.Errorf("walking ancestors: %w", err)
		}
		current = parent
	}
	return nil
}

// collectSubtreeIDs gathers a step's id together with every transitive
// descendant id, breadth-first.
func collectSubtreeIDs(ctx context.Context, steps repository.StepRepo, rootID string) ([]string, error) {
	ids := []string{rootID}
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		children, err := steps.ListByParent(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			ids = append(ids, c.ID)
			queue = append(queue, c.ID)
		}
	}
	return ids, nil
}
