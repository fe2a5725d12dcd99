package service

import (
	"context"

	"github.com/minitello/minitello/internal/domain"
	"github.com/minitello/minitello/internal/repository"
)

// propagator recomputes progress values through the tree. It always runs on
// tx-scoped repositories so that a propagation either commits together with
// the mutation that triggered it or not at all.
//
// A step's stored progress is dual-use: for leaves it is the toggled value
// (exactly 0 or 1), for non-leaves it is the derived mean of the children.
// Downward propagation forces a 0/1 value onto a whole subtree; upward
// propagation re-derives every ancestor from its current child set. Down
// must finish before up starts, because up reads the values down just wrote.
type propagator struct {
	steps repository.StepRepo
}

// down sets progress on every descendant of stepID. The cascade stops
// naturally at leaves: a bulk write that touches zero rows ends the branch.
func (p propagator) down(ctx context.Context, stepID string, progress float64) error {
	n, err := p.steps.SetProgressByParent(ctx, stepID, progress)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	children, err := p.steps.ListByParent(ctx, stepID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := p.down(ctx, child.ID, progress); err != nil {
			return err
		}
	}
	return nil
}

// up walks from the step's parent to the project root, recomputing each
// ancestor's progress as the mean of its direct children and persisting
// the new value.
func (p propagator) up(ctx context.Context, from *domain.Step) error {
	current := from
	for !current.IsRoot() {
		parent, err := p.steps.GetByID(ctx, current.ParentOrProject())
		if err != nil {
			return err
		}
		children, err := p.steps.ListByParent(ctx, parent.ID)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			parent.Progress = meanProgress(children)
			if err := p.steps.SetProgress(ctx, parent.ID, parent.Progress); err != nil {
				return err
			}
		}
		current = parent
	}
	return nil
}

// recomputeAround restores progress consistency for a parent that just
// lost a child (move away or delete). If children remain, the parent and
// its ancestors are re-derived. An emptied parent becomes a leaf again, so
// a fractional derived value left behind is clamped to 0 before walking up;
// an exact 0 or 1 is kept as the new toggle value.
func (p propagator) recomputeAround(ctx context.Context, parentID string) error {
	parent, err := p.steps.GetByID(ctx, parentID)
	if err != nil {
		return err
	}
	children, err := p.steps.ListByParent(ctx, parentID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return p.up(ctx, children[0])
	}
	if parent.Progress != 0 && parent.Progress != 1 {
		parent.Progress = 0
		if err := p.steps.SetProgress(ctx, parent.ID, 0); err != nil {
			return err
		}
	}
	return p.up(ctx, parent)
}

func meanProgress(children []*domain.Step) float64 {
	var sum float64
	for _, c := range children {
		sum += c.Progress
	}
	return sum / float64(len(children))
}
