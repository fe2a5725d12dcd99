package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/minitello/minitello/internal/domain"
	"github.com/minitello/minitello/internal/repository"
	"github.com/minitello/minitello/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

type engineFixture struct {
	db       *sql.DB
	steps    repository.StepRepo
	members  repository.MembershipRepo
	stepSvc  StepService
	projects ProjectService
}

func newEngine(t *testing.T) *engineFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	stepRepo := repository.NewSQLiteStepRepo(database)
	memberRepo := repository.NewSQLiteMembershipRepo(database)
	uow := testutil.NewTestUoW(database)
	return &engineFixture{
		db:       database,
		steps:    stepRepo,
		members:  memberRepo,
		stepSvc:  NewStepService(stepRepo, memberRepo, uow),
		projects: NewProjectService(stepRepo, memberRepo, uow),
	}
}

// newProject creates a project owned by testUser and returns its root.
func (f *engineFixture) newProject(t *testing.T, name string) *domain.Step {
	t.Helper()
	root, err := f.projects.Create(context.Background(), name, "", testUser)
	require.NoError(t, err)
	return root
}

// addStep creates a step appended under the given parent.
func (f *engineFixture) addStep(t *testing.T, projectID, parentID, name string) *domain.Step {
	t.Helper()
	step, err := f.stepSvc.Create(context.Background(), CreateStepRequest{
		ProjectID:    projectID,
		ParentStepID: parentID,
		Name:         name,
		CreatedByID:  testUser,
	})
	require.NoError(t, err)
	return step
}

// mustGet re-reads a step.
func (f *engineFixture) mustGet(t *testing.T, id string) *domain.Step {
	t.Helper()
	step, err := f.steps.GetByID(context.Background(), id)
	require.NoError(t, err)
	return step
}

// assertSiblingOrders verifies one sibling group holds exactly the given
// children in the given order, with order indexes running 0..n-1.
func (f *engineFixture) assertSiblingOrders(t *testing.T, parentID string, wantIDs ...string) {
	t.Helper()
	children, err := f.steps.ListByParent(context.Background(), parentID)
	require.NoError(t, err)
	require.Len(t, children, len(wantIDs))

	var orders []int
	for _, c := range children {
		orders = append(orders, c.OrderIndex)
	}
	sort.Ints(orders)
	for i, o := range orders {
		assert.Equal(t, i, o, "sibling orders of %s must be contiguous, got %v", parentID, orders)
	}
	for i, id := range wantIDs {
		assert.Equal(t, id, children[i].ID, "child at position %d", i)
	}
}

// assertProgressConsistent verifies progress across a whole project: every
// non-leaf's progress equals the mean of its children, and every leaf's
// progress is exactly 0 or 1.
func (f *engineFixture) assertProgressConsistent(t *testing.T, projectID string) {
	t.Helper()
	ctx := context.Background()
	all, err := f.steps.ListByProject(ctx, projectID)
	require.NoError(t, err)

	childrenOf := map[string][]*domain.Step{}
	for _, s := range all {
		if s.ParentStepID != nil {
			childrenOf[*s.ParentStepID] = append(childrenOf[*s.ParentStepID], s)
		}
	}
	for _, s := range all {
		children := childrenOf[s.ID]
		if len(children) == 0 {
			assert.Contains(t, []float64{0, 1}, s.Progress, "leaf %s progress must be 0 or 1", s.Name)
			continue
		}
		var sum float64
		for _, c := range children {
			sum += c.Progress
		}
		assert.InDelta(t, sum/float64(len(children)), s.Progress, 1e-9,
			"non-leaf %s progress must equal mean of children", s.Name)
	}
}

// snapshot captures every step row of a project for byte-for-byte
// comparison across a supposed no-op.
func (f *engineFixture) snapshot(t *testing.T, projectID string) map[string]domain.Step {
	t.Helper()
	all, err := f.steps.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	snap := make(map[string]domain.Step, len(all))
	for _, s := range all {
		snap[s.ID] = *s
	}
	return snap
}
