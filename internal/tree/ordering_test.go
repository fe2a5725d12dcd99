package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanMove_SameParentDown(t *testing.T) {
	// 0-A 1-B 2-C 3-D: move A (0) to position 2.
	shifts := PlanMove(MoveRequest{FromParent: "p", FromOrder: 0, ToParent: "p", ToOrder: 2})

	assert.Equal(t, []Shift{{Parent: "p", From: 1, To: 2, Delta: -1}}, shifts)
}

func TestPlanMove_SameParentUp(t *testing.T) {
	// 0-A 1-B 2-C 3-D: move D (3) to position 1.
	shifts := PlanMove(MoveRequest{FromParent: "p", FromOrder: 3, ToParent: "p", ToOrder: 1})

	assert.Equal(t, []Shift{{Parent: "p", From: 1, To: 2, Delta: 1}}, shifts)
}

func TestPlanMove_NoOp(t *testing.T) {
	req := MoveRequest{FromParent: "p", FromOrder: 2, ToParent: "p", ToOrder: 2}
	assert.True(t, req.NoOp())
	assert.Nil(t, PlanMove(req))
}

func TestPlanMove_CrossParent(t *testing.T) {
	shifts := PlanMove(MoveRequest{FromParent: "p", FromOrder: 1, ToParent: "q", ToOrder: 0})

	assert.Equal(t, []Shift{
		{Parent: "p", From: 1, To: Unbounded, Delta: -1},
		{Parent: "q", From: 0, To: Unbounded, Delta: 1},
	}, shifts)
}

func TestPlanMove_AdjacentSwap(t *testing.T) {
	shifts := PlanMove(MoveRequest{FromParent: "p", FromOrder: 0, ToParent: "p", ToOrder: 1})
	assert.Equal(t, []Shift{{Parent: "p", From: 1, To: 1, Delta: -1}}, shifts)

	shifts = PlanMove(MoveRequest{FromParent: "p", FromOrder: 1, ToParent: "p", ToOrder: 0})
	assert.Equal(t, []Shift{{Parent: "p", From: 0, To: 0, Delta: 1}}, shifts)
}

func TestPlanRemoval(t *testing.T) {
	shifts := PlanRemoval("p", 2)
	assert.Equal(t, []Shift{{Parent: "p", From: 3, To: Unbounded, Delta: -1}}, shifts)
}

func TestPlanInsertion(t *testing.T) {
	shifts := PlanInsertion("p", 1)
	assert.Equal(t, []Shift{{Parent: "p", From: 1, To: Unbounded, Delta: 1}}, shifts)
}

func TestClampOrder(t *testing.T) {
	assert.Equal(t, 0, ClampOrder(-5, 3))
	assert.Equal(t, 2, ClampOrder(2, 3))
	assert.Equal(t, 3, ClampOrder(9, 3))
	assert.Equal(t, 0, ClampOrder(0, 0))
}

// Applying a plan to an in-memory sibling group must always yield a
// contiguous 0..n-1 ordering.
func TestPlanMove_PreservesContiguity(t *testing.T) {
	type sibling struct {
		id    string
		order int
	}

	apply := func(sibs []sibling, shifts []Shift, parent string) []sibling {
		out := make([]sibling, len(sibs))
		copy(out, sibs)
		for _, sh := range shifts {
			if sh.Parent != parent {
				continue
			}
			for i := range out {
				if out[i].order >= sh.From && (sh.To == Unbounded || out[i].order <= sh.To) {
					out[i].order += sh.Delta
				}
			}
		}
		return out
	}

	group := []sibling{{"a", 0}, {"b", 1}, {"c", 2}, {"d", 3}, {"e", 4}}

	for from := 0; from < len(group); from++ {
		for to := 0; to < len(group); to++ {
			req := MoveRequest{FromParent: "p", FromOrder: from, ToParent: "p", ToOrder: to}
			moved := group[from].id

			out := apply(group, PlanMove(req), "p")
			for i := range out {
				if out[i].id == moved {
					out[i].order = to
				}
			}

			seen := make(map[int]bool, len(out))
			for _, s := range out {
				assert.False(t, seen[s.order], "duplicate order %d moving %d->%d", s.order, from, to)
				seen[s.order] = true
				assert.GreaterOrEqual(t, s.order, 0)
				assert.Less(t, s.order, len(out))
			}
		}
	}
}
