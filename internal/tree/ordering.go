package tree

// MoveRequest describes a step changing position: its current parent and
// order, and the destination parent and order. A "nest under this sibling"
// drop is expressed by the caller as ToParent = sibling id, ToOrder = 0;
// it is never inferred from the numbers here.
type MoveRequest struct {
	FromParent string
	FromOrder  int
	ToParent   string
	ToOrder    int
}

// SameParent reports whether the move stays within one sibling group.
func (m MoveRequest) SameParent() bool {
	return m.FromParent == m.ToParent
}

// NoOp reports whether the move leaves the step exactly where it is.
func (m MoveRequest) NoOp() bool {
	return m.SameParent() && m.FromOrder == m.ToOrder
}

// Shift is one range update over a sibling group: add Delta to the order of
// every child of Parent whose order lies in [From, To]. To < 0 means the
// range is unbounded above.
type Shift struct {
	Parent string
	From   int
	To     int
	Delta  int
}

// Unbounded marks a Shift range with no upper limit.
const Unbounded = -1

// PlanMove computes the range updates that keep sibling order contiguous
// (no gaps, no duplicates) across a move. The caller applies every shift
// and then writes the moved step's new parent and order, all inside one
// transaction: a partially applied plan is never an observable state.
//
// Same-parent moves shift only the siblings between the two positions:
// moving down (from < to) pulls (from, to] back by one, moving up shifts
// [to, from) forward by one. Cross-parent moves close the gap left behind
// (old siblings at >= from shift -1) and open a slot at the destination
// (new siblings at >= to shift +1).
func PlanMove(req MoveRequest) []Shift {
	if req.NoOp() {
		return nil
	}

	if req.SameParent() {
		if req.FromOrder < req.ToOrder {
			return []Shift{{
				Parent: req.FromParent,
				From:   req.FromOrder + 1,
				To:     req.ToOrder,
				Delta:  -1,
			}}
		}
		return []Shift{{
			Parent: req.FromParent,
			From:   req.ToOrder,
			To:     req.FromOrder - 1,
			Delta:  1,
		}}
	}

	return []Shift{
		{Parent: req.FromParent, From: req.FromOrder, To: Unbounded, Delta: -1},
		{Parent: req.ToParent, From: req.ToOrder, To: Unbounded, Delta: 1},
	}
}

// PlanRemoval computes the shift that closes the order gap left by deleting
// a step at the given position.
func PlanRemoval(parent string, order int) []Shift {
	return []Shift{{Parent: parent, From: order + 1, To: Unbounded, Delta: -1}}
}

// PlanInsertion computes the shift that opens a slot for inserting a step
// at the given position.
func PlanInsertion(parent string, order int) []Shift {
	return []Shift{{Parent: parent, From: order, To: Unbounded, Delta: 1}}
}

// ClampOrder bounds a requested order to the valid insertion range for a
// sibling group of the given size.
func ClampOrder(order, childCount int) int {
	if order < 0 {
		return 0
	}
	if order > childCount {
		return childCount
	}
	return order
}
