// Package tree holds the pure, in-memory parts of the step-tree engine:
// assembling a hierarchy from flat step records and computing the sibling
// renumbering required by a move. Nothing in this package touches storage;
// the service layer applies its results inside a transaction.
package tree

import (
	"sort"

	"github.com/minitello/minitello/internal/domain"
)

// Node is a step with resolved hierarchy links. Children are held by id
// lookup in an arena map during construction, so the finished tree carries
// no cycles even when the underlying records are inconsistent.
type Node struct {
	*domain.Step
	Children []*Node
	Parent   *Node
}

// BuildOptions controls which hierarchy links Build resolves.
type BuildOptions struct {
	WithChildren bool
	WithParents  bool
}

// Build assembles a rooted hierarchy from a flat set of step records
// belonging to one project. Roots are steps whose parent is unset or points
// at the project root itself. Sibling slices are sorted by order index.
//
// Build runs in O(n): one pass fills the arena, a second pass links each
// step to its parent. Records whose parent id does not resolve are treated
// as roots rather than dropped. Acyclicity is not checked here; the
// mutation engine guarantees it on every write.
func Build(steps []*domain.Step, opts BuildOptions) []*Node {
	arena := make(map[string]*Node, len(steps))
	nodes := make([]*Node, 0, len(steps))
	for _, s := range steps {
		n := &Node{Step: s}
		arena[s.ID] = n
		nodes = append(nodes, n)
	}

	var roots []*Node
	for _, n := range nodes {
		if n.ParentStepID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := arena[*n.ParentStepID]
		if !ok {
			roots = append(roots, n)
			continue
		}
		if opts.WithChildren {
			parent.Children = append(parent.Children, n)
		}
		if opts.WithParents {
			n.Parent = parent
		}
	}

	if opts.WithChildren {
		for _, n := range nodes {
			sortByOrder(n.Children)
		}
	}
	sortByOrder(roots)
	return roots
}

// Flatten inverts Build: a depth-first walk emitting each node's step record,
// children in sibling order. Feeding the result back into Build reproduces
// the same parent and order relationships.
func Flatten(roots []*Node) []*domain.Step {
	var steps []*domain.Step
	var walk func(n *Node)
	walk = func(n *Node) {
		steps = append(steps, n.Step)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return steps
}

// Walk visits every node in depth-first sibling order, calling fn with the
// node and its depth (roots are depth 0).
func Walk(roots []*Node, fn func(n *Node, depth int)) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
}

func sortByOrder(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].OrderIndex < nodes[j].OrderIndex
	})
}
