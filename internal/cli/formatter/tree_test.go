package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTree_Empty(t *testing.T) {
	assert.Equal(t, "", RenderTree(nil))
}

func TestRenderTree_Connectors(t *testing.T) {
	out := RenderTree([]TreeItem{
		{Title: "My project", Level: 0, Progress: 0.5},
		{Title: "Step A", Level: 1, Progress: 1, Leaf: true},
		{Title: "Step B", Level: 1, IsLast: true, Progress: 0, Leaf: true},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "My project")
	assert.NotContains(t, lines[0], treeBranch, "root has no connector")

	assert.Contains(t, lines[1], treeBranch)
	assert.Contains(t, lines[1], "✔", "done step gets a check mark")

	assert.Contains(t, lines[2], treeCorner, "last sibling uses the corner connector")
}

func TestRenderTree_DeepNestingUsesPipes(t *testing.T) {
	out := RenderTree([]TreeItem{
		{Title: "Root", Level: 0},
		{Title: "Mid", Level: 1, IsLast: true},
		{Title: "Deep", Level: 2, IsLast: true, Leaf: true},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], treePipe+treeCorner)
}

func TestRenderTree_Badges(t *testing.T) {
	out := RenderTree([]TreeItem{
		{Title: "Root", Level: 0, Progress: 0.5},
		{Title: "Done child", Level: 1, Progress: 1, Leaf: true},
		{Title: "Open child", Level: 1, IsLast: true, Progress: 0, Leaf: true},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "%", "non-leaf shows a percentage bar")
	assert.Contains(t, lines[1], "done")
	assert.Contains(t, lines[2], "todo")
	assert.NotContains(t, lines[1], "%")
}
