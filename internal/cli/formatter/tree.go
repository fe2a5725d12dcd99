package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single step in a tree display.
type TreeItem struct {
	Title    string
	Level    int
	IsLast   bool
	Progress float64
	Leaf     bool
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders a list of TreeItems as an indented tree using
// box-drawing characters for connectors. Completed steps get a green ✔
// prefix and a dimmed title; progress bars are right-aligned. Leaves
// hold a plain done/todo value rather than a derived percentage, so
// they get a status word instead of a bar.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// Pass 1: build each line's content and track max visible width.
	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				prefix += treePipe
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		statusPrefix := ""
		if item.Progress >= 1 {
			statusPrefix = StyleGreen.Render("✔ ")
			title = Dim(title)
		} else if item.Progress > 0 {
			statusPrefix = StyleYellow.Render("▶ ")
		}

		content := prefix + statusPrefix + title
		lines[idx].content = content
		if item.Leaf {
			if item.Progress >= 1 {
				lines[idx].badge = StyleGreen.Render("done")
			} else {
				lines[idx].badge = Dim("todo")
			}
		} else {
			lines[idx].badge = RenderProgress(item.Progress, 8)
		}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	// Pass 2: render with right-aligned progress bars.
	var b strings.Builder
	for _, li := range lines {
		pad := maxContentWidth - lipgloss.Width(li.content)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
	}

	return b.String()
}
