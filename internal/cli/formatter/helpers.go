package formatter

// Dim renders text in the dim style.
func Dim(s string) string {
	return StyleDim.Render(s)
}

// Bold renders text in the bold foreground style.
func Bold(s string) string {
	return StyleBold.Render(s)
}

// TruncID shortens an opaque id to its first 8 characters for display.
func TruncID(id string) string {
	if len(id) > 8 {
		return StyleDim.Render(id[:8])
	}
	return StyleDim.Render(id)
}
