package ui

// Layout breakpoints for responsive rendering.
// These values determine when sections change column counts.
const (
	// BreakpointNarrow is the width below which everything stacks in one
	// column and the nav collapses behind the menu toggle.
	BreakpointNarrow = 60

	// BreakpointMedium is the width above which cards render two-up and
	// the nav links show inline.
	BreakpointMedium = 90

	// BreakpointWide is the width above which cards render four-up.
	BreakpointWide = 120
)

// Content dimension constraints.
const (
	// MaxContentWidth caps the text column on very wide terminals.
	MaxContentWidth = 100

	// MinCardWidth is the narrowest a feature card may render.
	MinCardWidth = 22

	// HeaderRows is the expanded header height including its border.
	HeaderRows = 3

	// CondensedHeaderRows is the header height once the page has scrolled.
	CondensedHeaderRows = 2
)

// Columns returns how many cards fit side by side at the given width.
func Columns(width int) int {
	switch {
	case width >= BreakpointWide:
		return 4
	case width >= BreakpointMedium:
		return 2
	default:
		return 1
	}
}

// ContentWidth returns the usable text-column width for a terminal width.
func ContentWidth(width int) int {
	w := width - 4
	if w > MaxContentWidth {
		w = MaxContentWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// NavInline reports whether nav links render inline in the header instead
// of behind the menu toggle.
func NavInline(width int) bool {
	return width >= BreakpointNarrow
}
