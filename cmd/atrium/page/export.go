package page

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"atrium/internal/config"
)

// exportViewRows sizes the throwaway viewport used during an export layout.
// The value only has to be positive; the export prints the whole document,
// not a viewport of it.
const exportViewRows = 40

// Export renders the whole page once, at rest: every reveal fired, counters
// sitting on their targets, lazy panels swapped in, partner strip still. It
// is the render `atrium export` prints and the snapshot cache stores, so it
// must not depend on a TTY or on animation frames ever being scheduled.
func Export(opts Options, width int) string {
	if width <= 0 {
		width = 100
	}

	// Reduced motion is the at-rest path: the first size fires all reveals
	// and parks every animation on its final state.
	cfg := config.DefaultConfig()
	if opts.Config != nil {
		c := *opts.Config
		cfg = &c
	}
	cfg.Motion.Reduce = true
	opts.Config = cfg

	m := New(opts)
	for i := range m.site.Sections {
		sec := &m.site.Sections[i]
		if sec.Lazy {
			m.lazyDone[sec.ID] = true
		}
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: exportViewRows})
	m = next.(Model)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView,
		strings.Join(m.sections, "\n"),
	)
}
