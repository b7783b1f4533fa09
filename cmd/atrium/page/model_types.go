// Package page implements the interactive terminal rendition of the studio
// marketing page: a scrollable document with a pinned header, menu, reveal
// transitions, stat counters, a parallax backdrop, pointer-tilt cards, a
// partner marquee, and a contact form with masked input and simulated
// submission. All state lives in one Bubble Tea model; every mutation goes
// through Update.
package page

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"atrium/cmd/atrium/ui"
	"atrium/internal/a11y"
	"atrium/internal/anim"
	"atrium/internal/clock"
	"atrium/internal/config"
	"atrium/internal/content"
	"atrium/internal/observe"
	"atrium/internal/perf"
)

// revealFrames is how many animation frames an entrance transition plays.
const revealFrames = 6

// lazyPlaceholderRows is the height reserved for a lazy section before its
// body renders.
const lazyPlaceholderRows = 4

// =============================================================================
// CONSTRUCTION
// =============================================================================

// Scheduler produces the delayed wake-ups the page relies on. The production
// scheduler wraps tea.Tick; tests substitute one that captures the request
// and lets the test deliver the message itself.
type Scheduler interface {
	After(d time.Duration, msg tea.Msg) tea.Cmd
}

type teaScheduler struct{}

func (teaScheduler) After(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Context carries the cross-component services every part of the page can
// reach: logging, time, the announcer line, input-mode tracking, and the
// startup timing tracker.
type Context struct {
	Log   *zap.Logger
	Clock clock.Clock
	Voice *a11y.Announcer
	Modes *a11y.ModeTracker
	Perf  *perf.Tracker
}

// Options configures New. Zero fields get safe defaults, so tests construct
// models with only what they care about.
type Options struct {
	Site      *content.Site
	Config    *config.Config
	Styles    *ui.Styles
	Log       *zap.Logger
	Clock     clock.Clock
	Scheduler Scheduler
	Perf      *perf.Tracker
}

// FocusKind identifies what a focus stop is.
type FocusKind int

const (
	FocusSkipLink FocusKind = iota
	FocusNav
	FocusCard
	FocusPartners
	FocusField
	FocusSubmit
	FocusBackTop
)

// focusable is one stop in the page's tab order.
type focusable struct {
	kind    FocusKind
	section string // owning section id
	index   int    // nav link index, card index, or field index
}

// =============================================================================
// LAYOUT
// =============================================================================

// rect is a rendered region in page coordinates (rows relative to document
// top, columns relative to the left edge).
type rect struct {
	top, left     int
	height, width int
}

func (r rect) contains(row, col int) bool {
	return row >= r.top && row < r.top+r.height &&
		col >= r.left && col < r.left+r.width
}

// layout records where everything landed after a rebuild, for the visibility
// watcher and mouse hit-testing.
type layout struct {
	spans map[string]observe.Span // section id -> extent
	cards map[string][]rect       // section id -> card rects
	// hero scroll cue, partners strip rows (for hover pause), form field
	// rects, submit rect
	heroCue  rect
	partners rect
	fields   []rect
	submit   rect
}

// sectionState tracks one section's reveal progress.
type sectionState struct {
	fired bool
	wait  int // frames until the entrance starts (reveal delay)
	left  int // entrance frames remaining
}

// done reports whether the section renders at rest.
func (s sectionState) done() bool {
	return s.fired && s.wait == 0 && s.left == 0
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root model for the interactive page.
type Model struct {
	// Composition
	ctx      *Context
	site     *content.Site
	cfg      *config.Config
	styles   ui.Styles
	sched    Scheduler
	renderer *glamour.TermRenderer
	viewport viewport.Model
	form     Form

	// Geometry
	width  int
	height int
	ready  bool

	// Pending resize (applied when the debounce settles)
	resizeDeb     *ui.Debouncer
	pendingWidth  int
	pendingHeight int

	// Document
	sections  []string // rendered blocks, one per site section
	docHeight int
	lay       layout
	reveals   map[string]*sectionState
	watcher   *observe.Watcher
	lazier    *observe.Watcher // fires ahead of arrival for lazy sections
	lazyDone  map[string]bool
	counters  map[string][]*anim.Counter
	marquee   *anim.Marquee

	// Chrome (rebuilt when scroll depth or the menu changes it)
	headerView    string
	headerH       int
	navRects      []rect // inline nav link hit areas, screen rows
	menuBtnRect   rect
	menuItemRects []rect
	backTopRect   rect

	// Scroll
	scrollThrottle *ui.Throttler
	tween          *anim.ScrollTween
	condensed      bool
	backTop        bool
	activeSection  string

	// Focus and menu
	focusables []focusable
	focusIdx   int // -1 = none
	menuOpen   bool
	menuIdx    int

	// Pointer
	hoverCard  string // "sectionID:index" of the tilted card, "" = none
	tilt       int    // horizontal tilt shift for the hovered card
	hoverStrip bool

	// Frames
	frameScheduled bool
	backdropDirty  bool
	firstFrameSeen bool

	// Quit
	quitting bool
}

// =============================================================================
// MESSAGES
// =============================================================================

// Messages for tea updates.
type (
	// frameMsg is the coalesced animation tick. One is in flight at most;
	// it is rescheduled only while something still animates or a throttled
	// scan is waiting to flush.
	frameMsg struct{}

	// resizeSettledMsg fires after the resize quiet period. Stale sequence
	// numbers identify superseded wake-ups.
	resizeSettledMsg struct{ seq int }

	// submitDoneMsg completes a simulated form submission.
	submitDoneMsg struct{ seq int }

	// successHideMsg retires the form's success note.
	successHideMsg struct{ seq int }

	// escapePressedMsg is broadcast after every escape press, whatever the
	// key itself dismissed. Nothing subscribes today; components that need
	// to react to escape watch for it instead of re-deriving key state.
	escapePressedMsg struct{}
)
