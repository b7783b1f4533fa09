package page

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrium/cmd/atrium/ui"
	"atrium/internal/a11y"
)

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestWindowSizes_NoPanic(t *testing.T) {
	t.Parallel()

	sizes := []struct{ w, h int }{
		{5, 3}, {20, 10}, {40, 12}, {60, 18}, {80, 24}, {120, 40}, {199, 60},
	}
	for _, sz := range sizes {
		m := NewTestModel()
		m = sized(t, m, sz.w, sz.h)
		assert.NotEmpty(t, m.View())

		// A follow-up resize through the debounced path must hold up too.
		m, _ = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
		if settle, ok := scheduler(t, m).LastResizeSettled(); ok {
			m, _ = step(t, m, settle)
		}
		assert.NotEmpty(t, m.View())
	}
}

func TestFirstSize_BuildsThePage(t *testing.T) {
	t.Parallel()

	m := NewTestModel()
	assert.False(t, m.ready)
	assert.Contains(t, m.View(), "Opening atrium")

	m = sized(t, m, 80, 24)

	require.True(t, m.ready)
	assert.Len(t, m.sections, 7)
	assert.Greater(t, m.docHeight, m.viewport.Height)
	assert.Equal(t, ui.HeaderRows, m.headerH)
	assert.Equal(t, "hero", m.activeSection)

	view := m.View()
	assert.Contains(t, view, "Atrium Test")
	assert.Contains(t, view, "Services")

	// The hero is on screen from the start; the contact block is not.
	assert.True(t, m.watcher.Fired("hero"))
	assert.False(t, m.watcher.Fired("contact"))

	// Entrance animations are pending, so a frame tick is in flight.
	assert.Equal(t, 1, scheduler(t, m).FrameCount())
}

func TestResize_StaleSettleDiscarded(t *testing.T) {
	t.Parallel()

	m := NewTestModel()
	m = sized(t, m, 80, 24)

	// Backdrop rows span the content width exactly.
	assert.Equal(t, 76, lipgloss.Width(m.sections[0]))

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	first, ok := scheduler(t, m).LastResizeSettled()
	require.True(t, ok)

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	second, ok := scheduler(t, m).LastResizeSettled()
	require.True(t, ok)
	require.NotEqual(t, first.seq, second.seq)

	// The superseded wake-up must not trigger a relayout.
	m, _ = step(t, m, first)
	assert.Equal(t, 76, lipgloss.Width(m.sections[0]))

	// The current one does, at the latest size.
	m, _ = step(t, m, second)
	assert.Equal(t, 96, lipgloss.Width(m.sections[0]))
}

// =============================================================================
// MOTION
// =============================================================================

func TestReducedMotion_SkipsAnimationEntirely(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 120, 40)

	// No animation ticks, ever.
	assert.Zero(t, scheduler(t, m).FrameCount())

	// Counters sit at their targets without a single frame.
	numbers := sectionBlock(t, m, "numbers")
	assert.Contains(t, numbers, "40")
	assert.Contains(t, numbers, "12+")

	// Every reveal applied instantly, including the ones far below the fold.
	assert.True(t, m.watcher.Fired("contact"))
	assert.Contains(t, sectionBlock(t, m, "contact"), "Send message")

	// The partner strip holds still.
	assert.True(t, m.marquee.Paused())

	// Scrolling stays frame-free.
	m = press(t, m, "down")
	assert.Zero(t, scheduler(t, m).FrameCount())
}

func TestCounters_ClimbMonotonicallyToTarget(t *testing.T) {
	t.Parallel()

	m := NewTestModel()
	m = sized(t, m, 120, 40)
	require.True(t, m.watcher.Fired("numbers"))

	// One tick in flight; more input must not stack a second one.
	cs := scheduler(t, m)
	require.Equal(t, 1, cs.FrameCount())
	m = press(t, m, "down")
	m = press(t, m, "up")
	assert.Equal(t, 1, cs.FrameCount())

	clients := regexp.MustCompile(`(\d+)\+`)
	height := lipgloss.Height(sectionBlock(t, m, "numbers"))

	prev := 0
	for i := 0; i < 125; i++ {
		m = frames(t, m, 1)
		block := sectionBlock(t, m, "numbers")

		// The grid must not breathe while values climb.
		require.Equal(t, height, lipgloss.Height(block))

		match := clients.FindStringSubmatch(block)
		require.NotNil(t, match, "frame %d: no counter value in %q", i, block)
		val, err := strconv.Atoi(match[1])
		require.NoError(t, err)
		require.GreaterOrEqual(t, val, prev, "frame %d: counter moved backwards", i)
		require.LessOrEqual(t, val, 12)
		prev = val
	}
	assert.Equal(t, 12, prev)
	assert.Contains(t, sectionBlock(t, m, "numbers"), "40")

	// Extra ticks change nothing once the targets are reached.
	m = frames(t, m, 10)
	assert.Contains(t, sectionBlock(t, m, "numbers"), "12+")
}

func TestReveal_FiresOnceAndPersists(t *testing.T) {
	t.Parallel()

	m := NewTestModel()
	m = sized(t, m, 80, 24)

	// Below the fold: the contact section occupies its height but shows
	// nothing yet.
	require.False(t, m.watcher.Fired("contact"))
	assert.Empty(t, strings.TrimSpace(sectionBlock(t, m, "contact")))

	m = press(t, m, "end")
	require.True(t, m.watcher.Fired("contact"))

	// The entrance plays over a handful of frames.
	m = frames(t, m, 3)
	assert.Contains(t, sectionBlock(t, m, "contact"), "Send message")
	m = frames(t, m, 3)
	assert.Contains(t, sectionBlock(t, m, "contact"), "Name")

	// Scrolling away and back must not replay it.
	mockClock(t, m).Advance(time.Second)
	m = press(t, m, "home")
	mockClock(t, m).Advance(time.Second)
	m = press(t, m, "end")
	m = frames(t, m, 1)
	assert.Contains(t, sectionBlock(t, m, "contact"), "Send message")
}

// =============================================================================
// SCROLLING
// =============================================================================

func TestWheel_ScrollsByConfiguredLines(t *testing.T) {
	t.Parallel()

	m := NewTestModel()
	m = sized(t, m, 80, 24)
	lines := m.cfg.Scroll.WheelLines

	wheel := func(btn tea.MouseButton) tea.MouseMsg {
		return tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: btn}
	}

	m, _ = step(t, m, wheel(tea.MouseButtonWheelDown))
	assert.Equal(t, lines, m.viewport.YOffset)
	m, _ = step(t, m, wheel(tea.MouseButtonWheelDown))
	assert.Equal(t, 2*lines, m.viewport.YOffset)
	m, _ = step(t, m, wheel(tea.MouseButtonWheelUp))
	assert.Equal(t, lines, m.viewport.YOffset)
}

func TestHeader_CondensesPastThreshold(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)

	require.Equal(t, ui.HeaderRows, m.headerH)
	assert.Contains(t, m.headerView, "fixtures with taste")

	for i := 0; i < 4; i++ {
		m = press(t, m, "down")
	}

	require.Greater(t, m.viewport.YOffset, m.cfg.Scroll.CondensedAfter)
	assert.True(t, m.condensed)
	assert.Equal(t, ui.CondensedHeaderRows, m.headerH)
	assert.NotContains(t, m.headerView, "fixtures with taste")
	assert.Equal(t, 20, m.viewport.Height)
}

func TestBackTop_AppearsAndReturns(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)

	assert.False(t, m.backTop)
	assert.NotContains(t, m.View(), "▲ top")

	m = press(t, m, "end")
	require.True(t, m.backTop)
	assert.Contains(t, m.View(), "▲ top")
	assert.Equal(t, FocusBackTop, m.focusables[len(m.focusables)-1].kind)

	m = press(t, m, "t")
	assert.Zero(t, m.viewport.YOffset)
	assert.False(t, m.backTop)
	assert.Equal(t, "Top of page.", m.ctx.Voice.Current())
}

func TestScrollspy_TracksActiveSection(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	require.Equal(t, "hero", m.activeSection)

	m = press(t, m, "end")
	assert.Equal(t, "footer", m.activeSection)

	mockClock(t, m).Advance(time.Second)
	m = press(t, m, "home")
	assert.Equal(t, "hero", m.activeSection)
}

func TestScrollScan_ThrottledWithinWindow(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)

	// The first scroll of a burst scans immediately.
	m = press(t, m, "end")
	require.Equal(t, "footer", m.activeSection)

	// A second event inside the window only marks work as pending.
	m = press(t, m, "home")
	assert.Equal(t, "footer", m.activeSection)
	assert.True(t, m.scrollThrottle.Pending())

	// The trailing flush picks it up once the window has passed.
	mockClock(t, m).Advance(m.cfg.Scroll.ThrottleInterval())
	m = frames(t, m, 1)
	assert.Equal(t, "hero", m.activeSection)
	assert.False(t, m.scrollThrottle.Pending())
}

// =============================================================================
// FOCUS AND KEYS
// =============================================================================

func TestTab_VisitsEveryStopAndWraps(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	require.Equal(t, -1, m.focusIdx)

	seen := map[FocusKind]bool{}
	for i := 0; i < 25; i++ {
		m = press(t, m, "tab")
		if m.focusIdx == -1 {
			break
		}
		seen[m.focusables[m.focusIdx].kind] = true
	}

	// One full lap lands back on the inert state having crossed everything.
	assert.Equal(t, -1, m.focusIdx)
	for _, k := range []FocusKind{FocusSkipLink, FocusNav, FocusCard, FocusPartners, FocusField, FocusSubmit} {
		assert.True(t, seen[k], "focus never reached kind %d", k)
	}

	// Backwards from inert lands on the last stop.
	m = press(t, m, "shift+tab")
	assert.Equal(t, len(m.focusables)-1, m.focusIdx)
}

func TestSkipLink_JumpsPastHero(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)

	m = press(t, m, "tab")
	require.Equal(t, FocusSkipLink, m.focusables[m.focusIdx].kind)

	m = press(t, m, "enter")
	assert.Equal(t, m.lay.spans["numbers"].Top, m.viewport.YOffset)
	assert.Equal(t, -1, m.focusIdx)
	assert.Equal(t, "Skipped to content.", m.ctx.Voice.Current())
}

func TestEscape_ClosesMenuThenFocusThenNothing(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 50, 20)

	m = press(t, m, "m")
	require.True(t, m.menuOpen)

	m = press(t, m, "esc")
	assert.False(t, m.menuOpen)

	m = press(t, m, "tab")
	require.GreaterOrEqual(t, m.focusIdx, 0)
	m = press(t, m, "esc")
	assert.Equal(t, -1, m.focusIdx)

	m = press(t, m, "esc")
	assert.Equal(t, -1, m.focusIdx)
	assert.False(t, m.quitting)
}

func TestEscape_BroadcastReachesNoSubscriber(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)

	// Even an otherwise inert escape emits the broadcast.
	m, cmd := step(t, m, key("esc"))
	require.NotNil(t, cmd)
	require.IsType(t, escapePressedMsg{}, cmd())

	// Nothing subscribes, so delivering it changes nothing.
	before := m.View()
	m, cmd = step(t, m, escapePressedMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, before, m.View())
}

func TestQuit_Keys(t *testing.T) {
	t.Parallel()

	for _, k := range []string{"q", "ctrl+c"} {
		m := NewTestModel()
		m = sized(t, m, 80, 24)
		m, cmd := step(t, m, key(k))
		assert.True(t, m.quitting, "key %q", k)
		assert.NotNil(t, cmd, "key %q", k)
		assert.Contains(t, m.View(), "see you soon")
	}
}

// =============================================================================
// MENU AND POINTER
// =============================================================================

func TestMenu_ClickDrivesNavigation(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 50, 20)

	click := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	// The button opens the stacked menu.
	m, _ = step(t, m, click(m.menuBtnRect.left+1, m.menuBtnRect.top))
	require.True(t, m.menuOpen)
	require.Len(t, m.menuItemRects, 4)

	// An item click closes it and jumps to the target section.
	item := m.menuItemRects[2]
	m, _ = step(t, m, click(item.left+1, item.top))
	assert.False(t, m.menuOpen)
	assert.Equal(t, m.lay.spans["services"].Top, m.viewport.YOffset)
	assert.Equal(t, "Viewing Services.", m.ctx.Voice.Current())

	// While open the page is locked: wheel and movement keys drive the menu,
	// not the scroll position.
	m, _ = step(t, m, click(m.menuBtnRect.left+1, m.menuBtnRect.top))
	require.True(t, m.menuOpen)
	before := m.viewport.YOffset
	m, _ = step(t, m, tea.MouseMsg{X: 5, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, before, m.viewport.YOffset)
	m = press(t, m, "down")
	assert.Equal(t, 1, m.menuIdx)
	assert.Equal(t, before, m.viewport.YOffset)

	// Clicking anywhere else just closes it.
	m, _ = step(t, m, click(5, 12))
	assert.False(t, m.menuOpen)
	assert.Equal(t, before, m.viewport.YOffset)
}

func TestNav_InlineClickJumps(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	require.Len(t, m.navRects, 4)

	r := m.navRects[2]
	m, _ = step(t, m, tea.MouseMsg{
		X: r.left + 1, Y: r.top,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	assert.Equal(t, m.lay.spans["services"].Top, m.viewport.YOffset)
	assert.Equal(t, "Viewing Services.", m.ctx.Voice.Current())
}

func TestPointer_TiltAndMarqueePause(t *testing.T) {
	t.Parallel()

	m := NewTestModel()
	m = sized(t, m, 120, 40)

	motion := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion}
	}

	// Hovering near a tilt card's edge leans it; the marked card is first.
	card := m.lay.cards["services"][0]
	sy := card.top + m.headerH - m.viewport.YOffset
	require.Less(t, sy, m.height-2)
	m, _ = step(t, m, motion(card.left+2, sy))
	assert.Equal(t, "services:0", m.hoverCard)
	assert.Negative(t, m.tilt)

	// The plain card never leans.
	card = m.lay.cards["services"][1]
	m, _ = step(t, m, motion(card.left+2, card.top+m.headerH-m.viewport.YOffset))
	assert.Equal(t, "services:1", m.hoverCard)
	assert.Zero(t, m.tilt)

	// The partner strip pauses under the pointer and resumes off it.
	strip := m.lay.partners
	sy = strip.top + m.headerH - m.viewport.YOffset
	require.Less(t, sy, m.height-2)
	m, _ = step(t, m, motion(strip.left+1, sy))
	assert.True(t, m.marquee.Paused())
	assert.Contains(t, sectionBlock(t, m, "partners"), "paused")

	m, _ = step(t, m, motion(0, m.headerH))
	assert.False(t, m.marquee.Paused())
}

func TestHeroCue_ClicksThroughAndHidesOnScroll(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)

	// At the top the cue sits on the hero's last content row.
	cue := m.lay.heroCue
	require.Positive(t, cue.width)
	assert.Contains(t, docText(m), "▾ scroll")

	// Clicking it drops the reader at the first content section.
	m, _ = step(t, m, tea.MouseMsg{
		X: cue.left + 1, Y: cue.top + m.headerH - m.viewport.YOffset,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	assert.Equal(t, m.lay.spans["numbers"].Top, m.viewport.YOffset)
	assert.Equal(t, "Skipped to content.", m.ctx.Voice.Current())

	// Past the condensation threshold the row goes blank and stops being a
	// click target.
	assert.Zero(t, m.lay.heroCue.width)
	assert.NotContains(t, docText(m), "▾ scroll")
}

// =============================================================================
// SUBMISSION
// =============================================================================

func TestSubmit_FullLifecycle(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	m = fillValidForm(t, m)
	m = focusStop(t, m, FocusSubmit, 0)

	m = press(t, m, "enter")
	require.Equal(t, FormSubmitting, m.form.Phase())
	assert.Contains(t, sectionBlock(t, m, "contact"), "Sending...")

	done, ok := scheduler(t, m).LastSubmitDone()
	require.True(t, ok)

	// A leftover completion from some earlier run must not land.
	m, _ = step(t, m, submitDoneMsg{seq: done.seq + 99})
	assert.Equal(t, FormSubmitting, m.form.Phase())

	m, _ = step(t, m, done)
	require.Equal(t, FormSuccess, m.form.Phase())
	ref := m.form.Reference()
	assert.Len(t, ref, 8)
	assert.Contains(t, sectionBlock(t, m, "contact"), "Ref "+ref)
	assert.Empty(t, m.form.value(0), "fields clear after acceptance")

	firstHide, ok := scheduler(t, m).LastSuccessHide()
	require.True(t, ok)

	// A second submission supersedes the first success note.
	m = fillValidForm(t, m)
	m = focusStop(t, m, FocusSubmit, 0)
	m = press(t, m, "enter")
	done, ok = scheduler(t, m).LastSubmitDone()
	require.True(t, ok)
	m, _ = step(t, m, done)
	require.Equal(t, FormSuccess, m.form.Phase())

	// The first note's retirement is stale now.
	m, _ = step(t, m, firstHide)
	assert.Equal(t, FormSuccess, m.form.Phase())

	hide, ok := scheduler(t, m).LastSuccessHide()
	require.True(t, ok)
	m, _ = step(t, m, hide)
	assert.Equal(t, FormIdle, m.form.Phase())
	assert.NotContains(t, sectionBlock(t, m, "contact"), "Ref ")
}

func TestSubmit_RejectionFocusesFirstProblem(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	m = focusStop(t, m, FocusSubmit, 0)

	m = press(t, m, "enter")
	assert.Equal(t, FormIdle, m.form.Phase())

	// Focus lands on the first offending field, and the announcement is
	// urgent enough for the status line to surface it as an error.
	f := m.focusables[m.focusIdx]
	assert.Equal(t, FocusField, f.kind)
	assert.Zero(t, f.index)
	assert.Equal(t, a11y.Assertive, m.ctx.Voice.CurrentPriority())
	assert.NotEmpty(t, m.ctx.Voice.Current())

	// Required fields carry errors; the optional phone does not.
	assert.True(t, m.form.controls[0].invalid)
	assert.False(t, m.form.controls[fieldIndex(t, m, "phone")].invalid)
	assert.Contains(t, sectionBlock(t, m, "contact"), "✗")
}
