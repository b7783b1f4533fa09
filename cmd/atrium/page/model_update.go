package page

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"atrium/cmd/atrium/ui"
	"atrium/internal/a11y"
	"atrium/internal/anim"
	"atrium/internal/content"
	"atrium/internal/perf"
)

// tiltCellDivisor maps pointer distance from a card's center to a shift in
// cells. Cards are a couple dozen cells wide, so the divisor is far smaller
// than the pixel-space default.
const tiltCellDivisor = 4

// Update is the single entry point for every event. Global keys run first;
// everything else routes by what currently has focus.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.ctx.Modes.NoteKey()
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.ctx.Log.Info("page closed",
				zap.Int("scroll", m.viewport.YOffset),
				zap.Bool("keyboard", m.ctx.Modes.Keyboard()))
			return m, tea.Quit
		case "esc":
			return m.handleEscape()
		case "tab":
			if !m.ready {
				return m, nil
			}
			return m, tea.Batch(m.moveFocus(1), m.scheduleFrame())
		case "shift+tab":
			if !m.ready {
				return m, nil
			}
			return m, tea.Batch(m.moveFocus(-1), m.scheduleFrame())
		}
		if !m.ready {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.ready {
			return m, nil
		}
		m.ctx.Modes.NoteMouse()
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case resizeSettledMsg:
		if !m.resizeDeb.Settled(msg.seq) {
			return m, nil // superseded by a later resize
		}
		m.applySize()
		m.runScan()
		m.ctx.Log.Debug("layout settled",
			zap.Int("width", m.width), zap.Int("height", m.height))
		return m, m.scheduleFrame()

	case frameMsg:
		m.frameScheduled = false
		if !m.ready {
			return m, nil
		}
		m.refreshSections(m.advanceFrame())
		return m, m.scheduleFrame()

	case submitDoneMsg:
		cmd := m.form.CompleteSubmit(msg, m.sched, m.submitTiming())
		if cmd != nil {
			m.rebuildDocument()
		}
		return m, cmd

	case successHideMsg:
		was := m.form.Phase()
		m.form.HideSuccess(msg)
		if was != m.form.Phase() {
			m.rebuildDocument()
		}
		return m, nil

	case spinner.TickMsg:
		cmd := m.form.HandleSpinner(msg)
		if cmd != nil {
			m.refreshSection(m.contactSectionID())
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) submitTiming() submitTiming {
	return submitTiming{
		submitDelay:    m.cfg.Motion.Submit(),
		successVisible: m.cfg.Motion.Success(),
	}
}

func (m *Model) contactSectionID() string {
	if sec := m.site.Contact(); sec != nil {
		return sec.ID
	}
	return ""
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.pendingWidth, m.pendingHeight = msg.Width, msg.Height

	if !m.ready {
		m.applySize()
		m.ready = true
		if m.cfg.Motion.Reduce {
			for _, id := range m.watcher.FireAll() {
				m.fireSection(id)
			}
		}
		m.runScan()
		m.ctx.Perf.Mark(perf.MarkFirstFrame)
		m.ctx.Perf.Report(m.ctx.Log)
		m.ctx.Log.Info("page ready",
			zap.Int("width", m.width),
			zap.Int("height", m.height),
			zap.Int("sections", len(m.site.Sections)),
			zap.Bool("reduce_motion", m.cfg.Motion.Reduce))
		return m, m.scheduleFrame()
	}

	// The viewport tracks the terminal immediately; the expensive relayout
	// waits for the quiet period.
	m.width, m.height = msg.Width, msg.Height
	m.refreshHeader()
	m.viewport.Width = msg.Width
	m.viewport.Height = m.viewportHeight()
	seq := m.resizeDeb.Touch(m.ctx.Clock.Now())
	return m, m.sched.After(m.resizeDeb.Quiet(), resizeSettledMsg{seq: seq})
}

// =============================================================================
// KEYS
// =============================================================================

// handleEscape dismisses the topmost dismissable thing: the menu, then any
// focus. With neither, the key changes nothing. Every press also emits the
// escapePressedMsg broadcast.
func (m Model) handleEscape() (tea.Model, tea.Cmd) {
	broadcast := tea.Cmd(func() tea.Msg { return escapePressedMsg{} })
	switch {
	case m.menuOpen:
		m.closeMenu()
		return m, broadcast
	case m.currentFocus() != nil:
		return m, tea.Batch(m.setFocus(-1), broadcast)
	}
	return m, broadcast
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menuOpen {
		return m.handleMenuKey(msg)
	}
	if f := m.currentFocus(); f != nil && f.kind == FocusField {
		return m.handleFieldKey(msg, f)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		m.ctx.Log.Info("page closed", zap.Int("scroll", m.viewport.YOffset))
		return m, tea.Quit
	case "enter", " ":
		if f := m.currentFocus(); f != nil {
			return m.activateFocus(f)
		}
		if msg.String() == " " {
			m.scrollBy(m.viewport.Height - 2)
		}
	case "m":
		if !ui.NavInline(m.width) && len(m.site.Nav) > 0 {
			m.openMenu()
		}
	case "t":
		if m.backTop {
			m.goTop()
		}
	case "up", "k":
		m.scrollBy(-1)
	case "down", "j":
		m.scrollBy(1)
	case "pgup", "b":
		m.scrollBy(-(m.viewport.Height - 2))
	case "pgdown", "f":
		m.scrollBy(m.viewport.Height - 2)
	case "home", "g":
		m.tween = nil
		m.setScroll(0)
	case "end", "G":
		m.tween = nil
		m.setScroll(m.maxScroll())
	}
	return m, m.scheduleFrame()
}

// handleMenuKey drives the open navigation menu; it captures movement keys
// until the menu closes.
func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIdx > 0 {
			m.menuIdx--
		}
		m.refreshHeader()
	case "down", "j":
		if m.menuIdx < len(m.site.Nav)-1 {
			m.menuIdx++
		}
		m.refreshHeader()
	case "enter", " ":
		idx := m.menuIdx
		m.closeMenu()
		if idx < len(m.site.Nav) {
			m.jumpToSection(m.site.Nav[idx].Section)
		}
		return m, m.scheduleFrame()
	case "m":
		m.closeMenu()
	}
	return m, nil
}

// handleFieldKey routes a keystroke into the focused form field. Enter in a
// single-line input submits, matching what forms do everywhere else.
func (m Model) handleFieldKey(msg tea.KeyMsg, f *focusable) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		t := m.form.controls[f.index].spec.Type
		if t != content.FieldTextarea && t != content.FieldSelect {
			return m.submitForm()
		}
	}

	before := m.formErrorCount()
	cmd := m.form.HandleKey(msg)
	if m.formErrorCount() != before {
		m.rebuildDocument() // an inline error appeared or cleared
	} else {
		m.refreshSection(m.contactSectionID())
	}
	return m, cmd
}

// activateFocus is Enter on a non-field stop.
func (m Model) activateFocus(f *focusable) (tea.Model, tea.Cmd) {
	switch f.kind {
	case FocusSkipLink:
		return m.skipToContent()
	case FocusNav:
		if f.index < len(m.site.Nav) {
			m.jumpToSection(m.site.Nav[f.index].Section)
		}
	case FocusPartners:
		m.hoverStrip = !m.hoverStrip
		m.syncMarqueePause()
		m.refreshSection(f.section)
	case FocusSubmit:
		return m.submitForm()
	case FocusBackTop:
		m.goTop()
	}
	return m, m.scheduleFrame()
}

// skipToContent jumps past the hero to the first real section, the terminal
// counterpart of a skip-navigation link.
func (m Model) skipToContent() (tea.Model, tea.Cmd) {
	cmd := m.setFocus(-1)
	for i := range m.site.Sections {
		if m.site.Sections[i].Kind != content.KindHero {
			m.startScrollTo(m.lay.spans[m.site.Sections[i].ID].Top)
			m.ctx.Voice.Announce("Skipped to content.", a11y.Polite)
			break
		}
	}
	return m, tea.Batch(cmd, m.scheduleFrame())
}

func (m *Model) goTop() {
	m.startScrollTo(0)
	m.ctx.Voice.Announce("Top of page.", a11y.Polite)
}

// submitForm runs the submit cycle and keeps page focus in step with the
// outcome: the first invalid field on rejection, the button while sending.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	cmd, firstBad := m.form.Submit(m.sched, m.submitTiming())
	m.rebuildDocument()

	var focusCmd tea.Cmd
	if firstBad >= 0 {
		focusCmd = m.focusFormStop(FocusField, firstBad)
	} else if cmd != nil {
		focusCmd = m.focusFormStop(FocusSubmit, 0)
	}
	return m, tea.Batch(cmd, focusCmd, m.scheduleFrame())
}

// focusFormStop moves page focus to a form stop by kind and field index.
func (m *Model) focusFormStop(kind FocusKind, index int) tea.Cmd {
	for i, f := range m.focusables {
		if f.kind != kind {
			continue
		}
		if kind == FocusField && f.index != index {
			continue
		}
		return m.setFocus(i)
	}
	return nil
}

// =============================================================================
// MENU
// =============================================================================

func (m *Model) openMenu() {
	m.menuOpen = true
	m.menuIdx = 0
	m.refreshHeader()
	m.viewport.Height = m.viewportHeight()
}

func (m *Model) closeMenu() {
	if !m.menuOpen {
		return
	}
	m.menuOpen = false
	m.refreshHeader()
	m.viewport.Height = m.viewportHeight()
}

// =============================================================================
// MOUSE
// =============================================================================

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// The open menu is modal: clicks land on it (or close it), and the page
	// underneath does not scroll.
	if m.menuOpen && !(msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft) {
		return m, nil
	}
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		m.scrollBy(-m.cfg.Scroll.WheelLines)
		return m, m.scheduleFrame()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		m.scrollBy(m.cfg.Scroll.WheelLines)
		return m, m.scheduleFrame()
	case msg.Action == tea.MouseActionMotion:
		return m.handleMotion(msg)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m.handleClick(msg)
	}
	return m, nil
}

// docPos translates screen coordinates into document coordinates. ok is
// false outside the scrolling region.
func (m *Model) docPos(x, y int) (row, col int, ok bool) {
	if y < m.headerH || y >= m.height-2 {
		return 0, 0, false
	}
	return y - m.headerH + m.viewport.YOffset, x, true
}

func (m Model) handleMotion(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	row, col, ok := m.docPos(msg.X, msg.Y)

	dirty := make(map[string]bool)

	// Partner strip pauses while hovered.
	overStrip := ok && m.lay.partners.contains(row, col)
	if overStrip != m.hoverStrip {
		m.hoverStrip = overStrip
		m.syncMarqueePause()
		if id := m.partnersSectionID(); id != "" {
			dirty[id] = true
		}
	}

	// Card under the pointer tilts toward it.
	hover, tilt := "", 0
	if ok {
		hover, tilt = m.cardAt(row, col)
	}
	if hover != m.hoverCard || tilt != m.tilt {
		if m.hoverCard != "" {
			dirty[sectionOfCardKey(m.hoverCard)] = true
		}
		m.hoverCard, m.tilt = hover, tilt
		if hover != "" {
			dirty[sectionOfCardKey(hover)] = true
		}
	}

	m.refreshSections(dirty)
	return m, m.scheduleFrame()
}

// cardAt returns the hover key ("section:index") and tilt shift for the
// card under the pointer. Cards without the tilt marker report a zero
// shift; pointer distance from center drives the rest.
func (m *Model) cardAt(row, col int) (string, int) {
	for i := range m.site.Sections {
		sec := &m.site.Sections[i]
		rects := m.lay.cards[sec.ID]
		for j, r := range rects {
			if !r.contains(row, col) {
				continue
			}
			key := fmt.Sprintf("%s:%d", sec.ID, j)
			if j < len(sec.Features) && !sec.Features[j].Tilt {
				return key, 0
			}
			if m.cfg.Motion.Reduce {
				return key, 0
			}
			delta := col - (r.left + r.width/2)
			return key, anim.TiltShift(delta, tiltCellDivisor)
		}
	}
	return "", 0
}

func sectionOfCardKey(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}

func (m Model) handleClick(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// An open menu swallows the click: on an item it navigates, anywhere
	// else it just closes.
	if m.menuOpen {
		for i, r := range m.menuItemRects {
			if r.contains(msg.Y, msg.X) {
				m.closeMenu()
				if i < len(m.site.Nav) {
					m.jumpToSection(m.site.Nav[i].Section)
				}
				return m, m.scheduleFrame()
			}
		}
		m.closeMenu()
		return m, nil
	}

	// Header chrome.
	if msg.Y < m.headerH {
		for i, r := range m.navRects {
			if r.contains(msg.Y, msg.X) {
				m.jumpToSection(m.site.Nav[i].Section)
				return m, m.scheduleFrame()
			}
		}
		if m.menuBtnRect.contains(msg.Y, msg.X) {
			m.openMenu()
		}
		return m, nil
	}

	// Footer chrome.
	if msg.Y >= m.height-2 {
		if m.backTop && m.backTopRect.contains(msg.Y, msg.X) {
			m.goTop()
			return m, m.scheduleFrame()
		}
		return m, nil
	}

	row, col, ok := m.docPos(msg.X, msg.Y)
	if !ok {
		return m, nil
	}

	// Form targets first: fields, then the button.
	for i, r := range m.lay.fields {
		if r.contains(row, col) {
			return m, tea.Batch(m.focusFormStop(FocusField, i), m.scheduleFrame())
		}
	}
	if m.lay.submit.contains(row, col) {
		return m.submitForm()
	}

	// The hero's scroll cue behaves like the skip link for the pointer.
	if m.lay.heroCue.contains(row, col) {
		return m.skipToContent()
	}

	// Cards take focus on click.
	for i := range m.site.Sections {
		sec := &m.site.Sections[i]
		for j, r := range m.lay.cards[sec.ID] {
			if r.contains(row, col) {
				for fi, f := range m.focusables {
					if f.kind == FocusCard && f.section == sec.ID && f.index == j {
						return m, tea.Batch(m.setFocus(fi), m.scheduleFrame())
					}
				}
			}
		}
	}

	// The partner strip toggles its pause.
	if m.lay.partners.contains(row, col) {
		m.hoverStrip = !m.hoverStrip
		m.syncMarqueePause()
		m.refreshSection(m.partnersSectionID())
		return m, m.scheduleFrame()
	}

	return m, nil
}
