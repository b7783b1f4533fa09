package page

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
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

// Lazy sections render a placeholder until the viewport gets within
// lazyLookaheadRows of them.
const (
	lazyThreshold     = 0.01
	lazyLookaheadRows = 10
)

// New assembles the page model. Missing options get safe defaults, so tests
// and callers only supply what they care about. Optional components come
// from factories that inspect the document and report absence: no stats
// section means no counters, no partners section means no marquee, and the
// update loop only ever talks to components that exist.
func New(opts Options) Model {
	if opts.Site == nil {
		opts.Site = content.MustDefault()
	}
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = teaScheduler{}
	}
	if opts.Perf == nil {
		opts.Perf = perf.NewTracker(opts.Clock)
	}
	styles := ui.DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	ctx := &Context{
		Log:   opts.Log,
		Clock: opts.Clock,
		Voice: a11y.NewAnnouncer(),
		Modes: a11y.NewModeTracker(),
		Perf:  opts.Perf,
	}
	cfg := opts.Config

	m := Model{
		ctx:    ctx,
		site:   opts.Site,
		cfg:    cfg,
		styles: styles,
		sched:  opts.Scheduler,

		resizeDeb:      ui.NewDebouncer(cfg.Scroll.Debounce()),
		scrollThrottle: ui.NewThrottler(cfg.Scroll.ThrottleInterval()),
		watcher:        observe.NewWatcher(cfg.Reveal.Threshold, cfg.Reveal.MarginRows),
		lazier:         observe.NewWatcher(lazyThreshold, -lazyLookaheadRows),
		reveals:        make(map[string]*sectionState),
		lazyDone:       make(map[string]bool),
		focusIdx:       -1,
	}

	for i := range opts.Site.Sections {
		if opts.Site.Sections[i].Reveal != content.RevealNone {
			m.reveals[opts.Site.Sections[i].ID] = &sectionState{}
		}
	}

	counterFrames := int(cfg.Motion.Counter() / cfg.Motion.Frame())
	var hasCounters, hasMarquee, hasForm bool
	m.counters, hasCounters = newCounters(opts.Site, counterFrames)
	m.marquee, hasMarquee = newMarquee(opts.Site)
	m.form, hasForm = newPageForm(opts.Site, styles, ctx.Voice, ctx.Log)
	ctx.Log.Debug("page components assembled",
		zap.Bool("counters", hasCounters),
		zap.Bool("marquee", hasMarquee),
		zap.Bool("form", hasForm))

	// With reduced motion everything starts at rest: counters sit on their
	// targets and the partner strip holds still.
	if cfg.Motion.Reduce {
		for _, cs := range m.counters {
			for _, c := range cs {
				c.Finish()
			}
		}
		if m.marquee != nil {
			m.marquee.SetPaused(true)
		}
	}

	ctx.Perf.Mark(perf.MarkModelReady)
	return m
}

// newCounters builds one counter per stat, keyed by stats section. Absent
// when the document has no stats section.
func newCounters(site *content.Site, frames int) (map[string][]*anim.Counter, bool) {
	counters := make(map[string][]*anim.Counter)
	for i := range site.Sections {
		sec := &site.Sections[i]
		if sec.Kind != content.KindStats {
			continue
		}
		var cs []*anim.Counter
		for _, st := range sec.Stats {
			cs = append(cs, anim.NewCounter(st.Target, frames))
		}
		counters[sec.ID] = cs
	}
	return counters, len(counters) > 0
}

// newMarquee builds the partner strip from the first partners section with
// names in it. Absent otherwise.
func newMarquee(site *content.Site) (*anim.Marquee, bool) {
	for i := range site.Sections {
		sec := &site.Sections[i]
		if sec.Kind == content.KindPartners && len(sec.Partners) > 0 {
			return anim.NewMarquee(sec.Partners), true
		}
	}
	return nil, false
}

// newPageForm wires the contact form when the document carries one. The zero
// Form is the absent variant; all its methods are safe no-ops.
func newPageForm(site *content.Site, styles ui.Styles, voice *a11y.Announcer, log *zap.Logger) (Form, bool) {
	if sec := site.Contact(); sec != nil && sec.Form != nil {
		return NewForm(*sec.Form, styles, voice, log), true
	}
	return Form{}, false
}

// Init sets the terminal title; everything else waits for the first
// WindowSizeMsg.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.site.Brand.Name)
}

// =============================================================================
// GEOMETRY
// =============================================================================

// applySize commits pending dimensions and rebuilds everything that depends
// on them: the wrap renderer, the document, the chrome, and the tab order.
func (m *Model) applySize() {
	m.width = m.pendingWidth
	m.height = m.pendingHeight

	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(ui.ContentWidth(m.width)),
	); err == nil {
		m.renderer = r
	} else {
		m.renderer = nil
		m.ctx.Log.Warn("markdown renderer unavailable", zap.Error(err))
	}

	m.refreshHeader()
	vh := m.viewportHeight()
	if !m.ready {
		m.viewport = viewport.New(m.width, vh)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vh
	}

	m.rebuildDocument()
	m.setScroll(m.viewport.YOffset) // clamp into the new document
	m.computeFocusables()
	m.updateBackTopRect()
}

// updateBackTopRect keeps the footer affordance's hit area in step with the
// geometry. The rect lives in screen coordinates.
func (m *Model) updateBackTopRect() {
	m.backTopRect = rect{}
	if !m.backTop {
		return
	}
	bw := lipgloss.Width(m.styles.BackToTop.Render(backTopLabel))
	m.backTopRect = rect{top: m.height - 1, left: m.width - bw, height: 1, width: bw}
}

// viewportHeight is the screen minus the chrome: header above, status line
// and hotkey line below.
func (m *Model) viewportHeight() int {
	return max(1, m.height-m.headerH-2)
}

func (m *Model) maxScroll() int {
	return max(0, m.docHeight-m.viewport.Height)
}

// =============================================================================
// DOCUMENT
// =============================================================================

// rebuildDocument renders every section at the current width, records the
// layout (spans for the visibility watcher, rects for mouse hit testing),
// and re-registers anything still waiting to fire.
func (m *Model) rebuildDocument() {
	w := ui.ContentWidth(m.width)
	m.form.SetWidth(min(w-4, 48))

	m.lay = layout{
		spans: make(map[string]observe.Span),
		cards: make(map[string][]rect),
	}
	blocks := make([]string, len(m.site.Sections))
	top := 0
	for i := range m.site.Sections {
		sec := &m.site.Sections[i]
		block := m.renderSection(sec, w, top)
		blocks[i] = block
		h := lipgloss.Height(block)
		m.lay.spans[sec.ID] = observe.Span{Top: top, Height: h}
		top += h
	}
	m.sections = blocks
	m.docHeight = top
	m.viewport.SetContent(strings.Join(blocks, "\n"))

	for id, st := range m.reveals {
		if !st.fired {
			m.watcher.Observe(id, m.lay.spans[id])
		}
	}
	for i := range m.site.Sections {
		sec := &m.site.Sections[i]
		if m.reveals[sec.ID] == nil {
			m.watcher.Observe(sec.ID, m.lay.spans[sec.ID])
		}
		if sec.Lazy && !m.lazyDone[sec.ID] {
			m.lazier.Observe(sec.ID, m.lay.spans[sec.ID])
		}
	}
}

// refreshSections re-renders just the named sections in place. Their heights
// are stable by construction, so spans and rects stay valid.
func (m *Model) refreshSections(ids map[string]bool) {
	if len(ids) == 0 {
		return
	}
	w := ui.ContentWidth(m.width)
	for i := range m.site.Sections {
		sec := &m.site.Sections[i]
		if !ids[sec.ID] {
			continue
		}
		m.sections[i] = m.renderSection(sec, w, m.lay.spans[sec.ID].Top)
	}
	m.viewport.SetContent(strings.Join(m.sections, "\n"))
}

func (m *Model) refreshSection(id string) {
	m.refreshSections(map[string]bool{id: true})
}

// =============================================================================
// SCROLL
// =============================================================================

// setScroll moves the viewport to a document row and runs the scroll side
// effects: header condensation, back-to-top visibility, backdrop refresh,
// and the throttled visibility scan.
func (m *Model) setScroll(y int) {
	y = max(0, min(y, m.maxScroll()))
	moved := y != m.viewport.YOffset
	m.viewport.SetYOffset(y)
	if moved || !m.ready {
		m.afterScroll()
	}
}

// scrollBy moves relative to the current offset, interrupting any smooth
// travel in progress: user input always wins.
func (m *Model) scrollBy(delta int) {
	m.tween = nil
	m.setScroll(m.viewport.YOffset + delta)
}

func (m *Model) afterScroll() {
	y := m.viewport.YOffset

	condensed := y > m.cfg.Scroll.CondensedAfter
	if condensed != m.condensed {
		m.condensed = condensed
		m.refreshHeader()
		m.viewport.Height = m.viewportHeight()
		if id := m.heroSectionID(); id != "" {
			m.refreshSection(id) // the scroll cue follows the condensed flag
		}
	}

	wasVisible := m.backTop
	m.backTop = y > m.viewport.Height
	if wasVisible != m.backTop {
		m.computeFocusables()
		m.updateBackTopRect()
	}

	if !m.cfg.Motion.Reduce && len(m.site.Backdrop) > 0 {
		m.backdropDirty = true
	}

	// The first layout runs its own scan; consuming the throttle's leading
	// edge here would make it swallow the first real scroll instead.
	if !m.ready {
		return
	}
	if m.scrollThrottle.Ready(m.ctx.Clock.Now()) {
		m.runScan()
	}
}

// runScan is the expensive part of scrolling: visibility firing, lazy
// rendering, and the nav highlight. It runs throttled.
func (m *Model) runScan() {
	y := m.viewport.YOffset
	h := m.viewport.Height

	for _, id := range m.watcher.Scan(y, h) {
		m.fireSection(id)
	}

	relayout := false
	for _, id := range m.lazier.Scan(y, h) {
		m.lazyDone[id] = true
		relayout = true
	}
	if relayout {
		m.rebuildDocument()
	}

	m.updateActiveSection()
}

// fireSection starts a section's entrance. Under reduced motion it lands at
// rest immediately.
func (m *Model) fireSection(id string) {
	st := m.reveals[id]
	if st == nil || st.fired {
		return
	}
	st.fired = true
	if m.cfg.Motion.Reduce {
		st.wait, st.left = 0, 0
		m.refreshSection(id)
		return
	}
	sec := m.site.SectionByID(id)
	st.wait = int(sec.Delay() / m.cfg.Motion.Frame())
	st.left = revealFrames
}

func (m *Model) updateActiveSection() {
	y := m.viewport.YOffset
	active := ""
	for i := range m.site.Sections {
		if m.lay.spans[m.site.Sections[i].ID].Top <= y {
			active = m.site.Sections[i].ID
		}
	}
	if y >= m.maxScroll() && m.maxScroll() > 0 && len(m.site.Sections) > 0 {
		active = m.site.Sections[len(m.site.Sections)-1].ID
	}
	if active != m.activeSection {
		m.activeSection = active
		m.refreshHeader()
	}
}

// startScrollTo begins a smooth travel to a document row. With reduced
// motion the jump is instant.
func (m *Model) startScrollTo(row int) {
	row = max(0, min(row, m.maxScroll()))
	if m.cfg.Motion.Reduce {
		m.tween = nil
		m.setScroll(row)
		return
	}
	frames := int(m.cfg.Motion.Scroll() / m.cfg.Motion.Frame())
	m.tween = anim.NewScrollTween(m.viewport.YOffset, row, frames)
	if m.tween.Done() {
		m.setScroll(row)
		m.tween = nil
	}
}

// jumpToSection travels to a nav target and announces the arrival.
func (m *Model) jumpToSection(id string) {
	sec := m.site.SectionByID(id)
	if sec == nil {
		return
	}
	m.startScrollTo(m.lay.spans[id].Top)
	title := sec.Title
	if title == "" {
		title = sec.ID
	}
	m.ctx.Voice.Announce("Viewing "+title+".", a11y.Polite)
}

// =============================================================================
// FRAMES
// =============================================================================

// animating reports whether any decorative animation is mid-flight. Reduced
// motion pins this to false.
func (m *Model) animating() bool {
	if m.cfg.Motion.Reduce {
		return false
	}
	for _, st := range m.reveals {
		if st.fired && (st.wait > 0 || st.left > 0) {
			return true
		}
	}
	for id, cs := range m.counters {
		if !m.countersRunning(id) {
			continue
		}
		for _, c := range cs {
			if !c.Done() {
				return true
			}
		}
	}
	if m.marquee != nil && !m.marquee.Paused() {
		return true
	}
	if m.tween != nil && !m.tween.Done() {
		return true
	}
	return m.backdropDirty
}

// needFrames adds the one non-decorative wake-up: a throttled scan waiting
// for its trailing flush.
func (m *Model) needFrames() bool {
	return m.animating() || m.scrollThrottle.Pending()
}

// scheduleFrame keeps at most one frame tick in flight.
func (m *Model) scheduleFrame() tea.Cmd {
	if m.frameScheduled || !m.needFrames() {
		return nil
	}
	m.frameScheduled = true
	return m.sched.After(m.cfg.Motion.Frame(), frameMsg{})
}

// countersRunning reports whether a stats section's counters should tick:
// the section has fired and any entrance delay has elapsed.
func (m *Model) countersRunning(id string) bool {
	if !m.watcher.Fired(id) {
		return false
	}
	if st := m.reveals[id]; st != nil && st.wait > 0 {
		return false
	}
	return true
}

// advanceFrame runs one animation step and returns the sections that need a
// re-render.
func (m *Model) advanceFrame() map[string]bool {
	dirty := make(map[string]bool)

	if m.scrollThrottle.FlushDue(m.ctx.Clock.Now()) {
		m.runScan()
	}
	if m.cfg.Motion.Reduce {
		return dirty
	}

	for id, st := range m.reveals {
		if !st.fired || (st.wait == 0 && st.left == 0) {
			continue
		}
		if st.wait > 0 {
			st.wait--
		} else {
			st.left--
		}
		dirty[id] = true
	}

	for id, cs := range m.counters {
		if !m.countersRunning(id) {
			continue
		}
		for _, c := range cs {
			if !c.Done() {
				c.Tick()
				dirty[id] = true
			}
		}
	}

	if m.marquee != nil && !m.marquee.Paused() {
		m.marquee.Advance()
		if id := m.partnersSectionID(); id != "" {
			dirty[id] = true
		}
	}

	if m.tween != nil {
		m.tween.Tick()
		m.setScroll(m.tween.Pos())
		if m.tween != nil && m.tween.Done() {
			m.tween = nil
		}
	}

	if m.backdropDirty {
		m.backdropDirty = false
		if id := m.heroSectionID(); id != "" {
			dirty[id] = true
		}
	}

	return dirty
}

func (m *Model) partnersSectionID() string {
	for i := range m.site.Sections {
		if m.site.Sections[i].Kind == content.KindPartners {
			return m.site.Sections[i].ID
		}
	}
	return ""
}

// heroSectionID is where the parallax layers and the scroll cue render.
func (m *Model) heroSectionID() string {
	for i := range m.site.Sections {
		if m.site.Sections[i].Kind == content.KindHero {
			return m.site.Sections[i].ID
		}
	}
	return ""
}

// =============================================================================
// FOCUS
// =============================================================================

// computeFocusables rebuilds the tab order: skip link, nav links, then each
// section's stops in page order, then back-to-top while visible.
func (m *Model) computeFocusables() {
	fs := []focusable{{kind: FocusSkipLink}}
	for i := range m.site.Nav {
		fs = append(fs, focusable{kind: FocusNav, index: i})
	}
	for i := range m.site.Sections {
		sec := &m.site.Sections[i]
		switch sec.Kind {
		case content.KindFeatures:
			for j := range sec.Features {
				fs = append(fs, focusable{kind: FocusCard, section: sec.ID, index: j})
			}
		case content.KindPartners:
			if len(sec.Partners) > 0 {
				fs = append(fs, focusable{kind: FocusPartners, section: sec.ID})
			}
		case content.KindContact:
			if sec.Form != nil {
				for j := range sec.Form.Fields {
					fs = append(fs, focusable{kind: FocusField, section: sec.ID, index: j})
				}
				fs = append(fs, focusable{kind: FocusSubmit, section: sec.ID})
			}
		}
	}
	if m.backTop {
		fs = append(fs, focusable{kind: FocusBackTop})
	}
	m.focusables = fs
	if m.focusIdx >= len(fs) {
		m.focusIdx = -1
	}
}

func (m *Model) currentFocus() *focusable {
	if m.focusIdx < 0 || m.focusIdx >= len(m.focusables) {
		return nil
	}
	return &m.focusables[m.focusIdx]
}

// moveFocus steps the tab order. The position after the last stop is "no
// focus", so tabbing cycles back through plain scrolling.
func (m *Model) moveFocus(delta int) tea.Cmd {
	n := len(m.focusables)
	if n == 0 {
		return nil
	}
	idx := m.focusIdx + delta
	if idx >= n {
		idx = -1
	}
	if idx < -1 {
		idx = n - 1
	}
	return m.setFocus(idx)
}

func (m *Model) setFocus(idx int) tea.Cmd {
	prev := m.currentFocus()
	if prev != nil && prev.kind == FocusField {
		m.blurFormField()
	}

	dirty := make(map[string]bool)
	if prev != nil && prev.section != "" {
		dirty[prev.section] = true
	}

	m.focusIdx = idx
	var cmd tea.Cmd
	if f := m.currentFocus(); f != nil {
		if f.kind == FocusField {
			cmd = m.form.FocusField(f.index)
		}
		if f.section != "" {
			dirty[f.section] = true
		}
		m.ensureVisible(f)
	}

	m.syncMarqueePause()
	m.refreshHeader()
	m.refreshSections(dirty)
	return cmd
}

// blurFormField leaves the focused form field through the form's blur
// validation. A new inline error changes the form's height, so the document
// is rebuilt when the error set moved.
func (m *Model) blurFormField() {
	before := m.formErrorCount()
	m.form.Blur()
	if m.formErrorCount() != before {
		m.rebuildDocument()
	}
}

func (m *Model) formErrorCount() int {
	n := 0
	for i := range m.form.controls {
		if m.form.controls[i].invalid {
			n++
		}
	}
	return n
}

// ensureVisible scrolls the focus target into the middle band of the
// viewport. Chrome stops never scroll.
func (m *Model) ensureVisible(f *focusable) {
	var r rect
	switch f.kind {
	case FocusCard:
		cards := m.lay.cards[f.section]
		if f.index >= len(cards) {
			return
		}
		r = cards[f.index]
	case FocusPartners:
		r = m.lay.partners
	case FocusField:
		if f.index >= len(m.lay.fields) {
			return
		}
		r = m.lay.fields[f.index]
	case FocusSubmit:
		r = m.lay.submit
	default:
		return
	}

	y := m.viewport.YOffset
	h := m.viewport.Height
	m.tween = nil
	if r.top < y+1 {
		m.setScroll(r.top - 1)
	} else if r.top+r.height > y+h-1 {
		m.setScroll(r.top + r.height - h + 1)
	}
}

// syncMarqueePause keeps the partner strip still while it is hovered or
// focused, and always under reduced motion.
func (m *Model) syncMarqueePause() {
	if m.marquee == nil {
		return
	}
	paused := m.cfg.Motion.Reduce || m.hoverStrip
	if f := m.currentFocus(); f != nil && f.kind == FocusPartners {
		paused = true
	}
	m.marquee.SetPaused(paused)
}

// focusLabel describes the focused stop for the status line.
func (m *Model) focusLabel() string {
	f := m.currentFocus()
	if f == nil {
		return ""
	}
	switch f.kind {
	case FocusSkipLink:
		return "Skip to content"
	case FocusNav:
		if f.index < len(m.site.Nav) {
			return "Nav: " + m.site.Nav[f.index].Label
		}
	case FocusCard:
		if sec := m.site.SectionByID(f.section); sec != nil && f.index < len(sec.Features) {
			return "Card: " + sec.Features[f.index].Title
		}
	case FocusPartners:
		return "Partner strip (enter pauses)"
	case FocusField:
		if f.index < m.form.Len() {
			return "Field: " + m.form.controls[f.index].spec.Label
		}
	case FocusSubmit:
		return "Button: " + m.form.spec.Submit
	case FocusBackTop:
		return "Back to top"
	}
	return ""
}

// goodbye is what replaces the page on quit.
func (m *Model) goodbye() string {
	return fmt.Sprintf("%s — see you soon.\n", m.site.Brand.Name)
}
