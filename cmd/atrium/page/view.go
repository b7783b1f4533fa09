package page

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"atrium/cmd/atrium/ui"
	"atrium/internal/a11y"
	"atrium/internal/anim"
	"atrium/internal/content"
)

// cardHeight is a feature card's outer height: three content rows, vertical
// padding, and the border. Fixed so the grid never reflows mid-animation.
const cardHeight = 7

// backTopLabel is the footer's back-to-top affordance.
const backTopLabel = " ▲ top "

// linesOf counts the rendered lines of a row list; elements can be
// multi-line blocks.
func linesOf(rows []string) int {
	n := 0
	for _, r := range rows {
		n += lipgloss.Height(r)
	}
	return n
}

// View renders the page: pinned header, the scrolling document, the live
// status line, and the hotkey footer.
func (m Model) View() string {
	if m.quitting {
		return m.goodbye()
	}
	if !m.ready {
		return "\n  Opening atrium..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView,
		m.viewport.View(),
		m.renderStatusLine(),
		m.renderFooterLine(),
	)
}

// =============================================================================
// CHROME
// =============================================================================

// refreshHeader rebuilds the pinned header and the hit areas inside it. The
// header has two shapes: expanded (brand, tagline, nav) and condensed (one
// row) once the page scrolls past the threshold. On narrow terminals the
// inline nav gives way to a menu button, and the open menu stacks its links
// under the border.
func (m *Model) refreshHeader() {
	w := max(1, m.width)
	st := m.styles
	keyboard := m.ctx.Modes.Keyboard()

	m.navRects = nil
	m.menuBtnRect = rect{}
	m.menuItemRects = nil

	brand := st.Brand.Render(" " + m.site.Brand.Name + " ")
	if f := m.currentFocus(); f != nil && f.kind == FocusSkipLink {
		brand = st.SkipLink.Render(" Skip to content ⏎ ")
	}

	var right string
	if ui.NavInline(w) {
		var parts []string
		for i, link := range m.site.Nav {
			style := st.NavItem
			if link.Section == m.activeSection {
				style = st.NavItemActive
			}
			if f := m.currentFocus(); keyboard && f != nil && f.kind == FocusNav && f.index == i {
				style = st.NavItemFocus
			}
			parts = append(parts, style.Render(link.Label))
		}
		right = strings.Join(parts, " ")
	} else if len(m.site.Nav) > 0 {
		label := " ☰ menu (m) "
		if m.menuOpen {
			label = " ☰ close (m) "
		}
		right = st.NavItem.Render(label)
	}

	gap := w - lipgloss.Width(brand) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	topRow := brand + strings.Repeat(" ", gap) + right

	// Hit areas live on the top row.
	if ui.NavInline(w) {
		col := lipgloss.Width(brand) + gap
		for _, link := range m.site.Nav {
			style := st.NavItem
			if link.Section == m.activeSection {
				style = st.NavItemActive
			}
			iw := lipgloss.Width(style.Render(link.Label))
			m.navRects = append(m.navRects, rect{top: 0, left: col, height: 1, width: iw})
			col += iw + 1
		}
	} else if len(m.site.Nav) > 0 {
		bw := lipgloss.Width(right)
		m.menuBtnRect = rect{top: 0, left: w - bw, height: 1, width: bw}
	}

	rows := []string{topRow}
	if !m.condensed {
		rows = append(rows, " "+st.Tagline.Render(m.site.Brand.Tagline))
	}
	border := st.Theme.Border
	if m.condensed {
		border = st.Theme.Accent
	}
	rows = append(rows, lipgloss.NewStyle().Foreground(border).Render(strings.Repeat("─", w)))

	if m.menuOpen {
		base := len(rows)
		for i, link := range m.site.Nav {
			style := st.NavItem
			if i == m.menuIdx {
				style = st.NavItemFocus
			}
			row := "  " + style.Render(link.Label)
			m.menuItemRects = append(m.menuItemRects,
				rect{top: base + i, left: 0, height: 1, width: w})
			rows = append(rows, row)
		}
		rows = append(rows, lipgloss.NewStyle().Foreground(st.Theme.Border).Render(strings.Repeat("─", w)))
	}

	m.headerView = strings.Join(rows, "\n")
	m.headerH = len(rows)
}

// renderStatusLine is the page's live region: the announcer's current text
// on the left, the focused stop on the right.
func (m Model) renderStatusLine() string {
	st := m.styles
	left := m.ctx.Voice.Current()
	if left != "" && m.ctx.Voice.CurrentPriority() == a11y.Assertive {
		left = st.Error.Render(left)
	} else if left != "" {
		left = st.StatusLine.Render(left)
	}

	right := ""
	if label := m.focusLabel(); label != "" && m.ctx.Modes.Keyboard() {
		right = st.Info.Render("[" + label + "]")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(left)
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderFooterLine shows the hotkeys and, past the first screen, the
// back-to-top affordance.
func (m Model) renderFooterLine() string {
	st := m.styles
	keys := st.Footer.Render("tab focus · enter activate · m menu · t top · q quit")

	right := ""
	if m.backTop {
		style := st.BackToTop
		if f := m.currentFocus(); f != nil && f.kind == FocusBackTop && m.ctx.Modes.Keyboard() {
			style = style.Reverse(true)
		}
		right = style.Render(backTopLabel)
	}

	gap := m.width - lipgloss.Width(keys) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(keys)
	}
	return keys + strings.Repeat(" ", gap) + right
}

// =============================================================================
// SECTIONS
// =============================================================================

// renderSection renders one section at the given width, recording hit areas
// against the section's document top, then applies its entrance state.
func (m *Model) renderSection(sec *content.Section, w, top int) string {
	var block string
	switch sec.Kind {
	case content.KindHero:
		block = m.renderHero(sec, w, top)
	case content.KindStats:
		block = m.renderStats(sec, w)
	case content.KindFeatures:
		block = m.renderFeatures(sec, w, top)
	case content.KindPartners:
		block = m.renderPartners(sec, w, top)
	case content.KindPanel:
		block = m.renderPanel(sec, w)
	case content.KindContact:
		block = m.renderContact(sec, w, top)
	case content.KindFooter:
		block = m.renderFooterSection(sec, w)
	default:
		block = m.styles.Body.Render(sec.Body)
	}
	return m.decorateReveal(sec.ID, block)
}

// renderHero draws the opening section with the parallax backdrop band
// above the title. Each layer drifts at its own speed as the page scrolls;
// reduced motion holds every layer at rest. The scroll cue at the bottom
// invites the first scroll and goes blank once the reader is past the
// condensation threshold; its row is always reserved so the hero never
// changes height.
func (m *Model) renderHero(sec *content.Section, w, top int) string {
	st := m.styles
	var rows []string

	scroll := m.viewport.YOffset
	for _, layer := range m.site.Backdrop {
		shift := 0
		if !m.cfg.Motion.Reduce {
			shift = anim.ParallaxShift(scroll, layer.Speed)
		}
		rows = append(rows, st.Backdrop.Render(backdropRow(layer.Glyphs, w, shift)))
	}

	title := sec.Title
	if title == "" {
		title = m.site.Brand.Name
	}
	rows = append(rows, st.Hero.Width(w).Render(title))
	if sec.Body != "" {
		rows = append(rows, st.Body.Width(w).Render(sec.Body))
	}

	m.lay.heroCue = rect{}
	cueRow := ""
	if !m.condensed {
		cue := st.Muted.Render("▾ scroll")
		m.lay.heroCue = rect{top: top + linesOf(rows), left: 0, height: 1, width: lipgloss.Width(cue)}
		cueRow = cue
	}
	rows = append(rows, cueRow, m.styles.RenderDivider(w))
	return strings.Join(rows, "\n")
}

// backdropRow tiles a glyph pattern across the width, rotated by the
// parallax shift.
func backdropRow(glyphs string, width, shift int) string {
	if width <= 0 {
		return ""
	}
	unit := []rune(glyphs + "   ")
	if len(unit) == 0 {
		return strings.Repeat(" ", width)
	}
	row := make([]rune, width)
	n := len(unit)
	for i := 0; i < width; i++ {
		row[i] = unit[((i+shift)%n+n)%n]
	}
	return string(row)
}

// renderStats lays the counters out in a grid. Values are padded to their
// target's width so the grid holds still while they climb.
func (m *Model) renderStats(sec *content.Section, w int) string {
	st := m.styles
	var rows []string
	if sec.Title != "" {
		rows = append(rows, st.SectionTitle.Render(sec.Title), "")
	}

	cols := ui.Columns(w)
	cellW := max(8, w/max(1, cols))
	counters := m.counters[sec.ID]

	var cells []string
	for i, stat := range sec.Stats {
		val := 0
		if i < len(counters) {
			val = counters[i].Value()
		}
		width := len(strconv.Itoa(stat.Target))
		value := fmt.Sprintf("%*d%s", width, val, stat.Suffix)
		cell := lipgloss.JoinVertical(lipgloss.Left,
			st.StatValue.Width(cellW).Render(value),
			st.StatLabel.Width(cellW).Render(stat.Label),
		)
		cells = append(cells, cell)
		if len(cells) == cols || i == len(sec.Stats)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
			rows = append(rows, "")
			cells = nil
		}
	}
	rows = append(rows, m.styles.RenderDivider(w))
	return strings.Join(rows, "\n")
}

// renderFeatures draws the card grid, recording each card's rect for the
// pointer. The hovered or focused card gets the accent border, and hovered
// tilt cards lean toward the pointer.
func (m *Model) renderFeatures(sec *content.Section, w, top int) string {
	st := m.styles
	var rows []string
	if sec.Title != "" {
		rows = append(rows, st.SectionTitle.Render(sec.Title), "")
	}
	headH := linesOf(rows)

	cols := ui.Columns(w)
	for cols > 1 && w/cols < ui.MinCardWidth {
		cols--
	}
	cw := max(ui.MinCardWidth, (w-(cols-1))/cols)

	rects := make([]rect, 0, len(sec.Features))
	var grid []string
	var line []string
	for j, feat := range sec.Features {
		r := j / cols
		c := j % cols
		focused := false
		if f := m.currentFocus(); f != nil && f.kind == FocusCard &&
			f.section == sec.ID && f.index == j && m.ctx.Modes.Keyboard() {
			focused = true
		}
		key := fmt.Sprintf("%s:%d", sec.ID, j)
		hovered := m.hoverCard == key
		tilt := 0
		if hovered && feat.Tilt {
			tilt = m.tilt
		}
		line = append(line, m.renderCard(feat, cw, focused || hovered, tilt))
		rects = append(rects, rect{
			top:    top + headH + r*cardHeight,
			left:   c * (cw + 1),
			height: cardHeight,
			width:  cw,
		})
		if c == cols-1 || j == len(sec.Features)-1 {
			spaced := make([]string, 0, len(line)*2)
			for k, card := range line {
				if k > 0 {
					spaced = append(spaced, " ")
				}
				spaced = append(spaced, card)
			}
			grid = append(grid, lipgloss.JoinHorizontal(lipgloss.Top, spaced...))
			line = nil
		}
	}
	m.lay.cards[sec.ID] = rects

	rows = append(rows, grid...)
	rows = append(rows, "", m.styles.RenderDivider(w))
	return strings.Join(rows, "\n")
}

// renderCard draws one feature card at a fixed height. The tilt shift moves
// the interior within the padding slack, one cell either way.
func (m *Model) renderCard(feat content.Feature, cw int, active bool, tilt int) string {
	st := m.styles
	inner := cw - 6 // border and horizontal padding
	if inner < 4 {
		inner = 4
	}

	lead := strings.Repeat(" ", 1+max(-1, min(1, tilt)))
	title := lead + st.CardIcon.Render(feat.Icon) + " " + feat.Title
	body := cropLines(lipgloss.NewStyle().Width(inner-2).Render(feat.Body), 2)
	bodyLines := strings.Split(body, "\n")
	for i := range bodyLines {
		bodyLines[i] = lead + bodyLines[i]
	}

	style := st.Card
	if active {
		style = st.CardFocus
	}
	return style.Width(cw - 2).Height(cardHeight - 2).Render(
		lipgloss.NewStyle().MaxWidth(inner).Render(
			strings.Join(append([]string{title}, bodyLines...), "\n")))
}

// cropLines keeps the first n lines of a block.
func cropLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

// renderPartners draws the marquee strip. The strip's rect covers the
// scrolling row so hover can pause it.
func (m *Model) renderPartners(sec *content.Section, w, top int) string {
	st := m.styles
	var rows []string
	if sec.Title != "" {
		rows = append(rows, st.SectionTitle.Render(sec.Title), "")
	}

	strip := ""
	if m.marquee != nil {
		strip = m.marquee.Window(w)
	}
	style := st.Partner
	if f := m.currentFocus(); f != nil && f.kind == FocusPartners && m.ctx.Modes.Keyboard() {
		style = st.NavItemFocus
	}
	m.lay.partners = rect{top: top + linesOf(rows), left: 0, height: 1, width: w}
	rows = append(rows, style.Render(strip))

	if m.marquee != nil && m.marquee.Paused() && !m.cfg.Motion.Reduce {
		rows = append(rows, st.Muted.Render("(paused)"))
	} else {
		rows = append(rows, "")
	}
	rows = append(rows, m.styles.RenderDivider(w))
	return strings.Join(rows, "\n")
}

// renderPanel draws a markdown panel. Lazy panels hold a fixed-height
// placeholder until the viewport gets close, then swap in the real body.
func (m *Model) renderPanel(sec *content.Section, w int) string {
	st := m.styles
	var rows []string
	if sec.Title != "" {
		rows = append(rows, st.SectionTitle.Render(sec.Title), "")
	}

	if sec.Lazy && !m.lazyDone[sec.ID] {
		rows = append(rows, st.Muted.Render("· · ·"))
		for i := 1; i < lazyPlaceholderRows; i++ {
			rows = append(rows, "")
		}
	} else {
		rows = append(rows, m.safeRenderMarkdown(sec.Body))
	}
	rows = append(rows, "", m.styles.RenderDivider(w))
	return strings.Join(rows, "\n")
}

// renderContact draws the form: labeled fields with inline errors, the
// submit button, and the success note while it is up.
func (m *Model) renderContact(sec *content.Section, w, top int) string {
	st := m.styles
	var rows []string
	if sec.Title != "" {
		rows = append(rows, st.SectionTitle.Render(sec.Title), "")
	}
	if sec.Body != "" {
		rows = append(rows, st.Body.Width(w).Render(sec.Body), "")
	}

	m.lay.fields = m.lay.fields[:0]
	for i := range m.form.controls {
		c := &m.form.controls[i]
		fieldTop := top + linesOf(rows)

		label := st.FormLabel.Render(c.spec.Label)
		if c.spec.Required {
			label += st.FormRequired.Render(" *")
		}
		rows = append(rows, label)
		rows = append(rows, m.renderFieldInput(i))
		if c.invalid {
			rows = append(rows, st.FormError.Render("✗ "+c.errText))
		}
		fieldH := top + linesOf(rows) - fieldTop
		rows = append(rows, "")

		m.lay.fields = append(m.lay.fields, rect{
			top:    fieldTop,
			left:   0,
			height: fieldH,
			width:  w,
		})
	}

	buttonTop := top + linesOf(rows)
	rows = append(rows, m.renderSubmitRow())
	m.lay.submit = rect{top: buttonTop, left: 0, height: 1, width: lipgloss.Width(rows[len(rows)-1])}

	if m.form.Phase() == FormSuccess {
		note := fmt.Sprintf("%s  Ref %s", m.form.spec.Success, m.form.Reference())
		rows = append(rows, "", st.Notice.Render(note))
	}

	rows = append(rows, "", m.styles.RenderDivider(w))
	return strings.Join(rows, "\n")
}

// renderFieldInput draws one field's widget row.
func (m *Model) renderFieldInput(i int) string {
	c := &m.form.controls[i]
	switch c.spec.Type {
	case content.FieldTextarea:
		return c.area.View()
	case content.FieldSelect:
		display := c.spec.Placeholder
		if display == "" {
			display = "choose"
		}
		if c.choice >= 0 && c.choice < len(c.spec.Options) {
			display = c.spec.Options[c.choice]
		}
		style := m.styles.Muted
		if m.form.Focused() == i {
			style = m.styles.Body
		}
		return style.Render("‹ "+display+" ›") + m.styles.FormHelp.Render("  (space cycles)")
	default:
		return c.input.View()
	}
}

// renderSubmitRow draws the button in its three moods: ready, sending with
// the spinner, and right after success.
func (m *Model) renderSubmitRow() string {
	st := m.styles
	f := m.currentFocus()
	focused := f != nil && f.kind == FocusSubmit && m.ctx.Modes.Keyboard()

	switch m.form.Phase() {
	case FormSubmitting:
		return st.Button.Render(m.form.spin.View() + " " + m.form.spec.Sending)
	default:
		style := st.Button
		if focused {
			style = st.ButtonFocus
		}
		return style.Render(m.form.spec.Submit)
	}
}

// renderFooterSection is the document's closing block.
func (m *Model) renderFooterSection(sec *content.Section, w int) string {
	st := m.styles
	var rows []string
	rows = append(rows, m.styles.RenderDivider(w))
	if sec.Body != "" {
		rows = append(rows, st.Muted.Width(w).Render(sec.Body))
	}
	rows = append(rows, st.Muted.Render(m.site.Brand.Name))
	return strings.Join(rows, "\n")
}

// =============================================================================
// REVEAL
// =============================================================================

// decorateReveal applies a section's entrance state to its rendered block.
// Height is always preserved so the layout stays put: unfired sections are
// blank, mid-transition sections are partially drawn.
func (m *Model) decorateReveal(id, block string) string {
	st := m.reveals[id]
	if st == nil || st.done() {
		return block
	}
	h := lipgloss.Height(block)
	if !st.fired || st.wait > 0 || st.left >= revealFrames {
		return blankBlock(h)
	}

	sec := m.site.SectionByID(id)
	cw := ui.ContentWidth(m.width)
	switch sec.Reveal {
	case content.RevealFade:
		if st.left > revealFrames/2 {
			return blankBlock(h)
		}
		return block
	case content.RevealRise:
		return shiftDown(block, st.left)
	case content.RevealSlideLeft:
		// Pushed right, then cropped back to the content width so the
		// block slides under the page edge instead of wrapping.
		return trimBlock(indentBlock(block, st.left*2), cw, 0)
	case content.RevealSlideRight:
		return trimBlock(block, cw, st.left*2)
	}
	return block
}

// blankBlock is an empty block of the given height.
func blankBlock(h int) string {
	if h <= 1 {
		return ""
	}
	return strings.Repeat("\n", h-1)
}

// shiftDown slides a block's content down by n rows inside its own height.
func shiftDown(block string, n int) string {
	lines := strings.Split(block, "\n")
	if n <= 0 || len(lines) == 0 {
		return block
	}
	if n >= len(lines) {
		return blankBlock(len(lines))
	}
	shifted := make([]string, 0, len(lines))
	for i := 0; i < n; i++ {
		shifted = append(shifted, "")
	}
	shifted = append(shifted, lines[:len(lines)-n]...)
	return strings.Join(shifted, "\n")
}

// indentBlock pushes every line right; callers crop the result back to
// their width.
func indentBlock(block string, n int) string {
	if n <= 0 {
		return block
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(block, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

// trimBlock crops every line to width-n cells, so content grows in from the
// left edge as n falls.
func trimBlock(block string, width, n int) string {
	keep := width - n
	if keep <= 0 {
		keep = 1
	}
	crop := lipgloss.NewStyle().MaxWidth(keep)
	lines := strings.Split(block, "\n")
	for i := range lines {
		lines[i] = crop.Render(lines[i])
	}
	return strings.Join(lines, "\n")
}

// safeRenderMarkdown renders markdown, falling back to the raw text if the
// renderer is unavailable or blows up on odd input.
func (m *Model) safeRenderMarkdown(md string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			m.ctx.Log.Warn("markdown render panic", zap.Any("cause", r))
			out = md
		}
	}()
	if m.renderer == nil {
		return md
	}
	s, err := m.renderer.Render(md)
	if err != nil {
		m.ctx.Log.Warn("markdown render failed", zap.Error(err))
		return md
	}
	return strings.TrimRight(s, "\n")
}
