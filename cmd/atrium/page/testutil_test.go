// Test utilities for the page package: a deterministic content document, a
// scheduler that captures wake-ups instead of sleeping, and helpers that
// drive the model through Update the way the runtime would.
package page

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"atrium/cmd/atrium/ui"
	"atrium/internal/clock"
	"atrium/internal/config"
	"atrium/internal/content"
)

// testEpoch anchors the mock clock; tests advance from here.
var testEpoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// =============================================================================
// CAPTURE SCHEDULER
// =============================================================================

// scheduledCall is one recorded wake-up request.
type scheduledCall struct {
	delay time.Duration
	msg   tea.Msg
}

// captureScheduler records every After call. Tests deliver the captured
// messages themselves, so nothing ever sleeps.
type captureScheduler struct {
	mu    sync.Mutex
	calls []scheduledCall
}

func (s *captureScheduler) After(d time.Duration, msg tea.Msg) tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, scheduledCall{delay: d, msg: msg})
	return func() tea.Msg { return nil }
}

// Calls returns a copy of everything scheduled so far.
func (s *captureScheduler) Calls() []scheduledCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scheduledCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// Reset forgets recorded calls.
func (s *captureScheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// FrameCount counts scheduled animation ticks.
func (s *captureScheduler) FrameCount() int {
	n := 0
	for _, c := range s.Calls() {
		if _, ok := c.msg.(frameMsg); ok {
			n++
		}
	}
	return n
}

// LastSubmitDone returns the newest scheduled submit completion.
func (s *captureScheduler) LastSubmitDone() (submitDoneMsg, bool) {
	calls := s.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if m, ok := calls[i].msg.(submitDoneMsg); ok {
			return m, true
		}
	}
	return submitDoneMsg{}, false
}

// LastSuccessHide returns the newest scheduled success retirement.
func (s *captureScheduler) LastSuccessHide() (successHideMsg, bool) {
	calls := s.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if m, ok := calls[i].msg.(successHideMsg); ok {
			return m, true
		}
	}
	return successHideMsg{}, false
}

// LastResizeSettled returns the newest scheduled resize wake-up.
func (s *captureScheduler) LastResizeSettled() (resizeSettledMsg, bool) {
	calls := s.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if m, ok := calls[i].msg.(resizeSettledMsg); ok {
			return m, true
		}
	}
	return resizeSettledMsg{}, false
}

// =============================================================================
// FIXTURES
// =============================================================================

// testSite builds a small document exercising every section kind. Heights
// are kept modest so the lower half sits outside a 24-row terminal.
func testSite() *content.Site {
	return &content.Site{
		Brand: content.Brand{Name: "Atrium Test", Tagline: "fixtures with taste"},
		Nav: []content.NavLink{
			{Label: "Home", Section: "hero"},
			{Label: "Numbers", Section: "numbers"},
			{Label: "Services", Section: "services"},
			{Label: "Contact", Section: "contact"},
		},
		Backdrop: []content.Layer{
			{Glyphs: "·", Speed: 0.25},
			{Glyphs: "✦", Speed: 0.5},
		},
		Sections: []content.Section{
			{ID: "hero", Kind: content.KindHero, Title: "Welcome", Body: "A test page."},
			{ID: "numbers", Kind: content.KindStats, Title: "Numbers", Stats: []content.Stat{
				{Label: "Projects", Target: 40},
				{Label: "Clients", Target: 12, Suffix: "+"},
			}},
			{ID: "services", Kind: content.KindFeatures, Title: "Services", Reveal: content.RevealRise, Features: []content.Feature{
				{Icon: "◆", Title: "Design", Body: "Considered interfaces.", Tilt: true},
				{Icon: "●", Title: "Build", Body: "Robust delivery.", Tilt: false},
			}},
			{ID: "partners", Kind: content.KindPartners, Title: "Partners", Partners: []string{"Acme", "Globex", "Initech"}},
			{ID: "studio", Kind: content.KindPanel, Title: "Studio", Body: "Notes on **craft**.", Reveal: content.RevealSlideLeft, RevealDelay: "96ms", Lazy: true},
			{ID: "contact", Kind: content.KindContact, Title: "Contact", Reveal: content.RevealFade, Form: &content.FormSpec{
				Fields: []content.FieldSpec{
					{Name: "name", Label: "Name", Type: content.FieldText, Required: true},
					{Name: "email", Label: "Email", Type: content.FieldEmail, Required: true},
					{Name: "phone", Label: "Phone", Type: content.FieldPhone},
					{Name: "topic", Label: "Topic", Type: content.FieldSelect, Required: true, Options: []string{"General", "Support"}},
					{Name: "message", Label: "Message", Type: content.FieldTextarea, Required: true},
				},
				Submit:  "Send message",
				Sending: "Sending...",
				Success: "Message sent.",
			}},
			{ID: "footer", Kind: content.KindFooter, Body: "© Atrium Test"},
		},
	}
}

var testStyles = ui.NewStyles(ui.LightTheme())

// TestModelOption adjusts construction options.
type TestModelOption func(*Options)

// WithSite substitutes the content document.
func WithSite(s *content.Site) TestModelOption {
	return func(o *Options) { o.Site = s }
}

// WithConfig substitutes the whole configuration.
func WithConfig(c *config.Config) TestModelOption {
	return func(o *Options) { o.Config = c }
}

// WithReducedMotion turns the reduced-motion preference on.
func WithReducedMotion() TestModelOption {
	return func(o *Options) { o.Config.Motion.Reduce = true }
}

// WithClock substitutes the time source.
func WithClock(c clock.Clock) TestModelOption {
	return func(o *Options) { o.Clock = c }
}

// WithScheduler substitutes the wake-up scheduler.
func WithScheduler(s Scheduler) TestModelOption {
	return func(o *Options) { o.Scheduler = s }
}

// NewTestModel builds a model over the fixture document with a mock clock
// and a capture scheduler, then applies the options.
func NewTestModel(opts ...TestModelOption) Model {
	o := Options{
		Site:      testSite(),
		Config:    config.DefaultConfig(),
		Styles:    &testStyles,
		Log:       zap.NewNop(),
		Clock:     clock.NewMock(testEpoch),
		Scheduler: &captureScheduler{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return New(o)
}

// =============================================================================
// DRIVERS
// =============================================================================

// step feeds one message through Update.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	nm, cmd := m.Update(msg)
	out, ok := nm.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want page.Model", nm)
	}
	return out, cmd
}

// sized readies the model at the given terminal size.
func sized(t *testing.T, m Model, w, h int) Model {
	t.Helper()
	m, _ = step(t, m, tea.WindowSizeMsg{Width: w, Height: h})
	return m
}

// key builds a KeyMsg whose String() matches the given name.
func key(name string) tea.KeyMsg {
	switch name {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
}

// press runs one key through Update.
func press(t *testing.T, m Model, name string) Model {
	t.Helper()
	m, _ = step(t, m, key(name))
	return m
}

// typeText delivers a string one rune at a time.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// frames delivers n animation ticks.
func frames(t *testing.T, m Model, n int) Model {
	t.Helper()
	for i := 0; i < n; i++ {
		m, _ = step(t, m, frameMsg{})
	}
	return m
}

// focusStop moves page focus to the first stop matching the kind (and field
// index for form fields).
func focusStop(t *testing.T, m Model, kind FocusKind, index int) Model {
	t.Helper()
	for i, f := range m.focusables {
		if f.kind != kind {
			continue
		}
		if kind == FocusField && f.index != index {
			continue
		}
		m.setFocus(i)
		return m
	}
	t.Fatalf("no focus stop of kind %d (index %d)", kind, index)
	return m
}

// fieldIndex finds a form field's position by spec name.
func fieldIndex(t *testing.T, m Model, name string) int {
	t.Helper()
	for i := range m.form.controls {
		if m.form.controls[i].spec.Name == name {
			return i
		}
	}
	t.Fatalf("no form field named %q", name)
	return -1
}

// fillValidForm sets every field to an accepted value without going through
// keystrokes; tests that exercise typing do that explicitly.
func fillValidForm(t *testing.T, m Model) Model {
	t.Helper()
	for i := range m.form.controls {
		c := &m.form.controls[i]
		switch c.spec.Type {
		case content.FieldText:
			c.input.SetValue("Ada Lovelace")
		case content.FieldEmail:
			c.input.SetValue("ada@example.com")
		case content.FieldPhone:
			c.input.SetValue("(11) 98765-4321")
		case content.FieldSelect:
			c.choice = 0
		case content.FieldTextarea:
			c.area.SetValue("Hello from the test suite.")
		}
	}
	return m
}

// docText joins the rendered document for substring assertions.
func docText(m Model) string {
	return strings.Join(m.sections, "\n")
}

// sectionBlock returns one section's rendered block.
func sectionBlock(t *testing.T, m Model, id string) string {
	t.Helper()
	for i := range m.site.Sections {
		if m.site.Sections[i].ID == id {
			return m.sections[i]
		}
	}
	t.Fatalf("no section %q", id)
	return ""
}

// scheduler digs the capture scheduler back out of a model built by
// NewTestModel.
func scheduler(t *testing.T, m Model) *captureScheduler {
	t.Helper()
	cs, ok := m.sched.(*captureScheduler)
	if !ok {
		t.Fatalf("model scheduler is %T, want captureScheduler", m.sched)
	}
	return cs
}

// mockClock digs the mock clock back out of a model built by NewTestModel.
func mockClock(t *testing.T, m Model) *clock.Mock {
	t.Helper()
	mc, ok := m.ctx.Clock.(*clock.Mock)
	if !ok {
		t.Fatalf("model clock is %T, want clock.Mock", m.ctx.Clock)
	}
	return mc
}
