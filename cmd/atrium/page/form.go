package page

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"atrium/cmd/atrium/ui"
	"atrium/internal/a11y"
	"atrium/internal/content"
	"atrium/internal/form"
)

// FormPhase is where the contact form is in its submit cycle.
type FormPhase int

const (
	// FormIdle accepts input.
	FormIdle FormPhase = iota
	// FormSubmitting has a simulated send in flight; edits are ignored.
	FormSubmitting
	// FormSuccess shows the confirmation note until its hide timer fires.
	FormSuccess
)

// fieldControl is one field's widget plus its validation display state.
// Exactly one of input/area is live for text-like fields; selects keep an
// option index instead.
type fieldControl struct {
	spec    content.FieldSpec
	input   textinput.Model
	area    textarea.Model
	choice  int // select option index, -1 = nothing chosen
	invalid bool
	errText string
}

// Form drives the contact section: field widgets, blur validation, the
// phone mask, and the submit state machine. Timing lives in the page model;
// the form only hands back commands.
type Form struct {
	spec     content.FormSpec
	controls []fieldControl
	focus    int // focused field index, -1 = none
	phase    FormPhase

	submitSeq int
	hideSeq   int
	reference string

	spin  spinner.Model
	voice *a11y.Announcer
	log   *zap.Logger
}

// NewForm builds the form for a contact section spec.
func NewForm(spec content.FormSpec, styles ui.Styles, voice *a11y.Announcer, log *zap.Logger) Form {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	f := Form{
		spec:  spec,
		focus: -1,
		spin:  sp,
		voice: voice,
		log:   log,
	}
	for _, fs := range spec.Fields {
		f.controls = append(f.controls, newFieldControl(fs))
	}
	return f
}

func newFieldControl(fs content.FieldSpec) fieldControl {
	fc := fieldControl{spec: fs, choice: -1}
	switch fs.Type {
	case content.FieldTextarea:
		ta := textarea.New()
		ta.Placeholder = fs.Placeholder
		ta.ShowLineNumbers = false
		ta.SetHeight(3)
		ta.CharLimit = 2000
		fc.area = ta
	case content.FieldSelect:
		// No widget; cycled in place.
	default:
		ti := textinput.New()
		ti.Placeholder = fs.Placeholder
		ti.CharLimit = 200
		if fs.Type == content.FieldPhone {
			// Masked shape is (DD) DDDDD-DDDD, fifteen cells.
			ti.CharLimit = 15
		}
		fc.input = ti
	}
	return fc
}

// SetWidth resizes every field widget to the form's interior width.
func (f *Form) SetWidth(w int) {
	for i := range f.controls {
		switch f.controls[i].spec.Type {
		case content.FieldTextarea:
			f.controls[i].area.SetWidth(w)
		case content.FieldSelect:
		default:
			f.controls[i].input.Width = w - len(f.controls[i].input.Prompt)
		}
	}
}

// Len returns the number of fields.
func (f *Form) Len() int { return len(f.controls) }

// Phase returns the submit cycle phase.
func (f *Form) Phase() FormPhase { return f.phase }

// Busy reports whether a simulated send is in flight.
func (f *Form) Busy() bool { return f.phase == FormSubmitting }

// Reference returns the last accepted submission's reference.
func (f *Form) Reference() string { return f.reference }

// Focused returns the focused field index, or -1.
func (f *Form) Focused() int { return f.focus }

// value returns field i's current value. Phone values are already masked.
func (f *Form) value(i int) string {
	c := &f.controls[i]
	switch c.spec.Type {
	case content.FieldTextarea:
		return c.area.Value()
	case content.FieldSelect:
		if c.choice >= 0 && c.choice < len(c.spec.Options) {
			return c.spec.Options[c.choice]
		}
		return ""
	default:
		return c.input.Value()
	}
}

// Values snapshots every field keyed by its spec name.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.controls))
	for i := range f.controls {
		out[f.controls[i].spec.Name] = f.value(i)
	}
	return out
}

// FocusField moves field focus to index i, validating whatever field is
// being left. A negative i just blurs.
func (f *Form) FocusField(i int) tea.Cmd {
	f.Blur()
	if i < 0 || i >= len(f.controls) {
		f.focus = -1
		return nil
	}
	f.focus = i
	c := &f.controls[i]
	switch c.spec.Type {
	case content.FieldTextarea:
		return c.area.Focus()
	case content.FieldSelect:
		return nil
	default:
		return c.input.Focus()
	}
}

// Blur leaves the focused field, running its validation. Invalid fields get
// an inline error and an assertive announcement; they then re-validate on
// every keystroke until they pass.
func (f *Form) Blur() {
	if f.focus < 0 {
		return
	}
	c := &f.controls[f.focus]
	switch c.spec.Type {
	case content.FieldTextarea:
		c.area.Blur()
	case content.FieldSelect:
	default:
		c.input.Blur()
	}
	f.validateControl(f.focus, true)
	f.focus = -1
}

// validateControl refreshes field i's error state. When announce is set a
// fresh failure is spoken assertively.
func (f *Form) validateControl(i int, announce bool) {
	c := &f.controls[i]
	err := form.Validate(c.spec, f.value(i))
	if err == nil {
		c.invalid = false
		c.errText = ""
		return
	}
	c.invalid = true
	c.errText = err.Error()
	if announce && f.voice != nil {
		f.voice.Announce(form.Describe(c.spec, err), a11y.Assertive)
	}
}

// HandleKey sends a keystroke to the focused field. Edits are dropped while
// a send is in flight.
func (f *Form) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if f.focus < 0 || f.phase == FormSubmitting {
		return nil
	}
	c := &f.controls[f.focus]
	var cmd tea.Cmd
	switch c.spec.Type {
	case content.FieldTextarea:
		c.area, cmd = c.area.Update(msg)
	case content.FieldSelect:
		f.cycleChoice(c, msg)
	default:
		c.input, cmd = c.input.Update(msg)
		if c.spec.Type == content.FieldPhone {
			masked := form.MaskPhone(c.input.Value())
			if masked != c.input.Value() {
				c.input.SetValue(masked)
				c.input.CursorEnd()
			}
		}
	}
	// Fields showing an error clear it the moment the value passes.
	if c.invalid {
		f.validateControl(f.focus, false)
	}
	return cmd
}

func (f *Form) cycleChoice(c *fieldControl, msg tea.KeyMsg) {
	n := len(c.spec.Options)
	if n == 0 {
		return
	}
	switch msg.String() {
	case "left", "h":
		if c.choice <= 0 {
			c.choice = n - 1
		} else {
			c.choice--
		}
	case "right", "l", " ", "enter":
		c.choice = (c.choice + 1) % n
	}
}

// Submit runs full validation and, when everything passes, starts the
// simulated send. The returned index is the first invalid field (form
// order) for the page to focus, or -1 when the submission was accepted.
// Repeat submits while one is in flight are ignored.
func (f *Form) Submit(sched Scheduler, cfg submitTiming) (tea.Cmd, int) {
	if f.phase == FormSubmitting {
		return nil, -1
	}
	f.Blur()

	res := form.ValidateAll(f.spec.Fields, f.Values())
	for i := range f.controls {
		c := &f.controls[i]
		if err, bad := res[c.spec.Name]; bad {
			c.invalid = true
			c.errText = err.Error()
		} else {
			c.invalid = false
			c.errText = ""
		}
	}
	if !res.Valid() {
		first := form.FirstInvalid(f.spec.Fields, res)
		for i := range f.controls {
			if f.controls[i].spec.Name == first {
				if f.voice != nil {
					f.voice.Announce(form.Describe(f.controls[i].spec, res[first]), a11y.Assertive)
				}
				return nil, i
			}
		}
		return nil, -1
	}

	f.phase = FormSubmitting
	f.submitSeq++
	if f.voice != nil {
		f.voice.Announce(f.spec.Sending, a11y.Polite)
	}
	return tea.Batch(
		f.spin.Tick,
		sched.After(cfg.submitDelay, submitDoneMsg{seq: f.submitSeq}),
	), -1
}

// submitTiming carries the two delays the submit cycle uses.
type submitTiming struct {
	submitDelay    time.Duration
	successVisible time.Duration
}

// CompleteSubmit finishes the simulated send. Stale sequence numbers are
// discarded so an abandoned send cannot resurface later.
func (f *Form) CompleteSubmit(msg submitDoneMsg, sched Scheduler, cfg submitTiming) tea.Cmd {
	if f.phase != FormSubmitting || msg.seq != f.submitSeq {
		return nil
	}
	sub := form.NewSubmission(f.Values())
	f.reference = sub.Reference
	if f.log != nil {
		f.log.Info("contact form submitted",
			zap.String("reference", sub.Reference),
			zap.Int("fields", len(sub.Values)))
	}

	f.phase = FormSuccess
	f.clearFields()
	if f.voice != nil {
		f.voice.Announce(f.spec.Success+" Ref "+sub.Reference+".", a11y.Polite)
	}
	f.hideSeq++
	return sched.After(cfg.successVisible, successHideMsg{seq: f.hideSeq})
}

// HideSuccess retires the confirmation note. A stale sequence means a newer
// submission owns the note now.
func (f *Form) HideSuccess(msg successHideMsg) {
	if f.phase != FormSuccess || msg.seq != f.hideSeq {
		return
	}
	f.phase = FormIdle
}

// HandleSpinner advances the sending spinner; it stops ticking once the
// send completes.
func (f *Form) HandleSpinner(msg spinner.TickMsg) tea.Cmd {
	if f.phase != FormSubmitting {
		return nil
	}
	var cmd tea.Cmd
	f.spin, cmd = f.spin.Update(msg)
	return cmd
}

func (f *Form) clearFields() {
	for i := range f.controls {
		c := &f.controls[i]
		switch c.spec.Type {
		case content.FieldTextarea:
			c.area.Reset()
		case content.FieldSelect:
			c.choice = -1
		default:
			c.input.Reset()
		}
		c.invalid = false
		c.errText = ""
	}
}
