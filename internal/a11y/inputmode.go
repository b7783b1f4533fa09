package a11y

// InputMode is how the user last interacted with the page.
type InputMode int

const (
	ModeKeyboard InputMode = iota
	ModePointer
)

// ModeTracker remembers the last input kind. Focus outlines render only in
// keyboard mode, and pointer-only effects (card tilt, hover pauses) only run
// in pointer mode. Pages start in keyboard mode.
type ModeTracker struct {
	mode InputMode
}

func NewModeTracker() *ModeTracker {
	return &ModeTracker{mode: ModeKeyboard}
}

// NoteKey records a keystroke.
func (t *ModeTracker) NoteKey() { t.mode = ModeKeyboard }

// NoteMouse records pointer activity.
func (t *ModeTracker) NoteMouse() { t.mode = ModePointer }

// Mode returns the current input mode.
func (t *ModeTracker) Mode() InputMode { return t.mode }

// Keyboard reports whether focus outlines should render.
func (t *ModeTracker) Keyboard() bool { return t.mode == ModeKeyboard }
