// Package a11y carries the page's accessibility state: the announcer line
// that mirrors dynamic changes for assistive output, and the input-mode
// tracker that decides when focus outlines show.
package a11y

// Priority mirrors the two assistive urgency levels: polite messages wait
// their turn, assertive ones (form errors) replace whatever is showing.
type Priority int

const (
	Polite Priority = iota
	Assertive
)

// historyCap bounds the announcement log kept for the verbose overlay.
const historyCap = 32

// Announcer holds the current status-line message and a short history.
// It is owned by the update loop and is not safe for concurrent use.
type Announcer struct {
	current  string
	priority Priority
	history  []string
}

func NewAnnouncer() *Announcer {
	return &Announcer{}
}

// Announce replaces the current message. A polite message does not displace
// an assertive one; clearing or another assertive message does.
func (a *Announcer) Announce(msg string, p Priority) {
	if msg == "" {
		return
	}
	if p == Polite && a.current != "" && a.priority == Assertive {
		a.remember(msg)
		return
	}
	a.current = msg
	a.priority = p
	a.remember(msg)
}

// Clear empties the status line.
func (a *Announcer) Clear() {
	a.current = ""
	a.priority = Polite
}

// Current returns the message the status line should show.
func (a *Announcer) Current() string { return a.current }

// CurrentPriority returns the showing message's urgency; the status line
// styles assertive messages as errors.
func (a *Announcer) CurrentPriority() Priority { return a.priority }

// Recent returns up to n announcements, newest first.
func (a *Announcer) Recent(n int) []string {
	if n > len(a.history) {
		n = len(a.history)
	}
	out := make([]string, 0, n)
	for i := len(a.history) - 1; i >= len(a.history)-n; i-- {
		out = append(out, a.history[i])
	}
	return out
}

func (a *Announcer) remember(msg string) {
	a.history = append(a.history, msg)
	if len(a.history) > historyCap {
		a.history = a.history[len(a.history)-historyCap:]
	}
}
