// Package observe tracks which page sections are visible in the viewport
// and fires a one-shot event the first time each crosses a visibility
// threshold. Reveal transitions, counter starts, and lazy section rendering
// all hang off these events. The watcher is pure bookkeeping; the page model
// calls Scan from its scroll and resize handlers.
package observe

// Span is a section's vertical extent in page rows.
type Span struct {
	Top    int
	Height int
}

// Watcher fires each observed id at most once. After firing, the id is
// dropped from scanning, so repeated passes over the same scroll position
// cost nothing and re-entering sections stay revealed.
type Watcher struct {
	threshold float64
	margin    int

	order []string
	spans map[string]Span
	fired map[string]bool
}

// NewWatcher builds a watcher. threshold is the fraction of a section that
// must be inside the viewport. margin shrinks the viewport's bottom edge by
// that many rows; a negative margin extends it, which lazy rendering uses to
// start work shortly before a section arrives.
func NewWatcher(threshold float64, margin int) *Watcher {
	return &Watcher{
		threshold: threshold,
		margin:    margin,
		spans:     make(map[string]Span),
		fired:     make(map[string]bool),
	}
}

// Observe registers a section. Observing an already fired id is a no-op, so
// re-registration after a relayout is safe.
func (w *Watcher) Observe(id string, span Span) {
	if w.fired[id] {
		return
	}
	if _, ok := w.spans[id]; !ok {
		w.order = append(w.order, id)
	}
	w.spans[id] = span
}

// Unobserve stops tracking an id without marking it fired.
func (w *Watcher) Unobserve(id string) {
	delete(w.spans, id)
}

// Scan reports the ids that cross the visibility threshold at the given
// scroll offset and viewport height, in registration order. Each reported id
// is marked fired and dropped from future scans.
func (w *Watcher) Scan(scroll, height int) []string {
	var hits []string
	for _, id := range w.order {
		span, ok := w.spans[id]
		if !ok || w.fired[id] {
			continue
		}
		if w.visible(span, scroll, height) {
			w.fired[id] = true
			delete(w.spans, id)
			hits = append(hits, id)
		}
	}
	return hits
}

// FireAll marks every tracked id fired and returns them in registration
// order. Reduced motion uses this so sections appear without transitions and
// no further scanning happens.
func (w *Watcher) FireAll() []string {
	var hits []string
	for _, id := range w.order {
		if _, ok := w.spans[id]; !ok || w.fired[id] {
			continue
		}
		w.fired[id] = true
		delete(w.spans, id)
		hits = append(hits, id)
	}
	return hits
}

// Fired reports whether an id has already fired.
func (w *Watcher) Fired(id string) bool { return w.fired[id] }

// Pending returns how many ids are still being tracked.
func (w *Watcher) Pending() int { return len(w.spans) }

// visible applies the threshold to the overlap between the span and the
// viewport. The fraction is taken against the smaller of the section and the
// viewport, so a section taller than the window reveals once it covers the
// same share of the window instead of never.
func (w *Watcher) visible(span Span, scroll, height int) bool {
	viewTop := scroll
	viewBot := scroll + height - w.margin
	if viewBot <= viewTop {
		return false
	}

	top := span.Top
	bot := span.Top + span.Height
	if span.Height <= 0 {
		return top >= viewTop && top < viewBot
	}

	overlap := min(bot, viewBot) - max(top, viewTop)
	if overlap <= 0 {
		return false
	}

	base := min(span.Height, height)
	if base <= 0 {
		return false
	}
	return float64(overlap)/float64(base) >= w.threshold
}
